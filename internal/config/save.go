package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SaveFocusMode persists the focus-mode toggle to the config file so the
// choice survives restarts. Comments and formatting in other sections are
// preserved by editing the yaml.Node tree in place.
func SaveFocusMode(configPath string, enabled bool) error {
	return saveScalar(configPath, []string{"engine", "focus_mode"}, strconv.FormatBool(enabled), "!!bool")
}

// SaveSentenceEndings persists the terminator set to the config file.
func SaveSentenceEndings(configPath string, endings string) error {
	return saveScalar(configPath, []string{"engine", "sentence_endings"}, endings, "!!str")
}

// saveScalar sets a nested scalar value in the YAML document at path,
// creating intermediate mappings as needed, and writes the file atomically.
func saveScalar(configPath string, path []string, value, tag string) error {
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	node := doc.Content[0]
	for _, key := range path[:len(path)-1] {
		child := findOrAppend(node, key)
		if child.Kind == 0 {
			child.Kind = yaml.MappingNode
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("config key %q is not a mapping", key)
		}
		node = child
	}

	leaf := findOrAppend(node, path[len(path)-1])
	leaf.Kind = yaml.ScalarNode
	leaf.Tag = tag
	leaf.Value = value
	leaf.Content = nil
	leaf.Style = 0

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	return writeAtomic(configPath, buf.Bytes())
}

// findOrAppend returns the value node for key inside mapping, appending a
// fresh key/value pair when absent.
func findOrAppend(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	value := &yaml.Node{}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
	return value
}

// writeAtomic writes data to path via a temp file and rename, so a crash
// mid-write never truncates the config.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".scrivo.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
