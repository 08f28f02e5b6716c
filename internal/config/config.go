// Package config provides configuration types and defaults for scrivo.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dtannen/scrivo/internal/engine"
	"github.com/dtannen/scrivo/internal/log"
)

// Config holds all configuration options for scrivo.
type Config struct {
	AutoReload bool           `mapstructure:"auto_reload"` // Reload when the open file changes on disk
	Engine     EngineConfig   `mapstructure:"engine"`
	UI         UIConfig       `mapstructure:"ui"`
	Theme      ThemeConfig    `mapstructure:"theme"`
	Sessions   SessionsConfig `mapstructure:"sessions"`
	Tracing    TracingConfig  `mapstructure:"tracing"`
}

// EngineConfig holds sentence detection and focus-mode settings.
type EngineConfig struct {
	// SentenceEndings lists the terminator characters as a single string.
	// Default: ".!?"
	SentenceEndings string `mapstructure:"sentence_endings"`

	// FocusMode dims every sentence except the one under the caret.
	FocusMode bool `mapstructure:"focus_mode"`

	// FocusDimOpacity is the dim strength for inactive sentences (0.0-1.0).
	FocusDimOpacity float64 `mapstructure:"focus_dim_opacity"`

	// AutoScroll keeps the caret vertically centered while typing.
	AutoScroll bool `mapstructure:"auto_scroll"`

	// SmoothScroll animates viewport movement when AutoScroll is on.
	SmoothScroll bool `mapstructure:"smooth_scroll"`

	// HeadingTags lists markdown heading levels treated as standalone
	// sentences. Valid values: h1-h6.
	HeadingTags []string `mapstructure:"heading_tags"`

	// UpdateDebounceMS is the quiet window after typing before a re-scan.
	UpdateDebounceMS int `mapstructure:"update_debounce_ms"`

	// UpdateThrottleMS is the quiet window after caret movement before the
	// highlight follows.
	UpdateThrottleMS int `mapstructure:"update_throttle_ms"`

	// FastPathDelayMS replaces the debounce right after a sentence
	// terminator is typed.
	FastPathDelayMS int `mapstructure:"fast_path_delay_ms"`

	// ScanCache memoizes sentence scans by content hash.
	ScanCache bool `mapstructure:"scan_cache"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     text:
	//       primary: "#FF0000"
	// Or quoted dot notation:
	//   colors:
	//     "text.primary": "#FF0000"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// SessionsConfig holds writing-session tracking configuration.
type SessionsConfig struct {
	// Enabled controls whether writing sessions are recorded.
	Enabled bool `mapstructure:"enabled"`

	// DBPath is the sqlite database location.
	// Default: ~/.scrivo/scrivo.db
	DBPath string `mapstructure:"db_path"`

	// IdleTimeoutMS closes the current session after this much inactivity.
	IdleTimeoutMS int `mapstructure:"idle_timeout_ms"`
}

// TracingConfig holds trace export configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active. Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/scrivo/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/scrivo/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "scrivo", "traces", "traces.jsonl")
}

// DefaultDBPath returns the default location for the sessions database.
// Returns ~/.scrivo/scrivo.db or empty string if home dir unavailable.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".scrivo", "scrivo.db")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoReload: true,
		Engine: EngineConfig{
			SentenceEndings:  ".!?",
			FocusMode:        true,
			FocusDimOpacity:  engine.DefaultFocusDimOpacity,
			AutoScroll:       true,
			SmoothScroll:     true,
			HeadingTags:      []string{"h1", "h2", "h3"},
			UpdateDebounceMS: 100,
			UpdateThrottleMS: 50,
			FastPathDelayMS:  10,
			ScanCache:        true,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
		},
		Theme: ThemeConfig{},
		Sessions: SessionsConfig{
			Enabled:       true,
			DBPath:        DefaultDBPath(),
			IdleTimeoutMS: 5 * 60 * 1000,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// EngineOptions maps the engine section onto engine.Options. Callbacks,
// tracer and cache are wired by the caller.
func (c Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.SentenceEndings = []byte(c.Engine.SentenceEndings)
	opts.EnableFocusMode = c.Engine.FocusMode
	opts.FocusDimOpacity = c.Engine.FocusDimOpacity
	opts.AutoScroll = c.Engine.AutoScroll
	opts.SmoothScroll = c.Engine.SmoothScroll
	opts.HeadingTags = c.Engine.HeadingTags
	opts.UpdateDebounce = time.Duration(c.Engine.UpdateDebounceMS) * time.Millisecond
	opts.UpdateThrottle = time.Duration(c.Engine.UpdateThrottleMS) * time.Millisecond
	opts.FastPathDelay = time.Duration(c.Engine.FastPathDelayMS) * time.Millisecond
	return opts
}

var validHeadingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// ValidateEngine checks the engine section for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateEngine(eng EngineConfig) error {
	if eng.FocusDimOpacity < 0 || eng.FocusDimOpacity > 1 {
		return fmt.Errorf("engine.focus_dim_opacity must be between 0.0 and 1.0, got %v", eng.FocusDimOpacity)
	}
	for _, tag := range eng.HeadingTags {
		if !validHeadingTags[tag] {
			return fmt.Errorf("engine.heading_tags: invalid tag %q (must be h1-h6)", tag)
		}
	}
	if eng.UpdateDebounceMS < 0 {
		return fmt.Errorf("engine.update_debounce_ms must not be negative, got %d", eng.UpdateDebounceMS)
	}
	if eng.UpdateThrottleMS < 0 {
		return fmt.Errorf("engine.update_throttle_ms must not be negative, got %d", eng.UpdateThrottleMS)
	}
	if eng.FastPathDelayMS < 0 {
		return fmt.Errorf("engine.fast_path_delay_ms must not be negative, got %d", eng.FastPathDelayMS)
	}
	return nil
}

// ValidateUI checks the ui section for errors.
func ValidateUI(ui UIConfig) error {
	if ui.MarkdownStyle != "" && ui.MarkdownStyle != "dark" && ui.MarkdownStyle != "light" {
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
	return nil
}

// ValidateTheme checks the theme section for errors.
func ValidateTheme(theme ThemeConfig) error {
	if theme.Mode != "" && theme.Mode != "light" && theme.Mode != "dark" {
		return fmt.Errorf("theme.mode must be \"light\", \"dark\", or empty, got %q", theme.Mode)
	}
	return nil
}

// ValidateSessions checks the sessions section for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateSessions(sessions SessionsConfig) error {
	// DBPath must be absolute if set
	if sessions.DBPath != "" && !filepath.IsAbs(sessions.DBPath) {
		return fmt.Errorf("sessions.db_path must be an absolute path, got %q", sessions.DBPath)
	}
	if sessions.IdleTimeoutMS < 0 {
		return fmt.Errorf("sessions.idle_timeout_ms must not be negative, got %d", sessions.IdleTimeoutMS)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	// Validate SampleRate is in range [0.0, 1.0]
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	// Validate Exporter is a valid option
	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Validate checks the full configuration for errors.
func (c Config) Validate() error {
	if err := ValidateEngine(c.Engine); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	if err := ValidateTheme(c.Theme); err != nil {
		return err
	}
	if err := ValidateSessions(c.Sessions); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Scrivo Configuration

# Reload the open file when it changes on disk
auto_reload: true

# Sentence engine settings
engine:
  # Characters that end a sentence
  sentence_endings: ".!?"

  # Dim everything except the sentence under the caret
  focus_mode: true

  # Dim strength for inactive sentences (0.0-1.0)
  focus_dim_opacity: 0.18

  # Keep the caret vertically centered while typing
  auto_scroll: true
  smooth_scroll: true

  # Markdown heading levels treated as standalone sentences
  heading_tags: [h1, h2, h3]

  # Quiet window after typing before sentences are re-detected
  update_debounce_ms: 100

  # Quiet window after caret movement before the highlight follows
  update_throttle_ms: 50

  # Shortened window right after typing a sentence terminator
  fast_path_delay_ms: 10

  # Memoize sentence detection by content hash
  scan_cache: true

# UI settings
ui:
  show_status_bar: true   # Show status bar at bottom
  # markdown_style: dark  # Help overlay rendering style: "dark" (default) or "light"

# Theme configuration
theme:
  # Force light or dark mode; empty uses terminal detection
  # mode: dark
  #
  # Override specific colors:
  # colors:
  #   text.primary: "#FFFFFF"
  #   sentence.active: "#F8F8F2"
  #   sentence.dimmed: "#6272A4"

# Writing session tracking
sessions:
  enabled: true
  # db_path: ~/.scrivo/scrivo.db   # Absolute path to the sqlite database
  idle_timeout_ms: 300000          # Close a session after 5 minutes idle

# Trace export for debugging scan latency
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/scrivo/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
