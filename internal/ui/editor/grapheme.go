// Package editor provides the writing surface: a plain (non-modal) textarea
// that renders sentence regions with focus-mode dimming.
//
// This file provides grapheme cluster helpers for Unicode-aware text
// operations.
//
// Three units of text measurement apply throughout the package:
//
//  1. Bytes: the underlying storage unit in Go strings. A single grapheme
//     can be 1-25+ bytes.
//
//  2. Graphemes: the logical unit users perceive as a "character". A
//     grapheme cluster may consist of multiple code points (e.g. "e" plus a
//     combining accent). This is what the cursor column tracks.
//
//  3. Display columns: the width in terminal cells a grapheme occupies.
//     ASCII = 1 column, emoji = 2 columns, CJK = 2 columns.
//
// Cursor positions are grapheme indices, never byte offsets. Sentence spans
// coming from the engine are byte offsets into the flattened text; use the
// conversion functions here to translate between the two.
package editor

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Character type constants for word boundary detection.
const (
	graphemeWhitespace = iota
	graphemeWord
	graphemePunctuation
)

// GraphemeIterator walks a string one grapheme cluster at a time. Call
// Next() in a loop; Cluster, BytePos and Index describe the current cluster.
type GraphemeIterator struct {
	original string
	rest     string
	state    int
	cluster  string
	bytePos  int
	index    int
}

// NewGraphemeIterator creates a new iterator over grapheme clusters in s.
func NewGraphemeIterator(s string) *GraphemeIterator {
	return &GraphemeIterator{
		original: s,
		rest:     s,
		state:    -1,
		index:    -1,
	}
}

// Next advances to the next grapheme cluster, returning false at the end.
func (g *GraphemeIterator) Next() bool {
	if len(g.rest) == 0 {
		return false
	}

	g.bytePos = len(g.original) - len(g.rest)
	g.index++
	g.cluster, g.rest, _, g.state = uniseg.StepString(g.rest, g.state)

	return true
}

// Cluster returns the current grapheme cluster, "" before the first Next.
func (g *GraphemeIterator) Cluster() string {
	return g.cluster
}

// BytePos returns the byte offset of the current cluster in the original
// string.
func (g *GraphemeIterator) BytePos() int {
	return g.bytePos
}

// Index returns the zero-based grapheme index of the current cluster, -1
// before the first Next.
func (g *GraphemeIterator) Index() int {
	return g.index
}

// GraphemeCount returns the number of grapheme clusters in a string.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// GraphemeToByteOffset converts a grapheme index to a byte offset. Indexes
// past the end clamp to len(s); negative indexes clamp to 0.
func GraphemeToByteOffset(s string, graphemeIdx int) int {
	if graphemeIdx <= 0 {
		return 0
	}

	iter := NewGraphemeIterator(s)
	for iter.Next() {
		if iter.Index() == graphemeIdx {
			return iter.BytePos()
		}
	}
	return len(s)
}

// ByteToGraphemeOffset converts a byte offset to a grapheme index. An offset
// inside a cluster maps to that cluster's index; offsets past the end clamp
// to the grapheme count.
func ByteToGraphemeOffset(s string, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset >= len(s) {
		return GraphemeCount(s)
	}

	iter := NewGraphemeIterator(s)
	for iter.Next() {
		if byteOffset < iter.BytePos()+len(iter.Cluster()) {
			return iter.Index()
		}
	}
	return iter.Index() + 1
}

// SliceByGraphemes returns a substring from grapheme index start to end
// (exclusive). Similar to s[start:end] but grapheme-aware.
// Returns "" for invalid ranges.
func SliceByGraphemes(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end < start {
		return ""
	}

	startByte := GraphemeToByteOffset(s, start)
	if startByte >= len(s) {
		return ""
	}

	endByte := GraphemeToByteOffset(s, end)
	if endByte > len(s) {
		endByte = len(s)
	}

	return s[startByte:endByte]
}

// StringDisplayWidth returns the total display width of a string in terminal cells.
func StringDisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToDisplayWidth truncates a string to fit within the given display
// width without splitting grapheme clusters.
func TruncateToDisplayWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	var result strings.Builder
	width := 0

	iter := NewGraphemeIterator(s)
	for iter.Next() {
		clusterWidth := runewidth.StringWidth(iter.Cluster())
		if width+clusterWidth > maxWidth {
			break
		}
		result.WriteString(iter.Cluster())
		width += clusterWidth
	}

	return result.String()
}

// graphemeType classifies a cluster for word boundary detection. Multi-rune
// clusters (emoji, combining marks) classify on the base character.
func graphemeType(cluster string) int {
	for _, r := range cluster {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			return graphemeWhitespace
		case r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r):
			return graphemeWord
		default:
			return graphemePunctuation
		}
	}
	return graphemeWhitespace
}
