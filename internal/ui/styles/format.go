// Package styles contains Lip Gloss style definitions.
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// TruncateString fits s into maxWidth display columns, ending in "..." when
// anything had to be cut.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// No room for text plus a tail; degrade to dots.
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}
	return truncate.StringWithTail(s, uint(maxWidth), "...")
}

// FormatCount pluralizes a counted noun for status display.
func FormatCount(count int, singular string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %ss", count, singular)
}
