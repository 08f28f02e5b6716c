// Package statusbar renders the single-line bar at the bottom of the
// writing surface: document name, dirty marker, word and sentence counts,
// caret position within the sentence list, and the focus mode indicator.
package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dtannen/scrivo/internal/ui/styles"
)

// Model holds the values shown in the bar. The parent pushes updates in;
// the bar itself holds no subscriptions.
type Model struct {
	width int

	filename      string
	dirty         bool
	wordCount     int
	sentenceCount int
	activeIndex   int // -1 when no sentence is active
	focusMode     bool
	message       string // transient notice, shown in place of counts
}

// New creates a status bar for an unsaved, empty document.
func New() Model {
	return Model{activeIndex: -1}
}

// SetWidth sets the render width in display columns.
func (m Model) SetWidth(width int) Model {
	m.width = width
	return m
}

// SetFilename sets the document name shown on the left.
func (m Model) SetFilename(name string) Model {
	m.filename = name
	return m
}

// SetDirty toggles the unsaved-changes marker.
func (m Model) SetDirty(dirty bool) Model {
	m.dirty = dirty
	return m
}

// SetCounts sets the word and sentence totals.
func (m Model) SetCounts(words, sentences int) Model {
	m.wordCount = words
	m.sentenceCount = sentences
	return m
}

// SetActiveIndex sets the zero-based index of the active sentence.
// Pass -1 when no sentence is active.
func (m Model) SetActiveIndex(idx int) Model {
	m.activeIndex = idx
	return m
}

// SetFocusMode toggles the focus mode indicator.
func (m Model) SetFocusMode(on bool) Model {
	m.focusMode = on
	return m
}

// SetMessage sets a transient notice that replaces the counts until cleared.
func (m Model) SetMessage(msg string) Model {
	m.message = msg
	return m
}

// ClearMessage removes the transient notice.
func (m Model) ClearMessage() Model {
	m.message = ""
	return m
}

// View renders the bar padded to the configured width.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}

	left := " " + m.leftText()
	right := m.rightText() + " "

	// Left side yields first so the counts stay readable.
	budget := m.width - lipgloss.Width(right) - 1
	if budget < 0 {
		budget = 0
	}
	if lipgloss.Width(left) > budget {
		left = styles.TruncateString(left, budget)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	styled := styles.StatusBarAccentStyle.Render(left) +
		strings.Repeat(" ", gap) +
		right
	return styles.StatusBarStyle.Width(m.width).Render(styled)
}

func (m Model) leftText() string {
	name := m.filename
	if name == "" {
		name = "[No Name]"
	}
	if m.dirty {
		name += " ●"
	}
	return name
}

func (m Model) rightText() string {
	if m.message != "" {
		return m.message
	}

	parts := []string{
		styles.FormatCount(m.wordCount, "word"),
		styles.FormatCount(m.sentenceCount, "sentence"),
	}
	if m.activeIndex >= 0 && m.sentenceCount > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", m.activeIndex+1, m.sentenceCount))
	}
	if m.focusMode {
		parts = append(parts, "FOCUS")
	}
	return strings.Join(parts, "  ")
}
