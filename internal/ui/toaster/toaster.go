// Package toaster shows transient notifications over the editor.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dtannen/scrivo/internal/ui/overlay"
	"github.com/dtannen/scrivo/internal/ui/styles"
)

// Style selects the toast's icon and border color.
type Style int

const (
	// StyleSuccess confirms an action, e.g. a completed save.
	StyleSuccess Style = iota
	// StyleError reports a failed action.
	StyleError
	// StyleInfo announces a state change, e.g. a reload from disk.
	StyleInfo
	// StyleWarn flags something needing attention, e.g. an external edit.
	StyleWarn
)

// appearance maps a Style to its visual treatment.
type appearance struct {
	icon   string
	border *lipgloss.AdaptiveColor
}

func (s Style) appearance() appearance {
	switch s {
	case StyleError:
		return appearance{"❌", &styles.ToastBorderErrorColor}
	case StyleInfo:
		return appearance{"ℹ️", &styles.ToastBorderInfoColor}
	case StyleWarn:
		return appearance{"⚠️", &styles.ToastBorderWarnColor}
	default:
		return appearance{"✅", &styles.ToastBorderSuccessColor}
	}
}

// Model holds the toast currently on screen, if any.
type Model struct {
	message string
	style   Style
	visible bool
	width   int
	height  int
}

// New creates an empty, hidden toaster.
func New() Model {
	return Model{}
}

// Show replaces any visible toast with message. The style's icon is
// prepended when rendering.
func (m Model) Show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.visible = true
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible reports whether a toast is on screen.
func (m Model) Visible() bool {
	return m.visible
}

// SetSize records the viewport dimensions used for overlay placement.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the toast box alone.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	look := m.style.appearance()
	box := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(*look.border)

	content := look.icon + " " + m.message
	// Long messages (save errors carry file paths) wrap instead of
	// pushing the box off screen.
	if m.width > 8 {
		content = wordwrap.String(content, m.width-8)
	}

	return box.Render(content)
}

// Overlay composites the toast bottom-center over bg, one row up from the
// bottom edge so it doesn't sit on the status bar.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}

	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg signals that the visible toast should be hidden.
type DismissMsg struct{}

// ScheduleDismiss returns a command that emits DismissMsg after d.
func ScheduleDismiss(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return DismissMsg{}
	})
}
