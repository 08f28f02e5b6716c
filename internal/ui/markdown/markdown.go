// Package markdown provides styled markdown rendering for the TUI.
package markdown

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// noMarginStyle is a JSON style that removes document margins.
// It layers on top of the base style but overrides margin to 0.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps glamour with scrivo-specific configuration.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// New creates a markdown renderer with the given word wrap width.
// style selects the glamour style set: "dark", "light", or "" for
// terminal background auto-detection.
func New(width int, style string) (*Renderer, error) {
	base := glamour.WithAutoStyle()
	switch style {
	case "":
		// auto
	case "dark", "light":
		base = glamour.WithStandardStyle(style)
	default:
		return nil, fmt.Errorf("unknown markdown style %q", style)
	}

	r, err := glamour.NewTermRenderer(
		base,
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
		// Match the terminal's capabilities instead of glamour's stdout
		// probe; output is composited by lipgloss, not written directly.
		glamour.WithColorProfile(termenv.ColorProfile()),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width, style: style}, nil
}

// Width returns the configured word wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Style returns the configured style name, "" meaning auto.
func (r *Renderer) Style() string {
	return r.style
}

// Render transforms markdown to styled terminal output.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.renderer.Render(markdown)
}
