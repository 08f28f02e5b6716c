// Package overlay composites foreground content (help, toasts) over the
// editor view without clearing the screen.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position selects where the foreground sits in the viewport.
type Position int

const (
	// Center places the foreground in the middle of the viewport.
	Center Position = iota
	// Top places the foreground top-center.
	Top
	// Bottom places the foreground bottom-center.
	Bottom
)

// Config describes the viewport and placement for a composite.
type Config struct {
	// Width and Height are the full viewport dimensions.
	Width  int
	Height int

	// Position anchors the foreground.
	Position Position

	// PadX reserves horizontal space from the edges. Ignored for Center.
	PadX int

	// PadY reserves vertical space from the top or bottom edge for the
	// Top and Bottom positions.
	PadY int
}

// Place draws fg over bg at the configured position. Both strings may
// contain ANSI styling; background styling survives on either side of the
// foreground because splicing is width-aware, not byte-aware.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	x, y := anchor(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = spliceLine(bgLines[row], fgLine, x)
	}

	return strings.Join(bgLines, "\n")
}

// spliceLine overwrites bg starting at display column x with fg, keeping
// whatever background remains visible to the right of the foreground.
func spliceLine(bg, fg string, x int) string {
	left := ansi.Truncate(bg, x, "")
	if pad := x - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}

	var right string
	end := x + ansi.StringWidth(fg)
	if end < ansi.StringWidth(bg) {
		right = ansi.TruncateLeft(bg, end, "")
	}

	return left + fg + right
}

// anchor resolves the foreground's top-left corner. Coordinates clamp to
// zero so oversized foregrounds degrade to top-left placement.
func anchor(cfg Config, fgWidth, fgHeight int) (x, y int) {
	x = (cfg.Width - fgWidth) / 2
	switch cfg.Position {
	case Top:
		y = cfg.PadY
	case Bottom:
		y = cfg.Height - fgHeight - cfg.PadY
	default:
		y = (cfg.Height - fgHeight) / 2
	}

	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}
