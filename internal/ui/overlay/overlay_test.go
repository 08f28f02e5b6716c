package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func background(width, height int) string {
	lines := make([]string, height)
	for i := range lines {
		lines[i] = strings.Repeat(".", width)
	}
	return strings.Join(lines, "\n")
}

func TestPlace_Center(t *testing.T) {
	out := Place(Config{Width: 10, Height: 5, Position: Center}, "XX", background(10, 5))

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "....XX....", lines[2])
	assert.Equal(t, "..........", lines[1])
	assert.Equal(t, "..........", lines[3])
}

func TestPlace_Top(t *testing.T) {
	out := Place(Config{Width: 10, Height: 5, Position: Top, PadY: 1}, "XX", background(10, 5))

	lines := strings.Split(out, "\n")
	assert.Equal(t, "..........", lines[0])
	assert.Equal(t, "....XX....", lines[1])
}

func TestPlace_Bottom(t *testing.T) {
	out := Place(Config{Width: 10, Height: 5, Position: Bottom, PadY: 1}, "XX", background(10, 5))

	lines := strings.Split(out, "\n")
	assert.Equal(t, "....XX....", lines[3])
	assert.Equal(t, "..........", lines[4])
}

func TestPlace_MultiLineForeground(t *testing.T) {
	fg := "AA\nBB"
	out := Place(Config{Width: 6, Height: 4, Position: Center}, fg, background(6, 4))

	lines := strings.Split(out, "\n")
	assert.Equal(t, "..AA..", lines[1])
	assert.Equal(t, "..BB..", lines[2])
}

func TestPlace_PadsShortBackground(t *testing.T) {
	out := Place(Config{Width: 8, Height: 4, Position: Bottom}, "XX", "top line")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "top line", lines[0])
	assert.Contains(t, lines[3], "XX")
}

func TestPlace_OversizedForegroundClampsToOrigin(t *testing.T) {
	out := Place(Config{Width: 4, Height: 1, Position: Center}, "WIDER", "....")

	assert.Equal(t, "WIDER", strings.Split(out, "\n")[0])
}

func TestPlace_PreservesBackgroundStyling(t *testing.T) {
	styled := "\x1b[31m" + strings.Repeat("r", 10) + "\x1b[0m"
	bg := styled + "\n" + styled + "\n" + styled

	out := Place(Config{Width: 10, Height: 3, Position: Center}, "XX", bg)

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[1], "XX")
	assert.Contains(t, lines[0], "\x1b[31m")
	// Styled background text survives to the left of the foreground.
	assert.Contains(t, lines[1], "r")
}

func TestSpliceLine_ShortBackgroundGetsPadded(t *testing.T) {
	assert.Equal(t, "ab  XX", spliceLine("ab", "XX", 4))
}

func TestSpliceLine_KeepsRightRemainder(t *testing.T) {
	assert.Equal(t, "aXXd", spliceLine("abcd", "XX", 1))
}

func TestAnchor_Positions(t *testing.T) {
	cfg := Config{Width: 20, Height: 10}

	x, y := anchor(cfg, 4, 2)
	assert.Equal(t, 8, x)
	assert.Equal(t, 4, y)

	cfg.Position = Top
	cfg.PadY = 2
	_, y = anchor(cfg, 4, 2)
	assert.Equal(t, 2, y)

	cfg.Position = Bottom
	_, y = anchor(cfg, 4, 2)
	assert.Equal(t, 6, y)
}
