package help

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelp_New(t *testing.T) {
	m := New("dark")

	assert.NotEmpty(t, m.keys.Save.Keys(), "expected Save keys to be set")
	assert.NotEmpty(t, m.keys.ToggleFocus.Keys(), "expected ToggleFocus keys to be set")
	assert.NotEmpty(t, m.keys.Help.Keys(), "expected Help keys to be set")
	assert.NotEmpty(t, m.keys.Quit.Keys(), "expected Quit keys to be set")
	assert.NotNil(t, m.guide, "expected guide cache to be set")
}

func TestHelp_SetSize(t *testing.T) {
	m := New("dark")

	m = m.SetSize(120, 40)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)

	// SetSize returns a new model (immutability).
	m2 := m.SetSize(80, 24)
	assert.Equal(t, 80, m2.width)
	assert.Equal(t, 120, m.width, "expected original model width unchanged")
}

func TestHelp_View_ContainsSections(t *testing.T) {
	view := New("dark").SetSize(100, 40).View()

	assert.Contains(t, view, "File")
	assert.Contains(t, view, "Writing")
	assert.Contains(t, view, "General")
}

func TestHelp_View_ContainsKeybindings(t *testing.T) {
	view := New("dark").SetSize(100, 40).View()

	assert.Contains(t, view, "ctrl+s")
	assert.Contains(t, view, "save")
	assert.Contains(t, view, "ctrl+f")
	assert.Contains(t, view, "toggle focus mode")
	assert.Contains(t, view, "ctrl+q")
	assert.Contains(t, view, "quit")
	assert.Contains(t, view, "esc to close")
}

func TestHelp_View_ContainsGuide(t *testing.T) {
	view := New("dark").SetSize(100, 40).View()

	assert.Contains(t, view, "Focus mode")
	assert.Contains(t, view, "Sentence detection")
}

func TestHelp_Overlay_CoversBackground(t *testing.T) {
	m := New("dark").SetSize(100, 40)

	bg := ""
	for range 40 {
		bg += "BACKGROUND BACKGROUND BACKGROUND\n"
	}

	out := m.Overlay(bg)
	assert.Contains(t, out, "BACKGROUND")
	assert.Contains(t, out, "Scrivo")
}

func TestHelp_GuideWidthBounds(t *testing.T) {
	assert.Equal(t, 20, New("").SetSize(10, 10).guideWidth())
	assert.Equal(t, 48, New("").SetSize(60, 24).guideWidth())
	assert.Equal(t, 64, New("").SetSize(200, 50).guideWidth())
}

func TestRenderGuide_CachedByWidth(t *testing.T) {
	m := New("dark").SetSize(100, 40)

	first := m.renderGuideSection()
	second := m.renderGuideSection()

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestRenderGuide_RejectsUnknownStyle(t *testing.T) {
	_, err := renderGuide(context.Background(), guideInput{width: 60, style: "neon"})
	require.Error(t, err)
}

func TestGuideKey(t *testing.T) {
	assert.Equal(t, "dark:60", guideKey(60, "dark"))
	assert.Equal(t, "auto:40", guideKey(40, ""))
}
