package statusbar

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
)

func TestView_Golden(t *testing.T) {
	view := New().SetWidth(40).SetFilename("draft.md").SetCounts(3, 1).View()

	teatest.RequireEqualOutput(t, []byte(view))
}

func TestView_ZeroWidthIsEmpty(t *testing.T) {
	assert.Equal(t, "", New().View())
}

func TestView_ShowsDefaults(t *testing.T) {
	view := New().SetWidth(80).View()

	assert.Contains(t, view, "[No Name]")
	assert.Contains(t, view, "0 words")
	assert.Contains(t, view, "0 sentences")
	assert.NotContains(t, view, "FOCUS")
}

func TestView_ShowsFilenameAndDirtyMarker(t *testing.T) {
	bar := New().SetWidth(80).SetFilename("draft.md")

	assert.Contains(t, bar.View(), "draft.md")
	assert.NotContains(t, bar.View(), "●")

	assert.Contains(t, bar.SetDirty(true).View(), "draft.md ●")
}

func TestView_ShowsCountsAndPosition(t *testing.T) {
	view := New().
		SetWidth(80).
		SetCounts(42, 5).
		SetActiveIndex(2).
		View()

	assert.Contains(t, view, "42 words")
	assert.Contains(t, view, "5 sentences")
	assert.Contains(t, view, "3/5")
}

func TestView_HidesPositionWhenInactive(t *testing.T) {
	view := New().SetWidth(80).SetCounts(10, 2).View()

	assert.NotContains(t, view, "/2")
}

func TestView_SingularCounts(t *testing.T) {
	view := New().SetWidth(80).SetCounts(1, 1).View()

	assert.Contains(t, view, "1 word")
	assert.Contains(t, view, "1 sentence")
	assert.NotContains(t, view, "1 words")
}

func TestView_FocusIndicator(t *testing.T) {
	bar := New().SetWidth(80).SetFocusMode(true)
	assert.Contains(t, bar.View(), "FOCUS")

	assert.NotContains(t, bar.SetFocusMode(false).View(), "FOCUS")
}

func TestView_MessageReplacesCounts(t *testing.T) {
	bar := New().SetWidth(80).SetCounts(42, 5).SetMessage("saved")

	view := bar.View()
	assert.Contains(t, view, "saved")
	assert.NotContains(t, view, "42 words")

	assert.Contains(t, bar.ClearMessage().View(), "42 words")
}

func TestView_PadsToWidth(t *testing.T) {
	view := New().SetWidth(60).SetFilename("a.md").View()

	for _, line := range strings.Split(view, "\n") {
		assert.Equal(t, 60, lipgloss.Width(line))
	}
}

func TestView_LongFilenameYieldsToCounts(t *testing.T) {
	long := strings.Repeat("very-long-name-", 10) + ".md"
	view := New().SetWidth(40).SetFilename(long).SetCounts(7, 3).View()

	assert.Contains(t, view, "7 words")
	for _, line := range strings.Split(view, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 40)
	}
}
