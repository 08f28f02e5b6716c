package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_Matches(t *testing.T) {
	k := DefaultKeyMap()

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlS}, k.Save))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlF}, k.ToggleFocus))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlQ}, k.Quit))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, k.Quit))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyEscape}, k.Escape))

	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlS}, k.Quit))
}

func TestKeyMap_Help(t *testing.T) {
	k := DefaultKeyMap()

	assert.NotEmpty(t, k.ShortHelp())
	for _, group := range k.FullHelp() {
		assert.NotEmpty(t, group)
	}
}
