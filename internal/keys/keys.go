// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application. Editing keys
// (characters, backspace, arrows) go straight to the editor; this map only
// covers chrome-level actions.
type KeyMap struct {
	// File
	Save   key.Binding
	Reload key.Binding

	// Engine
	ToggleFocus  key.Binding
	ForceRescan  key.Binding
	CycleEndings key.Binding

	// General
	ToggleStatus key.Binding
	Help         key.Binding
	Escape       key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// File
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Reload: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reload from disk"),
		),

		// Engine
		ToggleFocus: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "toggle focus mode"),
		),
		ForceRescan: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "redetect sentences"),
		),
		CycleEndings: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "cycle sentence endings"),
		),

		// General
		ToggleStatus: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "toggle status bar"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close overlay"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.ToggleFocus, k.Help, k.Quit}
}

// FullHelp returns all bindings grouped for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.Reload},
		{k.ToggleFocus, k.ForceRescan, k.CycleEndings},
		{k.ToggleStatus, k.Help, k.Escape, k.Quit},
	}
}
