package app

import (
	"github.com/avitaltamir/vibeselect/internal/components/editor"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the application.
type KeyMap struct {
	// Selection
	Expand key.Binding
	Shrink key.Binding

	// Global keys
	Theme key.Binding
	Help  key.Binding
	Quit  key.Binding

	// Editor keys, shown in help
	Editor editor.KeyMap
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Expand: key.NewBinding(
			key.WithKeys("alt+up", "ctrl+e"),
			key.WithHelp("alt+↑/^e", "expand selection"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("alt+down", "ctrl+r"),
			key.WithHelp("alt+↓/^r", "shrink selection"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Editor: editor.DefaultKeyMap(),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Expand, k.Shrink, k.Editor.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	e := k.Editor
	return [][]key.Binding{
		{k.Expand, k.Shrink, e.Copy, e.Clear},
		{e.Up, e.Down, e.Left, e.Right},
		{e.ExtendUp, e.ExtendDown, e.ExtendLeft, e.ExtendRight},
		{e.LineStart, e.LineEnd, e.PageUp, e.PageDown},
		{k.Theme, k.Help, k.Quit},
	}
}
