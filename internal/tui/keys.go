package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the transaction list and the
// "Add New Transaction" dialog.
type KeyMap struct {
	// List.
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Quit    key.Binding

	// Dialog.
	NextField     key.Binding
	PreviousField key.Binding
	ToggleType    key.Binding // Only while the type selector has focus.
	Submit        key.Binding
	Cancel        key.Binding
}

// DefaultKeyMap is the built-in key binding set
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Add: key.NewBinding(
		key.WithKeys("a", "n"),
		key.WithHelp("a", "add transaction"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	PreviousField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	ToggleType: key.NewBinding(
		key.WithKeys("left", "right", " ", "h", "l"),
		key.WithHelp("←/→", "income/expense"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "add"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}
