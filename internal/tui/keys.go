package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keybindings shared by the progress view and dialogs.
type keyMap struct {
	Quit  key.Binding
	Enter key.Binding
	Back  key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "cancel"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}
