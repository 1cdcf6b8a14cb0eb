package picker

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the picker key bindings.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Filter key.Binding
	Choose key.Binding
	Quit   key.Binding
	Abort  key.Binding

	// Active while the filter input has focus, where letters are typed.
	FilterUp    key.Binding
	FilterDown  key.Binding
	FilterClear key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("j/k", "move"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "go"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q/Esc", "cancel"),
		),
		Abort: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
		FilterUp: key.NewBinding(
			key.WithKeys("up", "ctrl+p", "ctrl+k"),
		),
		FilterDown: key.NewBinding(
			key.WithKeys("down", "ctrl+n", "ctrl+j"),
		),
		FilterClear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "clear filter"),
		),
	}
}
