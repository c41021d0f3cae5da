package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the viewer key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Activate key.Binding
	Sort     key.Binding
	More     key.Binding
	Yank     key.Binding
	Export   key.Binding
	Reload   key.Binding
	Close    key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Activate: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/space", "select")),
		Sort:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort order")),
		More:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Yank:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank id")),
		Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export card")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Close:    key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "close")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
