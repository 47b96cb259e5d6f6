package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap lists the dashboard's bindings.
type KeyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Toggle      key.Binding
	Up          key.Binding
	Down        key.Binding
	Expand      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "follow"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "raw/tree"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "expand"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "collapse all"),
		),
	}
}

// modeHelp implements help.KeyMap for the bindings that apply to the
// current body.
type modeHelp struct {
	keys KeyMap
	tree bool
	snap bool
}

func (h modeHelp) ShortHelp() []key.Binding {
	switch {
	case h.tree:
		return []key.Binding{h.keys.Up, h.keys.Down, h.keys.Expand, h.keys.Toggle, h.keys.Help, h.keys.Quit}
	case h.snap:
		return []key.Binding{h.keys.Top, h.keys.Toggle, h.keys.Help, h.keys.Quit}
	default:
		return []key.Binding{h.keys.Top, h.keys.Bottom, h.keys.Help, h.keys.Quit}
	}
}

func (h modeHelp) FullHelp() [][]key.Binding {
	if h.tree {
		return [][]key.Binding{
			{h.keys.Up, h.keys.Down, h.keys.Top, h.keys.Bottom},
			{h.keys.Expand, h.keys.ExpandAll, h.keys.CollapseAll},
			{h.keys.Toggle, h.keys.Help, h.keys.Quit},
		}
	}
	bindings := [][]key.Binding{{h.keys.Up, h.keys.Down, h.keys.Top, h.keys.Bottom}}
	if h.snap {
		bindings = append(bindings, []key.Binding{h.keys.Toggle})
	}
	return append(bindings, []key.Binding{h.keys.Help, h.keys.Quit})
}
