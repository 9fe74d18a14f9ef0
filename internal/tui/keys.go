package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down         key.Binding
	Less, More       key.Binding
	LessBig, MoreBig key.Binding
	Zero, Fill       key.Binding
	Add, Rename      key.Binding
	Remove, Undo     key.Binding
	Save, Help, Quit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Less:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "less")),
		More:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "more")),
		LessBig: key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "less ×10")),
		MoreBig: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "more ×10")),
		Zero:    key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "zero")),
		Fill:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "fill")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Rename:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename")),
		Remove:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		Undo:    key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Less, k.More, k.Add, k.Remove, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Less, k.More},
		{k.LessBig, k.MoreBig, k.Zero, k.Fill},
		{k.Add, k.Rename, k.Remove, k.Undo},
		{k.Save, k.Help, k.Quit},
	}
}
