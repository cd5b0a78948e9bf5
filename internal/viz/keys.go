package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause     key.Binding
	Reseed    key.Binding
	Theme     key.Binding
	Glow      key.Binding
	Scanlines key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Pause:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Reseed:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reseed")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Glow:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "glow")),
		Scanlines: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scanlines")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reseed, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Reseed, k.Quit},
		{k.Theme, k.Glow, k.Scanlines, k.Help},
	}
}
