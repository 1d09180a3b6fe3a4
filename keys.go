package main

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the explorer reacts to. It doubles as the
// source for the short and full help views.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	BigLeft   key.Binding
	BigRight  key.Binding
	Min       key.Binding
	Max       key.Binding
	Edit      key.Binding
	Reset     key.Binding
	Presets   key.Binding
	ProbeL    key.Binding
	ProbeR    key.Binding
	ProbeFarL key.Binding
	ProbeFarR key.Binding
	Hide      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "shift+tab"),
			key.WithHelp("↑/k", "prev slider"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "tab"),
			key.WithHelp("↓/j", "next slider"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "-"),
			key.WithHelp("←/h", "step down"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "+", "="),
			key.WithHelp("→/l", "step up"),
		),
		BigLeft: key.NewBinding(
			key.WithKeys("shift+left", "pgdown"),
			key.WithHelp("⇧←/pgdn", "10 steps down"),
		),
		BigRight: key.NewBinding(
			key.WithKeys("shift+right", "pgup"),
			key.WithHelp("⇧→/pgup", "10 steps up"),
		),
		Min: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "minimum"),
		),
		Max: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "maximum"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("⏎/e", "type value"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Presets: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "presets"),
		),
		ProbeL: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "probe left"),
		),
		ProbeR: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "probe right"),
		),
		ProbeFarL: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "probe 10 left"),
		),
		ProbeFarR: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "probe 10 right"),
		),
		Hide: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "hide probe"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Right, k.Edit, k.Presets, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.BigLeft, k.BigRight},
		{k.Min, k.Max, k.Edit, k.Reset, k.Presets},
		{k.ProbeL, k.ProbeR, k.ProbeFarL, k.ProbeFarR, k.Hide},
		{k.Help, k.Quit},
	}
}
