package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextCat, PrevCat, Toggle, All key.Binding
	Open, Close                   key.Binding
	Add, Edit, Delete, Reload     key.Binding
	Quit                          key.Binding
	Confirm, Cancel               key.Binding
	NextField, PrevField, Submit  key.Binding
}

var keys = keyMap{
	NextCat: key.NewBinding(key.WithKeys("l", "right", "tab"), key.WithHelp("h/l", "category")),
	PrevCat: key.NewBinding(key.WithKeys("h", "left", "shift+tab")),
	Toggle:  key.NewBinding(key.WithKeys("f", " "), key.WithHelp("f", "filter")),
	All:     key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "all")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read more")),
	Close:   key.NewBinding(key.WithKeys("esc", "q", "enter"), key.WithHelp("esc", "exit")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

	Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),

	NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	PrevField: key.NewBinding(key.WithKeys("shift+tab", "up")),
	Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
}

func helpLine(bs ...key.Binding) string {
	var out string
	for i, b := range bs {
		h := b.Help()
		if i > 0 {
			out += " • "
		}
		out += h.Key + ": " + h.Desc
	}
	return out
}
