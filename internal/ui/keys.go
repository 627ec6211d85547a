package ui

import "github.com/charmbracelet/bubbles/key"

type uploadKeyMap struct {
	Submit   key.Binding
	Copy     key.Binding
	Prove    key.Binding
	LineUp   key.Binding
	LineDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newUploadKeyMap() uploadKeyMap {
	return uploadKeyMap{
		Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "upload")),
		Copy:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy result")),
		Prove:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "prove MRC")),
		LineUp:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "scroll up")),
		LineDown: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "scroll down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Help:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k uploadKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Copy, k.Prove, k.Help, k.Quit}
}

func (k uploadKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Copy, k.Prove},
		{k.LineUp, k.LineDown, k.PageUp, k.PageDown},
		{k.Help, k.Quit},
	}
}

type verifyKeyMap struct {
	Submit  key.Binding
	Newline key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newVerifyKeyMap() verifyKeyMap {
	return verifyKeyMap{
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "check")),
		Newline: key.NewBinding(key.WithKeys("ctrl+j", "alt+enter"), key.WithHelp("ctrl+j", "new line")),
		Back:    key.NewBinding(key.WithKeys("ctrl+b", "esc"), key.WithHelp("esc", "back to upload")),
		Help:    key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k verifyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Back, k.Help, k.Quit}
}

func (k verifyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Newline},
		{k.Back, k.Help, k.Quit},
	}
}
