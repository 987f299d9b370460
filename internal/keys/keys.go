// Package keys holds the key bindings shared by every view.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	Down, Up key.Binding
	Select   key.Binding
	Back     key.Binding
	Quit     key.Binding

	Search  key.Binding
	Command key.Binding
	Help    key.Binding

	// Refresh fetches unread mail and categorizes it.
	Refresh key.Binding

	// Buckets opens the bucket manager; CycleBucket steps the inbox
	// filter through the buckets present in the current results.
	Buckets     key.Binding
	CycleBucket key.Binding

	// Bucket manager actions.
	New, Edit, Delete key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down:   bind("j/↓", "down", "j", "down"),
		Up:     bind("k/↑", "up", "k", "up"),
		Select: bind("enter", "open email", "enter"),
		Back:   bind("esc", "back", "esc"),
		Quit:   bind("q", "quit", "q"),

		Search:  bind("/", "search", "/"),
		Command: bind(":", "command palette", ":"),
		Help:    bind("?", "toggle help", "?"),

		Refresh: bind("r", "fetch & categorize", "r"),

		Buckets:     bind("b", "manage buckets", "b"),
		CycleBucket: bind("tab", "filter by bucket", "tab"),

		New:    bind("n", "new bucket", "n"),
		Edit:   bind("e", "edit bucket", "e"),
		Delete: bind("d", "delete bucket", "d"),
	}
}

// ShortHelp returns the bindings shown in the compact help line.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Quit, k.Help, k.Refresh}
}

// FullHelp returns every binding, grouped for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.Command, k.Help, k.Refresh},
		{k.CycleBucket, k.Buckets},
		{k.New, k.Edit, k.Delete},
	}
}
