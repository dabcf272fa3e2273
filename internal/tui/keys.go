package tui

import "github.com/charmbracelet/bubbles/key"

// PickerKeys choose from or leave a single-choice list.
type PickerKeys struct {
	Quit   key.Binding
	Select key.Binding
}

func NewPickerKeys() PickerKeys {
	return PickerKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
	}
}

// PageKeys move through server-side pages. Paging never happens locally;
// each key sends a new query.
type PageKeys struct {
	Next   key.Binding
	Prev   key.Binding
	Search key.Binding
	Reload key.Binding
}

func NewPageKeys() PageKeys {
	return PageKeys{
		Next:   key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next page")),
		Prev:   key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "prev page")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	}
}
