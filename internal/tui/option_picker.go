package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/perpusctl/internal/tui/delegate"
	"github.com/blackwell-systems/perpusctl/internal/tui/picker"
)

// Option is a single choice offered by RunOptionPicker: a category, a
// loan status, a sort column.
type Option struct {
	Value string
	Label string
	Hint  string
}

// FilterValue implements list.Item
func (o Option) FilterValue() string {
	return o.Label + " " + o.Hint
}

func renderOption(w io.Writer, m list.Model, index int, item list.Item) {
	opt, ok := item.(Option)
	if !ok {
		return
	}

	display := opt.Label
	if opt.Hint != "" {
		display = fmt.Sprintf("%s (%s)", opt.Label, StyleHelp.Render(opt.Hint))
	}

	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› "+display))
	} else {
		_, _ = fmt.Fprint(w, "  "+StyleNormal.Render(display))
	}
}

// RunOptionPicker launches an interactive single-choice selector.
// A single option is returned without prompting. Quitting returns
// picker.ErrCanceled.
func RunOptionPicker(title string, options []Option) (Option, error) {
	if len(options) == 0 {
		return Option{}, fmt.Errorf("nothing to choose from")
	}
	if len(options) == 1 {
		return options[0], nil
	}

	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = o
	}

	l := list.New(items, delegate.Rows{Draw: renderOption}, 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = StyleHeader
	l.Styles.HelpStyle = StyleHelp

	keys := NewPickerKeys()
	chosen, err := picker.Run(
		picker.New(l, picker.Keys{Quit: keys.Quit, Choose: keys.Select}, StyleBorder),
		tea.WithAltScreen(),
	)
	if err != nil {
		return Option{}, err
	}
	opt, ok := chosen.(Option)
	if !ok {
		return Option{}, fmt.Errorf("unexpected item type %T", chosen)
	}
	return opt, nil
}
