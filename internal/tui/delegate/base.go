// Package delegate adapts plain render functions to list.ItemDelegate.
package delegate

import (
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// DrawFunc writes one list row.
type DrawFunc func(w io.Writer, m list.Model, index int, item list.Item)

// Rows draws every item with Draw. Lines is the row height (0 means one
// line) and Gap the blank lines between rows. Rows never handles input.
type Rows struct {
	Draw  DrawFunc
	Lines int
	Gap   int
}

// Height implements list.ItemDelegate
func (r Rows) Height() int { return max(r.Lines, 1) }

// Spacing implements list.ItemDelegate
func (r Rows) Spacing() int { return r.Gap }

// Update implements list.ItemDelegate
func (Rows) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

// Render implements list.ItemDelegate
func (r Rows) Render(w io.Writer, m list.Model, index int, item list.Item) {
	if r.Draw != nil {
		r.Draw(w, m, index, item)
	}
}
