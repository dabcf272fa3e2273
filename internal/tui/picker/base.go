// Package picker runs a bordered, filterable single-choice list.
package picker

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCanceled is returned when the user leaves without choosing.
var ErrCanceled = errors.New("canceled by user")

// Keys are the bindings a picker reacts to while not filtering.
type Keys struct {
	Quit   key.Binding
	Choose key.Binding
}

// Model wraps a list and remembers the chosen item.
type Model struct {
	list   list.Model
	keys   Keys
	frame  lipgloss.Style
	chosen list.Item
	err    error
	done   bool
}

// New builds a picker over l drawn inside frame.
func New(l list.Model, keys Keys, frame lipgloss.Style) Model {
	return Model{list: l, keys: keys, frame: frame}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := m.frame.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.err, m.done = ErrCanceled, true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Choose):
			if it := m.list.SelectedItem(); it != nil {
				m.chosen, m.done = it, true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.done {
		return ""
	}
	return m.frame.Render(m.list.View())
}

// Chosen is the selected item, nil until the user picks one.
func (m Model) Chosen() list.Item { return m.chosen }

// Run shows the picker and returns the chosen item or ErrCanceled.
func Run(m Model, opts ...tea.ProgramOption) (list.Item, error) {
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("running picker: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if fm.err != nil {
		return nil, fm.err
	}
	return fm.chosen, nil
}
