package picker_test

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/blackwell-systems/perpusctl/internal/tui/delegate"
	"github.com/blackwell-systems/perpusctl/internal/tui/picker"
)

type item string

func (i item) FilterValue() string { return string(i) }

func newPicker() picker.Model {
	l := list.New([]list.Item{item("DIPINJAM"), item("DENDA")}, delegate.Rows{}, 40, 10)
	return picker.New(l, picker.Keys{
		Quit:   key.NewBinding(key.WithKeys("esc")),
		Choose: key.NewBinding(key.WithKeys("enter")),
	}, lipgloss.NewStyle())
}

func TestChooseSelectedItem(t *testing.T) {
	var m tea.Model = newPicker()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.NotNil(t, cmd)
	assert.Equal(t, item("DENDA"), m.(picker.Model).Chosen())
	assert.Empty(t, m.View())
}

func TestQuitLeavesNothingChosen(t *testing.T) {
	var m tea.Model = newPicker()
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.NotNil(t, cmd)
	assert.Nil(t, m.(picker.Model).Chosen())
}
