package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/perpusctl/internal/loan"
)

// ErrFormCanceled is returned when the user leaves a form without saving.
var ErrFormCanceled = errors.New("canceled")

type editFormModel struct {
	inputs     []textinput.Model
	focused    int
	original   loan.Loan
	result     *loan.UpdateRequest
	err        error
	canceled   bool
	width      int
	height     int
	confirming bool
	activeCmd  string
}

const (
	editFieldStatus = iota
	editFieldReturnDate
	editFieldFine
	editFieldNote
)

var editFieldLabels = []string{"Status", "Returned", "Fine", "Note"}

func newEditForm(l loan.Loan) editFormModel {
	m := editFormModel{
		inputs:   make([]textinput.Model, 4),
		original: l,
	}

	const fieldWidth = 42

	m.inputs[editFieldStatus] = textinput.New()
	m.inputs[editFieldStatus].Placeholder = string(loan.StatusBorrowed)
	m.inputs[editFieldStatus].SetValue(string(l.Status()))
	m.inputs[editFieldStatus].Focus()
	m.inputs[editFieldStatus].CharLimit = 32
	m.inputs[editFieldStatus].Width = fieldWidth

	m.inputs[editFieldReturnDate] = textinput.New()
	m.inputs[editFieldReturnDate].Placeholder = loan.DateLayout
	m.inputs[editFieldReturnDate].SetValue(l.ReturnDate)
	m.inputs[editFieldReturnDate].CharLimit = len(loan.DateLayout)
	m.inputs[editFieldReturnDate].Width = 12

	m.inputs[editFieldFine] = textinput.New()
	m.inputs[editFieldFine].Placeholder = "0"
	m.inputs[editFieldFine].SetValue(strconv.Itoa(l.Fine))
	m.inputs[editFieldFine].CharLimit = 9
	m.inputs[editFieldFine].Width = 12

	m.inputs[editFieldNote] = textinput.New()
	m.inputs[editFieldNote].Placeholder = "optional note"
	m.inputs[editFieldNote].SetValue(l.Note)
	m.inputs[editFieldNote].CharLimit = 200
	m.inputs[editFieldNote].Width = fieldWidth

	for i := range m.inputs {
		m.inputs[i].Prompt = "│ "
	}
	return m
}

// BuildLoanUpdate turns edited form values into an UpdateRequest holding
// only the fields that differ from l.
func BuildLoanUpdate(l loan.Loan, status, returnDate, fine, note string) (loan.UpdateRequest, error) {
	var req loan.UpdateRequest

	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && status != string(l.Status()) {
		st := loan.ParseStatus(status)
		if !st.Valid() {
			return req, fmt.Errorf("unknown status %q", status)
		}
		req.Status = st
	}

	returnDate = strings.TrimSpace(returnDate)
	if returnDate != "" && returnDate != l.ReturnDate {
		if _, err := loan.ParseDate(returnDate); err != nil {
			return req, fmt.Errorf("return date must be %s", loan.DateLayout)
		}
		req.ReturnDate = returnDate
	}

	fine = strings.TrimSpace(fine)
	if fine == "" {
		fine = "0"
	}
	amount, err := strconv.Atoi(fine)
	if err != nil || amount < 0 {
		return req, fmt.Errorf("fine must be a whole number of rupiah")
	}
	if amount != l.Fine {
		req.Fine = &amount
	}

	if note != l.Note {
		n := note
		req.Note = &n
	}
	return req, nil
}

func (m editFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m editFormModel) submit() (tea.Model, tea.Cmd) {
	req, err := BuildLoanUpdate(m.original,
		m.inputs[editFieldStatus].Value(),
		m.inputs[editFieldReturnDate].Value(),
		m.inputs[editFieldFine].Value(),
		m.inputs[editFieldNote].Value(),
	)
	if err != nil {
		m.err = err
		m.confirming = false
		return m, nil
	}
	if req.Empty() {
		m.err = fmt.Errorf("nothing changed")
		m.confirming = false
		return m, nil
	}
	m.result = &req
	return m, tea.Quit
}

func (m editFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit

		case "enter":
			if m.confirming {
				return m.submit()
			}
			m.err = nil
			m.confirming = true
			return m, nil

		case "y", "Y":
			if m.confirming {
				return m.submit()
			}

		case "n", "N":
			if m.confirming {
				m.confirming = false
				return m, nil
			}

		case "tab", "shift+tab", "up", "down":
			if m.confirming {
				return m, nil
			}

			if msg.String() == "up" || msg.String() == "shift+tab" {
				m.focused--
			} else {
				m.focused++
			}
			if m.focused < 0 {
				m.focused = len(m.inputs) - 1
			} else if m.focused >= len(m.inputs) {
				m.focused = 0
			}

			cmds := make([]tea.Cmd, len(m.inputs)+1)
			for i := range m.inputs {
				if i == m.focused {
					cmds[i] = m.inputs[i].Focus()
				} else {
					m.inputs[i].Blur()
				}
			}
			m.activeCmd = "tab"
			cmds[len(m.inputs)] = HighlightCmd()
			return m, tea.Batch(cmds...)
		}
	}

	if m.confirming {
		return m, nil
	}
	cmd := m.updateInputs(msg)
	return m, cmd
}

func (m *editFormModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m editFormModel) View() string {
	outerStyle := lipgloss.NewStyle().Padding(2, 4)

	sepStyle := lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#444444"})
	formLabel := lipgloss.NewStyle().
		Foreground(ColorGray).
		Width(12).
		Align(lipgloss.Right).
		PaddingRight(1)
	formLabelActive := formLabel.
		Foreground(ColorYellow).
		Bold(true)

	const w = 56
	sep := sepStyle.Render(strings.Repeat("─", w))

	var b strings.Builder

	b.WriteString(StyleHeader.Render("Edit Loan"))
	b.WriteString("\n")
	b.WriteString(StyleHelp.Render(fmt.Sprintf("%s · %s", m.original.ID, m.original.Title())))
	b.WriteString("\n")
	name, nim := m.original.Borrower()
	if name != "" || nim != "" {
		b.WriteString(StyleTag.Render(strings.TrimSpace(name + " " + nim)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(sep)
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	for i, label := range editFieldLabels {
		if i == m.focused && !m.confirming {
			b.WriteString(formLabelActive.Render("› " + label))
		} else {
			b.WriteString(formLabel.Render(label))
		}
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}
	b.WriteString(StyleHelp.Render("  statuses: " + joinStatuses()))
	b.WriteString("\n")

	b.WriteString(sep)
	b.WriteString("\n")

	if m.confirming {
		b.WriteString(StyleHighlight.Render("  Apply changes? "))
		b.WriteString(StyleHelp.Render("Y/n"))
	} else {
		b.WriteString(RenderFooterBar([]ShortcutEntry{
			{Key: "tab", Label: "Tab/↑↓ navigate"},
			{Key: "enter", Label: "enter submit"},
			{Key: "", Label: "esc cancel"},
		}, m.activeCmd))
	}
	b.WriteString("\n")

	innerPadding := lipgloss.NewStyle().Padding(0, 2, 0, 1)
	return outerStyle.Render(StyleBorder.Render(innerPadding.Render(b.String())))
}

func joinStatuses() string {
	names := make([]string, len(loan.Statuses))
	for i, s := range loan.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// RunLoanEditForm launches an interactive form for editing a loan.
// Returns only the changed fields, or ErrFormCanceled.
func RunLoanEditForm(l loan.Loan) (loan.UpdateRequest, error) {
	p := tea.NewProgram(newEditForm(l), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return loan.UpdateRequest{}, fmt.Errorf("running form: %w", err)
	}

	fm, ok := finalModel.(editFormModel)
	if !ok {
		return loan.UpdateRequest{}, fmt.Errorf("unexpected model type")
	}
	if fm.canceled || fm.result == nil {
		return loan.UpdateRequest{}, ErrFormCanceled
	}
	return *fm.result, nil
}
