package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Credentials is what the login form collects.
type Credentials struct {
	Username string
	Password string
}

type loginFormModel struct {
	inputs    []textinput.Model
	focused   int
	server    string
	err       error
	done      bool
	canceled  bool
	activeCmd string
}

func newLoginForm(server, username string) loginFormModel {
	m := loginFormModel{inputs: make([]textinput.Model, 2), server: server}

	m.inputs[0] = textinput.New()
	m.inputs[0].Placeholder = "username"
	m.inputs[0].SetValue(username)
	m.inputs[0].CharLimit = 64
	m.inputs[0].Width = 32

	m.inputs[1] = textinput.New()
	m.inputs[1].Placeholder = "password"
	m.inputs[1].EchoMode = textinput.EchoPassword
	m.inputs[1].EchoCharacter = '•'
	m.inputs[1].CharLimit = 128
	m.inputs[1].Width = 32

	for i := range m.inputs {
		m.inputs[i].Prompt = "│ "
	}
	if username != "" {
		m.focused = 1
	}
	m.inputs[m.focused].Focus()
	return m
}

func (m loginFormModel) credentials() Credentials {
	return Credentials{
		Username: strings.TrimSpace(m.inputs[0].Value()),
		Password: m.inputs[1].Value(),
	}
}

func (m loginFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.canceled = true
			return m, tea.Quit

		case "enter":
			c := m.credentials()
			if m.focused == 0 && c.Password == "" {
				return m.focus(1)
			}
			if c.Username == "" || c.Password == "" {
				m.err = fmt.Errorf("username and password are required")
				return m, nil
			}
			m.done = true
			return m, tea.Quit

		case "tab", "shift+tab", "up", "down":
			m.activeCmd = "tab"
			next, cmd := m.focus(1 - m.focused)
			return next, tea.Batch(cmd, HighlightCmd())
		}
	}

	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m loginFormModel) focus(i int) (tea.Model, tea.Cmd) {
	m.focused = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return m, cmd
}

func (m loginFormModel) View() string {
	label := lipgloss.NewStyle().
		Foreground(ColorGray).
		Width(11).
		Align(lipgloss.Right).
		PaddingRight(1)
	active := label.Foreground(ColorYellow).Bold(true)

	var b strings.Builder
	b.WriteString(StyleHeader.Render("Sign in"))
	b.WriteString("\n")
	b.WriteString(StyleHelp.Render(m.server))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleError.Render(m.err.Error()))
		b.WriteString("\n\n")
	}

	for i, name := range []string{"Username", "Password"} {
		if i == m.focused {
			b.WriteString(active.Render("› " + name))
		} else {
			b.WriteString(label.Render(name))
		}
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	b.WriteString(RenderFooterBar([]ShortcutEntry{
		{Key: "tab", Label: "tab switch"},
		{Key: "", Label: "enter sign in"},
		{Key: "", Label: "esc cancel"},
	}, m.activeCmd))
	b.WriteString("\n")

	return lipgloss.NewStyle().Padding(1, 2).Render(StyleBorder.Render(lipgloss.NewStyle().Padding(0, 2, 0, 1).Render(b.String())))
}

// RunLoginForm asks for credentials with the password masked. username
// pre-fills the first field. Returns ErrFormCanceled on esc.
func RunLoginForm(server, username string) (Credentials, error) {
	p := tea.NewProgram(newLoginForm(server, username))

	finalModel, err := p.Run()
	if err != nil {
		return Credentials{}, fmt.Errorf("running login form: %w", err)
	}
	fm, ok := finalModel.(loginFormModel)
	if !ok {
		return Credentials{}, fmt.Errorf("unexpected model type")
	}
	if fm.canceled || !fm.done {
		return Credentials{}, ErrFormCanceled
	}
	return fm.credentials(), nil
}
