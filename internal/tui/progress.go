package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrInterrupted is returned when the user presses ctrl+c during a wait.
var ErrInterrupted = errors.New("interrupted by user")

// taskDoneMsg is sent when the background task returns
type taskDoneMsg struct{ err error }

// tickMsg is sent periodically to refresh the countdown
type tickMsg time.Time

// taskModel shows a spinner while a request runs.
type taskModel struct {
	spinner   spinner.Model
	label     string
	run       func() tea.Msg
	done      bool
	err       error
	cancelled bool
}

func (m taskModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m taskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		}

	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m taskModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.label)
}

// RunTask shows a spinner labelled label while task runs. ctrl+c cancels
// the task's context and returns ErrInterrupted.
func RunTask(ctx context.Context, label string, task func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorTeal)

	m := taskModel{
		spinner: sp,
		label:   label,
		run: func() tea.Msg {
			return taskDoneMsg{err: task(ctx)}
		},
	}

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	fm, ok := finalModel.(taskModel)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}
	if fm.cancelled {
		return ErrInterrupted
	}
	return fm.err
}

// countdownModel fills a progress bar over a fixed delay.
type countdownModel struct {
	progress  progress.Model
	label     string
	start     time.Time
	delay     time.Duration
	done      bool
	cancelled bool
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m countdownModel) Init() tea.Cmd {
	return tickCmd()
}

func (m countdownModel) percent(now time.Time) float64 {
	if m.delay <= 0 {
		return 1
	}
	return min(float64(now.Sub(m.start))/float64(m.delay), 1)
}

func (m countdownModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		case "enter", " ":
			// skip the wait
			m.done = true
			return m, tea.Quit
		}

	case tickMsg:
		if m.percent(time.Time(msg)) >= 1 {
			m.done = true
			return m, tea.Quit
		}
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil
	}
	return m, nil
}

func (m countdownModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n", m.label, m.progress.ViewAs(m.percent(time.Now())))
}

// ShowCountdown shows label over a bar that fills during delay. Enter
// skips the rest of the wait.
func ShowCountdown(label string, delay time.Duration) error {
	m := countdownModel{
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		label:    label,
		start:    time.Now(),
		delay:    delay,
	}

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(countdownModel); ok && fm.cancelled {
		return ErrInterrupted
	}
	return nil
}
