package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/perpusctl/internal/loan"
)

// ClearActiveCmdMsg clears the active command highlight in the footer.
type ClearActiveCmdMsg struct{}

// ShortcutEntry pairs a trigger key with its footer label.
type ShortcutEntry struct {
	Key   string // trigger key to match against activeCmd (empty = no highlight)
	Label string // display text
}

// HighlightCmd returns a 500ms tick command to clear the active command highlight.
// Callers must set activeCmd on the model directly before returning:
//
//	m.activeCmd = "key"
//	return m, tui.HighlightCmd()
func HighlightCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return ClearActiveCmdMsg{}
	})
}

// RenderFooterBar renders a footer bar with shortcut labels.
// The shortcut matching activeCmd is rendered with StyleHighlight; others are dim.
func RenderFooterBar(shortcuts []ShortcutEntry, activeCmd string) string {
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	parts := make([]string, len(shortcuts))
	for i, sc := range shortcuts {
		if activeCmd != "" && sc.Key == activeCmd {
			parts[i] = StyleHighlight.Render("[ " + sc.Label + " ]")
		} else {
			parts[i] = dimStyle.Render(sc.Label)
		}
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(parts, dimStyle.Render(" • ")))
}

// RenderPageStatus renders "page 2/5 · 41 books" followed by extra parts,
// with spin in front while a fetch is in flight.
func RenderPageStatus(pageIndex, totalPages, total int, noun, spin string, extra ...string) string {
	parts := append([]string{fmt.Sprintf("page %d/%d · %d %s", pageIndex+1, max(totalPages, 1), total, noun)}, extra...)
	status := strings.Join(parts, " · ")
	if spin != "" {
		status = spin + " " + status
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(StyleHelp.Render(status))
}

// RenderNotice renders a notification line in its tone's colour. Empty
// messages render as nothing.
func RenderNotice(msg string, t loan.Tone) string {
	if msg == "" {
		return ""
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(ToneStyle(t).Render(msg))
}
