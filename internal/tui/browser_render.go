package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/loan"
)

func (m BrowserModel) renderDetailsPane() string {
	bookItem, ok := m.list.SelectedItem().(BookItem)
	if !ok {
		return ""
	}
	b := bookItem.Book

	// 40% of screen, accounting for divider and master border
	detailsWidth := max(((m.width-2)*4)/10, 30)

	const labelWidth = 10
	maxTextWidth := max(detailsWidth-2-labelWidth, 10)

	detailsStyle := lipgloss.NewStyle().
		Width(detailsWidth).
		Padding(0, 1)

	var s strings.Builder
	field := func(label, value string) {
		if value == "" {
			return
		}
		s.WriteString(StyleHighlight.Render(label + ": "))
		s.WriteString(truncateText(value, maxTextWidth))
		s.WriteString("\n\n")
	}

	s.WriteString(StyleHeader.Render("Book Details"))
	s.WriteString("\n\n")

	field("Title", b.Title)
	field("Author", b.Author)
	field("Publisher", b.Publisher)
	if b.Year > 0 {
		field("Year", fmt.Sprintf("%d", b.Year))
	}
	field("ISBN", b.ISBN)
	if b.CategoryName != "" {
		s.WriteString(StyleHighlight.Render("Category: "))
		pill := lipgloss.NewStyle().
			Foreground(ColorTealLight).
			Padding(0, 1).Render(b.CategoryName)
		s.WriteString(pill)
		s.WriteString("\n\n")
	}
	field("Shelf", b.Location())
	field("Copies", fmt.Sprintf("%d", b.CopyCount))

	s.WriteString(StyleHighlight.Render("Stock: "))
	s.WriteString(m.renderLive(b))
	s.WriteString("\n")

	return detailsStyle.Render(s.String())
}

// renderLive shows the live stock line for b, or a placeholder while the
// check is still running.
func (m BrowserModel) renderLive(b catalog.Book) string {
	live, ok := m.live[b.ID]
	switch {
	case !ok:
		return StyleHelp.Render(m.spinner.View() + " checking")
	case live.Unknown:
		return ToneStyle(loan.ToneWarning).Render("unknown")
	case live.AvailableStock > 0 && catalog.CanBorrow(b, &live):
		return StyleAvailable.Render(fmt.Sprintf("%d of %d available", live.AvailableStock, live.TotalStock))
	default:
		return StyleError.Render(fmt.Sprintf("%d of %d available", live.AvailableStock, live.TotalStock))
	}
}

// renderStatusLine shows paging, the active search and any error.
func (m BrowserModel) renderStatusLine() string {
	if m.searching {
		return lipgloss.NewStyle().Padding(0, 1).Render(m.search.View())
	}
	if m.err != "" {
		return RenderNotice(m.err, loan.ToneDanger)
	}
	if m.notice != "" {
		return RenderNotice(m.notice, loan.ToneWarning)
	}

	var extra []string
	if m.query.Search != "" {
		extra = append(extra, fmt.Sprintf("search %q", m.query.Search))
	}
	spin := ""
	if m.loading {
		spin = m.spinner.View()
	}
	return RenderPageStatus(m.query.PageIndex(), m.page.TotalPages, m.page.TotalElements, "books", spin, extra...)
}

// renderFooter creates a footer with all available keyboard shortcuts.
// The shortcut matching activeCmd is rendered with StyleHighlight.
func (m BrowserModel) renderFooter() string {
	shortcuts := []ShortcutEntry{
		{Key: "", Label: "↑/↓ navigate"},
		{Key: "/", Label: "/ search"},
		{Key: "n", Label: "n next"},
		{Key: "p", Label: "p prev"},
		{Key: "r", Label: "r reload"},
	}
	if m.opts.AllowBorrow {
		shortcuts = append(shortcuts, ShortcutEntry{Key: "b", Label: "b borrow"})
	}
	shortcuts = append(shortcuts,
		ShortcutEntry{Key: "tab", Label: "tab detail toggle"},
		ShortcutEntry{Key: "", Label: "q quit"},
	)
	return RenderFooterBar(shortcuts, m.activeCmd)
}

func (m BrowserModel) View() string {
	if m.quitting {
		return ""
	}

	outerStyle := lipgloss.NewStyle().Padding(2, 4)

	masterStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTeal).
		Padding(0)

	// Subtract outer padding (2*2 vertical, 4*2 horizontal) and border (2 each side)
	if m.width > 0 && m.height > 0 {
		innerWidth := max(m.width-(4*2)-2, 60)
		innerHeight := max(m.height-(2*2)-2, 10)
		masterStyle = masterStyle.Width(innerWidth).Height(innerHeight)
	}

	var mainContent string
	switch {
	case len(m.list.Items()) == 0 && !m.loading:
		mainContent = lipgloss.NewStyle().Padding(1, 2).Render(StyleHelp.Render("No books found."))
	case m.showDetails:
		listStyle := lipgloss.NewStyle().
			BorderRight(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorTeal)
		mainContent = lipgloss.JoinHorizontal(
			lipgloss.Top,
			listStyle.Render(m.list.View()),
			m.renderDetailsPane(),
		)
	default:
		mainContent = m.list.View()
	}

	dividerWidth := max(m.width-(4*2)-2, 40)
	divider := lipgloss.NewStyle().
		Foreground(ColorTeal).
		Width(dividerWidth).
		Render(strings.Repeat("─", dividerWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, mainContent, m.renderStatusLine(), divider, m.renderFooter())
	return outerStyle.Render(masterStyle.Render(content))
}
