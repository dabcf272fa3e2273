package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/perpusctl/internal/tui/delegate"
)

// MenuItem represents an action in the hub menu
type MenuItem struct {
	Key         string
	Label       string
	Description string
	AdminOnly   bool
	MemberOnly  bool
}

// FilterValue implements list.Item
func (m MenuItem) FilterValue() string {
	return m.Label + " " + m.Description
}

// HubContext holds context info to display in the hub
type HubContext struct {
	UserName string
	Admin    bool
	Active   int
	Overdue  int
	Pending  int
	Offline  bool
}

// menuItems defines the menu in logical order
var menuItems = []MenuItem{
	// Catalog
	{Key: "books", Label: "Browse Catalog", Description: "Search books and check availability"},
	{Key: "borrow", Label: "Borrow Book", Description: "Pick a book and borrow it for 7 days", MemberOnly: true},
	// Loans
	{Key: "loans", Label: "My Loans", Description: "Active, overdue and completed loans", MemberOnly: true},
	{Key: "return", Label: "Return Book", Description: "Request the return of an active loan", MemberOnly: true},
	// Admin
	{Key: "dashboard", Label: "Dashboard", Description: "Stats, recent loans and pending returns", AdminOnly: true},
	{Key: "admin-loans", Label: "Manage Loans", Description: "Approve, force-return, edit or delete loans", AdminOnly: true},
	{Key: "sweep", Label: "Check Overdue", Description: "Run the overdue sweep on the server", AdminOnly: true},
	// Account
	{Key: "profile", Label: "Profile", Description: "Show the signed-in account"},
	{Key: "logout", Label: "Log Out", Description: "Clear the stored session"},
	// Exit
	{Key: "quit", Label: "Quit", Description: "Exit perpusctl"},
}

// MenuFor returns the hub entries visible to the given role.
func MenuFor(admin bool) []MenuItem {
	var items []MenuItem
	for _, item := range menuItems {
		if item.AdminOnly && !admin {
			continue
		}
		if item.MemberOnly && admin {
			continue
		}
		items = append(items, item)
	}
	return items
}

// renderMenuItem renders a menu item in the hub
func renderMenuItem(w io.Writer, m list.Model, index int, item list.Item) {
	menuItem, ok := item.(MenuItem)
	if !ok {
		return
	}

	label := menuItem.Label
	desc := StyleHelp.Render(menuItem.Description)
	display := fmt.Sprintf("%-20s %s", label, desc)

	if index == m.Index() {
		_, _ = fmt.Fprint(w, StyleHighlight.Render("› "+display))
	} else {
		_, _ = fmt.Fprint(w, "  "+StyleNormal.Render(display))
	}
}

type hubModel struct {
	list     list.Model
	quitting bool
	action   string
	context  HubContext
	width    int
	height   int
}

var hubKeyMap = NewPickerKeys()

func (m hubModel) Init() tea.Cmd {
	return nil
}

func (m hubModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, hubKeyMap.Quit):
			m.quitting = true
			m.action = "quit"
			return m, tea.Quit

		case key.Matches(msg, hubKeyMap.Select):
			if item, ok := m.list.SelectedItem().(MenuItem); ok {
				m.action = item.Key
				m.quitting = true
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Account for outer padding, inner padding, border, and header content
		const outerPaddingH = 4 * 2
		const outerPaddingV = 2 * 2
		const innerPaddingH = 1 + 2
		const headerLines = 4
		h, v := StyleBorder.GetFrameSize()

		listWidth := max(msg.Width-outerPaddingH-innerPaddingH-h, 40)
		listHeight := max(msg.Height-outerPaddingV-v-headerLines, 5)
		m.list.SetSize(listWidth, listHeight)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// statusLine summarises the session for the hub header.
func (c HubContext) statusLine() string {
	if c.UserName == "" {
		return ""
	}
	role := "member"
	if c.Admin {
		role = "admin"
	}
	line := fmt.Sprintf("  %s (%s)", c.UserName, role)
	if c.Offline {
		return StyleHelp.Render(line + " · server unreachable")
	}
	if c.Admin {
		line += fmt.Sprintf(" · %d active · %d pending returns", c.Active, c.Pending)
	} else {
		line += fmt.Sprintf(" · %d active loans", c.Active)
		if c.Pending > 0 {
			line += fmt.Sprintf(" · %d awaiting return approval", c.Pending)
		}
	}
	out := StyleHelp.Render(line)
	if c.Overdue > 0 {
		out += StyleError.Render(fmt.Sprintf(" · %d overdue", c.Overdue))
	}
	return out
}

func (m hubModel) View() string {
	if m.quitting {
		return ""
	}

	outerStyle := lipgloss.NewStyle().Padding(2, 4)

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Padding(0, 1).
		Render("perpusctl - Perpustakaan")

	parts := []string{header}
	if status := m.context.statusLine(); status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, m.list.View())

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	innerPadding := lipgloss.NewStyle().Padding(0, 2, 0, 1)

	return outerStyle.Render(StyleBorder.Render(innerPadding.Render(content)))
}

// RunHub launches the interactive hub menu.
// Returns the selected action key, or "quit".
func RunHub(ctx HubContext) (string, error) {
	var items []list.Item
	for _, item := range MenuFor(ctx.Admin) {
		items = append(items, item)
	}

	d := delegate.Rows{Draw: renderMenuItem, Gap: 1}
	l := list.New(items, d, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = StyleHelp
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{hubKeyMap.Select}
	}

	m := hubModel{
		list:    l,
		context: ctx,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("running hub: %w", err)
	}

	fm, ok := finalModel.(hubModel)
	if !ok {
		return "", fmt.Errorf("unexpected model type")
	}
	return fm.action, nil
}
