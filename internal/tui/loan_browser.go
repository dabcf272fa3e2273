package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/latest"
	"github.com/blackwell-systems/perpusctl/internal/loan"
	"github.com/blackwell-systems/perpusctl/internal/tui/delegate"
)

// LoanPageFunc loads one page of loans. loan.Service.ListMine and
// ListAll have this shape.
type LoanPageFunc func(ctx context.Context, q api.Query) (api.Page[loan.Loan], error)

// LoanAction is what the user asked to do with the highlighted loan.
type LoanAction string

const (
	LoanActionNone    LoanAction = ""
	LoanActionReturn  LoanAction = "return"
	LoanActionApprove LoanAction = "approve"
	LoanActionForce   LoanAction = "force-return"
	LoanActionEdit    LoanAction = "edit"
	LoanActionDelete  LoanAction = "delete"
)

// LoanBrowserOptions configures RunLoanBrowser.
type LoanBrowserOptions struct {
	Load       LoanPageFunc
	Query      api.Query
	Classifier loan.Classifier
	Now        func() time.Time
	Admin      bool
	Title      string
	// Notice is shown on open, typically the outcome of the last action.
	Notice     string
	NoticeTone loan.Tone
}

// LoanBrowserResult holds the chosen action and loan, plus the query the
// browser ended on so callers can reopen it in place.
type LoanBrowserResult struct {
	Action LoanAction
	Loan   *loan.Loan
	Query  api.Query
}

type loanKeys struct {
	quit     key.Binding
	ret      key.Binding
	approve  key.Binding
	force    key.Binding
	edit     key.Binding
	del      key.Binding
	status   key.Binding
	sortDate key.Binding
	page     PageKeys
}

var loanKeyMap = loanKeys{
	quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	ret:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "return")),
	approve:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")),
	force:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "force return")),
	edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	del:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	status:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
	sortDate: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort by date")),
	page:     NewPageKeys(),
}

type loansLoadedMsg struct {
	token latest.Token
	page  api.Page[loan.Loan]
	err   error
}

type loanBrowserModel struct {
	ctx   context.Context
	opts  LoanBrowserOptions
	query api.Query
	page  api.Page[loan.Loan]

	list    list.Model
	spinner spinner.Model
	guard   *latest.Guard

	loading   bool
	quitting  bool
	err       string
	notice    string
	tone      loan.Tone
	activeCmd string
	width     int
	height    int

	action   LoanAction
	selected *loan.Loan
}

func newLoanBrowser(ctx context.Context, opts LoanBrowserOptions) loanBrowserModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	l := list.New(nil, delegate.Rows{Draw: renderLoanItem, Lines: 2, Gap: 1}, 0, 0)
	l.Title = opts.Title
	if l.Title == "" {
		l.Title = "Loans"
	}
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = StyleHeader

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorTeal)

	q := opts.Query
	if q.PageNumber < 1 {
		q = q.WithPage(0)
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}

	return loanBrowserModel{
		ctx:     ctx,
		opts:    opts,
		query:   q,
		list:    l,
		spinner: sp,
		guard:   &latest.Guard{},
		notice:  opts.Notice,
		tone:    opts.NoticeTone,
	}
}

func (m *loanBrowserModel) load() tea.Cmd {
	m.loading = true
	m.err = ""
	tok := m.guard.Begin(m.ctx)
	fetch, q := m.opts.Load, m.query
	return func() tea.Msg {
		page, err := fetch(tok.Ctx, q)
		return loansLoadedMsg{token: tok, page: page, err: err}
	}
}

func (m loanBrowserModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m loanBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loansLoadedMsg:
		var cmd tea.Cmd
		m.guard.Apply(msg.token, func() {
			m.loading = false
			if msg.err != nil {
				m.err = api.DisplayMessage(msg.err)
				return
			}
			m.page = msg.page
			rows := NewLoanItems(msg.page.Content, m.opts.Classifier, m.opts.Now(), m.opts.Admin)
			items := make([]list.Item, len(rows))
			for i, r := range rows {
				items[i] = r
			}
			cmd = m.list.SetItems(items)
		})
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ClearActiveCmdMsg:
		m.activeCmd = ""
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := max(msg.Width-(4*2)-2, 40)
		h := max(msg.Height-(2*2)-2-4, 6)
		m.list.SetSize(w, h)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// choose closes the browser with action applied to the highlighted loan.
func (m loanBrowserModel) choose(a LoanAction) (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(LoanItem)
	if !ok {
		return m, nil
	}
	l := item.Loan
	m.action = a
	m.selected = &l
	m.quitting = true
	m.guard.Stop()
	return m, tea.Quit
}

func (m loanBrowserModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	admin := m.opts.Admin
	switch {
	case key.Matches(msg, loanKeyMap.quit):
		m.quitting = true
		m.guard.Stop()
		return m, tea.Quit

	case !admin && key.Matches(msg, loanKeyMap.ret):
		item, ok := m.list.SelectedItem().(LoanItem)
		if !ok {
			return m, nil
		}
		if !m.opts.Classifier.IsActive(item.Loan) {
			m.notice, m.tone = "Only active loans can be returned.", loan.ToneWarning
			return m, nil
		}
		return m.choose(LoanActionReturn)

	case admin && key.Matches(msg, loanKeyMap.approve):
		item, ok := m.list.SelectedItem().(LoanItem)
		if !ok {
			return m, nil
		}
		if len(loan.PendingReturns([]loan.Loan{item.Loan})) == 0 {
			m.notice, m.tone = "This loan has no pending return.", loan.ToneWarning
			return m, nil
		}
		return m.choose(LoanActionApprove)

	case admin && key.Matches(msg, loanKeyMap.force):
		return m.choose(LoanActionForce)

	case admin && key.Matches(msg, loanKeyMap.edit):
		return m.choose(LoanActionEdit)

	case admin && key.Matches(msg, loanKeyMap.del):
		return m.choose(LoanActionDelete)

	case admin && key.Matches(msg, loanKeyMap.status):
		m.query.Status = nextStatus(m.query.Status)
		m.query = m.query.WithPage(0)
		m.activeCmd = "s"
		return m, tea.Batch(m.load(), HighlightCmd())

	case key.Matches(msg, loanKeyMap.sortDate):
		m.query = m.query.ToggleSort("tanggalPinjam")
		m.activeCmd = "o"
		return m, tea.Batch(m.load(), HighlightCmd())

	case key.Matches(msg, loanKeyMap.page.Next):
		m.activeCmd = "n"
		if m.page.HasNext() && !m.loading {
			m.query = m.query.WithPage(m.query.PageIndex() + 1)
			return m, tea.Batch(m.load(), HighlightCmd())
		}
		return m, HighlightCmd()

	case key.Matches(msg, loanKeyMap.page.Prev):
		m.activeCmd = "p"
		if m.page.HasPrev() && !m.loading {
			m.query = m.query.WithPage(m.query.PageIndex() - 1)
			return m, tea.Batch(m.load(), HighlightCmd())
		}
		return m, HighlightCmd()

	case key.Matches(msg, loanKeyMap.page.Reload):
		m.activeCmd = "r"
		return m, tea.Batch(m.load(), HighlightCmd())
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// nextStatus cycles the admin status filter: all, then each known status.
func nextStatus(current string) string {
	if current == "" {
		return string(loan.Statuses[0])
	}
	for i, s := range loan.Statuses {
		if string(s) == current && i+1 < len(loan.Statuses) {
			return string(loan.Statuses[i+1])
		}
	}
	return ""
}

func (m loanBrowserModel) renderFooter() string {
	shortcuts := []ShortcutEntry{{Key: "", Label: "↑/↓ navigate"}}
	if m.opts.Admin {
		shortcuts = append(shortcuts,
			ShortcutEntry{Key: "a", Label: "a approve"},
			ShortcutEntry{Key: "f", Label: "f force"},
			ShortcutEntry{Key: "e", Label: "e edit"},
			ShortcutEntry{Key: "d", Label: "d delete"},
			ShortcutEntry{Key: "s", Label: "s status"},
		)
	} else {
		shortcuts = append(shortcuts, ShortcutEntry{Key: "", Label: "enter return"})
	}
	shortcuts = append(shortcuts,
		ShortcutEntry{Key: "o", Label: "o sort"},
		ShortcutEntry{Key: "n", Label: "n/p page"},
		ShortcutEntry{Key: "r", Label: "r reload"},
		ShortcutEntry{Key: "", Label: "q quit"},
	)
	return RenderFooterBar(shortcuts, m.activeCmd)
}

func (m loanBrowserModel) renderStatusLine() string {
	if m.err != "" {
		return RenderNotice(m.err, loan.ToneDanger)
	}
	if m.notice != "" {
		return RenderNotice(m.notice, m.tone)
	}
	var extra []string
	if m.query.Status != "" {
		extra = append(extra, "status "+m.query.Status)
	}
	if m.query.SortColumn != "" {
		extra = append(extra, "sorted "+strings.ToLower(m.query.SortColumnDir))
	}
	spin := ""
	if m.loading {
		spin = m.spinner.View()
	}
	return RenderPageStatus(m.query.PageIndex(), m.page.TotalPages, m.page.TotalElements, "loans", spin, extra...)
}

func (m loanBrowserModel) View() string {
	if m.quitting {
		return ""
	}

	outerStyle := lipgloss.NewStyle().Padding(2, 4)
	masterStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorTeal)
	if m.width > 0 && m.height > 0 {
		masterStyle = masterStyle.
			Width(max(m.width-(4*2)-2, 60)).
			Height(max(m.height-(2*2)-2, 10))
	}

	body := m.list.View()
	if len(m.list.Items()) == 0 && !m.loading {
		body = lipgloss.NewStyle().Padding(1, 2).Render(StyleHelp.Render("No loans."))
	}

	dividerWidth := max(m.width-(4*2)-2, 40)
	divider := lipgloss.NewStyle().
		Foreground(ColorTeal).
		Render(strings.Repeat("─", dividerWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusLine(), divider, m.renderFooter())
	return outerStyle.Render(masterStyle.Render(content))
}

// RunLoanBrowser launches the interactive loan list.
func RunLoanBrowser(ctx context.Context, opts LoanBrowserOptions) (*LoanBrowserResult, error) {
	if opts.Load == nil {
		return nil, fmt.Errorf("no loan source")
	}

	p := tea.NewProgram(newLoanBrowser(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running TUI: %w", err)
	}

	fm, ok := finalModel.(loanBrowserModel)
	if !ok {
		return &LoanBrowserResult{Action: LoanActionNone, Query: opts.Query}, nil
	}
	return &LoanBrowserResult{Action: fm.action, Loan: fm.selected, Query: fm.query}, nil
}
