package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/latest"
	"github.com/blackwell-systems/perpusctl/internal/tui/delegate"
)

// BookPager loads one server-side page of the catalog. *catalog.Service
// implements it.
type BookPager interface {
	Search(ctx context.Context, q api.Query) (api.Page[catalog.Book], error)
}

// AvailabilityChecker returns live stock for a book. *catalog.Gate
// implements it.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, id api.ID) catalog.LiveStatus
}

// BrowserAction represents an action requested from the browser
type BrowserAction string

const (
	ActionNone   BrowserAction = ""
	ActionBorrow BrowserAction = "borrow"
)

// BrowserResult holds the result of a browser session
type BrowserResult struct {
	Action BrowserAction
	Book   *catalog.Book
	Live   *catalog.LiveStatus
}

// BrowserOptions configures RunBookBrowser.
type BrowserOptions struct {
	Pager       BookPager
	Gate        AvailabilityChecker
	Query       api.Query
	AllowBorrow bool
	Title       string
}

type browserKeys struct {
	quit    key.Binding
	details key.Binding
	borrow  key.Binding
	page    PageKeys
}

var bookKeys = browserKeys{
	quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	details: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "details"),
	),
	borrow: key.NewBinding(
		key.WithKeys("b", "enter"),
		key.WithHelp("b", "borrow"),
	),
	page: NewPageKeys(),
}

type pageLoadedMsg struct {
	token latest.Token
	page  api.Page[catalog.Book]
	err   error
}

type liveStatusMsg struct {
	token  latest.Token
	id     api.ID
	status catalog.LiveStatus
}

// BrowserModel is the paged catalog browser. Pages and live availability
// are fetched asynchronously; only the newest request of each kind is
// allowed to update the view.
type BrowserModel struct {
	ctx   context.Context
	opts  BrowserOptions
	query api.Query
	page  api.Page[catalog.Book]

	list    list.Model
	spinner spinner.Model
	search  textinput.Model

	pages *latest.Guard
	lives *latest.Guard
	live  map[api.ID]catalog.LiveStatus

	loading     bool
	searching   bool
	showDetails bool
	quitting    bool
	err         string
	notice      string
	activeCmd   string
	width       int
	height      int

	action   BrowserAction
	selected *catalog.Book
}

func newBrowserModel(ctx context.Context, opts BrowserOptions) BrowserModel {
	l := list.New(nil, delegate.Rows{Draw: renderBookItem}, 0, 0)
	l.Title = opts.Title
	if l.Title == "" {
		l.Title = "Catalog"
	}
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = StyleHeader

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorTeal)

	in := textinput.New()
	in.Placeholder = "title, author or ISBN"
	in.Prompt = "/ "
	in.CharLimit = 100
	in.SetValue(opts.Query.Search)

	q := opts.Query
	if q.PageNumber < 1 {
		q = api.NewQuery(0, q.PageSize)
		q.Search = opts.Query.Search
		q.KategoriID = opts.Query.KategoriID
	}

	return BrowserModel{
		ctx:         ctx,
		opts:        opts,
		query:       q,
		list:        l,
		spinner:     sp,
		search:      in,
		pages:       &latest.Guard{},
		lives:       &latest.Guard{},
		live:        map[api.ID]catalog.LiveStatus{},
		showDetails: true,
	}
}

// load starts fetching the page described by m.query. Any page request
// still in flight is canceled and its result discarded.
func (m *BrowserModel) load() tea.Cmd {
	m.loading = true
	m.err = ""
	tok := m.pages.Begin(m.ctx)
	pager, q := m.opts.Pager, m.query
	return func() tea.Msg {
		page, err := pager.Search(tok.Ctx, q)
		return pageLoadedMsg{token: tok, page: page, err: err}
	}
}

// checkSelected fetches live stock for the highlighted book.
func (m *BrowserModel) checkSelected() tea.Cmd {
	item, ok := m.list.SelectedItem().(BookItem)
	if !ok || m.opts.Gate == nil {
		return nil
	}
	if _, seen := m.live[item.Book.ID]; seen {
		return nil
	}
	tok := m.lives.Begin(m.ctx)
	gate, id := m.opts.Gate, item.Book.ID
	return func() tea.Msg {
		return liveStatusMsg{token: tok, id: id, status: gate.CheckAvailability(tok.Ctx, id)}
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg:
		var cmd tea.Cmd
		m.pages.Apply(msg.token, func() {
			m.loading = false
			if msg.err != nil {
				m.err = api.DisplayMessage(msg.err)
				return
			}
			m.page = msg.page
			items := make([]list.Item, len(msg.page.Content))
			for i, b := range msg.page.Content {
				items[i] = BookItem{Book: b}
			}
			cmd = m.list.SetItems(items)
			m.list.ResetSelected()
		})
		return m, tea.Batch(cmd, m.checkSelected())

	case liveStatusMsg:
		m.lives.Apply(msg.token, func() {
			m.live[msg.id] = msg.status
		})
		return m, nil

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
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		m.query.Search = strings.TrimSpace(m.search.Value())
		m.query = m.query.WithPage(0)
		return m, m.load()
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.query.Search)
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m BrowserModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, bookKeys.quit):
		m.pages.Stop()
		m.lives.Stop()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, bookKeys.page.Search):
		m.searching = true
		m.activeCmd = "/"
		return m, tea.Batch(m.search.Focus(), HighlightCmd())

	case key.Matches(msg, bookKeys.page.Next):
		m.activeCmd = "n"
		if !m.page.HasNext() || m.loading {
			return m, HighlightCmd()
		}
		m.query = m.query.WithPage(m.query.PageIndex() + 1)
		return m, tea.Batch(m.load(), HighlightCmd())

	case key.Matches(msg, bookKeys.page.Prev):
		m.activeCmd = "p"
		if !m.page.HasPrev() || m.loading {
			return m, HighlightCmd()
		}
		m.query = m.query.WithPage(m.query.PageIndex() - 1)
		return m, tea.Batch(m.load(), HighlightCmd())

	case key.Matches(msg, bookKeys.page.Reload):
		m.activeCmd = "r"
		m.live = map[api.ID]catalog.LiveStatus{}
		return m, tea.Batch(m.load(), HighlightCmd())

	case key.Matches(msg, bookKeys.details):
		m.showDetails = !m.showDetails
		m.activeCmd = "tab"
		m.resize()
		return m, HighlightCmd()

	case key.Matches(msg, bookKeys.borrow):
		if !m.opts.AllowBorrow {
			return m, nil
		}
		item, ok := m.list.SelectedItem().(BookItem)
		if !ok {
			return m, nil
		}
		m.activeCmd = "b"
		live, checked := m.live[item.Book.ID]
		var livePtr *catalog.LiveStatus
		if checked {
			livePtr = &live
		}
		if reason := catalog.BorrowBlockReason(item.Book, livePtr); reason != "" {
			m.notice = "Cannot borrow: " + reason
			return m, HighlightCmd()
		}
		book := item.Book
		m.action = ActionBorrow
		m.selected = &book
		m.quitting = true
		m.pages.Stop()
		m.lives.Stop()
		return m, tea.Quit
	}

	prev := m.list.Index()
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if m.list.Index() != prev {
		m.notice = ""
		return m, tea.Batch(cmd, m.checkSelected())
	}
	return m, cmd
}

func (m *BrowserModel) resize() {
	if m.width == 0 {
		return
	}
	// outer padding, master border, divider, footer, status line
	w := max(m.width-(4*2)-2, 40)
	h := max(m.height-(2*2)-2-4, 5)
	if m.showDetails {
		w = w - max(((m.width-2)*4)/10, 30) - 1
	}
	m.list.SetSize(max(w, 30), h)
}

// Result reports what the user asked for when the browser closed.
func (m BrowserModel) Result() BrowserResult {
	res := BrowserResult{Action: m.action, Book: m.selected}
	if m.selected != nil {
		if live, ok := m.live[m.selected.ID]; ok {
			res.Live = &live
		}
	}
	return res
}

// RunBookBrowser launches the interactive catalog browser.
func RunBookBrowser(ctx context.Context, opts BrowserOptions) (*BrowserResult, error) {
	if opts.Pager == nil {
		return nil, fmt.Errorf("no catalog source")
	}

	m := newBrowserModel(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running TUI: %w", err)
	}

	if fm, ok := finalModel.(BrowserModel); ok {
		res := fm.Result()
		return &res, nil
	}
	return &BrowserResult{Action: ActionNone}, nil
}
