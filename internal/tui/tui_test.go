package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/loan"
)

func TestMenuFor_Roles(t *testing.T) {
	keys := func(items []MenuItem) []string {
		var out []string
		for _, i := range items {
			out = append(out, i.Key)
		}
		return out
	}

	member := keys(MenuFor(false))
	assert.Contains(t, member, "borrow")
	assert.Contains(t, member, "loans")
	assert.NotContains(t, member, "sweep")
	assert.NotContains(t, member, "admin-loans")

	admin := keys(MenuFor(true))
	assert.Contains(t, admin, "sweep")
	assert.Contains(t, admin, "dashboard")
	assert.NotContains(t, admin, "borrow")
	assert.Equal(t, "quit", admin[len(admin)-1])
}

func TestPadOrTruncate(t *testing.T) {
	assert.Equal(t, "abc  ", padOrTruncate("abc", 5))
	assert.Equal(t, "abcd…", padOrTruncate("abcdefgh", 5))
	assert.Equal(t, "", padOrTruncate("abc", 0))
	assert.Equal(t, 6, ansi.StringWidth(padOrTruncate("Buku 本", 6)))
}

func TestComputeColumnWidths_Minimums(t *testing.T) {
	title, author, category, state := computeColumnWidths(20)
	assert.Equal(t, minTitleWidth, title)
	assert.Equal(t, minAuthorWidth, author)
	assert.Equal(t, minCategoryWidth, category)
	assert.Equal(t, statusWidth, state)

	title, _, _, _ = computeColumnWidths(300)
	assert.Equal(t, maxTitleWidth, title)
}

func TestBuildLoanUpdate_OnlyChanges(t *testing.T) {
	l := loan.Loan{ID: "L1", LoanStatus: "DIPINJAM", ReturnDate: "2024-03-08", Fine: 0}

	req, err := BuildLoanUpdate(l, "dipinjam", "2024-03-08", "0", "")
	require.NoError(t, err)
	assert.True(t, req.Empty())

	req, err = BuildLoanUpdate(l, "SUDAH_DIKEMBALIKAN", "2024-03-10", "2000", "late")
	require.NoError(t, err)
	assert.Equal(t, loan.StatusReturned, req.Status)
	assert.Equal(t, "2024-03-10", req.ReturnDate)
	require.NotNil(t, req.Fine)
	assert.Equal(t, 2000, *req.Fine)
	require.NotNil(t, req.Note)
	assert.Equal(t, "late", *req.Note)
}

func TestBuildLoanUpdate_BadInput(t *testing.T) {
	l := loan.Loan{ID: "L1", LoanStatus: "DIPINJAM"}

	_, err := BuildLoanUpdate(l, "HILANG", "", "0", "")
	assert.Error(t, err)
	_, err = BuildLoanUpdate(l, "", "10/03/2024", "0", "")
	assert.Error(t, err)
	_, err = BuildLoanUpdate(l, "", "", "-5", "")
	assert.Error(t, err)
	_, err = BuildLoanUpdate(l, "", "", "lots", "")
	assert.Error(t, err)
}

func TestNextStatus_Cycles(t *testing.T) {
	seen := []string{}
	s := ""
	for range len(loan.Statuses) + 1 {
		s = nextStatus(s)
		seen = append(seen, s)
	}
	assert.Equal(t, string(loan.Statuses[0]), seen[0])
	assert.Equal(t, "", seen[len(seen)-1])
}

type stubPager struct{}

func (stubPager) Search(context.Context, api.Query) (api.Page[catalog.Book], error) {
	return api.Page[catalog.Book]{}, nil
}

func page(titles ...string) api.Page[catalog.Book] {
	p := api.Page[catalog.Book]{TotalElements: len(titles), TotalPages: 1}
	for i, title := range titles {
		p.Content = append(p.Content, catalog.Book{
			ID:        api.ID(title),
			Title:     title,
			CopyCount: i + 1,
			Status:    catalog.StatusRef{Status: catalog.Available},
		})
	}
	return p
}

func TestBrowser_StalePages(t *testing.T) {
	m := newBrowserModel(context.Background(), BrowserOptions{Pager: stubPager{}, AllowBorrow: true})

	old := m.pages.Begin(context.Background())
	cur := m.pages.Begin(context.Background())
	assert.ErrorIs(t, old.Ctx.Err(), context.Canceled)

	next, _ := m.Update(pageLoadedMsg{token: cur, page: page("Basis Data")})
	m = next.(BrowserModel)
	next, _ = m.Update(pageLoadedMsg{token: old, page: page("Stale A", "Stale B")})
	m = next.(BrowserModel)

	require.Len(t, m.list.Items(), 1)
	assert.Equal(t, "Basis Data", m.list.Items()[0].(BookItem).Book.Title)
}

func TestBrowser_PageError(t *testing.T) {
	m := newBrowserModel(context.Background(), BrowserOptions{Pager: stubPager{}})
	tok := m.pages.Begin(context.Background())

	next, _ := m.Update(pageLoadedMsg{token: tok, err: &api.Error{Status: 500, Message: "boom", Kind: api.ErrServer}})
	m = next.(BrowserModel)
	assert.NotEmpty(t, m.err)
	assert.False(t, m.loading)
}

func TestBrowser_BorrowLiveStatus(t *testing.T) {
	m := newBrowserModel(context.Background(), BrowserOptions{Pager: stubPager{}, AllowBorrow: true})
	tok := m.pages.Begin(context.Background())
	next, _ := m.Update(pageLoadedMsg{token: tok, page: page("Kalkulus")})
	m = next.(BrowserModel)

	m.live["Kalkulus"] = catalog.LiveStatus{BookID: "Kalkulus", TotalStock: 1, AvailableStock: 0}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	m = next.(BrowserModel)
	assert.Equal(t, ActionNone, m.action)
	assert.Contains(t, m.notice, "on loan")
	assert.NotNil(t, cmd)

	m.live["Kalkulus"] = catalog.LiveStatus{BookID: "Kalkulus", TotalStock: 1, AvailableStock: 1}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	m = next.(BrowserModel)
	res := m.Result()
	assert.Equal(t, ActionBorrow, res.Action)
	require.NotNil(t, res.Live)
	assert.Equal(t, 1, res.Live.AvailableStock)
}

func TestLoanBrowser_Actions(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.Local)
	loans := api.Page[loan.Loan]{TotalPages: 1, TotalElements: 1, Content: []loan.Loan{
		{ID: "L1", BookTitle: "Struktur Data", LoanStatus: "SUDAH_DIKEMBALIKAN", ReturnDate: "2024-03-05"},
	}}
	load := func(context.Context, api.Query) (api.Page[loan.Loan], error) { return loans, nil }

	m := newLoanBrowser(context.Background(), LoanBrowserOptions{Load: load, Now: func() time.Time { return now }})
	tok := m.guard.Begin(context.Background())
	next, _ := m.Update(loansLoadedMsg{token: tok, page: loans})
	m = next.(loanBrowserModel)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(loanBrowserModel)
	assert.Equal(t, LoanActionNone, m.action, "completed loans cannot be returned")
	assert.NotEmpty(t, m.notice)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	m = next.(loanBrowserModel)
	assert.Equal(t, LoanActionNone, m.action, "members have no delete")

	admin := newLoanBrowser(context.Background(), LoanBrowserOptions{Load: load, Admin: true, Now: func() time.Time { return now }})
	tok = admin.guard.Begin(context.Background())
	next, _ = admin.Update(loansLoadedMsg{token: tok, page: loans})
	admin = next.(loanBrowserModel)
	next, _ = admin.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	admin = next.(loanBrowserModel)
	assert.Equal(t, LoanActionDelete, admin.action)
	require.NotNil(t, admin.selected)
	assert.Equal(t, api.ID("L1"), admin.selected.ID)
}

func TestRunOptionPicker_SingleOption(t *testing.T) {
	opt, err := RunOptionPicker("Category", []Option{{Value: "1", Label: "Informatika"}})
	require.NoError(t, err)
	assert.Equal(t, "1", opt.Value)

	_, err = RunOptionPicker("Category", nil)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrFormCanceled))
}

func TestLoginForm_Submit(t *testing.T) {
	var m tea.Model = newLoginForm("http://localhost:8080/api", "")
	typeText := func(s string) {
		for _, r := range s {
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		}
	}

	typeText("ani")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 1, m.(loginFormModel).focused, "enter on username moves to password")
	assert.False(t, m.(loginFormModel).done)

	typeText("ani123")
	assert.NotContains(t, m.View(), "ani123", "password is masked")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	lf := m.(loginFormModel)
	assert.True(t, lf.done)
	assert.Equal(t, Credentials{Username: "ani", Password: "ani123"}, lf.credentials())
}

func TestLoginForm_PrefilledUser(t *testing.T) {
	m := newLoginForm("srv", "admin")
	assert.Equal(t, 1, m.focused)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	lf := next.(loginFormModel)
	assert.False(t, lf.done, "empty password is not submitted")
	assert.Error(t, lf.err)
}

func TestLoginForm_Cancel(t *testing.T) {
	next, _ := newLoginForm("srv", "").Update(tea.KeyMsg{Type: tea.KeyEsc})
	lf := next.(loginFormModel)
	assert.True(t, lf.canceled)
	assert.False(t, lf.done)
}

func TestRenderPageStatus(t *testing.T) {
	got := ansi.Strip(RenderPageStatus(1, 3, 27, "loans", "", "status DENDA"))
	assert.Contains(t, got, "page 2/3 · 27 loans · status DENDA")
}

func TestHubContext_StatusLine(t *testing.T) {
	member := ansi.Strip(HubContext{UserName: "Ani", Active: 2, Overdue: 1, Pending: 1}.statusLine())
	assert.Contains(t, member, "Ani (member) · 2 active loans · 1 awaiting return approval · 1 overdue")

	admin := ansi.Strip(HubContext{UserName: "Admin", Admin: true, Active: 5, Pending: 3}.statusLine())
	assert.Contains(t, admin, "5 active · 3 pending returns")

	offline := ansi.Strip(HubContext{UserName: "Ani", Offline: true, Active: 9}.statusLine())
	assert.Contains(t, offline, "server unreachable")
	assert.NotContains(t, offline, "9 active")

	assert.Empty(t, HubContext{}.statusLine())
}
