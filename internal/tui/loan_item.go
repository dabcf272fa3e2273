package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/perpusctl/internal/loan"
)

// LoanItem is a loan row with its badge computed for the current day.
type LoanItem struct {
	Loan  loan.Loan
	Badge loan.Badge
	Admin bool
}

// NewLoanItems wraps loans for the loan browser.
func NewLoanItems(loans []loan.Loan, c loan.Classifier, now time.Time, admin bool) []LoanItem {
	items := make([]LoanItem, len(loans))
	for i, l := range loans {
		items[i] = LoanItem{Loan: l, Badge: c.Badge(l, now), Admin: admin}
	}
	return items
}

// FilterValue implements list.Item
func (i LoanItem) FilterValue() string {
	name, nim := i.Loan.Borrower()
	return strings.Join([]string{i.Loan.Title(), i.Loan.Author(), name, nim, i.Badge.Label}, " ")
}

// RenderBadge renders a status badge as a coloured pill.
func RenderBadge(b loan.Badge) string {
	return ToneStyle(b.Tone).Render("[" + b.Label + "]")
}

// renderLoanItem renders a two-line loan row: title and badge, then dates
// and (for admins) the borrower.
func renderLoanItem(w io.Writer, m list.Model, index int, item list.Item) {
	li, ok := item.(LoanItem)
	if !ok {
		return
	}

	width := m.Width()
	if width <= 0 {
		width = 80
	}

	isCursor := index == m.Index()
	prefix := "  "
	title := StyleNormal.Render(truncateText(li.Loan.Title(), width-24))
	if isCursor {
		prefix = lipgloss.NewStyle().Foreground(ColorOrange).Render("›") + " "
		title = StyleHighlight.Render(truncateText(li.Loan.Title(), width-24))
	}

	meta := fmt.Sprintf("borrowed %s · due %s", li.Loan.LoanDateString(), li.Loan.DueDateString())
	if li.Loan.Fine > 0 {
		meta += " · fine " + loan.FormatFine(li.Loan.Fine)
	}
	if li.Admin {
		name, nim := li.Loan.Borrower()
		if nim != "" {
			name += " (" + nim + ")"
		}
		meta = name + " · " + meta
	}

	line1 := prefix + title + " " + RenderBadge(li.Badge)
	line2 := "    " + StyleHelp.Render(truncateText(meta, width-4))
	_, _ = fmt.Fprint(w, line1+"\n"+line2)
}
