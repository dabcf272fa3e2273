package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/blackwell-systems/perpusctl/internal/catalog"
)

// BookItem represents a book row in the browser.
type BookItem struct {
	Book catalog.Book
}

// FilterValue returns a string used for filtering in the list
func (b BookItem) FilterValue() string {
	return fmt.Sprintf("%s %s %s %s", b.Book.Title, b.Book.Author, b.Book.CategoryName, b.Book.ISBN)
}

// truncateText truncates a string to maxWidth visible cells with ellipsis.
func truncateText(s string, maxWidth int) string {
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return "…"
	}
	return ansi.Truncate(s, maxWidth, "…")
}

// Column width constraints
const (
	minTitleWidth    = 12
	maxTitleWidth    = 48
	minAuthorWidth   = 8
	maxAuthorWidth   = 26
	minCategoryWidth = 6
	maxCategoryWidth = 18
	statusWidth      = 16
	columnGap        = 1
)

// computeColumnWidths distributes available width proportionally across columns.
func computeColumnWidths(totalWidth int) (titleW, authorW, categoryW, stateW int) {
	prefix := 2
	gaps := columnGap * 3
	stateW = statusWidth
	usable := totalWidth - prefix - gaps - stateW
	if usable < minTitleWidth+minAuthorWidth+minCategoryWidth {
		return minTitleWidth, minAuthorWidth, minCategoryWidth, stateW
	}

	titleW = min(usable*50/100, maxTitleWidth)
	remaining := usable - titleW
	authorW = min(remaining*55/100, maxAuthorWidth)
	categoryW = min(remaining-authorW, maxCategoryWidth)

	titleW = max(titleW, minTitleWidth)
	authorW = max(authorW, minAuthorWidth)
	categoryW = max(categoryW, minCategoryWidth)
	return
}

// padOrTruncate pads s to exactly width visible cells, truncating with "…"
// if necessary. Width is measured in terminal cells so wide runes align.
func padOrTruncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	n := ansi.StringWidth(s)
	if n > width {
		return truncateText(s, width)
	}
	if n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// stockLabel is the status column text: cached availability plus copy count.
func stockLabel(b catalog.Book) string {
	if b.CopyCount <= 0 {
		return "no copies"
	}
	return fmt.Sprintf("%s ×%d", b.Availability().Label(), b.CopyCount)
}

// renderBookItem renders a book in the browser list with fixed-width columns.
func renderBookItem(w io.Writer, m list.Model, index int, item list.Item) {
	bookItem, ok := item.(BookItem)
	if !ok {
		return
	}

	listWidth := m.Width()
	if listWidth <= 0 {
		listWidth = 80
	}
	titleW, authorW, categoryW, stateW := computeColumnWidths(listWidth)
	gap := strings.Repeat(" ", columnGap)

	isCursor := index == m.Index()
	prefix := "  "
	if isCursor {
		prefix = lipgloss.NewStyle().Foreground(ColorOrange).Render("›") + " "
	}

	b := bookItem.Book
	titleCol := padOrTruncate(b.Title, titleW)
	authorCol := padOrTruncate(b.Author, authorW)
	categoryCol := padOrTruncate(b.CategoryName, categoryW)
	stateCol := padOrTruncate(stockLabel(b), stateW)

	borrowable := catalog.CanBorrow(b, nil)

	var titleStyled, authorStyled, categoryStyled, stateStyled string
	if isCursor {
		titleStyled = StyleHighlight.Render(titleCol)
		authorStyled = lipgloss.NewStyle().Foreground(ColorOrange).Faint(true).Render(authorCol)
		categoryStyled = lipgloss.NewStyle().Foreground(ColorTealLight).Render(categoryCol)
	} else {
		titleStyled = StyleNormal.Render(titleCol)
		authorStyled = StyleHelp.Render(authorCol)
		categoryStyled = StyleTag.Render(categoryCol)
	}
	if borrowable {
		stateStyled = StyleAvailable.Render(stateCol)
	} else {
		stateStyled = StyleHelp.Render(stateCol)
	}

	line := prefix + titleStyled + gap + authorStyled + gap + categoryStyled + gap + stateStyled
	_, _ = fmt.Fprint(w, line)
}
