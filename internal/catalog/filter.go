package catalog

import (
	"strings"

	"github.com/blackwell-systems/perpusctl/internal/api"
)

// Filter narrows an already fetched page. Server-side search goes through
// api.Query; this covers what the find-all endpoint cannot express.
type Filter struct {
	Search        string // matches title, author, publisher or ISBN
	Category      string // category name or id
	AvailableOnly bool
}

// Apply returns the subset of books matching all non-empty filter fields.
func (f Filter) Apply(books []Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if f.AvailableOnly && !CanBorrow(b, nil) {
			continue
		}
		if f.Category != "" && !inCategory(b, f.Category) {
			continue
		}
		if f.Search != "" && !matchesSearch(b, f.Search) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ByID returns the first book with the given ID, or nil.
func ByID(books []Book, id api.ID) *Book {
	for i := range books {
		if books[i].ID == id {
			return &books[i]
		}
	}
	return nil
}

func inCategory(b Book, c string) bool {
	return strings.EqualFold(b.CategoryName, c) || string(b.CategoryID) == c
}

func matchesSearch(b Book, q string) bool {
	q = strings.ToLower(q)
	for _, field := range []string{b.Title, b.Author, b.Publisher, b.ISBN} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
