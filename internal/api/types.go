package api

import (
	"strconv"
	"strings"
)

// ID is an opaque identifier. The backend sends UUID strings for books and
// loans but plain numbers for students and users; both decode to ID.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*id = ID(str)
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return err
	}
	*id = ID(s)
	return nil
}

func (id ID) String() string { return string(id) }

// Sort directions.
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// Query is the search body shared by every find-all endpoint. PageNumber is
// 1-based on the wire.
type Query struct {
	PageNumber    int    `json:"pageNumber"`
	PageSize      int    `json:"pageSize"`
	Search        string `json:"search,omitempty"`
	KategoriID    string `json:"kategoriId,omitempty"`
	Status        string `json:"status,omitempty"`
	SortColumn    string `json:"sortColumn,omitempty"`
	SortColumnDir string `json:"sortColumnDir,omitempty"`
}

// NewQuery builds a Query from a 0-based UI page index.
func NewQuery(page, size int) Query {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}
	return Query{PageNumber: page + 1, PageSize: size}
}

// PageIndex returns the 0-based page index of q.
func (q Query) PageIndex() int {
	if q.PageNumber < 1 {
		return 0
	}
	return q.PageNumber - 1
}

// WithPage returns q moved to the 0-based page index.
func (q Query) WithPage(page int) Query {
	if page < 0 {
		page = 0
	}
	q.PageNumber = page + 1
	return q
}

// ToggleSort sorts by column. Selecting the current column again flips the
// direction; a new column starts ascending.
func (q Query) ToggleSort(column string) Query {
	if q.SortColumn == column {
		if q.SortColumnDir == SortAsc {
			q.SortColumnDir = SortDesc
		} else {
			q.SortColumnDir = SortAsc
		}
		return q
	}
	q.SortColumn = column
	q.SortColumnDir = SortAsc
	return q
}

// Page is one page of a paginated result. Number is 0-based as the backend
// reports it.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Size          int `json:"size"`
	Number        int `json:"number"`
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Number+1 < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool {
	return p.Number > 0
}

// EmptyPage is what list endpoints yield when the server returns no data.
func EmptyPage[T any](size int) Page[T] {
	return Page[T]{Content: []T{}, Size: size}
}
