package devserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/loan"
)

func testStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	opts := Options{Now: func() time.Time { return now }, BcryptCost: bcrypt.MinCost, TwoStepReturn: true}
	opts.defaults()
	s := newStore(opts)
	require.NoError(t, s.seed())
	return s
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := paginate(items, api.Query{PageNumber: 2, PageSize: 2})
	assert.Equal(t, []int{3, 4}, p.Content)
	assert.Equal(t, 5, p.TotalElements)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 1, p.Number)

	p = paginate(items, api.Query{PageNumber: 9, PageSize: 2})
	assert.Empty(t, p.Content)
}

func TestStore_BooksFilterSort(t *testing.T) {
	s := testStore(t, time.Now())

	q := api.NewQuery(0, 10)
	q.SortColumn, q.SortColumnDir = "judulBuku", api.SortAsc
	page := s.Books(q)
	require.Len(t, page.Content, 5)
	assert.Equal(t, "Aljabar Linear", page.Content[0].Title)
	assert.Equal(t, catalog.Borrowed, page.Content[0].Status.Status, "zero copies reads as borrowed")

	q.Status = string(catalog.Available)
	assert.Len(t, s.Books(q).Content, 4)

	q = api.NewQuery(0, 10)
	q.Search = "erlangga"
	assert.Len(t, s.Books(q).Content, 2)
}

func TestStore_CreateLoan(t *testing.T) {
	now := time.Date(2024, 2, 25, 10, 0, 0, 0, time.Local)
	s := testStore(t, now)
	ani := s.students[0]

	var kalkulus, aljabar *catalog.Book
	for _, b := range s.books {
		switch b.Title {
		case "Kalkulus Jilid 1":
			kalkulus = b
		case "Aljabar Linear":
			aljabar = b
		}
	}

	_, err := s.CreateLoan(ani.UserID, loan.NewCreateRequest(aljabar.ID, now))
	assert.Equal(t, 400, statusOf(err))

	_, err = s.CreateLoan(ani.UserID, loan.CreateRequest{BookID: kalkulus.ID, LoanDate: "2024-02-25", DueDate: "2024-02-20"})
	assert.Equal(t, 400, statusOf(err))

	_, err = s.CreateLoan(ani.UserID, loan.NewCreateRequest("missing", now))
	assert.Equal(t, 404, statusOf(err))

	l, err := s.CreateLoan(ani.UserID, loan.NewCreateRequest(kalkulus.ID, now))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", l.DueDateString())
	assert.Equal(t, "Ani Lestari", l.BorrowerName)
	assert.Equal(t, "Kalkulus Jilid 1", l.BookTitle)

	// Last copy is gone.
	_, err = s.CreateLoan(s.students[1].UserID, loan.NewCreateRequest(kalkulus.ID, now))
	assert.Equal(t, 400, statusOf(err))
}

func TestStore_DeleteGuards(t *testing.T) {
	s := testStore(t, time.Now())
	budi := s.students[1]
	borrowed := s.loans[0].BookID

	assert.Equal(t, 409, statusOf(s.DeleteBook(borrowed)))
	assert.Equal(t, 409, statusOf(s.DeleteStudent(budi.UserID)))
	assert.Equal(t, 409, statusOf(s.DeleteCategory(s.categories[0].ID)))

	require.NoError(t, s.DeleteStudent(s.students[0].UserID))
	assert.Len(t, s.students, 1)
	_, err := s.Authenticate("ani", "ani123")
	assert.Error(t, err)
}

func TestStore_SweepOverdue_FinesOnDueDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.Local)
	s := testStore(t, now)
	l := s.loans[0]
	l.ReturnDate, l.DueDateField = "2024-03-10", "2024-03-10"

	assert.Equal(t, 1, s.SweepOverdue())
	assert.Equal(t, loan.StatusFined, l.Status())
	assert.Equal(t, 1000, l.Fine)
}

func TestDaysLate(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 59, 0, 0, time.Local)
	due := time.Date(2024, 3, 7, 0, 0, 0, 0, time.Local)
	assert.Equal(t, 3, daysLate(due, now))
}
