package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
)

type stubStatus struct {
	st    catalog.LiveStatus
	err   error
	calls int
}

func (s *stubStatus) LiveStatus(_ context.Context, _ api.ID) (catalog.LiveStatus, error) {
	s.calls++
	return s.st, s.err
}

func book(copies int, status catalog.Availability) catalog.Book {
	return catalog.Book{
		ID:        "b-1",
		Title:     "Pemrograman Go",
		CopyCount: copies,
		Status:    catalog.StatusRef{Status: status},
	}
}

func TestCanBorrow_ZeroCopiesOrUnavailable(t *testing.T) {
	lives := []*catalog.LiveStatus{
		nil,
		{Status: catalog.Available, TotalStock: 5, AvailableStock: 5},
		{Status: catalog.Available, AvailableStock: 0},
		&catalog.AvailabilityUnknown,
	}
	books := []catalog.Book{
		book(0, catalog.Available),
		book(3, catalog.Unavailable),
		book(3, catalog.Borrowed),
		book(3, catalog.Booked),
		book(3, "SOMETHING_ELSE"),
		book(3, ""),
	}
	for _, b := range books {
		for _, live := range lives {
			assert.False(t, catalog.CanBorrow(b, live), "copies=%d status=%q live=%+v", b.CopyCount, b.Status.Status, live)
			assert.NotEmpty(t, catalog.BorrowBlockReason(b, live))
		}
	}
}

func TestCanBorrow_LiveStock(t *testing.T) {
	b := book(2, catalog.Available)

	assert.True(t, catalog.CanBorrow(b, nil))
	assert.True(t, catalog.CanBorrow(b, &catalog.LiveStatus{Status: catalog.Available, AvailableStock: 1}))
	assert.False(t, catalog.CanBorrow(b, &catalog.LiveStatus{Status: catalog.Available, AvailableStock: 0}))
	assert.Equal(t, "", catalog.BorrowBlockReason(b, nil))
}

func TestCanBorrow_CaseInsensitive(t *testing.T) {
	assert.True(t, catalog.CanBorrow(book(1, "tersedia"), nil))
}

func TestGate_ServerStatus(t *testing.T) {
	src := &stubStatus{st: catalog.LiveStatus{BookID: "b-1", Status: catalog.Available, TotalStock: 3, AvailableStock: 2, BorrowedStock: 1}}
	g := catalog.NewGate(src, nil)

	got := g.CheckAvailability(context.Background(), "b-1")

	assert.Equal(t, 2, got.AvailableStock)
	assert.False(t, got.Unknown)
}

func TestGate_FailsOpen(t *testing.T) {
	src := &stubStatus{err: &api.Error{Message: "network error: connection refused", Kind: api.ErrNetwork}}
	g := catalog.NewGate(src, nil)

	got := g.CheckAvailability(context.Background(), "b-1")

	assert.Equal(t, catalog.AvailabilityUnknown, got)
	assert.True(t, got.Unknown)
	assert.True(t, got.Status.IsAvailable())
	assert.Zero(t, got.TotalStock)
	assert.Zero(t, got.AvailableStock)
	assert.Zero(t, got.BorrowedStock)

	// The fallback never unblocks a book that has no copies.
	assert.False(t, catalog.CanBorrow(book(0, catalog.Available), &got))
	// Nor one that does: unknown stock is zero stock.
	assert.False(t, catalog.CanBorrow(book(4, catalog.Available), &got))
}

func TestGate_EmptyID(t *testing.T) {
	src := &stubStatus{err: errors.New("should not be called")}
	g := catalog.NewGate(src, nil)

	got := g.CheckAvailability(context.Background(), "")

	assert.True(t, got.Unknown)
	assert.Zero(t, src.calls)
}
