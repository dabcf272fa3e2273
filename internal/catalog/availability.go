package catalog

import (
	"context"
	"log/slog"

	"github.com/blackwell-systems/perpusctl/internal/api"
)

// StatusSource fetches live stock for a book. *Service implements it.
type StatusSource interface {
	LiveStatus(ctx context.Context, id api.ID) (LiveStatus, error)
}

// Gate decides whether a borrow may be attempted.
type Gate struct {
	src StatusSource
	log *slog.Logger
}

// NewGate creates a Gate. log may be nil.
func NewGate(src StatusSource, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Gate{src: src, log: log}
}

// CheckAvailability fetches live stock for id. It never fails: any error
// yields AvailabilityUnknown, whose zero stock still blocks borrowing.
func (g *Gate) CheckAvailability(ctx context.Context, id api.ID) LiveStatus {
	if id == "" {
		return AvailabilityUnknown
	}
	st, err := g.src.LiveStatus(ctx, id)
	if err != nil {
		g.log.Warn("live availability check failed", "book", id, "err", err)
		return AvailabilityUnknown
	}
	return st
}

// CanBorrow reports whether book may be borrowed. live is the optional
// fresh check; the cached book alone can already rule a borrow out.
func CanBorrow(book Book, live *LiveStatus) bool {
	return BorrowBlockReason(book, live) == ""
}

// BorrowBlockReason explains why CanBorrow is false, or returns "".
func BorrowBlockReason(book Book, live *LiveStatus) string {
	switch {
	case book.CopyCount <= 0:
		return "no copies in the collection"
	case !book.Availability().IsAvailable():
		return "book is " + book.Availability().Label()
	case live != nil && live.Unknown:
		return "availability could not be checked, try again"
	case live != nil && live.AvailableStock <= 0:
		return "all copies are currently on loan"
	}
	return ""
}
