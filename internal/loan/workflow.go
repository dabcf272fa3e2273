package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/blackwell-systems/perpusctl/internal/api"
	"github.com/blackwell-systems/perpusctl/internal/catalog"
	"github.com/blackwell-systems/perpusctl/internal/config"
)

var (
	// ErrInvalidBookID is returned when a borrow is attempted without a book id.
	ErrInvalidBookID = errors.New("invalid book id")

	// ErrNotBorrowable is returned when the availability gate refuses a borrow.
	ErrNotBorrowable = errors.New("book cannot be borrowed")

	// ErrNotConfirmed is returned when the user declines a destructive action.
	ErrNotConfirmed = errors.New("not confirmed")
)

// AfterBorrowDelay is how long the borrower sees the success message before
// being taken to their loan list.
const AfterBorrowDelay = 2 * time.Second

// Backend is the part of the Loan Service the controller drives. *Service
// implements it.
type Backend interface {
	Create(ctx context.Context, req CreateRequest) error
	RequestReturn(ctx context.Context, path string) error
	ApproveReturn(ctx context.Context, id api.ID) error
	Update(ctx context.Context, id api.ID, req UpdateRequest) (*Loan, error)
	Delete(ctx context.Context, id api.ID) error
	CheckOverdue(ctx context.Context) (SweepResult, error)
}

// Authenticator reports whether a usable session exists. *session.Store
// implements it.
type Authenticator interface {
	Authenticated(now time.Time) bool
}

// View names a server-backed screen that must be refetched after a mutation.
type View string

const (
	ViewCatalog    View = "catalog"
	ViewMyLoans    View = "my-loans"
	ViewAdminLoans View = "admin-loans"
	ViewDashboard  View = "dashboard"
)

// Refresher reloads a view from the server. Failures are logged, never
// returned to the caller of the mutation.
type Refresher interface {
	Refresh(ctx context.Context, v View) error
}

// RefreshFunc adapts a function to Refresher.
type RefreshFunc func(ctx context.Context, v View) error

func (f RefreshFunc) Refresh(ctx context.Context, v View) error { return f(ctx, v) }

// Confirmer asks the user a yes/no question.
type Confirmer func(prompt string) bool

// Controller runs the borrowing workflow: every mutation goes to the server
// and is followed by a refetch of the affected views. Nothing is updated
// locally.
type Controller struct {
	backend Backend
	auth    Authenticator
	refresh Refresher
	loans   config.LoansConfig
	log     *slog.Logger

	// Now is the clock used for dates and session expiry.
	Now func() time.Time
}

// NewController creates a Controller. refresh and log may be nil.
func NewController(b Backend, auth Authenticator, refresh Refresher, loans config.LoansConfig, log *slog.Logger) *Controller {
	if refresh == nil {
		refresh = RefreshFunc(func(context.Context, View) error { return nil })
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		backend: b,
		auth:    auth,
		refresh: refresh,
		loans:   loans,
		log:     log,
		Now:     time.Now,
	}
}

// Classifier returns the status classifier matching the configured
// strictness.
func (c *Controller) Classifier() Classifier {
	return Classifier{Lenient: c.loans.LenientStatus}
}

// BorrowResult describes a created loan.
type BorrowResult struct {
	Request CreateRequest
	// RedirectAfter is the pause before showing the loan list.
	RedirectAfter time.Duration
}

// SubmitLoan borrows book for the current user. live is the result of the
// most recent availability check and may be nil. The request is refused
// locally, with no network call, when the session is missing or the gate
// says no.
func (c *Controller) SubmitLoan(ctx context.Context, book catalog.Book, live *catalog.LiveStatus) (BorrowResult, error) {
	if book.ID == "" {
		return BorrowResult{}, ErrInvalidBookID
	}
	now := c.Now()
	if c.auth == nil || !c.auth.Authenticated(now) {
		return BorrowResult{}, api.ErrAuthenticationRequired
	}
	if reason := catalog.BorrowBlockReason(book, live); reason != "" {
		return BorrowResult{}, fmt.Errorf("%w: %s", ErrNotBorrowable, reason)
	}

	req := NewCreateRequest(book.ID, now)
	if err := c.backend.Create(ctx, req); err != nil {
		return BorrowResult{}, err
	}
	c.log.Info("loan created", "book", book.ID, "due", req.DueDate)
	c.refetch(ctx, ViewCatalog, ViewMyLoans)
	return BorrowResult{Request: req, RedirectAfter: AfterBorrowDelay}, nil
}

// ReturnOutcome is what a borrower's return request achieved.
type ReturnOutcome string

const (
	// ReturnPending means an admin still has to approve the return.
	ReturnPending ReturnOutcome = "pending"
	// ReturnCompleted means the book is already recorded as returned.
	ReturnCompleted ReturnOutcome = "returned"
)

// Message is the borrower-facing text for o.
func (o ReturnOutcome) Message() string {
	if o == ReturnPending {
		return "Return requested. Waiting for admin approval."
	}
	return "Book returned."
}

// RequestReturn asks to return loanID. The loan's status is left to the
// server; the borrower's list is refetched either way the call ends.
func (c *Controller) RequestReturn(ctx context.Context, loanID api.ID) (ReturnOutcome, error) {
	if loanID == "" {
		return "", fmt.Errorf("loan id is required: %w", api.ErrValidation)
	}
	err := c.backend.RequestReturn(ctx, c.loans.ReturnPath(string(loanID)))
	c.refetch(ctx, ViewMyLoans)
	if err != nil {
		return "", err
	}
	if c.loans.TwoStepReturn {
		return ReturnPending, nil
	}
	return ReturnCompleted, nil
}

// ApproveReturn closes loanID after confirm agrees.
func (c *Controller) ApproveReturn(ctx context.Context, loanID api.ID, confirm Confirmer) error {
	if !ask(confirm, fmt.Sprintf("Approve the return of loan %s?", loanID)) {
		return ErrNotConfirmed
	}
	if err := c.backend.ApproveReturn(ctx, loanID); err != nil {
		return err
	}
	c.refetch(ctx, ViewAdminLoans, ViewDashboard)
	return nil
}

// ForceReturn marks l returned as of today without a borrower request.
func (c *Controller) ForceReturn(ctx context.Context, l Loan, confirm Confirmer) error {
	if !ask(confirm, fmt.Sprintf("Mark %q as returned today?", l.Title())) {
		return ErrNotConfirmed
	}
	if _, err := c.backend.Update(ctx, l.ID, ForceReturnRequest(c.Now())); err != nil {
		return err
	}
	c.refetch(ctx, ViewAdminLoans, ViewDashboard)
	return nil
}

// EditLoan applies a free-form admin edit.
func (c *Controller) EditLoan(ctx context.Context, id api.ID, req UpdateRequest) (*Loan, error) {
	if req.Empty() {
		return nil, fmt.Errorf("nothing to change: %w", api.ErrValidation)
	}
	if req.Status != "" && !req.Status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", req.Status, api.ErrValidation)
	}
	if req.ReturnDate != "" {
		if _, err := ParseDate(req.ReturnDate); err != nil {
			return nil, fmt.Errorf("return date %q is not YYYY-MM-DD: %w", req.ReturnDate, api.ErrValidation)
		}
	}
	if req.Fine != nil && *req.Fine < 0 {
		return nil, fmt.Errorf("fine cannot be negative: %w", api.ErrValidation)
	}
	l, err := c.backend.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	c.refetch(ctx, ViewAdminLoans, ViewDashboard)
	return l, nil
}

// DeleteLoan removes a loan record after confirm agrees.
func (c *Controller) DeleteLoan(ctx context.Context, id api.ID, confirm Confirmer) error {
	if !ask(confirm, fmt.Sprintf("Delete loan %s? This cannot be undone.", id)) {
		return ErrNotConfirmed
	}
	if err := c.backend.Delete(ctx, id); err != nil {
		return err
	}
	c.refetch(ctx, ViewAdminLoans, ViewDashboard)
	return nil
}

// SweepOutcome is the result of an overdue sweep, ready for display.
type SweepOutcome struct {
	Updated int
	Message string
	Tone    Tone
}

// TriggerSweep runs the server-side overdue sweep. The dashboard is
// refetched whatever the result.
func (c *Controller) TriggerSweep(ctx context.Context) (SweepOutcome, error) {
	res, err := c.backend.CheckOverdue(ctx)
	c.refetch(ctx, ViewDashboard)
	if err != nil {
		return SweepOutcome{Message: api.DisplayMessage(err), Tone: ToneDanger}, err
	}
	out := SweepOutcome{Updated: res.Updated, Message: res.Message, Tone: ToneInfo}
	if res.Updated > 0 {
		out.Tone = ToneSuccess
	}
	if out.Message == "" {
		if res.Updated > 0 {
			out.Message = fmt.Sprintf("%d loan(s) marked %s", res.Updated, StatusFined)
		} else {
			out.Message = "No overdue loans"
		}
	}
	return out, nil
}

func (c *Controller) refetch(ctx context.Context, views ...View) {
	for _, v := range views {
		if err := c.refresh.Refresh(ctx, v); err != nil {
			c.log.Warn("refetch failed", "view", v, "err", err)
		}
	}
}

func ask(confirm Confirmer, prompt string) bool {
	return confirm != nil && confirm(prompt)
}
