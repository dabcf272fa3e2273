package loan

import (
	"context"
	"fmt"
	"net/http"

	"github.com/blackwell-systems/perpusctl/internal/api"
)

// Service is the Loan Service client. It covers both the borrower
// (/user/peminjaman) and admin (/admin/peminjaman) endpoints; authorization
// is the server's concern.
type Service struct {
	c *api.Client
}

// NewService creates a loan service.
func NewService(c *api.Client) *Service {
	return &Service{c: c}
}

// ListMine returns the current borrower's loans.
func (s *Service) ListMine(ctx context.Context, q api.Query) (api.Page[Loan], error) {
	if q.SortColumnDir == "" {
		q.SortColumnDir = api.SortAsc
	}
	return s.list(ctx, "/user/peminjaman/find-all", q)
}

// GetMine fetches one of the borrower's loans.
func (s *Service) GetMine(ctx context.Context, id api.ID) (*Loan, error) {
	return s.get(ctx, api.Path("user", "peminjaman", string(id)))
}

// Create submits a new loan.
func (s *Service) Create(ctx context.Context, req CreateRequest) error {
	if err := s.c.Post(ctx, "/user/peminjaman", req, nil); err != nil {
		return fmt.Errorf("borrowing book %s: %w", req.BookID, err)
	}
	return nil
}

// RequestReturn posts to a return endpoint. path comes from
// config.LoansConfig.ReturnPath so the same call serves both return modes.
func (s *Service) RequestReturn(ctx context.Context, path string) error {
	return s.c.Post(ctx, path, nil, nil)
}

// ListAll returns loans across all borrowers.
func (s *Service) ListAll(ctx context.Context, q api.Query) (api.Page[Loan], error) {
	return s.list(ctx, "/admin/peminjaman/find-all", q)
}

// Get fetches any loan by id.
func (s *Service) Get(ctx context.Context, id api.ID) (*Loan, error) {
	return s.get(ctx, api.Path("admin", "peminjaman", string(id)))
}

// Update applies an admin edit and returns the stored loan when the server
// echoes it.
func (s *Service) Update(ctx context.Context, id api.ID, req UpdateRequest) (*Loan, error) {
	env, err := s.c.Call(ctx, http.MethodPost, api.Path("admin", "peminjaman", string(id), "edit"), req)
	if err != nil {
		return nil, err
	}
	if !env.HasData() {
		return nil, nil
	}
	var l Loan
	if err := env.Decode(&l); err != nil {
		return nil, &api.Error{Status: env.Status, Message: "could not decode edited loan", Kind: api.ErrMalformed}
	}
	return &l, nil
}

// Delete removes a loan record.
func (s *Service) Delete(ctx context.Context, id api.ID) error {
	return s.c.Delete(ctx, api.Path("admin", "peminjaman", string(id)))
}

// ApproveReturn closes a loan whose return was requested.
func (s *Service) ApproveReturn(ctx context.Context, id api.ID) error {
	return s.c.Post(ctx, api.Path("admin", "peminjaman", string(id), "approve-return"), nil, nil)
}

// SweepResult is the check-overdue payload.
type SweepResult struct {
	Updated int    `json:"updated"`
	Message string `json:"message"`
}

// CheckOverdue asks the server to move every past-due active loan to DENDA.
// A response without data is reported as zero updates with the envelope
// message.
func (s *Service) CheckOverdue(ctx context.Context) (SweepResult, error) {
	env, err := s.c.Call(ctx, http.MethodPost, "/admin/peminjaman/check-overdue", nil)
	if err != nil {
		return SweepResult{}, err
	}
	var res SweepResult
	if env.HasData() {
		if err := env.Decode(&res); err != nil {
			return SweepResult{}, &api.Error{Status: env.Status, Message: "could not decode sweep result", Kind: api.ErrMalformed}
		}
	}
	if res.Message == "" {
		res.Message = env.Message
	}
	return res, nil
}

// Recent returns the latest loans for the admin dashboard, sorted by
// column and dir (tanggalPinjam DESC when empty).
func (s *Service) Recent(ctx context.Context, column, dir string) ([]Loan, error) {
	if column == "" {
		column = "tanggalPinjam"
	}
	if dir == "" {
		dir = api.SortDesc
	}
	q := api.NewQuery(0, 10)
	q.SortColumn, q.SortColumnDir = column, dir
	page, err := s.list(ctx, "/admin/peminjaman/recent-peminjaman", q)
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (s *Service) list(ctx context.Context, path string, q api.Query) (api.Page[Loan], error) {
	var page api.Page[Loan]
	if err := s.c.Post(ctx, path, q, &page); err != nil {
		return api.EmptyPage[Loan](q.PageSize), err
	}
	if page.Content == nil {
		page.Content = []Loan{}
	}
	return page, nil
}

func (s *Service) get(ctx context.Context, path string) (*Loan, error) {
	var l Loan
	if err := s.c.Post(ctx, path, nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
