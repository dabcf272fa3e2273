package catalog

import (
	"context"
	"fmt"

	"github.com/blackwell-systems/perpusctl/internal/api"
)

// Scope selects the user or admin flavour of the book endpoints.
type Scope string

const (
	ScopeUser  Scope = "user"
	ScopeAdmin Scope = "admin"
)

// Service is the Book Catalog Service client.
type Service struct {
	c     *api.Client
	scope Scope
}

// NewService creates a catalog service for scope.
func NewService(c *api.Client, scope Scope) *Service {
	if scope == "" {
		scope = ScopeUser
	}
	return &Service{c: c, scope: scope}
}

// Scope returns the endpoint scope the service was built with.
func (s *Service) Scope() Scope { return s.scope }

func (s *Service) path(parts ...string) string {
	return api.Path(append([]string{string(s.scope)}, parts...)...)
}

// Search runs a paginated book search.
func (s *Service) Search(ctx context.Context, q api.Query) (api.Page[Book], error) {
	var page api.Page[Book]
	if err := s.c.Post(ctx, s.path("buku", "find-all"), q, &page); err != nil {
		return api.EmptyPage[Book](q.PageSize), err
	}
	if page.Content == nil {
		page.Content = []Book{}
	}
	return page, nil
}

// Find fetches one book.
func (s *Service) Find(ctx context.Context, id api.ID) (*Book, error) {
	var b Book
	if err := s.c.Post(ctx, s.path("buku", "find", string(id)), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// LiveStatus fetches the current stock of a book. Callers wanting the
// fail-open behaviour go through Gate.CheckAvailability instead.
func (s *Service) LiveStatus(ctx context.Context, id api.ID) (LiveStatus, error) {
	var st LiveStatus
	if err := s.c.Get(ctx, s.path("status-buku", string(id)), &st); err != nil {
		return LiveStatus{}, err
	}
	return st, nil
}

// Create adds a book. Admin scope only.
func (s *Service) Create(ctx context.Context, in BookInput) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	in.ID = ""
	if err := s.c.Post(ctx, "/admin/buku/create", in, nil); err != nil {
		return fmt.Errorf("creating %q: %w", in.Title, err)
	}
	return nil
}

// Update edits the book in.ID. Admin scope only.
func (s *Service) Update(ctx context.Context, in BookInput) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	if in.ID == "" {
		return &api.Error{Message: "book id is required", Kind: api.ErrValidation}
	}
	return s.c.Post(ctx, "/admin/buku/edit", in, nil)
}

// Delete removes a book. Admin scope only.
func (s *Service) Delete(ctx context.Context, id api.ID) error {
	if err := s.requireAdmin(); err != nil {
		return err
	}
	return s.c.Delete(ctx, api.Path("admin", "buku", string(id)))
}

func (s *Service) requireAdmin() error {
	if s.scope != ScopeAdmin {
		return fmt.Errorf("book changes need the admin scope: %w", api.ErrForbidden)
	}
	return nil
}
