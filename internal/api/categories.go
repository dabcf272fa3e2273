package api

import (
	"context"
	"errors"
)

// Category is a book category (kategori).
type Category struct {
	ID        ID     `json:"id"`
	Nama      string `json:"nama"`
	Deskripsi string `json:"deskripsi,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// CategoryInput is the create/edit body. ID is only sent on edit.
type CategoryInput struct {
	ID        ID     `json:"id,omitempty"`
	Nama      string `json:"nama"`
	Deskripsi string `json:"deskripsi,omitempty"`
}

// Categories lists every category visible to borrowers. A failed fetch
// yields an empty list, since categories only feed filter choices.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.Post(ctx, "/user/kategori", nil, &out)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			return []Category{}, nil
		}
		return nil, err
	}
	return out, nil
}

// AdminCategories returns the admin category listing. The backend pages it,
// but categories are few, so one large page is requested.
func (c *Client) AdminCategories(ctx context.Context, search string) (Page[Category], error) {
	q := Query{
		PageNumber:    1,
		PageSize:      100,
		Search:        search,
		SortColumn:    "id",
		SortColumnDir: SortDesc,
	}
	var out Page[Category]
	if err := c.Post(ctx, "/admin/kategori/find-all", q, &out); err != nil {
		return EmptyPage[Category](q.PageSize), err
	}
	return out, nil
}

// Category fetches one category by id.
func (c *Client) Category(ctx context.Context, id ID) (*Category, error) {
	var out Category
	if err := c.Post(ctx, "/admin/kategori/find-by-id", map[string]ID{"id": id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) error {
	in.ID = ""
	return c.Post(ctx, "/admin/kategori/create", in, nil)
}

// UpdateCategory edits the category in.ID.
func (c *Client) UpdateCategory(ctx context.Context, in CategoryInput) error {
	if in.ID == "" {
		return &Error{Message: "category id is required", Kind: ErrValidation}
	}
	return c.Post(ctx, "/admin/kategori/edit", in, nil)
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id ID) error {
	return c.Delete(ctx, Path("admin", "kategori", string(id)))
}
