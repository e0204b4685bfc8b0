// Package pagination reads ?page and ?limit and describes one page of a listing.
package pagination

import "github.com/gofiber/fiber/v2"

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Page is a 1-based page request
type Page struct {
	Number int
	Size   int
}

// FromQuery reads the page and limit query parameters. ok is false when the
// request carries neither, in which case the caller lists everything.
func FromQuery(c *fiber.Ctx) (p Page, ok bool) {
	if c.Query("page") == "" && c.Query("limit") == "" {
		return Page{}, false
	}

	p = Page{
		Number: max(c.QueryInt("page", 1), 1),
		Size:   c.QueryInt("limit", defaultLimit),
	}
	if p.Size < 1 {
		p.Size = defaultLimit
	}
	p.Size = min(p.Size, maxLimit)
	return p, true
}

// Offset is the number of rows before this page
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Meta locates a page within the full listing
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// Result is one page of items
type Result[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}

// NewResult wraps items fetched for p out of total rows
func NewResult[T any](items []T, p Page, total int64) Result[T] {
	pages := int((total + int64(p.Size) - 1) / int64(p.Size))
	return Result[T]{
		Items: items,
		Meta: Meta{
			Page:       p.Number,
			Limit:      p.Size,
			Total:      total,
			TotalPages: pages,
			HasNext:    p.Number < pages,
			HasPrev:    p.Number > 1,
		},
	}
}
