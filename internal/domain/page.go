package domain

import "math"

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	// maxPage keeps Offset from overflowing int.
	maxPage = math.MaxInt / maxPageLimit
)

// PaginationParams carries page/limit values from the HTTP layer to the repo layer.
// Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional query params.
// Nil or non-positive values fall back to page=1, limit=20; limit is capped at 100
// and page at maxPage.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: defaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = min(*page, maxPage)
	}
	if limit != nil && *limit >= 1 {
		p.Limit = min(*limit, maxPageLimit)
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one slice of a larger ordered result set.
type Page[T any] struct {
	Items  []T
	Total  int64
	Params PaginationParams
}
