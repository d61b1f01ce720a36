package domain

import "math"

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page  int
	Limit int
}

// Offset returns the number of documents to skip for the current page.
// Formula: (Page - 1) * Limit, saturating at math.MaxInt.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if !p.OffsetFits() {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// OffsetFits reports whether (Page - 1) * Limit is representable as an int.
func (p PaginationParams) OffsetFits() bool {
	if p.Page < 1 || p.Limit < 1 {
		return true
	}
	return p.Page-1 <= math.MaxInt/p.Limit
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalEvents int `json:"totalEvents"`
	Limit       int `json:"limit"`
}

// NewPaginationMeta builds PaginationMeta from the current params and total count.
// TotalPages is ceiling(total / limit); if limit is 0, TotalPages is 0.
func NewPaginationMeta(p PaginationParams, total int) PaginationMeta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = total / p.Limit
		if total%p.Limit != 0 {
			totalPages++
		}
	}
	return PaginationMeta{
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		TotalEvents: total,
		Limit:       p.Limit,
	}
}
