package models

// Pagination mirrors the backend's pagination block.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalItems  int  `json:"totalItems"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Normalize clamps CurrentPage into [1, max(TotalPages,1)] and recomputes
// the next/prev flags from it, so templates can trust the values.
func (p Pagination) Normalize() Pagination {
	if p.TotalPages < 0 {
		p.TotalPages = 0
	}
	last := p.TotalPages
	if last < 1 {
		last = 1
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if p.CurrentPage > last {
		p.CurrentPage = last
	}
	p.HasNextPage = p.CurrentPage < p.TotalPages
	p.HasPrevPage = p.CurrentPage > 1
	return p
}

// Page is one fetched page of a resource list.
type Page struct {
	Items      []Item
	Pagination Pagination
}
