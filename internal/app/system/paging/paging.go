// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

// TableSize is the number of rows shown per page in in-memory tables
// (wallet transactions and redemptions).
const TableSize = 10

// ParsePage extracts the 1-based "page" query parameter (or name, when
// given). Returns 1 if not present or invalid.
func ParsePage(r *http.Request, name ...string) int {
	key := "page"
	if len(name) > 0 && name[0] != "" {
		key = name[0]
	}
	n, err := strconv.Atoi(query.Get(r, key))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Slice returns page (1-based) of items with size rows per page, clamping
// page into range, plus the matching pagination block.
func Slice[T any](items []T, page, size int) ([]T, models.Pagination) {
	if size <= 0 {
		size = TableSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	p := models.Pagination{CurrentPage: page, TotalPages: pages, TotalItems: total}.Normalize()

	start := (p.CurrentPage - 1) * size
	if start >= total {
		return []T{}, p
	}
	end := start + size
	if end > total {
		end = total
	}
	return items[start:end], p
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start int // 1-based index of the first row shown (0 if no results)
	End   int // 1-based index of the last row shown (0 if no results)
	Total int
}

// ComputeRange returns the "showing X–Y of Z" values for a page.
func ComputeRange(p models.Pagination, size, shown int) Range {
	if shown == 0 {
		return Range{Total: p.TotalItems}
	}
	start := (p.CurrentPage-1)*size + 1
	return Range{Start: start, End: start + shown - 1, Total: p.TotalItems}
}

// Window returns up to span page numbers centered on the current page,
// for numbered pagination links.
func Window(p models.Pagination, span int) []int {
	if p.TotalPages <= 0 {
		return nil
	}
	if span <= 0 || span > p.TotalPages {
		span = p.TotalPages
	}
	first := p.CurrentPage - span/2
	if first < 1 {
		first = 1
	}
	if last := first + span - 1; last > p.TotalPages {
		first = p.TotalPages - span + 1
	}
	out := make([]int, span)
	for i := range out {
		out[i] = first + i
	}
	return out
}

// WindowSpan is how many numbered links a pager shows.
const WindowSpan = 5

// PageLink is one numbered pager link.
type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// Pager is everything a pagination widget renders.
type Pager struct {
	Pages    []PageLink
	HasPrev  bool
	HasNext  bool
	PrevHref string
	NextHref string
	Range    Range
}

// NewPager builds the widget for p; href maps a page number to its URL.
func NewPager(p models.Pagination, size, shown int, href func(page int) string) Pager {
	p = p.Normalize()
	pg := Pager{
		HasPrev: p.HasPrevPage,
		HasNext: p.HasNextPage,
		Range:   ComputeRange(p, size, shown),
	}
	for _, n := range Window(p, WindowSpan) {
		pg.Pages = append(pg.Pages, PageLink{Number: n, Href: href(n), Current: n == p.CurrentPage})
	}
	if pg.HasPrev {
		pg.PrevHref = href(p.CurrentPage - 1)
	}
	if pg.HasNext {
		pg.NextHref = href(p.CurrentPage + 1)
	}
	return pg
}
