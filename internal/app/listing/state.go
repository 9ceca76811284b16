// Package listing holds the list state shared by every resource list page:
// the search text, the categorical filters and the current page, together
// with their URL encoding and the backend query derived from them.
package listing

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
)

const (
	// DefaultLimit is the page size requested from the backend.
	DefaultLimit = 12
	// DebounceWindow is how long search input must be quiet before it commits.
	DebounceWindow = 500 * time.Millisecond
)

// URL parameter names that are not filters.
const (
	ParamSearch = "search"
	ParamPage   = "page"
	ParamLimit  = "limit"
	// ParamBranchCourse is the course the branch options on the page were
	// built for. When it no longer matches the course, the branch is stale.
	ParamBranchCourse = "branchCourse"
)

// dependents lists the filters cleared when their parent filter changes.
var dependents = map[string][]string{
	models.FilterCourse: {models.FilterBranch},
}

// State is the committed list state of one kind.
type State struct {
	Search  string
	Filters map[string]string
	Page    int
}

// ParseState seeds a State from a query string. Unknown filters and blank
// values are dropped; a missing or invalid page becomes 1. A branch chosen
// under a different course than the one now selected is dropped too.
func ParseState(k models.Kind, q url.Values) State {
	s := State{
		Search:  strings.TrimSpace(q.Get(ParamSearch)),
		Filters: make(map[string]string, len(k.Filters)),
		Page:    1,
	}
	for _, f := range k.Filters {
		if v := strings.TrimSpace(q.Get(f)); v != "" {
			s.Filters[f] = v
		}
	}
	if CourseChanged(q) {
		for _, d := range dependents[models.FilterCourse] {
			delete(s.Filters, d)
		}
	}
	if n, err := strconv.Atoi(q.Get(ParamPage)); err == nil && n > 1 {
		s.Page = n
	}
	return s
}

// CourseChanged reports whether q selects a different course than the one
// its branch options were built for.
func CourseChanged(q url.Values) bool {
	if !q.Has(ParamBranchCourse) {
		return false
	}
	return strings.TrimSpace(q.Get(ParamBranchCourse)) != strings.TrimSpace(q.Get(models.FilterCourse))
}

// Values returns the canonical URL parameters of s: page 1 and empty values
// are omitted.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.Search != "" {
		v.Set(ParamSearch, s.Search)
	}
	for name, val := range s.Filters {
		if val != "" {
			v.Set(name, val)
		}
	}
	if s.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}
	return v
}

// Query is the canonical query string (keys sorted, no leading "?").
func (s State) Query() string { return s.Values().Encode() }

// URL returns path with the canonical query appended when non-empty.
func (s State) URL(path string) string {
	if q := s.Query(); q != "" {
		return path + "?" + q
	}
	return path
}

// APIQuery is the backend list query for s. page and limit are always sent.
func (s State) APIQuery(limit int) url.Values {
	if limit <= 0 {
		limit = DefaultLimit
	}
	v := s.Values()
	page := s.Page
	if page < 1 {
		page = 1
	}
	v.Set(ParamPage, strconv.Itoa(page))
	v.Set(ParamLimit, strconv.Itoa(limit))
	return v
}

// WithFilter returns a copy with filter name set (or cleared when value is
// blank) and the page reset to 1. Changing a parent filter clears its
// dependents.
func (s State) WithFilter(name, value string) State {
	out := s.clone()
	value = strings.TrimSpace(value)
	if value != out.Filters[name] {
		for _, d := range dependents[name] {
			delete(out.Filters, d)
		}
	}
	if value == "" {
		delete(out.Filters, name)
	} else {
		out.Filters[name] = value
	}
	out.Page = 1
	return out
}

// WithSearch returns a copy with the search text replaced and the page
// reset to 1.
func (s State) WithSearch(q string) State {
	out := s.clone()
	out.Search = strings.TrimSpace(q)
	out.Page = 1
	return out
}

// WithPage returns a copy on page n (at least 1), keeping search and filters.
func (s State) WithPage(n int) State {
	out := s.clone()
	if n < 1 {
		n = 1
	}
	out.Page = n
	return out
}

// Filter returns the active value of filter name.
func (s State) Filter(name string) string { return s.Filters[name] }

// HasCriteria reports whether a search or any filter is active.
func (s State) HasCriteria() bool { return s.Search != "" || len(s.Filters) > 0 }

// Equal compares two states, treating nil and empty filter maps alike.
func (s State) Equal(o State) bool {
	if s.Search != o.Search || s.Page != o.Page || len(s.Filters) != len(o.Filters) {
		return false
	}
	for k, v := range s.Filters {
		if o.Filters[k] != v {
			return false
		}
	}
	return true
}

func (s State) clone() State {
	out := State{Search: s.Search, Page: s.Page, Filters: make(map[string]string, len(s.Filters))}
	for k, v := range s.Filters {
		out.Filters[k] = v
	}
	return out
}
