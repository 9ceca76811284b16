// internal/app/features/catalog/list.go
package catalog

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/listing"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/paging"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeList renders one page of the kind's list. The query string is the
// whole view state (search, filters, page), so links reproduce the view.
//
// HTMX requests targeting the list wrapper get only the table fragment and
// an HX-Replace-Url with the canonical query. When the course changed, the
// fragment also swaps the branch filter out of band with the new course's
// branches. A failed HTMX refresh leaves the table as it was and reports
// through the notification area; a failed full-page load renders an empty
// list.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st := listing.ParseState(h.Kind, q)
	partial := auth.IsHTMX(r) && r.Header.Get("HX-Target") == listTarget

	var loadErr string
	c := listing.NewController(h.Kind, h.API, st, nil, listing.Options{
		Context: r.Context(),
		Timeout: timeouts.Medium(),
		OnError: func(msg string) { loadErr = msg },
	})
	c.Wait()
	c.Close()
	snap := c.Snapshot()

	if loadErr != "" {
		h.Log.Warn("list fetch failed", zap.String("kind", h.Kind.Name), zap.String("query", st.Query()))
		if partial {
			uierrors.RenderNotice(w, auth.FlashError, loadErr)
			return
		}
	}

	user, _ := auth.CurrentUser(r)
	current := st.URL(h.listPath())
	items := make([]cardVM, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, h.newCard(it, user, current))
	}

	data := listData{
		Kind:     h.Kind,
		ListPath: h.listPath(),
		Target:   listTarget,
		Search:   st.Search,
		Items:    items,
		Pager:    paging.NewPager(snap.Pagination, listing.DefaultLimit, len(items), h.pageHref(st)),
		Error:    loadErr,
	}
	if len(items) == 0 && loadErr == "" {
		data.Empty = "No " + h.Kind.Label + " yet."
		if st.HasCriteria() {
			data.Empty = "No " + h.Kind.Label + " match your filters."
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if partial {
		if listing.CourseChanged(q) && h.Kind.AllowsFilter(models.FilterBranch) {
			data.Filters = newFilterVM(h.Kind, st)
			h.loadBranches(ctx, st, &data.Filters)
			data.Filters.OOB = true
		}
		w.Header().Set("HX-Replace-Url", current)
		templates.RenderSnippet(w, "catalog_table_refresh", data)
		return
	}

	data.Filters = h.filterOptions(ctx, st)
	data.BaseVM = viewdata.NewBaseVM(w, r, h.Kind.Label, "/")
	templates.Render(w, r, "catalog_list", data)
}

// filterOptions builds the filter bar. Option lists that fail to load are
// left empty; the list itself is unaffected.
func (h *Handler) filterOptions(ctx context.Context, st listing.State) filterVM {
	f := newFilterVM(h.Kind, st)
	if f.Has[models.FilterSemester] {
		f.Semesters = semesters()
	}
	if f.Has[models.FilterYear] {
		f.Years = recentYears(time.Now(), 10)
	}
	if f.Has[models.FilterExamType] {
		f.ExamTypes = ExamTypes
	}
	if !f.Has[models.FilterCourse] || h.Taxonomy == nil {
		return f
	}

	courses, err := h.Taxonomy.Courses(ctx)
	if err != nil {
		h.Log.Warn("load course filter failed", zap.Error(err))
		return f
	}
	f.Courses = courses
	h.loadBranches(ctx, st, &f)
	return f
}

// newFilterVM records which filters k offers and their selections in st.
func newFilterVM(k models.Kind, st listing.State) filterVM {
	f := filterVM{
		Has:      make(map[string]bool, len(k.Filters)),
		Selected: make(map[string]string, len(k.Filters)),
	}
	for _, name := range k.Filters {
		f.Has[name] = true
		f.Selected[name] = st.Filter(name)
	}
	return f
}

// loadBranches fills the branch options for the selected course. With no
// course there are none and the branch filter renders disabled.
func (h *Handler) loadBranches(ctx context.Context, st listing.State, f *filterVM) {
	course := st.Filter(models.FilterCourse)
	if course == "" || !f.Has[models.FilterBranch] || h.Taxonomy == nil {
		return
	}
	branches, err := h.Taxonomy.Branches(ctx, course)
	if err != nil {
		h.Log.Warn("load branch filter failed", zap.String("course", course), zap.Error(err))
		return
	}
	f.Branches = branches
}
