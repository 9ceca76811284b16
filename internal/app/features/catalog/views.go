// internal/app/features/catalog/views.go
package catalog

import (
	"html/template"
	"net/url"
	"strconv"
	"time"

	"github.com/dalemusser/campushub/internal/app/listing"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/formutil"
	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/app/system/paging"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/app/taxonomy"
	"github.com/dalemusser/campushub/internal/domain/models"
)

// excerptLen bounds card descriptions.
const excerptLen = 160

// listTarget is the element id HTMX list refreshes swap.
const listTarget = "list-wrap"

// cardVM is one rendered resource card.
type cardVM struct {
	Item       models.Item
	Title      string
	Href       string
	EditHref   string
	DeleteHref string
	Excerpt    string
	Price      string
	Status     string // moderation badge, owners only
	Rejection  string // moderator's reason, owners of rejected items only
	CanManage  bool
}

func (h *Handler) newCard(it models.Item, user *auth.SessionUser, ret string) cardVM {
	href := h.itemPath(it)
	c := cardVM{
		Item:      it,
		Title:     it.DisplayTitle(),
		Href:      href,
		Excerpt:   htmlsanitize.Excerpt(it.Description, excerptLen),
		CanManage: authz.CanManage(user, it),
	}
	switch {
	case it.IsPaid:
		c.Price = strconv.Itoa(it.Price) + " points"
	case h.Kind.Name == models.KindStore.Name:
		c.Price = "₹" + strconv.Itoa(it.Price)
	}
	if c.CanManage {
		q := "?return=" + url.QueryEscape(ret)
		c.EditHref = href + "/edit" + q
		c.DeleteHref = href + "/delete" + q
		if it.SubmissionStatus != "" && it.SubmissionStatus != models.SubmissionApproved {
			c.Status = it.SubmissionStatus
		}
		if it.IsRejected() {
			c.Rejection = it.RejectionReason
		}
	}
	return c
}

// filterVM holds the filter bar's selections and option lists.
type filterVM struct {
	Has       map[string]bool
	Selected  map[string]string
	Courses   []models.Course
	Branches  []models.Branch
	Semesters []int
	Years     []string
	ExamTypes []Option
	OOB       bool // render the branch filter as an out-of-band swap
}

// listData is the view model for a kind's list page and its table fragment.
type listData struct {
	viewdata.BaseVM
	Kind     models.Kind
	ListPath string
	Target   string
	Search   string
	Items    []cardVM
	Pager    paging.Pager
	Filters  filterVM
	Error    string
	Empty    string
}

// viewData is the view model for one item's page.
type viewData struct {
	viewdata.BaseVM
	Kind models.Kind
	Card cardVM
	Body template.HTML
}

// formData is the view model for new and edit forms.
type formData struct {
	formutil.Base
	Kind      models.Kind
	Action    string
	Submit    string
	Editing   bool
	Form      form
	File      *fileField
	Existing  string // current file or photo URL when editing
	Taxonomy  bool
	Subjects  bool
	Courses   []models.Course
	Cascade   taxonomy.Cascade
	Semesters []int
	Semester  int
	ExamTypes []Option
	Return    string
}

// deleteData is the view model for the delete confirmation.
type deleteData struct {
	viewdata.BaseVM
	Kind   models.Kind
	Card   cardVM
	Action string
	Return string
}

// semesters lists the selectable semesters.
func semesters() []int { return []int{1, 2, 3, 4, 5, 6, 7, 8} }

// recentYears lists the last n years, newest first.
func recentYears(now time.Time, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(now.Year() - i)
	}
	return out
}

// pageHref returns a function mapping a page number to the list URL for st.
func (h *Handler) pageHref(st listing.State) func(int) string {
	return func(n int) string { return st.WithPage(n).URL(h.listPath()) }
}
