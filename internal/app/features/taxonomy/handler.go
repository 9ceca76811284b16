// internal/app/features/taxonomy/handler.go
package taxonomy

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/taxonomy"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Preferences saves the visitor's course/branch pair.
type Preferences interface {
	SaveResourcePreference(ctx context.Context, visitorID string, p models.ResourcePreference) error
}

// Handler serves the option fragments behind the course → branch →
// subject selects, and saves the visitor's choice.
type Handler struct {
	Service *taxonomy.Service
	Prefs   Preferences
	Log     *zap.Logger
}

func NewHandler(svc *taxonomy.Service, prefs Preferences, logger *zap.Logger) *Handler {
	return &Handler{Service: svc, Prefs: prefs, Log: logger}
}

type branchesData struct {
	Cascade taxonomy.Cascade
	// Subjects wires the branch select to the subject lookup and clears
	// the subject select out of band.
	Subjects bool
}

// ServeBranches handles GET /taxonomy/branches?course=. It answers with the
// whole branch select, enabled once a course is chosen.
func (h *Handler) ServeBranches(w http.ResponseWriter, r *http.Request) {
	course := strings.TrimSpace(r.URL.Query().Get("course"))
	data := branchesData{Subjects: r.URL.Query().Get("subjects") == "1"}
	data.Cascade.SelectCourse(course)

	if course != "" {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		branches, err := h.Service.Branches(ctx, course)
		if err != nil {
			h.Log.Warn("load branches failed", zap.String("course", course), zap.Error(err))
			uierrors.RenderNotice(w, auth.FlashError, "Couldn't load branches. Please try again.")
			return
		}
		data.Cascade.SetBranches(course, branches)
	}
	templates.RenderSnippet(w, "taxonomy_branches", data)
}

// ServeSubjects handles GET /taxonomy/subjects?branch=&semester=. Until both
// are chosen it answers with the prompt option alone.
func (h *Handler) ServeSubjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	branch := strings.TrimSpace(q.Get("branch"))
	semester, _ := strconv.Atoi(q.Get("semester"))

	var c taxonomy.Cascade
	c.Branch = branch
	if branch != "" && semester > 0 {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		subjects, err := h.Service.Subjects(ctx, branch, semester)
		if err != nil {
			h.Log.Warn("load subjects failed", zap.String("branch", branch), zap.Int("semester", semester), zap.Error(err))
			uierrors.RenderNotice(w, auth.FlashError, "Couldn't load subjects. Please try again.")
			return
		}
		c.Subjects = subjects
	}
	templates.RenderSnippet(w, "taxonomy_subject_options", c)
}

// HandlePreference handles POST /taxonomy/preference. It always answers
// 204; a lost preference only costs a pre-selection.
func (h *Handler) HandlePreference(w http.ResponseWriter, r *http.Request) {
	vid := auth.VisitorID(r)
	course := strings.TrimSpace(r.FormValue("course"))
	if h.Prefs != nil && vid != "" && course != "" {
		p := models.ResourcePreference{Course: course, Branch: strings.TrimSpace(r.FormValue("branch"))}
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		if err := h.Prefs.SaveResourcePreference(ctx, vid, p); err != nil {
			h.Log.Warn("save resource preference failed", zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
