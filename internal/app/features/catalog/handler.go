// internal/app/features/catalog/handler.go
package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/listing"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/taxonomy"
	"github.com/dalemusser/campushub/internal/app/upload"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.uber.org/zap"
)

// API is the backend surface the catalog uses. *backend.Client satisfies it.
type API interface {
	listing.API
	GetBySlug(ctx context.Context, k models.Kind, slug string) (models.Item, error)
	Get(ctx context.Context, k models.Kind, id string) (models.Item, error)
}

// Preferences reads and saves the visitor's course/branch pair.
type Preferences interface {
	ResourcePreference(ctx context.Context, visitorID string) (models.ResourcePreference, error)
	SaveResourcePreference(ctx context.Context, visitorID string, p models.ResourcePreference) error
}

// Deps are the collaborators shared by every kind's handler.
type Deps struct {
	API      API
	Uploader *upload.Uploader
	Taxonomy *taxonomy.Service
	Prefs    Preferences // optional
	Sessions *auth.SessionManager
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// Handler serves one resource kind.
type Handler struct {
	Deps
	Kind models.Kind

	spec kindSpec
}

// NewHandler constructs the handler for kind k.
func NewHandler(k models.Kind, d Deps) *Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.ErrLog == nil {
		d.ErrLog = uierrors.NewErrorLogger(d.Log)
	}
	return &Handler{Deps: d, Kind: k, spec: specs[k.Name]}
}

// listPath is the kind's list URL.
func (h *Handler) listPath() string { return "/" + h.Kind.Name }

// itemPath is the URL of one item, by slug when it has one.
func (h *Handler) itemPath(it models.Item) string {
	key := it.Slug
	if key == "" {
		key = it.ID
	}
	return h.listPath() + "/" + url.PathEscape(key)
}

// redirect sends the browser to target, by HX-Redirect for HTMX requests.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if auth.IsHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// flash queues a notification for the next page. Sessions are optional in
// unit tests.
func (h *Handler) flash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	if h.Sessions != nil {
		h.Sessions.AddFlash(w, r, kind, msg)
	}
}

// savedPreference returns the visitor's course/branch pair, or zero.
func (h *Handler) savedPreference(ctx context.Context, r *http.Request) models.ResourcePreference {
	vid := auth.VisitorID(r)
	if h.Prefs == nil || vid == "" {
		return models.ResourcePreference{}
	}
	p, err := h.Prefs.ResourcePreference(ctx, vid)
	if err != nil {
		h.Log.Warn("load resource preference failed", zap.Error(err))
	}
	return p
}

// rememberPreference saves the course/branch pair best-effort.
func (h *Handler) rememberPreference(ctx context.Context, r *http.Request, course, branch string) {
	vid := auth.VisitorID(r)
	if h.Prefs == nil || vid == "" || course == "" {
		return
	}
	p := models.ResourcePreference{Course: course, Branch: branch}
	if err := h.Prefs.SaveResourcePreference(ctx, vid, p); err != nil {
		h.Log.Warn("save resource preference failed", zap.Error(err))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
