// internal/app/features/catalog/view.go
package catalog

import (
	"context"
	"html/template"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/campushub/internal/app/system/navigation"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

// ServeView renders one item, looked up by slug or, for items without
// one, by id.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	it, err := h.lookup(ctx, slug)
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "get item failed", err, "Failed to load "+h.Kind.Singular+".", h.listPath())
		return
	}

	user, _ := auth.CurrentUser(r)
	back := navigation.SafeBackURL(r, navigation.KindBackURL(h.Kind))
	data := viewData{
		Kind: h.Kind,
		Card: h.newCard(it, user, back),
		Body: description(it.Description),
	}
	data.BaseVM = viewdata.NewBaseVM(w, r, data.Card.Title, h.listPath())
	data.BackURL = back
	templates.Render(w, r, "catalog_view", data)
}

// description renders an item's description. Text that already carries
// HTML markup is sanitized as it is; anything else is read as markdown.
func description(s string) template.HTML {
	if !htmlsanitize.IsPlainText(s) {
		return htmlsanitize.PrepareForDisplay(s)
	}
	return htmlsanitize.Markdown(s)
}
