// internal/app/features/catalog/delete.go
package catalog

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/campushub/internal/app/backend"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/navigation"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeDeleteConfirm renders the confirmation: a modal fragment for HTMX,
// a full page otherwise.
func (h *Handler) ServeDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	it, ok := h.loadManaged(w, r)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(r)
	back := h.deleteReturn(r, h.itemPath(it))
	d := deleteData{
		Kind:   h.Kind,
		Card:   h.newCard(it, user, back),
		Action: h.itemPath(it) + "/delete",
		Return: back,
	}
	if auth.IsHTMX(r) {
		templates.RenderSnippet(w, "catalog_delete_modal", d)
		return
	}
	d.BaseVM = viewdata.NewBaseVM(w, r, "Delete "+h.Kind.Singular, back)
	templates.Render(w, r, "catalog_delete", d)
}

// HandleDelete deletes the item and returns to where the user came from.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	it, ok := h.loadManaged(w, r)
	if !ok {
		return
	}
	back := h.deleteReturn(r, h.itemPath(it))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.API.Delete(ctx, h.Kind, it.ID); err != nil {
		h.Log.Warn("delete failed", zap.String("kind", h.Kind.Name), zap.String("id", it.ID), zap.Error(err))
		h.flash(w, r, auth.FlashError, backend.UserMessage(err, "Failed to delete "+h.Kind.Singular+"."))
		redirect(w, r, back)
		return
	}
	h.flash(w, r, auth.FlashSuccess, capitalize(h.Kind.Singular)+" deleted.")
	redirect(w, r, back)
}

// deleteReturn is the safe return URL, never the deleted item's own page.
func (h *Handler) deleteReturn(r *http.Request, itemPath string) string {
	back := navigation.SafeBackURL(r, navigation.KindBackURL(h.Kind))
	if path, _, _ := strings.Cut(back, "?"); path == itemPath {
		return h.listPath()
	}
	return back
}
