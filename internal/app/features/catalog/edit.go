// internal/app/features/catalog/edit.go
package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/backend"
	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/authz"
	"github.com/dalemusser/campushub/internal/app/system/navigation"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/upload"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeEdit renders the edit form prefilled from the stored record.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	it, ok := h.loadManaged(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	back := navigation.SafeBackURL(r, navigation.KindBackURL(h.Kind))
	d := h.baseForm(w, r, h.spec.fromItem(it), true, back)
	d.Action = h.itemPath(it) + "/edit"
	d.Existing = h.existingFile(it)
	h.loadCascade(ctx, r, &d, false)
	templates.Render(w, r, "catalog_form", d)
}

// HandleEdit saves an edit. Kinds with EditDiff send only changed fields;
// the rest send the whole form. A new file replaces the stored one, and
// the old object is discarded once the record points at the new one.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	it, ok := h.loadManaged(w, r)
	if !ok {
		return
	}
	back := navigation.SafeBackURL(r, navigation.KindBackURL(h.Kind))

	f := h.spec.newForm()
	f.decode(r.Form)
	d := h.baseForm(w, r, f, true, back)
	d.Action = h.itemPath(it) + "/edit"
	d.Existing = h.existingFile(it)

	if res := f.check(); res.HasErrors() {
		h.renderForm(w, r, &d, res.First())
		return
	}
	file, err := h.readFile(r, false)
	if err != nil {
		h.renderForm(w, r, &d, upload.UserMessage(err))
		return
	}

	body := updateBody(h.Kind, h.spec.fromItem(it), f)
	if len(body) == 0 && file == nil {
		h.flash(w, r, auth.FlashInfo, "No changes to save.")
		redirect(w, r, back)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Upload())
	defer cancel()

	up, err := h.store(ctx, file, body)
	if err != nil {
		h.Log.Error("upload failed", zap.String("kind", h.Kind.Name), zap.Error(err))
		h.renderForm(w, r, &d, "Failed to upload file. Please try again.")
		return
	}
	if err := h.API.Update(ctx, h.Kind, it.ID, body); err != nil {
		h.discard(r, up)
		h.Log.Warn("update failed", zap.String("kind", h.Kind.Name), zap.String("id", it.ID), zap.Error(err))
		h.renderForm(w, r, &d, backend.UserMessage(err, "Failed to update "+h.Kind.Singular+"."))
		return
	}
	if file != nil {
		if prev, ok := h.Uploader.Stored(h.existingFile(it)); ok && prev.Key != up.Key {
			h.discard(r, prev)
		}
	}

	h.flash(w, r, auth.FlashSuccess, capitalize(h.Kind.Singular)+" updated.")
	redirect(w, r, back)
}

// loadManaged fetches the item named by the slug parameter and checks that
// the signed-in user may change it. It writes the response on failure.
func (h *Handler) loadManaged(w http.ResponseWriter, r *http.Request) (models.Item, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	it, err := h.lookup(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		h.ErrLog.LogBackendError(w, r, "get item failed", err, "Failed to load "+h.Kind.Singular+".", h.listPath())
		return models.Item{}, false
	}
	if !authz.CanManageItem(r, it) {
		uierrors.RenderForbidden(w, r, "Only the owner can change this "+h.Kind.Singular+".", h.listPath())
		return models.Item{}, false
	}
	return it, true
}

// lookup resolves the {slug} route parameter. Items without a slug are
// linked by id (see itemPath), so a slug miss retries the key as an id.
func (h *Handler) lookup(ctx context.Context, key string) (models.Item, error) {
	it, err := h.API.GetBySlug(ctx, h.Kind, key)
	if !errors.Is(err, backend.ErrNotFound) {
		return it, err
	}
	byID, idErr := h.API.Get(ctx, h.Kind, key)
	if idErr != nil || byID.Slug != "" {
		return models.Item{}, err
	}
	return byID, nil
}

// existingFile is the stored file or photo URL, shown beside the file input.
func (h *Handler) existingFile(it models.Item) string {
	if h.spec.file == nil {
		return ""
	}
	switch h.spec.file.Target {
	case "fileUrl":
		return it.FileURL
	case "image":
		return it.Image
	case "profilePicture":
		return it.ProfilePicture
	}
	return ""
}
