// internal/app/features/catalog/routes.go
package catalog

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts one kind's list, view, create, edit and delete routes
// under whatever base path the caller chooses (always "/"+kind).
//
// Example from bootstrap:
//
//	h := catalog.NewHandler(models.KindNotes, deps)
//	r.Mount("/notes", catalog.Routes(h, sessionMgr))
//
// Listing and viewing are public. The create routes answer signed-out
// visitors with a sign-in prompt rather than the login redirect.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// LIST (live search + HTMX table swap)
	r.Get("/", h.ServeList)

	// CREATE
	r.Get("/new", h.ServeNew)
	r.Post("/new", h.HandleCreate)

	// VIEW
	r.Get("/{slug}", h.ServeView)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// EDIT
		pr.Get("/{slug}/edit", h.ServeEdit)
		pr.Post("/{slug}/edit", h.HandleEdit)

		// DELETE (modal for HTMX, page otherwise)
		pr.Get("/{slug}/delete", h.ServeDeleteConfirm)
		pr.Post("/{slug}/delete", h.HandleDelete)
	})

	return r
}
