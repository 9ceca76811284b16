// internal/app/features/taxonomy/routes.go
package taxonomy

import "github.com/go-chi/chi/v5"

// Routes mounts the selector endpoints (typically under "/taxonomy").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/branches", h.ServeBranches)
	r.Get("/subjects", h.ServeSubjects)
	r.Post("/preference", h.HandlePreference)
	return r
}
