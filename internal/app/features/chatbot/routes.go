// internal/app/features/chatbot/routes.go
package chatbot

import "github.com/go-chi/chi/v5"

// Routes mounts the assistant (typically at "/chatbot"). It is open to
// signed-out visitors.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeChat)
	r.Post("/choose", h.HandleChoose)
	r.Post("/reset", h.HandleReset)
	return r
}
