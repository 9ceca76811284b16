// internal/app/features/wallet/routes.go
package wallet

import (
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the wallet (typically at "/wallet"). Everything requires
// a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeWallet)
	r.Get("/quote", h.ServeQuote)
	r.Post("/add", h.HandleAdd)
	r.Post("/withdraw", h.HandleWithdraw)
	return r
}
