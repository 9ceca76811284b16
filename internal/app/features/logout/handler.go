// internal/app/features/logout/handler.go
package logout

import (
	"context"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// API ends the backend session. *backend.Client satisfies it.
type API interface {
	Logout(ctx context.Context) error
}

type Handler struct {
	API        API
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(api API, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles GET and POST /logout. The backend session is ended
// best-effort; the portal session is cleared regardless.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.API.Logout(ctx); err != nil {
		h.Log.Warn("backend logout failed", zap.Error(err))
	}

	bye := auth.Flash{Kind: auth.FlashInfo, Message: "You have been signed out."}
	if err := h.SessionMgr.SignOut(w, r, bye); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	// HTMX handling: use HX-Redirect to force a client-side navigation to "/".
	if auth.IsHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
