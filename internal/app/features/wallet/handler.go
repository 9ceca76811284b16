// internal/app/features/wallet/handler.go
package wallet

import (
	"net/http"
	"time"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"github.com/dalemusser/campushub/internal/app/wallet"
	"go.uber.org/zap"
)

const (
	walletPath = "/wallet"

	txTarget  = "tx-wrap"
	rsTarget  = "rs-wrap"
	addTarget = "add-wrap"
	wdTarget  = "withdraw-wrap"
)

// Handler serves the wallet page and its add/withdraw actions.
type Handler struct {
	API      wallet.API
	Sessions *auth.SessionManager
	ErrLog   *uierrors.ErrorLogger
	// Limiter throttles add/withdraw submissions per user. Optional.
	Limiter *ratelimit.Limiter
	Log     *zap.Logger
}

func NewHandler(api wallet.API, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if errLog == nil {
		errLog = uierrors.NewErrorLogger(logger)
	}
	return &Handler{
		API:      api,
		Sessions: sm,
		ErrLog:   errLog,
		Limiter:  ratelimit.New(5, time.Minute),
		Log:      logger,
	}
}

// Close stops the limiter's sweeper.
func (h *Handler) Close() {
	if h.Limiter != nil {
		h.Limiter.Close()
	}
}

// allow reports whether the signed-in user may submit another action.
func (h *Handler) allow(r *http.Request) bool {
	if h.Limiter == nil {
		return true
	}
	key := ratelimit.ClientIP(r)
	if u, ok := auth.CurrentUser(r); ok {
		key = u.ID
	}
	return h.Limiter.Allow(key)
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if auth.IsHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
