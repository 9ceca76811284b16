// internal/app/features/wallet/actions.go
package wallet

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/campushub/internal/app/backend"
	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/limits"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/wallet"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

const tooManyAttempts = "Too many attempts. Please wait a minute and try again."

// HandleAdd handles POST /wallet/add: create an order for the points, then
// send the browser to the payment gateway.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	raw := strings.TrimSpace(r.FormValue("points"))
	f := addForm{Target: addTarget, Min: wallet.MinAddPoints, Max: wallet.MaxAddPoints, Points: raw, CSRF: csrf.Token(r)}

	if !h.allow(r) {
		h.addFailed(w, r, f, tooManyAttempts)
		return
	}
	points, err := wallet.ParsePoints(raw)
	if err == nil {
		err = wallet.ValidateAdd(points)
	}
	if err != nil {
		h.addFailed(w, r, f, wallet.Message(err))
		return
	}
	f.Quote = wallet.FormatRupees(wallet.RupeesForPoints(points))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()
	gateway, err := wallet.StartTopUp(ctx, h.API, points)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			uierrors.RenderUnauthorized(w, r, walletPath)
			return
		}
		h.Log.Warn("start top-up failed", zap.Int("points", points), zap.Error(err))
		h.addFailed(w, r, f, backend.UserMessage(err, "Couldn't start the payment. Please try again."))
		return
	}
	if !urlutil.IsValidAbsHTTPURL(gateway) {
		h.Log.Error("payment gateway returned an unusable URL", zap.String("url", gateway))
		h.addFailed(w, r, f, "Couldn't start the payment. Please try again.")
		return
	}
	redirect(w, r, gateway)
}

// HandleWithdraw handles POST /wallet/withdraw. The balance is re-read so
// the check runs against the current figure, not the one on the page.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	f := withdrawForm{
		Target: wdTarget,
		Min:    wallet.MinWithdrawPoints,
		UPIID:  strings.TrimSpace(r.FormValue("upi_id")),
		Points: strings.TrimSpace(r.FormValue("points")),
		CSRF:   csrf.Token(r),
	}

	if !h.allow(r) {
		h.withdrawFailed(w, r, f, tooManyAttempts)
		return
	}
	points, err := wallet.ParsePoints(f.Points)
	if err != nil {
		h.withdrawFailed(w, r, f, wallet.Message(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	bal, err := h.API.Balance(ctx)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			uierrors.RenderUnauthorized(w, r, walletPath)
			return
		}
		h.Log.Warn("load balance failed", zap.Error(err))
		h.withdrawFailed(w, r, f, "Couldn't check your balance. Please try again.")
		return
	}
	f.Max = bal.CurrentBalance

	if err := wallet.Withdraw(ctx, h.API, f.UPIID, points, bal.CurrentBalance); err != nil {
		msg := wallet.Message(err)
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			h.Log.Warn("redeem failed", zap.Int("points", points), zap.Error(err))
			msg = backend.UserMessage(err, "Withdrawal failed. Please try again.")
		}
		h.withdrawFailed(w, r, f, msg)
		return
	}

	h.Sessions.AddFlash(w, r, auth.FlashSuccess, "Withdrawal request submitted. It will be processed soon.")
	redirect(w, r, walletPath)
}

// ServeQuote handles GET /wallet/quote?points= with the rupee price of the
// entered points, for the add form's live preview.
func (h *Handler) ServeQuote(w http.ResponseWriter, r *http.Request) {
	points, err := wallet.ParsePoints(query.Get(r, "points"))
	quote := ""
	if err == nil && points > 0 {
		quote = wallet.FormatRupees(wallet.RupeesForPoints(points))
	}
	templates.RenderSnippet(w, "wallet_quote", quote)
}

// addFailed re-renders the add form in place for HTMX; plain posts get a
// flash on the wallet page.
func (h *Handler) addFailed(w http.ResponseWriter, r *http.Request, f addForm, msg string) {
	if auth.IsHTMX(r) {
		f.Error = msg
		templates.RenderSnippet(w, "wallet_add_form", f)
		return
	}
	h.Sessions.AddFlash(w, r, auth.FlashError, msg)
	http.Redirect(w, r, walletPath, http.StatusSeeOther)
}

func (h *Handler) withdrawFailed(w http.ResponseWriter, r *http.Request, f withdrawForm, msg string) {
	if auth.IsHTMX(r) {
		f.Error = msg
		templates.RenderSnippet(w, "wallet_withdraw_form", f)
		return
	}
	h.Sessions.AddFlash(w, r, auth.FlashError, msg)
	http.Redirect(w, r, walletPath, http.StatusSeeOther)
}
