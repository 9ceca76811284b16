// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/campushub/internal/app/backend"
	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/inputval"
	"github.com/dalemusser/campushub/internal/app/system/limits"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// API authenticates against the backend. *backend.Client satisfies it.
type API interface {
	Login(ctx context.Context, email, password string) (models.User, string, error)
}

type Handler struct {
	API        API
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

func NewHandler(api API, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Limiter:    limiter,
		Log:        logger,
	}
}

type loginFormData struct {
	viewdata.BaseVM
	Error     string
	Email     string
	ReturnURL string
}

// ServeLogin handles GET /login. Signed-in users go straight to the
// return URL.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "/")
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, ret, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "", "", ret)
}

// HandleLoginPost handles POST /login.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse login form failed", err, "Invalid form data.", "/login")
		return
	}
	email := strings.ToLower(strings.TrimSpace(r.PostForm.Get("email")))
	password := r.PostForm.Get("password")
	ret := urlutil.SafeReturn(r.PostForm.Get("return"), "", "/")

	if !inputval.IsValidEmail(email) || password == "" {
		h.render(w, r, http.StatusOK, "Please enter your email and password.", email, ret)
		return
	}
	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, email); !ok {
			h.Log.Warn("login rate limited", zap.String("ip", ratelimit.ClientIP(r)))
			h.render(w, r, http.StatusTooManyRequests, reason, email, ret)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, cookie, err := h.API.Login(ctx, email, password)
	if err != nil {
		var apiErr *backend.APIError
		msg := backend.UserMessage(err, "Sign-in failed. Please try again.")
		if errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest) {
			msg = "Invalid email or password."
		} else {
			h.Log.Warn("backend login failed", zap.Error(err))
		}
		h.render(w, r, http.StatusOK, msg, email, ret)
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(email)
	}

	welcome := auth.Flash{Kind: auth.FlashSuccess, Message: "Welcome back, " + user.Username + "!"}
	if err := h.SessionMgr.SignIn(w, r, user, cookie, welcome); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "We couldn't sign you in. Please try again.", "/login")
		return
	}
	h.Log.Info("user signed in", zap.String("user_id", user.ID))

	if auth.IsHTMX(r) {
		w.Header().Set("HX-Redirect", ret)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, ret, http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, msg, email, ret string) {
	data := loginFormData{
		BaseVM:    viewdata.NewBaseVM(w, r, "Sign in", "/"),
		Error:     msg,
		Email:     email,
		ReturnURL: ret,
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	templates.Render(w, r, "login", data)
}
