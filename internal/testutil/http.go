package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionKey is a throwaway 32-byte key for test session managers.
const SessionKey = "campushub-test-session-key-32byte"

// StudentUser returns a signed-in user with the student role.
func StudentUser() models.User {
	return models.User{
		ID:       uuid.NewString(),
		Username: "asha",
		Email:    "asha@example.edu",
		Role:     "student",
	}
}

// OtherUser returns a second student distinct from StudentUser.
func OtherUser() models.User {
	return models.User{
		ID:       uuid.NewString(),
		Username: "ravi",
		Email:    "ravi@example.edu",
		Role:     "student",
	}
}

// WithUser injects u directly into the request context, bypassing sessions.
func WithUser(r *http.Request, u models.User) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Role:           u.Role,
		ProfilePicture: u.ProfilePicture,
	})
}

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// NewFormRequest builds a urlencoded POST.
func NewFormRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// HTMX marks r as an HTMX request targeting target (may be empty).
func HTMX(r *http.Request, target string) *http.Request {
	r.Header.Set("HX-Request", "true")
	if target != "" {
		r.Header.Set("HX-Target", target)
	}
	return r
}

// NewSessionManager returns an insecure session manager for handler tests.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(SessionKey, "campushub-test", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return sm
}

// CarryCookies copies the cookies set on rec onto next, the way a browser
// would on the following request.
func CarryCookies(rec *httptest.ResponseRecorder, next *http.Request) *http.Request {
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	return next
}

// AssertRedirect checks for a 303 to location.
func AssertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Errorf("Location: got %q, want %q", got, location)
	}
}

// AssertHXRedirect checks an HTMX client redirect to location.
func AssertHXRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if got := rec.Header().Get("HX-Redirect"); got != location {
		t.Errorf("HX-Redirect: got %q, want %q", got, location)
	}
}

// Render runs fn and swallows a panic from template rendering, which has
// no engine in unit tests.
func Render(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
