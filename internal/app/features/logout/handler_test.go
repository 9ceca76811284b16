package logout_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dalemusser/campushub/internal/app/features/logout"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.uber.org/zap"
)

// signedIn returns a request carrying a session cookie for a signed-in user.
func signedIn(t *testing.T, sm *auth.SessionManager, next *http.Request) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, httptest.NewRequest(http.MethodPost, "/login", nil), testutil.StudentUser(), "token=abc"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	return testutil.CarryCookies(rec, next)
}

func TestServeLogout_ClearsSessionAndCallsBackend(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Router.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		testutil.JSON(w, http.StatusOK, nil)
	})
	sm := testutil.NewSessionManager(t)
	h := logout.NewHandler(fb.Client, sm, zap.NewNop())

	req := signedIn(t, sm, testutil.NewFormRequest("/logout", url.Values{}))
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	testutil.AssertRedirect(t, rec, "/")
	if n := fb.Count(http.MethodPost, "/auth/logout"); n != 1 {
		t.Errorf("backend logout calls: got %d, want 1", n)
	}

	// The rewritten cookie must no longer carry a user.
	var seen *auth.SessionUser
	whoami := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentUser(r)
	}))
	whoami.ServeHTTP(httptest.NewRecorder(), testutil.CarryCookies(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	if seen != nil {
		t.Errorf("user still signed in: %+v", seen)
	}
}

func TestServeLogout_HTMXAndBackendFailure(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	fb.Router.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		testutil.Fail(w, http.StatusInternalServerError, "down")
	})
	sm := testutil.NewSessionManager(t)
	h := logout.NewHandler(fb.Client, sm, zap.NewNop())

	req := testutil.HTMX(signedIn(t, sm, testutil.NewFormRequest("/logout", url.Values{})), "")
	rec := httptest.NewRecorder()
	h.ServeLogout(rec, req)

	testutil.AssertHXRedirect(t, rec, "/")
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
}
