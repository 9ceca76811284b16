package login_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	"github.com/dalemusser/campushub/internal/app/features/login"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"github.com/dalemusser/campushub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, limiter *ratelimit.LoginLimiter) (*login.Handler, *testutil.FakeBackend) {
	t.Helper()
	fb := testutil.NewFakeBackend(t)
	fb.Router.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "correct horse" {
			testutil.Fail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "backend-jwt", Path: "/"})
		testutil.JSON(w, http.StatusOK, map[string]any{"user": map[string]any{
			"_id": "u1", "username": "asha", "email": body.Email, "role": "student",
		}})
	})
	logger := zap.NewNop()
	sm := testutil.NewSessionManager(t)
	return login.NewHandler(fb.Client, sm, uierrors.NewErrorLogger(logger), limiter, logger), fb
}

func TestHandleLoginPost_Success(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	form := url.Values{"email": {"Asha@Example.edu"}, "password": {"correct horse"}, "return": {"/notes?page=2"}}
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, testutil.NewFormRequest("/login", form))

	testutil.AssertRedirect(t, rec, "/notes?page=2")
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "campushub-test" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}
}

func TestHandleLoginPost_RejectsOffsiteReturn(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	form := url.Values{"email": {"asha@example.edu"}, "password": {"correct horse"}, "return": {"https://evil.example/"}}
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, testutil.NewFormRequest("/login", form))

	testutil.AssertRedirect(t, rec, "/")
}

func TestHandleLoginPost_WrongPassword(t *testing.T) {
	h, fb := newTestHandler(t, nil)

	form := url.Values{"email": {"asha@example.edu"}, "password": {"nope"}}
	rec := httptest.NewRecorder()
	testutil.Render(func() { h.HandleLoginPost(rec, testutil.NewFormRequest("/login", form)) })

	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("unexpected redirect to %q", loc)
	}
	if n := fb.Count(http.MethodPost, "/auth/login"); n != 1 {
		t.Errorf("login calls: got %d, want 1", n)
	}
}

func TestHandleLoginPost_InvalidEmailSkipsBackend(t *testing.T) {
	h, fb := newTestHandler(t, nil)

	form := url.Values{"email": {"not-an-email"}, "password": {"x"}}
	rec := httptest.NewRecorder()
	testutil.Render(func() { h.HandleLoginPost(rec, testutil.NewFormRequest("/login", form)) })

	if n := len(fb.Requests()); n != 0 {
		t.Errorf("backend calls: got %d, want 0", n)
	}
}

func TestHandleLoginPost_RateLimited(t *testing.T) {
	limiter := ratelimit.NewLoginLimiterWithConfig(100, time.Hour, 2, time.Hour)
	defer limiter.Close()
	h, fb := newTestHandler(t, limiter)

	form := url.Values{"email": {"asha@example.edu"}, "password": {"nope"}}
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		testutil.Render(func() { h.HandleLoginPost(rec, testutil.NewFormRequest("/login", form)) })
		if i == 2 && rec.Code != http.StatusTooManyRequests {
			t.Errorf("third attempt status: got %d, want %d", rec.Code, http.StatusTooManyRequests)
		}
	}
	if n := fb.Count(http.MethodPost, "/auth/login"); n != 2 {
		t.Errorf("login calls: got %d, want 2", n)
	}
}

func TestServeLogin_SignedInRedirects(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/login?return=/wallet", nil)
	req = testutil.WithUser(req, testutil.StudentUser())
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	testutil.AssertRedirect(t, rec, "/wallet")
}
