package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/campushub/internal/app/backend"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/domain/models"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// carryCookies copies Set-Cookie values from rec onto a new request.
func carryCookies(rec *httptest.ResponseRecorder, target string) *http.Request {
	req := httptest.NewRequest("GET", target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "x", "", time.Hour, false, nil); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/wallet?tab=tx", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	location := rec.Header().Get("Location")
	if location != "/login?return=%2Fwallet%3Ftab%3Dtx" {
		t.Errorf("unexpected redirect %q", location)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/data", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_NoUser_HTMX_ReturnsHXRedirect(t *testing.T) {
	sm := newTestSessionManager(t)

	handler := sm.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/wallet", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if hx := rec.Header().Get("HX-Redirect"); !strings.HasPrefix(hx, "/login") {
		t.Errorf("expected HX-Redirect to /login, got %q", hx)
	}
}

func TestSignIn_LoadSessionUser_ForwardsBackendCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	user := models.User{ID: "u1", Username: "asha", Email: "asha@x.edu", Role: "student"}
	if err := sm.SignIn(rec, req, user, "accessToken=a1; refreshToken=r1"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	var gotUser *auth.SessionUser
	var gotCookie string
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = auth.CurrentUser(r)
		gotCookie = backend.SessionCookie(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), carryCookies(rec, "/notes"))

	if gotUser == nil || gotUser.Username != "asha" || gotUser.ID != "u1" {
		t.Fatalf("user = %+v", gotUser)
	}
	if gotCookie != "accessToken=a1; refreshToken=r1" {
		t.Errorf("backend cookie = %q", gotCookie)
	}
}

func TestSignOut_ClearsUserKeepsFlash(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, httptest.NewRequest("POST", "/login", nil), models.User{ID: "u1"}, "sid=1"); err != nil {
		t.Fatal(err)
	}
	rec2 := httptest.NewRecorder()
	if err := sm.SignOut(rec2, carryCookies(rec, "/logout"), auth.Flash{Kind: auth.FlashSuccess, Message: "Signed out."}); err != nil {
		t.Fatal(err)
	}

	var signedIn bool
	var flashes []auth.Flash
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, signedIn = auth.CurrentUser(r)
		flashes = sm.Flashes(w, r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), carryCookies(rec2, "/"))

	if signedIn {
		t.Error("still signed in after SignOut")
	}
	if len(flashes) != 1 || flashes[0].Message != "Signed out." || flashes[0].Kind != auth.FlashSuccess {
		t.Errorf("flashes = %+v", flashes)
	}
}

func TestFlashes_PopOnce(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	sm.AddFlash(rec, httptest.NewRequest("POST", "/notes", nil), auth.FlashError, "Please sign in to add notes.")

	rec2 := httptest.NewRecorder()
	got := sm.Flashes(rec2, carryCookies(rec, "/notes"))
	if len(got) != 1 || got[0].Kind != auth.FlashError {
		t.Fatalf("flashes = %+v", got)
	}
	if again := sm.Flashes(httptest.NewRecorder(), carryCookies(rec2, "/notes")); len(again) != 0 {
		t.Errorf("flashes shown twice: %+v", again)
	}
}

func TestVisitor_AssignsAndKeepsID(t *testing.T) {
	sm := newTestSessionManager(t)

	var id string
	h := sm.Visitor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id = auth.VisitorID(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	first := id
	if first == "" {
		t.Fatal("no visitor id assigned")
	}

	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, carryCookies(rec, "/"))
	if id != first {
		t.Errorf("visitor id changed: %q -> %q", first, id)
	}
	if len(rec2.Result().Cookies()) != 0 {
		t.Error("visitor cookie re-issued for a known visitor")
	}

	forged := httptest.NewRequest("GET", "/", nil)
	forged.AddCookie(&http.Cookie{Name: "campushub-visitor", Value: "not-signed"})
	h.ServeHTTP(httptest.NewRecorder(), forged)
	if id == "" || id == first {
		t.Errorf("forged cookie accepted: %q", id)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	user, ok := auth.CurrentUser(httptest.NewRequest("GET", "/", nil))
	if ok || user != nil {
		t.Error("expected no user in a bare request")
	}
}
