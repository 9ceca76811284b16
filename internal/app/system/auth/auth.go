// Package auth keeps the portal's session: who is signed in, the backend
// session cookie to forward for them, flash notifications and the visitor
// id used for saved preferences.
package auth

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/campushub/internal/app/backend"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we cache in the session & inject into r.Context().
type SessionUser struct {
	ID             string
	Username       string
	Email          string
	Role           string
	ProfilePicture string
}

type ctxKey string

const (
	currentUserKey ctxKey = "currentUser"
	visitorIDKey   ctxKey = "visitorID"
)

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects u into the request context the way LoadSessionUser
// does. Intended for handler tests.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// WithTestVisitor injects a visitor id into the request context.
func WithTestVisitor(r *http.Request, id string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), visitorIDKey, id))
}

// VisitorID returns the id set by the Visitor middleware, or "".
func VisitorID(r *http.Request) string {
	id, _ := r.Context().Value(visitorIDKey).(string)
	return id
}

// RequireSignedIn ensures there is a user in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		redirectToLogin(w, r)
	})
}

// IsHTMX reports whether r was issued by HTMX.
func IsHTMX(r *http.Request) bool { return r.Header.Get("HX-Request") == "true" }

// helpers

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(currentURI(r))

	// HTMX: full-page client redirect (no partial swap)
	if IsHTMX(r) {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func withBackendCookie(r *http.Request, cookie string) *http.Request {
	return r.WithContext(backend.WithSessionCookie(r.Context(), cookie))
}

func wantsHTML(r *http.Request) bool {
	if IsHTMX(r) {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
