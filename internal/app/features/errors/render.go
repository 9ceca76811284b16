// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/auth"
	nav "github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderNotice answers an HTMX request with a one-off notification swapped
// into the page's flash area, leaving the request's own target untouched.
func RenderNotice(w http.ResponseWriter, kind, msg string) {
	w.Header().Set("HX-Retarget", "#flash-area")
	w.Header().Set("HX-Reswap", "innerHTML")
	templates.RenderSnippet(w, "flash_notice", auth.Flash{Kind: kind, Message: msg})
}

// RenderUnauthorized shows the "sign in required" page.
// If backURL is empty it defaults to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	render(w, r, http.StatusUnauthorized, "Sign in required", "Please sign in to continue.", backURL)
}

// RenderForbidden shows an access error page with msg.
// If backURL is empty a safe back URL is resolved from the request.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = nav.ResolveBackURL(r, "/")
	}
	render(w, r, http.StatusForbidden, "Access denied", msg, backURL)
}

// RenderNotFound shows a not-found page with msg.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = nav.ResolveBackURL(r, "/")
	}
	render(w, r, http.StatusNotFound, "Not found", msg, backURL)
}
