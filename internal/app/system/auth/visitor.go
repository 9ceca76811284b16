package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Visitor makes sure every browser carries a signed visitor id cookie and
// puts the id on the request context. Saved preferences are keyed by it.
func (sm *SessionManager) Visitor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := sm.readVisitor(r)
		if id == "" {
			id = uuid.NewString()
			if encoded, err := sm.visitor.Encode(visitorCookieName, id); err == nil {
				http.SetCookie(w, &http.Cookie{
					Name:     visitorCookieName,
					Value:    encoded,
					Path:     "/",
					Domain:   sm.domain,
					MaxAge:   int(visitorMaxAge.Seconds()),
					Secure:   sm.secure,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			} else {
				sm.log.Warn("encode visitor cookie failed", zap.Error(err))
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), visitorIDKey, id)))
	})
}

func (sm *SessionManager) readVisitor(r *http.Request) string {
	c, err := r.Cookie(visitorCookieName)
	if err != nil {
		return ""
	}
	var id string
	if err := sm.visitor.Decode(visitorCookieName, c.Value, &id); err != nil {
		return ""
	}
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}
