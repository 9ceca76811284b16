package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey        = "is_authenticated"
	userIDKey        = "user_id"
	userNameKey      = "user_name"
	userEmailKey     = "user_email"
	userRoleKey      = "user_role"
	userPictureKey   = "user_picture"
	backendCookieKey = "backend_cookie"
	flashKey         = "_flash"

	visitorCookieName = "campushub-visitor"
	visitorMaxAge     = 365 * 24 * time.Hour
)

// SessionManager owns the portal session cookie store and the visitor
// cookie codec.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	visitor *securecookie.SecureCookie
	domain  string
	secure  bool
	log     *zap.Logger
}

// NewSessionManager builds the session store. Session values are signed and
// encrypted (they hold the backend session cookie). In production
// (secure=true) cookies are Secure + SameSite=Lax; over http://localhost use
// secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, errors.New("session key is empty; provide ≥32 random chars")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "campushub-session"
	}

	hashKey := []byte(sessionKey)
	blockKey := sha256.Sum256([]byte("campushub/session/" + sessionKey))

	store := sessions.NewCookieStore(hashKey, blockKey[:])
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	visitorHash := sha256.Sum256([]byte("campushub/visitor/" + sessionKey))
	visitor := securecookie.New(visitorHash[:], nil)
	visitor.MaxAge(int(visitorMaxAge.Seconds()))

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{
		store:   store,
		name:    name,
		visitor: visitor,
		domain:  domain,
		secure:  secure,
		log:     logger,
	}, nil
}

// Store exposes the underlying cookie store.
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// GetSession returns the portal session. A cookie that fails to decode
// (rotated key, tampering) yields a fresh session and a nil error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sm.log.Debug("session decode failed; starting fresh", zap.Error(err))
	}
	if sess == nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// SignIn records u and the backend cookie header value in the session.
// Flashes to show next are saved in the same cookie write.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u models.User, backendCookie string, flashes ...Flash) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		return err
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameKey] = u.Username
	sess.Values[userEmailKey] = u.Email
	sess.Values[userRoleKey] = u.Role
	sess.Values[userPictureKey] = u.ProfilePicture
	sess.Values[backendCookieKey] = backendCookie
	addFlashes(sess, flashes)
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SignOut clears the signed-in user but keeps the session, adding flashes
// in the same cookie write.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request, flashes ...Flash) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		return err
	}
	for _, k := range []string{isAuthKey, userIDKey, userNameKey, userEmailKey, userRoleKey, userPictureKey, backendCookieKey} {
		delete(sess.Values, k)
	}
	addFlashes(sess, flashes)
	return sess.Save(r, w)
}

// LoadSessionUser injects the signed-in user and their backend cookie into
// the request context.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:             getString(sess, userIDKey),
				Username:       getString(sess, userNameKey),
				Email:          getString(sess, userEmailKey),
				Role:           getString(sess, userRoleKey),
				ProfilePicture: getString(sess, userPictureKey),
			}
			r = withUser(r, u)
			if c := getString(sess, backendCookieKey); c != "" {
				r = withBackendCookie(r, c)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
