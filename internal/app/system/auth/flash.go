package auth

import (
	"encoding/gob"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

func init() {
	// Flashes are stored as []interface{} of strings.
	gob.Register([]interface{}{})
}

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// AddFlash queues a notification. Failures to save are logged; a lost
// notification never fails the request. Call it at most once per request:
// every save rewrites the whole session cookie from the incoming one.
func (sm *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	sess, err := sm.GetSession(r)
	if err != nil {
		return
	}
	addFlashes(sess, []Flash{{Kind: kind, Message: msg}})
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("save flash failed", zap.Error(err))
	}
}

func addFlashes(sess *sessions.Session, fs []Flash) {
	for _, f := range fs {
		sess.AddFlash(f.Kind+"\x00"+f.Message, flashKey)
	}
}

// Flashes pops all queued notifications.
func (sm *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess, err := sm.GetSession(r)
	if err != nil {
		return nil
	}
	raw := sess.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("clear flashes failed", zap.Error(err))
	}
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		kind, msg, found := strings.Cut(s, "\x00")
		if !found {
			kind, msg = FlashInfo, s
		}
		out = append(out, Flash{Kind: kind, Message: msg})
	}
	return out
}
