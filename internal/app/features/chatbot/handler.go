// internal/app/features/chatbot/handler.go
package chatbot

import (
	"context"
	"errors"
	"net/http"

	chatflow "github.com/dalemusser/campushub/internal/app/chatbot"
	uierrors "github.com/dalemusser/campushub/internal/app/features/errors"
	preferencesstore "github.com/dalemusser/campushub/internal/app/store/preferences"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

const (
	chatPath   = "/chatbot"
	chatTarget = "chatbot"
)

// Store persists the conversation per visitor. *preferencesstore.Store
// satisfies it.
type Store interface {
	Get(ctx context.Context, visitorID string) (preferencesstore.Doc, error)
	SaveChatPreference(ctx context.Context, visitorID string, p models.ChatPreference) error
	SaveChatState(ctx context.Context, visitorID string, st models.ChatState) error
	ChatSessionID(ctx context.Context, visitorID string) (string, error)
	ResetChat(ctx context.Context, visitorID string) (string, error)
}

// Handler serves the chatbot page and its HTMX actions. Without a visitor
// id (or a store) the conversation is not persisted.
type Handler struct {
	Engine *chatflow.Engine
	Store  Store
	Log    *zap.Logger
}

func NewHandler(engine *chatflow.Engine, store Store, logger *zap.Logger) *Handler {
	return &Handler{Engine: engine, Store: store, Log: logger}
}

// session is one request's view of the visitor's conversation.
type session struct {
	visitorID string
	id        string
	flow      *chatflow.Flow
}

func (h *Handler) persistent(r *http.Request) bool {
	return h.Store != nil && auth.VisitorID(r) != ""
}

// load restores the conversation, starting (or resuming from the saved
// preference) when none is in progress. A page visit after a finished path
// also resumes, so a returning visitor is welcomed back at the
// resource-type step instead of seeing the old transcript.
func (h *Handler) load(ctx context.Context, r *http.Request, visit bool) (*session, error) {
	s := &session{visitorID: auth.VisitorID(r)}
	if !h.persistent(r) {
		f, err := h.Engine.Start(ctx, "", models.ChatPreference{})
		s.flow = f
		return s, err
	}

	doc, err := h.Store.Get(ctx, s.visitorID)
	if err != nil {
		return nil, err
	}
	if s.id, err = h.Store.ChatSessionID(ctx, s.visitorID); err != nil {
		return nil, err
	}
	if doc.ChatState != nil && !(visit && finished(doc)) {
		s.flow = chatflow.FromState(*doc.ChatState)
		return s, nil
	}
	f, err := h.Engine.Start(ctx, s.id, doc.Chat)
	s.flow = f
	if err != nil {
		return s, err
	}
	return s, h.save(ctx, r, s)
}

// finished reports whether the stored conversation got past the subject
// step with a saved path to resume from.
func finished(doc preferencesstore.Doc) bool {
	return doc.Chat.SubjectID != "" && chatflow.Step(doc.ChatState.Step) >= chatflow.StepResourceType
}

// save stores the conversation, and the path once it reaches a subject.
func (h *Handler) save(ctx context.Context, r *http.Request, s *session) error {
	if !h.persistent(r) {
		return nil
	}
	if err := h.Store.SaveChatState(ctx, s.visitorID, s.flow.State()); err != nil {
		return err
	}
	if s.flow.Complete() {
		return h.Store.SaveChatPreference(ctx, s.visitorID, s.flow.Preference())
	}
	return nil
}

// ServeChat renders GET /chatbot.
func (h *Handler) ServeChat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s, err := h.load(ctx, r, true)
	data := pageData{BaseVM: viewdata.NewBaseVM(w, r, "Ask CampusHub", "/")}
	if err != nil {
		h.Log.Warn("chatbot load failed", zap.Error(err))
		data.Error = "The assistant is unavailable right now. Please try again."
	}
	var f *chatflow.Flow
	if s != nil {
		f = s.flow
	}
	data.Chat = newConversation(f, data.CSRFToken, data.Error)
	templates.Render(w, r, "chatbot_page", data)
}

// HandleChoose handles POST /chatbot/choose. A choice that is no longer
// offered (a stale click) just redraws the conversation.
func (h *Handler) HandleChoose(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s, err := h.load(ctx, r, false)
	if err != nil {
		h.fail(w, r, "chatbot load failed", err)
		return
	}
	err = h.Engine.Choose(ctx, s.id, s.flow, r.FormValue("option"))
	switch {
	case errors.Is(err, chatflow.ErrUnknownOption):
	case err != nil:
		// The choice is not saved, so the visitor can pick it again.
		h.fail(w, r, "chatbot lookup failed", err)
		return
	default:
		if err := h.save(ctx, r, s); err != nil {
			h.Log.Warn("chatbot save failed", zap.Error(err))
		}
	}
	h.respond(w, r, s.flow)
}

// HandleReset handles POST /chatbot/reset: forget the path, start a new
// session id and greet again.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	s := &session{visitorID: auth.VisitorID(r), flow: chatflow.New()}
	if h.persistent(r) {
		id, err := h.Store.ResetChat(ctx, s.visitorID)
		if err != nil {
			h.fail(w, r, "chatbot reset failed", err)
			return
		}
		s.id = id
	}
	if err := h.Engine.Reset(ctx, s.id, s.flow); err != nil {
		h.fail(w, r, "chatbot reset failed", err)
		return
	}
	if err := h.save(ctx, r, s); err != nil {
		h.Log.Warn("chatbot save failed", zap.Error(err))
	}
	h.respond(w, r, s.flow)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, f *chatflow.Flow) {
	if !auth.IsHTMX(r) {
		http.Redirect(w, r, chatPath, http.StatusSeeOther)
		return
	}
	templates.RenderSnippet(w, "chatbot_conversation", newConversation(f, csrf.Token(r), ""))
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.Log.Warn(msg, zap.Error(err))
	const userMsg = "The assistant couldn't load that. Please try again."
	if auth.IsHTMX(r) {
		uierrors.RenderNotice(w, auth.FlashError, userMsg)
		return
	}
	http.Redirect(w, r, chatPath, http.StatusSeeOther)
}
