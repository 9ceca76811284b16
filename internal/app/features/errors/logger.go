// internal/app/features/errors/logger.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/backend"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and renders a friendly
// page in the same call, so handlers can `return` right after.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger returns an ErrorLogger writing to logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
}

// LogServerError logs at error level and renders a 500 page with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Error(msg, e.fields(r, err)...)
	render(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg, e.fields(r, err)...)
	render(w, r, http.StatusBadRequest, "Bad request", userMsg, backURL)
}

// LogBackendError maps a backend failure to a page: 404 for missing
// records, the sign-in page for an expired backend session, 502 otherwise.
// The backend's own message is shown when it sent one.
func (e *ErrorLogger) LogBackendError(w http.ResponseWriter, r *http.Request, msg string, err error, fallback, backURL string) {
	switch {
	case stderrors.Is(err, backend.ErrNotFound):
		e.Log.Info(msg, e.fields(r, err)...)
		RenderNotFound(w, r, backend.UserMessage(err, fallback), backURL)
	case stderrors.Is(err, backend.ErrUnauthorized):
		e.Log.Info(msg, e.fields(r, err)...)
		RenderUnauthorized(w, r, "")
	default:
		e.Log.Error(msg, e.fields(r, err)...)
		render(w, r, http.StatusBadGateway, "Something went wrong", backend.UserMessage(err, fallback), backURL)
	}
}
