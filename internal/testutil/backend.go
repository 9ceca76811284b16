package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dalemusser/campushub/internal/app/backend"
	"github.com/go-chi/chi/v5"
)

// FakeBackend is an httptest server standing in for the backend REST API.
// Register routes on Router before issuing requests; every request is
// recorded.
type FakeBackend struct {
	Router *chi.Mux
	Server *httptest.Server
	Client *backend.Client

	mu       sync.Mutex
	requests []*http.Request
}

// NewFakeBackend starts a fake backend under /api/v1 and returns it with a
// client pointed at it. It is closed when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{Router: chi.NewRouter()}
	root := chi.NewRouter()
	root.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fb.mu.Lock()
			fb.requests = append(fb.requests, r.Clone(r.Context()))
			fb.mu.Unlock()
			next.ServeHTTP(w, r)
		})
	})
	root.Mount("/api/v1", fb.Router)
	fb.Server = httptest.NewServer(root)
	t.Cleanup(fb.Server.Close)

	c, err := backend.New(fb.Server.URL+"/api/v1", fb.Server.Client(), nil)
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}
	fb.Client = c
	return fb
}

// Requests returns the recorded requests.
func (fb *FakeBackend) Requests() []*http.Request {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]*http.Request(nil), fb.requests...)
}

// Count returns how many recorded requests hit path (relative to /api/v1).
func (fb *FakeBackend) Count(method, path string) int {
	n := 0
	for _, r := range fb.Requests() {
		if r.Method == method && r.URL.Path == "/api/v1"+path {
			n++
		}
	}
	return n
}

// JSON writes v wrapped in the backend's {success, data} envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": status < 400, "data": data})
}

// Fail writes a backend error body with message.
func Fail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}
