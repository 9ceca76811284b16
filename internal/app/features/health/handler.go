package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// MongoPinger is satisfied by *mongo.Client.
type MongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// RedisPinger is satisfied by *redis.Client.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// BackendPinger is satisfied by *backend.Client.
type BackendPinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks. Redis is optional.
type Handler struct {
	Mongo   MongoPinger
	Redis   RedisPinger
	Backend BackendPinger
	Log     *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(mongo MongoPinger, rdb RedisPinger, api BackendPinger, logger *zap.Logger) *Handler {
	return &Handler{
		Mongo:   mongo,
		Redis:   rdb,
		Backend: api,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Backend  string `json:"backend"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "cache":"connected", "backend":"reachable" }
//
// A Redis failure only degrades the status (taxonomy lookups fall through
// to the backend). Mongo or backend failure answers 503.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
		Cache:    "disabled",
		Backend:  "reachable",
	}

	if err := h.Mongo.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		resp.Status, resp.Database = "error", "disconnected"
		resp.Message, resp.Error = "Database unavailable", err.Error()
	}

	if h.Backend != nil {
		if err := h.Backend.Ping(ctx); err != nil {
			h.Log.Error("health-check: backend ping failed", zap.Error(err))
			resp.Backend = "unreachable"
			if resp.Status == "ok" {
				resp.Status, resp.Message, resp.Error = "error", "Backend unavailable", err.Error()
			}
		}
	}

	if h.Redis != nil {
		resp.Cache = "connected"
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			h.Log.Warn("health-check: redis ping failed", zap.Error(err))
			resp.Cache = "disconnected"
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
		}
	}

	if resp.Status == "error" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
