// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration (ports, TLS, logging level,
// CORS and body limits live in CoreConfig).
//
// The struct is passed to most lifecycle hooks, so any configuration needed
// during startup, request handling, or shutdown should live here.
type AppConfig struct {
	// MongoDB holds visitor preferences only; the backend API owns every
	// other record.
	MongoURI      string
	MongoDatabase string

	// Redis caches taxonomy lookups. Blank disables the cache.
	RedisURL         string
	TaxonomyCacheTTL time.Duration

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: campushub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Session cookie lifetime

	CSRFKey string // Secret for CSRF tokens

	// Backend REST API and the public CDN in front of its bucket
	APIBaseURL string // e.g. https://api.campushub.in/api/v1
	CDNBaseURL string // e.g. https://cdn.campushub.in

	UploadPutAttempts int // attempts for the direct-to-bucket PUT

	// ChatbotTrack enables the chatbot analytics beacon.
	ChatbotTrack bool
}
