// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for CampusHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, api_base_url, etc.
//   - Environment variables: CAMPUSHUB_MONGO_URI, CAMPUSHUB_API_BASE_URL, etc.
//   - Command-line flags: --mongo_uri, --api_base_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "campushub", Desc: "MongoDB database name"},

	// Taxonomy cache
	{Name: "redis_url", Default: "", Desc: "Redis URL for the taxonomy cache (blank disables caching)"},
	{Name: "taxonomy_cache_ttl", Default: "10m", Desc: "How long cached course/branch/subject lists live"},

	// Sessions and forms
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "campushub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},
	{Name: "csrf_key", Default: "dev-only-csrf-key-change-me-0123456789", Desc: "CSRF token secret (must be strong in production)"},

	// Backend
	{Name: "api_base_url", Default: "http://localhost:5000/api/v1", Desc: "Backend REST API base URL"},
	{Name: "cdn_base_url", Default: "http://localhost:9000/campushub", Desc: "Public base URL of uploaded files"},
	{Name: "upload_put_attempts", Default: 3, Desc: "Attempts for the direct upload PUT"},

	// Chatbot
	{Name: "chatbot_track", Default: true, Desc: "Send chatbot step analytics to the backend"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CAMPUSHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CAMPUSHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		RedisURL:         appValues.String("redis_url"),
		TaxonomyCacheTTL: appValues.Duration("taxonomy_cache_ttl", 10*time.Minute),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),
		CSRFKey:       appValues.String("csrf_key"),

		APIBaseURL:        appValues.String("api_base_url"),
		CDNBaseURL:        appValues.String("cdn_base_url"),
		UploadPutAttempts: appValues.Int("upload_put_attempts"),

		ChatbotTrack: appValues.Bool("chatbot_track"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// URLs are checked here so a typo fails at boot, not on the first request.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if err := absoluteHTTPURL(appCfg.APIBaseURL); err != nil {
		return fmt.Errorf("invalid api_base_url: %w", err)
	}
	if err := absoluteHTTPURL(appCfg.CDNBaseURL); err != nil {
		return fmt.Errorf("invalid cdn_base_url: %w", err)
	}
	if appCfg.RedisURL != "" {
		if u, err := url.Parse(appCfg.RedisURL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			return fmt.Errorf("invalid redis_url %q: want redis:// or rediss://", appCfg.RedisURL)
		}
	}
	if appCfg.CSRFKey == "" {
		return fmt.Errorf("csrf_key must be set")
	}
	if appCfg.UploadPutAttempts < 1 {
		return fmt.Errorf("upload_put_attempts must be at least 1, got %d", appCfg.UploadPutAttempts)
	}
	return nil
}

func absoluteHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}
