// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"crypto/sha256"
	"net/http"

	chatflow "github.com/dalemusser/campushub/internal/app/chatbot"
	catalogfeature "github.com/dalemusser/campushub/internal/app/features/catalog"
	chatbotfeature "github.com/dalemusser/campushub/internal/app/features/chatbot"
	errorsfeature "github.com/dalemusser/campushub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/campushub/internal/app/features/health"
	homefeature "github.com/dalemusser/campushub/internal/app/features/home"
	loginfeature "github.com/dalemusser/campushub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/campushub/internal/app/features/logout"
	taxonomyfeature "github.com/dalemusser/campushub/internal/app/features/taxonomy"
	walletfeature "github.com/dalemusser/campushub/internal/app/features/wallet"
	preferencesstore "github.com/dalemusser/campushub/internal/app/store/preferences"
	"github.com/dalemusser/campushub/internal/app/system/auth"
	"github.com/dalemusser/campushub/internal/app/system/ratelimit"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"github.com/dalemusser/campushub/internal/app/system/viewdata"
	"github.com/dalemusser/campushub/internal/app/taxonomy"
	"github.com/dalemusser/campushub/internal/app/upload"
	"github.com/dalemusser/campushub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// CampusHub initializes the template engine, applies CSRF, visitor and
// session middleware, and mounts one catalog router per resource kind plus
// the wallet, chatbot, taxonomy, login, logout, health and home features.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	viewdata.SetFlashSource(sessionMgr.Flashes)

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()
	prefs := preferencesstore.New(deps.MongoDatabase)
	taxonomySvc := taxonomy.NewService(deps.API, deps.Redis, appCfg.TaxonomyCacheTTL, logger)
	// A fresh process starts from the backend's current taxonomy.
	flushCtx, flushCancel := context.WithTimeout(context.Background(), timeouts.Short())
	if err := taxonomySvc.Invalidate(flushCtx); err != nil {
		logger.Warn("taxonomy cache flush failed", zap.Error(err))
	}
	flushCancel()

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)

	// Health check endpoint for load balancers and orchestrators. It sits
	// outside CSRF and sessions.
	var redisPinger healthfeature.RedisPinger
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}
	healthHandler := healthfeature.NewHandler(deps.MongoClient, redisPinger, deps.API, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(r chi.Router) {
		if !secure {
			r.Use(markPlaintext)
		}
		r.Use(csrfProtect(appCfg.CSRFKey, secure))
		r.Use(sessionMgr.Visitor)
		r.Use(sessionMgr.LoadSessionUser)

		// Public pages
		homeHandler := homefeature.NewHandler(logger)
		r.Mount("/", homefeature.Routes(homeHandler))

		// Authentication
		loginLimiter := ratelimit.NewLoginLimiter()
		onShutdown(loginLimiter.Close)
		loginHandler := loginfeature.NewHandler(deps.API, sessionMgr, errLog, loginLimiter, logger)
		r.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(deps.API, sessionMgr, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		// Error pages
		r.Get("/forbidden", errorsHandler.Forbidden)
		r.Get("/unauthorized", errorsHandler.Unauthorized)

		// Resource catalog: one router per kind
		catalogDeps := catalogfeature.Deps{
			API: deps.API,
			Uploader: &upload.Uploader{
				Store:       deps.API,
				CDNBase:     appCfg.CDNBaseURL,
				PutAttempts: appCfg.UploadPutAttempts,
				Log:         logger,
			},
			Taxonomy: taxonomySvc,
			Prefs:    prefs,
			Sessions: sessionMgr,
			ErrLog:   errLog,
			Log:      logger,
		}
		for _, k := range models.Kinds {
			h := catalogfeature.NewHandler(k, catalogDeps)
			r.Mount("/"+k.Name, catalogfeature.Routes(h, sessionMgr))
		}

		// Course/branch/subject selects
		taxonomyHandler := taxonomyfeature.NewHandler(taxonomySvc, prefs, logger)
		r.Mount("/taxonomy", taxonomyfeature.Routes(taxonomyHandler))

		// Wallet
		walletHandler := walletfeature.NewHandler(deps.API, sessionMgr, errLog, logger)
		onShutdown(walletHandler.Close)
		r.Mount("/wallet", walletfeature.Routes(walletHandler, sessionMgr))

		// Chatbot
		var tracker *chatflow.Tracker
		if appCfg.ChatbotTrack {
			tracker = chatflow.NewTracker(deps.API, timeouts.Short(), logger)
			onShutdown(tracker.Wait)
		}
		chatbotHandler := chatbotfeature.NewHandler(&chatflow.Engine{API: deps.API, Tracker: tracker}, prefs, logger)
		r.Mount("/chatbot", chatbotfeature.Routes(chatbotHandler))
	})

	return r, nil
}

// csrfProtect guards every unsafe request. HTMX sends the token in the
// X-CSRF-Token header set on <body>; plain forms post it as a field.
func csrfProtect(key string, secure bool) func(http.Handler) http.Handler {
	sum := sha256.Sum256([]byte("campushub/csrf/" + key))
	return csrf.Protect(sum[:],
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			errorsfeature.RenderForbidden(w, r, "Your form expired. Please reload the page and try again.", "")
		})),
	)
}

// markPlaintext tells csrf the request came over plain HTTP (dev only), so
// it skips the HTTPS-only Referer check.
func markPlaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
