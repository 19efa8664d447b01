package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/stremio-addons/trakt-actions/pkg/cache"
	"github.com/stremio-addons/trakt-actions/pkg/dispatch"
	"github.com/stremio-addons/trakt-actions/pkg/format"
	"github.com/stremio-addons/trakt-actions/pkg/kvstore"
	"github.com/stremio-addons/trakt-actions/pkg/session"
	"github.com/stremio-addons/trakt-actions/pkg/trakt"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/resolver.go -pkg mocks -skip-ensure -fmt goimports . SessionResolver
//go:generate moq -out mocks/queue.go -pkg mocks -skip-ensure -fmt goimports . ActionQueue
//go:generate moq -out mocks/labeler.go -pkg mocks -skip-ensure -fmt goimports . Labeler
//go:generate moq -out mocks/oauth.go -pkg mocks -skip-ensure -fmt goimports . OAuthClient
//go:generate moq -out mocks/ratings.go -pkg mocks -skip-ensure -fmt goimports . RatingSource
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . TokenStore

// Server represents HTTP server instance
type Server struct {
	config   ConfigProvider
	resolver SessionResolver
	queue    ActionQueue
	labeler  Labeler
	oauth    OAuthClient
	ratings  RatingSource
	caches   *cache.Service
	version  string
	debug    bool

	// anti-forgery state values and submitted-action tracking, both
	// TTL-bounded and purged via the cleanup endpoint
	states  *cache.TTLCache[string]
	pending *cache.TTLCache[string]

	newKV func(baseURL, token string) TokenStore

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetBaseURL() string
	GetDecoyURL() string
}

// SessionResolver turns opaque config strings into sessions, nil when no
// usable session exists
type SessionResolver interface {
	Resolve(ctx context.Context, configStr string) *session.Session
}

// ActionQueue accepts detached action tasks
type ActionQueue interface {
	Submit(task dispatch.Task) bool
	Pending() int
}

// Labeler renders display strings for action entries
type Labeler interface {
	Label(ctx context.Context, req format.Request) string
}

// OAuthClient covers the third-party token flow
type OAuthClient interface {
	AuthorizeURL(redirectURI, state string) string
	ExchangeCode(ctx context.Context, code, redirectURI string) (trakt.TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (trakt.TokenSet, error)
}

// RatingSource fetches the user's own rating for a media item
type RatingSource interface {
	UserRating(ctx context.Context, token string, ref trakt.MediaRef) (int, error)
}

// TokenStore is the remote key-value store surface the server touches
type TokenStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SelfTest(ctx context.Context) error
}

// New initializes a new server instance
func New(cfg ConfigProvider, resolver SessionResolver, queue ActionQueue, labeler Labeler,
	oauth OAuthClient, ratings RatingSource, caches *cache.Service, version string, debug bool) *Server {
	s := &Server{
		config:   cfg,
		resolver: resolver,
		queue:    queue,
		labeler:  labeler,
		oauth:    oauth,
		ratings:  ratings,
		caches:   caches,
		version:  version,
		debug:    debug,
		states:   cache.New[string](10 * time.Minute),
		pending:  cache.New[string](time.Hour),
		newKV:    func(baseURL, token string) TokenStore { return kvstore.New(baseURL, token) },
		router:   routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("trakt-actions", "stremio-addons", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024)) // 64KB, all requests are small
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /manifest.json", s.manifestHandler)
	s.router.HandleFunc("GET /configured/{config}/manifest.json", s.configuredManifestHandler)
	s.router.HandleFunc("GET /configured/{config}/stream/{type}/{id}", s.streamHandler)
	s.router.HandleFunc("GET /configured/{config}/trakt-action", s.actionHandler)

	s.router.Mount("/oauth").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /login", s.oauthLoginHandler)
		r.HandleFunc("GET /callback", s.oauthCallbackHandler)
	})

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("POST /cleanup", s.cleanupHandler)
		r.HandleFunc("POST /refresh", s.refreshHandler)
		r.HandleFunc("GET /kv/selftest", s.kvSelfTestHandler)
	})
}
