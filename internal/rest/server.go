package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KilimcininKorOglu/kimlik/internal/config"
	"github.com/KilimcininKorOglu/kimlik/internal/logging"
	"github.com/KilimcininKorOglu/kimlik/internal/search"
	"github.com/KilimcininKorOglu/kimlik/internal/store"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// ServerConfig holds REST server configuration.
type ServerConfig struct {
	Address      string
	JWTSecret    string
	TokenTTL     time.Duration
	Issuer       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	RateLimit    int
	CORSOrigins  []string
	MaxLimit     int
}

// DefaultServerConfig returns default configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:      ":8080",
		TokenTTL:     time.Hour,
		Issuer:       "kimlik",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		RateLimit:    100,
		CORSOrigins:  []string{"*"},
		MaxLimit:     1000,
	}
}

// ServerConfigFrom derives the REST settings from the service configuration.
func ServerConfigFrom(cfg *config.Config) *ServerConfig {
	sc := DefaultServerConfig()
	sc.Address = cfg.Server.Address
	sc.ReadTimeout = cfg.Server.ReadTimeout
	sc.WriteTimeout = cfg.Server.WriteTimeout
	sc.RateLimit = cfg.Server.RateLimit
	sc.CORSOrigins = cfg.Server.CORSOrigins
	sc.JWTSecret = cfg.Auth.JWTSecret
	sc.TokenTTL = cfg.Auth.TokenTTL
	sc.Issuer = cfg.Auth.Issuer
	sc.MaxLimit = cfg.Search.MaxLimit
	return sc
}

// Server is the REST API server.
type Server struct {
	config   *ServerConfig
	store    store.Store
	logger   logging.Logger
	auth     *Authenticator
	handlers *Handlers
	engine   *gin.Engine
	server   *http.Server
	limiter  *RateLimiter

	cleanupCancel context.CancelFunc
	cleanupWg     sync.WaitGroup
}

// NewServer creates a new REST server.
func NewServer(cfg *ServerConfig, st store.Store, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}

	auth := NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL, cfg.Issuer)
	searcher := search.NewSearcher(search.Config{MaxLimit: cfg.MaxLimit}, logger)
	handlers := NewHandlers(st, searcher, logger)

	var limiter *RateLimiter
	if cfg.RateLimit > 0 {
		limiter = NewRateLimiter(cfg.RateLimit)
	}
	engine := newRouter(cfg, auth, limiter, handlers)

	s := &Server{
		config:   cfg,
		store:    st,
		logger:   logger,
		auth:     auth,
		handlers: handlers,
		engine:   engine,
		limiter:  limiter,
		server: &http.Server{
			Addr:         cfg.Address,
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
	if limiter != nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.cleanupCancel = cancel
		limiter.startCleanup(ctx, &s.cleanupWg, rateLimitCleanupInterval, rateLimitStaleAfter)
	}
	return s
}

// SetConfigManager exposes the configuration endpoints.
func (s *Server) SetConfigManager(m *config.ConfigManager) {
	s.handlers.SetConfigManager(m)
}

// Authenticator returns the token authenticator used by the server.
func (s *Server) Authenticator() *Authenticator {
	return s.auth
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ApplyConfig updates the settings that can change without a restart:
// token lifetime and the search page limit.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.auth.SetTokenTTL(cfg.Auth.TokenTTL)
	s.handlers.SetSearcher(search.NewSearcher(search.Config{MaxLimit: cfg.Search.MaxLimit}, s.logger))
	s.logger.Info("REST settings updated",
		"token_ttl", cfg.Auth.TokenTTL.String(),
		"max_limit", cfg.Search.MaxLimit,
	)
}

// Serve accepts connections on l until Stop is called.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("REST server started", "address", l.Addr().String())

	if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the REST server.
func (s *Server) Stop(ctx context.Context) error {
	if s.cleanupCancel != nil {
		s.cleanupCancel()
		s.cleanupWg.Wait()
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	s.logger.Info("REST server stopped")
	return nil
}
