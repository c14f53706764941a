// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	apihandler "github.com/newthinker/chatrelay/internal/api/handler/api"
	"github.com/newthinker/chatrelay/internal/api/handler/web"
	"github.com/newthinker/chatrelay/internal/api/middleware"
	"github.com/newthinker/chatrelay/internal/api/response"
	"github.com/newthinker/chatrelay/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Route paths served by the relay.
const (
	PathHealth = "/health"
	PathIndex  = "/"
	PathChat   = "/chat"
	PathStream = "/chat/stream"
)

// Server represents the HTTP server for the chat relay
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	router     chi.Router
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	CORSEnabled    bool
	MaxBodyBytes   int64
	MetricsEnabled bool
	MetricsPath    string
	TemplatesDir   string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

// Dependencies holds the services the server routes to.
type Dependencies struct {
	Chat apihandler.ChatService
	// ServiceKey returns the shared secret for chat routes. It is read on
	// every request; nil or empty disables auth.
	ServiceKey func() string
	// Metrics is optional.
	Metrics *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Chat == nil {
		return nil, fmt.Errorf("chat service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{logger: logger}

	router, err := s.buildRouter(cfg, deps)
	if err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	s.router = router

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  orDefault(cfg.ReadTimeout, 15*time.Second),
		WriteTimeout: orDefault(cfg.WriteTimeout, 2*time.Minute),
		IdleTimeout:  orDefault(cfg.IdleTimeout, 60*time.Second),
	}

	return s, nil
}

// buildRouter configures all HTTP routes
func (s *Server) buildRouter(cfg Config, deps Dependencies) (chi.Router, error) {
	webHandler, err := web.NewHandler(cfg.TemplatesDir, web.PageData{
		Title:      "Groq Chat Relay",
		ChatPath:   PathChat,
		StreamPath: PathStream,
	})
	if err != nil {
		return nil, fmt.Errorf("creating web handler: %w", err)
	}

	var streams apihandler.StreamTracker
	if deps.Metrics != nil {
		streams = deps.Metrics
	}
	chatHandler := apihandler.NewChatHandler(deps.Chat, streams, cfg.MaxBodyBytes, s.logger)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(metrics.LoggingMiddleware(s.logger))
	if deps.Metrics != nil {
		r.Use(metrics.HTTPMiddleware(deps.Metrics))
	}
	if cfg.CORSEnabled {
		r.Use(middleware.CORS())
	}

	r.Get(PathHealth, s.handleHealth)
	r.Get(PathIndex, webHandler.Index)

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(deps.ServiceKey))
		r.Post(PathChat, chatHandler.Chat)
		r.Post(PathStream, chatHandler.Stream)
	})

	if cfg.MetricsEnabled && deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	return r, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
