// Package server exposes identifier checks over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	apperrors "github.com/jidcheck/jidcheck/internal/errors"
	"github.com/jidcheck/jidcheck/internal/observability"
	"github.com/jidcheck/jidcheck/internal/server/handlers"
	servermw "github.com/jidcheck/jidcheck/internal/server/middleware"
)

// Options tunes the HTTP server. Zero values select the defaults.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// MaxLength is the identifier length limit for /v1/check.
	MaxLength int
	// Locale is the default report wording.
	Locale string
	// Health enables the /health endpoints.
	Health bool
	// Version is reported by the aggregate health endpoint.
	Version string
	// AdminToken enables POST /admin/signal when set.
	AdminToken string
}

func (o Options) withDefaults() Options {
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 30 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 30 * time.Second
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = 120 * time.Second
	}
	if o.Version == "" {
		o.Version = "dev"
	}
	return o
}

// Server is the jidcheck HTTP server.
type Server struct {
	router *chi.Mux
	server *http.Server
	health *handlers.HealthManager
	opts   Options
	host   string
	port   int
}

// New creates a server listening on host:port once started.
func New(host string, port int, opts Options) *Server {
	opts = opts.withDefaults()

	r := chi.NewRouter()
	r.Use(middleware.RealIP)

	// RequestID first for correlation, then metrics, then panic recovery.
	r.Use(servermw.RequestID)
	r.Use(servermw.RequestMetrics)
	r.Use(servermw.Recovery)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		HandleError(w, req, apperrors.NewNotFoundError("The requested resource was not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		HandleError(w, req, apperrors.NewMethodNotAllowedError("The requested method is not allowed for this resource"))
	})

	s := &Server{
		router: r,
		health: handlers.NewHealthManager(opts.Version),
		opts:   opts,
		host:   host,
		port:   port,
	}
	s.health.RegisterChecker("classifier", handlers.ClassifierChecker)

	handlers.SetHTTPErrorResponder(HandleError)
	s.registerRoutes()

	return s
}

// Start listens and serves until Shutdown. It returns http.ErrServerClosed
// after a graceful shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}

	if logger := observability.ServerLogger; logger != nil {
		logger.Info("Starting HTTP server",
			zap.String("addr", addr),
			zap.Duration("read_timeout", s.opts.ReadTimeout),
			zap.Duration("write_timeout", s.opts.WriteTimeout))
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if logger := observability.ServerLogger; logger != nil {
		logger.Info("Shutting down HTTP server")
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Health returns the health manager so callers can register checkers.
func (s *Server) Health() *handlers.HealthManager {
	return s.health
}

func (s *Server) Port() int {
	return s.port
}
