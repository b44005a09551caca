package server

import (
	"github.com/fulmenhq/gofulmen/signals"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jidcheck/jidcheck/internal/observability"
	"github.com/jidcheck/jidcheck/internal/server/handlers"
)

func (s *Server) registerRoutes() {
	if s.opts.Health {
		s.router.Get("/health", s.health.HealthHandler)
		s.router.Get("/health/live", s.health.ProbeHandler("live"))
		s.router.Get("/health/ready", s.health.ProbeHandler("ready"))
		s.router.Get("/health/startup", s.health.ProbeHandler("startup"))
	}

	s.router.Get("/version", handlers.VersionHandler)
	s.router.Get("/metrics", MetricsHandler)

	check := handlers.NewCheckHandler(s.opts.MaxLength, s.opts.Locale)
	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/check", check.ServeHTTP)
		r.Post("/check", check.ServeHTTP)
	})

	s.registerAdminEndpoint()
}

// registerAdminEndpoint mounts the gofulmen signal endpoint when an admin
// token is configured.
func (s *Server) registerAdminEndpoint() {
	logger := observability.ServerLogger
	if s.opts.AdminToken == "" {
		if logger != nil {
			logger.Debug("Admin signal endpoint disabled (no admin token set)")
		}
		return
	}

	handler := signals.NewHTTPHandler(signals.HTTPConfig{
		TokenAuth: s.opts.AdminToken,
		RateLimit: 10,
		RateBurst: 5,
	})
	s.router.Post("/admin/signal", handler.ServeHTTP)

	if logger != nil {
		logger.Info("Admin signal endpoint enabled",
			zap.String("path", "/admin/signal"),
			zap.String("rate_limit", "10/min, burst 5"))
	}
}
