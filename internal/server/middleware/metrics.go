package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jidcheck/jidcheck/internal/metrics"
	"github.com/jidcheck/jidcheck/internal/observability"
)

// statusRecorder remembers the status code and counts body bytes.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.written += int64(n)
	return n, err
}

// RouteLabel returns the chi pattern that served r, or metrics.UnmatchedRoute
// when the router fell through to its not-found handler. It is only
// meaningful after routing ran.
func RouteLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return metrics.UnmatchedRoute
	}
	switch pattern := rctx.RoutePattern(); pattern {
	case "", "/*":
		return metrics.UnmatchedRoute
	default:
		return pattern
	}
}

// quietRoutes are polled by scrapers and orchestrators; their completions
// are logged at debug.
var quietRoutes = map[string]bool{
	"/metrics":        true,
	"/health":         true,
	"/health/live":    true,
	"/health/ready":   true,
	"/health/startup": true,
}

// RequestMetrics records metrics.RecordHTTPRequest for every request and
// logs its completion. Identifiers are never logged; only the route is.
func RequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		route := RouteLabel(r)
		requestBytes := r.ContentLength
		if requestBytes < 0 {
			requestBytes = 0
		}

		metrics.RecordHTTPRequest(metrics.HTTPRequest{
			Method:        r.Method,
			Route:         route,
			Status:        rec.status,
			Duration:      duration,
			RequestBytes:  requestBytes,
			ResponseBytes: rec.written,
		})

		logger := observability.ServerLogger
		if logger == nil {
			return
		}
		log := logger.Info
		if quietRoutes[route] && rec.status < 400 {
			log = logger.Debug
		}
		log("HTTP request completed",
			zap.String("method", r.Method),
			zap.String("endpoint", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", duration),
			zap.Int64("response_size", rec.written),
			zap.String("request_id", GetRequestID(r.Context())))
	})
}
