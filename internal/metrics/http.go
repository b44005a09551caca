package metrics

import (
	"strconv"
	"time"

	"github.com/jidcheck/jidcheck/internal/observability"
)

// HTTP metric names.
const (
	HTTPRequestsTotal    = "http_requests_total"
	HTTPRequestDuration  = "http_request_duration_ms"
	HTTPRequestBodyBytes = "http_request_size_bytes"
	HTTPResponseBytes    = "http_response_size_bytes"
	HTTPErrorsTotal      = "http_errors_total"
)

// UnmatchedRoute labels requests no route accepted, so probing for random
// paths cannot grow label cardinality.
const UnmatchedRoute = "unmatched"

// HTTPRequest describes one served request.
type HTTPRequest struct {
	Method        string
	Route         string
	Status        int
	Duration      time.Duration
	RequestBytes  int64
	ResponseBytes int64
}

// StatusClass buckets a status code as "2xx", "4xx" and so on.
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}

// RecordHTTPRequest emits the request counter, latency and body sizes, plus
// an error counter for 4xx and 5xx responses.
func RecordHTTPRequest(req HTTPRequest) {
	sys := observability.TelemetrySystem
	if sys == nil {
		return
	}

	route := req.Route
	if route == "" {
		route = UnmatchedRoute
	}
	class := StatusClass(req.Status)

	_ = sys.Counter(HTTPRequestsTotal, 1, map[string]string{
		"method":   req.Method,
		"endpoint": route,
		"status":   strconv.Itoa(req.Status),
		"class":    class,
	})
	_ = sys.Histogram(HTTPRequestDuration, req.Duration, map[string]string{
		"method":   req.Method,
		"endpoint": route,
		"class":    class,
	})

	sizeTags := map[string]string{"method": req.Method, "endpoint": route}
	if req.RequestBytes > 0 {
		_ = sys.Gauge(HTTPRequestBodyBytes, float64(req.RequestBytes), sizeTags)
	}
	_ = sys.Gauge(HTTPResponseBytes, float64(req.ResponseBytes), sizeTags)

	if req.Status >= 400 {
		errorType := "client_error"
		if req.Status >= 500 {
			errorType = "server_error"
		}
		_ = sys.Counter(HTTPErrorsTotal, 1, map[string]string{
			"endpoint":   route,
			"status":     strconv.Itoa(req.Status),
			"error_type": errorType,
		})
	}
}
