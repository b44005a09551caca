package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fulmenhq/gofulmen/telemetry"
	telemetrytesting "github.com/fulmenhq/gofulmen/telemetry/testing"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jidcheck/jidcheck/internal/metrics"
	"github.com/jidcheck/jidcheck/internal/observability"
)

func setupTelemetry(t *testing.T) *telemetrytesting.FakeCollector {
	t.Helper()

	collector := telemetrytesting.NewFakeCollector()
	sys, err := telemetry.NewSystem(&telemetry.Config{Enabled: true, Emitter: collector})
	require.NoError(t, err)

	original := observability.TelemetrySystem
	observability.TelemetrySystem = sys
	t.Cleanup(func() { observability.TelemetrySystem = original })

	return collector
}

// checkRouter mirrors the server layout: a /v1 subrouter and a health endpoint.
func checkRouter(check http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestMetrics)
	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/check", check)
		r.Post("/check", check)
	})
	return r
}

func onlyMetric(t *testing.T, collector *telemetrytesting.FakeCollector, name string) telemetrytesting.RecordedMetric {
	t.Helper()
	recorded := collector.GetMetricsByName(name)
	require.Len(t, recorded, 1, "expected one %s sample", name)
	return recorded[0]
}

func TestRequestMetrics_LabelsCheckRoute(t *testing.T) {
	collector := setupTelemetry(t)
	handler := checkRouter(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"has_flagged":true}`))
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/check?id=us%D0%B5r@jabber.ru", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	requests := onlyMetric(t, collector, metrics.HTTPRequestsTotal)
	assert.Equal(t, map[string]string{
		"method":   "GET",
		"endpoint": "/v1/check",
		"status":   "200",
		"class":    "2xx",
	}, requests.Tags)

	response := onlyMetric(t, collector, metrics.HTTPResponseBytes)
	assert.EqualValues(t, len(`{"has_flagged":true}`), response.Value)
	assert.Equal(t, "/v1/check", response.Tags["endpoint"])

	assert.Equal(t, 0, collector.CountMetricsByName(metrics.HTTPErrorsTotal))
	assert.Equal(t, 0, collector.CountMetricsByName(metrics.HTTPRequestBodyBytes), "GET has no body")
}

func TestRequestMetrics_RecordsBodySizeForPost(t *testing.T) {
	collector := setupTelemetry(t)
	handler := checkRouter(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	body := `{"id":""}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/check", strings.NewReader(body)))

	size := onlyMetric(t, collector, metrics.HTTPRequestBodyBytes)
	assert.EqualValues(t, len(body), size.Value)

	errs := onlyMetric(t, collector, metrics.HTTPErrorsTotal)
	assert.Equal(t, "/v1/check", errs.Tags["endpoint"])
	assert.Equal(t, "400", errs.Tags["status"])
	assert.Equal(t, "client_error", errs.Tags["error_type"])
}

func TestRequestMetrics_UnmatchedPathsShareOneLabel(t *testing.T) {
	collector := setupTelemetry(t)
	handler := checkRouter(func(w http.ResponseWriter, r *http.Request) {})

	for _, path := range []string{"/wp-login.php", "/api/users/123", "/v2/check"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	recorded := collector.GetMetricsByName(metrics.HTTPRequestsTotal)
	require.Len(t, recorded, 3)
	for _, metric := range recorded {
		assert.Equal(t, metrics.UnmatchedRoute, metric.Tags["endpoint"])
		assert.Equal(t, "4xx", metric.Tags["class"])
	}
}

func TestRequestMetrics_ServerError(t *testing.T) {
	collector := setupTelemetry(t)
	handler := checkRouter(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/check?id=x", nil))

	errs := onlyMetric(t, collector, metrics.HTTPErrorsTotal)
	assert.Equal(t, "server_error", errs.Tags["error_type"])
	assert.Equal(t, "5xx", onlyMetric(t, collector, metrics.HTTPRequestDuration).Tags["class"])
}

func TestRequestMetrics_KeepsRequestID(t *testing.T) {
	setupTelemetry(t)
	handler := checkRouter(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-7", rec.Header().Get(RequestIDHeader))
}

func TestRequestMetrics_WithTelemetryDisabled(t *testing.T) {
	original := observability.TelemetrySystem
	observability.TelemetrySystem = nil
	t.Cleanup(func() { observability.TelemetrySystem = original })

	handler := checkRouter(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/check", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRouteLabel_WithoutRouter(t *testing.T) {
	assert.Equal(t, metrics.UnmatchedRoute, RouteLabel(httptest.NewRequest(http.MethodGet, "/v1/check", nil)))
}
