package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusClass(t *testing.T) {
	for status, want := range map[int]string{200: "2xx", 302: "3xx", 404: "4xx", 503: "5xx", 0: "unknown", 999: "unknown"} {
		assert.Equal(t, want, StatusClass(status), "status %d", status)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	collector := setupTelemetry(t)

	RecordHTTPRequest(HTTPRequest{Method: "GET", Status: 404, Duration: time.Millisecond})

	requests := collector.GetMetricsByName(HTTPRequestsTotal)
	require.Len(t, requests, 1)
	assert.Equal(t, UnmatchedRoute, requests[0].Tags["endpoint"], "an empty route is labelled unmatched")
	assert.Equal(t, 0, collector.CountMetricsByName(HTTPRequestBodyBytes))
	assert.Equal(t, 1, collector.CountMetricsByName(HTTPResponseBytes))
	assert.Equal(t, 1, collector.CountMetricsByName(HTTPErrorsTotal))
}
