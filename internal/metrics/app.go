package metrics

import (
	"time"

	"github.com/jidcheck/jidcheck/internal/observability"
)

// Metric names. The exporter adds the service namespace prefix.
const (
	ChecksTotal            = "checks_total"
	FlaggedCharactersTotal = "flagged_characters_total"
	RejectedInputsTotal    = "rejected_inputs_total"
	CheckDuration          = "check_duration_ms"

	BotUpdatesTotal    = "bot_updates_total"
	BotPollErrorsTotal = "bot_poll_errors_total"
	BotRepliesTotal    = "bot_replies_total"

	HealthCheckTotal    = "app_health_check_total"
	HealthCheckDuration = "app_health_check_duration_ms"

	ServerStartTime = "app_server_start_time_seconds"
)

// Check sources.
const (
	SourceCLI = "cli"
	SourceAPI = "api"
	SourceBot = "bot"
)

// RecordCheck records one completed identifier check.
func RecordCheck(source string, flaggedCount int, duration time.Duration) {
	sys := observability.TelemetrySystem
	if sys == nil {
		return
	}

	result := "clean"
	if flaggedCount > 0 {
		result = "flagged"
	}

	_ = sys.Counter(ChecksTotal, 1, map[string]string{
		"source": source,
		"result": result,
	})
	if flaggedCount > 0 {
		_ = sys.Counter(FlaggedCharactersTotal, float64(flaggedCount), map[string]string{
			"source": source,
		})
	}
	_ = sys.Histogram(CheckDuration, duration, map[string]string{
		"source": source,
	})
}

// RecordRejection records an identifier refused by the input policy.
func RecordRejection(source string, reason string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(RejectedInputsTotal, 1, map[string]string{
			"source": source,
			"reason": reason,
		})
	}
}

// RecordBotUpdate records a received update by kind (command, text, ignored).
func RecordBotUpdate(kind string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(BotUpdatesTotal, 1, map[string]string{
			"kind": kind,
		})
	}
}

// RecordBotReply records the outcome of a sendMessage call.
func RecordBotReply(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(BotRepliesTotal, 1, map[string]string{
			"status": status,
		})
	}
}

// RecordBotPollError records a failed getUpdates call.
func RecordBotPollError() {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(BotPollErrorsTotal, 1, nil)
	}
}

// RecordHealthCheck records a health check execution.
func RecordHealthCheck(checkName string, healthy bool, duration time.Duration) {
	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(HealthCheckTotal, 1, map[string]string{
			"check":  checkName,
			"status": status,
		})
		_ = observability.TelemetrySystem.Histogram(HealthCheckDuration, duration, map[string]string{
			"check": checkName,
		})
	}
}

// SetServerStartTime records the server start time as a Unix timestamp.
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(ServerStartTime, float64(timestamp), nil)
	}
}
