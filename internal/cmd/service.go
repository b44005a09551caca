package cmd

import (
	"context"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"go.uber.org/zap"

	"github.com/jidcheck/jidcheck/internal/appid"
	"github.com/jidcheck/jidcheck/internal/config"
	apperrors "github.com/jidcheck/jidcheck/internal/errors"
	"github.com/jidcheck/jidcheck/internal/metrics"
	"github.com/jidcheck/jidcheck/internal/observability"
)

// telemetryHealthChecker ensures telemetry system and exporter are available
type telemetryHealthChecker struct{}

func (telemetryHealthChecker) CheckHealth(ctx context.Context) error {
	if observability.TelemetrySystem == nil || observability.PrometheusExporter == nil {
		return apperrors.NewInternalError("telemetry system not initialized")
	}
	return nil
}

// identityHealthChecker validates app identity metadata
type identityHealthChecker struct {
	binaryName string
	envPrefix  string
	configName string
}

func (i identityHealthChecker) CheckHealth(ctx context.Context) error {
	switch {
	case i.binaryName == "":
		return apperrors.NewConfigInvalidError("app identity missing binary name")
	case i.envPrefix == "":
		return apperrors.NewConfigInvalidError("app identity missing env prefix")
	case i.configName == "":
		return apperrors.NewConfigInvalidError("app identity missing config name")
	}
	return nil
}

// startService switches to the structured logger and, when enabled, starts
// the Prometheus exporter. It is shared by long-running modes.
func startService(ctx context.Context, cfg *config.Config, mode string) error {
	identity := GetAppIdentity()
	name := appid.BinaryName(identity)
	namespace := name
	if identity != nil {
		namespace = identity.TelemetryNamespace()
	}

	observability.InitServerLogger(name, cfg.Logging.Level, namespace)

	if cfg.Metrics.Enabled {
		if err := observability.InitMetrics(name, cfg.Metrics.Port, namespace); err != nil {
			observability.ServerLogger.Error("Failed to initialize metrics", zap.Error(err))
			return apperrors.WrapInternal(ctx, err, "metrics initialization failed")
		}
		metrics.SetServerStartTime(time.Now().Unix())
	}

	observability.ServerLogger.Info("Initializing "+mode,
		zap.String("service", name),
		zap.String("namespace", namespace),
		zap.String("version", versionInfo.Version),
		zap.String("config_file", config.ConfigFileUsed()),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
		zap.Int("metrics_port", observability.GetMetricsPort()))
	return nil
}

// registerSignalHandlers installs the shared shutdown, reload and double-tap
// behaviour. Shutdown handlers run in LIFO order, so stop runs before the
// logger flush.
func registerSignalHandlers(stop func(ctx context.Context) error) {
	signals.OnShutdown(func(ctx context.Context) error {
		observability.ServerLogger.Info("Flushing logger...")
		if err := observability.ServerLogger.Sync(); err != nil {
			// Sync errors are often benign (stdout/stderr already closed)
			observability.ServerLogger.Warn("Logger sync returned error (may be benign)", zap.Error(err))
		}
		return nil
	})

	signals.OnShutdown(stop)

	signals.OnReload(func(ctx context.Context) error {
		observability.ServerLogger.Info("Received SIGHUP: attempting config reload")
		cfg, err := config.LoadFile(ctx, cfgFile)
		if err != nil {
			observability.ServerLogger.Error("Failed to reload config", zap.Error(err))
			return apperrors.WrapConfigInvalid(ctx, err, "config reload failed")
		}
		observability.ServerLogger.Info("Configuration reloaded; listener and bot settings apply on restart",
			zap.String("file", config.ConfigFileUsed()),
			zap.Int("max_length", cfg.Check.MaxLength),
			zap.String("locale", cfg.Report.Locale))
		return nil
	})

	if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
		Window:  2 * time.Second,
		Message: "Press Ctrl+C again within 2 seconds to force quit",
	}); err != nil {
		observability.ServerLogger.Warn("Failed to enable double-tap force quit", zap.Error(err))
	}
}
