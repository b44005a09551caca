package cmd

import (
	"context"
	"errors"
	"net/http"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apperrors "github.com/jidcheck/jidcheck/internal/errors"
	"github.com/jidcheck/jidcheck/internal/observability"
	"github.com/jidcheck/jidcheck/internal/server"
	"github.com/jidcheck/jidcheck/internal/server/handlers"
)

// signalHealthChecker reports the signal handlers as registered.
type signalHealthChecker struct{}

func (signalHealthChecker) CheckHealth(ctx context.Context) error {
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API with graceful shutdown support.

Endpoints:
  • GET/POST /v1/check   check an identifier
  • /health, /health/{live,ready,startup}, /version, /metrics

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Config reload (validated; listener settings apply on restart)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().Int("max-length", 0, "maximum identifier length in code points (default from config)")
	serveCmd.Flags().String("locale", "", "default report locale: ru, en (default from config)")
}

var serveBindings = map[string]string{
	"host":       "server.host",
	"port":       "server.port",
	"max-length": "check.max_length",
	"locale":     "report.locale",
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx, flagOverrides(cmd, serveBindings))
	if err != nil {
		return err
	}
	if err := startService(ctx, cfg, "server"); err != nil {
		return err
	}

	identity := GetAppIdentity()
	handlers.SetAppIdentity(identity)

	srv := server.New(cfg.Server.Host, cfg.Server.Port, server.Options{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		MaxLength:    cfg.Check.MaxLength,
		Locale:       cfg.Report.Locale,
		Health:       cfg.Health.Enabled,
		Version:      versionInfo.Version,
		AdminToken:   cfg.Server.AdminToken,
	})

	hm := srv.Health()
	hm.RegisterChecker("signal_handlers", signalHealthChecker{})
	if cfg.Metrics.Enabled {
		hm.RegisterChecker("telemetry", telemetryHealthChecker{})
	}
	if identity != nil {
		hm.RegisterChecker("app_identity", identityHealthChecker{
			binaryName: identity.BinaryName,
			envPrefix:  identity.EnvPrefix,
			configName: identity.ConfigName,
		})
	}

	registerSignalHandlers(func(ctx context.Context) error {
		observability.ServerLogger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return apperrors.WrapInternal(ctx, err, "server shutdown failed")
		}

		observability.ServerLogger.Info("HTTP server stopped gracefully")
		return nil
	})

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	go func() {
		if err := signals.Listen(ctx); err != nil {
			observability.ServerLogger.Error("Signal handler error", zap.Error(err))
			errChan <- err
		}
	}()

	if err := <-errChan; err != nil {
		return apperrors.WrapInternal(ctx, err, "server error")
	}
	return nil
}
