package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jidcheck/jidcheck/internal/bot"
	"github.com/jidcheck/jidcheck/internal/config"
	"github.com/jidcheck/jidcheck/internal/core/report"
	apperrors "github.com/jidcheck/jidcheck/internal/errors"
	"github.com/jidcheck/jidcheck/internal/observability"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long: `Run the Telegram bot using long polling.

The token is read from bot.token, JIDCHECK_BOT_TOKEN or BOT_TOKEN.
Replies use Telegram HTML markup in the configured locale.

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: stop polling and finish in-flight replies
  • Ctrl+C twice within 2s: Force quit`,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)

	botCmd.Flags().String("locale", "", "reply locale: ru, en (default from config)")
	botCmd.Flags().Int("workers", 0, "number of reply workers (default from config)")
	botCmd.Flags().Duration("poll-timeout", 0, "long polling timeout (default from config)")
	botCmd.Flags().String("api-url", "", "Bot API base URL (default from config)")
}

var botBindings = map[string]string{
	"locale":       "report.locale",
	"workers":      "bot.workers",
	"poll-timeout": "bot.poll_timeout",
	"api-url":      "bot.api_url",
}

func runBot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, flagOverrides(cmd, botBindings))
	if err != nil {
		return err
	}
	if err := cfg.Bot.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingBotToken) {
			return apperrors.NewConfigInvalidError("bot token is not set (bot.token, JIDCHECK_BOT_TOKEN or BOT_TOKEN)")
		}
		return apperrors.WrapConfigInvalid(ctx, err, "bot configuration is invalid")
	}
	if err := startService(ctx, cfg, "bot"); err != nil {
		return err
	}

	b := newBot(cfg)

	me, err := b.Identify(ctx)
	if err != nil {
		var apiErr *bot.APIError
		if errors.As(err, &apiErr) && apiErr.Permanent() {
			return apperrors.WrapConfigInvalid(ctx, err, "bot token was rejected")
		}
		return apperrors.WrapExternalService(ctx, err, "failed to reach the Bot API")
	}
	observability.ServerLogger.Info("Bot identified",
		zap.Int64("bot_id", me.ID),
		zap.String("username", me.Username),
		zap.String("locale", cfg.Report.Locale),
		zap.Int("workers", cfg.Bot.Workers))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)

	registerSignalHandlers(func(ctx context.Context) error {
		observability.ServerLogger.Info("Stopping bot...")
		cancel()

		stopCtx, stop := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer stop()
		select {
		case <-done:
			observability.ServerLogger.Info("Bot stopped")
			return nil
		case <-stopCtx.Done():
			return apperrors.WrapTimeout(ctx, stopCtx.Err(), "bot did not stop in time")
		}
	})

	go func() {
		if err := signals.Listen(ctx); err != nil {
			observability.ServerLogger.Error("Signal handler error", zap.Error(err))
		}
	}()

	err = b.Run(runCtx)
	done <- err
	if err != nil {
		return apperrors.WrapExternalService(ctx, err, "bot polling stopped")
	}
	return nil
}

func newBot(cfg *config.Config) *bot.Bot {
	// The poll request outlives the long-poll timeout; the client sets
	// per-call deadlines, so the transport only bounds idle connections.
	httpClient := &http.Client{Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: cfg.Bot.Workers + 1,
		IdleConnTimeout:     90 * time.Second,
	}}
	client := bot.NewClient(cfg.Bot.APIURL, cfg.Bot.Token, httpClient)

	reporter := report.New(report.HTML, report.MessagesFor(cfg.Report.Locale))
	router := bot.NewRouter(reporter, cfg.Check.MaxLength)

	return bot.New(client, router, bot.Options{
		PollTimeout:      cfg.Bot.PollTimeout,
		Workers:          cfg.Bot.Workers,
		MaxRetryInterval: cfg.Bot.MaxRetryInterval,
	})
}
