package config

import (
	"github.com/spf13/viper"

	"github.com/jidcheck/jidcheck/internal/core"
	"github.com/jidcheck/jidcheck/internal/core/engine"
	"github.com/jidcheck/jidcheck/internal/core/report"
)

// DefaultTelegramAPIURL is the public Bot API endpoint.
const DefaultTelegramAPIURL = "https://api.telegram.org"

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.admin_token", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "SIMPLE")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	v.SetDefault("health.enabled", true)

	v.SetDefault("check.max_length", core.DefaultMaxLength)
	v.SetDefault("check.concurrency", engine.DefaultConcurrency)

	v.SetDefault("report.locale", report.LocaleRU)
	v.SetDefault("report.markup", report.MarkupHTML)

	v.SetDefault("bot.token", "")
	v.SetDefault("bot.api_url", DefaultTelegramAPIURL)
	v.SetDefault("bot.poll_timeout", "30s")
	v.SetDefault("bot.workers", 4)
	v.SetDefault("bot.max_retry_interval", "1m")
}
