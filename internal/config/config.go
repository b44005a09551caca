package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jidcheck/jidcheck/internal/core/report"
)

// ErrMissingBotToken is returned by BotConfig.Validate when no token is set.
var ErrMissingBotToken = errors.New("bot token is not configured")

// Config is the complete application configuration. Layers, lowest first:
// built-in defaults, the user config file, environment variables and
// runtime overrides.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
	Check   CheckConfig   `mapstructure:"check"`
	Report  ReportConfig  `mapstructure:"report"`
	Bot     BotConfig     `mapstructure:"bot"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// AdminToken enables the signal endpoint. Empty disables it.
	AdminToken string `mapstructure:"admin_token"`
}

// LoggingConfig selects the gofulmen logging level and profile
// (SIMPLE for the CLI, STRUCTURED for long-running services).
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus exporter configuration.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CheckConfig is the input policy applied before every check.
type CheckConfig struct {
	// MaxLength is the limit in code points. Zero disables it.
	MaxLength int `mapstructure:"max_length"`
	// Concurrency bounds batch checks.
	Concurrency int `mapstructure:"concurrency"`
}

// ReportConfig selects the report wording and the default markup.
type ReportConfig struct {
	Locale string `mapstructure:"locale"`
	Markup string `mapstructure:"markup"`
}

// BotConfig configures the Telegram long-polling bot.
type BotConfig struct {
	Token       string        `mapstructure:"token"`
	APIURL      string        `mapstructure:"api_url"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
	Workers     int           `mapstructure:"workers"`
	// MaxRetryInterval caps the backoff between failed polls.
	MaxRetryInterval time.Duration `mapstructure:"max_retry_interval"`
}

// Validate checks the values every command relies on.
func (c *Config) Validate() error {
	var problems []string

	if c.Check.MaxLength < 0 {
		problems = append(problems, "check.max_length must not be negative")
	}
	if c.Check.Concurrency < 0 {
		problems = append(problems, "check.concurrency must not be negative")
	}
	if c.Report.Locale != "" && !report.SupportedLocale(c.Report.Locale) {
		problems = append(problems, fmt.Sprintf("report.locale %q is not supported", c.Report.Locale))
	}
	if _, err := report.ParseMarkup(c.Report.Markup); err != nil {
		problems = append(problems, "report.markup: "+err.Error())
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if c.Bot.Workers < 0 {
		problems = append(problems, "bot.workers must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Validate checks the bot-only settings.
func (b BotConfig) Validate() error {
	if strings.TrimSpace(b.Token) == "" {
		return ErrMissingBotToken
	}
	if strings.TrimSpace(b.APIURL) == "" {
		return errors.New("bot.api_url must not be empty")
	}
	return nil
}
