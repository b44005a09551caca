package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG lookups at empty temp dirs so a developer's own config
// cannot leak into the tests.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv(PlainBotTokenEnv, "")
	t.Setenv("JIDCHECK_BOT_TOKEN", "")
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("LoadDefaults", func(t *testing.T) {
		isolate(t)

		cfg, err := Load(ctx)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "localhost", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
		assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
		assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)

		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "SIMPLE", cfg.Logging.Profile)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, 9090, cfg.Metrics.Port)
		assert.True(t, cfg.Health.Enabled)

		assert.Equal(t, 500, cfg.Check.MaxLength)
		assert.Equal(t, 4, cfg.Check.Concurrency)
		assert.Equal(t, "ru", cfg.Report.Locale)
		assert.Equal(t, "html", cfg.Report.Markup)

		assert.Empty(t, cfg.Bot.Token)
		assert.Equal(t, DefaultTelegramAPIURL, cfg.Bot.APIURL)
		assert.Equal(t, 30*time.Second, cfg.Bot.PollTimeout)
		assert.Equal(t, 4, cfg.Bot.Workers)
		assert.Equal(t, time.Minute, cfg.Bot.MaxRetryInterval)

		assert.Empty(t, ConfigFileUsed())
	})

	t.Run("RuntimeOverrides", func(t *testing.T) {
		isolate(t)

		cfg, err := Load(ctx, map[string]any{
			"server":  map[string]any{"port": 9000, "host": "0.0.0.0"},
			"logging": map[string]any{"level": "debug"},
		})
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "SIMPLE", cfg.Logging.Profile)
		assert.Equal(t, 9090, cfg.Metrics.Port)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		isolate(t)
		t.Setenv("JIDCHECK_PORT", "3000")
		t.Setenv("JIDCHECK_LOG_LEVEL", "warn")
		t.Setenv("JIDCHECK_METRICS_ENABLED", "false")
		t.Setenv("JIDCHECK_MAX_LENGTH", "64")
		t.Setenv("JIDCHECK_LOCALE", "EN")
		t.Setenv("JIDCHECK_BOT_POLL_TIMEOUT", "45s")

		cfg, err := Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, 3000, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.False(t, cfg.Metrics.Enabled)
		assert.Equal(t, 64, cfg.Check.MaxLength)
		assert.Equal(t, "en", cfg.Report.Locale)
		assert.Equal(t, 45*time.Second, cfg.Bot.PollTimeout)
	})

	t.Run("ConfigPrecedence", func(t *testing.T) {
		isolate(t)
		t.Setenv("JIDCHECK_PORT", "4000")

		cfg, err := Load(ctx, map[string]any{
			"server": map[string]any{"port": 5000},
		})
		require.NoError(t, err)
		assert.Equal(t, 5000, cfg.Server.Port)
	})

	t.Run("ConfigFile", func(t *testing.T) {
		isolate(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("check:\n  max_length: 42\nbot:\n  workers: 2\n"), 0o600))
		t.Setenv("JIDCHECK_BOT_WORKERS", "8")

		cfg, err := LoadFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, 42, cfg.Check.MaxLength)
		assert.Equal(t, 8, cfg.Bot.Workers, "env wins over file")
		assert.Equal(t, path, ConfigFileUsed())
	})

	t.Run("DiscoveredConfigFile", func(t *testing.T) {
		isolate(t)
		path := DefaultConfigPath(nil)
		require.NotEmpty(t, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("report:\n  locale: en\n"), 0o600))

		cfg, err := Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "en", cfg.Report.Locale)
		assert.Equal(t, path, ConfigFileUsed())
	})

	t.Run("MissingExplicitFile", func(t *testing.T) {
		isolate(t)
		_, err := LoadFile(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("InvalidValues", func(t *testing.T) {
		isolate(t)
		_, err := Load(ctx, map[string]any{
			"report": map[string]any{"locale": "de"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "report.locale")
	})
}

func TestBotToken(t *testing.T) {
	ctx := context.Background()

	t.Run("PlainEnv", func(t *testing.T) {
		isolate(t)
		t.Setenv(PlainBotTokenEnv, "123:plain")

		cfg, err := Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "123:plain", cfg.Bot.Token)
		assert.NoError(t, cfg.Bot.Validate())
	})

	t.Run("PrefixedWins", func(t *testing.T) {
		isolate(t)
		t.Setenv(PlainBotTokenEnv, "123:plain")
		t.Setenv("JIDCHECK_BOT_TOKEN", "456:prefixed")

		cfg, err := Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "456:prefixed", cfg.Bot.Token)
	})

	t.Run("Missing", func(t *testing.T) {
		isolate(t)

		cfg, err := Load(ctx)
		require.NoError(t, err)
		assert.ErrorIs(t, cfg.Bot.Validate(), ErrMissingBotToken)
	})
}

func TestGetConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	retrieved := GetConfig()
	require.NotNil(t, retrieved)
	assert.Equal(t, cfg.Server.Port, retrieved.Server.Port)
}

func TestEnvSpecs(t *testing.T) {
	names := make(map[string]bool)
	for _, spec := range envSpecs(nil) {
		names[spec.Name] = true
	}

	for _, name := range []string{
		"JIDCHECK_LOG_LEVEL", "JIDCHECK_PORT", "JIDCHECK_HOST", "JIDCHECK_METRICS_PORT",
		"JIDCHECK_BOT_TOKEN", "JIDCHECK_MAX_LENGTH",
	} {
		assert.True(t, names[name], "%s must be mapped", name)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Report: ReportConfig{Locale: "ru", Markup: "html"}}
	require.NoError(t, valid.Validate())

	invalid := Config{
		Check:  CheckConfig{MaxLength: -1},
		Report: ReportConfig{Markup: "bbcode"},
		Server: ServerConfig{Port: 70000},
	}
	err := invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check.max_length")
	assert.Contains(t, err.Error(), "report.markup")
	assert.Contains(t, err.Error(), "server.port")
}
