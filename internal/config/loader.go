// Package config loads jidcheck configuration. Values come from built-in
// defaults, an optional YAML file found through gofulmen's XDG helpers,
// identity-prefixed environment variables and runtime overrides, in that
// order of precedence.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fulmenhq/gofulmen/appidentity"
	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/jidcheck/jidcheck/internal/appid"
)

// PlainBotTokenEnv is honoured when the prefixed token variable is unset.
const PlainBotTokenEnv = "BOT_TOKEN"

var (
	appConfig      *Config
	configFileUsed string
	configMu       sync.RWMutex
)

// EnvVarSpec maps {PREFIX}{NAME} environment variables to config paths.
type EnvVarSpec = gfconfig.EnvVarSpec

const (
	EnvString = gfconfig.EnvString
	EnvInt    = gfconfig.EnvInt
	EnvBool   = gfconfig.EnvBool
)

// Load discovers the user config file and builds the configuration.
// It is safe to call repeatedly, e.g. on reload.
func Load(ctx context.Context, runtimeOverrides ...map[string]any) (*Config, error) {
	return LoadFile(ctx, "", runtimeOverrides...)
}

// LoadFile builds the configuration from path, or from the first existing
// user config path when path is empty. An explicit path must exist.
func LoadFile(ctx context.Context, path string, runtimeOverrides ...map[string]any) (*Config, error) {
	identity, err := appid.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load app identity: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")

	if path == "" {
		path = discoverConfigFile(identity)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	envOverrides, err := gfconfig.LoadEnvOverrides(envSpecs(identity))
	if err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}
	if envOverrides == nil {
		envOverrides = map[string]any{}
	}
	applyPlainBotToken(envOverrides)

	for _, layer := range append([]map[string]any{envOverrides}, runtimeOverrides...) {
		if len(layer) == 0 {
			continue
		}
		if err := v.MergeConfigMap(layer); err != nil {
			return nil, fmt.Errorf("failed to merge config overrides: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Report.Locale = strings.ToLower(strings.TrimSpace(cfg.Report.Locale))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setConfig(cfg, path)
	return cfg, nil
}

// GetConfig returns the last loaded configuration.
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// ConfigFileUsed returns the file read by the last successful load, if any.
func ConfigFileUsed() string {
	configMu.RLock()
	defer configMu.RUnlock()
	return configFileUsed
}

func setConfig(cfg *Config, path string) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
	configFileUsed = path
}

func discoverConfigFile(identity *appidentity.Identity) string {
	candidates := append([]string{DefaultConfigPath(identity)}, UserConfigPaths(identity)...)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// UserConfigPaths lists the candidate user config files in search order.
func UserConfigPaths(identity *appidentity.Identity) []string {
	name := appid.ConfigName(identity)
	var legacy []string
	if binary := appid.BinaryName(identity); binary != name {
		legacy = append(legacy, binary)
	}
	return gfconfig.GetAppConfigPaths(name, legacy...)
}

// DefaultConfigPath returns the XDG path of the user config file.
func DefaultConfigPath(identity *appidentity.Identity) string {
	dir := gfconfig.GetAppConfigDir(appid.ConfigName(identity))
	if strings.TrimSpace(dir) == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultDataDir returns the XDG data directory of the app.
func DefaultDataDir(identity *appidentity.Identity) string {
	return gfconfig.GetAppDataDir(appid.ConfigName(identity))
}

func envSpecs(identity *appidentity.Identity) []EnvVarSpec {
	prefix := appid.EnvPrefix(identity)

	return []EnvVarSpec{
		{Name: prefix + "HOST", Path: []string{"server", "host"}, Type: EnvString},
		{Name: prefix + "PORT", Path: []string{"server", "port"}, Type: EnvInt},
		// Durations stay strings until the decode hook runs.
		{Name: prefix + "READ_TIMEOUT", Path: []string{"server", "read_timeout"}, Type: EnvString},
		{Name: prefix + "WRITE_TIMEOUT", Path: []string{"server", "write_timeout"}, Type: EnvString},
		{Name: prefix + "IDLE_TIMEOUT", Path: []string{"server", "idle_timeout"}, Type: EnvString},
		{Name: prefix + "SHUTDOWN_TIMEOUT", Path: []string{"server", "shutdown_timeout"}, Type: EnvString},
		{Name: prefix + "ADMIN_TOKEN", Path: []string{"server", "admin_token"}, Type: EnvString},

		{Name: prefix + "LOG_LEVEL", Path: []string{"logging", "level"}, Type: EnvString},
		{Name: prefix + "LOG_PROFILE", Path: []string{"logging", "profile"}, Type: EnvString},

		{Name: prefix + "METRICS_ENABLED", Path: []string{"metrics", "enabled"}, Type: EnvBool},
		{Name: prefix + "METRICS_PORT", Path: []string{"metrics", "port"}, Type: EnvInt},
		{Name: prefix + "HEALTH_ENABLED", Path: []string{"health", "enabled"}, Type: EnvBool},

		{Name: prefix + "MAX_LENGTH", Path: []string{"check", "max_length"}, Type: EnvInt},
		{Name: prefix + "CONCURRENCY", Path: []string{"check", "concurrency"}, Type: EnvInt},

		{Name: prefix + "LOCALE", Path: []string{"report", "locale"}, Type: EnvString},
		{Name: prefix + "MARKUP", Path: []string{"report", "markup"}, Type: EnvString},

		{Name: prefix + "BOT_TOKEN", Path: []string{"bot", "token"}, Type: EnvString},
		{Name: prefix + "BOT_API_URL", Path: []string{"bot", "api_url"}, Type: EnvString},
		{Name: prefix + "BOT_POLL_TIMEOUT", Path: []string{"bot", "poll_timeout"}, Type: EnvString},
		{Name: prefix + "BOT_WORKERS", Path: []string{"bot", "workers"}, Type: EnvInt},
		{Name: prefix + "BOT_MAX_RETRY_INTERVAL", Path: []string{"bot", "max_retry_interval"}, Type: EnvString},
	}
}

// applyPlainBotToken copies BOT_TOKEN into the overrides unless the
// prefixed variable already set bot.token.
func applyPlainBotToken(envOverrides map[string]any) {
	token := strings.TrimSpace(os.Getenv(PlainBotTokenEnv))
	if token == "" {
		return
	}

	bot, _ := envOverrides["bot"].(map[string]any)
	if bot == nil {
		bot = map[string]any{}
		envOverrides["bot"] = bot
	}
	if existing, ok := bot["token"].(string); ok && strings.TrimSpace(existing) != "" {
		return
	}
	bot["token"] = token
}
