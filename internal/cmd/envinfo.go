package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jidcheck/jidcheck/internal/appid"
	"github.com/jidcheck/jidcheck/internal/config"
	"github.com/jidcheck/jidcheck/internal/observability"
)

var envInfoCmd = &cobra.Command{
	Use:   "envinfo",
	Short: "Display environment information",
	Long:  "Display environment, configuration and version information. Secrets are reported only as set or not set.",
	Run: func(cmd *cobra.Command, args []string) {
		log := observability.CLILogger
		version := crucible.GetVersion()
		identity := GetAppIdentity()

		log.Info("=== jidcheck Environment Information ===")
		log.Info("")

		log.Info("Application:")
		log.Info("  Name:       " + appid.BinaryName(identity))
		log.Info("  Env Prefix: " + appid.EnvPrefix(identity))
		log.Info("  Version:    " + versionInfo.Version)
		log.Info("  Commit:     " + versionInfo.Commit)
		log.Info("  Built:      " + versionInfo.BuildDate)
		log.Info("")

		log.Info("SSOT:")
		log.Info("  Gofulmen:   "+version.Gofulmen, zap.String("gofulmen_version", version.Gofulmen))
		log.Info("  Crucible:   "+version.Crucible, zap.String("crucible_version", version.Crucible))
		log.Info("")

		log.Info("Runtime:")
		log.Info("  Go Version: "+runtime.Version(), zap.String("go_version", runtime.Version()))
		log.Info("  GOOS:       "+runtime.GOOS, zap.String("goos", runtime.GOOS))
		log.Info("  GOARCH:     "+runtime.GOARCH, zap.String("goarch", runtime.GOARCH))
		log.Info(fmt.Sprintf("  NumCPU:     %d", runtime.NumCPU()), zap.Int("num_cpu", runtime.NumCPU()))
		log.Info("")

		log.Info("Paths:")
		log.Info("  Default Config: " + config.DefaultConfigPath(identity))
		for _, path := range config.UserConfigPaths(identity) {
			log.Info("  Search Path:    " + path)
		}
		log.Info("  Data Dir:       " + config.DefaultDataDir(identity))
		log.Info("")

		cfg, err := loadConfig(cmd.Context(), nil)
		if err != nil {
			log.Warn("Config load failed", zap.Error(err))
			return
		}

		configFile := config.ConfigFileUsed()
		if configFile == "" {
			configFile = "(none)"
		}

		log.Info("Configuration:")
		log.Info("  Config File:    "+configFile, zap.String("config_file", configFile))
		log.Info("  Server Host:    "+cfg.Server.Host, zap.String("host", cfg.Server.Host))
		log.Info(fmt.Sprintf("  Server Port:    %d", cfg.Server.Port), zap.Int("port", cfg.Server.Port))
		log.Info("  Admin Token:    " + secretState(cfg.Server.AdminToken))
		log.Info("  Log Level:      "+cfg.Logging.Level, zap.String("log_level", cfg.Logging.Level))
		log.Info("  Log Profile:    "+cfg.Logging.Profile, zap.String("log_profile", cfg.Logging.Profile))
		log.Info(fmt.Sprintf("  Metrics Port:   %d", cfg.Metrics.Port), zap.Int("metrics_port", cfg.Metrics.Port))
		log.Info(fmt.Sprintf("  Health Enabled: %t", cfg.Health.Enabled))
		log.Info("")

		log.Info("Check:")
		log.Info(fmt.Sprintf("  Max Length:     %d", cfg.Check.MaxLength), zap.Int("max_length", cfg.Check.MaxLength))
		log.Info(fmt.Sprintf("  Concurrency:    %d", cfg.Check.Concurrency), zap.Int("concurrency", cfg.Check.Concurrency))
		log.Info("  Locale:         "+cfg.Report.Locale, zap.String("locale", cfg.Report.Locale))
		log.Info("  Markup:         "+cfg.Report.Markup, zap.String("markup", cfg.Report.Markup))
		log.Info("")

		log.Info("Bot:")
		log.Info("  Token:          " + secretState(cfg.Bot.Token))
		log.Info("  API URL:        " + cfg.Bot.APIURL)
		log.Info("  Poll Timeout:   " + cfg.Bot.PollTimeout.String())
		log.Info(fmt.Sprintf("  Workers:        %d", cfg.Bot.Workers))
		log.Info("  Max Retry:      " + cfg.Bot.MaxRetryInterval.String())
		log.Info("")

		log.Info("=== End Environment Information ===")
	},
}

func init() {
	rootCmd.AddCommand(envInfoCmd)
}

func secretState(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(not set)"
	}
	return "(set)"
}
