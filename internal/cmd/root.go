package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fulmenhq/gofulmen/appidentity"
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jidcheck/jidcheck/internal/appid"
	"github.com/jidcheck/jidcheck/internal/config"
	apperrors "github.com/jidcheck/jidcheck/internal/errors"
	"github.com/jidcheck/jidcheck/internal/observability"
)

var (
	cfgFile string
	verbose bool

	// App identity loaded from .fulmen/app.yaml or the embedded copy
	appIdentity *appidentity.Identity

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// GetAppIdentity returns the loaded app identity (only valid after initConfig)
func GetAppIdentity() *appidentity.Identity {
	return appIdentity
}

var rootCmd = &cobra.Command{
	// NOTE: applyIdentity() overwrites these from app identity.
	Use:   filepath.Base(os.Args[0]),
	Short: "Detect Cyrillic lookalike characters in Jabber IDs",
	Long: `Detect Cyrillic letters that imitate Latin ones in Jabber IDs.

Use the subcommands to check identifiers from the command line, over HTTP
or through a Telegram bot.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Keep library code from emitting metrics to stdout; serve and bot
	// install a real telemetry system.
	observability.DisableGlobalTelemetry()

	// Load app identity early for help text (before cobra processes --help)
	if identity, err := appid.Get(context.Background()); err == nil && identity != nil {
		appIdentity = identity
		applyIdentity(identity)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; defaults to the app identity config path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")
}

func applyIdentity(identity *appidentity.Identity) {
	if identity.BinaryName != "" {
		rootCmd.Use = identity.BinaryName
	}
	if identity.Description != "" {
		rootCmd.Short = identity.Description
		rootCmd.Long = fmt.Sprintf("%s - %s\n\nUse the subcommands to perform specific operations.", identity.BinaryName, identity.Description)
	}
	if f := rootCmd.PersistentFlags().Lookup("config"); f != nil {
		if path := config.DefaultConfigPath(identity); path != "" {
			f.Usage = fmt.Sprintf("config file (default is %s)", path)
		}
	}
}

// initConfig resolves the app identity and the CLI logger. Configuration
// itself is loaded by each command through loadConfig so that command flags
// can be layered on top.
func initConfig() {
	identity, err := appid.Get(context.Background())
	if err != nil {
		ExitWithCodeStderr(foundry.ExitFileNotFound, "Failed to load app identity", err)
	}
	appIdentity = identity
	applyIdentity(identity)

	observability.InitCLILogger(appid.BinaryName(identity), verbose)
}

// loadConfig loads configuration from --config (or the discovered user
// file), the environment and the given flag overrides.
func loadConfig(ctx context.Context, overrides map[string]any) (*config.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadFile(ctx, cfgFile, overrides)
	if err != nil {
		return nil, apperrors.WrapConfigInvalid(ctx, err, "configuration is invalid")
	}

	if used := config.ConfigFileUsed(); used != "" {
		observability.CLILogger.Debug("Using config file", zap.String("path", used))
	} else {
		observability.CLILogger.Debug("No config file found, using defaults and environment variables")
	}
	return cfg, nil
}

// flagOverrides turns explicitly set flags into a nested override map.
// Keys of bindings are flag names, values are dotted config keys.
func flagOverrides(cmd *cobra.Command, bindings map[string]string) map[string]any {
	overrides := map[string]any{}
	for flagName, key := range bindings {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil || !flag.Changed {
			continue
		}
		section, field, ok := strings.Cut(key, ".")
		if !ok {
			overrides[key] = flagValue(cmd, flagName, flag.Value.Type())
			continue
		}
		nested, _ := overrides[section].(map[string]any)
		if nested == nil {
			nested = map[string]any{}
			overrides[section] = nested
		}
		nested[field] = flagValue(cmd, flagName, flag.Value.Type())
	}
	return overrides
}

func flagValue(cmd *cobra.Command, name, kind string) any {
	switch kind {
	case "int":
		v, _ := cmd.Flags().GetInt(name)
		return v
	case "bool":
		v, _ := cmd.Flags().GetBool(name)
		return v
	case "duration":
		v, _ := cmd.Flags().GetDuration(name)
		return v
	default:
		return cmd.Flags().Lookup(name).Value.String()
	}
}
