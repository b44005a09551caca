// Package appid resolves the jidcheck application identity.
package appid

import (
	"context"
	"strings"

	"github.com/fulmenhq/gofulmen/appidentity"

	appidentityassets "github.com/jidcheck/jidcheck/internal/assets/appidentity"
)

// Fallback values used when no identity can be resolved.
const (
	DefaultBinaryName = "jidcheck"
	DefaultEnvPrefix  = "JIDCHECK_"
)

func init() {
	// An explicit identity (FULMEN_APP_IDENTITY_PATH or .fulmen/app.yaml) wins;
	// the embedded copy keeps standalone binaries working.
	_ = appidentity.RegisterEmbeddedIdentityYAML(appidentityassets.YAML)
}

// Get returns the process-wide application identity.
func Get(ctx context.Context) (*appidentity.Identity, error) {
	return appidentity.Get(ctx)
}

// EnvPrefix returns the identity env prefix with a trailing underscore.
func EnvPrefix(identity *appidentity.Identity) string {
	prefix := DefaultEnvPrefix
	if identity != nil && strings.TrimSpace(identity.EnvPrefix) != "" {
		prefix = strings.TrimSpace(identity.EnvPrefix)
	}
	if !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return prefix
}

// BinaryName returns the identity binary name or the default.
func BinaryName(identity *appidentity.Identity) string {
	if identity != nil && strings.TrimSpace(identity.BinaryName) != "" {
		return identity.BinaryName
	}
	return DefaultBinaryName
}

// ConfigName returns the name used for XDG config and data directories.
func ConfigName(identity *appidentity.Identity) string {
	if identity != nil && strings.TrimSpace(identity.ConfigName) != "" {
		return identity.ConfigName
	}
	return BinaryName(identity)
}
