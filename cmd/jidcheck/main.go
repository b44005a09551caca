package main

import (
	"github.com/jidcheck/jidcheck/internal/cmd"
	"github.com/jidcheck/jidcheck/internal/server/handlers"
)

// Version information set via ldflags during build
// Example: go build -ldflags="-X main.version=1.0.0 -X main.commit=abc123 -X main.buildDate=2026-10-01"
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, buildDate)
	handlers.SetVersionInfo(version, commit, buildDate)

	// Commands return errors; the exit helper maps them to semantic codes.
	cmd.HandleExecuteError(cmd.Execute())
}
