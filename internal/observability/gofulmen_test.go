package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggers(t *testing.T) {
	origCLI, origServer := CLILogger, ServerLogger
	t.Cleanup(func() {
		CLILogger, ServerLogger = origCLI, origServer
	})

	t.Run("cli logger", func(t *testing.T) {
		InitCLILogger("jidcheck-test", true)
		require.NotNil(t, CLILogger)
		CLILogger.Debug("debug message", zap.String("mode", "verbose"))
	})

	t.Run("logger prefers structured", func(t *testing.T) {
		ServerLogger = nil
		assert.Same(t, CLILogger, Logger())

		InitServerLogger("jidcheck-test", "debug", "jidcheck_test")
		require.NotNil(t, ServerLogger)
		assert.Same(t, ServerLogger, Logger())
		ServerLogger.Info("structured message", zap.String("component", "test"))
	})
}

func TestStructuredConfig(t *testing.T) {
	cfg := structuredConfig("svc", "warning", "ns")
	assert.Equal(t, "WARN", cfg.DefaultLevel)
	assert.Equal(t, "svc", cfg.Service)
	assert.Equal(t, "ns", cfg.StaticFields["namespace"])
	require.Len(t, cfg.Sinks, 1)
	assert.Equal(t, "json", cfg.Sinks[0].Format)

	assert.Empty(t, structuredConfig("svc", "info").StaticFields)
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]string{
		"trace": "TRACE", "DEBUG": "DEBUG", "info": "INFO", "warn": "WARN",
		"error": "ERROR", "": "INFO", "bogus": "INFO",
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLogLevel(in), "level %q", in)
	}
}

func TestResolvePort(t *testing.T) {
	port, err := resolvePort("[::]:9191")
	require.NoError(t, err)
	assert.Equal(t, 9191, port)

	_, err = resolvePort("no-port")
	require.Error(t, err)
}
