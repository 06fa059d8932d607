package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/codesync/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logging.SetDefault(zerolog.New(buf).Level(zerolog.InfoLevel))

	logging.Default().Debug().Msg("debug message")
	logging.Default().Info().Msg("info message")

	output := buf.String()
	assert.Contains(t, output, "info message")
	assert.NotContains(t, output, "debug message")
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithFile(ctx, "src/services/user.ts")
	ctx = logging.WithOperation(ctx, "reconcile")

	logging.FromContext(ctx).Info().Msg("reconciled")

	entries := testLogger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "src/services/user.ts", entries[0]["file"])
	assert.Equal(t, "reconcile", entries[0]["operation"])
	assert.Equal(t, []string{"reconciled"}, testLogger.Messages())
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, logging.Default(), logging.FromContext(nil))
}

func TestWithFields(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithFields(ctx, map[string]any{
		"created": 2,
		"kinds":   []string{"Class", "Method"},
	})

	logging.FromContext(ctx).Debug().Msg("changes")

	testLogger.AssertContains(t, `"created":2`)
	testLogger.AssertContains(t, `"kinds":["Class","Method"]`)
}

func TestConfiguration(t *testing.T) {
	configs := []struct {
		name   string
		config *logging.Config
		check  func(t *testing.T, output string)
	}{
		{
			name:   "debug level",
			config: &logging.Config{Level: "debug", Format: "json", Output: "discard"},
			check: func(t *testing.T, output string) {
				assert.Contains(t, output, `"level":"debug"`)
			},
		},
		{
			name:   "error level only",
			config: &logging.Config{Level: "error", Format: "json", Output: "discard"},
			check: func(t *testing.T, output string) {
				assert.NotContains(t, output, `"level":"info"`)
				assert.Contains(t, output, `"level":"error"`)
			},
		},
		{
			name:   "default fields",
			config: &logging.Config{Level: "info", Format: "json", Output: "discard", Fields: map[string]any{"run": "abc"}},
			check: func(t *testing.T, output string) {
				assert.True(t, strings.Contains(output, `"run":"abc"`))
			},
		},
	}

	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	for _, tc := range configs {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.NewLoggerFromConfig(tc.config).Output(buf)

			logger.Debug().Msg("debug")
			logger.Info().Msg("info")
			logger.Error().Msg("error")

			tc.check(t, buf.String())
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "1")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_CALLER", "true")

	cfg := logging.EnvConfig()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.True(t, cfg.AddCaller)

	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, "warn", logging.EnvConfig().Level)
}
