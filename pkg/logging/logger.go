// Package logging provides structured logging for the codesync system using zerolog.
// Reconciliation passes log construct-level events (created, updated,
// unchanged) at debug level and file-level outcomes at info level; both flow
// through the logger carried in the context.
//
// Example usage:
//
//	ctx := logging.WithFile(context.Background(), "src/user.ts")
//	logging.FromContext(ctx).Info().Int("created", 2).Msg("File reconciled")
package logging

import (
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is used whenever a context carries no logger.
var defaultLogger atomic.Pointer[zerolog.Logger]

func init() {
	logger := NewLoggerFromConfig(EnvConfig())
	defaultLogger.Store(&logger)
}

// Default returns the default global logger. It is configured from LOG_*
// environment variables at start up.
func Default() *zerolog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the default global logger, including zerolog's own.
func SetDefault(logger zerolog.Logger) {
	defaultLogger.Store(&logger)
	log.Logger = logger
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
