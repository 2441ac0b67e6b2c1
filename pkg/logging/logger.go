// Package logging provides structured logging for lucro using zerolog.
// Terminals get human-readable console output; pipes and files get JSON.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("item_id", "T4_BAG").Msg("Resolved item")
//
//	ctx := logging.WithLogger(context.Background(), log)
//	logging.FromContext(ctx).Debug().Msg("Using logger from context")
package logging

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// defaultLogger is configured from LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT and NO_COLOR.
	defaultLogger = NewLoggerFromConfig(DefaultConfig())

	// Nop logger for discarding output.
	Nop = zerolog.Nop()
)

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the default logger, including zerolog's global one.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New creates a logger writing JSON to w at the global level.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// Debug starts a debug event on the default logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warning event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts an error event on the default logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}
