package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const loggerKey contextKey = iota

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}

	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}

	return Default()
}

// HasLogger reports whether ctx carries a logger.
func HasLogger(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	logger, ok := ctx.Value(loggerKey).(*zerolog.Logger)
	return ok && logger != nil
}

// WithField adds a single string field to the logger in the context.
func WithField(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithItem adds item context to the logger.
func WithItem(ctx context.Context, itemID string) context.Context {
	return WithField(ctx, "item_id", itemID)
}

// WithSource adds upstream source context to the logger.
func WithSource(ctx context.Context, source string) context.Context {
	return WithField(ctx, "source", source)
}

// WithOperation adds operation context to the logger.
func WithOperation(ctx context.Context, operation string) context.Context {
	return WithField(ctx, "operation", operation)
}
