// Package logging provides slog helpers shared across the application:
// a context-scoped logger and uniform request/error logging.
package logging

import (
	"context"
	"log/slog"
	"os"
)

type contextKey struct{}

// NewLogger builds the application logger. Verbose enables debug output.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// WithLogger stores the logger in the context for downstream handlers.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext retrieves the context logger, falling back to slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// LogHTTPRequest logs a completed HTTP request with standard fields.
func LogHTTPRequest(logger *slog.Logger, method, path string, status int, durationMS float64, attrs ...any) {
	args := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("duration_ms", durationMS),
	}
	args = append(args, attrs...)
	logger.Info("http request", args...)
}

// LogError logs an error with a message and standard error field.
func LogError(logger *slog.Logger, msg string, err error, attrs ...any) {
	args := []any{slog.Any("error", err)}
	args = append(args, attrs...)
	logger.Error(msg, args...)
}
