package kmeanstep

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with clustering-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithMethod adds the initialization method to the logger.
func (l *Logger) WithMethod(m Method) *Logger {
	return &Logger{
		Logger: l.Logger.With("method", m.String()),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogInitialize logs a centroid initialization.
func (l *Logger) LogInitialize(ctx context.Context, m Method, k, centroids int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "initialize failed",
			"method", m.String(),
			"k", k,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "initialize completed",
		"method", m.String(),
		"k", k,
		"centroids", centroids,
	)
}

// LogStep logs a single clustering iteration.
func (l *Logger) LogStep(ctx context.Context, step int, shift float64, converged bool) {
	l.DebugContext(ctx, "step completed",
		"step", step,
		"shift", shift,
		"converged", converged,
	)
}

// LogRun logs the end of a run to convergence.
func (l *Logger) LogRun(ctx context.Context, steps int, converged bool, err error) {
	switch {
	case err != nil:
		l.WarnContext(ctx, "run stopped",
			"steps", steps,
			"converged", converged,
			"error", err,
		)
	default:
		l.InfoContext(ctx, "run completed",
			"steps", steps,
			"converged", converged,
		)
	}
}

// LogReset logs a session reset and its cause.
func (l *Logger) LogReset(ctx context.Context, reason string) {
	l.DebugContext(ctx, "session reset", "reason", reason)
}
