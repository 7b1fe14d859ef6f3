package matgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with matgo-specific context.
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
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRank adds the calling rank to the logger.
func (l *Logger) WithRank(rank int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rank", rank),
	}
}

// WithShape adds the global matrix shape to the logger.
func (l *Logger) WithShape(m, n int64) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", m, "cols", n),
	}
}

// LogCompress logs a compress (finish-fill) operation.
func (l *Logger) LogCompress(ctx context.Context, nnz int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "compress failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "compress completed",
			"nnz", nnz,
		)
	}
}

// LogReinit logs a structural reinitialization.
func (l *Logger) LogReinit(ctx context.Context, rows, cols, nnz int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "reinit failed",
			"rows", rows,
			"cols", cols,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "reinit completed",
			"rows", rows,
			"cols", cols,
			"nnz", nnz,
		)
	}
}

// LogMultiply logs a matrix-vector multiply.
func (l *Logger) LogMultiply(ctx context.Context, transpose bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "multiply failed",
			"transpose", transpose,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "multiply completed",
			"transpose", transpose,
		)
	}
}
