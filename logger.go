package scran

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with scran-specific context.
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

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// This is the library default.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithGenes adds a gene-count field to the logger.
func (l *Logger) WithGenes(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("genes", n),
	}
}

// WithCells adds a cell-count field to the logger.
func (l *Logger) WithCells(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("cells", n),
	}
}

// WithRank adds a retained-rank field to the logger.
func (l *Logger) WithRank(d int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rank", d),
	}
}

// LogResiduals logs a residual projection.
func (l *Logger) LogResiduals(ctx context.Context, rows, cells int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "residual projection failed",
			"rows", rows,
			"cells", cells,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "residual projection completed",
			"rows", rows,
			"cells", cells,
		)
	}
}

// LogDenoisePCA logs a denoising decomposition.
func (l *Logger) LogDenoisePCA(ctx context.Context, genesUsed, rank int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "denoise pca failed",
			"genes_used", genesUsed,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "denoise pca completed",
			"genes_used", genesUsed,
			"rank", rank,
		)
	}
}
