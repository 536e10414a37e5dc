package clubcard

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/clubcard/ribbon"
)

// Logger wraps slog.Logger with clubcard-specific context.
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
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithBlock adds a block field to the logger.
func (l *Logger) WithBlock(block []byte) *Logger {
	return &Logger{
		Logger: l.Logger.With("block", string(block)),
	}
}

// WithStage adds a stage (filter kind) field to the logger.
func (l *Logger) WithStage(kind ribbon.Kind) *Logger {
	return &Logger{
		Logger: l.Logger.With("stage", kind.String()),
	}
}

// LogRibbon logs the outcome of converting one block's builder into a ribbon.
func (l *Logger) LogRibbon(ctx context.Context, kind ribbon.Kind, block []byte, rows, m, rank, exceptions int) {
	l.DebugContext(ctx, "ribbon built",
		"stage", kind.String(),
		"block", string(block),
		"rows", rows,
		"m", m,
		"rank", rank,
		"exceptions", exceptions,
	)
}

// LogStage logs a collected filter stage.
func (l *Logger) LogStage(ctx context.Context, kind ribbon.Kind, stats ribbon.Stats, duration time.Duration) {
	if stats.Exceptions > 0 {
		l.InfoContext(ctx, "filter stage collected with exceptions",
			"stage", kind.String(),
			"blocks", stats.Blocks,
			"columns", stats.Columns,
			"solution_bits", stats.SolutionBits,
			"set_bits", stats.SetBits,
			"exceptions", stats.Exceptions,
			"duration", duration,
		)
		return
	}
	l.InfoContext(ctx, "filter stage collected",
		"stage", kind.String(),
		"blocks", stats.Blocks,
		"columns", stats.Columns,
		"solution_bits", stats.SolutionBits,
		"set_bits", stats.SetBits,
		"duration", duration,
	)
}

// LogBuild logs the assembly of a clubcard.
func (l *Logger) LogBuild(ctx context.Context, blocks int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clubcard build failed",
			"blocks", blocks,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "clubcard built",
			"blocks", blocks,
		)
	}
}

// LogPublish logs a publish or fetch of an encoded clubcard.
func (l *Logger) LogPublish(ctx context.Context, op, name string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, op+" completed",
			"name", name,
			"bytes", size,
		)
	}
}
