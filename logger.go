// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with allocator-specific helpers.
// This keeps field names consistent between the pool, the string pool and the intern table.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
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

// NewTextLogger creates a Logger that outputs human-readable text logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// LogRecycle logs a block taken back from a free list.
func (l *Logger) LogRecycle(class SizeClass, requested, blockSize uint32) {
	ctx := context.Background()
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.DebugContext(ctx, "block recycled",
		"class", class.String(),
		"requested", requested,
		"block_size", blockSize,
	)
}

// LogExhausted logs a bump allocation that does not fit the arena.
func (l *Logger) LogExhausted(requested, offset, capacity uint32) {
	l.ErrorContext(context.Background(), "arena exhausted",
		"requested", requested,
		"offset", offset,
		"capacity", capacity,
	)
}

// LogTableFull logs an insert rejected because every bin on the probe sequence is taken.
func (l *Logger) LogTableFull(component string, bins, used uint32) {
	l.WarnContext(context.Background(), "table full",
		"component", component,
		"bins", bins,
		"used", used,
	)
}
