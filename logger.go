package lshgo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with lshgo-specific helpers.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogStore logs a store operation.
func (l *Logger) LogStore(idx uint32, dimension int, err error) {
	if err != nil {
		l.Error("store failed",
			"dimension", dimension,
			"error", err,
		)
	} else {
		l.Debug("store completed",
			"index", idx,
			"dimension", dimension,
		)
	}
}

// LogBatchStore logs a batch store operation.
func (l *Logger) LogBatchStore(count int, err error) {
	if err != nil {
		l.Error("batch store failed",
			"count", count,
			"error", err,
		)
	} else {
		l.Info("batch store completed",
			"count", count,
		)
	}
}

// LogQuery logs a bucket query operation.
func (l *Logger) LogQuery(candidates int, err error) {
	if err != nil {
		l.Error("query failed",
			"error", err,
		)
	} else {
		l.Debug("query completed",
			"candidates", candidates,
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(err error) {
	if err != nil {
		l.Error("delete failed",
			"error", err,
		)
	} else {
		l.Debug("delete completed")
	}
}
