package bkio

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with bkio-specific helpers.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to w.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// LogWrite logs a file write.
func (l *Logger) LogWrite(path string, kind string, compressed bool, size int64, elapsed time.Duration, err error) {
	if err != nil {
		l.Error("write failed",
			"path", path,
			"kind", kind,
			"compressed", compressed,
			"error", err,
		)
		return
	}
	l.Debug("write completed",
		"path", path,
		"kind", kind,
		"compressed", compressed,
		"bytes", size,
		"elapsed", elapsed,
	)
}

// LogRead logs a full file read.
func (l *Logger) LogRead(path string, kind string, records uint64, mapped bool, elapsed time.Duration, err error) {
	if err != nil {
		l.Error("read failed",
			"path", path,
			"kind", kind,
			"mmap", mapped,
			"error", err,
		)
		return
	}
	l.Debug("read completed",
		"path", path,
		"kind", kind,
		"records", records,
		"mmap", mapped,
		"elapsed", elapsed,
	)
}

// LogHeader logs a header-only read.
func (l *Logger) LogHeader(path string, header any, err error) {
	if err != nil {
		l.Warn("header read failed",
			"path", path,
			"error", err,
		)
		return
	}
	l.Debug("header read",
		"path", path,
		"header", header,
	)
}
