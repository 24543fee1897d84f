// Package logger provides a context-aware structured logger built on log/slog.
package logger

import (
	"context"
	"io"
	"log/slog"
)

// Level mirrors slog levels with a narrower surface.
type Level int

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// LoggerInterface is the logging surface used across the engine.
// All methods accept a context so trace correlation can be added later.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) LoggerInterface
}

// Logger implements LoggerInterface over slog.
type Logger struct {
	sl *slog.Logger
}

var _ LoggerInterface = (*Logger)(nil)

// New creates a Logger writing JSON to w at the given level.
// Pass io.Discard to suppress output (TUI mode).
func New(w io.Writer, level Level, service string, attrs []slog.Attr) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.Level(level * 4), // slog levels are spaced by 4
	})

	sl := slog.New(handler.WithAttrs(append([]slog.Attr{
		slog.String("service", service),
	}, attrs...)))

	return &Logger{sl: sl}
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.sl.DebugContext(ctx, msg, args...)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.sl.InfoContext(ctx, msg, args...)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.sl.WarnContext(ctx, msg, args...)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.sl.ErrorContext(ctx, msg, args...)
}

// With returns a logger carrying additional key/value pairs.
func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{sl: l.sl.With(args...)}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return New(io.Discard, LevelError, "test", nil)
}
