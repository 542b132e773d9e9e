// Package klog provides the kernel's leveled diagnostic logger.
//
// This is the kernel's own "leveled serial output" (spec.md's logger
// module) — distinct from the user-facing serial scheme, which is one of
// its consumers. Built on the standard library log/slog, matching the
// teacher's logging package.
package klog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

type ctxKey struct{}

var (
	defaultLogger *slog.Logger
	loggerMu      sync.RWMutex
)

func init() {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Format    string // "text" or "json"
	Output    io.Writer
	AddSource bool
}

// NewLogger creates a new structured logger with the given configuration.
func NewLogger(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	return slog.New(handler)
}

// SetDefault sets the default global logger.
func SetDefault(logger *slog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = logger
}

// Default returns the default global logger.
func Default() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// WithCPU returns a logger annotated with a CPU id.
func WithCPU(logger *slog.Logger, cpu uint32) *slog.Logger {
	return logger.With(slog.Uint64("cpu", uint64(cpu)))
}

// WithPID returns a logger annotated with a task PID.
func WithPID(logger *slog.Logger, pid uint64) *slog.Logger {
	return logger.With(slog.Uint64("pid", pid))
}

// WithScheme returns a logger annotated with a scheme name.
func WithScheme(logger *slog.Logger, name string) *slog.Logger {
	return logger.With(slog.String("scheme", name))
}

// WithTask returns a logger annotated with a task name and PID.
func WithTask(logger *slog.Logger, name string, pid uint64) *slog.Logger {
	return logger.With(slog.String("task", name), slog.Uint64("pid", pid))
}

// ContextWithLogger attaches a logger to ctx.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext retrieves the logger attached to ctx, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}

// ParseLevel parses a level name, defaulting to info on unrecognized input.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Info(msg string, args ...any)  { Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { Default().Warn(msg, args...) }
func Error(msg string, args ...any) { Default().Error(msg, args...) }
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
