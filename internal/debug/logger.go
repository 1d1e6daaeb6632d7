// Package debug holds the process-wide slog logger used by the CLI.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	logger = slog.New(slog.DiscardHandler)
	level  = new(slog.LevelVar)
	mu     sync.RWMutex
)

// Init configures the logger from a level name. "off" or an empty name
// discards everything; unknown names fall back to info.
func Init(name string) {
	InitWriter(name, os.Stderr)
}

// InitWriter is Init writing to w.
func InitWriter(name string, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" || name == "off" || name == "none" {
		logger = slog.New(slog.DiscardHandler)
		return
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		l = slog.LevelInfo
	}
	level.Set(l)
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Enabled reports whether debug records are written.
func Enabled() bool {
	return Logger().Enabled(context.Background(), slog.LevelDebug)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// Logger returns the underlying slog.Logger instance
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
