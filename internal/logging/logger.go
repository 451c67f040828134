// Package logging owns the process-wide slog logger. A terminal UI owns
// stdout, so records go to a file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/tint"
)

// discard until Init is called, so tests and library use stay silent.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	if lvl, ok := levels[strings.ToLower(name)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// DefaultLogPath returns the default log file location.
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "ethereal", "ethereal.log")
}

// Init opens (appending) the log file at path and routes the package logger
// and slog's default logger to it. The caller closes the returned file.
func Init(path string, level slog.Level) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	SetOutput(f, level)
	return f, nil
}

// SetOutput points the logger at w.
func SetOutput(w io.Writer, level slog.Level) {
	logger = slog.New(tint.NewHandler(w, &tint.Options{
		Level:   level,
		NoColor: true,
	}))
	slog.SetDefault(logger)
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}
