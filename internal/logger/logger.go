// Package logger builds the slog loggers used by frontbundle.
//
// Two sinks are supported:
//
//	console (default)  colored text on stderr, plain when stderr is not a TTY
//	file (LOG_FILE)    JSON lines in a size-rotated file
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the JSON log file.
const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
	maxLogAgeDays = 28
)

// NewConsoleLogger creates a text slog.Logger on f. Colors are enabled only
// when f is a terminal.
func NewConsoleLogger(f *os.File, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(colorable.NewColorable(f), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !IsTerminal(f),
	}))
}

// NewFileLogger creates a JSON slog.Logger that appends to path, rotating it by size.
// The parent directory is created if it does not exist. The returned
// io.Closer releases the file.
func NewFileLogger(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, nil, fmt.Errorf("creating log directory for %q: %w", path, err)
	}
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), w, nil
}

// New returns the file logger when logFile is set and the stderr console
// logger otherwise. The closer is a no-op for the console.
func New(logFile string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if logFile == "" {
		return NewConsoleLogger(os.Stderr, level), nopCloser{}, nil
	}
	return NewFileLogger(logFile, level)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
