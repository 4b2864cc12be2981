// Package internal holds rsakit plumbing that is not part of the public API.
package internal

import (
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/lumberjack"
)

// ParseLogLevel converts a string log level name to a slog.Level.
// Recognized values: "debug", "info", "warning"/"warn", "error".
// Defaults to slog.LevelInfo for unrecognized values.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("unknown log level, defaulting to info", "level", level)
		return slog.LevelInfo
	}
}

// LogOptions selects the level and destination of a logger built by NewLogger.
type LogOptions struct {
	Level string
	// File, when set, receives JSON log lines with size-based rotation.
	// Otherwise text lines go to Stderr.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	// Stderr overrides os.Stderr for the text handler.
	Stderr io.Writer
}

// NewLogger builds a slog.Logger from opts.
func NewLogger(opts LogOptions) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLogLevel(opts.Level)}

	if opts.File != "" {
		writer := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		return slog.New(slog.NewJSONHandler(writer, handlerOpts))
	}

	w := opts.Stderr
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// SetupLogger configures the default slog logger with the given level string.
func SetupLogger(level string) {
	slog.SetDefault(NewLogger(LogOptions{Level: level}))
}
