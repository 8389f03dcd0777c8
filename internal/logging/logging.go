// Package logging configures the process-wide structured logger.
//
// The level is read from the LOG_LEVEL environment variable at startup
// (debug, info, warn, error; default info); output is logfmt text on
// stderr.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

func init() {
	defaultLogger = newLogger(parseLevel(os.Getenv("LOG_LEVEL")))
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// parseLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel replaces the process logger with one at the given level.
func SetLevel(level slog.Level) {
	defaultLogger = newLogger(level)
}

// SetVerbose switches between debug and info level, for command-line
// verbose flags.
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(slog.LevelDebug)
	} else {
		SetLevel(slog.LevelInfo)
	}
}

// Logger returns the process logger.
func Logger() *slog.Logger { return defaultLogger }

// With returns a logger carrying the given key-value attributes.
func With(args ...any) *slog.Logger { return defaultLogger.With(args...) }

// Debug logs at debug level with key-value attributes.
func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }

// Info logs at info level with key-value attributes.
func Info(msg string, args ...any) { defaultLogger.Info(msg, args...) }

// Warn logs at warn level with key-value attributes.
func Warn(msg string, args ...any) { defaultLogger.Warn(msg, args...) }

// Error logs at error level with key-value attributes.
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
