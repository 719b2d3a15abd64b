// Package log provides a structured logging interface for blend.
//
// The Logger interface is a small, slog-compatible surface so that library
// code does not depend on one backend. The default backend is zerolog
// (NewZerologProvider); tests capture output with NewTestLogger.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("ensemble").With(
//	    log.ModelNameKey, "Ensemble",
//	    log.EstimatorIDKey, runID,
//	)
//	logger.Info("out-of-fold predictions complete",
//	    log.FoldsKey, 5,
//	    log.ColumnsKey, 3,
//	)

package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are passed as alternating key/value pairs. With returns a child
// logger that carries the given fields on every record.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. An error value among the fields is
	// rendered with its message.
	Error(msg string, fields ...any)

	// With returns a logger that includes the given fields in all records.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LevelFromVerbosity maps a verbosity count to a level: 0 keeps warnings and
// errors, 1 adds info, 2 and above add debug.
func LevelFromVerbosity(verbose int) Level {
	switch {
	case verbose <= 0:
		return LevelWarn
	case verbose == 1:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// LoggerProvider creates and configures loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum level for loggers created by this provider.
	SetLevel(level Level)
}
