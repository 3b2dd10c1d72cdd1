// Package logging provides structured logging functionality.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "trade-journal", "logs", "journal.log"),
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	// Console goes to stderr so command output on stdout stays pipeable.
	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	// File writer with rotation
	if cfg.File && cfg.FilePath != "" {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			})
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = io.Discard
	case 1:
		writer = writers[0]
	default:
		writer = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(writer).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a config level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ContextKey is the type for context keys.
type ContextKey string

const (
	// LoggerKey is the context key for the logger.
	LoggerKey ContextKey = "logger"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// WithOwner adds an owner id to the logger context.
func WithOwner(logger zerolog.Logger, ownerID string) zerolog.Logger {
	return logger.With().Str("owner", ownerID).Logger()
}

// WithOperation adds an operation name to the logger context.
func WithOperation(logger zerolog.Logger, operation string) zerolog.Logger {
	return logger.With().Str("operation", operation).Logger()
}

// LogImport logs the summary of one import run.
func LogImport(logger zerolog.Logger, succeeded, failed, skipped int, duration time.Duration) {
	logger.Info().
		Str("event", "import").
		Int("succeeded", succeeded).
		Int("failed", failed).
		Int("skipped", skipped).
		Dur("duration", duration).
		Msg("Import finished")
}

// LogRowFailure logs a single rejected import row.
func LogRowFailure(logger zerolog.Logger, row int, field, reason string) {
	logger.Debug().
		Str("event", "row_failed").
		Int("row", row).
		Str("field", field).
		Str("reason", reason).
		Msg("Row rejected")
}

// LogStats logs a statistics computation.
func LogStats(logger zerolog.Logger, trades int, period string, duration time.Duration) {
	logger.Debug().
		Str("event", "stats").
		Int("trades", trades).
		Str("period", period).
		Dur("duration", duration).
		Msg("Stats computed")
}
