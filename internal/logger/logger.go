package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cooperative-society-ledger/internal/config"
)

// NewLogger creates the process-wide JSON logger writing to stdout
func NewLogger(cfg *config.Config) *slog.Logger {
	return NewLoggerWithWriter(cfg, os.Stdout)
}

// NewLoggerWithWriter builds the JSON logger on top of w. Every record carries
// the application name and environment so the API gateway and the event
// processor can share one log stream.
func NewLoggerWithWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.Logging.Level)

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	logger := slog.New(slog.NewJSONHandler(w, opts))
	if cfg.Application.Name != "" {
		logger = logger.With("app", cfg.Application.Name)
	}
	if cfg.Application.Env != "" {
		logger = logger.With("env", cfg.Application.Env)
	}

	logger.Info("logger initialized", "level", level)

	return logger
}

// ParseLevel maps a LOG_LEVEL value to a slog level, defaulting to info
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
