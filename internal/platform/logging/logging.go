// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"hrperf/internal/platform/config"
)

// Setup installs a colored handler in development and a JSON handler in production.
func Setup(cfg config.Config) *slog.Logger {
	logger := New(os.Stderr, cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)
	return logger
}

func New(w io.Writer, environment, level string) *slog.Logger {
	lvl := ParseLevel(level)
	if environment == config.Production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
