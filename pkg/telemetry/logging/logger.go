// Package logging constructs the structured slog logger the rest of the
// process uses. Components attach themselves with
// slog.Default().With("component", ...).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"sigil-hq/sigil/pkg/config"
)

// New creates a slog.Logger from configuration. A nil writer defaults to
// stderr.
func New(cfg config.LoggingConfig, writer io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if writer == nil {
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	case "text", "":
		handler = slog.NewTextHandler(writer, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return slog.New(handler), nil
}

// Setup creates a logger from configuration and installs it as the
// process-wide default.
func Setup(cfg config.LoggingConfig) (*slog.Logger, error) {
	logger, err := New(cfg, nil)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}
