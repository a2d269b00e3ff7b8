package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON in production deployments,
// human-readable text otherwise. It also becomes the slog default so
// library code that logs through slog lands in the same stream.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}

	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
