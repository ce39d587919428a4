package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide logger. JSON output is meant for log
// shipping in deployed environments; local runs keep the text handler.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
