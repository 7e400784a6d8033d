package config

import (
	"io"
	"log/slog"
)

// NewLogger returns the diagnostics logger. Debug output is only emitted when
// debug is set; otherwise only warnings and errors reach w.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
