package main

import (
	"log/slog"
	"os"
	"strings"
)

// parseLogLevel converts a config level name to a slog level.
// Unknown names fall back to info; config validation rejects them earlier.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// setupLogger creates the process logger. debug forces the debug level so
// navigation diagnostics are visible.
func setupLogger(level string, debug bool) *slog.Logger {
	slogLevel := parseLogLevel(level)
	if debug {
		slogLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}
