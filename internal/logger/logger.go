// Package logger holds the process-wide structured logger. Packages log
// through logger.Log instead of threading a logger through every
// constructor.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

var Log *slog.Logger

func init() {
	// Safe default so tests and tools log without explicit setup; main
	// replaces this with the configured logger.
	Initialize("info", false)
}

// Initialize builds the global logger. JSON output is for production log
// shipping, text for local runs. Source locations are only recorded at
// debug level where the cost is acceptable.
func Initialize(level string, useJSON bool) {
	lvl := parseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
