// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init installs a text logger on stderr. Verbose forces debug level; otherwise level
// is parsed from a name and defaults to warn. Stdout is left to reports and MCP traffic.
func Init(verbose bool, level string) {
	slog.SetDefault(New(os.Stderr, verbose, level))
}

// New builds a text logger writing to w.
func New(w io.Writer, verbose bool, level string) *slog.Logger {
	lvl := ParseLevel(level)
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
