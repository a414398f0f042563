package app

import (
	"io"
	"log/slog"
	"strings"
)

const defaultLogLevel = "warn"

// newLogger writes text records to w. verbose forces debug; otherwise level
// is parsed like slog.Level text and falls back to warn.
func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelWarn
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
