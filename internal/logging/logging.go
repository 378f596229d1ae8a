// Package logging builds the slog loggers depscan writes diagnostics with.
// Records are rendered by a charmbracelet/log handler on stderr.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// LevelQuiet is above every standard level and suppresses all output.
const LevelQuiet = slog.Level(100)

// Options configures New.
type Options struct {
	Level  slog.Level
	Format string // "text" (default), "json" or "logfmt"
	Prefix string
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Level:     log.Level(opts.Level),
		Prefix:    opts.Prefix,
		Formatter: formatter(opts.Format),
	})
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func formatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// LevelFromString converts a string to a slog.Level.
// Supports: debug, info, warn, error, quiet (case-insensitive).
// Returns slog.LevelWarn for unrecognized strings.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "quiet", "off":
		return LevelQuiet
	default:
		return slog.LevelWarn
	}
}

// LevelFromVerbosity applies CLI flags on top of a configured level:
// quiet wins, -v lowers to info, -vv to debug.
func LevelFromVerbosity(base slog.Level, verbosity int, quiet bool) slog.Level {
	if quiet {
		return LevelQuiet
	}
	switch {
	case verbosity >= 2:
		return slog.LevelDebug
	case verbosity == 1 && base > slog.LevelInfo:
		return slog.LevelInfo
	default:
		return base
	}
}
