package log

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Options configures logger construction.
type Options struct {
	// Verbose sets the log level to Debug; otherwise Warn.
	Verbose bool

	// Color enables the colorized tint handler. Use AutoColor to decide
	// from the output terminal.
	Color bool

	// JSON selects structured JSON output. Takes precedence over Color;
	// colorized JSON would defeat log aggregation.
	JSON bool

	// Root is the workspace root that path-valued attributes are made
	// relative to. Empty disables path rewriting.
	Root string
}

// AutoColor reports whether colorized output is appropriate for stderr.
// Pipes, files, and dumb terminals get plain text.
func AutoColor() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New creates a new slog.Logger writing to w.
//
// The handler chain is chosen from the options: a tint handler when Color
// is set, a JSON handler for log aggregation when JSON is set, and the
// standard text handler otherwise. Every variant is wrapped in a
// PathHandler so workspace paths log identically across machines.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	switch {
	case opts.JSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case opts.Color:
		handler = tint.NewHandler(w, &tint.Options{Level: level})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}

	return slog.New(NewPathHandler(handler, opts.Root))
}
