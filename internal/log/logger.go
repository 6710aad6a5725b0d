package log

import (
	"io"
	"log/slog"
)

// New creates a structured text logger writing to out.
// The default level is warn so the progress bars own the terminal;
// verbose mode lowers the level to debug and surfaces per-step detail.
func New(out io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
