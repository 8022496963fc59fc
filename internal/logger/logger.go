// Package logger configures diagnostic logging for docqa.
// Output is quiet by default; verbose mode turns on debug records that trace
// each step of the answering pipeline.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a text logger writing to w. Verbose enables debug records;
// otherwise only warnings and errors are emitted.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Setup installs the default logger. When path is non-empty, records are
// appended to that file instead of stderr and the returned closer must be
// called on exit.
func Setup(path string, verbose bool) (io.Closer, error) {
	if path == "" {
		slog.SetDefault(New(os.Stderr, verbose))
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(New(f, verbose))
	return f, nil
}
