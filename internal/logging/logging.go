// Package logging builds the slog logger used by every pagekit run. Records
// go to stderr and, when a log folder is configured, to a per-run
// "<timestamp>_log.log" file in that folder.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Options configures Setup.
type Options struct {
	Level   string // debug, info, warn, error
	Format  string // json or text
	Verbose bool   // forces debug
	// Dir receives the per-run log file. Empty disables the file.
	Dir string
	// Timestamp names the log file; it is the run timestamp shared with outputs.
	Timestamp string
	// Console defaults to os.Stderr.
	Console io.Writer
}

// Run is a configured logger plus the resources backing it.
type Run struct {
	Logger *slog.Logger
	ID     string
	// FilePath is the per-run log file, empty when disabled.
	FilePath string

	file *os.File
}

// Close flushes and closes the log file, if any.
func (r *Run) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// ParseLevel maps a level name to a slog.Level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

// Setup creates the run logger. Every record carries a run_id attribute.
func Setup(opts Options) (*Run, error) {
	level := ParseLevel(opts.Level)
	if opts.Verbose {
		level = slog.LevelDebug
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	run := &Run{ID: uuid.New().String()}
	w := console

	if opts.Dir != "" {
		if opts.Timestamp == "" {
			return nil, errors.New("log timestamp is required when a log folder is set")
		}
		if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log folder: %w", err)
		}
		run.FilePath = filepath.Join(opts.Dir, opts.Timestamp+"_log.log")
		f, err := os.OpenFile(run.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		run.file = f
		w = io.MultiWriter(console, f)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(opts.Format, "text") {
		handler = slog.NewTextHandler(w, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}

	run.Logger = slog.New(handler).With("run_id", run.ID)
	return run, nil
}

// ForTool returns a child logger tagged with the tool name.
func ForTool(logger *slog.Logger, tool string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With("tool", tool)
}

// Discard returns a logger that drops every record. Useful in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
