package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ProgressCallback receives progress events from Runner.Run.
type ProgressCallback interface {
	// OnStart is called once with the number of documents to process.
	OnStart(total int)

	// OnProgress is called after each document, successful or not.
	OnProgress(current, total int, file string)

	// OnError is called when a document fails.
	OnError(current int, file string, err error)

	// OnComplete is called when the run ends.
	OnComplete()
}

// NoOpProgressCallback implements ProgressCallback but does nothing.
type NoOpProgressCallback struct{}

func (NoOpProgressCallback) OnStart(int)                 {}
func (NoOpProgressCallback) OnProgress(int, int, string) {}
func (NoOpProgressCallback) OnError(int, string, error)  {}
func (NoOpProgressCallback) OnComplete()                 {}

// ConsoleProgressCallback draws a progress bar on a terminal.
type ConsoleProgressCallback struct {
	writer         io.Writer
	prefix         string
	width          int
	lastUpdate     time.Time
	updateInterval time.Duration
	mutex          sync.Mutex
	startTime      time.Time
}

// NewConsoleProgressCallback creates a console progress bar writing to writer
// (stderr when nil).
func NewConsoleProgressCallback(writer io.Writer, prefix string) *ConsoleProgressCallback {
	if writer == nil {
		writer = os.Stderr
	}
	return &ConsoleProgressCallback{
		writer:         writer,
		prefix:         prefix,
		width:          40,
		updateInterval: 100 * time.Millisecond,
	}
}

func (c *ConsoleProgressCallback) OnStart(total int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.startTime = time.Now()
	c.lastUpdate = time.Time{}

	_, _ = fmt.Fprintf(c.writer, "%s0/%d (0.0%%)\n", c.prefix, total)
}

func (c *ConsoleProgressCallback) OnProgress(current, total int, file string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	if now.Sub(c.lastUpdate) < c.updateInterval && current < total {
		return
	}
	c.lastUpdate = now

	c.drawProgressBar(current, total, filepath.Base(file))
}

func (c *ConsoleProgressCallback) OnError(current int, file string, err error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, _ = fmt.Fprintf(c.writer, "\n%sError at %d (%s): %v\n", c.prefix, current, filepath.Base(file), err)
}

func (c *ConsoleProgressCallback) OnComplete() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	elapsed := time.Since(c.startTime)
	_, _ = fmt.Fprintf(c.writer, "\n%sCompleted in %v\n", c.prefix, elapsed.Round(time.Millisecond))
}

func (c *ConsoleProgressCallback) drawProgressBar(current, total int, name string) {
	if total == 0 {
		return
	}

	percent := float64(current) / float64(total) * 100.0
	filled := c.width * current / total

	bar := strings.Repeat("█", filled) + strings.Repeat("░", c.width-filled)
	_, _ = fmt.Fprintf(c.writer, "\r%s[%s] %d/%d (%.1f%%) %s", c.prefix, bar, current, total, percent, name)
}

// LogProgressCallback reports progress through slog, one record per document.
type LogProgressCallback struct {
	logger    *slog.Logger
	level     slog.Level
	startTime time.Time
}

// NewLogProgressCallback creates a log-based progress reporter.
func NewLogProgressCallback(logger *slog.Logger, level slog.Level) *LogProgressCallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogProgressCallback{logger: logger, level: level}
}

func (l *LogProgressCallback) OnStart(total int) {
	l.startTime = time.Now()
	l.logger.Log(context.Background(), l.level, "starting batch", "total", total)
}

func (l *LogProgressCallback) OnProgress(current, total int, file string) {
	l.logger.Log(context.Background(), l.level, "progress",
		"current", current,
		"total", total,
		"file", filepath.Base(file),
		"elapsed", time.Since(l.startTime).Round(time.Millisecond),
	)
}

func (l *LogProgressCallback) OnError(current int, file string, err error) {
	l.logger.Log(context.Background(), slog.LevelError, "document failed",
		"current", current, "file", filepath.Base(file), "error", err)
}

func (l *LogProgressCallback) OnComplete() {
	l.logger.Log(context.Background(), l.level, "batch completed",
		"elapsed", time.Since(l.startTime).Round(time.Millisecond))
}

// MultiProgressCallback fans events out to several callbacks.
type MultiProgressCallback struct {
	callbacks []ProgressCallback
}

// NewMultiProgressCallback creates a callback that reports to all callbacks.
func NewMultiProgressCallback(callbacks ...ProgressCallback) *MultiProgressCallback {
	return &MultiProgressCallback{callbacks: callbacks}
}

func (m *MultiProgressCallback) OnStart(total int) {
	for _, cb := range m.callbacks {
		cb.OnStart(total)
	}
}

func (m *MultiProgressCallback) OnProgress(current, total int, file string) {
	for _, cb := range m.callbacks {
		cb.OnProgress(current, total, file)
	}
}

func (m *MultiProgressCallback) OnError(current int, file string, err error) {
	for _, cb := range m.callbacks {
		cb.OnError(current, file, err)
	}
}

func (m *MultiProgressCallback) OnComplete() {
	for _, cb := range m.callbacks {
		cb.OnComplete()
	}
}
