package batch

import (
	"log/slog"
	"time"
)

// Timer measures one named unit of work. Stop is idempotent: the first call
// fixes the duration.
type Timer struct {
	name     string
	start    time.Time
	duration time.Duration
	stopped  bool
}

// StartTimer starts a timer named name.
func StartTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	if !t.stopped {
		t.duration = time.Since(t.start)
		t.stopped = true
	}
	return t.duration
}

// Elapsed returns the running time, or the final duration once stopped.
func (t *Timer) Elapsed() time.Duration {
	if t.stopped {
		return t.duration
	}
	return time.Since(t.start)
}

// Name returns the timer name.
func (t *Timer) Name() string {
	return t.name
}

// LogValue renders the timer as a log group.
func (t *Timer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", t.name),
		slog.Duration("elapsed", t.Elapsed().Round(time.Microsecond)),
	)
}
