// Package batch runs one pagekit tool over a list of input documents,
// sequentially, recording a per-document outcome for reporting.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MeKo-Tech/pagekit/internal/metrics"
)

// Document is the input handed to a ProcessFunc.
type Document struct {
	// Path of the input file.
	Path string
	// Index is the zero-based position of the document in the run.
	Index int
	// Naming builds output paths sharing the run timestamp.
	Naming Naming
	// Logger is tagged with the tool and the file.
	Logger *slog.Logger
}

// Outcome is what a ProcessFunc reports for one document.
type Outcome struct {
	Outputs []string
	// Pages is the number of pages written.
	Pages int
	// RangeWarnings names the page ranges skipped for this document.
	RangeWarnings []string
	// Skipped is set when the tool deliberately produced no output.
	Skipped    bool
	SkipReason string
}

// ProcessFunc transforms one document.
type ProcessFunc func(ctx context.Context, doc Document) (Outcome, error)

// GroupFunc turns all documents of a run into one outcome (merge).
type GroupFunc func(ctx context.Context, files []string, naming Naming, logger *slog.Logger) (Outcome, error)

// Runner processes documents one after another.
type Runner struct {
	Logger          *slog.Logger
	Metrics         *metrics.Recorder
	Progress        ProgressCallback
	Naming          Naming
	ContinueOnError bool
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) progress() ProgressCallback {
	if r.Progress == nil {
		return NoOpProgressCallback{}
	}
	return r.Progress
}

// Run applies fn to every file in order. A failing document is recorded and,
// when ContinueOnError is set, the run moves on; otherwise the first failure
// ends the run and is returned. Cancellation of ctx is checked between
// documents. The returned Result is never nil.
func (r *Runner) Run(ctx context.Context, tool string, files []string, fn ProcessFunc) (*Result, error) {
	log := r.logger()
	res := &Result{Tool: tool, StartedAt: time.Now()}
	runTimer := StartTimer(tool)
	defer func() { res.Duration = runTimer.Stop() }()

	if len(files) == 0 {
		log.Warn("no input files found")
		return res, nil
	}

	if err := r.ensureOutputDir(); err != nil {
		return res, err
	}

	log.Info("found input files", "count", len(files), "output", r.Naming.OutputDir)

	naming := r.Naming.ForInputs(files)
	progress := r.progress()
	progress.OnStart(len(files))
	defer progress.OnComplete()

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			log.Warn("run cancelled", "processed", i, "total", len(files))
			return res, err
		}

		item := r.processOne(ctx, tool, i, path, naming, fn)
		res.Items = append(res.Items, item)

		if item.Err != nil {
			progress.OnError(i+1, path, item.Err)
			if !r.ContinueOnError {
				progress.OnProgress(i+1, len(files), path)
				return res, fmt.Errorf("processing %s: %w", path, item.Err)
			}
		}
		progress.OnProgress(i+1, len(files), path)
	}

	ok, skipped, failed := res.Counts()
	log.Info("run completed", "processed", len(files), "succeeded", ok, "skipped", skipped, "failed", failed)
	return res, nil
}

// RunGroup runs a many-to-one tool over all files as a single item.
func (r *Runner) RunGroup(ctx context.Context, tool string, files []string, fn GroupFunc) (*Result, error) {
	log := r.logger()
	res := &Result{Tool: tool, StartedAt: time.Now()}
	runTimer := StartTimer(tool)
	defer func() { res.Duration = runTimer.Stop() }()

	if len(files) == 0 {
		log.Warn("no input files found")
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := r.ensureOutputDir(); err != nil {
		return res, err
	}

	progress := r.progress()
	progress.OnStart(1)
	defer progress.OnComplete()

	t := StartTimer(tool)
	outcome, err := fn(ctx, files, r.Naming, log)
	item := newItemResult(tool, "", outcome, err, t.Stop())
	item.Inputs = files
	res.Items = append(res.Items, item)
	r.record(tool, item)

	if err != nil {
		log.Error("failed to process documents", "count", len(files), "error", err)
		progress.OnError(1, tool, err)
		progress.OnProgress(1, 1, tool)
		return res, fmt.Errorf("%s: %w", tool, err)
	}
	log.Info("documents processed", "count", len(files), "outputs", item.Outputs, "timer", t)
	progress.OnProgress(1, 1, tool)
	return res, nil
}

func (r *Runner) processOne(ctx context.Context, tool string, index int, path string, naming Naming, fn ProcessFunc) *ItemResult {
	log := r.logger().With("file", path)
	log.Info("processing file")
	if stem := naming.Stem(path); stem != Stem(path) {
		log.Info("output name disambiguated", "stem", stem)
	}

	t := StartTimer(path)
	outcome, err := fn(ctx, Document{Path: path, Index: index, Naming: naming, Logger: log})
	item := newItemResult(tool, path, outcome, err, t.Stop())
	r.record(tool, item)

	switch {
	case err != nil:
		log.Error("failed to process file", "error", err, "timer", t)
	case item.Skipped:
		log.Warn("no output written", "reason", item.SkipReason, "timer", t)
	default:
		log.Info("file processed", "outputs", item.Outputs, "pages", item.Pages, "timer", t)
	}
	return item
}

func (r *Runner) record(tool string, item *ItemResult) {
	r.Metrics.RecordDocument(tool, item.Status(), item.Duration)
	r.Metrics.AddPages(tool, item.Pages)
	r.Metrics.AddRangeWarnings(tool, len(item.Warnings))
}

func (r *Runner) ensureOutputDir() error {
	if r.Naming.OutputDir == "" {
		return errors.New("output folder is not set")
	}
	if err := os.MkdirAll(r.Naming.OutputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	return nil
}
