// Package metrics records per-run document counters for pagekit and can
// export them in the Prometheus text format for the node-exporter textfile
// collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Document outcome labels.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Recorder owns a private registry so that repeated runs in one process
// (tests, for instance) never collide on the default registry.
type Recorder struct {
	registry *prometheus.Registry

	documents     *prometheus.CounterVec
	pagesWritten  *prometheus.CounterVec
	rangeWarnings *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with all pagekit collectors registered.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		documents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagekit_documents_total",
				Help: "Total number of documents processed",
			},
			[]string{"tool", "status"}, // status: success, skipped, failed
		),
		pagesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagekit_pages_written_total",
				Help: "Total number of pages written to output documents",
			},
			[]string{"tool"},
		),
		rangeWarnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagekit_range_warnings_total",
				Help: "Page ranges skipped because they did not fit a document",
			},
			[]string{"tool"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagekit_document_duration_seconds",
				Help:    "Time spent processing a single document",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"tool"},
		),
	}
}

// RecordDocument records the outcome of one document.
func (r *Recorder) RecordDocument(tool, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(tool, status).Inc()
	r.duration.WithLabelValues(tool).Observe(d.Seconds())
}

// AddPages adds n written pages for tool.
func (r *Recorder) AddPages(tool string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.pagesWritten.WithLabelValues(tool).Add(float64(n))
}

// AddRangeWarnings adds n skipped page ranges for tool.
func (r *Recorder) AddRangeWarnings(tool string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.rangeWarnings.WithLabelValues(tool).Add(float64(n))
}

// Gatherer exposes the private registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create metrics folder: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
