package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MeKo-Tech/pagekit/internal/metrics"
)

// ItemResult is the outcome of one document (or one group for merge).
type ItemResult struct {
	Tool       string        `json:"tool"`
	Input      string        `json:"input,omitempty"`
	Inputs     []string      `json:"inputs,omitempty"`
	Outputs    []string      `json:"outputs"`
	Pages      int           `json:"pages"`
	Warnings   []string      `json:"warnings,omitempty"`
	Skipped    bool          `json:"skipped"`
	SkipReason string        `json:"skip_reason,omitempty"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration_ns"`

	Err error `json:"-"`
}

func newItemResult(tool, input string, o Outcome, err error, d time.Duration) *ItemResult {
	item := &ItemResult{
		Tool:       tool,
		Input:      input,
		Outputs:    o.Outputs,
		Pages:      o.Pages,
		Warnings:   o.RangeWarnings,
		Skipped:    o.Skipped,
		SkipReason: o.SkipReason,
		Duration:   d,
		Err:        err,
	}
	if item.Outputs == nil {
		item.Outputs = []string{}
	}
	if err != nil {
		item.Error = err.Error()
	}
	return item
}

// Status returns the metrics status label of the item.
func (i *ItemResult) Status() string {
	switch {
	case i.Err != nil:
		return metrics.StatusFailed
	case i.Skipped:
		return metrics.StatusSkipped
	default:
		return metrics.StatusSuccess
	}
}

// Result holds the results of one run.
type Result struct {
	Tool      string        `json:"tool"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Items     []*ItemResult `json:"items"`
}

// Counts returns the number of succeeded, skipped and failed items.
func (r *Result) Counts() (succeeded, skipped, failed int) {
	for _, it := range r.Items {
		switch it.Status() {
		case metrics.StatusFailed:
			failed++
		case metrics.StatusSkipped:
			skipped++
		default:
			succeeded++
		}
	}
	return succeeded, skipped, failed
}

// Failed returns the number of failed items.
func (r *Result) Failed() int {
	_, _, failed := r.Counts()
	return failed
}

// Outputs lists every artifact written during the run.
func (r *Result) Outputs() []string {
	var out []string
	for _, it := range r.Items {
		out = append(out, it.Outputs...)
	}
	return out
}

// Format renders the result as text, json or csv.
func (r *Result) Format(format string) (string, error) {
	switch format {
	case "json":
		return r.formatJSON()
	case "csv":
		return r.formatCSV()
	case "", "text":
		return r.formatText(), nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", format)
	}
}

func (r *Result) formatJSON() (string, error) {
	bts, err := json.MarshalIndent(r, "", "  ")
	return string(bts), err
}

func (r *Result) formatCSV() (string, error) {
	var output strings.Builder
	writer := csv.NewWriter(&output)

	rows := [][]string{{"tool", "input", "status", "outputs", "pages", "warnings", "error", "duration_ms"}}
	for _, it := range r.Items {
		input := it.Input
		if input == "" {
			input = strings.Join(it.Inputs, ";")
		}
		rows = append(rows, []string{
			it.Tool,
			input,
			it.Status(),
			strings.Join(it.Outputs, ";"),
			strconv.Itoa(it.Pages),
			strings.Join(it.Warnings, ";"),
			it.Error,
			strconv.FormatInt(it.Duration.Milliseconds(), 10),
		})
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), writer.Error()
}

func (r *Result) formatText() string {
	var output strings.Builder
	for i, it := range r.Items {
		if i > 0 {
			output.WriteString("\n")
		}
		name := it.Input
		if name == "" {
			name = fmt.Sprintf("%d files", len(it.Inputs))
		}
		fmt.Fprintf(&output, "# %s [%s]\n", name, it.Status())
		for _, o := range it.Outputs {
			fmt.Fprintf(&output, "  -> %s\n", o)
		}
		for _, w := range it.Warnings {
			fmt.Fprintf(&output, "  warning: %s\n", w)
		}
		if it.SkipReason != "" {
			fmt.Fprintf(&output, "  skipped: %s\n", it.SkipReason)
		}
		if it.Error != "" {
			fmt.Fprintf(&output, "  error: %s\n", it.Error)
		}
	}
	return output.String()
}

// WriteReport writes the formatted result to w.
func (r *Result) WriteReport(w io.Writer, format string) error {
	output, err := r.Format(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}
	_, err = io.WriteString(w, output)
	return err
}

// SaveReport writes the formatted result to path.
func (r *Result) SaveReport(format, path string) error {
	output, err := r.Format(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create report folder: %w", err)
	}
	if err := os.WriteFile(path, []byte(output), 0o600); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// PrintStats prints processing statistics.
func (r *Result) PrintStats(w io.Writer) {
	ok, skipped, failed := r.Counts()
	pages := 0
	for _, it := range r.Items {
		pages += it.Pages
	}

	_, _ = fmt.Fprintf(w, "\nProcessing Statistics (%s):\n", r.Tool)
	_, _ = fmt.Fprintf(w, "  Documents: %d\n", len(r.Items))
	_, _ = fmt.Fprintf(w, "  Succeeded: %d\n", ok)
	_, _ = fmt.Fprintf(w, "  Skipped: %d\n", skipped)
	_, _ = fmt.Fprintf(w, "  Failed: %d\n", failed)
	_, _ = fmt.Fprintf(w, "  Pages written: %d\n", pages)
	_, _ = fmt.Fprintf(w, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
}
