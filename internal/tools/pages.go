package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/pagekit/internal/batch"
	"github.com/MeKo-Tech/pagekit/internal/pagerange"
	"github.com/MeKo-Tech/pagekit/internal/pdf"
)

// Select writes the pages named by list, in list order, to
// "<ts>_<stem>_selected_pages.pdf". Ranges outside a document are skipped
// with a warning; a document left with no valid range produces no output.
func Select(list pagerange.List) (batch.ProcessFunc, error) {
	if len(list) == 0 {
		return nil, errors.New("select needs at least one page range")
	}

	return func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		count, err := pdf.PageCount(doc.Path)
		if err != nil {
			return batch.Outcome{}, err
		}

		valid, warnings := resolveRanges(doc, list, count)
		if valid.Len() == 0 {
			return batch.Outcome{
				RangeWarnings: warnings,
				Skipped:       true,
				SkipReason:    "no valid pages selected",
			}, nil
		}

		out := doc.Naming.Output(doc.Path, "selected_pages", ".pdf")
		if err := pdf.SelectPages(doc.Path, out, valid, nil); err != nil {
			return batch.Outcome{RangeWarnings: warnings}, err
		}
		doc.Logger.Debug("pages selected", "ranges", valid.String(), "pages", valid.Len())

		return batch.Outcome{Outputs: []string{out}, Pages: valid.Len(), RangeWarnings: warnings}, nil
	}, nil
}

// Rotate sets the selected pages to an absolute clockwise rotation of
// degrees and writes "<ts>_<stem>_rotated_<deg>.pdf". A nil list rotates
// every page.
func Rotate(degrees int, list pagerange.List) (batch.ProcessFunc, error) {
	if !pdf.ValidRotation(degrees) {
		return nil, fmt.Errorf("%w: got %d", pdf.ErrInvalidRotation, degrees)
	}

	return func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		count, err := pdf.PageCount(doc.Path)
		if err != nil {
			return batch.Outcome{}, err
		}

		valid, warnings := resolveRanges(doc, list, count)
		if valid.Len() == 0 {
			return batch.Outcome{RangeWarnings: warnings, Skipped: true, SkipReason: "no valid pages to rotate"}, nil
		}

		var selection []int
		if list != nil {
			selection = dedupe(oneBasedPages(valid))
		}

		out := doc.Naming.Output(doc.Path, "rotated_"+strconv.Itoa(degrees), ".pdf")
		if err := pdf.Rotate(doc.Path, out, degrees, selection, nil); err != nil {
			return batch.Outcome{RangeWarnings: warnings}, err
		}
		doc.Logger.Debug("pages rotated", "degrees", degrees, "ranges", valid.String())

		return batch.Outcome{Outputs: []string{out}, Pages: count, RangeWarnings: warnings}, nil
	}, nil
}

// Split cuts each document into parts of span pages named
// "<ts>_<stem>_part_<from>[-<to>].pdf".
func Split(span int) (batch.ProcessFunc, error) {
	if span < 1 {
		return nil, fmt.Errorf("split span must be at least 1, got %d", span)
	}

	return func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		scratch, cleanup, err := workDir(doc.Naming.OutputDir, NameSplit)
		if err != nil {
			return batch.Outcome{}, err
		}
		defer cleanup()

		parts, err := pdf.Split(doc.Path, scratch, span, nil)
		if err != nil {
			return batch.Outcome{}, err
		}

		stem := batch.Stem(doc.Path)
		outcome := batch.Outcome{}
		for _, part := range parts {
			suffix := "part_" + strings.TrimPrefix(batch.Stem(part), stem+"_")
			out := doc.Naming.Output(doc.Path, suffix, ".pdf")
			if err := os.Rename(part, out); err != nil {
				return outcome, fmt.Errorf("failed to move split part: %w", err)
			}
			n, err := pdf.PageCount(out)
			if err != nil {
				return outcome, err
			}
			outcome.Outputs = append(outcome.Outputs, out)
			outcome.Pages += n
		}
		return outcome, nil
	}, nil
}

// Merge sort orders.
const (
	SortByFilename = "filename"
	SortByDate     = "date"
)

// SortOrders lists the accepted merge sort orders.
func SortOrders() []string { return []string{SortByFilename, SortByDate} }

// SortFiles orders files for merging: by base file name, or by modification
// time (oldest first, ties broken by name).
func SortFiles(files []string, sortBy string) ([]string, error) {
	sorted := append([]string(nil), files...)

	switch sortBy {
	case "", SortByFilename:
		sort.SliceStable(sorted, func(i, j int) bool {
			return filepath.Base(sorted[i]) < filepath.Base(sorted[j])
		})
	case SortByDate:
		mtimes := make(map[string]int64, len(sorted))
		for _, f := range sorted {
			fi, err := os.Stat(f)
			if err != nil {
				return nil, fmt.Errorf("cannot read modification time of %s: %w", f, err)
			}
			mtimes[f] = fi.ModTime().UnixNano()
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			if mtimes[sorted[i]] != mtimes[sorted[j]] {
				return mtimes[sorted[i]] < mtimes[sorted[j]]
			}
			return filepath.Base(sorted[i]) < filepath.Base(sorted[j])
		})
	default:
		return nil, fmt.Errorf("invalid sort order %q (must be one of: %s)", sortBy, strings.Join(SortOrders(), ", "))
	}
	return sorted, nil
}

// Merge concatenates every input, ordered by sortBy, into
// "<ts>_merged_pdf.pdf".
func Merge(sortBy string) (batch.GroupFunc, error) {
	if _, err := SortFiles(nil, sortBy); err != nil {
		return nil, err
	}

	return func(_ context.Context, files []string, naming batch.Naming, logger *slog.Logger) (batch.Outcome, error) {
		ordered, err := SortFiles(files, sortBy)
		if err != nil {
			return batch.Outcome{}, err
		}
		for i, f := range ordered {
			logger.Info("merging file", "position", i+1, "file", f)
		}

		out := naming.Named("merged_pdf.pdf")
		if err := pdf.Merge(ordered, out, nil); err != nil {
			return batch.Outcome{}, err
		}
		n, err := pdf.PageCount(out)
		if err != nil {
			return batch.Outcome{}, err
		}
		return batch.Outcome{Outputs: []string{out}, Pages: n}, nil
	}, nil
}
