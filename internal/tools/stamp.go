package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/MeKo-Tech/pagekit/internal/batch"
	"github.com/MeKo-Tech/pagekit/internal/geometry"
	"github.com/MeKo-Tech/pagekit/internal/imageio"
	"github.com/MeKo-Tech/pagekit/internal/pagerange"
	"github.com/MeKo-Tech/pagekit/internal/pdf"
)

// NumberOptions configures the page number tool.
type NumberOptions struct {
	Corner   geometry.Corner
	Margin   float64
	FontSize int
	// Ranges limits numbering to these pages. Nil numbers every page.
	Ranges pagerange.List
}

// Number stamps page numbers and writes "<ts>_<stem>_numbered.pdf".
func Number(opts NumberOptions) (batch.ProcessFunc, error) {
	if opts.Margin < 0 {
		return nil, fmt.Errorf("margin must not be negative, got %.2f", opts.Margin)
	}
	if opts.FontSize < 0 {
		return nil, fmt.Errorf("font size must be positive, got %d", opts.FontSize)
	}

	return func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		count, err := pdf.PageCount(doc.Path)
		if err != nil {
			return batch.Outcome{}, err
		}

		valid, warnings := resolveRanges(doc, opts.Ranges, count)
		if valid.Len() == 0 {
			return batch.Outcome{RangeWarnings: warnings, Skipped: true, SkipReason: "no valid pages to number"}, nil
		}

		out := doc.Naming.Output(doc.Path, "numbered", ".pdf")
		stamped, err := pdf.AddPageNumbers(doc.Path, out, pdf.NumberOptions{
			Corner:   opts.Corner,
			Margin:   opts.Margin,
			FontSize: opts.FontSize,
			Pages:    dedupe(oneBasedPages(valid)),
		}, nil)
		if err != nil {
			return batch.Outcome{RangeWarnings: warnings}, err
		}
		doc.Logger.Debug("page numbers added", "corner", opts.Corner.String(), "stamped", stamped)

		return batch.Outcome{Outputs: []string{out}, Pages: count, RangeWarnings: warnings}, nil
	}, nil
}

// Watermark places image behind every page and writes
// "<ts>_<stem>_watermarked.pdf". The image is decoded and downscaled once,
// into a scratch folder the returned cleanup removes.
func Watermark(image string, opacity float64, maxPixels int) (batch.ProcessFunc, func(), error) {
	if opacity < 0 || opacity > 1 {
		return nil, nil, fmt.Errorf("opacity must be between 0 and 1, got %.2f", opacity)
	}

	tmp, err := os.MkdirTemp("", "pagekit-watermark-*")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create temp folder: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tmp) }

	prepared, err := imageio.PrepareWatermark(image, maxPixels, tmp)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	fn := func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		out := doc.Naming.Output(doc.Path, "watermarked", ".pdf")
		if err := pdf.AddImageWatermark(doc.Path, out, prepared, opacity, nil); err != nil {
			return batch.Outcome{}, err
		}
		count, err := pdf.PageCount(out)
		if err != nil {
			return batch.Outcome{}, err
		}
		doc.Logger.Debug("watermark added", "image", image, "opacity", opacity)
		return batch.Outcome{Outputs: []string{out}, Pages: count}, nil
	}
	return fn, cleanup, nil
}

// Resize fits every page onto the named paper size and writes
// "<ts>_<stem>_<size>.pdf".
func Resize(sizeName string) (batch.ProcessFunc, error) {
	target, err := geometry.LookupSize(sizeName)
	if err != nil {
		return nil, err
	}
	sizeName = strings.ToLower(strings.TrimSpace(sizeName))

	return func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		out := doc.Naming.Output(doc.Path, sizeName, ".pdf")
		transforms, err := pdf.FitToSize(doc.Path, out, target, nil)
		if err != nil {
			return batch.Outcome{}, err
		}
		for i, t := range transforms {
			doc.Logger.Debug("page resized", "page", i+1, "scale", t.Scale,
				"x_offset", t.XOffset, "y_offset", t.YOffset)
		}
		return batch.Outcome{Outputs: []string{out}, Pages: len(transforms)}, nil
	}, nil
}

// dedupe keeps the first occurrence of every page.
func dedupe(pages []int) []int {
	seen := make(map[int]bool, len(pages))
	out := pages[:0:0]
	for _, p := range pages {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
