package tools

import (
	"context"
	"fmt"

	"github.com/MeKo-Tech/pagekit/internal/batch"
	"github.com/MeKo-Tech/pagekit/internal/pdf"
)

// Compress rewrites every document with pdfcpu's optimizer and writes
// "<ts>_compressed_<file>". A non-zero imageQuality also re-encodes the
// embedded JPEG images at that quality.
func Compress(imageQuality int) (batch.ProcessFunc, error) {
	if imageQuality < 0 || imageQuality > 100 {
		return nil, fmt.Errorf("image quality must be between 1 and 100 (0 keeps images), got %d", imageQuality)
	}

	return func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		out := doc.Naming.Prefixed(doc.Path, "compressed")
		if imageQuality == 0 {
			if err := pdf.Optimize(doc.Path, out, nil); err != nil {
				return batch.Outcome{}, err
			}
		} else {
			replaced, err := pdf.RecompressImages(doc.Path, out, imageQuality, nil)
			if err != nil {
				return batch.Outcome{}, err
			}
			doc.Logger.Debug("images re-encoded", "quality", imageQuality, "images", replaced)
		}

		before, after := fileSize(doc.Path), fileSize(out)
		attrs := []any{"size_before", before, "size_after", after}
		if before > 0 {
			attrs = append(attrs, "ratio", float64(after)/float64(before))
		}
		doc.Logger.Info("document compressed", attrs...)

		count, err := pdf.PageCount(out)
		if err != nil {
			return batch.Outcome{}, err
		}
		return batch.Outcome{Outputs: []string{out}, Pages: count}, nil
	}, nil
}

// Repair tries each recovery strategy in turn and writes
// "<ts>_<stem>_repaired.pdf" with the first readable result.
func Repair() batch.ProcessFunc {
	return func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		out := doc.Naming.Output(doc.Path, "repaired", ".pdf")
		strategy, err := pdf.Repair(doc.Path, out, nil)
		if err != nil {
			return batch.Outcome{}, err
		}
		doc.Logger.Info("document repaired", "strategy", strategy)

		count, err := pdf.PageCount(out)
		if err != nil {
			return batch.Outcome{}, err
		}
		return batch.Outcome{Outputs: []string{out}, Pages: count}, nil
	}
}
