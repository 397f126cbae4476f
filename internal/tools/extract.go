package tools

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/MeKo-Tech/pagekit/internal/batch"
	"github.com/MeKo-Tech/pagekit/internal/pagerange"
	"github.com/MeKo-Tech/pagekit/internal/pdf"
)

// ExtractText writes the text of the selected pages to "<ts>_<stem>.txt",
// one "--- Page N ---" section per page with text. A nil list reads every
// page. Documents without any text produce no file.
func ExtractText(list pagerange.List) batch.ProcessFunc {
	return func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		count, err := pdf.PageCount(doc.Path)
		if err != nil {
			return batch.Outcome{}, err
		}
		valid, warnings := resolveRanges(doc, list, count)
		if valid.Len() == 0 {
			return batch.Outcome{RangeWarnings: warnings, Skipped: true, SkipReason: "no valid pages to read"}, nil
		}

		pages, err := pdf.ExtractText(doc.Path, dedupe(oneBasedPages(valid)))
		if err != nil {
			return batch.Outcome{RangeWarnings: warnings}, err
		}
		text := pdf.FormatPageText(pages)
		if text == "" {
			doc.Logger.Warn("no text found")
			return batch.Outcome{RangeWarnings: warnings, Skipped: true, SkipReason: "no text found"}, nil
		}

		out := doc.Naming.Output(doc.Path, "", ".txt")
		if err := os.WriteFile(out, []byte(text), 0o600); err != nil {
			return batch.Outcome{RangeWarnings: warnings}, fmt.Errorf("failed to write text file: %w", err)
		}
		return batch.Outcome{Outputs: []string{out}, RangeWarnings: warnings}, nil
	}
}

// ExtractImages saves the images embedded in the selected pages as
// "<ts>_<stem>_p<page>_<n>_<name>". A nil list reads every page.
func ExtractImages(list pagerange.List) batch.ProcessFunc {
	return func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		count, err := pdf.PageCount(doc.Path)
		if err != nil {
			return batch.Outcome{}, err
		}
		valid, warnings := resolveRanges(doc, list, count)
		if valid.Len() == 0 {
			return batch.Outcome{RangeWarnings: warnings, Skipped: true, SkipReason: "no valid pages to read"}, nil
		}

		scratch, cleanup, err := workDir(doc.Naming.OutputDir, NameExtractImages)
		if err != nil {
			return batch.Outcome{RangeWarnings: warnings}, err
		}
		defer cleanup()

		images, err := pdf.ExtractImages(doc.Path, scratch, dedupe(oneBasedPages(valid)), nil)
		if err != nil {
			return batch.Outcome{RangeWarnings: warnings}, err
		}
		if len(images) == 0 {
			doc.Logger.Warn("no images found")
			return batch.Outcome{RangeWarnings: warnings, Skipped: true, SkipReason: "no images found"}, nil
		}

		stem := doc.Naming.Stem(doc.Path)
		outcome := batch.Outcome{RangeWarnings: warnings}
		for _, img := range images {
			name := stem + "_p" + strconv.Itoa(img.Page) + "_" + strconv.Itoa(img.Index) + "_" + img.Name
			out := doc.Naming.Named(name)
			if err := os.Rename(img.Path, out); err != nil {
				return outcome, fmt.Errorf("failed to move extracted image: %w", err)
			}
			outcome.Outputs = append(outcome.Outputs, out)
		}
		doc.Logger.Debug("images extracted", "count", len(outcome.Outputs))
		return outcome, nil
	}
}
