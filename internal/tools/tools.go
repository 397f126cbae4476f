// Package tools holds one document processor per pagekit subcommand. Each
// constructor validates its arguments up front and returns a function the
// batch runner applies to every input file.
package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/MeKo-Tech/pagekit/internal/batch"
	"github.com/MeKo-Tech/pagekit/internal/imageio"
	"github.com/MeKo-Tech/pagekit/internal/pagerange"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tool names, used as subcommand names, metric labels and log attributes.
const (
	NameSelect        = "select"
	NameNumber        = "number"
	NameResize        = "resize"
	NameRotate        = "rotate"
	NameWatermark     = "watermark"
	NameMerge         = "merge"
	NameSplit         = "split"
	NameCompress      = "compress"
	NameEncrypt       = "encrypt"
	NameDecrypt       = "decrypt"
	NameExtractText   = "extract-text"
	NameExtractImages = "extract-images"
	NameConvertImages = "convert-images"
	NameRepair        = "repair"
)

// PDFExtensions are the inputs of every PDF tool.
var PDFExtensions = []string{".pdf"}

// ImageExtensions are the inputs of the image conversion tool.
var ImageExtensions = imageio.SupportedExtensions

// Title turns a tool name into a heading, e.g. "extract-text" into
// "Extract Text".
func Title(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}

// resolveRanges validates list against a document with pageCount pages.
// A nil list selects every page. Each dropped range is logged as a warning
// and returned as a warning string for the run report.
func resolveRanges(doc batch.Document, list pagerange.List, pageCount int) (pagerange.List, []string) {
	if list == nil {
		if pageCount == 0 {
			return pagerange.List{}, nil
		}
		return pagerange.List{{Start: 0, End: pageCount - 1}}, nil
	}

	valid, skipped := list.Resolve(pageCount)
	warnings := make([]string, len(skipped))
	for i, s := range skipped {
		doc.Logger.Warn("page range out of bounds, skipping",
			"range", s.Range.String(), "page_count", s.PageCount)
		warnings[i] = s.Error()
	}
	return valid, warnings
}

// oneBasedPages expands a resolved list to 1-based pages in list order.
func oneBasedPages(list pagerange.List) []int {
	zero := list.Pages()
	pages := make([]int, len(zero))
	for i, p := range zero {
		pages[i] = p + 1
	}
	return pages
}

// workDir creates a hidden scratch folder inside the output folder, so that
// moving finished artifacts never crosses file systems.
func workDir(outputDir, tool string) (string, func(), error) {
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return "", nil, fmt.Errorf("failed to create output folder: %w", err)
	}
	dir, err := os.MkdirTemp(outputDir, "."+tool+"-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create work folder: %w", err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

func fileSize(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}
