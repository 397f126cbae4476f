package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MeKo-Tech/pagekit/internal/pagerange"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// SelectPages writes the pages named by list to out, in list order. Repeated
// and overlapping ranges produce repeated pages. The list must already be
// resolved against the document.
func SelectPages(in, out string, list pagerange.List, conf *model.Configuration) error {
	if list.Len() == 0 {
		return ErrEmptySelection
	}
	if err := api.CollectFile(in, out, list.PageSelection(), orDefault(conf)); err != nil {
		return fmt.Errorf("failed to collect pages %s: %w", list, err)
	}
	return nil
}

// ValidRotation reports whether degrees is a quarter turn pdfcpu accepts.
func ValidRotation(degrees int) bool {
	switch degrees {
	case 90, 180, 270:
		return true
	default:
		return false
	}
}

// Rotate sets the /Rotate entry of the selected 1-based pages (all pages when
// pages is empty) to degrees. The rotation is absolute: a page already turned
// by 90 ends at degrees, not at 90+degrees.
func Rotate(in, out string, degrees int, pages []int, conf *model.Configuration) error {
	if !ValidRotation(degrees) {
		return fmt.Errorf("%w: got %d", ErrInvalidRotation, degrees)
	}

	ctx, err := readContext(in, orDefault(conf))
	if err != nil {
		return err
	}
	if ctx.PageCount == 0 {
		return ErrNoPages
	}
	if len(pages) == 0 {
		pages = allPages(ctx.PageCount)
	}

	for _, p := range pages {
		if p < 1 || p > ctx.PageCount {
			return fmt.Errorf("page %d is outside the document (1-%d)", p, ctx.PageCount)
		}
		page, _, _, err := ctx.PageDict(p, false)
		if err != nil {
			return fmt.Errorf("page %d: %w", p, err)
		}
		if page == nil {
			return fmt.Errorf("page %d: missing page dictionary", p)
		}
		page.Update("Rotate", types.Integer(degrees))
	}

	if err := api.WriteContextFile(ctx, out); err != nil {
		return fmt.Errorf("failed to rotate pages: %w", err)
	}
	return nil
}

// Merge concatenates ins, in order, into out.
func Merge(ins []string, out string, conf *model.Configuration) error {
	if len(ins) == 0 {
		return fmt.Errorf("merge: %w", ErrNoPages)
	}
	if err := api.MergeCreateFile(ins, out, false, orDefault(conf)); err != nil {
		return fmt.Errorf("failed to merge %d files: %w", len(ins), err)
	}
	return nil
}

// Split writes in as a series of documents of span pages each into outDir
// and returns the created files in page order.
func Split(in, outDir string, span int, conf *model.Configuration) ([]string, error) {
	if span < 1 {
		return nil, fmt.Errorf("split span must be at least 1, got %d", span)
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create split folder: %w", err)
	}

	before, err := pdfFilesIn(outDir)
	if err != nil {
		return nil, err
	}
	if err := api.SplitFile(in, outDir, span, orDefault(conf)); err != nil {
		return nil, fmt.Errorf("failed to split document: %w", err)
	}
	after, err := pdfFilesIn(outDir)
	if err != nil {
		return nil, err
	}

	var created []string
	for f := range after {
		if _, seen := before[f]; !seen {
			created = append(created, filepath.Join(outDir, f))
		}
	}
	sortByTrailingNumber(created)
	return created, nil
}

func pdfFilesIn(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	files := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			files[e.Name()] = struct{}{}
		}
	}
	return files, nil
}

// sortByTrailingNumber orders split parts ("doc_2.pdf" before "doc_10.pdf")
// by the first page number after the last underscore.
func sortByTrailingNumber(paths []string) {
	key := func(p string) int {
		base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		idx := strings.LastIndex(base, "_")
		if idx < 0 {
			return 0
		}
		n := 0
		for _, r := range base[idx+1:] {
			if r < '0' || r > '9' {
				break
			}
			n = n*10 + int(r-'0')
		}
		return n
	}
	sort.SliceStable(paths, func(i, j int) bool {
		ki, kj := key(paths[i]), key(paths[j])
		if ki != kj {
			return ki < kj
		}
		return paths[i] < paths[j]
	})
}

// Optimize rewrites in to out with duplicate objects removed and streams
// recompressed. A failed run leaves no partial out behind.
func Optimize(in, out string, conf *model.Configuration) error {
	if err := api.OptimizeFile(in, out, orDefault(conf)); err != nil {
		_ = os.Remove(out)
		return fmt.Errorf("failed to optimize document: %w", err)
	}
	return nil
}
