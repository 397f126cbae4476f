package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ExtractedImage is one embedded image written to disk.
type ExtractedImage struct {
	// Page is the 1-based page the image was found on.
	Page int
	// Index is the 1-based position of the image on its page.
	Index int
	// Name is the file name pdfcpu chose, including the image type extension.
	Name string
	Path string
}

// ExtractImages writes the embedded images of the given 1-based pages (all
// pages when empty) below workDir, one sub folder per page.
func ExtractImages(in, workDir string, pages []int, conf *model.Configuration) ([]ExtractedImage, error) {
	conf = orDefault(conf)

	if len(pages) == 0 {
		n, err := PageCount(in)
		if err != nil {
			return nil, err
		}
		pages = allPages(n)
	}

	var images []ExtractedImage
	seen := make(map[int]bool, len(pages))
	for _, p := range pages {
		if seen[p] {
			continue
		}
		seen[p] = true

		dir := filepath.Join(workDir, "page_"+strconv.Itoa(p))
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create extraction folder: %w", err)
		}
		if err := api.ExtractImagesFile(in, dir, []string{strconv.Itoa(p)}, conf); err != nil {
			return nil, fmt.Errorf("failed to extract images from page %d: %w", p, err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		idx := 0
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			idx++
			images = append(images, ExtractedImage{
				Page:  p,
				Index: idx,
				Name:  e.Name(),
				Path:  filepath.Join(dir, e.Name()),
			})
		}
	}
	return images, nil
}

// ImportImages creates out with one page per image. Each page has the size
// of its image. An existing out is replaced.
func ImportImages(images []string, out string, conf *model.Configuration) error {
	if len(images) == 0 {
		return fmt.Errorf("import: %w", ErrNoPages)
	}
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace %s: %w", out, err)
	}

	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = types.Full
	if err := api.ImportImagesFile(images, out, imp, orDefault(conf)); err != nil {
		return fmt.Errorf("failed to import images: %w", err)
	}
	return nil
}
