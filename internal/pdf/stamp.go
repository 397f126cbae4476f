package pdf

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/MeKo-Tech/pagekit/internal/geometry"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// DefaultFontSize is the page number font size in points.
const DefaultFontSize = 12

// NumberOptions configures AddPageNumbers.
type NumberOptions struct {
	Corner   geometry.Corner
	Margin   float64
	FontSize int
	// Pages limits numbering to these 1-based pages. Empty means all pages.
	Pages []int
}

// numberDescription renders the pdfcpu watermark description for a page
// number whose baseline starts at anchor (PDF user space).
func numberDescription(anchor geometry.Point, fontSize int) string {
	return fmt.Sprintf(
		"fontname:Helvetica, points:%d, position:bl, offset:%.2f %.2f, scalefactor:1 abs, rotation:0, fillcolor:#000000, opacity:1",
		fontSize, anchor.X, anchor.Y)
}

// AddPageNumbers stamps every selected page with its 1-based page number at
// the configured corner and returns the number of pages stamped.
func AddPageNumbers(in, out string, opts NumberOptions, conf *model.Configuration) (int, error) {
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	if opts.Margin < 0 {
		return 0, fmt.Errorf("margin must not be negative, got %.2f", opts.Margin)
	}

	sizes, err := PageSizes(in)
	if err != nil {
		return 0, err
	}
	if len(sizes) == 0 {
		return 0, ErrNoPages
	}

	pages := opts.Pages
	if len(pages) == 0 {
		pages = allPages(len(sizes))
	}

	stamps := make(map[int]*model.Watermark, len(pages))
	for _, p := range pages {
		if p < 1 || p > len(sizes) {
			return 0, fmt.Errorf("page %d is outside the document (1-%d)", p, len(sizes))
		}
		size := sizes[p-1]
		anchor := geometry.ResolvePosition(size, opts.Corner, opts.Margin).ToPDF(size)

		wm, err := api.TextWatermark(strconv.Itoa(p), numberDescription(anchor, opts.FontSize), true, false, types.POINTS)
		if err != nil {
			return 0, fmt.Errorf("failed to build page number for page %d: %w", p, err)
		}
		stamps[p] = wm
	}

	if err := api.AddWatermarksMapFile(in, out, stamps, orDefault(conf)); err != nil {
		return 0, fmt.Errorf("failed to stamp page numbers: %w", err)
	}
	return len(stamps), nil
}

// AddImageWatermark places image behind the content of every page, centered
// and scaled to the page, with the given opacity in [0,1].
func AddImageWatermark(in, out, image string, opacity float64, conf *model.Configuration) error {
	if opacity < 0 || opacity > 1 {
		return fmt.Errorf("opacity must be between 0 and 1, got %.2f", opacity)
	}
	if image == "" {
		return errors.New("watermark image is required")
	}

	desc := fmt.Sprintf("position:c, scalefactor:1 rel, rotation:0, opacity:%.2f", opacity)
	wm, err := api.ImageWatermark(image, desc, false, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to load watermark image: %w", err)
	}

	if err := api.AddWatermarksFile(in, out, nil, wm, orDefault(conf)); err != nil {
		return fmt.Errorf("failed to add watermark: %w", err)
	}
	return nil
}

func allPages(n int) []int {
	pages := make([]int, n)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
