// Package geometry computes aspect-preserving page transforms and the
// anchor points used to stamp page numbers into page corners.
package geometry

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Size is a page or target size in PDF points.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Valid reports whether both dimensions are finite and strictly positive.
// Compute must only be called with valid sizes.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 &&
		!math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Transform describes how a source page is scaled and centered on a
// destination page.
type Transform struct {
	Scale        float64 `json:"scale"`
	ScaledWidth  float64 `json:"scaled_width"`
	ScaledHeight float64 `json:"scaled_height"`
	XOffset      float64 `json:"x_offset"`
	YOffset      float64 `json:"y_offset"`
}

// Compute returns the uniform scale that fits src entirely inside dst and the
// offsets that center the scaled content. Both sizes must be Valid.
func Compute(src, dst Size) Transform {
	scale := math.Min(dst.Width/src.Width, dst.Height/src.Height)
	w := src.Width * scale
	h := src.Height * scale

	return Transform{
		Scale:        scale,
		ScaledWidth:  w,
		ScaledHeight: h,
		XOffset:      (dst.Width - w) / 2,
		YOffset:      (dst.Height - h) / 2,
	}
}

// Named target sizes in points.
var (
	A4     = Size{Width: 595, Height: 842}
	Letter = Size{Width: 612, Height: 792}
)

var namedSizes = map[string]Size{
	"a4":     A4,
	"letter": Letter,
}

// LookupSize resolves a named target size, case-insensitively.
func LookupSize(name string) (Size, error) {
	s, ok := namedSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Size{}, fmt.Errorf("unknown page size %q (supported: %s)", name, strings.Join(SizeNames(), ", "))
	}
	return s, nil
}

// SizeNames returns the supported size names in sorted order.
func SizeNames() []string {
	names := make([]string, 0, len(namedSizes))
	for name := range namedSizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
