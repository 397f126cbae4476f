package geometry

import (
	"fmt"
	"strings"
)

const (
	// DefaultMargin is the distance in points between a page edge and a stamp.
	DefaultMargin = 15.0
	// baselineBias pushes top-corner stamps down so the glyphs, which hang
	// above their baseline, stay inside the margin.
	baselineBias = 10.0
)

// Corner is one of the four page corners.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomLeft
	BottomRight
)

var cornerNames = [...]string{
	TopLeft:     "top-left",
	TopRight:    "top-right",
	BottomLeft:  "bottom-left",
	BottomRight: "bottom-right",
}

func (c Corner) String() string {
	if c < TopLeft || c > BottomRight {
		return fmt.Sprintf("Corner(%d)", int(c))
	}
	return cornerNames[c]
}

// ParseCorner parses "top-left", "top-right", "bottom-left" or "bottom-right".
func ParseCorner(s string) (Corner, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range cornerNames {
		if n == name {
			return Corner(c), nil
		}
	}
	return 0, fmt.Errorf("unknown position %q (supported: %s)", s, strings.Join(CornerNames(), ", "))
}

// CornerNames lists the accepted corner names.
func CornerNames() []string {
	return append([]string(nil), cornerNames[:]...)
}

// Point is a position in points. Points returned by ResolvePosition use a
// top-left origin with y growing downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToPDF converts a top-left-origin point to PDF user space, whose origin is
// the bottom-left corner of the page.
func (p Point) ToPDF(page Size) Point {
	return Point{X: p.X, Y: page.Height - p.Y}
}

// ResolvePosition returns the text baseline anchor for a stamp in the given
// corner. Text starts at the anchor in every corner, so in the right-hand
// corners it runs past the right margin.
//
// It panics on a Corner outside the enum; ParseCorner is the only way
// user input becomes a Corner.
func ResolvePosition(page Size, corner Corner, margin float64) Point {
	switch corner {
	case TopLeft:
		return Point{X: margin, Y: margin + baselineBias}
	case TopRight:
		return Point{X: page.Width - margin, Y: margin + baselineBias}
	case BottomLeft:
		return Point{X: margin, Y: page.Height - margin}
	case BottomRight:
		return Point{X: page.Width - margin, Y: page.Height - margin}
	default:
		panic(fmt.Sprintf("geometry: invalid corner %d", int(corner)))
	}
}
