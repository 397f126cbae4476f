package geometry

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const eps = 1e-6

// genSize generates a valid page size.
func genSize() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(1, 5000),
		gen.Float64Range(1, 5000),
	).Map(func(vals []interface{}) Size {
		return Size{Width: vals[0].(float64), Height: vals[1].(float64)}
	})
}

// TestCompute_FitsDestination verifies scaled content fits and one axis is filled.
func TestCompute_FitsDestination(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("scaled content fits dst and touches one pair of edges", prop.ForAll(
		func(src, dst Size) bool {
			tr := Compute(src, dst)
			if tr.ScaledWidth > dst.Width+eps || tr.ScaledHeight > dst.Height+eps {
				return false
			}
			fillsW := math.Abs(tr.ScaledWidth-dst.Width) < eps
			fillsH := math.Abs(tr.ScaledHeight-dst.Height) < eps
			return fillsW || fillsH
		},
		genSize(),
		genSize(),
	))

	properties.Property("content is centered and aspect ratio preserved", prop.ForAll(
		func(src, dst Size) bool {
			tr := Compute(src, dst)
			if math.Abs(2*tr.XOffset+tr.ScaledWidth-dst.Width) > eps {
				return false
			}
			if math.Abs(2*tr.YOffset+tr.ScaledHeight-dst.Height) > eps {
				return false
			}
			if tr.XOffset < -eps || tr.YOffset < -eps {
				return false
			}
			return math.Abs(tr.ScaledWidth/tr.ScaledHeight-src.Width/src.Height) < 1e-6*src.Width/src.Height
		},
		genSize(),
		genSize(),
	))

	properties.TestingRun(t)
}

// TestResolvePosition_InsidePage verifies every corner anchor lies on the page.
func TestResolvePosition_InsidePage(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("anchor inside page when margins fit", prop.ForAll(
		func(page Size, c int) bool {
			if page.Width < 2*DefaultMargin || page.Height < 2*DefaultMargin+baselineBias {
				return true
			}
			p := ResolvePosition(page, Corner(c), DefaultMargin)
			return p.X >= 0 && p.X <= page.Width && p.Y >= 0 && p.Y <= page.Height
		},
		genSize(),
		gen.IntRange(int(TopLeft), int(BottomRight)),
	))

	properties.TestingRun(t)
}
