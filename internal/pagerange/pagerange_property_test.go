package pagerange

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genRange generates a valid zero-based range.
func genRange() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 500),
		gen.IntRange(0, 50),
	).Map(func(vals []interface{}) PageRange {
		start := vals[0].(int)
		return PageRange{Start: start, End: start + vals[1].(int)}
	})
}

// genList generates a non-empty list of valid ranges.
func genList() gopter.Gen {
	return gen.SliceOfN(6, genRange()).SuchThat(func(l []PageRange) bool {
		return len(l) > 0
	}).Map(func(l []PageRange) List {
		return List(l)
	})
}

// TestParse_RoundTrip verifies that the canonical rendering parses back to the same list.
func TestParse_RoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("Parse(l.String()) == l", prop.ForAll(
		func(l List) bool {
			parsed, err := Parse(l.String())
			if err != nil {
				return false
			}
			return reflect.DeepEqual(parsed, l)
		},
		genList(),
	))

	properties.TestingRun(t)
}

// TestResolve_Partitions verifies every range is either kept or reported, in order.
func TestResolve_Partitions(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("kept + skipped == input and kept ranges fit", prop.ForAll(
		func(l List, pageCount int) bool {
			valid, skipped := l.Resolve(pageCount)
			if len(valid)+len(skipped) != len(l) {
				return false
			}
			for _, r := range valid {
				if !r.Within(pageCount) {
					return false
				}
			}
			for _, s := range skipped {
				if s.Range.Within(pageCount) {
					return false
				}
			}
			return true
		},
		genList(),
		gen.IntRange(0, 600),
	))

	properties.TestingRun(t)
}
