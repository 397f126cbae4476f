// Package pagerange parses human page-range expressions such as "1-3,5,7-9"
// into ordered, zero-based page intervals and resolves them against the page
// count of a concrete document.
package pagerange

import (
	"strconv"
	"strings"
)

// PageRange is an inclusive, zero-based interval of page indices.
// Start is always <= End for values produced by Parse.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of pages covered by the range.
func (r PageRange) Len() int {
	return r.End - r.Start + 1
}

// Within reports whether both ends fall inside [0, pageCount).
func (r PageRange) Within(pageCount int) bool {
	return r.Start >= 0 && r.End >= 0 && r.Start < pageCount && r.End < pageCount
}

// String renders the range in 1-based user notation ("5" or "1-3").
func (r PageRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start + 1)
	}
	return strconv.Itoa(r.Start+1) + "-" + strconv.Itoa(r.End+1)
}

// List is an ordered sequence of ranges. Order determines output page order;
// overlapping and repeated ranges are kept as given.
type List []PageRange

// Parse converts a comma-separated range spec into a List.
//
// Each token is either a single 1-based page "N" or an inclusive range "N-M".
// Tokens are processed left to right and never sorted or merged. A range whose
// start exceeds its end yields an *InvalidRangeError; any other malformed
// token yields a *ParseError.
func Parse(spec string) (List, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, &ParseError{Spec: spec, Reason: "empty page range"}
	}

	parts := strings.Split(spec, ",")
	ranges := make(List, 0, len(parts))

	for _, part := range parts {
		r, err := parseToken(spec, strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}

	return ranges, nil
}

// ParseFor parses spec and resolves it against a document with pageCount
// pages. Syntax errors are returned as err; ranges that do not fit the
// document are dropped and reported as warnings.
func ParseFor(spec string, pageCount int) (List, []*OutOfBoundsError, error) {
	ranges, err := Parse(spec)
	if err != nil {
		return nil, nil, err
	}
	valid, skipped := ranges.Resolve(pageCount)
	return valid, skipped, nil
}

// parseToken parses either a single page token ("3") or a range token ("1-5").
func parseToken(spec, token string) (PageRange, error) {
	if token == "" {
		return PageRange{}, &ParseError{Spec: spec, Token: token, Reason: "empty token"}
	}

	if !strings.Contains(token, "-") {
		page, err := parsePage(spec, token)
		if err != nil {
			return PageRange{}, err
		}
		return PageRange{Start: page - 1, End: page - 1}, nil
	}

	bounds := strings.Split(token, "-")
	if len(bounds) != 2 {
		return PageRange{}, &ParseError{Spec: spec, Token: token, Reason: "invalid range format"}
	}

	start, err := parsePage(spec, strings.TrimSpace(bounds[0]))
	if err != nil {
		return PageRange{}, err
	}
	end, err := parsePage(spec, strings.TrimSpace(bounds[1]))
	if err != nil {
		return PageRange{}, err
	}

	if start > end {
		return PageRange{}, &InvalidRangeError{Token: token, Start: start, End: end}
	}

	return PageRange{Start: start - 1, End: end - 1}, nil
}

// parsePage parses a 1-based page number.
func parsePage(spec, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Spec: spec, Token: s, Reason: "invalid page number"}
	}
	if n < 1 {
		return 0, &ParseError{Spec: spec, Token: s, Reason: "page numbers start at 1"}
	}
	return n, nil
}

// Resolve keeps the ranges that fit a document with pageCount pages, in their
// original order, and reports every dropped range. An empty result means the
// document has nothing to select and no output must be produced for it.
func (l List) Resolve(pageCount int) (List, []*OutOfBoundsError) {
	valid := make(List, 0, len(l))
	var skipped []*OutOfBoundsError

	for _, r := range l {
		if r.Within(pageCount) {
			valid = append(valid, r)
			continue
		}
		skipped = append(skipped, &OutOfBoundsError{Range: r, PageCount: pageCount})
	}

	return valid, skipped
}

// Len returns the total number of pages selected, counting repeats.
func (l List) Len() int {
	n := 0
	for _, r := range l {
		n += r.Len()
	}
	return n
}

// Pages expands the list into zero-based page indices, in order, with repeats.
func (l List) Pages() []int {
	pages := make([]int, 0, l.Len())
	for _, r := range l {
		for i := r.Start; i <= r.End; i++ {
			pages = append(pages, i)
		}
	}
	return pages
}

// PageSelection returns the expanded pages as 1-based strings, the form
// expected by pdfcpu page selections.
func (l List) PageSelection() []string {
	pages := l.Pages()
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = strconv.Itoa(p + 1)
	}
	return out
}

// String renders the list in canonical 1-based notation. Parsing the result
// yields an equal List.
func (l List) String() string {
	parts := make([]string, len(l))
	for i, r := range l {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}
