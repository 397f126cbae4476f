package pagerange

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("malformed page range")
	// ErrInvalidRange matches every *InvalidRangeError.
	ErrInvalidRange = errors.New("page range start after end")
	// ErrOutOfBounds matches every *OutOfBoundsError.
	ErrOutOfBounds = errors.New("page range out of bounds")
)

// ParseError reports a token that is not a page number or a "N-M" range.
type ParseError struct {
	Spec   string
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid page range %q: %s", e.Spec, e.Reason)
	}
	return fmt.Sprintf("invalid page range %q: %s: %q", e.Spec, e.Reason, e.Token)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// InvalidRangeError reports a range whose start page is after its end page.
// Start and End are the 1-based values the user typed.
type InvalidRangeError struct {
	Token string
	Start int
	End   int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid page range %q: start page %d greater than end page %d", e.Token, e.Start, e.End)
}

func (e *InvalidRangeError) Is(target error) bool { return target == ErrInvalidRange }

// OutOfBoundsError reports a syntactically valid range that does not fit a
// particular document. It is a warning: the range is skipped for that
// document only.
type OutOfBoundsError struct {
	Range     PageRange
	PageCount int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("page range %s is out of range for a document with %d page(s)", e.Range, e.PageCount)
}

func (e *OutOfBoundsError) Is(target error) bool { return target == ErrOutOfBounds }
