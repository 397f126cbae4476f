// Package pdf adapts pdfcpu and dslipak/pdf to the file based operations the
// pagekit tools perform. Every function reads one or more input files and
// writes its result to an explicit output path; nothing is modified in place.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/pagekit/internal/geometry"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrEmptySelection is returned when a page selection resolves to no pages.
	ErrEmptySelection = errors.New("no pages selected")
	// ErrInvalidRotation is returned for rotations other than 90, 180 or 270.
	ErrInvalidRotation = errors.New("rotation must be 90, 180 or 270 degrees")
	// ErrNoPages is returned for documents without a single page.
	ErrNoPages = errors.New("document has no pages")
)

// Options controls how pdfcpu reads and writes documents.
type Options struct {
	// Strict enables pdfcpu's strict validation. The default is relaxed,
	// which accepts the many slightly broken files found in the wild.
	Strict bool
	// UserPassword and OwnerPassword open encrypted input.
	UserPassword  string
	OwnerPassword string
}

// NewConfiguration builds a pdfcpu configuration from opts.
func NewConfiguration(opts Options) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if opts.Strict {
		conf.ValidationMode = model.ValidationStrict
	}
	conf.UserPW = opts.UserPassword
	conf.OwnerPW = opts.OwnerPassword
	return conf
}

func orDefault(conf *model.Configuration) *model.Configuration {
	if conf == nil {
		return NewConfiguration(Options{})
	}
	return conf
}

// PageCount returns the number of pages of the document at path.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages of %s: %w", filepath.Base(path), err)
	}
	return n, nil
}

// PageSizes returns the size of every page in points, in page order.
func PageSizes(path string) ([]geometry.Size, error) {
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page sizes of %s: %w", filepath.Base(path), err)
	}
	sizes := make([]geometry.Size, len(dims))
	for i, d := range dims {
		sizes[i] = geometry.Size{Width: d.Width, Height: d.Height}
	}
	return sizes, nil
}

// copyFile copies src to dst byte for byte.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src) //nolint:gosec // G304: reading user-provided PDF path is expected
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) //nolint:gosec // G304: output path is built by the caller
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}
