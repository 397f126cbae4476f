// Package imageio loads, normalizes and writes the raster images used by the
// watermark and image conversion tools.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// SupportedExtensions lists the file extensions accepted as image input.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff"}

// DefaultJPEGQuality is used when images are re-encoded for PDF embedding.
const DefaultJPEGQuality = 95

// Error wraps a failure of one image operation.
type Error struct {
	Operation string
	Path      string
	Err       error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("image %s failed: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("image %s failed for %s: %v", e.Operation, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsSupported reports whether the path has a supported image extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Metadata captures lightweight file and pixel information.
type Metadata struct {
	Path      string
	Format    string
	SizeBytes int64
	Width     int
	Height    int
	// Transparent is set when the decoded image carries an alpha channel
	// with at least one non-opaque pixel.
	Transparent bool
}

// Load opens and decodes an image file, applying the EXIF orientation.
func Load(path string) (image.Image, Metadata, error) {
	if path == "" {
		return nil, Metadata{}, &Error{Operation: "load", Err: errors.New("empty path")}
	}
	if !IsSupported(path) {
		return nil, Metadata{}, &Error{Operation: "load", Path: path,
			Err: fmt.Errorf("unsupported format: %s", filepath.Ext(path))}
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, Metadata{}, &Error{Operation: "load", Path: path, Err: err}
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, Metadata{}, &Error{Operation: "decode", Path: path, Err: err}
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if f, ferr := imaging.FormatFromFilename(path); ferr == nil {
		format = strings.ToLower(f.String())
	}

	b := img.Bounds()
	return img, Metadata{
		Path:        path,
		Format:      format,
		SizeBytes:   fi.Size(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		Transparent: HasTransparency(img),
	}, nil
}

// HasTransparency reports whether any pixel of img is not fully opaque.
func HasTransparency(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}

// FlattenOnWhite composites img onto an opaque white canvas of the same size.
func FlattenOnWhite(img image.Image) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}

// Downscale fits img into a maxPixels square when either side exceeds it.
// A non-positive maxPixels leaves the image untouched.
func Downscale(img image.Image, maxPixels int) image.Image {
	b := img.Bounds()
	if maxPixels <= 0 || (b.Dx() <= maxPixels && b.Dy() <= maxPixels) {
		return img
	}
	return imaging.Fit(img, maxPixels, maxPixels, imaging.Lanczos)
}

// PrepareWatermark loads the watermark image, caps its size and writes it as
// a PNG under tmpDir so every input format reaches the PDF writer the same way.
func PrepareWatermark(path string, maxPixels int, tmpDir string) (string, error) {
	img, _, err := Load(path)
	if err != nil {
		return "", err
	}

	prepared := Downscale(img, maxPixels)

	out := filepath.Join(tmpDir, "watermark_"+strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))+".png")
	if err := WritePNG(prepared, out); err != nil {
		return "", err
	}
	return out, nil
}

// WriteJPEG encodes img as JPEG. Alpha is flattened onto white first since
// JPEG has no transparency.
func WriteJPEG(img image.Image, path string, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if HasTransparency(img) {
		img = FlattenOnWhite(img)
	}
	if err := ensureParent(path); err != nil {
		return err
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(quality)); err != nil {
		return &Error{Operation: "encode", Path: path, Err: err}
	}
	return nil
}

// EncodeJPEG writes img to w as JPEG at quality, flattening alpha onto white.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if HasTransparency(img) {
		img = FlattenOnWhite(img)
	}
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return &Error{Operation: "encode", Err: err}
	}
	return nil
}

// WritePNG encodes img as PNG.
func WritePNG(img image.Image, path string) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	if err := imaging.Save(img, path, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return &Error{Operation: "encode", Path: path, Err: err}
	}
	return nil
}

func ensureParent(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return &Error{Operation: "encode", Path: path, Err: err}
	}
	return nil
}
