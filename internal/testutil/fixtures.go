package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/require"
)

// PageSize is a fixture page size in points.
type PageSize struct {
	Width  int
	Height int
}

// CreateTestImage creates a simple test image with the specified dimensions and color.
func CreateTestImage(width, height int, backgroundColor color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)
	return img
}

// WriteImage encodes img to dir/name; the format follows the extension.
func WriteImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()

	require.NoError(t, EnsureDir(dir))
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, path), "Failed to save image %s", path)
	return path
}

// WritePNG writes a solid-color PNG of the given size and returns its path.
func WritePNG(t *testing.T, dir, name string, width, height int, c color.Color) string {
	t.Helper()
	return WriteImage(t, dir, name, CreateTestImage(width, height, c))
}

// WritePDF builds a PDF at dir/name with one page per size. Each page is a
// full-page image, so the page size equals the image size in points.
func WritePDF(t *testing.T, dir, name string, sizes ...PageSize) string {
	t.Helper()
	require.NotEmpty(t, sizes, "a fixture PDF needs at least one page")

	imgDir := filepath.Join(t.TempDir(), "pages")
	images := make([]string, len(sizes))
	for i, s := range sizes {
		shade := uint8(40 + (i*37)%200)
		images[i] = WritePNG(t, imgDir, "page"+strconv.Itoa(i+1)+".png", s.Width, s.Height,
			color.NRGBA{R: shade, G: 255 - shade, B: 128, A: 255})
	}

	require.NoError(t, EnsureDir(dir))
	out := filepath.Join(dir, name)

	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = types.Full
	require.NoError(t, api.ImportImagesFile(images, out, imp, model.NewDefaultConfiguration()),
		"Failed to build fixture PDF %s", out)

	return out
}

// WriteUniformPDF builds a PDF with n pages of the same size.
func WriteUniformPDF(t *testing.T, dir, name string, n int, size PageSize) string {
	t.Helper()

	sizes := make([]PageSize, n)
	for i := range sizes {
		sizes[i] = size
	}
	return WritePDF(t, dir, name, sizes...)
}

// WritePhotoPDF builds a one-page PDF holding a noisy width x height photo
// embedded as a JPEG of the given quality.
func WritePhotoPDF(t *testing.T, dir, name string, width, height, quality int) string {
	t.Helper()

	rng := rand.New(rand.NewPCG(1, uint64(width*height)))
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: uint8(rng.IntN(256)),
				A: 255,
			})
		}
	}

	photo := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, imaging.Save(img, photo, imaging.JPEGQuality(quality)))

	require.NoError(t, EnsureDir(dir))
	out := filepath.Join(dir, name)
	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = types.Full
	require.NoError(t, api.ImportImagesFile([]string{photo}, out, imp, model.NewDefaultConfiguration()),
		"Failed to build fixture PDF %s", out)
	return out
}
