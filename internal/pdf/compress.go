package pdf

import (
	"bytes"
	"fmt"
	"os"

	"github.com/MeKo-Tech/pagekit/internal/imageio"
	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maskEntries mark images whose appearance depends on more than the JPEG
// samples; they are never re-encoded.
var maskEntries = []string{"SMask", "Mask", "ImageMask", "Decode"}

// RecompressImages optimizes in like Optimize and additionally re-encodes its
// JPEG images at quality (1-100). An image is only replaced when the new
// encoding is smaller. It returns the number of images replaced; a failed run
// leaves no partial out behind.
func RecompressImages(in, out string, quality int, conf *model.Configuration) (int, error) {
	if quality < 1 || quality > 100 {
		return 0, fmt.Errorf("image quality must be between 1 and 100, got %d", quality)
	}

	f, err := os.Open(in) //nolint:gosec // G304: reading user-provided PDF path is expected
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	c := *orDefault(conf)
	c.Cmd = model.UPDATEIMAGES
	ctx, err := api.ReadValidateAndOptimize(f, &c)
	if err != nil {
		return 0, fmt.Errorf("failed to read document: %w", err)
	}

	replaced := 0
	seen := make(map[int]bool)
	for p := 1; p <= ctx.PageCount; p++ {
		images, err := pdfcpu.ExtractPageImages(ctx, p, false)
		if err != nil {
			return 0, fmt.Errorf("page %d: failed to read images: %w", p, err)
		}
		for objNr, img := range images {
			if seen[objNr] || img.Thumb || img.FileType != "jpg" {
				continue
			}
			seen[objNr] = true

			obj, ok := ctx.Optimize.ImageObjects[objNr]
			if !ok || obj.ImageDict == nil || hasAny(obj.ImageDict.Dict, maskEntries) {
				continue
			}

			data, err := reencodeJPEG(img, quality)
			if err != nil {
				return 0, fmt.Errorf("page %d: image %d: %w", p, objNr, err)
			}
			if len(data) >= len(obj.ImageDict.Raw) {
				continue
			}
			if err := pdfcpu.UpdateImagesByObjNr(ctx, bytes.NewReader(data), objNr); err != nil {
				return 0, fmt.Errorf("page %d: failed to replace image %d: %w", p, objNr, err)
			}
			replaced++
		}
	}

	if err := api.WriteContextFile(ctx, out); err != nil {
		_ = os.Remove(out)
		return 0, fmt.Errorf("failed to write compressed document: %w", err)
	}
	return replaced, nil
}

func reencodeJPEG(img model.Image, quality int) ([]byte, error) {
	src, err := imaging.Decode(img)
	if err != nil {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}
	var buf bytes.Buffer
	if err := imageio.EncodeJPEG(&buf, src, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func hasAny(d types.Dict, keys []string) bool {
	for _, k := range keys {
		if _, found := d.Find(k); found {
			return true
		}
	}
	return false
}
