package tools

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/MeKo-Tech/pagekit/internal/batch"
	"github.com/MeKo-Tech/pagekit/internal/imageio"
	"github.com/MeKo-Tech/pagekit/internal/pdf"
)

// ConvertImage turns every image into a one-page "<ts>_<stem>.pdf".
// Transparent images are flattened onto white first.
func ConvertImage(quality int) (batch.ProcessFunc, error) {
	if quality == 0 {
		quality = imageio.DefaultJPEGQuality
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("jpeg quality must be between 1 and 100, got %d", quality)
	}

	return func(_ context.Context, doc batch.Document) (batch.Outcome, error) {
		img, meta, err := imageio.Load(doc.Path)
		if err != nil {
			return batch.Outcome{}, err
		}
		if meta.Transparent {
			doc.Logger.Info("flattening transparent image onto white")
		}

		scratch, cleanup, err := workDir(doc.Naming.OutputDir, NameConvertImages)
		if err != nil {
			return batch.Outcome{}, err
		}
		defer cleanup()

		jpeg := filepath.Join(scratch, batch.Stem(doc.Path)+".jpg")
		if err := imageio.WriteJPEG(img, jpeg, quality); err != nil {
			return batch.Outcome{}, err
		}

		out := doc.Naming.Output(doc.Path, "", ".pdf")
		if err := pdf.ImportImages([]string{jpeg}, out, nil); err != nil {
			return batch.Outcome{}, err
		}
		doc.Logger.Debug("image converted", "format", meta.Format, "width", meta.Width, "height", meta.Height)
		return batch.Outcome{Outputs: []string{out}, Pages: 1}, nil
	}, nil
}
