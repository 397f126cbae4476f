package pdf

import (
	"errors"
	"fmt"
	"os"

	"github.com/MeKo-Tech/pagekit/internal/geometry"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// boxesDropped are the page boxes that would clip the resized page.
var boxesDropped = []string{"CropBox", "BleedBox", "TrimBox", "ArtBox"}

// FitToSize rescales every page of in onto a page of the target size,
// preserving the aspect ratio and centering the content, and writes the
// result to out. It returns the transform applied to each page.
//
// Pages with a quarter-turn /Rotate are fitted in their unrotated space
// against the swapped target, so the displayed page still matches target.
func FitToSize(in, out string, target geometry.Size, conf *model.Configuration) ([]geometry.Transform, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("invalid target size %s", target)
	}

	ctx, err := readContext(in, orDefault(conf))
	if err != nil {
		return nil, err
	}
	if ctx.PageCount == 0 {
		return nil, ErrNoPages
	}

	transforms := make([]geometry.Transform, 0, ctx.PageCount)
	for p := 1; p <= ctx.PageCount; p++ {
		tr, err := fitPage(ctx, p, target)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", p, err)
		}
		transforms = append(transforms, tr)
	}

	if err := api.WriteContextFile(ctx, out); err != nil {
		return nil, fmt.Errorf("failed to write resized document: %w", err)
	}
	return transforms, nil
}

func fitPage(ctx *model.Context, pageNr int, target geometry.Size) (geometry.Transform, error) {
	page, _, inherited, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return geometry.Transform{}, err
	}
	if page == nil || inherited == nil || inherited.MediaBox == nil {
		return geometry.Transform{}, errors.New("missing media box")
	}

	box := inherited.MediaBox
	src := geometry.Size{Width: box.Width(), Height: box.Height()}
	if !src.Valid() {
		return geometry.Transform{}, fmt.Errorf("invalid media box %s", src)
	}

	dst := target
	if inherited.Rotate%180 != 0 {
		dst = geometry.Size{Width: target.Height, Height: target.Width}
	}

	tr := geometry.Compute(src, dst)
	tx := tr.XOffset - tr.Scale*box.LL.X
	ty := tr.YOffset - tr.Scale*box.LL.Y

	prefix := fmt.Sprintf("q %.6f 0 0 %.6f %.4f %.4f cm\n", tr.Scale, tr.Scale, tx, ty)
	if err := wrapContents(ctx, page, prefix, "\nQ\n"); err != nil {
		return geometry.Transform{}, err
	}

	page.Update("MediaBox", types.NewRectangle(0, 0, dst.Width, dst.Height).Array())
	for _, k := range boxesDropped {
		page.Delete(k)
	}
	return tr, nil
}

// wrapContents brackets the page content streams with prefix and suffix
// streams, leaving the original streams untouched.
func wrapContents(ctx *model.Context, page types.Dict, prefix, suffix string) error {
	var parts types.Array
	if obj, found := page.Find("Contents"); found && obj != nil {
		resolved, err := ctx.Dereference(obj)
		if err != nil {
			return fmt.Errorf("failed to resolve page contents: %w", err)
		}
		switch v := resolved.(type) {
		case types.Array:
			parts = v
		case types.StreamDict:
			parts = types.Array{obj}
		}
	}

	pre, err := newContentStream(ctx, prefix)
	if err != nil {
		return err
	}
	post, err := newContentStream(ctx, suffix)
	if err != nil {
		return err
	}

	contents := make(types.Array, 0, len(parts)+2)
	contents = append(contents, *pre)
	contents = append(contents, parts...)
	contents = append(contents, *post)
	page.Update("Contents", contents)
	return nil
}

func newContentStream(ctx *model.Context, content string) (*types.IndirectRef, error) {
	sd, err := ctx.NewStreamDictForBuf([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("failed to create content stream: %w", err)
	}
	if err := sd.Encode(); err != nil {
		return nil, fmt.Errorf("failed to encode content stream: %w", err)
	}
	return ctx.IndRefForNewObject(*sd)
}

// readContext reads path into a pdfcpu context with a known page count.
func readContext(path string, conf *model.Configuration) (*model.Context, error) {
	f, err := os.Open(path) //nolint:gosec // G304: reading user-provided PDF path is expected
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}
	return ctx, nil
}
