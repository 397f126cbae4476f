package tools

import (
	"context"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/pagekit/internal/geometry"
	"github.com/MeKo-Tech/pagekit/internal/pdf"
	"github.com/MeKo-Tech/pagekit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	doc := newDoc(t, samplePDF(t, 3))

	fn, err := Number(NumberOptions{Corner: geometry.TopRight, Margin: 10, FontSize: 10})
	require.NoError(t, err)
	outcome, err := fn(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, outcome.Outputs, 1)
	assert.Equal(t, testStamp+"_report_numbered.pdf", filepath.Base(outcome.Outputs[0]))
	assert.Equal(t, []float64{110, 120, 130}, widths(t, outcome.Outputs[0]))
}

func TestNumber_Ranges(t *testing.T) {
	doc := newDoc(t, samplePDF(t, 3))

	fn, err := Number(NumberOptions{Corner: geometry.BottomLeft, Margin: 15, Ranges: mustParse(t, "2-3,2,8")})
	require.NoError(t, err)
	outcome, err := fn(context.Background(), doc)
	require.NoError(t, err)
	assert.Len(t, outcome.Outputs, 1)
	assert.Len(t, outcome.RangeWarnings, 1)

	fn, err = Number(NumberOptions{Ranges: mustParse(t, "8")})
	require.NoError(t, err)
	outcome, err = fn(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, outcome.Skipped)

	_, err = Number(NumberOptions{Margin: -2})
	assert.Error(t, err)
}

func TestWatermark(t *testing.T) {
	doc := newDoc(t, samplePDF(t, 2))
	logo := testutil.WritePNG(t, t.TempDir(), "logo.png", 400, 200, color.NRGBA{R: 10, G: 10, B: 200, A: 128})

	fn, cleanup, err := Watermark(logo, 0.3, 100)
	require.NoError(t, err)
	defer cleanup()

	outcome, err := fn(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, outcome.Outputs, 1)
	assert.Equal(t, testStamp+"_report_watermarked.pdf", filepath.Base(outcome.Outputs[0]))
	assert.Equal(t, 2, outcome.Pages)
}

func TestWatermark_Invalid(t *testing.T) {
	_, _, err := Watermark(filepath.Join(t.TempDir(), "missing.png"), 0.5, 0)
	assert.Error(t, err)

	_, _, err = Watermark("logo.png", 2, 0)
	assert.Error(t, err)
}

func TestResize(t *testing.T) {
	in := testutil.WritePDF(t, t.TempDir(), "mixed.pdf",
		testutil.PageSize{Width: 200, Height: 100},
		testutil.PageSize{Width: 300, Height: 600})
	doc := newDoc(t, in)

	fn, err := Resize("letter")
	require.NoError(t, err)
	outcome, err := fn(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, outcome.Outputs, 1)
	assert.Equal(t, testStamp+"_mixed_letter.pdf", filepath.Base(outcome.Outputs[0]))
	assert.Equal(t, 2, outcome.Pages)

	sizes, err := pdf.PageSizes(outcome.Outputs[0])
	require.NoError(t, err)
	for _, s := range sizes {
		assert.InDelta(t, geometry.Letter.Width, s.Width, 0.01)
		assert.InDelta(t, geometry.Letter.Height, s.Height, 0.01)
	}

	_, err = Resize("tabloid-ish")
	assert.Error(t, err)
}
