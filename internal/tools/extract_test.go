package tools

import (
	"context"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MeKo-Tech/pagekit/internal/pdf"
	"github.com/MeKo-Tech/pagekit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImages(t *testing.T) {
	doc := newDoc(t, samplePDF(t, 3))

	outcome, err := ExtractImages(mustParse(t, "3,1"))(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, outcome.Outputs, 2)
	assert.True(t, strings.HasPrefix(filepath.Base(outcome.Outputs[0]), testStamp+"_report_p3_1_"))
	assert.True(t, strings.HasPrefix(filepath.Base(outcome.Outputs[1]), testStamp+"_report_p1_1_"))

	assert.Len(t, dirEntries(t, doc.Naming.OutputDir), 2, "the work folder is removed")
}

func TestExtractImages_OutOfRange(t *testing.T) {
	doc := newDoc(t, samplePDF(t, 1))

	outcome, err := ExtractImages(mustParse(t, "4"))(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, outcome.Skipped)
	assert.Len(t, outcome.RangeWarnings, 1)
}

func TestExtractText_NoText(t *testing.T) {
	doc := newDoc(t, samplePDF(t, 2))

	outcome, err := ExtractText(nil)(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, outcome.Skipped)
	assert.Equal(t, "no text found", outcome.SkipReason)
	assert.Empty(t, testutil.ListFiles(t, doc.Naming.OutputDir))
}

func TestCompress(t *testing.T) {
	doc := newDoc(t, samplePDF(t, 2))

	fn, err := Compress(0)
	require.NoError(t, err)
	outcome, err := fn(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, outcome.Outputs, 1)
	assert.Equal(t, testStamp+"_compressed_report.pdf", filepath.Base(outcome.Outputs[0]))
	assert.Equal(t, 2, outcome.Pages)
}

func TestCompress_ImageQuality(t *testing.T) {
	in := testutil.WritePhotoPDF(t, t.TempDir(), "photo.pdf", 400, 300, 100)
	doc := newDoc(t, in)

	fn, err := Compress(30)
	require.NoError(t, err)
	outcome, err := fn(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, outcome.Outputs, 1)
	assert.Equal(t, testStamp+"_compressed_photo.pdf", filepath.Base(outcome.Outputs[0]))
	assert.Equal(t, 1, outcome.Pages)
	assert.Less(t, fileSize(outcome.Outputs[0]), fileSize(in))

	for _, q := range []int{-1, 101} {
		_, err := Compress(q)
		assert.Error(t, err, "quality=%d", q)
	}
}

func TestRepair(t *testing.T) {
	doc := newDoc(t, samplePDF(t, 2))

	outcome, err := Repair()(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, outcome.Outputs, 1)
	assert.Equal(t, testStamp+"_report_repaired.pdf", filepath.Base(outcome.Outputs[0]))

	broken := testutil.WriteFile(t, t.TempDir(), "broken.pdf", []byte("%PDF-1.4\ngarbage"))
	_, err = Repair()(context.Background(), newDoc(t, broken))
	assert.Error(t, err)
}

func TestConvertImage(t *testing.T) {
	img := testutil.WritePNG(t, t.TempDir(), "scan.png", 320, 240, color.NRGBA{R: 255, A: 100})
	doc := newDoc(t, img)

	fn, err := ConvertImage(0)
	require.NoError(t, err)
	outcome, err := fn(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, outcome.Outputs, 1)
	assert.Equal(t, testStamp+"_scan.pdf", filepath.Base(outcome.Outputs[0]))
	assert.Equal(t, []float64{320}, widths(t, outcome.Outputs[0]))

	n, err := pdf.PageCount(outcome.Outputs[0])
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, dirEntries(t, doc.Naming.OutputDir), 1)
}

func TestConvertImage_Invalid(t *testing.T) {
	_, err := ConvertImage(101)
	assert.Error(t, err)

	fn, err := ConvertImage(80)
	require.NoError(t, err)
	bad := testutil.WriteFile(t, t.TempDir(), "bad.png", []byte("not an image"))
	_, err = fn(context.Background(), newDoc(t, bad))
	assert.Error(t, err)
}
