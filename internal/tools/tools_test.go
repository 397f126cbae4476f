package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MeKo-Tech/pagekit/internal/batch"
	"github.com/MeKo-Tech/pagekit/internal/logging"
	"github.com/MeKo-Tech/pagekit/internal/pagerange"
	"github.com/MeKo-Tech/pagekit/internal/pdf"
	"github.com/MeKo-Tech/pagekit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStamp = "20240131_154502"

func newDoc(t *testing.T, path string) batch.Document {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out")
	require.NoError(t, testutil.EnsureDir(out))
	return batch.Document{
		Path:   path,
		Naming: batch.Naming{Timestamp: testStamp, OutputDir: out},
		Logger: logging.Discard(),
	}
}

func samplePDF(t *testing.T, n int) string {
	t.Helper()
	sizes := make([]testutil.PageSize, n)
	for i := range sizes {
		sizes[i] = testutil.PageSize{Width: 100 + 10*(i+1), Height: 200}
	}
	return testutil.WritePDF(t, t.TempDir(), "report.pdf", sizes...)
}

func widths(t *testing.T, path string) []float64 {
	t.Helper()
	sizes, err := pdf.PageSizes(path)
	require.NoError(t, err)
	out := make([]float64, len(sizes))
	for i, s := range sizes {
		out[i] = s.Width
	}
	return out
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func mustParse(t *testing.T, spec string) pagerange.List {
	t.Helper()
	list, err := pagerange.Parse(spec)
	require.NoError(t, err)
	return list
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Select", Title(NameSelect))
	assert.Equal(t, "Extract Text", Title(NameExtractText))
	assert.Equal(t, "Convert Images", Title(NameConvertImages))
}

func TestResolveRanges(t *testing.T) {
	doc := newDoc(t, "a.pdf")

	all, warnings := resolveRanges(doc, nil, 3)
	assert.Equal(t, 3, all.Len())
	assert.Empty(t, warnings)

	none, _ := resolveRanges(doc, nil, 0)
	assert.Zero(t, none.Len())

	valid, warnings := resolveRanges(doc, mustParse(t, "2,5-6,1"), 3)
	assert.Equal(t, []int{2, 1}, oneBasedPages(valid))
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "5-6")
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, dedupe([]int{3, 1, 3, 2, 1}))
	assert.Empty(t, dedupe(nil))
}

func TestWorkDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "out")
	dir, cleanup, err := workDir(out, NameSplit)
	require.NoError(t, err)
	assert.True(t, testutil.DirExists(dir))
	assert.Equal(t, out, filepath.Dir(dir))
	assert.Contains(t, filepath.Base(dir), ".split-")

	cleanup()
	assert.False(t, testutil.DirExists(dir))
}

func TestSelect(t *testing.T) {
	doc := newDoc(t, samplePDF(t, 3))

	fn, err := Select(mustParse(t, "3,1-2,9"))
	require.NoError(t, err)

	outcome, err := fn(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, outcome.Outputs, 1)
	assert.Equal(t, filepath.Join(doc.Naming.OutputDir, testStamp+"_report_selected_pages.pdf"), outcome.Outputs[0])
	assert.Equal(t, []float64{130, 110, 120}, widths(t, outcome.Outputs[0]))
	assert.Equal(t, 3, outcome.Pages)
	assert.Len(t, outcome.RangeWarnings, 1)
}

func TestSelect_NothingValid(t *testing.T) {
	doc := newDoc(t, samplePDF(t, 2))

	fn, err := Select(mustParse(t, "5-7"))
	require.NoError(t, err)

	outcome, err := fn(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, outcome.Skipped)
	assert.Empty(t, outcome.Outputs)
	assert.Empty(t, testutil.ListFiles(t, doc.Naming.OutputDir))

	_, err = Select(nil)
	assert.Error(t, err)
}

func TestRotate(t *testing.T) {
	doc := newDoc(t, samplePDF(t, 2))

	fn, err := Rotate(90, mustParse(t, "1"))
	require.NoError(t, err)
	outcome, err := fn(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, outcome.Outputs, 1)
	assert.Equal(t, testStamp+"_report_rotated_90.pdf", filepath.Base(outcome.Outputs[0]))
	assert.Equal(t, 2, outcome.Pages)

	_, err = Rotate(45, nil)
	assert.ErrorIs(t, err, pdf.ErrInvalidRotation)
}

func TestSplit(t *testing.T) {
	doc := newDoc(t, samplePDF(t, 5))

	fn, err := Split(2)
	require.NoError(t, err)
	outcome, err := fn(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, outcome.Outputs, 3)
	assert.Equal(t, 5, outcome.Pages)
	for _, out := range outcome.Outputs {
		assert.Contains(t, filepath.Base(out), testStamp+"_report_part_")
	}
	assert.Equal(t, []float64{150}, widths(t, outcome.Outputs[2]))

	assert.Len(t, dirEntries(t, doc.Naming.OutputDir), 3, "the work folder is removed")

	_, err = Split(0)
	assert.Error(t, err)
}

func TestSortFiles(t *testing.T) {
	dir := t.TempDir()
	b := testutil.WriteFile(t, dir, "b.pdf", []byte("b"))
	a := testutil.WriteFile(t, dir, "a.pdf", []byte("a"))
	c := testutil.WriteFile(t, dir, "c.pdf", []byte("c"))

	now := time.Now()
	require.NoError(t, os.Chtimes(a, now, now.Add(-1*time.Hour)))
	require.NoError(t, os.Chtimes(b, now, now.Add(-3*time.Hour)))
	require.NoError(t, os.Chtimes(c, now, now.Add(-2*time.Hour)))

	byName, err := SortFiles([]string{c, b, a}, SortByFilename)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, byName)

	byDate, err := SortFiles([]string{a, b, c}, SortByDate)
	require.NoError(t, err)
	assert.Equal(t, []string{b, c, a}, byDate)

	_, err = SortFiles([]string{a}, "size")
	assert.Error(t, err)

	_, err = SortFiles([]string{filepath.Join(dir, "missing.pdf")}, SortByDate)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	second := testutil.WriteUniformPDF(t, dir, "b.pdf", 2, testutil.PageSize{Width: 200, Height: 100})
	first := testutil.WriteUniformPDF(t, dir, "a.pdf", 1, testutil.PageSize{Width: 300, Height: 100})

	fn, err := Merge(SortByFilename)
	require.NoError(t, err)

	naming := batch.Naming{Timestamp: testStamp, OutputDir: t.TempDir()}
	outcome, err := fn(context.Background(), []string{second, first}, naming, logging.Discard())
	require.NoError(t, err)
	require.Len(t, outcome.Outputs, 1)
	assert.Equal(t, filepath.Join(naming.OutputDir, testStamp+"_merged_pdf.pdf"), outcome.Outputs[0])
	assert.Equal(t, 3, outcome.Pages)
	assert.Equal(t, []float64{300, 200, 200}, widths(t, outcome.Outputs[0]))

	_, err = Merge("random")
	assert.Error(t, err)
}
