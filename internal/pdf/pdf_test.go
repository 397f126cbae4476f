package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/pagekit/internal/geometry"
	"github.com/MeKo-Tech/pagekit/internal/pagerange"
	"github.com/MeKo-Tech/pagekit/internal/testutil"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// widthsPDF builds a document whose page widths identify the pages:
// page i (1-based) is 100+10*i points wide.
func widthsPDF(t *testing.T, dir string, n int) string {
	t.Helper()
	sizes := make([]testutil.PageSize, n)
	for i := range sizes {
		sizes[i] = testutil.PageSize{Width: 100 + 10*(i+1), Height: 200}
	}
	return testutil.WritePDF(t, dir, "widths.pdf", sizes...)
}

func widths(t *testing.T, path string) []float64 {
	t.Helper()
	sizes, err := PageSizes(path)
	require.NoError(t, err)
	out := make([]float64, len(sizes))
	for i, s := range sizes {
		out[i] = s.Width
	}
	return out
}

func pageCount(t *testing.T, path string) int {
	t.Helper()
	n, err := PageCount(path)
	require.NoError(t, err)
	return n
}

func TestNewConfiguration(t *testing.T) {
	conf := NewConfiguration(Options{})
	assert.Equal(t, model.ValidationRelaxed, conf.ValidationMode)
	assert.Empty(t, conf.UserPW)

	conf = NewConfiguration(Options{Strict: true, UserPassword: "u", OwnerPassword: "o"})
	assert.Equal(t, model.ValidationStrict, conf.ValidationMode)
	assert.Equal(t, "u", conf.UserPW)
	assert.Equal(t, "o", conf.OwnerPW)

	assert.NotNil(t, orDefault(nil))
	assert.Same(t, conf, orDefault(conf))
}

func TestPageCountAndSizes(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WritePDF(t, dir, "doc.pdf",
		testutil.PageSize{Width: 200, Height: 300},
		testutil.PageSize{Width: 400, Height: 150})

	assert.Equal(t, 2, pageCount(t, path))

	sizes, err := PageSizes(path)
	require.NoError(t, err)
	assert.Equal(t, []geometry.Size{{Width: 200, Height: 300}, {Width: 400, Height: 150}}, sizes)
}

func TestPageCount_InvalidFile(t *testing.T) {
	broken := testutil.WriteFile(t, t.TempDir(), "broken.pdf", []byte("this is not a pdf"))

	_, err := PageCount(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.pdf")

	_, err = PageSizes(broken)
	assert.Error(t, err)
}

func TestSelectPages_OrderAndRepeats(t *testing.T) {
	dir := t.TempDir()
	in := widthsPDF(t, dir, 5)

	list, err := pagerange.Parse("3,1-2,1")
	require.NoError(t, err)

	out := filepath.Join(dir, "selected.pdf")
	require.NoError(t, SelectPages(in, out, list, nil))
	assert.Equal(t, []float64{130, 110, 120, 110}, widths(t, out))
}

func TestSelectPages_Empty(t *testing.T) {
	dir := t.TempDir()
	in := widthsPDF(t, dir, 2)

	out := filepath.Join(dir, "none.pdf")
	err := SelectPages(in, out, pagerange.List{}, nil)
	require.ErrorIs(t, err, ErrEmptySelection)
	assert.False(t, testutil.FileExists(out))
}

// rotations reads the /Rotate entry of every page; 0 when a page has none.
func rotations(t *testing.T, path string) []int {
	t.Helper()
	ctx, err := readContext(path, orDefault(nil))
	require.NoError(t, err)
	out := make([]int, ctx.PageCount)
	for p := 1; p <= ctx.PageCount; p++ {
		page, _, _, err := ctx.PageDict(p, false)
		require.NoError(t, err)
		if r := page.IntEntry("Rotate"); r != nil {
			out[p-1] = *r
		}
	}
	return out
}

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	in := widthsPDF(t, dir, 3)

	for _, deg := range []int{0, 45, -90, 360} {
		err := Rotate(in, filepath.Join(dir, "bad.pdf"), deg, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidRotation, "degrees=%d", deg)
	}

	out := filepath.Join(dir, "rotated.pdf")
	require.NoError(t, Rotate(in, out, 90, []int{1, 3}, nil))
	assert.Equal(t, 3, pageCount(t, out))
	assert.Equal(t, []int{90, 0, 90}, rotations(t, out))

	assert.Error(t, Rotate(in, filepath.Join(dir, "far.pdf"), 90, []int{4}, nil))
}

func TestRotate_IsAbsolute(t *testing.T) {
	dir := t.TempDir()
	in := widthsPDF(t, dir, 2)

	turned := filepath.Join(dir, "turned.pdf")
	require.NoError(t, Rotate(in, turned, 90, nil, nil))
	require.Equal(t, []int{90, 90}, rotations(t, turned))

	again := filepath.Join(dir, "again.pdf")
	require.NoError(t, Rotate(turned, again, 90, nil, nil))
	assert.Equal(t, []int{90, 90}, rotations(t, again), "rotating twice does not accumulate")

	upside := filepath.Join(dir, "upside.pdf")
	require.NoError(t, Rotate(turned, upside, 180, []int{2}, nil))
	assert.Equal(t, []int{90, 180}, rotations(t, upside))
}

func TestValidRotation(t *testing.T) {
	assert.True(t, ValidRotation(90))
	assert.True(t, ValidRotation(180))
	assert.True(t, ValidRotation(270))
	assert.False(t, ValidRotation(0))
	assert.False(t, ValidRotation(91))
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	a := testutil.WriteUniformPDF(t, dir, "a.pdf", 2, testutil.PageSize{Width: 100, Height: 100})
	b := testutil.WriteUniformPDF(t, dir, "b.pdf", 3, testutil.PageSize{Width: 300, Height: 100})

	out := filepath.Join(dir, "merged.pdf")
	require.NoError(t, Merge([]string{b, a}, out, nil))
	assert.Equal(t, []float64{300, 300, 300, 100, 100}, widths(t, out))

	assert.ErrorIs(t, Merge(nil, out, nil), ErrNoPages)
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()
	in := widthsPDF(t, dir, 5)

	parts, err := Split(in, filepath.Join(dir, "parts"), 2, nil)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, 2, pageCount(t, parts[0]))
	assert.Equal(t, 2, pageCount(t, parts[1]))
	assert.Equal(t, 1, pageCount(t, parts[2]))
	assert.Equal(t, []float64{150}, widths(t, parts[2]))

	_, err = Split(in, dir, 0, nil)
	assert.Error(t, err)
}

func TestSplit_IgnoresExistingFiles(t *testing.T) {
	dir := t.TempDir()
	in := widthsPDF(t, dir, 2)
	parts := filepath.Join(dir, "parts")
	require.NoError(t, os.MkdirAll(parts, 0o750))
	testutil.WriteFile(t, parts, "old.pdf", []byte("%PDF-1.4"))

	created, err := Split(in, parts, 1, nil)
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, p := range created {
		assert.Equal(t, parts, filepath.Dir(p))
		assert.NotEqual(t, "old.pdf", filepath.Base(p))
	}
	assert.Equal(t, []float64{110}, widths(t, created[0]))
	assert.Equal(t, []float64{120}, widths(t, created[1]))
}

func TestSortByTrailingNumber(t *testing.T) {
	paths := []string{"d/doc_10.pdf", "d/doc_2.pdf", "d/doc_1-1.pdf", "d/other.pdf"}
	sortByTrailingNumber(paths)
	assert.Equal(t, []string{"d/other.pdf", "d/doc_1-1.pdf", "d/doc_2.pdf", "d/doc_10.pdf"}, paths)
}

func TestOptimize(t *testing.T) {
	dir := t.TempDir()
	in := widthsPDF(t, dir, 2)

	out := filepath.Join(dir, "small.pdf")
	require.NoError(t, Optimize(in, out, nil))
	assert.Equal(t, 2, pageCount(t, out))
}

func TestRecompressImages(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WritePhotoPDF(t, dir, "photo.pdf", 400, 300, 100)

	out := filepath.Join(dir, "smaller.pdf")
	replaced, err := RecompressImages(in, out, 30, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, replaced)
	assert.Equal(t, 1, pageCount(t, out))

	before, err := os.Stat(in)
	require.NoError(t, err)
	after, err := os.Stat(out)
	require.NoError(t, err)
	assert.Less(t, after.Size(), before.Size())

	again := filepath.Join(dir, "again.pdf")
	replaced, err = RecompressImages(out, again, 90, nil)
	require.NoError(t, err)
	assert.Zero(t, replaced, "images that would grow are kept")
}

func TestRecompressImages_Errors(t *testing.T) {
	dir := t.TempDir()
	in := widthsPDF(t, dir, 1)

	_, err := RecompressImages(in, filepath.Join(dir, "out.pdf"), 0, nil)
	assert.Error(t, err)

	replaced, err := RecompressImages(in, filepath.Join(dir, "png.pdf"), 50, nil)
	require.NoError(t, err)
	assert.Zero(t, replaced, "only JPEG images are re-encoded")

	broken := testutil.WriteFile(t, dir, "broken.pdf", []byte("garbage"))
	_, err = RecompressImages(broken, filepath.Join(dir, "broken_out.pdf"), 50, nil)
	assert.Error(t, err)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := testutil.WriteFile(t, dir, "src.bin", []byte("payload"))
	dst := filepath.Join(dir, "dst.bin")

	require.NoError(t, copyFile(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	assert.Error(t, copyFile(filepath.Join(dir, "missing"), dst))
}
