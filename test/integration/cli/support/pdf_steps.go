package support

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/pagekit/internal/pdf"
	"github.com/cucumber/godog"
	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// writeFixturePDF builds a PDF whose page i (1-based) is 100+10*i points
// wide and 200 points high, so page order can be read back from the widths.
func writeFixturePDF(path string, pages int) error {
	if pages < 1 {
		return fmt.Errorf("a fixture PDF needs at least one page, got %d", pages)
	}
	imgDir, err := os.MkdirTemp("", "pagekit-fixture-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(imgDir) }()

	images := make([]string, pages)
	for i := range images {
		shade := uint8(40 + (i*37)%200)
		img := imaging.New(100+10*(i+1), 200, color.NRGBA{R: shade, G: 255 - shade, B: 128, A: 255})
		images[i] = filepath.Join(imgDir, fmt.Sprintf("page%d.png", i+1))
		if err := imaging.Save(img, images[i]); err != nil {
			return fmt.Errorf("failed to write fixture page: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = types.Full
	return api.ImportImagesFile(images, path, imp, model.NewDefaultConfiguration())
}

// aPDFWithPagesInTheInputFolder creates a fixture PDF in the input folder.
func (testCtx *TestContext) aPDFWithPagesInTheInputFolder(name string, pages int) error {
	return writeFixturePDF(testCtx.InputPath(name), pages)
}

// anImageInTheInputFolder creates a solid image in the input folder.
func (testCtx *TestContext) anImageInTheInputFolder(name string, width, height int) error {
	img := imaging.New(width, height, color.NRGBA{R: 30, G: 90, B: 200, A: 160})
	return imaging.Save(img, testCtx.InputPath(name))
}

// thatPDFShouldHavePages checks the page count of the last matched artifact.
func (testCtx *TestContext) thatPDFShouldHavePages(n int) error {
	if testCtx.LastOutputFile == "" {
		return fmt.Errorf("no output file was matched before")
	}
	count, err := pdf.PageCount(testCtx.LastOutputFile)
	if err != nil {
		return err
	}
	if count != n {
		return fmt.Errorf("expected %d pages in %s, found %d", n, filepath.Base(testCtx.LastOutputFile), count)
	}
	return nil
}

// thatPDFShouldHavePageWidths compares the page widths, in order, of the
// last matched artifact with a comma separated list.
func (testCtx *TestContext) thatPDFShouldHavePageWidths(list string) error {
	sizes, err := pdf.PageSizes(testCtx.LastOutputFile)
	if err != nil {
		return err
	}
	want := strings.Split(list, ",")
	if len(want) != len(sizes) {
		return fmt.Errorf("expected %d pages, found %d", len(want), len(sizes))
	}
	for i, w := range want {
		width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
		if err != nil {
			return fmt.Errorf("invalid width %q: %w", w, err)
		}
		if math.Abs(sizes[i].Width-width) > 0.01 {
			return fmt.Errorf("page %d is %.2f wide, expected %.2f", i+1, sizes[i].Width, width)
		}
	}
	return nil
}

// thatPDFShouldBeEncrypted checks the encryption dictionary of the artifact.
func (testCtx *TestContext) thatPDFShouldBeEncrypted(negate string) error {
	encrypted, err := pdf.IsEncrypted(testCtx.LastOutputFile)
	if err != nil {
		return err
	}
	want := negate == ""
	if encrypted != want {
		return fmt.Errorf("encrypted = %v, expected %v", encrypted, want)
	}
	return nil
}

// theCSVReportShouldHaveRows checks a CSV run report, header excluded.
func (testCtx *TestContext) theCSVReportShouldHaveRows(filename string, rows int) error {
	f, err := os.Open(testCtx.Path(filename))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("report is not valid CSV: %w", err)
	}
	if len(records) == 0 || records[0][0] != "tool" {
		return fmt.Errorf("report has no header row: %v", records)
	}
	if len(records)-1 != rows {
		return fmt.Errorf("expected %d report rows, found %d", rows, len(records)-1)
	}
	return nil
}

// RegisterPDFSteps registers document fixture and artifact steps.
func (testCtx *TestContext) RegisterPDFSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a PDF "([^"]*)" with (\d+) pages? in the input folder$`, testCtx.aPDFWithPagesInTheInputFolder)
	sc.Step(`^an image "([^"]*)" of (\d+)x(\d+) pixels in the input folder$`, testCtx.anImageInTheInputFolder)
	sc.Step(`^that PDF should have (\d+) pages?$`, testCtx.thatPDFShouldHavePages)
	sc.Step(`^that PDF should have page widths "([^"]*)"$`, testCtx.thatPDFShouldHavePageWidths)
	sc.Step(`^that PDF should (not )?be encrypted$`, testCtx.thatPDFShouldBeEncrypted)
	sc.Step(`^the CSV report "([^"]*)" should have (\d+) rows?$`, testCtx.theCSVReportShouldHaveRows)
}
