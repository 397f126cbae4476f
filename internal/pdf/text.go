package pdf

import (
	"fmt"
	"os"
	"strings"

	"github.com/dslipak/pdf"
)

// PageText is the plain text of one page.
type PageText struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// ExtractText returns the plain text of the given 1-based pages (all pages
// when empty). Pages outside the document are ignored. Text is trimmed;
// pages without text are returned with an empty Text.
func ExtractText(path string, pages []int) (texts []PageText, err error) {
	// The parser panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			texts, err = nil, fmt.Errorf("failed to parse %s: %v", path, r)
		}
	}()

	f, err := os.Open(path) //nolint:gosec // G304: reading user-provided PDF path is expected
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat PDF %q: %w", path, err)
	}
	reader, err := pdf.NewReader(f, fi.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %q: %w", path, err)
	}

	total := reader.NumPage()
	if len(pages) == 0 {
		pages = allPages(total)
	}

	texts = make([]PageText, 0, len(pages))
	for _, p := range pages {
		if p < 1 || p > total {
			continue
		}
		page := reader.Page(p)
		if page.V.IsNull() {
			texts = append(texts, PageText{Page: p})
			continue
		}
		text, err := page.GetPlainText(make(map[string]*pdf.Font))
		if err != nil {
			return nil, fmt.Errorf("failed to read text of page %d: %w", p, err)
		}
		texts = append(texts, PageText{Page: p, Text: strings.TrimSpace(text)})
	}
	return texts, nil
}

// FormatPageText renders pages as "--- Page N ---" blocks, skipping pages
// without text. The result is empty when no page has text.
func FormatPageText(pages []PageText) string {
	var b strings.Builder
	for _, p := range pages {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "\n\n--- Page %d ---\n%s", p.Page, text)
	}
	return b.String()
}
