package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PageText is the raw text of one page of a document. Page is 1-based for
// paged formats and 0 for formats without pages.
type PageText struct {
	Page int
	Text string
}

// ReadFile extracts text from a document, dispatching on the file extension.
// Supported: .pdf, .md, .txt. Pages with no text are skipped.
func ReadFile(path string) ([]PageText, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return readPDF(path)
	case ".md", ".txt":
		return readTextFile(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(path))
	}
}

func readPDF(path string) ([]PageText, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []PageText
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, PageText{Page: i, Text: text})
	}
	return pages, nil
}

func readTextFile(path string) ([]PageText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	return []PageText{{Page: 0, Text: string(data)}}, nil
}
