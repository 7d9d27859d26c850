package document

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// extractPDF extracts per-page plain text from PDF bytes, honoring the
// configured page cap.
func (e *Extractor) extractPDF(content []byte) ([]Page, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	numPages := reader.NumPage()
	if e.maxPages > 0 && numPages > e.maxPages {
		e.logger.Info("capping pdf extraction",
			zap.Int("total_pages", numPages),
			zap.Int("max_pages", e.maxPages),
		)
		numPages = e.maxPages
	}

	var pages []Page
	for n := 1; n <= numPages; n++ {
		text, err := extractPDFPage(reader, n)
		if err != nil {
			// A single unreadable page is not fatal; the rest of the
			// document can still be indexed.
			e.logger.Warn("skipping unreadable pdf page",
				zap.Int("page", n),
				zap.Error(err),
			)
			continue
		}

		if text = trimPage(text); text != "" {
			pages = append(pages, Page{Text: text, Number: n})
		}
	}

	return pages, nil
}

// extractPDFPage reads one page's plain text. The pdf library panics on some
// malformed content streams; the recover converts that into an error for the
// per-page skip path.
func extractPDFPage(reader *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is null", n)
	}

	return page.GetPlainText(nil)
}
