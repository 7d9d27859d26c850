package document

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Extractor extracts page/paragraph text from document bytes.
type Extractor struct {
	maxPages int
	logger   *zap.Logger
}

// NewExtractor creates an extractor. maxPages caps how many PDF pages are
// processed; zero or negative means all pages. Large documents can be capped
// to keep ingestion inside a request deadline.
func NewExtractor(maxPages int, logger *zap.Logger) *Extractor {
	return &Extractor{
		maxPages: maxPages,
		logger:   logger,
	}
}

// Extract pulls text out of the document content according to its format.
// It returns at least one page or an error; an empty extraction is an
// unrecoverable failure for the enclosing request.
func (e *Extractor) Extract(content []byte, format Format) ([]Page, error) {
	var pages []Page
	var err error

	switch format {
	case FormatPDF:
		pages, err = e.extractPDF(content)
	case FormatDOCX:
		pages, err = e.extractDOCX(content)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return nil, err
	}

	if len(pages) == 0 {
		return nil, ErrNoText
	}

	e.logger.Info("extracted document text",
		zap.String("format", string(format)),
		zap.Int("pages", len(pages)),
	)

	return pages, nil
}

// trimPage normalizes extracted text, returning "" for pages that carry
// nothing but whitespace (scanned images, separators).
func trimPage(text string) string {
	return strings.TrimSpace(text)
}
