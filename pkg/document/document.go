// Package document acquires raw document bytes and extracts page- or
// paragraph-level text from them. It supplies the retrieval core with
// (text, page number) pairs; everything downstream of extraction lives in
// pkg/chunker and pkg/index.
package document

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrNoText is returned when no text could be extracted from a
	// document. This is fatal for the request: there is nothing to index.
	ErrNoText = errors.New("no text could be extracted from the document")

	// ErrUnsupportedFormat is returned for documents that are neither PDF
	// nor DOCX.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Format identifies a supported document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Page is a unit of extracted text with its provenance: the 1-based page
// number for PDFs, or the 1-based paragraph number for DOCX.
type Page struct {
	Text   string
	Number int
}

// DetectFormat determines the document format from the URL path, ignoring
// any query string (signed URLs carry tokens after the '?').
func DetectFormat(rawURL string) (Format, error) {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	} else if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		path = rawURL[:i]
	}

	switch {
	case strings.HasSuffix(strings.ToLower(path), ".pdf"):
		return FormatPDF, nil
	case strings.HasSuffix(strings.ToLower(path), ".docx"):
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
