package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// extractDOCX extracts per-paragraph text from DOCX bytes. A .docx file is a
// zip archive whose word/document.xml part holds the body as a sequence of
// <w:p> paragraphs containing <w:t> text runs.
func (e *Extractor) extractDOCX(content []byte) ([]Page, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("opening docx archive: %w", err)
	}

	var doc *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return nil, errors.New("docx archive is missing word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return nil, fmt.Errorf("opening document.xml: %w", err)
	}
	defer rc.Close()

	return parseDOCXParagraphs(rc)
}

// parseDOCXParagraphs walks the WordprocessingML token stream, flushing one
// Page per non-empty <w:p> paragraph. Paragraph numbers are 1-based and
// count only the document's paragraphs, blank ones included, matching how
// word processors number them.
func parseDOCXParagraphs(r io.Reader) ([]Page, error) {
	decoder := xml.NewDecoder(r)

	var pages []Page
	var paragraph strings.Builder
	inText := false
	paragraphNum := 0

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document.xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				paragraph.Reset()
				paragraphNum++
			case "t":
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if text := trimPage(paragraph.String()); text != "" {
					pages = append(pages, Page{Text: text, Number: paragraphNum})
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				paragraph.Write(t)
			}
		}
	}

	return pages, nil
}
