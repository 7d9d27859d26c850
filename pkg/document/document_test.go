package document_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/vellumhq/vellum/pkg/document"
)

func TestDocument(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Document Suite")
}

// buildDOCX assembles a minimal in-memory .docx with the given paragraphs.
func buildDOCX(paragraphs ...string) []byte {
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		fmt.Fprintf(&body, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, p)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	Expect(err).NotTo(HaveOccurred())
	_, err = f.Write(body.Bytes())
	Expect(err).NotTo(HaveOccurred())
	Expect(zw.Close()).To(Succeed())

	return buf.Bytes()
}

var _ = Describe("DetectFormat", func() {
	It("detects PDF and DOCX extensions", func() {
		format, err := document.DetectFormat("https://example.com/policy.pdf")
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal(document.FormatPDF))

		format, err = document.DetectFormat("https://example.com/policy.docx")
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal(document.FormatDOCX))
	})

	It("ignores the query string of signed URLs", func() {
		format, err := document.DetectFormat("https://blob.example.com/policy.pdf?sv=2023&sig=abc.docx")
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal(document.FormatPDF))
	})

	It("is case-insensitive", func() {
		format, err := document.DetectFormat("https://example.com/POLICY.PDF")
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal(document.FormatPDF))
	})

	It("rejects unsupported extensions", func() {
		_, err := document.DetectFormat("https://example.com/policy.txt")
		Expect(err).To(MatchError(document.ErrUnsupportedFormat))
	})
})

var _ = Describe("Fetcher", func() {
	var (
		logger *zap.Logger
		ctx    context.Context
	)

	BeforeEach(func() {
		logger = zap.NewNop()
		ctx = context.Background()
	})

	It("downloads the document bytes", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("document bytes"))
		}))
		defer srv.Close()

		fetcher := document.NewFetcher(5*time.Second, logger)
		content, err := fetcher.Fetch(ctx, srv.URL)
		Expect(err).NotTo(HaveOccurred())
		Expect(content).To(Equal([]byte("document bytes")))
	})

	It("fails on a non-2xx response", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		fetcher := document.NewFetcher(5*time.Second, logger)
		_, err := fetcher.Fetch(ctx, srv.URL)
		Expect(err).To(HaveOccurred())
	})

	It("fails on an unreachable host", func() {
		fetcher := document.NewFetcher(time.Second, logger)
		_, err := fetcher.Fetch(ctx, "http://127.0.0.1:1/policy.pdf")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Extractor", func() {
	var (
		logger    *zap.Logger
		extractor *document.Extractor
	)

	BeforeEach(func() {
		logger = zap.NewNop()
		extractor = document.NewExtractor(0, logger)
	})

	It("extracts numbered paragraphs from DOCX content", func() {
		content := buildDOCX("First paragraph.", "Second paragraph.")

		pages, err := extractor.Extract(content, document.FormatDOCX)
		Expect(err).NotTo(HaveOccurred())
		Expect(pages).To(HaveLen(2))
		Expect(pages[0]).To(Equal(document.Page{Text: "First paragraph.", Number: 1}))
		Expect(pages[1]).To(Equal(document.Page{Text: "Second paragraph.", Number: 2}))
	})

	It("skips blank paragraphs but keeps their numbering", func() {
		content := buildDOCX("First.", "   ", "Third.")

		pages, err := extractor.Extract(content, document.FormatDOCX)
		Expect(err).NotTo(HaveOccurred())
		Expect(pages).To(HaveLen(2))
		Expect(pages[1].Number).To(Equal(3))
	})

	It("returns ErrNoText for a document with only blank paragraphs", func() {
		content := buildDOCX("  ", "\t")

		_, err := extractor.Extract(content, document.FormatDOCX)
		Expect(err).To(MatchError(document.ErrNoText))
	})

	It("fails on bytes that are not a zip archive", func() {
		_, err := extractor.Extract([]byte("not a docx"), document.FormatDOCX)
		Expect(err).To(HaveOccurred())
	})

	It("fails on bytes that are not a PDF", func() {
		_, err := extractor.Extract([]byte("not a pdf"), document.FormatPDF)
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown format", func() {
		_, err := extractor.Extract([]byte("anything"), document.Format("rtf"))
		Expect(err).To(MatchError(document.ErrUnsupportedFormat))
	})
})
