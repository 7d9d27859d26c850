package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/vellumhq/vellum/api/query"
	"github.com/vellumhq/vellum/pkg/document"
	"github.com/vellumhq/vellum/pkg/evaluator"
	"github.com/vellumhq/vellum/pkg/queryparser"
	testutils "github.com/vellumhq/vellum/pkg/utils/test"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}

// testDOCX assembles a minimal in-memory .docx with the given paragraphs.
func testDOCX(paragraphs ...string) []byte {
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

var _ = Describe("Server", func() {
	var (
		embedder  *testutils.MockEmbedder
		completer *testutils.MockCompleter
		server    *Server
	)

	BeforeEach(func() {
		logger := zap.NewNop()
		embedder = testutils.NewMockEmbedder()
		completer = testutils.NewMockCompleter("")

		parser := queryparser.NewParser(completer, logger)
		eval := evaluator.NewEvaluator(completer, logger)
		svc := query.NewService(parser, eval, embedder, query.Config{
			ChunkSize: 200,
			Overlap:   20,
			TopK:      3,
			Workers:   2,
		}, logger)

		fetcher := document.NewFetcher(5*time.Second, logger)
		extractor := document.NewExtractor(0, logger)

		server = NewServer(Config{ListenAddr: ":0"}, fetcher, extractor, svc, logger)
	})

	postQuery := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/query", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := server.app.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	It("responds to ping", func() {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		resp, err := server.app.Test(req, -1)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("rejects a malformed body", func() {
		resp := postQuery("{not json")
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("rejects a missing document URL", func() {
		resp := postQuery(`{"questions":["anything?"]}`)
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("rejects an empty question list", func() {
		resp := postQuery(`{"documents":"https://example.com/policy.pdf","questions":[]}`)
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("rejects an unsupported document format", func() {
		resp := postQuery(`{"documents":"https://example.com/policy.txt","questions":["covered?"]}`)
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("returns bad gateway when the document cannot be downloaded", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		resp := postQuery(fmt.Sprintf(`{"documents":%q,"questions":["covered?"]}`, srv.URL+"/policy.pdf"))
		Expect(resp.StatusCode).To(Equal(http.StatusBadGateway))
	})

	It("rejects a document with no extractable text", func() {
		content := testDOCX("   ")
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write(content)
		}))
		defer srv.Close()

		resp := postQuery(fmt.Sprintf(`{"documents":%q,"questions":["covered?"]}`, srv.URL+"/policy.docx"))
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

		var body ErrorResponse
		Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		Expect(body.Error).To(ContainSubstring("no extractable text"))
	})

	It("answers every question against the document", func() {
		completer.Responses["document analysis assistant"] = `{"answer":"Yes, hospitalization is covered.","decision":"covered","confidence":"High"}`

		content := testDOCX(
			"The policy covers hospitalization expenses.",
			"A waiting period of 30 days applies to all claims.",
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write(content)
		}))
		defer srv.Close()

		resp := postQuery(fmt.Sprintf(
			`{"documents":%q,"questions":["Is hospitalization covered?","What is the waiting period?"]}`,
			srv.URL+"/policy.docx",
		))
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		raw, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())

		var body QueryResponse
		Expect(json.Unmarshal(raw, &body)).To(Succeed())
		Expect(body.Answers).To(HaveLen(2))
		Expect(body.Answers[0]).To(Equal("Yes, hospitalization is covered."))
		Expect(body.Answers[1]).To(Equal("Yes, hospitalization is covered."))
	})
})
