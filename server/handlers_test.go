package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/chronoslabs/chronos/errors"
	"github.com/chronoslabs/chronos/logger"
	"github.com/chronoslabs/chronos/model"
)

type fakeGraph struct {
	nodes    map[string]map[string]any
	linkErr  error
	linked   int
	lastHyp  string
	createID string
}

func (f *fakeGraph) CreateHistoricalObservation(ctx context.Context, text, sourceID string) (string, error) {
	return f.createID, nil
}

func (f *fakeGraph) CreateModernStudy(ctx context.Context, article model.Article) (string, error) {
	return f.createID, nil
}

func (f *fakeGraph) GetNodeByID(ctx context.Context, nodeID string) (map[string]any, error) {
	if node, ok := f.nodes[nodeID]; ok {
		return node, nil
	}
	return nil, errors.NotFound("node", nodeID)
}

func (f *fakeGraph) CreateHypothesisLink(ctx context.Context, histID, modID, hypothesis string) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	f.linked++
	f.lastHyp = hypothesis
	return "hyp-1", nil
}

type fakeSearcher struct {
	articles []model.Article
	err      error
}

func (f *fakeSearcher) Search(ctx context.Context, query string, page, perPage int) ([]model.Article, error) {
	return f.articles, f.err
}

type fakeGenerator struct {
	hypothesis string
	err        error
}

func (f *fakeGenerator) GenerateHypothesis(ctx context.Context, historical, modern map[string]any) (string, error) {
	return f.hypothesis, f.err
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	return f.text, f.err
}

type testDeps struct {
	graph     *fakeGraph
	searcher  *fakeSearcher
	generator *fakeGenerator
	extractor *fakeExtractor
}

func defaultDeps() *testDeps {
	return &testDeps{
		graph: &fakeGraph{
			nodes:    map[string]map[string]any{},
			createID: "hist-new",
		},
		searcher:  &fakeSearcher{},
		generator: &fakeGenerator{hypothesis: "Salicin reduces fever."},
		extractor: &fakeExtractor{text: "extracted text"},
	}
}

func newTestRouter(t *testing.T, deps *testDeps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := New(Config{}, logger.NewDefault("test"))
	h := NewHandlers(deps.graph, deps.searcher, deps.generator, deps.extractor, logger.NewDefault("test"))
	srv.RegisterRoutes(h)
	return srv.GinEngine()
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRootGreeting(t *testing.T) {
	router := newTestRouter(t, defaultDeps())
	w := doJSON(router, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Welcome to Chronos API") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestSearchArticlesRequiresQuery(t *testing.T) {
	router := newTestRouter(t, defaultDeps())
	w := doJSON(router, http.MethodGet, "/api/v1/spine-articles/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "MISSING_FIELD") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestSearchArticles(t *testing.T) {
	deps := defaultDeps()
	deps.searcher.articles = []model.Article{{PMID: "1", Title: "T", Authors: []string{"A"}}}
	router := newTestRouter(t, deps)

	w := doJSON(router, http.MethodGet, "/api/v1/spine-articles/search?q=willow+bark&page=2&per_page=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Results []model.Article `json:"results"`
		Page    int             `json:"page"`
		PerPage int             `json:"per_page"`
		Query   string          `json:"query"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 || resp.Page != 2 || resp.PerPage != 5 || resp.Query != "willow bark" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestIngestHistoricalValidation(t *testing.T) {
	router := newTestRouter(t, defaultDeps())

	w := doJSON(router, http.MethodPost, "/api/v1/graph/ingest-historical", map[string]string{"text": "obs"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing source_id: expected 400, got %d", w.Code)
	}

	w = doJSON(router, http.MethodPost, "/api/v1/graph/ingest-historical", map[string]string{"source_id": "src"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing text: expected 400, got %d", w.Code)
	}
}

func TestIngestHistorical(t *testing.T) {
	deps := defaultDeps()
	router := newTestRouter(t, deps)

	w := doJSON(router, http.MethodPost, "/api/v1/graph/ingest-historical",
		map[string]string{"text": "obs", "source_id": "src"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "hist-new") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestIngestModernValidatesArticle(t *testing.T) {
	router := newTestRouter(t, defaultDeps())
	w := doJSON(router, http.MethodPost, "/api/v1/graph/ingest-modern", map[string]any{"title": "no pmid"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGenerateHypothesis(t *testing.T) {
	deps := defaultDeps()
	deps.graph.nodes["hist-1"] = map[string]any{"text": "obs"}
	deps.graph.nodes["mod-2"] = map[string]any{"title": "study"}
	router := newTestRouter(t, deps)

	w := doJSON(router, http.MethodPost, "/api/v1/hypothesis",
		model.HypothesisRequest{HistID: "hist-1", ModernID: "mod-2"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Hypothesis string   `json:"hypothesis"`
		Evidence   []string `json:"evidence"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Hypothesis != "Salicin reduces fever." {
		t.Errorf("hypothesis: %q", resp.Hypothesis)
	}
	if len(resp.Evidence) != 2 || resp.Evidence[0] != "hist-1" || resp.Evidence[1] != "mod-2" {
		t.Errorf("evidence: %v", resp.Evidence)
	}
	if deps.graph.linked != 1 {
		t.Errorf("expected hypothesis link to be persisted, got %d", deps.graph.linked)
	}
}

func TestGenerateHypothesisMissingNode(t *testing.T) {
	deps := defaultDeps()
	deps.graph.nodes["hist-1"] = map[string]any{"text": "obs"}
	router := newTestRouter(t, deps)

	w := doJSON(router, http.MethodPost, "/api/v1/hypothesis",
		model.HypothesisRequest{HistID: "hist-1", ModernID: "mod-missing"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGenerateHypothesisLinkFailureStillSucceeds(t *testing.T) {
	deps := defaultDeps()
	deps.graph.nodes["hist-1"] = map[string]any{"text": "obs"}
	deps.graph.nodes["mod-2"] = map[string]any{"title": "study"}
	deps.graph.linkErr = fmt.Errorf("graph write failed")
	router := newTestRouter(t, deps)

	w := doJSON(router, http.MethodPost, "/api/v1/hypothesis",
		model.HypothesisRequest{HistID: "hist-1", ModernID: "mod-2"})
	if w.Code != http.StatusOK {
		t.Fatalf("link persistence is best-effort, expected 200, got %d", w.Code)
	}
}

func TestWriteDKGStubEchoes(t *testing.T) {
	router := newTestRouter(t, defaultDeps())
	stub := model.DKGStub{NodeID: "hist-1", Metadata: map[string]any{"chain": "testnet"}}

	w := doJSON(router, http.MethodPost, "/api/v1/dkg/write-stub", stub)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var got model.DKGStub
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.NodeID != stub.NodeID || got.Metadata["chain"] != "testnet" {
		t.Errorf("echo mismatch: %+v", got)
	}
}

func TestOCRRequiresFile(t *testing.T) {
	router := newTestRouter(t, defaultDeps())
	w := doJSON(router, http.MethodPost, "/api/v1/ocr", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestOCRExtractsUpload(t *testing.T) {
	deps := defaultDeps()
	router := newTestRouter(t, deps)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="scan.png"`)
	header.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	_, _ = part.Write([]byte("fake image bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "extracted text") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestOCRPropagatesValidationError(t *testing.T) {
	deps := defaultDeps()
	deps.extractor.err = errors.InvalidInput("file", "File must be an image (jpg, png, tiff, etc.)")
	router := newTestRouter(t, deps)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "doc.pdf")
	_, _ = part.Write([]byte("pdf bytes"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ocr", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}
