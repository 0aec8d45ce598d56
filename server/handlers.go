package server

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chronoslabs/chronos/errors"
	"github.com/chronoslabs/chronos/logger"
	"github.com/chronoslabs/chronos/model"
)

// GraphStore is the graph surface the handlers need.
type GraphStore interface {
	CreateHistoricalObservation(ctx context.Context, text, sourceID string) (string, error)
	CreateModernStudy(ctx context.Context, article model.Article) (string, error)
	GetNodeByID(ctx context.Context, nodeID string) (map[string]any, error)
	CreateHypothesisLink(ctx context.Context, histID, modID, hypothesis string) (string, error)
}

// ArticleSearcher searches modern studies.
type ArticleSearcher interface {
	Search(ctx context.Context, query string, page, perPage int) ([]model.Article, error)
}

// HypothesisGenerator produces a hypothesis from two node property sets.
type HypothesisGenerator interface {
	GenerateHypothesis(ctx context.Context, historical, modern map[string]any) (string, error)
}

// TextExtractor extracts text from an uploaded image.
type TextExtractor interface {
	ExtractText(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// Handlers holds the API handlers and their dependencies.
type Handlers struct {
	graph     GraphStore
	articles  ArticleSearcher
	generator HypothesisGenerator
	extractor TextExtractor
	log       *logger.Logger
}

// NewHandlers creates the API handler set.
func NewHandlers(graph GraphStore, articles ArticleSearcher, generator HypothesisGenerator, extractor TextExtractor, log *logger.Logger) *Handlers {
	return &Handlers{
		graph:     graph,
		articles:  articles,
		generator: generator,
		extractor: extractor,
		log:       log.WithComponent("api"),
	}
}

// Root answers the API root greeting.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Chronos API"})
}

// SearchArticles handles GET /api/v1/spine-articles/search.
func (h *Handlers) SearchArticles(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		RespondWithError(c, errors.MissingField("q"))
		return
	}

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 10)

	articles, err := h.articles.Search(c.Request.Context(), query, page, perPage)
	if err != nil {
		h.log.Error("Article search failed", logger.Fields("query", query, logger.FieldError, err.Error()))
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results":  articles,
		"page":     page,
		"per_page": perPage,
		"query":    query,
	})
}

// ExtractText handles POST /api/v1/ocr.
func (h *Handlers) ExtractText(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		RespondWithError(c, errors.MissingField("file"))
		return
	}

	file, err := header.Open()
	if err != nil {
		RespondWithError(c, errors.InvalidInput("file", "could not read uploaded file"))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondWithError(c, errors.InvalidInput("file", "could not read uploaded file"))
		return
	}

	text, err := h.extractor.ExtractText(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// ingestHistoricalRequest is the payload for historical observation ingest.
type ingestHistoricalRequest struct {
	Text     string `json:"text"`
	SourceID string `json:"source_id"`
}

// IngestHistorical handles POST /api/v1/graph/ingest-historical.
func (h *Handlers) IngestHistorical(c *gin.Context) {
	var req ingestHistoricalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, errors.InvalidInput("", "request body must be valid JSON"))
		return
	}
	if req.Text == "" {
		RespondWithError(c, errors.MissingField("text"))
		return
	}
	if req.SourceID == "" {
		RespondWithError(c, errors.MissingField("source_id"))
		return
	}

	id, err := h.graph.CreateHistoricalObservation(c.Request.Context(), req.Text, req.SourceID)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// IngestModern handles POST /api/v1/graph/ingest-modern.
func (h *Handlers) IngestModern(c *gin.Context) {
	var article model.Article
	if err := c.ShouldBindJSON(&article); err != nil {
		RespondWithError(c, errors.InvalidInput("", err.Error()))
		return
	}

	id, err := h.graph.CreateModernStudy(c.Request.Context(), article)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// GenerateHypothesis handles POST /api/v1/hypothesis. Both referenced nodes
// must exist before generation starts. The generated link is persisted
// best-effort: a persistence failure is logged but the hypothesis is still
// returned.
func (h *Handlers) GenerateHypothesis(c *gin.Context) {
	var req model.HypothesisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, errors.InvalidInput("", "hist_id and modern_id are required"))
		return
	}

	ctx := c.Request.Context()

	historical, err := h.graph.GetNodeByID(ctx, req.HistID)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	modern, err := h.graph.GetNodeByID(ctx, req.ModernID)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	hypothesis, err := h.generator.GenerateHypothesis(ctx, historical, modern)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	if _, err := h.graph.CreateHypothesisLink(ctx, req.HistID, req.ModernID, hypothesis); err != nil {
		h.log.Warn("Failed to persist hypothesis link",
			logger.Fields("hist_id", req.HistID, "modern_id", req.ModernID, logger.FieldError, err.Error()))
	}

	c.JSON(http.StatusOK, gin.H{
		"hypothesis": hypothesis,
		"evidence":   []string{req.HistID, req.ModernID},
	})
}

// WriteDKGStub handles POST /api/v1/dkg/write-stub. The stub is logged and
// echoed back.
func (h *Handlers) WriteDKGStub(c *gin.Context) {
	var stub model.DKGStub
	if err := c.ShouldBindJSON(&stub); err != nil {
		RespondWithError(c, errors.InvalidInput("", "node_id and metadata are required"))
		return
	}

	h.log.Info("DKG stub received", logger.Fields("node_id", stub.NodeID))
	c.JSON(http.StatusOK, stub)
}

// queryInt parses an integer query parameter with a floor of 1.
func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
