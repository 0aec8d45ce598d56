package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chronoslabs/chronos/cache"
	"github.com/chronoslabs/chronos/errors"
	"github.com/chronoslabs/chronos/httpclient"
	"github.com/chronoslabs/chronos/logger"
	"github.com/chronoslabs/chronos/model"
	"github.com/chronoslabs/chronos/resilience"
)

// Store is the cache surface the client needs. A nil store disables caching.
type Store interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
}

// Client searches PubMed via the E-utilities API.
type Client struct {
	cfg   Config
	http  *httpclient.Client
	store Store
	log   *logger.Logger
}

// New creates a PubMed client backed by the given cache store.
func New(cfg Config, store Store, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()

	hc, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		RateLimiter: resilience.NewRateLimiter(resilience.RateLimiterConfig{
			Name: "pubmed",
			Rate: cfg.RequestsPerSecond,
		}),
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:   cfg,
		http:  hc,
		store: store,
		log:   log.WithComponent("pubmed"),
	}, nil
}

// esearchResponse is the JSON envelope of the esearch phase.
type esearchResponse struct {
	Result *struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search returns one page of articles matching query. Results are cached
// per (query, page, perPage) tuple; an empty ID list is a valid result and
// is cached too so repeated misses stay cheap.
func (c *Client) Search(ctx context.Context, query string, page, perPage int) ([]model.Article, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	key := cache.Key("pubmed", "search", query, strconv.Itoa(page), strconv.Itoa(perPage))
	if c.store != nil {
		var cached []model.Article
		if c.store.Get(ctx, key, &cached) {
			c.log.Info("Cache hit for PubMed search", logger.Fields("query", query))
			return cached, nil
		}
	}

	ids, err := c.searchIDs(ctx, query, page, perPage)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		articles := []model.Article{}
		if c.store != nil {
			c.store.Set(ctx, key, articles, c.cfg.CacheTTL)
		}
		return articles, nil
	}

	articles, err := c.fetchArticles(ctx, ids)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		c.store.Set(ctx, key, articles, c.cfg.CacheTTL)
	}
	return articles, nil
}

// searchIDs runs the esearch phase and returns the matching PMIDs.
func (c *Client) searchIDs(ctx context.Context, query string, page, perPage int) ([]string, error) {
	params := map[string]string{
		"db":         "pubmed",
		"term":       query,
		"retmode":    "json",
		"retmax":     strconv.Itoa(perPage),
		"retstart":   strconv.Itoa((page - 1) * perPage),
		"usehistory": "y",
	}
	if c.cfg.APIKey != "" {
		params["api_key"] = c.cfg.APIKey
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: "GET",
		Path:   "esearch.fcgi",
		Query:  params,
	})
	if err != nil {
		return nil, errors.ExternalServiceError("PubMed", err)
	}

	var result esearchResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, errors.ExternalServiceError("PubMed", fmt.Errorf("decode esearch response: %w", err))
	}
	if result.Result == nil {
		return nil, errors.ExternalServiceError("PubMed", fmt.Errorf("unexpected esearch response shape"))
	}
	return result.Result.IDList, nil
}

// fetchArticles runs the efetch phase for the given PMIDs.
func (c *Client) fetchArticles(ctx context.Context, ids []string) ([]model.Article, error) {
	params := map[string]string{
		"db":      "pubmed",
		"id":      strings.Join(ids, ","),
		"retmode": "xml",
		"rettype": "abstract",
	}
	if c.cfg.APIKey != "" {
		params["api_key"] = c.cfg.APIKey
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: "GET",
		Path:   "efetch.fcgi",
		Query:  params,
	})
	if err != nil {
		return nil, errors.ExternalServiceError("PubMed", err)
	}

	return parseArticles(resp.Body, ids), nil
}
