package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chronoslabs/chronos/errors"
	"github.com/chronoslabs/chronos/httpclient"
	"github.com/chronoslabs/chronos/logger"
	"github.com/chronoslabs/chronos/resilience"
)

// Client calls a chat-completion API to generate hypotheses.
type Client struct {
	cfg  Config
	http *httpclient.Client
	log  *logger.Logger
}

// New creates a completion API client. Credentials are validated at call
// time so construction never fails on incomplete configuration.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()

	hc, err := httpclient.New(httpclient.Config{
		Timeout: cfg.AttemptTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:  cfg,
		http: hc,
		log:  log.WithComponent("llm"),
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateHypothesis prompts the completion API with a historical
// observation and a modern study and returns the normalized hypothesis
// text. Transport errors, per-attempt timeouts, non-2xx responses, and
// empty completions all retry under the configured policy; exhaustion is
// fatal to the request.
func (c *Client) GenerateHypothesis(ctx context.Context, historical, modern map[string]any) (string, error) {
	if c.cfg.APIURL == "" {
		return "", errors.Configuration("llm.api_url")
	}
	if c.cfg.APIKey == "" {
		return "", errors.Configuration("llm.api_key")
	}

	payload := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a scientific hypothesis generator."},
			{Role: "user", Content: buildPrompt(historical, modern)},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}

	cfg := c.cfg.Retry
	// Attempts that hit their own deadline are retried; only the caller's
	// context ends the loop early.
	cfg.RetryIf = func(error) bool {
		return ctx.Err() == nil
	}
	cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
		c.log.Warn("Hypothesis generation attempt failed, retrying",
			logger.Fields(logger.FieldAttempt, attempt, "backoff", backoff.String(), logger.FieldError, err.Error()))
	}

	hypothesis, err := resilience.Retry(ctx, cfg, func() (string, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
		defer cancel()
		return c.generateOnce(attemptCtx, payload)
	})
	if err != nil {
		return "", errors.GenerationFailed("the completion API did not return usable text", err)
	}

	return Normalize(hypothesis), nil
}

// generateOnce performs a single completion API call.
func (c *Client) generateOnce(ctx context.Context, payload chatRequest) (string, error) {
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method: "POST",
		Path:   c.cfg.APIURL,
		Body:   payload,
		Auth:   &httpclient.AuthConfig{BearerToken: c.cfg.APIKey},
	})
	if err != nil {
		return "", err
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("completion response contained no text")
	}
	return result.Choices[0].Message.Content, nil
}

// buildPrompt assembles the user prompt from node properties, with
// fallbacks for fields the nodes may lack.
func buildPrompt(historical, modern map[string]any) string {
	var b strings.Builder
	b.WriteString("Based on the following historical observation and modern study, generate a concise, testable scientific hypothesis:\n\n")

	b.WriteString("Historical Observation:\n")
	b.WriteString(stringProp(historical, "text", "No text available"))
	b.WriteString("\nSource: ")
	b.WriteString(stringProp(historical, "source_id", "Unknown source"))
	b.WriteString("\n\n")

	b.WriteString("Modern Study:\n")
	b.WriteString("Title: ")
	b.WriteString(stringProp(modern, "title", "No title available"))
	b.WriteString("\nAbstract: ")
	b.WriteString(stringProp(modern, "abstract", "No abstract available"))
	b.WriteString("\nAuthors: ")
	b.WriteString(strings.Join(listProp(modern, "authors", []string{"Unknown authors"}), ", "))
	b.WriteString("\nJournal: ")
	b.WriteString(stringProp(modern, "journal", "Unknown journal"))
	b.WriteString("\nDOI: ")
	b.WriteString(stringProp(modern, "doi", "No DOI available"))
	b.WriteString("\n\n")

	b.WriteString("Generate a hypothesis that connects these two pieces of information in a scientifically rigorous way.\n")
	b.WriteString("The hypothesis should be clear, concise, testable, and backed by the evidence provided.")
	return b.String()
}

func stringProp(props map[string]any, key, fallback string) string {
	if v, ok := props[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func listProp(props map[string]any, key string, fallback []string) []string {
	switch v := props[key].(type) {
	case []string:
		if len(v) > 0 {
			return v
		}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
