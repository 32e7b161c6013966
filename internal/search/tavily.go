// ABOUTME: Tavily web search client for live queries
// ABOUTME: Distinguishes rate limiting and outages from empty result sets
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/maitre-ai/maitre/internal/util"
)

// Live search failure kinds.
var (
	// ErrUnavailable means the search provider could not be reached or errored.
	ErrUnavailable = errors.New("search provider unavailable")
	// ErrRateLimited means the provider rejected the query for quota reasons.
	ErrRateLimited = errors.New("search provider rate limited")
	// ErrNoResults means the query ran fine but matched nothing.
	ErrNoResults = errors.New("no search results")
)

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"content"`
}

// Response is the provider's answer to one query.
type Response struct {
	Answer  string   `json:"answer"`
	Results []Result `json:"results"`
}

// Client calls the Tavily search API.
type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	maxRetries int
	retryDelay time.Duration
	http       *http.Client
}

// Config holds Tavily client settings.
type Config struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// NewClient creates a Tavily search client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Tavily API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.tavily.com"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResults,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		http:       &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Search runs one web search. Transient provider failures retry with
// backoff; rate limits and empty result sets surface as typed errors so
// the caller can phrase a useful reply.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	if query == "" {
		return nil, fmt.Errorf("query is empty: %w", ErrNoResults)
	}

	reqBody := map[string]any{
		"api_key":        c.apiKey,
		"query":          query,
		"search_depth":   "basic",
		"include_answer": true,
		"max_results":    c.maxResults,
	}

	var resp Response
	err := util.Do(ctx, c.maxRetries, c.retryDelay, func() error {
		return c.post(ctx, reqBody, &resp)
	})
	if err != nil {
		return nil, err
	}

	if resp.Answer == "" && len(resp.Results) == 0 {
		return nil, fmt.Errorf("query %q: %w", query, ErrNoResults)
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return util.Permanent(fmt.Errorf("encoding request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(data))
	if err != nil {
		return util.Permanent(fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		// Quota exhaustion never recovers within one request's lifetime.
		return util.Permanent(ErrRateLimited)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return util.Permanent(fmt.Errorf("%w: %s: %s", ErrUnavailable, resp.Status, bytes.TrimSpace(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	return nil
}
