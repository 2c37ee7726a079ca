package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/psemenov/veracity/internal/model"
	"github.com/psemenov/veracity/internal/util"
)

// Options filters one search call.
type Options struct {
	MaxResults     int
	IncludeDomains []string
	ExcludeDomains []string
	Freshness      model.Freshness
}

// Client talks to the web search API. One client is shared by the whole
// batch; the optional global semaphore caps total in-flight search calls
// across all claims since they share one API key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxResults int
	perClaim   int
	delay      time.Duration
	global     chan struct{}
	logger     *zap.Logger
}

// NewClient creates a search client from configuration.
func NewClient(cfg model.SearchConfig, proxy model.ProxyConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 8
	}

	perClaim := cfg.PerClaim
	if perClaim <= 0 {
		perClaim = 3
	}

	var global chan struct{}
	if cfg.GlobalLimit > 0 {
		global = make(chan struct{}, cfg.GlobalLimit)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(proxy.HTTP, proxy.HTTPS, proxy.NoProxy),
			},
		},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxResults: maxResults,
		perClaim:   perClaim,
		delay:      cfg.Delay,
		global:     global,
		logger:     logger,
	}
}

type searchRequest struct {
	Query          string   `json:"query"`
	MaxResults     int      `json:"max_results"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
	Freshness      string   `json:"freshness,omitempty"`
}

type searchResponse struct {
	Results []struct {
		URL           string `json:"url"`
		Title         string `json:"title"`
		Content       string `json:"content"`
		PublishedDate string `json:"published_date"`
	} `json:"results"`
}

// Search executes one query and returns ranked results. Relevance is
// derived from result position.
func (c *Client) Search(ctx context.Context, query string, opts Options) ([]model.SearchResult, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("search base URL not configured")
	}

	if c.global != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case c.global <- struct{}{}:
		}
		defer func() { <-c.global }()
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = c.maxResults
	}

	body, err := json.Marshal(searchRequest{
		Query:          query,
		MaxResults:     maxResults,
		IncludeDomains: opts.IncludeDomains,
		ExcludeDomains: opts.ExcludeDomains,
		Freshness:      string(opts.Freshness),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search status %d: %s", resp.StatusCode, string(payload))
	}

	var parsed searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4_000_000)).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]model.SearchResult, 0, len(parsed.Results))
	for i, r := range parsed.Results {
		if r.URL == "" {
			continue
		}
		results = append(results, model.SearchResult{
			URL:           r.URL,
			Title:         r.Title,
			Preview:       r.Content,
			Relevance:     1.0 / float64(i+1),
			PublishedDate: r.PublishedDate,
		})
	}

	return results, nil
}

// SearchBatch executes all queries with bounded concurrency and a fixed
// delay between request launches (a rate-limit accommodation; zero for
// higher-tier backend accounts). Failed queries come back as empty result
// lists rather than failing the batch; the only error returned is a
// cancelled context.
func (c *Client) SearchBatch(ctx context.Context, queries []string, opts Options) (map[string][]model.SearchResult, error) {
	results := make(map[string][]model.SearchResult, len(queries))
	if len(queries) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.perClaim)

	for i, query := range queries {
		if i > 0 && c.delay > 0 {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		g.Go(func() error {
			found, err := c.Search(gctx, query, opts)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.logger.Warn("search query failed",
					zap.String("query", query),
					zap.Error(err))
				found = nil
			}
			mu.Lock()
			results[query] = found
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
