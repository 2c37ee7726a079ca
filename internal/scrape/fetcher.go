package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/psemenov/veracity/internal/model"
	"github.com/psemenov/veracity/internal/util"
	"github.com/psemenov/veracity/internal/worker"
)

// Fetcher fetches a page and extracts its readable text. A fixed-size slot
// pool bounds concurrent fetches; requests beyond capacity queue. Each
// attempt gets a hard wall-clock timeout regardless of how many claims are
// waiting on the URL through the cache.
type Fetcher struct {
	httpClient     *http.Client
	userAgent      string
	maxBytes       int64
	minContent     int
	timeout        time.Duration
	domainTimeouts map[string]time.Duration
	pool           chan struct{}
	limiter        *worker.Limiter
	robots         *RobotsChecker
	logger         *zap.Logger
}

// NewFetcher creates a fetcher from configuration.
func NewFetcher(cfg model.ScrapeConfig, proxy model.ProxyConfig, logger *zap.Logger) *Fetcher {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 8
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 25 * time.Second
	}

	var robots *RobotsChecker
	if cfg.RespectRobots {
		robots = NewRobotsChecker(cfg.UserAgent, timeout)
	}

	return &Fetcher{
		httpClient: &http.Client{
			// Per-attempt timeout comes from the request context
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(proxy.HTTP, proxy.HTTPS, proxy.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:      cfg.UserAgent,
		maxBytes:       cfg.MaxBodyBytes,
		minContent:     cfg.MinContent,
		timeout:        timeout,
		domainTimeouts: cfg.DomainTimeouts,
		pool:           make(chan struct{}, poolSize),
		limiter:        worker.NewLimiter(cfg.RatePerDomain, 2),
		robots:         robots,
		logger:         logger,
	}
}

// Fetch retrieves one URL and returns its extracted text. An empty string
// with a nil error means the page produced no usable content; an error
// means the fetch itself failed. Both are terminal for the batch.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}

	// Queue for a pool slot
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case f.pool <- struct{}{}:
	}
	defer func() { <-f.pool }()

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return "", err
	}

	if f.robots != nil {
		allowed, err := f.robots.CanFetch(ctx, rawURL)
		if err == nil && !allowed {
			return "", fmt.Errorf("disallowed by robots.txt")
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, f.timeoutFor(parsed.Host))
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	text := f.extractText(body, resp.Request.URL)
	if len(text) < f.minContent {
		// Fetched fine but nothing worth excerpting
		return "", nil
	}

	return text, nil
}

// timeoutFor returns the per-attempt timeout, honoring domain overrides
// (e.g. slow archives get more, link shorteners less).
func (f *Fetcher) timeoutFor(host string) time.Duration {
	if t, ok := f.domainTimeouts[host]; ok && t > 0 {
		return t
	}
	for domain, t := range f.domainTimeouts {
		if t > 0 && strings.HasSuffix(host, "."+domain) {
			return t
		}
	}
	return f.timeout
}

// extractText runs readability extraction with a visible-text fallback for
// pages readability cannot parse into an article.
func (f *Fetcher) extractText(body []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(strings.NewReader(string(body)), pageURL)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text
		}
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(extractVisibleText(doc))
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles.
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
