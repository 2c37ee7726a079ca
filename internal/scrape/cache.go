package scrape

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/psemenov/veracity/internal/cache"
)

// PageFetcher fetches and extracts the readable text of one URL.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Cache deduplicates fetches across all claims in one batch. For any URL the
// underlying fetcher runs at most once, no matter how many claims request it
// or how their requests interleave. A URL that fails to produce usable
// content stays a negative result for the rest of the batch.
//
// The cache lives exactly as long as its batch and is never reused; fresh
// content is non-negotiable across runs.
type Cache struct {
	fetcher PageFetcher
	store   cache.Store
	logger  *zap.Logger

	mu       sync.Mutex
	inflight map[string]chan struct{}
}

// NewCache creates a batch-scoped scrape cache around a fetcher.
func NewCache(fetcher PageFetcher, logger *zap.Logger) *Cache {
	return &Cache{
		fetcher:  fetcher,
		store:    cache.NewMemoryStore(),
		logger:   logger,
		inflight: make(map[string]chan struct{}),
	}
}

// Get resolves every URL, fetching the ones this batch has not seen yet.
// The returned map has one entry per requested URL; an empty string marks
// failed or insufficient extraction.
func (c *Cache) Get(ctx context.Context, urls []string) map[string]string {
	results := make(map[string]string, len(urls))
	if len(urls) == 0 {
		return results
	}

	// Dedupe the request itself before fanning out
	unique := make([]string, 0, len(urls))
	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		if u != "" && !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, u := range unique {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			content := c.getOne(ctx, url)
			mu.Lock()
			results[url] = content
			mu.Unlock()
		}(u)
	}

	wg.Wait()
	return results
}

// getOne resolves a single URL through the cache. Exactly one of three
// things happens atomically with respect to other callers: a cached value is
// returned, the caller blocks on another caller's in-progress fetch, or the
// caller claims the fetch itself. The network fetch runs outside the lock.
func (c *Cache) getOne(ctx context.Context, url string) string {
	key := cache.Key(url)

	for {
		c.mu.Lock()

		if val, found := c.store.Get(key); found {
			c.mu.Unlock()
			return string(val)
		}

		if ch, pending := c.inflight[url]; pending {
			c.mu.Unlock()
			// Wait without occupying a fetch slot
			select {
			case <-ctx.Done():
				return ""
			case <-ch:
			}
			continue
		}

		ch := make(chan struct{})
		c.inflight[url] = ch
		c.mu.Unlock()

		content, err := c.fetcher.Fetch(ctx, url)
		if err != nil {
			c.logger.Warn("scrape failed", zap.String("url", url), zap.Error(err))
			content = ""
		}

		c.mu.Lock()
		c.store.Set(key, []byte(content))
		delete(c.inflight, url)
		c.mu.Unlock()
		close(ch)

		return content
	}
}
