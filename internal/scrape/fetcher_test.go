package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/psemenov/veracity/internal/model"
)

func testFetcher(mutate func(*model.ScrapeConfig)) *Fetcher {
	cfg := model.ScrapeConfig{
		Timeout:       5 * time.Second,
		PoolSize:      4,
		UserAgent:     "veracity-test",
		MaxBodyBytes:  1_000_000,
		MinContent:    20,
		RatePerDomain: 100,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewFetcher(cfg, model.ProxyConfig{}, zap.NewNop())
}

func articlePage(paragraphs int) string {
	var sb strings.Builder
	sb.WriteString("<html><head><title>Test Article</title></head><body><article>")
	for i := 0; i < paragraphs; i++ {
		fmt.Fprintf(&sb, "<p>Paragraph %d contains several interesting factual statements about the topic at hand.</p>", i)
	}
	sb.WriteString("</article><script>var junk = 1;</script></body></html>")
	return sb.String()
}

func TestFetch_ExtractsReadableText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "veracity-test" {
			t.Errorf("wrong user agent: %q", ua)
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, articlePage(5))
	}))
	defer srv.Close()

	f := testFetcher(nil)
	text, err := f.Fetch(context.Background(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(text, "Paragraph 0") || !strings.Contains(text, "Paragraph 4") {
		t.Errorf("article text incomplete: %.120q", text)
	}
	if strings.Contains(text, "var junk") {
		t.Error("script content leaked into extracted text")
	}
}

func TestFetch_ThinContentIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>tiny</p></body></html>")
	}))
	defer srv.Close()

	f := testFetcher(func(cfg *model.ScrapeConfig) { cfg.MinContent = 200 })
	text, err := f.Fetch(context.Background(), srv.URL+"/thin")
	if err != nil {
		t.Fatalf("thin content must not be an error: %v", err)
	}
	if text != "" {
		t.Errorf("expected empty text for thin page, got %q", text)
	}
}

func TestFetch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := testFetcher(nil)
	if _, err := f.Fetch(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestFetch_RespectsRobots(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articlePage(3))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := testFetcher(func(cfg *model.ScrapeConfig) { cfg.RespectRobots = true })

	if _, err := f.Fetch(context.Background(), srv.URL+"/private/page"); err == nil {
		t.Error("expected robots.txt to block /private/")
	}
	if _, err := f.Fetch(context.Background(), srv.URL+"/public/page"); err != nil {
		t.Errorf("allowed path blocked: %v", err)
	}
}

func TestFetch_TruncatesOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>")
		fmt.Fprint(w, strings.Repeat("A very long sentence that repeats endlessly. ", 10000))
		fmt.Fprint(w, "</p></body></html>")
	}))
	defer srv.Close()

	f := testFetcher(func(cfg *model.ScrapeConfig) { cfg.MaxBodyBytes = 50_000 })
	text, err := f.Fetch(context.Background(), srv.URL+"/huge")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(text) > 60_000 {
		t.Errorf("body cap not applied: %d chars extracted", len(text))
	}
}

func TestFetch_CancelledWhileQueued(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		fmt.Fprint(w, articlePage(3))
	}))
	defer srv.Close()
	defer close(release)

	f := testFetcher(func(cfg *model.ScrapeConfig) { cfg.PoolSize = 1 })

	// Occupy the single slot
	go func() { _, _ = f.Fetch(context.Background(), srv.URL+"/slow") }()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if _, err := f.Fetch(ctx, srv.URL+"/queued"); err == nil {
		t.Fatal("expected context error while queued for a pool slot")
	}
}

func TestTimeoutFor(t *testing.T) {
	f := testFetcher(func(cfg *model.ScrapeConfig) {
		cfg.Timeout = 10 * time.Second
		cfg.DomainTimeouts = map[string]time.Duration{
			"archive.example": 60 * time.Second,
			"fast.example":    2 * time.Second,
		}
	})

	tests := []struct {
		host string
		want time.Duration
	}{
		{"archive.example", 60 * time.Second},
		{"web.archive.example", 60 * time.Second},
		{"fast.example", 2 * time.Second},
		{"other.example", 10 * time.Second},
	}
	for _, tt := range tests {
		if got := f.timeoutFor(tt.host); got != tt.want {
			t.Errorf("timeoutFor(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}
