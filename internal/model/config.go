package model

import "time"

// Config is the complete veracity configuration. It is built once in the CLI
// layer and passed down explicitly; no package reads it from globals.
type Config struct {
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Credibility CredibilityConfig `yaml:"credibility" mapstructure:"credibility"`
	Scrape      ScrapeConfig      `yaml:"scrape" mapstructure:"scrape"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Excerpt     ExcerptConfig     `yaml:"excerpt" mapstructure:"excerpt"`
	Pipeline    PipelineConfig    `yaml:"pipeline" mapstructure:"pipeline"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Proxy       ProxyConfig       `yaml:"proxy" mapstructure:"proxy"`
}

// LLMConfig configures the LLM provider shared by all stage adapters.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // openai, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"` // Custom endpoint (Ollama, proxies)
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"`   // Seconds per request
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// SearchConfig configures the search backend and batch pacing.
type SearchConfig struct {
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey         string        `yaml:"api_key" mapstructure:"api_key"`
	MaxResults     int           `yaml:"max_results" mapstructure:"max_results"` // Per query
	PerClaim       int           `yaml:"per_claim_concurrency" mapstructure:"per_claim_concurrency"`
	Delay          time.Duration `yaml:"delay" mapstructure:"delay"` // Between requests; 0 for higher-tier accounts
	GlobalLimit    int           `yaml:"global_concurrency" mapstructure:"global_concurrency"`
	IncludeDomains []string      `yaml:"include_domains" mapstructure:"include_domains"`
	ExcludeDomains []string      `yaml:"exclude_domains" mapstructure:"exclude_domains"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CredibilityConfig controls which classified sources are admitted for scraping.
type CredibilityConfig struct {
	MinScore   float64 `yaml:"min_score" mapstructure:"min_score"`
	MaxSources int     `yaml:"max_sources" mapstructure:"max_sources"`
}

// ScrapeConfig configures the page fetcher and its pooling.
type ScrapeConfig struct {
	Timeout        time.Duration            `yaml:"timeout" mapstructure:"timeout"` // Hard per-attempt wall clock
	DomainTimeouts map[string]time.Duration `yaml:"domain_timeouts" mapstructure:"domain_timeouts"`
	PoolSize       int                      `yaml:"pool_size" mapstructure:"pool_size"`
	UserAgent      string                   `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes   int64                    `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MinContent     int                      `yaml:"min_content_chars" mapstructure:"min_content_chars"`
	RespectRobots  bool                     `yaml:"respect_robots" mapstructure:"respect_robots"`
	RatePerDomain  float64                  `yaml:"rate_per_domain" mapstructure:"rate_per_domain"` // Requests/sec
}

// ExtractConfig controls claim extraction and input chunking.
type ExtractConfig struct {
	ChunkChars    int     `yaml:"chunk_chars" mapstructure:"chunk_chars"`
	ChunkOverlap  int     `yaml:"chunk_overlap" mapstructure:"chunk_overlap"`
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
}

// ExcerptConfig controls excerpt extraction.
type ExcerptConfig struct {
	MaxContentChars int     `yaml:"max_content_chars" mapstructure:"max_content_chars"`
	MinRelevance    float64 `yaml:"min_relevance" mapstructure:"min_relevance"`
}

// PipelineConfig controls batch-level concurrency and score buckets.
type PipelineConfig struct {
	ClaimConcurrency  int     `yaml:"claim_concurrency" mapstructure:"claim_concurrency"`
	VerifiedThreshold float64 `yaml:"verified_threshold" mapstructure:"verified_threshold"`
	PartialThreshold  float64 `yaml:"partial_threshold" mapstructure:"partial_threshold"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeAudit  bool `yaml:"include_audit" mapstructure:"include_audit"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// ProxyConfig configures outbound HTTP proxying for fetch and search clients.
type ProxyConfig struct {
	HTTP    string `yaml:"http" mapstructure:"http"`
	HTTPS   string `yaml:"https" mapstructure:"https"`
	NoProxy string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// DefaultConfig returns the built-in defaults. Thresholds here are policy
// knobs, not invariants; deployments are expected to tune them.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			Timeout:   60,
			MaxTokens: 2000,
		},
		Search: SearchConfig{
			MaxResults:  8,
			PerClaim:    3,
			Delay:       250 * time.Millisecond,
			GlobalLimit: 12,
			Timeout:     20 * time.Second,
		},
		Credibility: CredibilityConfig{
			MinScore:   0.5,
			MaxSources: 5,
		},
		Scrape: ScrapeConfig{
			Timeout:       25 * time.Second,
			PoolSize:      8,
			UserAgent:     "Veracity/0.3 (+https://github.com/psemenov/veracity)",
			MaxBodyBytes:  3_000_000,
			MinContent:    200,
			RespectRobots: true,
			RatePerDomain: 1.0,
		},
		Extract: ExtractConfig{
			ChunkChars:    8000,
			ChunkOverlap:  500,
			MinConfidence: 0.3,
		},
		Excerpt: ExcerptConfig{
			MaxContentChars: 12000,
			MinRelevance:    0.3,
		},
		Pipeline: PipelineConfig{
			ClaimConcurrency:  4,
			VerifiedThreshold: 0.75,
			PartialThreshold:  0.4,
		},
		Output: OutputConfig{
			IncludeAudit:  true,
			IncludeFooter: true,
		},
	}
}
