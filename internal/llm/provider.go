package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Provider defines the interface for LLM backends. Every stage adapter
// (extraction, query generation, credibility, excerpts, verification) goes
// through this one interface so backends stay swappable.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt and returns the raw completion text
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one completion call.
type CompletionRequest struct {
	// System sets the system message (role/behavior framing)
	System string

	// Prompt is the user message
	Prompt string

	// MaxTokens limits the response length (0 = provider default)
	MaxTokens int

	// Temperature controls sampling (stage adapters keep this low)
	Temperature float32

	// ForceJSON requests a JSON-object response from backends that support it
	ForceJSON bool
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens default for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   60,
		MaxTokens: 2000,
	}
}

// DecodeJSON unmarshals a completion into dst, tolerating the markdown code
// fences and leading prose that chat models wrap JSON payloads in.
func DecodeJSON(raw string, dst any) error {
	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return fmt.Errorf("no JSON payload in completion")
	}
	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		return fmt.Errorf("decode completion JSON: %w", err)
	}
	return nil
}

// ExtractJSON pulls the first JSON object or array out of completion text.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Strip markdown fences
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// Already a bare object or array
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}

	// Find the outermost object or array in surrounding prose
	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(s, pair[0])
		end := strings.LastIndexByte(s, pair[1])
		if start >= 0 && end > start {
			return s[start : end+1]
		}
	}

	return ""
}
