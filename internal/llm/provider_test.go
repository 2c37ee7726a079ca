package llm

import (
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "bare array",
			in:   `[1, 2]`,
			want: `[1, 2]`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "plain fence",
			in:   "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "leading prose",
			in:   `Here is the result: {"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "prose both sides",
			in:   `Sure! {"a": 1} Hope that helps.`,
			want: `{"a": 1}`,
		},
		{
			name: "whitespace",
			in:   "\n  {\"a\": 1}  \n",
			want: `{"a": 1}`,
		},
		{
			name: "no payload",
			in:   "I cannot answer that.",
			want: "",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.in); got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Score float64 `json:"score"`
	}

	var p payload
	if err := DecodeJSON("```json\n{\"score\": 0.8}\n```", &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Score != 0.8 {
		t.Errorf("score = %v, want 0.8", p.Score)
	}

	if err := DecodeJSON("no json here", &p); err == nil {
		t.Error("expected error for completion without JSON")
	}

	if err := DecodeJSON(`{"score": "not a number"}`, &p); err == nil {
		t.Error("expected error for mismatched types")
	}
}
