// Package llm formats decoded documents into polished Markdown with a
// language model. Providers share one prompt and differ only in transport.
package llm

import (
	"context"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// Provider turns a document into Markdown through one LLM backend.
type Provider interface {
	// Name is the registry key, e.g. "anthropic".
	Name() string

	// Model is the model requests are sent to.
	Model() string

	// Validate reports missing credentials or endpoints before any request.
	Validate() error

	Format(ctx context.Context, doc *ir.Document, opts FormatOptions) (*FormatResult, error)
}

// FormatOptions tunes a single Format call. Zero fields fall back to the
// provider's settings.
type FormatOptions struct {
	Language    string  `json:"language,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	// Prompt replaces the built-in system prompt.
	Prompt string `json:"prompt,omitempty"`
}

// FormatResult is the cleaned Markdown plus what the backend reported.
type FormatResult struct {
	Markdown string     `json:"markdown"`
	Model    string     `json:"model"`
	Usage    TokenUsage `json:"usage"`
}

// TokenUsage counts tokens as reported by the backend.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// DefaultFormatOptions asks for Korean output at a low temperature.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		Language:    "ko",
		MaxTokens:   4096,
		Temperature: 0.3,
	}
}
