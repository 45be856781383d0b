package llm

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

const (
	// DefaultOpenAIModel is used when no model is configured.
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOllamaModel is used when no Ollama model is configured.
	DefaultOllamaModel = "llama3.2"
	// DefaultOllamaEndpoint is the local Ollama server.
	DefaultOllamaEndpoint = "http://localhost:11434"
)

// OpenAIProvider formats documents with an OpenAI-compatible chat
// completions API. Ollama is served by the same client through its /v1
// endpoint.
type OpenAIProvider struct {
	name   string
	cfg    ProviderConfig
	client *openai.Client
}

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(cfg ProviderConfig) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		oc.BaseURL = cfg.Endpoint
	}
	return &OpenAIProvider{name: ProviderOpenAI, cfg: cfg, client: openai.NewClientWithConfig(oc)}
}

// NewOllama creates a provider for a local Ollama server.
func NewOllama(cfg ProviderConfig) *OpenAIProvider {
	if cfg.Model == "" {
		cfg.Model = DefaultOllamaModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultOllamaEndpoint
	}
	// Ollama 은 키를 확인하지 않는다
	oc := openai.DefaultConfig("ollama")
	oc.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/v1"
	return &OpenAIProvider{name: ProviderOllama, cfg: cfg, client: openai.NewClientWithConfig(oc)}
}

func (p *OpenAIProvider) Name() string { return p.name }

func (p *OpenAIProvider) Model() string { return p.cfg.Model }

func (p *OpenAIProvider) Validate() error {
	if p.name == ProviderOpenAI && p.cfg.APIKey == "" {
		return errors.New("openai: API key is not set (OPENAI_API_KEY)")
	}
	if p.name == ProviderOllama && p.cfg.Endpoint == "" {
		return errors.New("ollama: endpoint is not set")
	}
	return nil
}

func (p *OpenAIProvider) Format(ctx context.Context, doc *ir.Document, opts FormatOptions) (*FormatResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return format(ctx, p.Name(), doc, p.cfg.apply(opts), p.complete)
}

func (p *OpenAIProvider) complete(ctx context.Context, system, user string, opts FormatOptions) (*completion, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return &completion{
		text:  resp.Choices[0].Message.Content,
		model: resp.Model,
		usage: TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}
