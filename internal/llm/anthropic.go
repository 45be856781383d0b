package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// DefaultAnthropicModel is used when no model is configured.
const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicProvider formats documents with the Claude Messages API.
type AnthropicProvider struct {
	cfg    ProviderConfig
	client anthropic.Client
}

// NewAnthropic creates a Claude provider. Endpoint, when set, replaces the
// API base URL.
func NewAnthropic(cfg ProviderConfig) *AnthropicProvider {
	if cfg.Model == "" {
		cfg.Model = DefaultAnthropicModel
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	return &AnthropicProvider{
		cfg:    cfg,
		client: anthropic.NewClient(opts...),
	}
}

func (p *AnthropicProvider) Name() string { return ProviderAnthropic }

func (p *AnthropicProvider) Model() string { return p.cfg.Model }

func (p *AnthropicProvider) Validate() error {
	if p.cfg.APIKey == "" {
		return errors.New("anthropic: API key is not set (ANTHROPIC_API_KEY)")
	}
	return nil
}

func (p *AnthropicProvider) Format(ctx context.Context, doc *ir.Document, opts FormatOptions) (*FormatResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return format(ctx, p.Name(), doc, p.cfg.apply(opts), p.complete)
}

func (p *AnthropicProvider) complete(ctx context.Context, system, user string, opts FormatOptions) (*completion, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.cfg.Model),
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(opts.Temperature),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return &completion{
		text:  sb.String(),
		model: string(msg.Model),
		usage: TokenUsage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}, nil
}
