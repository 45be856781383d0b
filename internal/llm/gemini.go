package llm

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider formats documents with the Gemini API.
type GeminiProvider struct {
	cfg ProviderConfig
}

// NewGemini creates a Gemini provider. The client is created per call
// because genai needs a context to set up.
func NewGemini(cfg ProviderConfig) *GeminiProvider {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	return &GeminiProvider{cfg: cfg}
}

func (p *GeminiProvider) Name() string { return ProviderGemini }

func (p *GeminiProvider) Model() string { return p.cfg.Model }

func (p *GeminiProvider) Validate() error {
	if p.cfg.APIKey == "" {
		return errors.New("gemini: API key is not set (GOOGLE_API_KEY)")
	}
	return nil
}

func (p *GeminiProvider) Format(ctx context.Context, doc *ir.Document, opts FormatOptions) (*FormatResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return format(ctx, p.Name(), doc, p.cfg.apply(opts), p.complete)
}

func (p *GeminiProvider) complete(ctx context.Context, system, user string, opts FormatOptions) (*completion, error) {
	cc := &genai.ClientConfig{
		APIKey:  p.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.cfg.Endpoint != "" {
		cc.HTTPOptions.BaseURL = p.cfg.Endpoint
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}

	resp, err := client.Models.GenerateContent(ctx, p.cfg.Model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens:   int32(opts.MaxTokens),
	})
	if err != nil {
		return nil, err
	}

	c := &completion{text: resp.Text(), model: p.cfg.Model}
	if resp.ModelVersion != "" {
		c.model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		c.usage = TokenUsage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return c, nil
}
