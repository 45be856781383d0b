package llm

import "strings"

// Provider names.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
)

// ProviderConfig is the connection setting of one provider.
type ProviderConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	Endpoint  string
}

// apply fills MaxTokens from the provider setting when opts leaves it open.
func (c ProviderConfig) apply(opts FormatOptions) FormatOptions {
	if opts.MaxTokens <= 0 && c.MaxTokens > 0 {
		opts.MaxTokens = c.MaxTokens
	}
	return opts
}

// DetectProvider guesses the provider from a model name. An empty name
// selects anthropic; unknown names are assumed to be local Ollama models.
func DetectProvider(model string) string {
	m := strings.ToLower(model)
	switch {
	case m == "":
		return ProviderAnthropic
	case strings.HasPrefix(m, "claude"):
		return ProviderAnthropic
	case strings.HasPrefix(m, "gpt"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"):
		return ProviderOpenAI
	case strings.HasPrefix(m, "gemini"):
		return ProviderGemini
	}
	return ProviderOllama
}
