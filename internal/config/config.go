// Package config manages application configuration.
package config

// Config represents the application configuration.
type Config struct {
	DefaultProvider string              `yaml:"default_provider"`
	Providers       map[string]Provider `yaml:"providers"`
	Format          FormatConfig        `yaml:"format"`
	Output          OutputConfig        `yaml:"output"`
	Log             LogConfig           `yaml:"log"`
}

// Provider represents an LLM provider configuration.
type Provider struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	Endpoint  string `yaml:"endpoint,omitempty"` // for Ollama or custom endpoints
}

// FormatConfig contains formatting options.
type FormatConfig struct {
	Temperature float64 `yaml:"temperature"`
	Language    string  `yaml:"language"`
}

// OutputConfig holds the defaults for extract and convert output.
type OutputConfig struct {
	Format string `yaml:"format"` // hwpx, md, txt, json
	Pretty bool   `yaml:"pretty"`
}

// LogConfig selects the log level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultProvider: "anthropic",
		Providers: map[string]Provider{
			"openai": {
				APIKey:    "${OPENAI_API_KEY}",
				Model:     "gpt-4o-mini",
				MaxTokens: 4096,
			},
			"anthropic": {
				APIKey:    "${ANTHROPIC_API_KEY}",
				Model:     "claude-sonnet-4-20250514",
				MaxTokens: 4096,
			},
			"gemini": {
				APIKey:    "${GOOGLE_API_KEY}",
				Model:     "gemini-2.0-flash",
				MaxTokens: 4096,
			},
			"ollama": {
				Endpoint:  "${OLLAMA_HOST}",
				Model:     "llama3.2",
				MaxTokens: 4096,
			},
		},
		Format: FormatConfig{
			Temperature: 0.3,
			Language:    "ko",
		},
		Output: OutputConfig{
			Format: "hwpx",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// GetProvider returns the provider configuration by name.
func (c *Config) GetProvider(name string) (*Provider, bool) {
	p, ok := c.Providers[name]
	if !ok {
		return nil, false
	}
	return &p, true
}

// GetDefaultProvider returns the default provider configuration.
func (c *Config) GetDefaultProvider() (*Provider, bool) {
	return c.GetProvider(c.DefaultProvider)
}

// ApplyEnv overrides the provider choice from HWP2HWPX_PROVIDER and the
// model of that provider from HWP2HWPX_MODEL.
func (c *Config) ApplyEnv() {
	if name := GetEnvOrDefault(EnvProvider, ""); name != "" {
		c.DefaultProvider = name
	}
	if model := GetEnvOrDefault(EnvModel, ""); model != "" {
		if c.Providers == nil {
			c.Providers = make(map[string]Provider)
		}
		p := c.Providers[c.DefaultProvider]
		p.Model = model
		c.Providers[c.DefaultProvider] = p
	}
}

// fillDefaults sets the output and log sections a hand-written file may omit.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Output.Format == "" {
		c.Output.Format = def.Output.Format
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}
