package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/hwp2hwpx/internal/llm"
)

// providerEnv describes where a registered provider reads its credentials.
type providerEnv struct {
	envKey       string
	defaultModel string
	description  string
}

var providerEnvs = map[string]providerEnv{
	llm.ProviderAnthropic: {"ANTHROPIC_API_KEY", llm.DefaultAnthropicModel, "Anthropic Claude API"},
	llm.ProviderOpenAI:    {"OPENAI_API_KEY", llm.DefaultOpenAIModel, "OpenAI GPT API"},
	llm.ProviderGemini:    {"GOOGLE_API_KEY", llm.DefaultGeminiModel, "Google Gemini API"},
	llm.ProviderOllama:    {"OLLAMA_HOST", llm.DefaultOllamaModel, "로컬 Ollama 서버"},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "사용 가능한 LLM 프로바이더 목록",
	Long: `convert --llm 에서 사용할 수 있는 프로바이더와 설정 상태를 표시합니다.

상태는 환경 변수의 키로 프로바이더를 만들어 검증한 결과입니다.
ollama는 OLLAMA_HOST가 없으면 기본 주소(` + llm.DefaultOllamaEndpoint + `)를 사용합니다.

사용 예시:
  hwp2hwpx convert document.hwp --to md --llm --provider anthropic
  hwp2hwpx convert document.hwp --to md --llm --model gpt-4o`,
	Run: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "프로바이더\t기본 모델\t환경 변수\t상태\t설명")
	for _, name := range llm.List() {
		env := providerEnvs[name]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			name, env.defaultModel, env.envKey, providerStatus(name), env.description)
	}
}

// providerStatus builds the provider from the environment and reports
// whether it would pass validation.
func providerStatus(name string) string {
	p, err := llm.New(name, providerFromEnv(name, llm.ProviderConfig{}))
	if err != nil {
		return "✗ " + err.Error()
	}
	if err := p.Validate(); err != nil {
		return "✗ 미설정"
	}
	return "✓ 사용가능"
}

// providerFromEnv fills the key or host of cfg from the provider's
// environment variable. Values already in cfg win.
func providerFromEnv(name string, cfg llm.ProviderConfig) llm.ProviderConfig {
	value := os.Getenv(providerEnvKey(name))
	switch {
	case value == "":
	case name == llm.ProviderOllama:
		if cfg.Endpoint == "" {
			cfg.Endpoint = value
		}
	case cfg.APIKey == "":
		cfg.APIKey = value
	}
	return cfg
}

// providerEnvKey returns the environment variable holding the named
// provider's key or host.
func providerEnvKey(name string) string {
	return providerEnvs[name].envKey
}
