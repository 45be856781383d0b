package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roboco-io/hwp2hwpx/internal/config"
	"github.com/roboco-io/hwp2hwpx/internal/ir"
	"github.com/roboco-io/hwp2hwpx/internal/llm"
	"github.com/roboco-io/hwp2hwpx/internal/logging"
	"github.com/roboco-io/hwp2hwpx/internal/parser"
	"github.com/roboco-io/hwp2hwpx/internal/render"
	writer "github.com/roboco-io/hwp2hwpx/internal/writer/hwpx"
)

// Output targets.
const (
	targetHWPX = "hwpx"
	targetMD   = "md"
	targetText = "txt"
	targetJSON = "json"
)

var (
	convertOutput    string
	convertTo        string
	convertUseLLM    bool
	convertProvider  string
	convertModel     string
	convertSkipEmpty bool
	convertTimeout   time.Duration
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "HWP 문서를 HWPX 또는 Markdown으로 변환",
	Long: `HWP 5.x(또는 HWPX) 문서를 변환합니다.

기본 출력은 HWPX 패키지입니다. --to 로 md, txt, json 출력을 고를 수 있으며
-o 를 생략하면 HWPX 는 입력 파일 옆에, 나머지는 stdout 에 씁니다.
--llm 플래그를 사용하면 Markdown 출력을 LLM 으로 다듬습니다.

환경 변수:
  HWP2HWPX_LLM=true       LLM 포맷팅 활성화
  HWP2HWPX_PROVIDER=xxx   LLM 프로바이더 (anthropic, openai, gemini, ollama)
  HWP2HWPX_MODEL=xxx      모델 이름 (프로바이더 자동 감지)

예시:
  hwp2hwpx convert document.hwp
  hwp2hwpx convert document.hwp -o output.hwpx
  hwp2hwpx convert document.hwp --to md -o output.md
  hwp2hwpx convert document.hwp --to md --llm --provider anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "출력 파일 경로")
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "", "출력 형식 (hwpx, md, txt, json)")
	convertCmd.Flags().BoolVar(&convertUseLLM, "llm", false, "LLM 포맷팅 활성화 (Markdown 출력)")
	convertCmd.Flags().StringVar(&convertProvider, "provider", "", "LLM 프로바이더 (anthropic, openai, gemini, ollama)")
	convertCmd.Flags().StringVar(&convertModel, "model", "", "LLM 모델 이름")
	convertCmd.Flags().BoolVar(&convertSkipEmpty, "skip-empty", false, "빈 문단 제외")
	convertCmd.Flags().DurationVar(&convertTimeout, "timeout", 5*time.Minute, "LLM 요청 제한 시간")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	start := time.Now()
	cfg := loadConfig()

	useLLM := convertUseLLM || config.GetEnvBool(config.EnvLLM)
	target, err := resolveTarget(convertTo, convertOutput, cfg.Output.Format, useLLM)
	if err != nil {
		return err
	}
	if useLLM && target != targetMD {
		return fmt.Errorf("--llm 은 Markdown 출력(--to md)에서만 사용할 수 있습니다")
	}

	opts := parser.DefaultOptions()
	opts.SkipEmptyParagraphs = convertSkipEmpty
	doc, format, err := parseDocument(inputPath, opts)
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}
	logging.Debug("parsed document",
		"input", inputPath,
		"format", format.String(),
		"sections", len(doc.Sections),
		"blocks", len(doc.Blocks()))

	outputPath := convertOutput
	if target == targetHWPX {
		if outputPath == "" {
			outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".hwpx"
		}
		if sameFile(inputPath, outputPath) {
			return fmt.Errorf("입력과 출력 파일이 같습니다: %s", outputPath)
		}
		if err := writer.New().WriteFile(outputPath, doc); err != nil {
			return fmt.Errorf("HWPX 저장 실패: %w", err)
		}
	} else {
		var data []byte
		switch target {
		case targetMD:
			md := render.Markdown(doc)
			if useLLM {
				md, err = formatWithLLM(cmd.Context(), cfg, doc)
				if err != nil {
					return fmt.Errorf("LLM 포맷팅 실패: %w", err)
				}
			}
			data = []byte(md)
		case targetText:
			data = []byte(render.Text(doc))
		case targetJSON:
			data, err = render.JSON(doc, cfg.Output.Pretty)
			if err != nil {
				return fmt.Errorf("JSON 변환 실패: %w", err)
			}
		}
		if err := writeOutput(cmd, outputPath, data); err != nil {
			return err
		}
	}

	if outputPath != "" {
		logging.Conversion(inputPath, outputPath, target, time.Since(start), "llm", useLLM)
		if !logQuiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "변환 완료: %s\n", outputPath)
		}
	}
	return nil
}

// resolveTarget picks the output format: the --to flag, then the output
// file extension, then md when LLM formatting is on, then the configured
// default.
func resolveTarget(to, output, configured string, useLLM bool) (string, error) {
	name := strings.ToLower(to)
	if name == "" && output != "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	if name == "" && useLLM {
		name = targetMD
	}
	if name == "" {
		name = strings.ToLower(configured)
	}

	switch name {
	case targetHWPX, "":
		return targetHWPX, nil
	case targetMD, "markdown":
		return targetMD, nil
	case targetText, "text":
		return targetText, nil
	case targetJSON:
		return targetJSON, nil
	}
	return "", fmt.Errorf("지원하지 않는 출력 형식입니다: %s (hwpx, md, txt, json)", name)
}

func sameFile(a, b string) bool {
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		out := cmd.OutOrStdout()
		if _, err := out.Write(data); err != nil {
			return err
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Fprintln(out)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("파일 저장 실패: %w", err)
	}
	return nil
}

// resolveProvider picks the provider name and model: flags first, then the
// environment, then the config file. A model without a provider selects the
// provider by its name.
func resolveProvider(cfg *config.Config, flagProvider, flagModel string) (string, string) {
	model := flagModel
	if model == "" {
		model = config.GetEnvOrDefault(config.EnvModel, "")
	}

	name := flagProvider
	if name == "" {
		name = config.GetEnvOrDefault(config.EnvProvider, "")
	}
	if name == "" && model != "" {
		name = llm.DetectProvider(model)
	}
	if name == "" {
		name = cfg.DefaultProvider
	}

	if model == "" {
		if p, ok := cfg.GetProvider(name); ok {
			model = p.Model
		}
	}
	return name, model
}

func formatWithLLM(ctx context.Context, cfg *config.Config, doc *ir.Document) (string, error) {
	name, model := resolveProvider(cfg, convertProvider, convertModel)

	pc := llm.ProviderConfig{Model: model}
	if p, ok := cfg.GetProvider(name); ok {
		pc.APIKey = p.APIKey
		pc.MaxTokens = p.MaxTokens
		pc.Endpoint = p.Endpoint
	}
	pc = providerFromEnv(name, pc)

	provider, err := llm.New(name, pc)
	if err != nil {
		return "", err
	}
	if err := provider.Validate(); err != nil {
		return "", err
	}

	opts := llm.DefaultFormatOptions()
	opts.Temperature = cfg.Format.Temperature
	if cfg.Format.Language != "" {
		opts.Language = cfg.Format.Language
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, convertTimeout)
	defer cancel()

	logging.Info("formatting with LLM", "provider", provider.Name(), "model", provider.Model())
	result, err := provider.Format(ctx, doc, opts)
	if err != nil {
		return "", err
	}
	logging.Info("LLM formatting done",
		"model", result.Model,
		"input_tokens", result.Usage.InputTokens,
		"output_tokens", result.Usage.OutputTokens)

	return result.Markdown + "\n", nil
}
