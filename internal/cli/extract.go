package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roboco-io/hwp2hwpx/internal/ir"
	"github.com/roboco-io/hwp2hwpx/internal/parser"
	"github.com/roboco-io/hwp2hwpx/internal/render"
)

var (
	extractOutput      string
	extractFormat      string
	extractPrettyPrint bool
	extractSkipEmpty   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "HWP/HWPX 문서에서 IR(중간 표현) 추출",
	Long: `HWP/HWPX 문서를 파싱하여 IR(Intermediate Representation)을 추출합니다.

변환 없이 구역, 문단, 표 구조를 그대로 출력합니다.
출력 형식은 JSON 또는 텍스트(표는 ASCII 격자)를 지원합니다.

예시:
  hwp2hwpx extract document.hwp
  hwp2hwpx extract document.hwp -o output.json
  hwp2hwpx extract document.hwpx --format text`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "출력 형식 (json, text)")
	extractCmd.Flags().BoolVar(&extractPrettyPrint, "pretty", true, "JSON 들여쓰기 적용")
	extractCmd.Flags().BoolVar(&extractSkipEmpty, "skip-empty", false, "빈 문단 제외")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	opts := parser.DefaultOptions()
	opts.SkipEmptyParagraphs = extractSkipEmpty
	doc, _, err := parseDocument(inputPath, opts)
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}

	output, err := formatOutput(doc, extractFormat, extractPrettyPrint)
	if err != nil {
		return fmt.Errorf("출력 포맷팅 실패: %w", err)
	}

	if err := writeOutput(cmd, extractOutput, output); err != nil {
		return err
	}
	if extractOutput != "" && !logQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "IR 추출 완료: %s\n", extractOutput)
	}
	return nil
}

func formatOutput(doc *ir.Document, format string, pretty bool) ([]byte, error) {
	switch format {
	case "json":
		return render.JSON(doc, pretty)
	case "text", "txt":
		return []byte(render.Text(doc)), nil
	default:
		return nil, fmt.Errorf("지원하지 않는 출력 형식: %s (json, text)", format)
	}
}
