// Package cli implements the hwp2hwpx command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roboco-io/hwp2hwpx/internal/config"
	"github.com/roboco-io/hwp2hwpx/internal/logging"
)

var version = "dev"

var (
	logVerbose bool
	logQuiet   bool
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "hwp2hwpx [file]",
	Short: "HWP 5.x 문서를 HWPX로 변환",
	Long: `hwp2hwpx는 한글 HWP 5.x 바이너리 문서를 읽어 HWPX(OWPML) 패키지로 변환합니다.
Markdown, 텍스트, JSON(IR)으로도 내보낼 수 있습니다.

파일만 지정하면 convert 명령과 같습니다.

예시:
  hwp2hwpx document.hwp
  hwp2hwpx convert document.hwp -o out.hwpx
  hwp2hwpx convert document.hwp --to md --llm
  hwp2hwpx inspect document.hwp`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runConvert(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 출력",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hwp2hwpx %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&logVerbose, "verbose", "v", false, "상세 출력 (debug 로그)")
	rootCmd.PersistentFlags().BoolVarP(&logQuiet, "quiet", "q", false, "조용한 모드 (error 로그만)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "로그 형식 (text, json)")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. Cancelling ctx aborts LLM requests.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setupLogging configures the global logger from the config file and the
// persistent flags. Flags win over the file.
func setupLogging(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	levelName := cfg.Log.Level
	switch {
	case logQuiet:
		levelName = "error"
	case logVerbose:
		levelName = "debug"
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}

	formatName := cfg.Log.Format
	if logFormat != "" {
		formatName = logFormat
	}
	format, err := logging.ParseFormat(formatName)
	if err != nil {
		return err
	}

	logging.InitLogger(level, format, cmd.ErrOrStderr())
	return nil
}

// loadConfig reads the user's config file with environment overrides,
// falling back to defaults when it cannot be read.
func loadConfig() *config.Config {
	cfg := config.DefaultConfig()
	if loader, err := config.NewLoader(); err == nil {
		if loaded, err := loader.Load(); err == nil {
			cfg = loaded
		} else {
			logging.Warn("config ignored", "path", loader.ConfigPath(), "error", err)
		}
	}
	cfg.ApplyEnv()
	return cfg
}
