// Command hwp2hwpx converts HWP 5.x documents to HWPX, Markdown, text or
// JSON.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roboco-io/hwp2hwpx/internal/cli"
)

// 빌드 시 -ldflags "-X main.version=..." 로 설정
var version = "dev"

func main() {
	cli.SetVersion(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
