// chatctl 維運工具：健康探測與建立帳號
package main

import (
	"fmt"
	"os"

	"chat-sync/internal/platform/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "chatctl",
	Short:         "chat-sync 維運工具",
	SilenceUsage:  true,
	SilenceErrors: true,
	// 日誌寫 stderr，stdout 只放指令結果
	PersistentPreRun: func(*cobra.Command, []string) {
		logger.SetOutput(os.Stderr)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
