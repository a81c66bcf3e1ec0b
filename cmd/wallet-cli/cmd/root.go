package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hdwallet-core/pkg/logger"
)

var verbose bool

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "wallet-cli",
	Short: "多曲线分层确定性钱包命令行工具",
	Long: `基于种子、助记词或扩展密钥派生 HD 节点。
支持 secp256k1 / nist256p1 / ed25519 / ed25519-blake2b / kholaw-ed25519 (Cardano)，
以及 Electrum-V1 和门罗币子地址。`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.Init("development")
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
}
