package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"hdwallet-core/internal/service"
	"hdwallet-core/pkg/config"
	"hdwallet-core/pkg/errno"
)

var (
	dumpReq      service.DumpRequest
	dumpWorkers  int
	dumpMaxRange int
)

// dumpCmd 展开派生描述并以 JSON 输出
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "派生并输出 HD 节点",
	Long: `根据根来源 (种子/助记词/扩展密钥/原始密钥) 和派生描述输出所有节点。
区间写成 "0-4"，例如:
  wallet-cli dump --family secp256k1 --seed 000102... --derivation bip44 --coin-type 0 --address 0-4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewHDService(config.HDConfig{
			MaxRange: dumpMaxRange,
			Workers:  dumpWorkers,
		})

		result, err := svc.Dump(cmd.Context(), &dumpReq)
		if err != nil {
			code, msg := errno.Decode(err)
			return fmt.Errorf("[%d] %s", code, msg)
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	f := dumpCmd.Flags()
	f.StringVar(&dumpReq.Family, "family", "secp256k1", "曲线族")
	f.StringVar(&dumpReq.CardanoType, "cardano-type", "", "icarus / ledger / byron-legacy")
	f.StringVar(&dumpReq.Passphrase, "passphrase", "", "BIP-39 / Icarus 密码")

	f.StringVar(&dumpReq.Seed, "seed", "", "种子 (hex)")
	f.StringVar(&dumpReq.Mnemonic, "mnemonic", "", "BIP-39 助记词")
	f.StringVar(&dumpReq.XPrivateKey, "xprivate-key", "", "扩展私钥")
	f.StringVar(&dumpReq.XPublicKey, "xpublic-key", "", "扩展公钥")
	f.StringVar(&dumpReq.PrivateKey, "private-key", "", "原始私钥 (hex)")
	f.StringVar(&dumpReq.PublicKey, "public-key", "", "原始公钥 (hex)")
	f.BoolVar(&dumpReq.Strict, "strict", false, "扩展密钥必须是根节点")
	f.StringVar(&dumpReq.SpendPrivateKey, "spend-private-key", "", "门罗币 spend 私钥 (hex)")
	f.StringVar(&dumpReq.ViewPrivateKey, "view-private-key", "", "门罗币 view 私钥 (hex)")
	f.StringVar(&dumpReq.SpendPublicKey, "spend-public-key", "", "门罗币 spend 公钥 (hex)")

	f.StringVar(&dumpReq.Derivation.Type, "derivation", "custom", "custom / bip44 / bip49 / bip84 / bip86 / cip1852 / electrum / monero")
	f.StringVar(&dumpReq.Derivation.Path, "path", "m", "custom 路径，如 m/0'/0-2")
	f.Uint32Var(&dumpReq.Derivation.CoinType, "coin-type", 0, "SLIP-44 coin type")
	f.StringVar(&dumpReq.Derivation.Account, "account", "0", "账户区间")
	f.StringVar(&dumpReq.Derivation.Change, "change", "", "找零区间 (external / internal / 0-1)")
	f.StringVar(&dumpReq.Derivation.Role, "role", "", "CIP-1852 角色")
	f.StringVar(&dumpReq.Derivation.Address, "address", "0", "地址区间")
	f.StringVar(&dumpReq.Derivation.Minor, "minor", "0", "门罗币 minor 区间")
	f.StringVar(&dumpReq.Derivation.Major, "major", "0", "门罗币 major 区间")
	f.StringVar(&dumpReq.Address, "address-format", "", "附加地址: btc / eth")

	f.IntVar(&dumpWorkers, "workers", 4, "并发派生的协程数")
	f.IntVar(&dumpMaxRange, "max-range", 1000, "最多展开的节点数")

	rootCmd.AddCommand(dumpCmd)
}
