package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/cobra"

	"hdwallet-core/pkg/address"
	"hdwallet-core/pkg/bip32"
	"hdwallet-core/pkg/bip39"
	"hdwallet-core/pkg/ecc"
	"hdwallet-core/pkg/safe_random"
)

var (
	newBits     int
	newRawSeed  bool
	newSeedSize int
)

// newCmd 代表 new 命令
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "创建一个新的钱包",
	Long:  `生成一个新的随机 BIP-39 助记词，并显示派生的种子和 BIP-32 主密钥。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "正在生成新钱包...")
		fmt.Fprintln(out, "---------------------------------------------------")

		// 1. 生成种子: 助记词或者纯随机字节
		var seed []byte
		if newRawSeed {
			var err error
			if seed, err = safe_random.GenerateSeed(newSeedSize); err != nil {
				return err
			}
		} else {
			mnemonicService := bip39.NewMnemonicService()
			mnemonic, err := mnemonicService.GenerateMnemonic(newBits)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "助记词 (Mnemonic): \n%s\n", mnemonic)
			fmt.Fprintln(out, "---------------------------------------------------")
			seed = mnemonicService.MnemonicToSeed(mnemonic, "")
		}
		fmt.Fprintf(out, "种子 (Seed Hex): %s\n", hex.EncodeToString(seed))

		// 2. 生成 HD Wallet 主密钥
		wallet, err := bip32.New(ecc.Secp256k1)
		if err != nil {
			return err
		}
		if err := wallet.FromSeed(seed); err != nil {
			return err
		}
		xprv, err := wallet.RootXPrivateKey()
		if err != nil {
			return err
		}
		xpub, err := wallet.RootXPublicKey()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "主私钥 (xprv): %s\n", xprv)
		fmt.Fprintf(out, "主公钥 (xpub): %s\n", xpub)
		fmt.Fprintln(out, "---------------------------------------------------")

		// 3. 派生默认地址 (BIP-44)
		for _, item := range []struct {
			path string
			gen  address.Generator
		}{
			{"m/44'/0'/0'/0/0", address.NewBTCGenerator(&chaincfg.MainNetParams)},
			{"m/44'/60'/0'/0/0", address.NewETHGenerator()},
		} {
			if err := wallet.DerivePath(item.path); err != nil {
				return err
			}
			addr, err := item.gen.PubKeyToAddress(wallet.Current().PublicKey.RawCompressed())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Address [%s]: %s\n", item.gen.Name(), item.path, addr)
		}
		fmt.Fprintln(out, "---------------------------------------------------")
		fmt.Fprintln(out, "请妥善保管您的助记词！任何拥有助记词的人都可以控制该钱包的所有资产。")
		return nil
	},
}

func init() {
	newCmd.Flags().IntVar(&newBits, "bits", 256, "助记词熵的位数 (128-256)")
	newCmd.Flags().BoolVar(&newRawSeed, "raw-seed", false, "不使用助记词，直接生成随机种子")
	newCmd.Flags().IntVar(&newSeedSize, "seed-size", 64, "随机种子的字节数 (16-64)")
	rootCmd.AddCommand(newCmd)
}
