package address

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"hdwallet-core/pkg/errno"
)

// BTCGenerator 比特币 P2PKH 地址生成器
type BTCGenerator struct {
	network *chaincfg.Params
}

func NewBTCGenerator(network *chaincfg.Params) *BTCGenerator {
	if network == nil {
		network = &chaincfg.MainNetParams
	}
	return &BTCGenerator{network: network}
}

func (g *BTCGenerator) Name() string { return "btc" }

// PubKeyToAddress 公钥 (33 字节压缩或 65 字节非压缩) -> P2PKH 地址。
// 地址哈希的是传入的编码，压缩与非压缩得到不同地址。
func (g *BTCGenerator) PubKeyToAddress(pubKeyBytes []byte) (string, error) {
	addr, err := btcutil.NewAddressPubKey(pubKeyBytes, g.network)
	if err != nil {
		return "", fmt.Errorf("btc address: %v: %w", err, errno.ErrInvalidKeyBytes)
	}
	return addr.AddressPubKeyHash().EncodeAddress(), nil
}
