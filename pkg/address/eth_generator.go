package address

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"hdwallet-core/pkg/errno"
)

// ETHGenerator 以太坊地址生成器
type ETHGenerator struct{}

func NewETHGenerator() *ETHGenerator {
	return &ETHGenerator{}
}

func (g *ETHGenerator) Name() string { return "eth" }

// PubKeyToAddress 公钥 (65 字节 0x04... 或 33 字节压缩) -> EIP-55 地址
func (g *ETHGenerator) PubKeyToAddress(pubKeyBytes []byte) (string, error) {
	if len(pubKeyBytes) == 33 {
		pub, err := crypto.DecompressPubkey(pubKeyBytes)
		if err != nil {
			return "", fmt.Errorf("eth address: %v: %w", err, errno.ErrInvalidKeyBytes)
		}
		return crypto.PubkeyToAddress(*pub).Hex(), nil
	}

	pub, err := crypto.UnmarshalPubkey(pubKeyBytes)
	if err != nil {
		return "", fmt.Errorf("eth address: %v: %w", err, errno.ErrInvalidKeyBytes)
	}
	// Address.Hex 已经带 EIP-55 校验大小写
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}
