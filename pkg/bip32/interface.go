package bip32

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"

	"hdwallet-core/pkg/derivation"
	"hdwallet-core/pkg/ecc"
	"hdwallet-core/pkg/errno"
)

// Scheme 子密钥派生策略，由曲线族和 Cardano 类型共同决定
type Scheme int

const (
	// SchemeBIP32 secp256k1 / nist256p1 的标准加法派生
	SchemeBIP32 Scheme = iota
	// SchemeSLIP10 ed25519 / ed25519-blake2b，子私钥直接替换
	SchemeSLIP10
	// SchemeKholaw Cardano Icarus / Ledger
	SchemeKholaw
	// SchemeByronLegacy Cardano Byron 旧版，逐字节无进位加法
	SchemeByronLegacy
)

func (s Scheme) String() string {
	switch s {
	case SchemeBIP32:
		return "bip32"
	case SchemeSLIP10:
		return "slip10"
	case SchemeKholaw:
		return "kholaw"
	case SchemeByronLegacy:
		return "byron-legacy"
	}
	return fmt.Sprintf("scheme(%d)", int(s))
}

// CardanoType Kholaw 主密钥的构造方式
type CardanoType int

const (
	CardanoIcarus CardanoType = iota
	CardanoLedger
	CardanoByronLegacy
)

var cardanoTypeNames = map[CardanoType]string{
	CardanoIcarus:      "icarus",
	CardanoLedger:      "ledger",
	CardanoByronLegacy: "byron-legacy",
}

func (c CardanoType) String() string {
	if name, ok := cardanoTypeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("cardano(%d)", int(c))
}

// ParseCardanoType 解析 "icarus" / "ledger" / "byron-legacy"，空串为 icarus
func ParseCardanoType(s string) (CardanoType, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	if name == "" {
		return CardanoIcarus, nil
	}
	for t, n := range cardanoTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown cardano type %q: %w", s, errno.ErrUnsupportedOperation)
}

// Versions 扩展密钥的版本字节 (由币种参数提供)
type Versions struct {
	Private [4]byte
	Public  [4]byte
}

// DefaultVersions 比特币主网 xprv / xpub
func DefaultVersions() Versions {
	return Versions{
		Private: chaincfg.MainNetParams.HDPrivateKeyID,
		Public:  chaincfg.MainNetParams.HDPublicKeyID,
	}
}

// Option 配置 Wallet
type Option func(*Wallet)

// WithVersions 指定扩展密钥版本字节
func WithVersions(v Versions) Option {
	return func(w *Wallet) { w.versions = v }
}

// WithCardanoType 指定 Kholaw 主密钥构造方式，只对 kholaw-ed25519 生效
func WithCardanoType(t CardanoType) Option {
	return func(w *Wallet) { w.cardanoType = t }
}

// WithPassphrase Icarus PBKDF2 的密码
func WithPassphrase(passphrase string) Option {
	return func(w *Wallet) { w.passphrase = passphrase }
}

// HDWallet 定义了分层确定性钱包的基本行为
type HDWallet interface {
	FromSeed(seed []byte) error
	FromXPrivateKey(xprv string, strict bool) error
	FromXPublicKey(xpub string, strict bool) error
	FromPrivateKey(priv []byte) error
	FromPublicKey(pub []byte) error

	// DeriveIndex 在当前节点上派生一个子节点
	DeriveIndex(index uint32) error
	// UpdateDerivation 重置到根节点后按描述重新派生
	UpdateDerivation(tree derivation.Tree) error
	// DerivePath 根据路径 (如 "m/44'/0'/0'/0/0") 从根节点派生
	DerivePath(path string) error
	CleanDerivation() error

	Current() *KeyNode
	Root() *KeyNode
	XPrivateKey() (string, error)
	XPublicKey() (string, error)
}

var _ HDWallet = (*Wallet)(nil)

func schemeOf(family ecc.Family, cardanoType CardanoType) (Scheme, error) {
	switch family {
	case ecc.Secp256k1, ecc.Nist256p1:
		return SchemeBIP32, nil
	case ecc.Ed25519, ecc.Ed25519Blake2b:
		return SchemeSLIP10, nil
	case ecc.KholawEd25519:
		if cardanoType == CardanoByronLegacy {
			return SchemeByronLegacy, nil
		}
		return SchemeKholaw, nil
	}
	return 0, fmt.Errorf("%s has no tree derivation: %w", family, errno.ErrUnsupportedOperation)
}
