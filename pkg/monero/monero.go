// Package monero 实现门罗币的 spend/view 密钥和子地址派生。
package monero

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"hdwallet-core/pkg/crypto_util"
	"hdwallet-core/pkg/derivation"
	"hdwallet-core/pkg/ecc"
	"hdwallet-core/pkg/errno"
	"hdwallet-core/pkg/logger"
)

const (
	// KeyLen 标量和点编码的长度
	KeyLen = 32
	// MinSeedLen 32 字节种子直接规约，其他长度先做 keccak256
	MinSeedLen = 16
)

var subAddrPrefix = []byte("SubAddr\x00")

// Wallet 门罗币引擎。spendPriv 为 nil 表示只读钱包。
type Wallet struct {
	curve ecc.Curve

	spendPriv ecc.PrivateKey
	viewPriv  ecc.PrivateKey
	spendPub  ecc.PublicKey
	viewPub   ecc.PublicKey

	subSpendPub ecc.PublicKey
	subViewPub  ecc.PublicKey
	minor       uint32
	major       uint32
}

func New() *Wallet {
	return &Wallet{curve: ecc.Ed25519Monero.Curve()}
}

// leInt 小端序字节 -> 整数
func leInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}

func (w *Wallet) set(spendPriv, viewPriv ecc.PrivateKey, spendPub ecc.PublicKey) error {
	if w.spendPub != nil {
		return errno.ErrRootAlreadySet
	}
	w.spendPriv, w.viewPriv, w.spendPub = spendPriv, viewPriv, spendPub
	w.viewPub = viewPriv.PublicKey()
	w.subSpendPub, w.subViewPub = w.spendPub, w.viewPub
	logger.Debug("Monero 密钥已设置", zap.Bool("watch_only", spendPriv == nil))
	return nil
}

// FromSeed spend = sc_reduce(seed)，非 32 字节种子先做 keccak256
func (w *Wallet) FromSeed(seed []byte) error {
	if len(seed) < MinSeedLen {
		return fmt.Errorf("monero seed of %d bytes: %w", len(seed), errno.ErrInvalidSeedLength)
	}
	if len(seed) != KeyLen {
		seed = crypto_util.Keccak256(seed)
	}
	return w.FromSpendPrivateKey(ecc.ScalarReduce(seed))
}

// FromSpendPrivateKey view = sc_reduce(keccak256(spend))
func (w *Wallet) FromSpendPrivateKey(b []byte) error {
	if w.spendPub != nil {
		return errno.ErrRootAlreadySet
	}
	spend, err := w.curve.PrivateKeyFromBytes(b)
	if err != nil {
		return err
	}
	view, err := w.curve.PrivateKeyFromBytes(ecc.ScalarReduce(crypto_util.Keccak256(spend.Raw())))
	if err != nil {
		return err
	}
	return w.set(spend, view, spend.PublicKey())
}

// FromWatchOnly 只读钱包：view 私钥 + spend 公钥
func (w *Wallet) FromWatchOnly(viewPriv, spendPub []byte) error {
	if w.spendPub != nil {
		return errno.ErrRootAlreadySet
	}
	view, err := w.curve.PrivateKeyFromBytes(viewPriv)
	if err != nil {
		return err
	}
	pub, err := w.curve.PublicKeyFromBytes(spendPub)
	if err != nil {
		return err
	}
	return w.set(nil, view, pub)
}

// FromXPrivateKey 门罗币没有扩展密钥格式
func (w *Wallet) FromXPrivateKey(string, bool) error {
	return fmt.Errorf("monero extended key: %w", errno.ErrUnsupportedOperation)
}

func (w *Wallet) FromXPublicKey(string, bool) error {
	return fmt.Errorf("monero extended key: %w", errno.ErrUnsupportedOperation)
}

// SubAddressKeys 计算 (minor, major) 子地址的 spend/view 公钥，(0, 0) 为主地址
func (w *Wallet) SubAddressKeys(minor, major uint32) (ecc.PublicKey, ecc.PublicKey, error) {
	if w.spendPub == nil {
		return nil, nil, errno.ErrRootNotSet
	}
	if minor == 0 && major == 0 {
		return w.spendPub, w.viewPub, nil
	}

	// m = Hs("SubAddr\0" || a || major || minor)
	data := make([]byte, 0, len(subAddrPrefix)+KeyLen+8)
	data = append(data, subAddrPrefix...)
	data = append(data, w.viewPriv.Raw()...)
	data = binary.LittleEndian.AppendUint32(data, major)
	data = binary.LittleEndian.AppendUint32(data, minor)
	m := ecc.ScalarReduce(crypto_util.Keccak256(data))

	// D = B + m·G, C = a·D
	d := w.spendPub.Point().Add(w.curve.Generator().Mul(leInt(m)))
	if d.IsIdentity() {
		return nil, nil, fmt.Errorf("monero subaddress %d/%d: %w", major, minor, errno.ErrUnluckyIndex)
	}
	c := d.Mul(leInt(w.viewPriv.Raw()))

	spendPub, err := w.curve.PublicKeyFromPoint(d)
	if err != nil {
		return nil, nil, err
	}
	viewPub, err := w.curve.PublicKeyFromPoint(c)
	if err != nil {
		return nil, nil, err
	}
	return spendPub, viewPub, nil
}

// UpdateDerivation 切换到单个 (minor, major) 子地址
func (w *Wallet) UpdateDerivation(d *derivation.Monero) error {
	minor, major, err := d.Resolve()
	if err != nil {
		return err
	}
	spendPub, viewPub, err := w.SubAddressKeys(minor, major)
	if err != nil {
		return err
	}
	w.subSpendPub, w.subViewPub = spendPub, viewPub
	w.minor, w.major = minor, major
	return nil
}

// CleanDerivation 回到主地址
func (w *Wallet) CleanDerivation() error {
	if w.spendPub == nil {
		return errno.ErrRootNotSet
	}
	w.subSpendPub, w.subViewPub = w.spendPub, w.viewPub
	w.minor, w.major = 0, 0
	return nil
}

// Fork 共享密钥的独立实例
func (w *Wallet) Fork() (*Wallet, error) {
	if w.spendPub == nil {
		return nil, errno.ErrRootNotSet
	}
	fork := New()
	if err := fork.set(w.spendPriv, w.viewPriv, w.spendPub); err != nil {
		return nil, err
	}
	return fork, nil
}

func privHex(k ecc.PrivateKey) string {
	if k == nil {
		return ""
	}
	return hex.EncodeToString(k.Raw())
}

// pubHex 门罗币公钥为 32 字节点编码，不带 0x00 前缀
func pubHex(k ecc.PublicKey) string {
	if k == nil {
		return ""
	}
	return hex.EncodeToString(k.Point().Raw())
}

func (w *Wallet) SpendPrivateKey() string   { return privHex(w.spendPriv) }
func (w *Wallet) ViewPrivateKey() string    { return privHex(w.viewPriv) }
func (w *Wallet) SpendPublicKey() string    { return pubHex(w.spendPub) }
func (w *Wallet) ViewPublicKey() string     { return pubHex(w.viewPub) }
func (w *Wallet) SubSpendPublicKey() string { return pubHex(w.subSpendPub) }
func (w *Wallet) SubViewPublicKey() string  { return pubHex(w.subViewPub) }
func (w *Wallet) Minor() uint32             { return w.minor }
func (w *Wallet) Major() uint32             { return w.major }
func (w *Wallet) IsWatchOnly() bool         { return w.spendPub != nil && w.spendPriv == nil }
