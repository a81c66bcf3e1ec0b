// Package electrum 实现 Electrum V1 的平铺派生：
// 子密钥 = 主密钥 + int(double_sha256("address:change:" || mpk))，没有链码和路径。
package electrum

import (
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

// SeedLen Electrum V1 种子即主私钥
const SeedLen = 32

// Wallet Electrum V1 引擎
type Wallet struct {
	curve ecc.Curve

	masterPriv ecc.PrivateKey
	masterPub  ecc.PublicKey

	priv    ecc.PrivateKey
	pub     ecc.PublicKey
	change  uint32
	address uint32
}

func New() *Wallet {
	return &Wallet{curve: ecc.Secp256k1.Curve()}
}

func (w *Wallet) setMaster(priv ecc.PrivateKey, pub ecc.PublicKey) error {
	if w.masterPub != nil {
		return errno.ErrRootAlreadySet
	}
	w.masterPriv, w.masterPub = priv, pub
	w.priv, w.pub = priv, pub
	logger.Debug("Electrum V1 主密钥已设置", zap.Bool("watch_only", priv == nil))
	return nil
}

// FromSeed 32 字节种子直接作为主私钥
func (w *Wallet) FromSeed(seed []byte) error {
	if len(seed) != SeedLen {
		return fmt.Errorf("electrum v1 seed of %d bytes, want %d: %w", len(seed), SeedLen, errno.ErrInvalidSeedLength)
	}
	return w.FromPrivateKey(seed)
}

func (w *Wallet) FromPrivateKey(b []byte) error {
	if w.masterPub != nil {
		return errno.ErrRootAlreadySet
	}
	priv, err := w.curve.PrivateKeyFromBytes(b)
	if err != nil {
		return err
	}
	return w.setMaster(priv, priv.PublicKey())
}

// FromPublicKey 压缩 (33) 或非压缩 (65) 主公钥，只读
func (w *Wallet) FromPublicKey(b []byte) error {
	if w.masterPub != nil {
		return errno.ErrRootAlreadySet
	}
	pub, err := w.curve.PublicKeyFromBytes(b)
	if err != nil {
		return err
	}
	return w.setMaster(nil, pub)
}

// FromXPrivateKey Electrum V1 没有扩展密钥格式
func (w *Wallet) FromXPrivateKey(string, bool) error {
	return fmt.Errorf("electrum v1 extended key: %w", errno.ErrUnsupportedOperation)
}

func (w *Wallet) FromXPublicKey(string, bool) error {
	return fmt.Errorf("electrum v1 extended key: %w", errno.ErrUnsupportedOperation)
}

// Sequence int(double_sha256("address:change:" || 64 字节主公钥))
func (w *Wallet) Sequence(change, address uint32) *big.Int {
	mpk := w.masterPub.RawUncompressed()[1:]
	msg := append([]byte(fmt.Sprintf("%d:%d:", address, change)), mpk...)
	return new(big.Int).SetBytes(crypto_util.DoubleSHA256(msg))
}

// derive 计算 (change, address) 对应的密钥，不修改状态
func (w *Wallet) derive(change, address uint32) (ecc.PrivateKey, ecc.PublicKey, error) {
	seq := w.Sequence(change, address)

	if w.masterPriv != nil {
		order := w.curve.Order()
		k := new(big.Int).SetBytes(w.masterPriv.Raw())
		k.Add(k, seq).Mod(k, order)
		if k.Sign() == 0 {
			return nil, nil, fmt.Errorf("electrum %d/%d: %w", change, address, errno.ErrUnluckyIndex)
		}
		priv, err := w.curve.PrivateKeyFromBytes(k.FillBytes(make([]byte, 32)))
		if err != nil {
			return nil, nil, err
		}
		return priv, priv.PublicKey(), nil
	}

	point := w.masterPub.Point().Add(w.curve.Generator().Mul(seq))
	if point.IsIdentity() {
		return nil, nil, fmt.Errorf("electrum %d/%d: %w", change, address, errno.ErrUnluckyIndex)
	}
	pub, err := w.curve.PublicKeyFromPoint(point)
	if err != nil {
		return nil, nil, err
	}
	return nil, pub, nil
}

// UpdateDerivation 按单个 (change, address) 计算子密钥
func (w *Wallet) UpdateDerivation(d *derivation.Electrum) error {
	if w.masterPub == nil {
		return errno.ErrRootNotSet
	}
	change, address, err := d.Resolve()
	if err != nil {
		return err
	}
	priv, pub, err := w.derive(change, address)
	if err != nil {
		return err
	}
	w.priv, w.pub = priv, pub
	w.change, w.address = change, address
	return nil
}

// CleanDerivation 回到主密钥
func (w *Wallet) CleanDerivation() error {
	if w.masterPub == nil {
		return errno.ErrRootNotSet
	}
	w.priv, w.pub = w.masterPriv, w.masterPub
	w.change, w.address = 0, 0
	return nil
}

// Fork 共享主密钥的独立实例
func (w *Wallet) Fork() (*Wallet, error) {
	if w.masterPub == nil {
		return nil, errno.ErrRootNotSet
	}
	fork := New()
	fork.masterPriv, fork.masterPub = w.masterPriv, w.masterPub
	fork.priv, fork.pub = w.masterPriv, w.masterPub
	return fork, nil
}

func privHex(k ecc.PrivateKey) string {
	if k == nil {
		return ""
	}
	return hex.EncodeToString(k.Raw())
}

func (w *Wallet) MasterPrivateKey() string { return privHex(w.masterPriv) }

// MasterPublicKey 64 字节 mpk (非压缩公钥去掉 0x04)
func (w *Wallet) MasterPublicKey() string {
	if w.masterPub == nil {
		return ""
	}
	return hex.EncodeToString(w.masterPub.RawUncompressed()[1:])
}

func (w *Wallet) PrivateKey() string { return privHex(w.priv) }

// PublicKey Electrum V1 地址使用非压缩公钥
func (w *Wallet) PublicKey() string { return w.UncompressedPublicKey() }

func (w *Wallet) UncompressedPublicKey() string {
	if w.pub == nil {
		return ""
	}
	return hex.EncodeToString(w.pub.RawUncompressed())
}

func (w *Wallet) CompressedPublicKey() string {
	if w.pub == nil {
		return ""
	}
	return hex.EncodeToString(w.pub.RawCompressed())
}

func (w *Wallet) Change() uint32    { return w.change }
func (w *Wallet) Address() uint32   { return w.address }
func (w *Wallet) IsWatchOnly() bool { return w.masterPub != nil && w.masterPriv == nil }
