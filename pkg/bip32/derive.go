package bip32

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"hdwallet-core/pkg/crypto_util"
	"hdwallet-core/pkg/derivation"
	"hdwallet-core/pkg/ecc"
	"hdwallet-core/pkg/errno"
)

const maxDepth = 255

var two256 = new(big.Int).Lsh(big.NewInt(1), 256)

// childKey 子节点派生结果
type childKey struct {
	priv      ecc.PrivateKey
	pub       ecc.PublicKey
	chainCode []byte
}

// deriveChild 父节点 -> 子节点，失败时不修改 parent
func (w *Wallet) deriveChild(parent *KeyNode, index uint32) (*KeyNode, error) {
	if parent.ChainCode == nil {
		return nil, fmt.Errorf("derive %d: %w", index, errno.ErrMissingChainCode)
	}
	if parent.Depth == maxDepth {
		return nil, errno.ErrMaxDepthExceeded
	}
	hardened := index >= derivation.HardenedOffset
	if hardened && !parent.IsPrivate() {
		return nil, fmt.Errorf("derive %s: %w", derivation.IndexFromRaw(index), errno.ErrHardenedRequiresPrivateKey)
	}

	var (
		child *childKey
		err   error
	)
	switch w.scheme {
	case SchemeBIP32:
		child, err = w.deriveStandard(parent, index, hardened)
	case SchemeSLIP10:
		child, err = w.deriveSLIP10(parent, index)
	case SchemeKholaw:
		child, err = w.deriveKholaw(parent, index, hardened)
	case SchemeByronLegacy:
		child, err = w.deriveByron(parent, index, hardened)
	default:
		err = errno.ErrUnsupportedOperation
	}
	if err != nil {
		return nil, err
	}

	indexes := make([]derivation.Index, len(parent.Indexes), len(parent.Indexes)+1)
	copy(indexes, parent.Indexes)
	return &KeyNode{
		PrivateKey:        child.priv,
		PublicKey:         child.pub,
		ChainCode:         child.chainCode,
		Depth:             parent.Depth + 1,
		Index:             index,
		ParentFingerprint: parent.Fingerprint(),
		Indexes:           append(indexes, derivation.IndexFromRaw(index)),
	}, nil
}

func ser32BE(i uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, i)
	return b
}

func ser32LE(i uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, i)
	return b
}

func concat(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// deriveStandard BIP32: k' = IL + k (mod n)，K' = IL·G + K
func (w *Wallet) deriveStandard(parent *KeyNode, index uint32, hardened bool) (*childKey, error) {
	var data []byte
	if hardened {
		data = concat([]byte{0x00}, parent.PrivateKey.Raw(), ser32BE(index))
	} else {
		data = concat(parent.PublicKey.RawCompressed(), ser32BE(index))
	}
	I := crypto_util.HmacSHA512(parent.ChainCode, data)
	il := new(big.Int).SetBytes(I[:32])
	order := w.curve.Order()
	if il.Cmp(order) >= 0 {
		return nil, fmt.Errorf("derive %d: IL >= n: %w", index, errno.ErrUnluckyIndex)
	}

	if parent.IsPrivate() {
		k := new(big.Int).SetBytes(parent.PrivateKey.Raw())
		k.Add(k, il).Mod(k, order)
		if k.Sign() == 0 {
			return nil, fmt.Errorf("derive %d: zero child key: %w", index, errno.ErrUnluckyIndex)
		}
		priv, err := w.curve.PrivateKeyFromBytes(k.FillBytes(make([]byte, 32)))
		if err != nil {
			return nil, err
		}
		return &childKey{priv: priv, pub: priv.PublicKey(), chainCode: I[32:]}, nil
	}

	point := w.curve.Generator().Mul(il).Add(parent.PublicKey.Point())
	if point.IsIdentity() {
		return nil, fmt.Errorf("derive %d: identity point: %w", index, errno.ErrUnluckyIndex)
	}
	pub, err := w.curve.PublicKeyFromPoint(point)
	if err != nil {
		return nil, err
	}
	return &childKey{pub: pub, chainCode: I[32:]}, nil
}

// deriveSLIP10 私钥直接替换为 IL，强化与普通索引公式相同，必须持有私钥
func (w *Wallet) deriveSLIP10(parent *KeyNode, index uint32) (*childKey, error) {
	if !parent.IsPrivate() {
		return nil, fmt.Errorf("%s public derivation: %w", w.family, errno.ErrUnsupportedOperation)
	}
	I := crypto_util.HmacSHA512(parent.ChainCode, concat([]byte{0x00}, parent.PrivateKey.Raw(), ser32BE(index)))
	priv, err := w.curve.PrivateKeyFromBytes(I[:32])
	if err != nil {
		return nil, err
	}
	return &childKey{priv: priv, pub: priv.PublicKey(), chainCode: I[32:]}, nil
}

// cardanoZC 计算 Kholaw / Byron 共用的 Z 和 C
func cardanoZC(parent *KeyNode, index []byte, hardened bool) (z, c []byte) {
	if hardened {
		priv := parent.PrivateKey.Raw()
		z = crypto_util.HmacSHA512(parent.ChainCode, concat([]byte{0x00}, priv, index))
		c = crypto_util.HmacSHA512(parent.ChainCode, concat([]byte{0x01}, priv, index))
		return z, c
	}
	pub := parent.PublicKey.Point().Raw()
	z = crypto_util.HmacSHA512(parent.ChainCode, concat([]byte{0x02}, pub, index))
	c = crypto_util.HmacSHA512(parent.ChainCode, concat([]byte{0x03}, pub, index))
	return z, c
}

// leInt 小端序字节 -> 整数
func leInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}

// leBytes 整数 -> 32 字节小端序
func leBytes(n *big.Int) []byte {
	be := n.FillBytes(make([]byte, 32))
	for i, j := 0, len(be)-1; i < j; i, j = i+1, j-1 {
		be[i], be[j] = be[j], be[i]
	}
	return be
}

// deriveKholaw kL' = 8·zL[:28] + kL，kR' = zR + kR (mod 2^256)，索引小端序
func (w *Wallet) deriveKholaw(parent *KeyNode, index uint32, hardened bool) (*childKey, error) {
	z, c := cardanoZC(parent, ser32LE(index), hardened)
	zl8 := new(big.Int).Lsh(leInt(z[:28]), 3)
	order := w.curve.Order()

	if parent.IsPrivate() {
		raw := parent.PrivateKey.Raw()
		kl := new(big.Int).Add(zl8, leInt(raw[:32]))
		kl.Mod(kl, two256)
		if new(big.Int).Mod(kl, order).Sign() == 0 {
			return nil, fmt.Errorf("derive %d: kL is zero mod l: %w", index, errno.ErrUnluckyIndex)
		}
		kr := new(big.Int).Add(leInt(z[32:]), leInt(raw[32:]))
		kr.Mod(kr, two256)
		priv, err := w.curve.PrivateKeyFromBytes(concat(leBytes(kl), leBytes(kr)))
		if err != nil {
			return nil, err
		}
		return &childKey{priv: priv, pub: priv.PublicKey(), chainCode: c[32:]}, nil
	}

	point := parent.PublicKey.Point().Add(w.curve.Generator().Mul(zl8))
	if point.IsIdentity() {
		return nil, fmt.Errorf("derive %d: identity point: %w", index, errno.ErrUnluckyIndex)
	}
	pub, err := w.curve.PublicKeyFromPoint(point)
	if err != nil {
		return nil, err
	}
	return &childKey{pub: pub, chainCode: c[32:]}, nil
}

// deriveByron 与 Kholaw 相同的 Z/C，但索引大端序且逐字节无进位相加。
// 只支持私钥派生：纯公钥节点返回 ErrUnsupportedOperation，强化与非强化索引都一样。
func (w *Wallet) deriveByron(parent *KeyNode, index uint32, hardened bool) (*childKey, error) {
	if !parent.IsPrivate() {
		return nil, fmt.Errorf("byron-legacy public derivation: %w", errno.ErrUnsupportedOperation)
	}
	z, c := cardanoZC(parent, ser32BE(index), hardened)
	raw := parent.PrivateKey.Raw()
	kl := addNoCarry(raw[:32], mul8NoCarry(z[:32]))
	kr := addNoCarry(raw[32:], z[32:])
	if new(big.Int).Mod(leInt(kl), w.curve.Order()).Sign() == 0 {
		return nil, fmt.Errorf("derive %d: kL is zero mod l: %w", index, errno.ErrUnluckyIndex)
	}
	priv, err := w.curve.PrivateKeyFromBytes(concat(kl, kr))
	if err != nil {
		return nil, err
	}
	return &childKey{priv: priv, pub: priv.PublicKey(), chainCode: c[32:]}, nil
}
