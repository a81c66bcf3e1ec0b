package bip32

import (
	"encoding/binary"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"

	"hdwallet-core/pkg/errno"
)

const (
	// ExtendedKeyLen version(4) || depth(1) || parent fingerprint(4) || index(4) || chain code(32) || key(33)
	ExtendedKeyLen = 78
	// KholawExtendedKeyLen Kholaw 私钥的 key 字段为 0x00 || kL || kR
	KholawExtendedKeyLen = 110
)

// ExtendedKeyData 扩展密钥的字段
type ExtendedKeyData struct {
	Version           [4]byte
	Depth             uint8
	ParentFingerprint [4]byte
	Index             uint32
	ChainCode         []byte
	Key               []byte
}

// IsRoot depth、index、parent fingerprint 全为 0
func (d *ExtendedKeyData) IsRoot() bool {
	return d.Depth == 0 && d.Index == 0 && d.ParentFingerprint == [4]byte{}
}

// Serialize 按固定布局拼接字段
func (d *ExtendedKeyData) Serialize() []byte {
	out := make([]byte, 0, 45+len(d.Key))
	out = append(out, d.Version[:]...)
	out = append(out, d.Depth)
	out = append(out, d.ParentFingerprint[:]...)
	out = binary.BigEndian.AppendUint32(out, d.Index)
	out = append(out, d.ChainCode...)
	return append(out, d.Key...)
}

// EncodeExtendedKey base58check 编码，首字节作为 base58 version
func EncodeExtendedKey(d *ExtendedKeyData) string {
	raw := d.Serialize()
	return base58.CheckEncode(raw[1:], raw[0])
}

// DecodeExtendedKey 解析 78 或 110 字节的扩展密钥
func DecodeExtendedKey(s string) (*ExtendedKeyData, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return nil, fmt.Errorf("base58check: %v: %w", err, errno.ErrInvalidExtendedKey)
	}
	raw := append([]byte{version}, payload...)
	if len(raw) != ExtendedKeyLen && len(raw) != KholawExtendedKeyLen {
		return nil, fmt.Errorf("extended key of %d bytes: %w", len(raw), errno.ErrInvalidExtendedKey)
	}

	d := &ExtendedKeyData{
		Depth:     raw[4],
		Index:     binary.BigEndian.Uint32(raw[9:13]),
		ChainCode: append([]byte(nil), raw[13:45]...),
		Key:       append([]byte(nil), raw[45:]...),
	}
	copy(d.Version[:], raw[:4])
	copy(d.ParentFingerprint[:], raw[5:9])
	return d, nil
}

// serialize 节点 -> 扩展密钥，private 为 false 时只输出公钥
func (w *Wallet) serialize(n *KeyNode, private bool) (string, error) {
	if n == nil {
		return "", errno.ErrRootNotSet
	}
	if n.ChainCode == nil {
		return "", fmt.Errorf("serialize extended key: %w", errno.ErrMissingChainCode)
	}
	d := &ExtendedKeyData{
		Depth:             n.Depth,
		ParentFingerprint: n.ParentFingerprint,
		Index:             n.Index,
		ChainCode:         n.ChainCode,
	}
	if private {
		if !n.IsPrivate() {
			return "", fmt.Errorf("watch-only node has no extended private key: %w", errno.ErrUnsupportedOperation)
		}
		d.Version = w.versions.Private
		d.Key = append([]byte{0x00}, n.PrivateKey.Raw()...)
	} else {
		d.Version = w.versions.Public
		d.Key = n.PublicKey.RawCompressed()
	}
	return EncodeExtendedKey(d), nil
}

// parse 扩展密钥 -> 节点
func (w *Wallet) parse(s string, private, strict bool) (*KeyNode, error) {
	d, err := DecodeExtendedKey(s)
	if err != nil {
		return nil, err
	}
	want := w.versions.Public
	if private {
		want = w.versions.Private
	}
	if d.Version != want {
		return nil, fmt.Errorf("version %x, want %x: %w", d.Version, want, errno.ErrVersionMismatch)
	}
	if strict && !d.IsRoot() {
		return nil, errno.ErrStrictRoot
	}

	node := &KeyNode{
		ChainCode:         d.ChainCode,
		Depth:             d.Depth,
		Index:             d.Index,
		ParentFingerprint: d.ParentFingerprint,
	}
	if private {
		wantLen := ExtendedKeyLen
		if w.scheme == SchemeKholaw || w.scheme == SchemeByronLegacy {
			wantLen = KholawExtendedKeyLen
		}
		if len(d.Key)+45 != wantLen || d.Key[0] != 0x00 {
			return nil, fmt.Errorf("%s extended private key layout: %w", w.family, errno.ErrInvalidExtendedKey)
		}
		priv, err := w.curve.PrivateKeyFromBytes(d.Key[1:])
		if err != nil {
			return nil, err
		}
		node.PrivateKey = priv
		node.PublicKey = priv.PublicKey()
		return node, nil
	}

	if len(d.Key) != 33 {
		return nil, fmt.Errorf("extended public key layout: %w", errno.ErrInvalidExtendedKey)
	}
	pub, err := w.curve.PublicKeyFromBytes(d.Key)
	if err != nil {
		return nil, err
	}
	node.PublicKey = pub
	return node, nil
}
