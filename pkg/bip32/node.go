package bip32

import (
	"bytes"

	"hdwallet-core/pkg/crypto_util"
	"hdwallet-core/pkg/derivation"
	"hdwallet-core/pkg/ecc"
)

// KeyNode 派生树上的一个节点。私钥与链码总是成对替换。
type KeyNode struct {
	// PrivateKey 为 nil 表示只读 (watch-only)
	PrivateKey ecc.PrivateKey
	PublicKey  ecc.PublicKey
	// ChainCode 为 nil 表示由原始密钥导入，无法继续派生
	ChainCode         []byte
	Depth             uint8
	Index             uint32
	ParentFingerprint [4]byte
	Indexes           []derivation.Index
}

// Fingerprint hash160(compressed pub)[:4]
func (n *KeyNode) Fingerprint() [4]byte {
	var fp [4]byte
	copy(fp[:], crypto_util.Hash160(n.PublicKey.RawCompressed()))
	return fp
}

func (n *KeyNode) IsPrivate() bool { return n.PrivateKey != nil }

// Path 相对于导入节点的路径
func (n *KeyNode) Path() string { return derivation.FormatIndexes(n.Indexes) }

// Clone 返回浅拷贝，密钥对象本身是不可变的
func (n *KeyNode) Clone() *KeyNode {
	c := *n
	if n.ChainCode != nil {
		c.ChainCode = append([]byte(nil), n.ChainCode...)
	}
	c.Indexes = append([]derivation.Index(nil), n.Indexes...)
	return &c
}

// Equal 比较扩展密钥编码覆盖的字段
func (n *KeyNode) Equal(o *KeyNode) bool {
	if n.IsPrivate() != o.IsPrivate() {
		return false
	}
	if n.IsPrivate() && !bytes.Equal(n.PrivateKey.Raw(), o.PrivateKey.Raw()) {
		return false
	}
	return bytes.Equal(n.PublicKey.RawCompressed(), o.PublicKey.RawCompressed()) &&
		bytes.Equal(n.ChainCode, o.ChainCode) &&
		n.Depth == o.Depth &&
		n.Index == o.Index &&
		n.ParentFingerprint == o.ParentFingerprint
}

// Neuter 返回去掉私钥的副本
func (n *KeyNode) Neuter() *KeyNode {
	c := n.Clone()
	c.PrivateKey = nil
	return c
}
