// Package ecc 定义了 HD 派生所需的椭圆曲线能力集合：点、公钥、私钥。
// 这里只有代数运算，不包含任何派生逻辑。
package ecc

import (
	"fmt"
	"math/big"
	"strings"

	"hdwallet-core/pkg/errno"
)

// Family 曲线族标签，决定生成元、群阶以及派生策略
type Family int

const (
	Secp256k1 Family = iota
	Nist256p1
	Ed25519
	Ed25519Blake2b
	Ed25519Monero
	KholawEd25519
)

var familyNames = map[Family]string{
	Secp256k1:      "secp256k1",
	Nist256p1:      "nist256p1",
	Ed25519:        "ed25519",
	Ed25519Blake2b: "ed25519-blake2b",
	Ed25519Monero:  "ed25519-monero",
	KholawEd25519:  "kholaw-ed25519",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("family(%d)", int(f))
}

// ParseFamily 解析曲线族名称 (不区分大小写, "_" 与 "-" 等价)
func ParseFamily(s string) (Family, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for f, n := range familyNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown curve family %q: %w", s, errno.ErrUnsupportedOperation)
}

// Curve 返回曲线族对应的曲线实现
func (f Family) Curve() Curve {
	switch f {
	case Secp256k1:
		return secp256k1Curve
	case Nist256p1:
		return nist256p1Curve
	case Ed25519:
		return ed25519Curve
	case Ed25519Blake2b:
		return ed25519Blake2bCurve
	case Ed25519Monero:
		return ed25519MoneroCurve
	case KholawEd25519:
		return kholawEd25519Curve
	}
	panic(fmt.Sprintf("ecc: unknown family %d", int(f)))
}

// IsEdwards 判断是否为 Edwards25519 系列曲线
func (f Family) IsEdwards() bool {
	return f == Ed25519 || f == Ed25519Blake2b || f == Ed25519Monero || f == KholawEd25519
}

// Curve 是一条曲线提供的能力集合
type Curve interface {
	Family() Family
	Name() string
	// Generator 返回基点 G
	Generator() Point
	// Order 返回基点的群阶 n (Edwards 曲线为 ℓ)
	Order() *big.Int

	PrivateKeyFromBytes(b []byte) (PrivateKey, error)
	PublicKeyFromBytes(b []byte) (PublicKey, error)
	PublicKeyFromPoint(p Point) (PublicKey, error)
	PointFromBytes(b []byte) (Point, error)
	PointFromCoordinates(x, y *big.Int) (Point, error)

	// IsValidPrivateKey 是主密钥重试循环使用的有效性判断
	IsValidPrivateKey(b []byte) bool
}

// Point 曲线上的点。所有实现都是不可变的，运算返回新对象。
// 不同曲线之间的点混用会 panic。
type Point interface {
	X() *big.Int
	Y() *big.Int
	// Raw 返回点的标准编码 (Weierstrass: 33 字节压缩格式; Edwards: 32 字节)
	Raw() []byte
	// RawUncompressed 返回非压缩编码 (Weierstrass: 65 字节 0x04||x||y; Edwards: 同 Raw)
	RawUncompressed() []byte
	Add(q Point) Point
	Mul(k *big.Int) Point
	IsIdentity() bool
	Equal(q Point) bool
}

// PublicKey 持有压缩点字节
type PublicKey interface {
	Curve() Curve
	RawCompressed() []byte
	RawUncompressed() []byte
	Point() Point
}

// PrivateKey 独占原始标量字节
type PrivateKey interface {
	Curve() Curve
	Raw() []byte
	PublicKey() PublicKey
}

// bigToBytes 大端序定长编码
func bigToBytes(n *big.Int, size int) []byte {
	return n.FillBytes(make([]byte, size))
}

// reverse 返回字节反序后的副本
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}
