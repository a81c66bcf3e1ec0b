package ecc

import (
	"fmt"
	"math/big"

	"filippo.io/edwards25519"
	"filippo.io/edwards25519/field"

	"hdwallet-core/pkg/crypto_util"
	"hdwallet-core/pkg/errno"
)

// ed25519Order ℓ = 2^252 + 27742317777372353535851937790883648493
var ed25519Order, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

// ScalarReduce 以小端序解释 b (不超过 64 字节) 并对 ℓ 取模，返回 32 字节小端序标量
func ScalarReduce(b []byte) []byte {
	wide := make([]byte, 64)
	copy(wide, b)
	s, err := edwards25519.NewScalar().SetUniformBytes(wide)
	if err != nil {
		panic(err)
	}
	return s.Bytes()
}

// edwardsScalar 把任意整数转换为 edwards25519 标量 (mod ℓ)
func edwardsScalar(k *big.Int) *edwards25519.Scalar {
	le := reverse(bigToBytes(new(big.Int).Mod(k, ed25519Order), 32))
	s, err := edwards25519.NewScalar().SetCanonicalBytes(le)
	if err != nil {
		panic(err)
	}
	return s
}

// edwardsCurve 四个 Edwards25519 曲线族共享同一个群，区别在于私钥到标量的映射
type edwardsCurve struct {
	family  Family
	name    string
	privLen int
	// scalar 把原始私钥字节映射为公钥标量
	scalar func(raw []byte) (*edwards25519.Scalar, error)
}

func clampedScalar(hash func([]byte) []byte) func([]byte) (*edwards25519.Scalar, error) {
	return func(raw []byte) (*edwards25519.Scalar, error) {
		h := hash(raw)
		return edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	}
}

var (
	ed25519Curve Curve = &edwardsCurve{
		family:  Ed25519,
		name:    "ed25519",
		privLen: 32,
		scalar:  clampedScalar(crypto_util.SHA512),
	}
	ed25519Blake2bCurve Curve = &edwardsCurve{
		family:  Ed25519Blake2b,
		name:    "ed25519-blake2b",
		privLen: 32,
		scalar:  clampedScalar(crypto_util.Blake2b512),
	}
	ed25519MoneroCurve Curve = &edwardsCurve{
		family:  Ed25519Monero,
		name:    "ed25519-monero",
		privLen: 32,
		scalar: func(raw []byte) (*edwards25519.Scalar, error) {
			return edwards25519.NewScalar().SetCanonicalBytes(raw)
		},
	}
	// Kholaw 私钥为 kL||kR，公钥只由 kL 决定
	kholawEd25519Curve Curve = &edwardsCurve{
		family:  KholawEd25519,
		name:    "kholaw-ed25519",
		privLen: 64,
		scalar: func(raw []byte) (*edwards25519.Scalar, error) {
			wide := make([]byte, 64)
			copy(wide, raw[:32])
			return edwards25519.NewScalar().SetUniformBytes(wide)
		},
	}
)

func (c *edwardsCurve) Family() Family { return c.family }
func (c *edwardsCurve) Name() string   { return c.name }

func (c *edwardsCurve) Order() *big.Int { return new(big.Int).Set(ed25519Order) }

func (c *edwardsCurve) Generator() Point {
	return &edwardsPoint{p: edwards25519.NewGeneratorPoint()}
}

func (c *edwardsCurve) IsValidPrivateKey(b []byte) bool {
	if len(b) != c.privLen {
		return false
	}
	_, err := c.scalar(b)
	return err == nil
}

func (c *edwardsCurve) PrivateKeyFromBytes(b []byte) (PrivateKey, error) {
	if len(b) != c.privLen {
		return nil, fmt.Errorf("%s private key must be %d bytes, got %d: %w", c.name, c.privLen, len(b), errno.ErrInvalidKeyBytes)
	}
	s, err := c.scalar(b)
	if err != nil {
		return nil, fmt.Errorf("%s private key: %v: %w", c.name, err, errno.ErrInvalidScalar)
	}
	raw := make([]byte, len(b))
	copy(raw, b)
	point := &edwardsPoint{p: new(edwards25519.Point).ScalarBaseMult(s)}
	return &edwardsPrivateKey{curve: c, raw: raw, pub: &edwardsPublicKey{curve: c, point: point}}, nil
}

// PublicKeyFromBytes 接受 32 字节原始点或 0x00 前缀的 33 字节格式
func (c *edwardsCurve) PublicKeyFromBytes(b []byte) (PublicKey, error) {
	if len(b) == 33 && b[0] == 0x00 {
		b = b[1:]
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("%s public key of %d bytes: %w", c.name, len(b), errno.ErrInvalidKeyBytes)
	}
	p, err := c.PointFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%s public key: %w", c.name, errno.ErrInvalidKeyBytes)
	}
	return &edwardsPublicKey{curve: c, point: p.(*edwardsPoint)}, nil
}

func (c *edwardsCurve) PublicKeyFromPoint(p Point) (PublicKey, error) {
	ep, ok := p.(*edwardsPoint)
	if !ok || ep.IsIdentity() {
		return nil, fmt.Errorf("%s public key from point: %w", c.name, errno.ErrInvalidPoint)
	}
	return &edwardsPublicKey{curve: c, point: ep}, nil
}

func (c *edwardsCurve) PointFromBytes(b []byte) (Point, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("%s point of %d bytes: %w", c.name, len(b), errno.ErrInvalidPoint)
	}
	p, err := new(edwards25519.Point).SetBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%s point: %v: %w", c.name, err, errno.ErrInvalidPoint)
	}
	return &edwardsPoint{p: p}, nil
}

// PointFromCoordinates 用 y 和 x 的奇偶性编码后解压，再校验 x 是否一致
func (c *edwardsCurve) PointFromCoordinates(x, y *big.Int) (Point, error) {
	if x.Sign() < 0 || y.Sign() < 0 || y.BitLen() > 255 {
		return nil, fmt.Errorf("%s coordinates out of range: %w", c.name, errno.ErrInvalidPoint)
	}
	enc := reverse(bigToBytes(y, 32))
	if x.Bit(0) == 1 {
		enc[31] |= 0x80
	}
	p, err := c.PointFromBytes(enc)
	if err != nil {
		return nil, err
	}
	if p.X().Cmp(x) != 0 {
		return nil, fmt.Errorf("%s coordinates not on curve: %w", c.name, errno.ErrInvalidPoint)
	}
	return p, nil
}

type edwardsPoint struct {
	p *edwards25519.Point
}

// affine 返回仿射坐标 (x, y) = (X/Z, Y/Z)
func (p *edwardsPoint) affine() (*big.Int, *big.Int) {
	X, Y, Z, _ := p.p.ExtendedCoordinates()
	inv := new(field.Element).Invert(Z)
	x := new(field.Element).Multiply(X, inv)
	y := new(field.Element).Multiply(Y, inv)
	return new(big.Int).SetBytes(reverse(x.Bytes())), new(big.Int).SetBytes(reverse(y.Bytes()))
}

func (p *edwardsPoint) X() *big.Int {
	x, _ := p.affine()
	return x
}

func (p *edwardsPoint) Y() *big.Int {
	_, y := p.affine()
	return y
}

func (p *edwardsPoint) Raw() []byte             { return p.p.Bytes() }
func (p *edwardsPoint) RawUncompressed() []byte { return p.p.Bytes() }

func (p *edwardsPoint) Add(q Point) Point {
	other := q.(*edwardsPoint)
	return &edwardsPoint{p: new(edwards25519.Point).Add(p.p, other.p)}
}

func (p *edwardsPoint) Mul(k *big.Int) Point {
	return &edwardsPoint{p: new(edwards25519.Point).ScalarMult(edwardsScalar(k), p.p)}
}

func (p *edwardsPoint) IsIdentity() bool {
	return p.p.Equal(edwards25519.NewIdentityPoint()) == 1
}

func (p *edwardsPoint) Equal(q Point) bool {
	other, ok := q.(*edwardsPoint)
	return ok && p.p.Equal(other.p) == 1
}

type edwardsPublicKey struct {
	curve *edwardsCurve
	point *edwardsPoint
}

func (k *edwardsPublicKey) Curve() Curve { return k.curve }

// RawCompressed 返回 0x00 || 32 字节点编码，与 secp256k1 压缩公钥等长
func (k *edwardsPublicKey) RawCompressed() []byte {
	return append([]byte{0x00}, k.point.Raw()...)
}

func (k *edwardsPublicKey) RawUncompressed() []byte { return k.RawCompressed() }
func (k *edwardsPublicKey) Point() Point            { return k.point }

type edwardsPrivateKey struct {
	curve *edwardsCurve
	raw   []byte
	pub   *edwardsPublicKey
}

func (k *edwardsPrivateKey) Curve() Curve         { return k.curve }
func (k *edwardsPrivateKey) Raw() []byte          { return append([]byte(nil), k.raw...) }
func (k *edwardsPrivateKey) PublicKey() PublicKey { return k.pub }
