package ecc

import (
	"bytes"
	"fmt"
	"math/big"

	"filippo.io/nistec"

	"hdwallet-core/pkg/errno"
)

// nist256p1Order P-256 的阶 n
var nist256p1Order, _ = new(big.Int).SetString("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551", 16)

// nist256p1 (P-256) 基于 filippo.io/nistec 的常数时间实现，
// 无穷远点的 X/Y 按惯例返回 (0, 0)
type nist256p1CurveImpl struct{}

var nist256p1Curve Curve = nist256p1CurveImpl{}

func (nist256p1CurveImpl) Family() Family { return Nist256p1 }
func (nist256p1CurveImpl) Name() string   { return "nist256p1" }

func (nist256p1CurveImpl) Order() *big.Int {
	return new(big.Int).Set(nist256p1Order)
}

func (nist256p1CurveImpl) Generator() Point {
	return &nist256p1Point{p: nistec.NewP256Point().SetGenerator()}
}

func (nist256p1CurveImpl) IsValidPrivateKey(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	k := new(big.Int).SetBytes(b)
	return k.Sign() > 0 && k.Cmp(nist256p1Order) < 0
}

func (c nist256p1CurveImpl) PrivateKeyFromBytes(b []byte) (PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("nist256p1 private key must be 32 bytes, got %d: %w", len(b), errno.ErrInvalidKeyBytes)
	}
	if !c.IsValidPrivateKey(b) {
		return nil, fmt.Errorf("nist256p1 private key out of range: %w", errno.ErrInvalidScalar)
	}
	p, err := nistec.NewP256Point().ScalarBaseMult(b)
	if err != nil {
		return nil, fmt.Errorf("nist256p1 scalar base mult: %v: %w", err, errno.ErrInvalidScalar)
	}
	raw := make([]byte, 32)
	copy(raw, b)
	return &nist256p1PrivateKey{raw: raw, pub: &nist256p1PublicKey{point: &nist256p1Point{p: p}}}, nil
}

func (c nist256p1CurveImpl) PublicKeyFromBytes(b []byte) (PublicKey, error) {
	p, err := c.PointFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("nist256p1 public key: %w", errno.ErrInvalidKeyBytes)
	}
	return &nist256p1PublicKey{point: p.(*nist256p1Point)}, nil
}

func (nist256p1CurveImpl) PublicKeyFromPoint(p Point) (PublicKey, error) {
	np, ok := p.(*nist256p1Point)
	if !ok || np.IsIdentity() {
		return nil, fmt.Errorf("nist256p1 public key from point: %w", errno.ErrInvalidPoint)
	}
	return &nist256p1PublicKey{point: np}, nil
}

// PointFromBytes 只接受 33 字节压缩或 65 字节未压缩编码，单字节 0x00 的无穷远点不算合法公钥
func (nist256p1CurveImpl) PointFromBytes(b []byte) (Point, error) {
	switch {
	case len(b) == 33 && (b[0] == 0x02 || b[0] == 0x03):
	case len(b) == 65 && b[0] == 0x04:
	default:
		return nil, fmt.Errorf("nist256p1 point encoding of %d bytes: %w", len(b), errno.ErrInvalidPoint)
	}
	p, err := nistec.NewP256Point().SetBytes(b)
	if err != nil {
		return nil, fmt.Errorf("nist256p1 point not on curve: %v: %w", err, errno.ErrInvalidPoint)
	}
	return &nist256p1Point{p: p}, nil
}

func (c nist256p1CurveImpl) PointFromCoordinates(x, y *big.Int) (Point, error) {
	if x.Sign() < 0 || y.Sign() < 0 || x.BitLen() > 256 || y.BitLen() > 256 {
		return nil, fmt.Errorf("nist256p1 coordinates out of range: %w", errno.ErrInvalidPoint)
	}
	enc := make([]byte, 0, 65)
	enc = append(enc, 0x04)
	enc = append(enc, bigToBytes(x, 32)...)
	enc = append(enc, bigToBytes(y, 32)...)
	p, err := nistec.NewP256Point().SetBytes(enc)
	if err != nil {
		return nil, fmt.Errorf("nist256p1 coordinates not on curve: %w", errno.ErrInvalidPoint)
	}
	return &nist256p1Point{p: p}, nil
}

type nist256p1Point struct {
	p *nistec.P256Point
}

// X 无穷远点返回 0
func (p *nist256p1Point) X() *big.Int {
	enc := p.p.Bytes()
	if len(enc) != 65 {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(enc[1:33])
}

func (p *nist256p1Point) Y() *big.Int {
	enc := p.p.Bytes()
	if len(enc) != 65 {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(enc[33:])
}

func (p *nist256p1Point) Raw() []byte {
	if p.IsIdentity() {
		return []byte{0x00}
	}
	return p.p.BytesCompressed()
}

func (p *nist256p1Point) RawUncompressed() []byte {
	return p.p.Bytes()
}

func (p *nist256p1Point) Add(q Point) Point {
	other := q.(*nist256p1Point)
	return &nist256p1Point{p: nistec.NewP256Point().Add(p.p, other.p)}
}

func (p *nist256p1Point) Mul(k *big.Int) Point {
	scalar := bigToBytes(new(big.Int).Mod(k, nist256p1Order), 32)
	r, err := nistec.NewP256Point().ScalarMult(p.p, scalar)
	if err != nil {
		// 只有标量长度不是 32 字节时才会出错
		panic(fmt.Sprintf("nist256p1 scalar mult: %v", err))
	}
	return &nist256p1Point{p: r}
}

func (p *nist256p1Point) IsIdentity() bool {
	return len(p.p.Bytes()) == 1
}

func (p *nist256p1Point) Equal(q Point) bool {
	other, ok := q.(*nist256p1Point)
	return ok && bytes.Equal(p.p.Bytes(), other.p.Bytes())
}

type nist256p1PublicKey struct {
	point *nist256p1Point
}

func (k *nist256p1PublicKey) Curve() Curve            { return nist256p1Curve }
func (k *nist256p1PublicKey) RawCompressed() []byte   { return k.point.Raw() }
func (k *nist256p1PublicKey) RawUncompressed() []byte { return k.point.RawUncompressed() }
func (k *nist256p1PublicKey) Point() Point            { return k.point }

type nist256p1PrivateKey struct {
	raw []byte
	pub *nist256p1PublicKey
}

func (k *nist256p1PrivateKey) Curve() Curve         { return nist256p1Curve }
func (k *nist256p1PrivateKey) Raw() []byte          { return append([]byte(nil), k.raw...) }
func (k *nist256p1PrivateKey) PublicKey() PublicKey { return k.pub }
