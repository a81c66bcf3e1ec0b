package ecc

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"hdwallet-core/pkg/errno"
)

type secp256k1CurveImpl struct{}

var secp256k1Curve Curve = secp256k1CurveImpl{}

func (secp256k1CurveImpl) Family() Family { return Secp256k1 }
func (secp256k1CurveImpl) Name() string   { return "secp256k1" }

func (secp256k1CurveImpl) Order() *big.Int {
	return new(big.Int).Set(btcec.S256().Params().N)
}

func (c secp256k1CurveImpl) Generator() Point {
	params := btcec.S256().Params()
	p, err := c.PointFromCoordinates(params.Gx, params.Gy)
	if err != nil {
		panic(err)
	}
	return p
}

func (secp256k1CurveImpl) IsValidPrivateKey(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	var s secp256k1.ModNScalar
	overflow := s.SetByteSlice(b)
	return !overflow && !s.IsZero()
}

func (c secp256k1CurveImpl) PrivateKeyFromBytes(b []byte) (PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("secp256k1 private key must be 32 bytes, got %d: %w", len(b), errno.ErrInvalidKeyBytes)
	}
	if !c.IsValidPrivateKey(b) {
		return nil, fmt.Errorf("secp256k1 private key out of range: %w", errno.ErrInvalidScalar)
	}
	priv, pub := btcec.PrivKeyFromBytes(b)
	return &secp256k1PrivateKey{key: priv, pub: &secp256k1PublicKey{key: pub}}, nil
}

func (secp256k1CurveImpl) PublicKeyFromBytes(b []byte) (PublicKey, error) {
	pub, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("secp256k1 public key: %v: %w", err, errno.ErrInvalidKeyBytes)
	}
	return &secp256k1PublicKey{key: pub}, nil
}

func (secp256k1CurveImpl) PublicKeyFromPoint(p Point) (PublicKey, error) {
	sp, ok := p.(*secp256k1Point)
	if !ok {
		return nil, fmt.Errorf("not a secp256k1 point: %w", errno.ErrInvalidPoint)
	}
	if sp.IsIdentity() {
		return nil, fmt.Errorf("identity point: %w", errno.ErrInvalidPoint)
	}
	return &secp256k1PublicKey{key: secp256k1.NewPublicKey(&sp.jp.X, &sp.jp.Y)}, nil
}

func (c secp256k1CurveImpl) PointFromBytes(b []byte) (Point, error) {
	pub, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("secp256k1 point: %v: %w", err, errno.ErrInvalidPoint)
	}
	return pointOfSecp256k1Key(pub), nil
}

func (secp256k1CurveImpl) PointFromCoordinates(x, y *big.Int) (Point, error) {
	if x.Sign() < 0 || y.Sign() < 0 || x.BitLen() > 256 || y.BitLen() > 256 {
		return nil, fmt.Errorf("secp256k1 coordinates out of range: %w", errno.ErrInvalidPoint)
	}
	var fx, fy secp256k1.FieldVal
	if fx.SetByteSlice(x.Bytes()) || fy.SetByteSlice(y.Bytes()) {
		return nil, fmt.Errorf("secp256k1 coordinates overflow: %w", errno.ErrInvalidPoint)
	}
	pub := secp256k1.NewPublicKey(&fx, &fy)
	if !pub.IsOnCurve() {
		return nil, fmt.Errorf("secp256k1 coordinates not on curve: %w", errno.ErrInvalidPoint)
	}
	return pointOfSecp256k1Key(pub), nil
}

// secp256k1Point 使用 Jacobian 坐标 (始终保持仿射形式 Z=1, 无穷远点全为 0)
type secp256k1Point struct {
	jp secp256k1.JacobianPoint
}

func pointOfSecp256k1Key(pub *btcec.PublicKey) *secp256k1Point {
	p := &secp256k1Point{}
	pub.AsJacobian(&p.jp)
	return p
}

// normalizedPoint 将运算结果转换回仿射坐标
func normalizedPoint(r *secp256k1.JacobianPoint) *secp256k1Point {
	if (r.X.IsZero() && r.Y.IsZero()) || r.Z.Normalize().IsZero() {
		return &secp256k1Point{}
	}
	r.ToAffine()
	return &secp256k1Point{jp: *r}
}

func (p *secp256k1Point) X() *big.Int {
	return new(big.Int).SetBytes(p.jp.X.Bytes()[:])
}

func (p *secp256k1Point) Y() *big.Int {
	return new(big.Int).SetBytes(p.jp.Y.Bytes()[:])
}

func (p *secp256k1Point) Raw() []byte {
	if p.IsIdentity() {
		return []byte{0x00}
	}
	return secp256k1.NewPublicKey(&p.jp.X, &p.jp.Y).SerializeCompressed()
}

func (p *secp256k1Point) RawUncompressed() []byte {
	if p.IsIdentity() {
		return []byte{0x00}
	}
	return secp256k1.NewPublicKey(&p.jp.X, &p.jp.Y).SerializeUncompressed()
}

func (p *secp256k1Point) Add(q Point) Point {
	other := q.(*secp256k1Point)
	a, b := p.jp, other.jp
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(&a, &b, &r)
	return normalizedPoint(&r)
}

func (p *secp256k1Point) Mul(k *big.Int) Point {
	n := btcec.S256().Params().N
	var s secp256k1.ModNScalar
	s.SetByteSlice(bigToBytes(new(big.Int).Mod(k, n), 32))
	a := p.jp
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&s, &a, &r)
	return normalizedPoint(&r)
}

func (p *secp256k1Point) IsIdentity() bool {
	return (p.jp.X.IsZero() && p.jp.Y.IsZero()) || p.jp.Z.IsZero()
}

func (p *secp256k1Point) Equal(q Point) bool {
	other, ok := q.(*secp256k1Point)
	if !ok {
		return false
	}
	if p.IsIdentity() || other.IsIdentity() {
		return p.IsIdentity() == other.IsIdentity()
	}
	return p.jp.X.Equals(&other.jp.X) && p.jp.Y.Equals(&other.jp.Y)
}

type secp256k1PublicKey struct {
	key *btcec.PublicKey
}

func (k *secp256k1PublicKey) Curve() Curve            { return secp256k1Curve }
func (k *secp256k1PublicKey) RawCompressed() []byte   { return k.key.SerializeCompressed() }
func (k *secp256k1PublicKey) RawUncompressed() []byte { return k.key.SerializeUncompressed() }
func (k *secp256k1PublicKey) Point() Point            { return pointOfSecp256k1Key(k.key) }

type secp256k1PrivateKey struct {
	key *btcec.PrivateKey
	pub *secp256k1PublicKey
}

func (k *secp256k1PrivateKey) Curve() Curve         { return secp256k1Curve }
func (k *secp256k1PrivateKey) Raw() []byte          { return k.key.Serialize() }
func (k *secp256k1PrivateKey) PublicKey() PublicKey { return k.pub }
