package derivation

import (
	"fmt"

	"hdwallet-core/pkg/errno"
)

// Pair 平铺方案的一组输入
type Pair struct {
	First  uint32
	Second uint32
}

func pairs(a, b Range) []Pair {
	out := make([]Pair, 0, mulSat(a.Len(), b.Len()))
	for _, x := range a.Values() {
		for _, y := range b.Values() {
			out = append(out, Pair{First: x, Second: y})
		}
	}
	return out
}

// Electrum Electrum-V1 的 (change, address)
type Electrum struct {
	Change  Range
	Address Range
}

func NewElectrum(change, address Range) *Electrum {
	return &Electrum{Change: change, Address: address}
}

func (e *Electrum) Name() string { return "electrum" }

// Count 展开后的组数
func (e *Electrum) Count() uint64 { return mulSat(e.Change.Len(), e.Address.Len()) }

// Pairs 按 change 优先展开，Pair.First 为 change
func (e *Electrum) Pairs() []Pair { return pairs(e.Change, e.Address) }

// Resolve 返回唯一的 (change, address)
func (e *Electrum) Resolve() (change, address uint32, err error) {
	if !e.Change.IsSingle() || !e.Address.IsSingle() {
		return 0, 0, fmt.Errorf("electrum %s/%s: %w", e.Change, e.Address, errno.ErrRangeNotResolved)
	}
	return e.Change.From, e.Address.From, nil
}

// Monero 子地址的 (minor, major)
type Monero struct {
	Minor Range
	Major Range
}

func NewMonero(minor, major Range) *Monero {
	return &Monero{Minor: minor, Major: major}
}

func (m *Monero) Name() string { return "monero" }

// Count 展开后的组数
func (m *Monero) Count() uint64 { return mulSat(m.Minor.Len(), m.Major.Len()) }

// Pairs 按 major 优先展开，Pair.First 为 major
func (m *Monero) Pairs() []Pair { return pairs(m.Major, m.Minor) }

// Resolve 返回唯一的 (minor, major)
func (m *Monero) Resolve() (minor, major uint32, err error) {
	if !m.Minor.IsSingle() || !m.Major.IsSingle() {
		return 0, 0, fmt.Errorf("monero %s/%s: %w", m.Minor, m.Major, errno.ErrRangeNotResolved)
	}
	return m.Minor.From, m.Major.From, nil
}
