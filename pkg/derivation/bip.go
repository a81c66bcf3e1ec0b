package derivation

import (
	"fmt"
	"strings"

	"hdwallet-core/pkg/errno"
)

// BIP purpose 常量
const (
	PurposeBIP44 uint32 = 44
	PurposeBIP49 uint32 = 49
	PurposeBIP84 uint32 = 84
	PurposeBIP86 uint32 = 86
)

// 找零链
const (
	ChangeExternal uint32 = 0
	ChangeInternal uint32 = 1
)

// ParseChange 解析 "external-chain" / "internal-chain" 或数字区间
func ParseChange(s string) (Range, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "external", "external-chain":
		return Single(ChangeExternal), nil
	case "internal", "internal-chain":
		return Single(ChangeInternal), nil
	}
	r, err := ParseRange(s)
	if err != nil {
		return Range{}, err
	}
	if r.To > ChangeInternal {
		return Range{}, fmt.Errorf("change %q must be 0 or 1: %w", s, errno.ErrInvalidPath)
	}
	return r, nil
}

// BIP m/purpose'/coin_type'/account'/change/address
type BIP struct {
	Purpose  uint32
	CoinType uint32
	Account  Range
	Change   Range
	Address  Range
}

func newBIP(purpose, coinType uint32, account, change, address Range) *BIP {
	return &BIP{Purpose: purpose, CoinType: coinType, Account: account, Change: change, Address: address}
}

func NewBIP44(coinType uint32, account, change, address Range) *BIP {
	return newBIP(PurposeBIP44, coinType, account, change, address)
}

func NewBIP49(coinType uint32, account, change, address Range) *BIP {
	return newBIP(PurposeBIP49, coinType, account, change, address)
}

func NewBIP84(coinType uint32, account, change, address Range) *BIP {
	return newBIP(PurposeBIP84, coinType, account, change, address)
}

func NewBIP86(coinType uint32, account, change, address Range) *BIP {
	return newBIP(PurposeBIP86, coinType, account, change, address)
}

func (b *BIP) Name() string { return fmt.Sprintf("bip%d", b.Purpose) }
func (b *BIP) Path() string { return formatSegments(b.Segments()) }

func (b *BIP) Segments() []Segment {
	return []Segment{
		{Range: Single(b.Purpose), Hardened: true},
		{Range: Single(b.CoinType), Hardened: true},
		{Range: b.Account, Hardened: true},
		{Range: b.Change},
		{Range: b.Address},
	}
}
