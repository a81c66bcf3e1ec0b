package derivation

import (
	"fmt"
	"strings"

	"hdwallet-core/pkg/errno"
)

const (
	PurposeCIP1852 uint32 = 1852
	// CoinTypeCardano ADA 的 SLIP-44 coin type
	CoinTypeCardano uint32 = 1815
)

// Role CIP-1852 角色
type Role uint32

const (
	RoleExternal Role = iota
	RoleInternal
	RoleStaking
	RoleDRep
	RoleCCCold
	RoleCCHot
)

var roleNames = map[Role]string{
	RoleExternal: "external-chain",
	RoleInternal: "internal-chain",
	RoleStaking:  "staking-key",
	RoleDRep:     "drep-key",
	RoleCCCold:   "cc-cold-key",
	RoleCCHot:    "cc-hot-key",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", uint32(r))
}

// ParseRole 接受角色名或 0-5
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for r, n := range roleNames {
		if n == name || strings.TrimSuffix(strings.TrimSuffix(n, "-chain"), "-key") == name {
			return r, nil
		}
	}
	v, err := parseValue(name)
	if err != nil || v > uint32(RoleCCHot) {
		return 0, fmt.Errorf("unknown CIP-1852 role %q: %w", s, errno.ErrInvalidPath)
	}
	return Role(v), nil
}

// CIP1852 m/1852'/coin_type'/account'/role/address
type CIP1852 struct {
	CoinType uint32
	Account  Range
	Role     Role
	Address  Range
}

// NewCIP1852 coinType 为 0 时使用 1815
func NewCIP1852(coinType uint32, account Range, role Role, address Range) *CIP1852 {
	if coinType == 0 {
		coinType = CoinTypeCardano
	}
	return &CIP1852{CoinType: coinType, Account: account, Role: role, Address: address}
}

func (c *CIP1852) Name() string { return "cip1852" }
func (c *CIP1852) Path() string { return formatSegments(c.Segments()) }

func (c *CIP1852) Segments() []Segment {
	return []Segment{
		{Range: Single(PurposeCIP1852), Hardened: true},
		{Range: Single(c.CoinType), Hardened: true},
		{Range: c.Account, Hardened: true},
		{Range: Single(uint32(c.Role))},
		{Range: c.Address},
	}
}
