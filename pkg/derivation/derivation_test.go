package derivation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdwallet-core/pkg/errno"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		path    string
		want    []Segment
		wantErr bool
	}{
		{"m", nil, false},
		{"", nil, false},
		{"m/", nil, false},
		{"m/0'", []Segment{{Range: Single(0), Hardened: true}}, false},
		{"m/44h/0H/0'/0/0-2", []Segment{
			{Range: Single(44), Hardened: true},
			{Range: Single(0), Hardened: true},
			{Range: Single(0), Hardened: true},
			{Range: Single(0)},
			{Range: Range{From: 0, To: 2}},
		}, false},
		{"0/1", []Segment{{Range: Single(0)}, {Range: Single(1)}}, false},
		{"m/x", nil, true},
		{"m/0//1", nil, true},
		{"m/2147483648", nil, true},
		{"m/5-1", nil, true},
		{"m/'", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := ParsePath(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errno.ErrInvalidPath))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndex(t *testing.T) {
	idx := IndexFromRaw(0x8000002c)
	assert.Equal(t, Index{Value: 44, Hardened: true}, idx)
	assert.Equal(t, uint32(0x8000002c), idx.Raw())
	assert.Equal(t, "44'", idx.String())
	assert.Equal(t, "7", IndexFromRaw(7).String())
	assert.Equal(t, "m/44'/7", FormatIndexes([]Index{idx, {Value: 7}}))
}

func TestBIPDescriptors(t *testing.T) {
	tests := []struct {
		tree Tree
		name string
		path string
	}{
		{NewBIP44(0, Single(0), Single(ChangeExternal), Single(0)), "bip44", "m/44'/0'/0'/0/0"},
		{NewBIP49(1, Single(2), Single(ChangeInternal), Range{From: 3, To: 5}), "bip49", "m/49'/1'/2'/1/3-5"},
		{NewBIP84(0, Single(0), Single(0), Single(9)), "bip84", "m/84'/0'/0'/0/9"},
		{NewBIP86(0, Range{From: 0, To: 1}, Single(0), Single(0)), "bip86", "m/86'/0'/0-1'/0/0"},
		{NewCIP1852(0, Single(0), RoleStaking, Single(0)), "cip1852", "m/1852'/1815'/0'/2/0"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.tree.Name())
			assert.Equal(t, tt.path, tt.tree.Path())
		})
	}
}

func TestResolve(t *testing.T) {
	bip := NewBIP44(60, Single(0), Single(0), Single(3))
	indexes, err := Resolve(bip)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x8000002c, 0x8000003c, 0x80000000, 0, 3}, raws(indexes))

	custom := NewCustomFromIndexes(0x80000000, 1)
	assert.Equal(t, "m/0'/1", custom.Path())
	indexes, err = Resolve(custom)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x80000000, 1}, raws(indexes))

	_, err = Resolve(NewBIP44(0, Single(0), Single(0), Range{From: 0, To: 1}))
	assert.True(t, errors.Is(err, errno.ErrRangeNotResolved))
}

func TestExpand(t *testing.T) {
	custom, err := NewCustom("m/0'/0-1/5-6")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), Count(custom))

	paths := Expand(custom)
	require.Len(t, paths, 4)
	got := make([]string, 0, len(paths))
	for _, p := range paths {
		got = append(got, FormatIndexes(p))
	}
	assert.Equal(t, []string{"m/0'/0/5", "m/0'/0/6", "m/0'/1/5", "m/0'/1/6"}, got)

	root, err := NewCustom("m")
	require.NoError(t, err)
	assert.Equal(t, [][]Index{{}}, Expand(root))
	assert.Equal(t, "m", root.Path())
}

func TestCountSaturates(t *testing.T) {
	two, err := NewCustom("m/0-2147483647/0-2147483647")
	require.NoError(t, err)
	assert.Equal(t, uint64(1)<<62, Count(two))

	huge, err := NewCustom("m/0-2147483647/0-2147483647/0-2147483647/0-1")
	require.NoError(t, err)
	if got := Count(huge); got != math.MaxUint64 {
		t.Fatalf("溢出后应饱和为 MaxUint64, got %d", got)
	}

	full := Range{From: 0, To: math.MaxUint32}
	assert.Equal(t, uint64(math.MaxUint64), NewMonero(full, full).Count())
	assert.Equal(t, uint64(4), NewElectrum(Range{From: 0, To: 1}, Range{From: 5, To: 6}).Count())
}

func TestParseChangeAndRole(t *testing.T) {
	r, err := ParseChange("internal-chain")
	require.NoError(t, err)
	assert.Equal(t, Single(1), r)
	r, err = ParseChange("0-1")
	require.NoError(t, err)
	assert.Equal(t, Range{From: 0, To: 1}, r)
	_, err = ParseChange("2")
	assert.Error(t, err)

	role, err := ParseRole("staking-key")
	require.NoError(t, err)
	assert.Equal(t, RoleStaking, role)
	role, err = ParseRole("drep")
	require.NoError(t, err)
	assert.Equal(t, RoleDRep, role)
	role, err = ParseRole("5")
	require.NoError(t, err)
	assert.Equal(t, RoleCCHot, role)
	_, err = ParseRole("6")
	assert.True(t, errors.Is(err, errno.ErrInvalidPath))
}

func TestFlatDescriptors(t *testing.T) {
	e := NewElectrum(Range{From: 0, To: 1}, Range{From: 0, To: 1})
	assert.Equal(t, []Pair{{0, 0}, {0, 1}, {1, 0}, {1, 1}}, e.Pairs())
	_, _, err := e.Resolve()
	assert.True(t, errors.Is(err, errno.ErrRangeNotResolved))

	change, address, err := NewElectrum(Single(1), Single(7)).Resolve()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), change)
	assert.Equal(t, uint32(7), address)

	m := NewMonero(Range{From: 1, To: 2}, Single(3))
	assert.Equal(t, []Pair{{3, 1}, {3, 2}}, m.Pairs())
	minor, major, err := NewMonero(Single(4), Single(5)).Resolve()
	require.NoError(t, err)
	assert.Equal(t, uint32(4), minor)
	assert.Equal(t, uint32(5), major)
}

func raws(indexes []Index) []uint32 {
	out := make([]uint32, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, i.Raw())
	}
	return out
}
