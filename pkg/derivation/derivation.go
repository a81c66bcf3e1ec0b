// Package derivation 描述派生路径：树形方案 (Custom, BIP44/49/84/86, CIP1852) 解析为索引序列，
// 平铺方案 (Electrum-V1, Monero) 则直接给出公式输入。
package derivation

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"hdwallet-core/pkg/errno"
)

// HardenedOffset 强化索引标志位
const HardenedOffset uint32 = 0x80000000

// Index 已解析的单个路径索引
type Index struct {
	Value    uint32
	Hardened bool
}

// IndexFromRaw 从带强化位的原始索引构造
func IndexFromRaw(raw uint32) Index {
	if raw >= HardenedOffset {
		return Index{Value: raw - HardenedOffset, Hardened: true}
	}
	return Index{Value: raw}
}

// Raw 返回带强化位的 32 位索引
func (i Index) Raw() uint32 {
	if i.Hardened {
		return i.Value | HardenedOffset
	}
	return i.Value
}

func (i Index) String() string {
	if i.Hardened {
		return strconv.FormatUint(uint64(i.Value), 10) + "'"
	}
	return strconv.FormatUint(uint64(i.Value), 10)
}

// Range 闭区间 [From, To]
type Range struct {
	From uint32
	To   uint32
}

// Single 只包含一个值的区间
func Single(v uint32) Range {
	return Range{From: v, To: v}
}

// ParseRange 解析 "5" 或 "0-2"
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	from, to, isRange := strings.Cut(s, "-")
	a, err := parseValue(from)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	if !isRange {
		return Single(a), nil
	}
	b, err := parseValue(to)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	if a > b {
		return Range{}, fmt.Errorf("range %q: start greater than end: %w", s, errno.ErrInvalidPath)
	}
	return Range{From: a, To: b}, nil
}

func parseValue(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad index %q: %w", s, errno.ErrInvalidPath)
	}
	if uint32(v) >= HardenedOffset {
		return 0, fmt.Errorf("index %d overflows 2^31: %w", v, errno.ErrInvalidPath)
	}
	return uint32(v), nil
}

// IsSingle 区间是否只有一个值
func (r Range) IsSingle() bool { return r.From == r.To }

// Len 区间内值的数量
func (r Range) Len() uint64 { return uint64(r.To) - uint64(r.From) + 1 }

// Values 展开区间
func (r Range) Values() []uint32 {
	out := make([]uint32, 0, r.Len())
	for v := uint64(r.From); v <= uint64(r.To); v++ {
		out = append(out, uint32(v))
	}
	return out
}

func (r Range) String() string {
	if r.IsSingle() {
		return strconv.FormatUint(uint64(r.From), 10)
	}
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// Segment 路径中的一段，可能是区间
type Segment struct {
	Range
	Hardened bool
}

func (s Segment) String() string {
	if s.Hardened {
		return s.Range.String() + "'"
	}
	return s.Range.String()
}

// ParsePath 解析 "m/44'/0'/0'/0/0-2"，强化标记支持 ' h H
func ParsePath(path string) ([]Segment, error) {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, "m")
	path = strings.TrimPrefix(path, "M")
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, nil
	}

	parts := strings.Split(path, "/")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		hardened := false
		if n := len(part); n > 0 && (part[n-1] == '\'' || part[n-1] == 'h' || part[n-1] == 'H') {
			hardened = true
			part = part[:n-1]
		}
		if part == "" {
			return nil, fmt.Errorf("empty segment in %q: %w", path, errno.ErrInvalidPath)
		}
		r, err := ParseRange(part)
		if err != nil {
			return nil, err
		}
		segments = append(segments, Segment{Range: r, Hardened: hardened})
	}
	return segments, nil
}

// FormatIndexes 把索引序列格式化成 "m/..." 路径
func FormatIndexes(indexes []Index) string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, idx := range indexes {
		sb.WriteByte('/')
		sb.WriteString(idx.String())
	}
	return sb.String()
}

func formatSegments(segments []Segment) string {
	var sb strings.Builder
	sb.WriteString("m")
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(s.String())
	}
	return sb.String()
}

// Tree 树形派生方案
type Tree interface {
	Name() string
	// Path 返回带区间的路径字符串
	Path() string
	Segments() []Segment
}

// Resolve 把不含区间的方案转换为索引序列
func Resolve(t Tree) ([]Index, error) {
	segments := t.Segments()
	indexes := make([]Index, 0, len(segments))
	for _, s := range segments {
		if !s.IsSingle() {
			return nil, fmt.Errorf("%s %s: %w", t.Name(), t.Path(), errno.ErrRangeNotResolved)
		}
		indexes = append(indexes, Index{Value: s.From, Hardened: s.Hardened})
	}
	return indexes, nil
}

// Count 展开后的路径数量，溢出时饱和为 math.MaxUint64
func Count(t Tree) uint64 {
	total := uint64(1)
	for _, s := range t.Segments() {
		total = mulSat(total, s.Len())
	}
	return total
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// Expand 区间的笛卡尔积，最后一段变化最快
func Expand(t Tree) [][]Index {
	result := [][]Index{{}}
	for _, s := range t.Segments() {
		next := make([][]Index, 0, uint64(len(result))*s.Len())
		for _, prefix := range result {
			for _, v := range s.Values() {
				path := make([]Index, len(prefix), len(prefix)+1)
				copy(path, prefix)
				next = append(next, append(path, Index{Value: v, Hardened: s.Hardened}))
			}
		}
		result = next
	}
	return result
}
