package derivation

// Custom 任意路径
type Custom struct {
	segments []Segment
}

// NewCustom 从路径字符串构造，允许出现区间 (m/0'/0-2)
func NewCustom(path string) (*Custom, error) {
	segments, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return &Custom{segments: segments}, nil
}

// NewCustomFromIndexes 从原始索引构造 (>= 0x80000000 视为强化)
func NewCustomFromIndexes(indexes ...uint32) *Custom {
	segments := make([]Segment, 0, len(indexes))
	for _, raw := range indexes {
		idx := IndexFromRaw(raw)
		segments = append(segments, Segment{Range: Single(idx.Value), Hardened: idx.Hardened})
	}
	return &Custom{segments: segments}
}

func (c *Custom) Name() string { return "custom" }
func (c *Custom) Path() string { return formatSegments(c.segments) }

func (c *Custom) Segments() []Segment {
	return append([]Segment(nil), c.segments...)
}
