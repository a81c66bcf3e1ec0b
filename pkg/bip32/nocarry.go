package bip32

// Byron Legacy 的历史实现逐字节相加且不传播进位，这里原样保留以兼容旧钱包。
// 其他策略一律使用 big.Int 模运算，不要与这里的函数混用。

// addNoCarry out[i] = (a[i] + b[i]) & 0xFF
func addNoCarry(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// mul8NoCarry out[i] = (a[i] * 8) & 0xFF
func mul8NoCarry(a []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] << 3
	}
	return out
}
