package safe_random

import (
	"crypto/rand"
	"fmt"
	"io"

	"hdwallet-core/pkg/errno"
)

// 随机种子的长度范围，与 BIP-32 的 128-512 位一致
const (
	MinSeedSize = 16
	MaxSeedSize = 64
)

// Reader 随机源，测试中可以替换成固定输入
var Reader io.Reader = rand.Reader

// GenerateRandomBytes 从 Reader 读取 n 个字节，读不满时返回错误。
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, fmt.Errorf("生成随机字节失败: %w", err)
	}
	return b, nil
}

// GenerateSeed 生成 n 字节的随机 HD 种子
func GenerateSeed(n int) ([]byte, error) {
	if n < MinSeedSize || n > MaxSeedSize {
		return nil, fmt.Errorf("seed size %d not in [%d, %d]: %w", n, MinSeedSize, MaxSeedSize, errno.ErrInvalidSeedLength)
	}
	return GenerateRandomBytes(n)
}
