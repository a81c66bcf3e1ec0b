// Package address 把 secp256k1 公钥转换成链上地址，dump 可选输出。
package address

import (
	"fmt"
	"strings"

	"hdwallet-core/pkg/errno"
)

// Generator 地址生成器
type Generator interface {
	Name() string
	PubKeyToAddress(pubKeyBytes []byte) (string, error)
}

// ForName 按名称返回生成器 ("btc" / "eth")
func ForName(name string) (Generator, error) {
	switch strings.ToLower(name) {
	case "btc":
		return NewBTCGenerator(nil), nil
	case "eth":
		return NewETHGenerator(), nil
	}
	return nil, fmt.Errorf("address format %q: %w", name, errno.ErrUnsupportedOperation)
}
