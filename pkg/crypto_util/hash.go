package crypto_util

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/sha3"
)

// HmacSHA512 计算 HMAC-SHA512(key, data)，返回 64 字节。
// BIP32/SLIP10/Cardano 的主密钥和子密钥派生都基于它。
func HmacSHA512(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// HmacSHA256 计算 HMAC-SHA256(key, data)，返回 32 字节。
func HmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// SHA256 计算输入的 SHA256 哈希值。
func SHA256(data []byte) []byte {
	hash := sha256.Sum256(data)
	return hash[:]
}

// SHA512 计算输入的 SHA512 哈希值。
func SHA512(data []byte) []byte {
	hash := sha512.Sum512(data)
	return hash[:]
}

// DoubleSHA256 计算 SHA256(SHA256(data))。Electrum V1 的 sequence 依赖它。
func DoubleSHA256(data []byte) []byte {
	return chainhash.DoubleHashB(data)
}

// Hash160 计算 RIPEMD160(SHA256(data))，用于公钥指纹。
func Hash160(data []byte) []byte {
	return btcutil.Hash160(data)
}

// Keccak256 计算输入的 Keccak256 哈希值 (legacy padding，非 NIST SHA3)。
// 这是以太坊和门罗币使用的哈希算法。
func Keccak256(data ...[]byte) []byte {
	hash := sha3.NewLegacyKeccak256()
	for _, d := range data {
		hash.Write(d)
	}
	return hash.Sum(nil)
}

// Blake2b512 计算 Blake2b-512 (无 key)。
func Blake2b512(data []byte) []byte {
	hash := blake2b.Sum512(data)
	return hash[:]
}

// Blake2b256 计算 Blake2b-256 (无 key)。Byron Legacy 种子使用。
func Blake2b256(data []byte) []byte {
	hash := blake2b.Sum256(data)
	return hash[:]
}

// Pbkdf2HmacSHA512 用 HMAC-SHA512 作为 PRF 的 PBKDF2。
func Pbkdf2HmacSHA512(password, salt []byte, iterations, keyLen int) []byte {
	return pbkdf2.Key(password, salt, iterations, keyLen, sha512.New)
}

// CalculateSHA256 计算输入的 SHA256 哈希值，返回 Hex 字符串。
func CalculateSHA256(data []byte) string {
	return hex.EncodeToString(SHA256(data))
}

// CalculateKeccak256 计算输入的 Keccak256 哈希值，返回 Hex 字符串。
func CalculateKeccak256(data []byte) string {
	return hex.EncodeToString(Keccak256(data))
}
