package bip32

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"hdwallet-core/pkg/crypto_util"
	"hdwallet-core/pkg/ecc"
	"hdwallet-core/pkg/errno"
)

// MinSeedLen 树形方案的最小种子长度
const MinSeedLen = 16

// 主密钥 HMAC 的 key
var (
	bitcoinSeedSalt   = []byte("Bitcoin seed")
	nist256p1SeedSalt = []byte("Nist256p1 seed")
	ed25519SeedSalt   = []byte("ed25519 seed")
)

const icarusIterations = 4096

// masterKey 按策略从种子计算 (私钥字节, 链码)
func (w *Wallet) masterKey(seed []byte) ([]byte, []byte, error) {
	if len(seed) < MinSeedLen {
		return nil, nil, fmt.Errorf("seed of %d bytes, need at least %d: %w", len(seed), MinSeedLen, errno.ErrInvalidSeedLength)
	}

	switch w.scheme {
	case SchemeBIP32, SchemeSLIP10:
		return hmacMasterKey(w.curve, seedSalt(w.family), seed)
	case SchemeKholaw:
		if w.cardanoType == CardanoLedger {
			return ledgerMasterKey(seed)
		}
		return icarusMasterKey(seed, w.passphrase)
	case SchemeByronLegacy:
		return byronMasterKey(seed)
	}
	return nil, nil, fmt.Errorf("master key for %s: %w", w.scheme, errno.ErrUnsupportedOperation)
}

func seedSalt(family ecc.Family) []byte {
	switch family {
	case ecc.Secp256k1:
		return bitcoinSeedSalt
	case ecc.Nist256p1:
		return nist256p1SeedSalt
	}
	return ed25519SeedSalt
}

// hmacMasterKey I = HMAC-SHA512(salt, seed)，IL 无效时对 I 重复 HMAC
func hmacMasterKey(curve ecc.Curve, salt, seed []byte) ([]byte, []byte, error) {
	I := crypto_util.HmacSHA512(salt, seed)
	for !curve.IsValidPrivateKey(I[:32]) {
		I = crypto_util.HmacSHA512(salt, I)
	}
	return I[:32], I[32:], nil
}

// icarusMasterKey PBKDF2-HMAC-SHA512(passphrase, entropy, 4096, 96)
func icarusMasterKey(entropy []byte, passphrase string) ([]byte, []byte, error) {
	key := crypto_util.Pbkdf2HmacSHA512([]byte(passphrase), entropy, icarusIterations, 96)
	key[0] &= 0xF8
	key[31] &= 0x1F
	key[31] |= 0x40
	return key[:64], key[64:], nil
}

// ledgerMasterKey 重复 HMAC 直到 I[31] 的第 3 位为 0
func ledgerMasterKey(seed []byte) ([]byte, []byte, error) {
	I := crypto_util.HmacSHA512(ed25519SeedSalt, seed)
	for I[31]&0x20 != 0 {
		I = crypto_util.HmacSHA512(ed25519SeedSalt, I)
	}
	key := make([]byte, 64)
	copy(key, I)
	tweakKL(key)
	chainCode := crypto_util.HmacSHA256(ed25519SeedSalt, append([]byte{0x01}, seed...))
	return key, chainCode, nil
}

// byronMasterKey data = CBOR(seed)，I = HMAC-SHA512(data, "Root Seed Chain n")
func byronMasterKey(seed []byte) ([]byte, []byte, error) {
	data, err := cbor.Marshal(seed)
	if err != nil {
		return nil, nil, fmt.Errorf("cbor encode seed: %w", err)
	}
	for n := 1; ; n++ {
		I := crypto_util.HmacSHA512(data, []byte(fmt.Sprintf("Root Seed Chain %d", n)))
		key := crypto_util.SHA512(I[:32])
		tweakKL(key)
		if key[31]&0x20 == 0 {
			return key, I[32:], nil
		}
		data = I
	}
}

// tweakKL 清除 kL 低 3 位和最高位，并置位 0x40
func tweakKL(key []byte) {
	key[0] &= 0xF8
	key[31] &= 0x7F
	key[31] |= 0x40
}
