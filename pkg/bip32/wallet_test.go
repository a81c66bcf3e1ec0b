package bip32

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdwallet-core/pkg/derivation"
	"hdwallet-core/pkg/ecc"
	"hdwallet-core/pkg/errno"
)

const (
	hardened  = derivation.HardenedOffset
	tv1Seed   = "000102030405060708090a0b0c0d0e0f"
	byronSeed = "dd585f208c3adf2726d6437bf5278d05"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func newWallet(t *testing.T, family ecc.Family, seed string, opts ...Option) *Wallet {
	t.Helper()
	w, err := New(family, opts...)
	require.NoError(t, err)
	require.NoError(t, w.FromSeed(mustHex(t, seed)))
	return w
}

// BIP-32 Test Vector 1
func TestBIP32Vector1(t *testing.T) {
	tests := []struct {
		path string
		xpub string
		xprv string
	}{
		{"m",
			"xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8",
			"xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi"},
		{"m/0'",
			"xpub68Gmy5EdvgibQVfPdqkBBCHxA5htiqg55crXYuXoQRKfDBFA1WEjWgP6LHhwBZeNK1VTsfTFUHCdrfp1bgwQ9xv5ski8PX9rL2dZXvgGDnw",
			"xprv9uHRZZhk6KAJC1avXpDAp4MDc3sQKNxDiPvvkX8Br5ngLNv1TxvUxt4cV1rGL5hj6KCesnDYUhd7oWgT11eZG7XnxHrnYeSvkzY7d2bhkJ7"},
		{"m/0'/1",
			"xpub6ASuArnXKPbfEwhqN6e3mwBcDTgzisQN1wXN9BJcM47sSikHjJf3UFHKkNAWbWMiGj7Wf5uMash7SyYq527Hqck2AxYysAA7xmALppuCkwQ",
			"xprv9wTYmMFdV23N2TdNG573QoEsfRrWKQgWeibmLntzniatZvR9BmLnvSxqu53Kw1UmYPxLgboyZQaXwTCg8MSY3H2EU4pWcQDnRnrVA1xe8fs"},
		{"m/0'/1/2'",
			"xpub6D4BDPcP2GT577Vvch3R8wDkScZWzQzMMUm3PWbmWvVJrZwQY4VUNgqFJPMM3No2dFDFGTsxxpG5uJh7n7epu4trkrX7x7DogT5Uv6fcLW5",
			"xprv9z4pot5VBttmtdRTWfWQmoH1taj2axGVzFqSb8C9xaxKymcFzXBDptWmT7FwuEzG3ryjH4ktypQSAewRiNMjANTtpgP4mLTj34bhnZX7UiM"},
		{"m/0'/1/2'/2",
			"xpub6FHa3pjLCk84BayeJxFW2SP4XRrFd1JYnxeLeU8EqN3vDfZmbqBqaGJAyiLjTAwm6ZLRQUMv1ZACTj37sR62cfN7fe5JnJ7dh8zL4fiyLHV",
			"xprvA2JDeKCSNNZky6uBCviVfJSKyQ1mDYahRjijr5idH2WwLsEd4Hsb2Tyh8RfQMuPh7f7RtyzTtdrbdqqsunu5Mm3wDvUAKRHSC34sJ7in334"},
		{"m/0'/1/2'/2/1000000000",
			"xpub6H1LXWLaKsWFhvm6RVpEL9P4KfRZSW7abD2ttkWP3SSQvnyA8FSVqNTEcYFgJS2UaFcxupHiYkro49S8yGasTvXEYBVPamhGW6cFJodrTHy",
			"xprvA41z7zogVVwxVSgdKUHDy1SKmdb533PjDz7J6N6mV6uS3ze1ai8FHa8kmHScGpWmj4WggLyQjgPie1rFSruoUihUZREPSL39UNdE3BBDu76"},
	}

	w := newWallet(t, ecc.Secp256k1, tv1Seed)
	for i, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if err := w.DerivePath(tt.path); err != nil {
				t.Fatalf("派生路径 %s 失败: %v", tt.path, err)
			}
			assert.Equal(t, uint8(i), w.Depth())
			assert.Equal(t, tt.path, w.Path())

			xprv, err := w.XPrivateKey()
			require.NoError(t, err)
			assert.Equal(t, tt.xprv, xprv)
			xpub, err := w.XPublicKey()
			require.NoError(t, err)
			assert.Equal(t, tt.xpub, xpub)
		})
	}

	require.NoError(t, w.CleanDerivation())
	assert.Equal(t, "3442193e", w.Fingerprint())
	require.NoError(t, w.DerivePath("m/0'/1"))
	assert.Equal(t, "3c6cb8d0f6a264c91ea8b5030fadaa8e538b020f0a387421a12de9319dc93368", w.PrivateKey())
	assert.Equal(t, "03501e454bf00751f24b1b489aa925215d66af2234e3891c3b21a52bedb3cd711c", w.PublicKey())
	assert.Equal(t, []uint32{hardened, 1}, w.Indexes())
	assert.Equal(t, uint32(1), w.Index())
}

type nodeVector struct {
	path      string
	priv      string
	chainCode string
	pub       string
}

func checkVectors(t *testing.T, w *Wallet, vectors []nodeVector) {
	t.Helper()
	for _, v := range vectors {
		if err := w.DerivePath(v.path); err != nil {
			t.Fatalf("%s 派生 %s 失败: %v", w.Family(), v.path, err)
		}
		assert.Equal(t, v.priv, w.PrivateKey(), "%s private key", v.path)
		assert.Equal(t, v.chainCode, w.ChainCode(), "%s chain code", v.path)
		assert.Equal(t, v.pub, w.PublicKey(), "%s public key", v.path)
	}
}

// SLIP-10 Test Vector 1 (nist256p1)
func TestNist256p1Vector1(t *testing.T) {
	w := newWallet(t, ecc.Nist256p1, tv1Seed)
	checkVectors(t, w, []nodeVector{
		{"m",
			"612091aaa12e22dd2abef664f8a01a82cae99ad7441b7ef8110424915c268bc2",
			"beeb672fe4621673f722f38529c07392fecaa61015c80c34f29ce8b41b3cb6ea",
			"0266874dc6ade47b3ecd096745ca09bcd29638dd52c2c12117b11ed3e458cfa9e8"},
		{"m/0'",
			"6939694369114c67917a182c59ddb8cafc3004e63ca5d3b84403ba8613debc0c",
			"3460cea53e6a6bb5fb391eeef3237ffd8724bf0a40e94943c98b83825342ee11",
			"0384610f5ecffe8fda089363a41f56a5c7ffc1d81b59a612d0d649b2d22355590c"},
		{"m/0'/1",
			"284e9d38d07d21e4e281b645089a94f4cf5a5a81369acf151a1c3a57f18b2129",
			"4187afff1aafa8445010097fb99d23aee9f599450c7bd140b6826ac22ba21d0c",
			"03526c63f8d0b4bbbf9c80df553fe66742df4676b241dabefdef67733e070f6844"},
	})
}

// SLIP-10 Test Vector 1 (ed25519)，m/0'/1 使用普通索引
func TestEd25519Vector1(t *testing.T) {
	w := newWallet(t, ecc.Ed25519, tv1Seed)
	checkVectors(t, w, []nodeVector{
		{"m",
			"2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7",
			"90046a93de5380a72b5e45010748567d5ea02bbf6522f979e05c0d8d8ca9fffb",
			"00a4b2856bfec510abab89753fac1ac0e1112364e7d250545963f135f2a33188ed"},
		{"m/0'",
			"68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3",
			"8b59aa11380b624e81507a27fedda59fea6d0b779a778918a2fd3590e16e9c69",
			"008c8a13df77a28f3445213a0f432fde644acaa215fc72dcdf300d5efaa85d350c"},
		{"m/0'/1",
			"011dfc1ae91f2aaf332ea2de194c9f0698adaaf8d7c1d59a13b8749bfc48aed3",
			"312083b8e48056301d6e493bfc4ed64ff7844c30642f85c17d128dd33104620c",
			"00894135d1b97db8c276c4099b70b7d6b9c7542615901efc59cbf01995c0e57e8e"},
	})

	require.NoError(t, w.DerivePath("m/0'"))
	assert.Equal(t, "ddebc675", w.ParentFingerprint())
}

func TestEd25519Blake2b(t *testing.T) {
	w := newWallet(t, ecc.Ed25519Blake2b, tv1Seed)
	assert.Equal(t, "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7", w.PrivateKey())
	assert.Equal(t, "00835e3307bf32df124bc0bd3e3d5eb4a751ceeebe06b69fbce54fef97bc37c062", w.PublicKey())

	require.NoError(t, w.DerivePath("m/0'"))
	assert.Equal(t, "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3", w.PrivateKey())
	assert.Equal(t, "00df1f51aae49a3c17d07f603ded31c409e4c81fa8b32425a7e0de4143d3cfbeac", w.PublicKey())
}

func TestKholawIcarus(t *testing.T) {
	w := newWallet(t, ecc.KholawEd25519, tv1Seed)
	assert.Equal(t, SchemeKholaw, w.Scheme())
	assert.Equal(t, "c06a3f6b48d90f0517dbf244da40cc25feaebc91bee5b92e2d9301db51520f45b3469692e2bc05cf27f7e4b749581b3719a37dc3045d69da8c0d826c88b80f57", w.RootPrivateKey())
	assert.Equal(t, "45a302ecb459a48b23bdf5ca1f7c5ff6a46c4fe17c30751fa49f08f4fd564a7a", w.RootChainCode())
	assert.Equal(t, "0026a0a7144417696537eafe6e942715a6a06e4257531023dba17b33f5a283f5cd", w.RootPublicKey())

	cip := derivation.NewCIP1852(0, derivation.Single(0), derivation.RoleExternal, derivation.Single(0))
	require.NoError(t, w.UpdateDerivation(cip))
	assert.Equal(t, "m/1852'/1815'/0'/0/0", w.Path())
	assert.Equal(t, "40365d28ab8cc68c95abc8128467bcc9ec82f271fc192834c1a1beaf64520f45397552b74c3841e72fbb39775571f27f01ae15b37913b2ab0335d4d0469beb25", w.PrivateKey())
	assert.Equal(t, "0e252f76c79d94423b3612af584f60b5c57cbe67be2338724d764bfd44b7837b", w.ChainCode())
	assert.Equal(t, "00c2f350a90119b89382e6313f1b57ee38ac3689ab5b0360dd49d079abc1627d28", w.PublicKey())

	// 账户扩展公钥只读派生 0/0
	require.NoError(t, w.DerivePath("m/1852'/1815'/0'"))
	assert.Equal(t, "004c32058b53e4df920ac3b50f0859d7d8a4f5c92e92c65d1075f1d8a9a0e07b25", w.PublicKey())
	assert.Equal(t, "91db495d11691045874102cbf1bb9f6c9c868ebfa5ce6d3056d976175b0064d4", w.ChainCode())
	xpub, err := w.XPublicKey()
	require.NoError(t, err)

	watch, err := New(ecc.KholawEd25519)
	require.NoError(t, err)
	require.NoError(t, watch.FromXPublicKey(xpub, false))
	require.NoError(t, watch.DerivePath("m/0/0"))
	assert.True(t, watch.IsWatchOnly())
	assert.Equal(t, "00c2f350a90119b89382e6313f1b57ee38ac3689ab5b0360dd49d079abc1627d28", watch.PublicKey())
	assert.Equal(t, "0e252f76c79d94423b3612af584f60b5c57cbe67be2338724d764bfd44b7837b", watch.ChainCode())
	assert.Equal(t, uint8(5), watch.Depth())
}

func TestKholawLedgerDiffersFromIcarus(t *testing.T) {
	ledger := newWallet(t, ecc.KholawEd25519, tv1Seed, WithCardanoType(CardanoLedger))
	assert.Equal(t, "587049cb3630fb0f04b98d9e8b24a10a75e2b028d556c13877cecb6ab12e725f831a58390f707d4f623b7e2916239bfd821758e53d3e81aeac9e967714064c55", ledger.RootPrivateKey())
	assert.Equal(t, "4b11419b53d0c31c6a2048b1e92c3152f7bc1dce6469cf88787e92bc7ddd4a23", ledger.RootChainCode())
	assert.Equal(t, "00adfd5a2197b97cf659ad4cbffc60c5e37ffca638b20c5d94d6ae4f47ff065487", ledger.RootPublicKey())

	icarus := newWallet(t, ecc.KholawEd25519, tv1Seed, WithCardanoType(CardanoIcarus))
	assert.NotEqual(t, icarus.RootPrivateKey(), ledger.RootPrivateKey())
	assert.NotEqual(t, icarus.RootChainCode(), ledger.RootChainCode())

	// passphrase 改变 Icarus 主密钥
	withPass := newWallet(t, ecc.KholawEd25519, tv1Seed, WithPassphrase("secret"))
	assert.NotEqual(t, icarus.RootPrivateKey(), withPass.RootPrivateKey())
}

func TestByronLegacy(t *testing.T) {
	w := newWallet(t, ecc.KholawEd25519, byronSeed, WithCardanoType(CardanoByronLegacy))
	assert.Equal(t, SchemeByronLegacy, w.Scheme())
	checkVectors(t, w, []nodeVector{
		{"m",
			"083a73ac39c9c04cf01ad4cd94868ad749e56b8fe6b3c12c0fcfe61587bf3a457d7cc8e0a8ccb0e0c116e8702b6cba0c5b8550ba2577b045adc2eb64b763aeed",
			"11314314d9d48a42592e5309a96cb0de962bad78b31cc350f1f653a20c859ee8",
			"0054575fd4b92f03bc86d19c77cbaff1090b4af4332980efe2c5e8a2ec66185814"},
		{"m/0'/0'",
			"e87293f47159d064c85a445d5cee8ab7817543f7460b616cfff7b6d52f87ea655e4026ec651baba6cca289550cb6af24330175da6d55faad073a8ffc3423d88a",
			"d24869e7fde71f78bd5f8a678c6b580b29d142afa3e439cbc3d6a1b61f7ea88b",
			"001454d0d0010d3eb32f1fa399dbf4c3c60a632eb1e4349f840dc0d1adec98f3ce"},
		{"m/0",
			"50820b1cf1a1180c889254ed7c6eeae789ad53cf2e3b3974df17060ddf3fea458a8c4e9e048f331d52be7b6396ec7a07693725242822c120c2bdc0ccd5b87cf5",
			"fd2fdade8e4c27bac6281bffdfde79976b782e0a3769249ac03d43c5a609dd0d",
			"006261f10df1a4c478e1aded8e65f80e65beb33d306f074cd5067793c12ecd17d3"},
	})

	// byronSeed 第一轮 kL 的 0x20 位未清零，根密钥来自第二轮 (data = I)；
	// tv1Seed 第一轮即有效，与重试规则无关
	single := newWallet(t, ecc.KholawEd25519, tv1Seed, WithCardanoType(CardanoByronLegacy))
	checkVectors(t, single, []nodeVector{
		{"m",
			"00e179f31859227e0a60e5e6125e9fc8f3e55b1f40b172202eca74cf0c83645fd5bf00b64618068400c5aa1c3df6f0f0369b8fc7b0438d220c3e3629d3a7afbe",
			"00dfee06c6a284988ccaf073a1fd84e72926133364e2144b295c0d8b4e7dd816",
			"0086c847ed2132e7ba9514abd39ee18e7f59b403508ef3d8b7d65b5276e87c7b21"},
	})

	// 无进位私钥运算没有对应的公钥运算
	xpub, err := w.RootXPublicKey()
	require.NoError(t, err)
	watch, err := New(ecc.KholawEd25519, WithCardanoType(CardanoByronLegacy))
	require.NoError(t, err)
	require.NoError(t, watch.FromXPublicKey(xpub, true))
	assert.True(t, errors.Is(watch.DeriveIndex(0), errno.ErrUnsupportedOperation))
}

func TestNoCarryArithmetic(t *testing.T) {
	a := []byte{0xff, 0x01, 0x80}
	b := []byte{0x02, 0xff, 0x80}
	assert.Equal(t, []byte{0x01, 0x00, 0x00}, addNoCarry(a, b))
	assert.Equal(t, []byte{0xf8, 0x08, 0x00}, mul8NoCarry(a))
}

// 普通索引下私钥派生与公钥派生一致
func TestAdditiveConsistency(t *testing.T) {
	for _, family := range []ecc.Family{ecc.Secp256k1, ecc.Nist256p1, ecc.KholawEd25519} {
		t.Run(family.String(), func(t *testing.T) {
			w := newWallet(t, family, tv1Seed)
			require.NoError(t, w.DerivePath("m/0'"))
			xpub, err := w.XPublicKey()
			require.NoError(t, err)

			watch, err := New(family)
			require.NoError(t, err)
			require.NoError(t, watch.FromXPublicKey(xpub, false))

			for _, index := range []uint32{0, 1, 7, 100} {
				require.NoError(t, w.DerivePath("m/0'"))
				require.NoError(t, w.DeriveIndex(index))
				require.NoError(t, watch.CleanDerivation())
				require.NoError(t, watch.DeriveIndex(index))

				assert.Equal(t, w.PublicKey(), watch.PublicKey())
				assert.Equal(t, w.ChainCode(), watch.ChainCode())
				assert.Equal(t, w.ParentFingerprint(), watch.ParentFingerprint())
				assert.Equal(t, "", watch.PrivateKey())
			}
		})
	}
}

func TestHardenedRequiresPrivateKey(t *testing.T) {
	cases := []struct {
		family ecc.Family
		opts   []Option
	}{
		{ecc.Secp256k1, nil},
		{ecc.Nist256p1, nil},
		{ecc.Ed25519, nil},
		{ecc.Ed25519Blake2b, nil},
		{ecc.KholawEd25519, nil},
		{ecc.KholawEd25519, []Option{WithCardanoType(CardanoByronLegacy)}},
	}

	for _, c := range cases {
		w := newWallet(t, c.family, byronSeed, c.opts...)
		xpub, err := w.RootXPublicKey()
		require.NoError(t, err)

		watch, err := New(c.family, c.opts...)
		require.NoError(t, err)
		require.NoError(t, watch.FromXPublicKey(xpub, true))
		err = watch.DeriveIndex(hardened)
		assert.True(t, errors.Is(err, errno.ErrHardenedRequiresPrivateKey), "%s: %v", c.family, err)
		assert.Equal(t, uint8(0), watch.Depth())
	}
}

func TestEd25519PublicDerivationUnsupported(t *testing.T) {
	w := newWallet(t, ecc.Ed25519, tv1Seed)
	xpub, err := w.XPublicKey()
	require.NoError(t, err)

	watch, err := New(ecc.Ed25519)
	require.NoError(t, err)
	require.NoError(t, watch.FromXPublicKey(xpub, true))
	assert.True(t, errors.Is(watch.DeriveIndex(0), errno.ErrUnsupportedOperation))
}

func TestFingerprintLinkage(t *testing.T) {
	w := newWallet(t, ecc.Secp256k1, tv1Seed)
	path := []uint32{44 + hardened, hardened, hardened, 0, 5}
	for depth, index := range path {
		parentFP := w.Fingerprint()
		require.NoError(t, w.DeriveIndex(index))
		assert.Equal(t, parentFP, w.ParentFingerprint())
		assert.Equal(t, uint8(depth+1), w.Depth())
	}
	assert.Equal(t, "m/44'/0'/0'/0/5", w.Path())
}

func TestDeterministicRoot(t *testing.T) {
	for _, family := range []ecc.Family{ecc.Secp256k1, ecc.Nist256p1, ecc.Ed25519, ecc.KholawEd25519} {
		a := newWallet(t, family, byronSeed)
		b := newWallet(t, family, byronSeed)
		assert.True(t, a.Root().Equal(b.Root()), family.String())
	}
}

func TestExtendedKeyRoundTrip(t *testing.T) {
	for _, family := range []ecc.Family{ecc.Secp256k1, ecc.Nist256p1, ecc.Ed25519, ecc.Ed25519Blake2b, ecc.KholawEd25519} {
		t.Run(family.String(), func(t *testing.T) {
			w := newWallet(t, family, tv1Seed)
			require.NoError(t, w.DerivePath("m/44'/1'/2'"))
			xprv, err := w.XPrivateKey()
			require.NoError(t, err)

			imported, err := New(family)
			require.NoError(t, err)
			require.NoError(t, imported.FromXPrivateKey(xprv, false))
			assert.True(t, w.Current().Equal(imported.Current()))

			again, err := imported.XPrivateKey()
			require.NoError(t, err)
			assert.Equal(t, xprv, again)

			d, err := DecodeExtendedKey(xprv)
			require.NoError(t, err)
			if family == ecc.KholawEd25519 {
				assert.Len(t, d.Serialize(), KholawExtendedKeyLen)
			} else {
				assert.Len(t, d.Serialize(), ExtendedKeyLen)
			}
		})
	}
}

func TestExtendedKeyErrors(t *testing.T) {
	w := newWallet(t, ecc.Secp256k1, tv1Seed)
	require.NoError(t, w.DerivePath("m/0'"))
	xprv, err := w.XPrivateKey()
	require.NoError(t, err)
	xpub, err := w.XPublicKey()
	require.NoError(t, err)

	tests := []struct {
		name    string
		fn      func(*Wallet) error
		wantErr error
	}{
		{"strict non root", func(w *Wallet) error { return w.FromXPrivateKey(xprv, true) }, errno.ErrStrictRoot},
		{"xpub as xprv", func(w *Wallet) error { return w.FromXPrivateKey(xpub, false) }, errno.ErrVersionMismatch},
		{"xprv as xpub", func(w *Wallet) error { return w.FromXPublicKey(xprv, false) }, errno.ErrVersionMismatch},
		{"bad checksum", func(w *Wallet) error { return w.FromXPrivateKey(xprv[:len(xprv)-1]+"x", false) }, errno.ErrInvalidExtendedKey},
		{"garbage", func(w *Wallet) error { return w.FromXPublicKey("not-a-key", false) }, errno.ErrInvalidExtendedKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fresh, err := New(ecc.Secp256k1)
			require.NoError(t, err)
			err = tt.fn(fresh)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Nil(t, fresh.Root())
		})
	}

	// Kholaw 私钥不能使用 78 字节布局
	kholaw, err := New(ecc.KholawEd25519)
	require.NoError(t, err)
	err = kholaw.FromXPrivateKey(xprv, false)
	assert.True(t, errors.Is(err, errno.ErrInvalidExtendedKey), "got %v", err)
}

func TestCustomVersions(t *testing.T) {
	versions := Versions{Private: [4]byte{0x04, 0x35, 0x83, 0x94}, Public: [4]byte{0x04, 0x35, 0x87, 0xcf}}
	w := newWallet(t, ecc.Secp256k1, tv1Seed, WithVersions(versions))
	xprv, err := w.XPrivateKey()
	require.NoError(t, err)
	assert.Equal(t, "tprv", xprv[:4])
	xpub, err := w.XPublicKey()
	require.NoError(t, err)
	assert.Equal(t, "tpub", xpub[:4])
}

func TestMaxDepth(t *testing.T) {
	w := newWallet(t, ecc.Secp256k1, tv1Seed)
	xprv, err := w.XPrivateKey()
	require.NoError(t, err)
	d, err := DecodeExtendedKey(xprv)
	require.NoError(t, err)
	d.Depth = 255

	deep, err := New(ecc.Secp256k1)
	require.NoError(t, err)
	require.NoError(t, deep.FromXPrivateKey(EncodeExtendedKey(d), false))
	assert.True(t, errors.Is(deep.DeriveIndex(0), errno.ErrMaxDepthExceeded))
	assert.Equal(t, uint8(255), deep.Depth())
}

func TestRootLifecycle(t *testing.T) {
	w, err := New(ecc.Secp256k1)
	require.NoError(t, err)
	assert.True(t, errors.Is(w.DeriveIndex(0), errno.ErrRootNotSet))
	assert.True(t, errors.Is(w.CleanDerivation(), errno.ErrRootNotSet))
	_, err = w.Fork()
	assert.True(t, errors.Is(err, errno.ErrRootNotSet))

	err = w.FromSeed(make([]byte, 15))
	assert.True(t, errors.Is(err, errno.ErrInvalidSeedLength))

	require.NoError(t, w.FromSeed(mustHex(t, tv1Seed)))
	assert.True(t, errors.Is(w.FromSeed(mustHex(t, tv1Seed)), errno.ErrRootAlreadySet))
	assert.True(t, errors.Is(w.FromPrivateKey(make([]byte, 32)), errno.ErrRootAlreadySet))

	_, err = New(ecc.Ed25519Monero)
	assert.True(t, errors.Is(err, errno.ErrUnsupportedOperation))
}

func TestUpdateDerivationIsAtomic(t *testing.T) {
	w := newWallet(t, ecc.Secp256k1, tv1Seed)
	require.NoError(t, w.DerivePath("m/0'/1"))
	before := w.Current().Clone()

	// 同一路径中带区间无法解析
	ranged, err := derivation.NewCustom("m/0'/0-3")
	require.NoError(t, err)
	assert.True(t, errors.Is(w.UpdateDerivation(ranged), errno.ErrRangeNotResolved))
	assert.True(t, before.Equal(w.Current()))

	// 只读实例在强化索引处失败，当前节点不变
	xpub, err := w.RootXPublicKey()
	require.NoError(t, err)
	watch, err := New(ecc.Secp256k1)
	require.NoError(t, err)
	require.NoError(t, watch.FromXPublicKey(xpub, true))
	require.NoError(t, watch.DerivePath("m/3"))
	err = watch.DerivePath("m/1/2/3'")
	assert.True(t, errors.Is(err, errno.ErrHardenedRequiresPrivateKey))
	assert.Equal(t, "m/3", watch.Path())

	require.NoError(t, w.CleanDerivation())
	assert.Equal(t, "m", w.Path())
	assert.Equal(t, uint8(0), w.Depth())
	assert.True(t, w.Root().Equal(w.Current()))
}

func TestRawKeysHaveNoChainCode(t *testing.T) {
	w, err := New(ecc.Secp256k1)
	require.NoError(t, err)
	require.NoError(t, w.FromPrivateKey(mustHex(t, "e8f32e723decf4051aefac8e2c93c9c5b214313817cdb01a1494b917c8436b35")))
	assert.Equal(t, "0339a36013301597daef41fbe593a02cc513d0b55527ec2df1050e2e8ff49c85c2", w.PublicKey())
	assert.Equal(t, "", w.ChainCode())
	assert.True(t, errors.Is(w.DeriveIndex(0), errno.ErrMissingChainCode))
	_, err = w.XPrivateKey()
	assert.True(t, errors.Is(err, errno.ErrMissingChainCode))

	pub, err := New(ecc.Ed25519)
	require.NoError(t, err)
	require.NoError(t, pub.FromPublicKey(mustHex(t, "a4b2856bfec510abab89753fac1ac0e1112364e7d250545963f135f2a33188ed")))
	assert.True(t, pub.IsWatchOnly())
	assert.Equal(t, "00a4b2856bfec510abab89753fac1ac0e1112364e7d250545963f135f2a33188ed", pub.PublicKey())

	err = pub.FromPublicKey(make([]byte, 32))
	assert.True(t, errors.Is(err, errno.ErrRootAlreadySet))

	bad, err := New(ecc.Secp256k1)
	require.NoError(t, err)
	assert.True(t, errors.Is(bad.FromPrivateKey(make([]byte, 32)), errno.ErrInvalidScalar))
}

func TestFork(t *testing.T) {
	w := newWallet(t, ecc.Secp256k1, tv1Seed)
	require.NoError(t, w.DerivePath("m/0'"))

	fork, err := w.Fork()
	require.NoError(t, err)
	assert.Equal(t, "m", fork.Path())
	require.NoError(t, fork.DerivePath("m/0'/1"))

	// 原实例不受影响
	assert.Equal(t, "m/0'", w.Path())
	assert.Equal(t, "3c6cb8d0f6a264c91ea8b5030fadaa8e538b020f0a387421a12de9319dc93368", fork.PrivateKey())
}

func TestParseCardanoType(t *testing.T) {
	for _, c := range []CardanoType{CardanoIcarus, CardanoLedger, CardanoByronLegacy} {
		got, err := ParseCardanoType(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	got, err := ParseCardanoType("")
	require.NoError(t, err)
	assert.Equal(t, CardanoIcarus, got)
	_, err = ParseCardanoType("shelley")
	assert.Error(t, err)
}
