package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hdwallet-core/pkg/address"
	"hdwallet-core/pkg/bip32"
	"hdwallet-core/pkg/bip39"
	"hdwallet-core/pkg/config"
	"hdwallet-core/pkg/crypto_util"
	"hdwallet-core/pkg/derivation"
	"hdwallet-core/pkg/ecc"
	"hdwallet-core/pkg/electrum"
	"hdwallet-core/pkg/errno"
	"hdwallet-core/pkg/logger"
	"hdwallet-core/pkg/monero"
	"hdwallet-core/pkg/monitor"
)

const (
	defaultMaxRange = 1000
	defaultWorkers  = 4
)

// HDService 派生 dump 服务，无状态，可并发调用
type HDService struct {
	cfg      config.HDConfig
	mnemonic *bip39.MnemonicService
}

func NewHDService(cfg config.HDConfig) *HDService {
	if cfg.Family == "" {
		cfg.Family = ecc.Secp256k1.String()
	}
	return &HDService{cfg: cfg, mnemonic: bip39.NewMnemonicService()}
}

func (s *HDService) maxRange() uint64 {
	if s.cfg.MaxRange <= 0 {
		return defaultMaxRange
	}
	return uint64(s.cfg.MaxRange)
}

func (s *HDService) workers() int {
	if s.cfg.Workers <= 0 {
		return defaultWorkers
	}
	return s.cfg.Workers
}

// Dump 按请求选择引擎并展开派生描述
func (s *HDService) Dump(ctx context.Context, req *DumpRequest) (result *DumpResult, err error) {
	start := time.Now()

	familyName := req.Family
	if familyName == "" {
		familyName = s.cfg.Family
	}
	family, err := ecc.ParseFamily(familyName)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			code, _ := errno.Decode(err)
			monitor.ObserveError(family.String(), code)
			logger.Debug("dump 失败", zap.String("family", family.String()), zap.Int("code", code), zap.Error(err))
		}
	}()

	if err = checkSources(req); err != nil {
		return nil, err
	}

	derivationType := strings.ToLower(req.Derivation.Type)
	switch {
	case family == ecc.Ed25519Monero:
		if derivationType != "" && derivationType != "monero" {
			return nil, fmt.Errorf("%s with %q derivation: %w", family, req.Derivation.Type, errno.ErrInvalidDerivation)
		}
		result, err = s.dumpMonero(ctx, req)
	case derivationType == "electrum":
		if family != ecc.Secp256k1 {
			return nil, fmt.Errorf("electrum derivation needs secp256k1, got %s: %w", family, errno.ErrInvalidDerivation)
		}
		result, err = s.dumpElectrum(ctx, req)
	default:
		result, err = s.dumpTree(ctx, family, req)
	}
	if err != nil {
		return nil, err
	}

	monitor.ObserveDump(result.Family, result.Scheme, len(result.Nodes), time.Since(start).Seconds())
	logger.Info("dump 完成",
		zap.String("family", result.Family),
		zap.String("derivation", result.Derivation),
		zap.Int("nodes", len(result.Nodes)),
		zap.Duration("cost", time.Since(start)))
	return result, nil
}

// checkSources 根来源必须且只能有一个 (Monero 的 view key + spend pub 算一个)
func checkSources(req *DumpRequest) error {
	sources := []string{req.Seed, req.Mnemonic, req.XPrivateKey, req.XPublicKey, req.PrivateKey, req.PublicKey,
		req.SpendPrivateKey, req.ViewPrivateKey + req.SpendPublicKey}
	n := 0
	for _, src := range sources {
		if src != "" {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("need exactly one root source, got %d: %w", n, errno.ErrInvalidRequest)
	}
	return nil
}

func decodeHex(field, s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%s is not hex: %w", field, errno.ErrInvalidRequest)
	}
	return b, nil
}

// rangeOr 空串视为 0
func rangeOr(s string) (derivation.Range, error) {
	if strings.TrimSpace(s) == "" {
		return derivation.Single(0), nil
	}
	return derivation.ParseRange(s)
}

// fanOut 把 [0, n) 交错分给 workers 个协程。
// 每个协程先调用 newWorker 拿到自己的引擎副本，结果按下标写回，不需要加锁。
func fanOut(ctx context.Context, n, workers int, newWorker func() (func(i int) error, error)) error {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	for wid := 0; wid < workers; wid++ {
		g.Go(func() error {
			work, err := newWorker()
			if err != nil {
				return err
			}
			for i := wid; i < n; i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := work(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// ---------- 树形方案 ----------

func (s *HDService) versions() (bip32.Versions, error) {
	v := bip32.DefaultVersions()
	for _, item := range []struct {
		field string
		value string
		dst   *[4]byte
	}{
		{"xprivate_version", s.cfg.XPrivateVersion, &v.Private},
		{"xpublic_version", s.cfg.XPublicVersion, &v.Public},
	} {
		if item.value == "" {
			continue
		}
		b, err := decodeHex(item.field, item.value)
		if err != nil {
			return v, err
		}
		if len(b) != 4 {
			return v, fmt.Errorf("%s must be 4 bytes: %w", item.field, errno.ErrInvalidRequest)
		}
		copy(item.dst[:], b)
	}
	return v, nil
}

func (s *HDService) newTreeWallet(family ecc.Family, req *DumpRequest) (*bip32.Wallet, error) {
	versions, err := s.versions()
	if err != nil {
		return nil, err
	}
	opts := []bip32.Option{bip32.WithVersions(versions), bip32.WithPassphrase(req.Passphrase)}
	if family == ecc.KholawEd25519 {
		name := req.CardanoType
		if name == "" {
			name = s.cfg.CardanoType
		}
		cardanoType, err := bip32.ParseCardanoType(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, bip32.WithCardanoType(cardanoType))
	}
	return bip32.New(family, opts...)
}

// mnemonicSeed 不同方案对助记词的解释不同
func (s *HDService) mnemonicSeed(w *bip32.Wallet, mnemonic, passphrase string) ([]byte, error) {
	if !s.mnemonic.ValidateMnemonic(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic: %w", errno.ErrInvalidRequest)
	}

	switch {
	case w.Scheme() == bip32.SchemeKholaw && w.CardanoType() == bip32.CardanoIcarus:
		// Icarus: PBKDF2 的输入是熵
		return s.mnemonic.MnemonicToEntropy(mnemonic)
	case w.Scheme() == bip32.SchemeByronLegacy:
		// Byron: Blake2b-256(CBOR(entropy))
		entropy, err := s.mnemonic.MnemonicToEntropy(mnemonic)
		if err != nil {
			return nil, err
		}
		encoded, err := cbor.Marshal(entropy)
		if err != nil {
			return nil, err
		}
		return crypto_util.Blake2b256(encoded), nil
	}
	return s.mnemonic.MnemonicToSeed(mnemonic, passphrase), nil
}

func (s *HDService) setTreeRoot(w *bip32.Wallet, req *DumpRequest) error {
	switch {
	case req.Seed != "":
		seed, err := decodeHex("seed", req.Seed)
		if err != nil {
			return err
		}
		return w.FromSeed(seed)
	case req.Mnemonic != "":
		seed, err := s.mnemonicSeed(w, req.Mnemonic, req.Passphrase)
		if err != nil {
			return err
		}
		return w.FromSeed(seed)
	case req.XPrivateKey != "":
		return w.FromXPrivateKey(req.XPrivateKey, req.Strict)
	case req.XPublicKey != "":
		return w.FromXPublicKey(req.XPublicKey, req.Strict)
	case req.PrivateKey != "":
		priv, err := decodeHex("private_key", req.PrivateKey)
		if err != nil {
			return err
		}
		return w.FromPrivateKey(priv)
	case req.PublicKey != "":
		pub, err := decodeHex("public_key", req.PublicKey)
		if err != nil {
			return err
		}
		return w.FromPublicKey(pub)
	}
	return fmt.Errorf("%s root from monero keys: %w", w.Family(), errno.ErrInvalidRequest)
}

func buildTree(d DerivationRequest) (derivation.Tree, error) {
	kind := strings.ToLower(strings.TrimSpace(d.Type))
	switch kind {
	case "", "custom":
		path := d.Path
		if path == "" {
			path = "m"
		}
		return derivation.NewCustom(path)
	case "bip44", "bip49", "bip84", "bip86", "cip1852":
	default:
		return nil, fmt.Errorf("derivation %q: %w", d.Type, errno.ErrInvalidDerivation)
	}

	account, err := rangeOr(d.Account)
	if err != nil {
		return nil, err
	}
	addr, err := rangeOr(d.Address)
	if err != nil {
		return nil, err
	}

	if kind == "cip1852" {
		role := d.Role
		if role == "" {
			role = "0"
		}
		r, err := derivation.ParseRole(role)
		if err != nil {
			return nil, err
		}
		return derivation.NewCIP1852(d.CoinType, account, r, addr), nil
	}

	change, err := derivation.ParseChange(d.Change)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "bip49":
		return derivation.NewBIP49(d.CoinType, account, change, addr), nil
	case "bip84":
		return derivation.NewBIP84(d.CoinType, account, change, addr), nil
	case "bip86":
		return derivation.NewBIP86(d.CoinType, account, change, addr), nil
	}
	return derivation.NewBIP44(d.CoinType, account, change, addr), nil
}

func (s *HDService) addressGenerator(family ecc.Family, name string) (address.Generator, error) {
	if name == "" {
		return nil, nil
	}
	if family != ecc.Secp256k1 {
		return nil, fmt.Errorf("%s address for %s: %w", name, family, errno.ErrInvalidRequest)
	}
	return address.ForName(name)
}

func (s *HDService) dumpTree(ctx context.Context, family ecc.Family, req *DumpRequest) (*DumpResult, error) {
	// 1. 构造引擎和根节点
	w, err := s.newTreeWallet(family, req)
	if err != nil {
		return nil, err
	}
	if err := s.setTreeRoot(w, req); err != nil {
		return nil, err
	}
	gen, err := s.addressGenerator(family, req.Address)
	if err != nil {
		return nil, err
	}

	// 2. 展开派生描述
	tree, err := buildTree(req.Derivation)
	if err != nil {
		return nil, err
	}
	if count := derivation.Count(tree); count > s.maxRange() {
		return nil, fmt.Errorf("%s expands to %d nodes, limit %d: %w", tree.Path(), count, s.maxRange(), errno.ErrInvalidDerivation)
	}
	paths := derivation.Expand(tree)

	// 3. 每个协程 Fork 一份引擎并发派生
	nodes := make([]DumpNode, len(paths))
	err = fanOut(ctx, len(paths), s.workers(), func() (func(int) error, error) {
		fork, err := w.Fork()
		if err != nil {
			return nil, err
		}
		return func(i int) error {
			raws := make([]uint32, len(paths[i]))
			for j, idx := range paths[i] {
				raws[j] = idx.Raw()
			}
			if err := fork.UpdateDerivation(derivation.NewCustomFromIndexes(raws...)); err != nil {
				return err
			}
			node, err := treeNode(fork, gen)
			if err != nil {
				return err
			}
			nodes[i] = node
			return nil
		}, nil
	})
	if err != nil {
		return nil, err
	}

	result := &DumpResult{
		Family:     family.String(),
		Scheme:     w.Scheme().String(),
		Derivation: tree.Name(),
		Root: RootInfo{
			PrivateKey: w.RootPrivateKey(),
			PublicKey:  w.RootPublicKey(),
			ChainCode:  w.RootChainCode(),
			WatchOnly:  w.IsWatchOnly(),
		},
		Nodes: nodes,
	}
	if family == ecc.KholawEd25519 {
		result.CardanoType = w.CardanoType().String()
	}
	// 没有链码的根节点无法序列化，留空
	if xpub, err := w.RootXPublicKey(); err == nil {
		result.Root.XPublicKey = xpub
	}
	if !w.IsWatchOnly() {
		if xprv, err := w.RootXPrivateKey(); err == nil {
			result.Root.XPrivateKey = xprv
		}
	}
	return result, nil
}

func treeNode(w *bip32.Wallet, gen address.Generator) (DumpNode, error) {
	node := DumpNode{
		Path:              w.Path(),
		Depth:             w.Depth(),
		Index:             w.Index(),
		PrivateKey:        w.PrivateKey(),
		PublicKey:         w.PublicKey(),
		ChainCode:         w.ChainCode(),
		Fingerprint:       w.Fingerprint(),
		ParentFingerprint: w.ParentFingerprint(),
	}
	if !w.Family().IsEdwards() {
		node.UncompressedPublicKey = w.UncompressedPublicKey()
	}
	if xpub, err := w.XPublicKey(); err == nil {
		node.XPublicKey = xpub
	}
	if !w.IsWatchOnly() {
		if xprv, err := w.XPrivateKey(); err == nil {
			node.XPrivateKey = xprv
		}
	}
	if gen != nil {
		addr, err := gen.PubKeyToAddress(w.Current().PublicKey.RawCompressed())
		if err != nil {
			return node, err
		}
		node.Address = addr
	}
	return node, nil
}

// ---------- 平铺方案 ----------

func (s *HDService) dumpElectrum(ctx context.Context, req *DumpRequest) (*DumpResult, error) {
	w := electrum.New()
	var err error
	switch {
	case req.Seed != "":
		var seed []byte
		if seed, err = decodeHex("seed", req.Seed); err == nil {
			err = w.FromSeed(seed)
		}
	case req.PrivateKey != "":
		var priv []byte
		if priv, err = decodeHex("private_key", req.PrivateKey); err == nil {
			err = w.FromPrivateKey(priv)
		}
	case req.PublicKey != "":
		var pub []byte
		if pub, err = decodeHex("public_key", req.PublicKey); err == nil {
			err = w.FromPublicKey(pub)
		}
	case req.XPrivateKey != "":
		err = w.FromXPrivateKey(req.XPrivateKey, req.Strict)
	case req.XPublicKey != "":
		err = w.FromXPublicKey(req.XPublicKey, req.Strict)
	default:
		err = fmt.Errorf("electrum root needs a hex seed or key: %w", errno.ErrInvalidRequest)
	}
	if err != nil {
		return nil, err
	}
	gen, err := s.addressGenerator(ecc.Secp256k1, req.Address)
	if err != nil {
		return nil, err
	}

	change, err := derivation.ParseChange(req.Derivation.Change)
	if err != nil {
		return nil, err
	}
	addr, err := rangeOr(req.Derivation.Address)
	if err != nil {
		return nil, err
	}
	flat := derivation.NewElectrum(change, addr)
	if count := flat.Count(); count > s.maxRange() {
		return nil, fmt.Errorf("electrum expands to %d nodes, limit %d: %w", count, s.maxRange(), errno.ErrInvalidDerivation)
	}
	pairs := flat.Pairs()

	nodes := make([]DumpNode, len(pairs))
	err = fanOut(ctx, len(pairs), s.workers(), func() (func(int) error, error) {
		fork, err := w.Fork()
		if err != nil {
			return nil, err
		}
		return func(i int) error {
			p := pairs[i]
			if err := fork.UpdateDerivation(derivation.NewElectrum(derivation.Single(p.First), derivation.Single(p.Second))); err != nil {
				return err
			}
			node := DumpNode{
				Change:                fork.Change(),
				Index:                 fork.Address(),
				PrivateKey:            fork.PrivateKey(),
				PublicKey:             fork.CompressedPublicKey(),
				UncompressedPublicKey: fork.UncompressedPublicKey(),
			}
			if gen != nil {
				pub, err := hex.DecodeString(fork.UncompressedPublicKey())
				if err != nil {
					return err
				}
				// Electrum 地址基于非压缩公钥
				if node.Address, err = gen.PubKeyToAddress(pub); err != nil {
					return err
				}
			}
			nodes[i] = node
			return nil
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return &DumpResult{
		Family:     ecc.Secp256k1.String(),
		Scheme:     "electrum-v1",
		Derivation: "electrum",
		Root: RootInfo{
			PrivateKey:      w.MasterPrivateKey(),
			MasterPublicKey: w.MasterPublicKey(),
			WatchOnly:       w.IsWatchOnly(),
		},
		Nodes: nodes,
	}, nil
}

func (s *HDService) dumpMonero(ctx context.Context, req *DumpRequest) (*DumpResult, error) {
	if req.Address != "" {
		return nil, fmt.Errorf("%s address for monero: %w", req.Address, errno.ErrInvalidRequest)
	}

	w := monero.New()
	var err error
	switch {
	case req.Seed != "":
		var seed []byte
		if seed, err = decodeHex("seed", req.Seed); err == nil {
			err = w.FromSeed(seed)
		}
	case req.SpendPrivateKey != "":
		var spend []byte
		if spend, err = decodeHex("spend_private_key", req.SpendPrivateKey); err == nil {
			err = w.FromSpendPrivateKey(spend)
		}
	case req.ViewPrivateKey != "" && req.SpendPublicKey != "":
		var view, spendPub []byte
		if view, err = decodeHex("view_private_key", req.ViewPrivateKey); err != nil {
			return nil, err
		}
		if spendPub, err = decodeHex("spend_public_key", req.SpendPublicKey); err != nil {
			return nil, err
		}
		err = w.FromWatchOnly(view, spendPub)
	case req.XPrivateKey != "":
		err = w.FromXPrivateKey(req.XPrivateKey, req.Strict)
	case req.XPublicKey != "":
		err = w.FromXPublicKey(req.XPublicKey, req.Strict)
	default:
		err = fmt.Errorf("monero root needs a seed, spend key or view key + spend public key: %w", errno.ErrInvalidRequest)
	}
	if err != nil {
		return nil, err
	}

	minor, err := rangeOr(req.Derivation.Minor)
	if err != nil {
		return nil, err
	}
	major, err := rangeOr(req.Derivation.Major)
	if err != nil {
		return nil, err
	}
	flat := derivation.NewMonero(minor, major)
	if count := flat.Count(); count > s.maxRange() {
		return nil, fmt.Errorf("monero expands to %d nodes, limit %d: %w", count, s.maxRange(), errno.ErrInvalidDerivation)
	}
	pairs := flat.Pairs()

	nodes := make([]DumpNode, len(pairs))
	err = fanOut(ctx, len(pairs), s.workers(), func() (func(int) error, error) {
		fork, err := w.Fork()
		if err != nil {
			return nil, err
		}
		return func(i int) error {
			p := pairs[i]
			if err := fork.UpdateDerivation(derivation.NewMonero(derivation.Single(p.Second), derivation.Single(p.First))); err != nil {
				return err
			}
			nodes[i] = DumpNode{
				Minor:          fork.Minor(),
				Major:          fork.Major(),
				SpendPublicKey: fork.SubSpendPublicKey(),
				ViewPublicKey:  fork.SubViewPublicKey(),
			}
			return nil
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return &DumpResult{
		Family:     ecc.Ed25519Monero.String(),
		Scheme:     "monero-subaddress",
		Derivation: "monero",
		Root: RootInfo{
			SpendPrivateKey: w.SpendPrivateKey(),
			ViewPrivateKey:  w.ViewPrivateKey(),
			SpendPublicKey:  w.SpendPublicKey(),
			ViewPublicKey:   w.ViewPublicKey(),
			WatchOnly:       w.IsWatchOnly(),
		},
		Nodes: nodes,
	}, nil
}
