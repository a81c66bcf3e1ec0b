package bip32

import (
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"hdwallet-core/pkg/crypto_util"
	"hdwallet-core/pkg/derivation"
	"hdwallet-core/pkg/ecc"
	"hdwallet-core/pkg/errno"
	"hdwallet-core/pkg/logger"
)

// Wallet 树形派生引擎。持有根节点快照和当前节点，不支持并发修改，
// 需要并行时用 Fork 创建独立实例。
type Wallet struct {
	family      ecc.Family
	curve       ecc.Curve
	scheme      Scheme
	cardanoType CardanoType
	passphrase  string
	versions    Versions

	root    *KeyNode
	current *KeyNode
}

// New 创建指定曲线族的引擎，ed25519-monero 请使用 monero 包
func New(family ecc.Family, opts ...Option) (*Wallet, error) {
	w := &Wallet{
		family:   family,
		versions: DefaultVersions(),
	}
	for _, opt := range opts {
		opt(w)
	}

	scheme, err := schemeOf(family, w.cardanoType)
	if err != nil {
		return nil, err
	}
	w.scheme = scheme
	w.curve = family.Curve()
	return w, nil
}

func (w *Wallet) Family() ecc.Family       { return w.family }
func (w *Wallet) Scheme() Scheme           { return w.scheme }
func (w *Wallet) CardanoType() CardanoType { return w.cardanoType }
func (w *Wallet) Versions() Versions       { return w.versions }
func (w *Wallet) Current() *KeyNode        { return w.current }
func (w *Wallet) Root() *KeyNode           { return w.root }

// setRoot 根节点只能设置一次
func (w *Wallet) setRoot(node *KeyNode, source string) error {
	if w.root != nil {
		return errno.ErrRootAlreadySet
	}
	w.root = node
	w.current = node.Clone()
	logger.Debug("HD 根节点已设置",
		zap.String("family", w.family.String()),
		zap.String("scheme", w.scheme.String()),
		zap.String("source", source),
		zap.Bool("watch_only", !node.IsPrivate()))
	return nil
}

// FromSeed 从种子构造根节点
func (w *Wallet) FromSeed(seed []byte) error {
	if w.root != nil {
		return errno.ErrRootAlreadySet
	}
	privBytes, chainCode, err := w.masterKey(seed)
	if err != nil {
		return err
	}
	priv, err := w.curve.PrivateKeyFromBytes(privBytes)
	if err != nil {
		return err
	}
	return w.setRoot(&KeyNode{
		PrivateKey: priv,
		PublicKey:  priv.PublicKey(),
		ChainCode:  append([]byte(nil), chainCode...),
	}, "seed")
}

// FromXPrivateKey 导入扩展私钥，strict 要求是根节点
func (w *Wallet) FromXPrivateKey(xprv string, strict bool) error {
	if w.root != nil {
		return errno.ErrRootAlreadySet
	}
	node, err := w.parse(xprv, true, strict)
	if err != nil {
		return err
	}
	return w.setRoot(node, "xprivate_key")
}

// FromXPublicKey 导入扩展公钥 (watch-only)
func (w *Wallet) FromXPublicKey(xpub string, strict bool) error {
	if w.root != nil {
		return errno.ErrRootAlreadySet
	}
	node, err := w.parse(xpub, false, strict)
	if err != nil {
		return err
	}
	return w.setRoot(node, "xpublic_key")
}

// FromPrivateKey 导入原始私钥，没有链码，只能读取不能派生
func (w *Wallet) FromPrivateKey(privBytes []byte) error {
	if w.root != nil {
		return errno.ErrRootAlreadySet
	}
	priv, err := w.curve.PrivateKeyFromBytes(privBytes)
	if err != nil {
		return err
	}
	return w.setRoot(&KeyNode{PrivateKey: priv, PublicKey: priv.PublicKey()}, "private_key")
}

// FromPublicKey 导入原始公钥
func (w *Wallet) FromPublicKey(pubBytes []byte) error {
	if w.root != nil {
		return errno.ErrRootAlreadySet
	}
	pub, err := w.curve.PublicKeyFromBytes(pubBytes)
	if err != nil {
		return err
	}
	return w.setRoot(&KeyNode{PublicKey: pub}, "public_key")
}

// FromNode 以已有节点作为根节点
func (w *Wallet) FromNode(node *KeyNode) error {
	if node == nil {
		return errno.ErrRootNotSet
	}
	if node.PublicKey.Curve().Family() != w.family {
		return fmt.Errorf("node of family %s: %w", node.PublicKey.Curve().Family(), errno.ErrInvalidKeyBytes)
	}
	return w.setRoot(node.Clone(), "node")
}

// Fork 复制配置和根节点，返回独立的引擎
func (w *Wallet) Fork() (*Wallet, error) {
	if w.root == nil {
		return nil, errno.ErrRootNotSet
	}
	fork := &Wallet{
		family:      w.family,
		curve:       w.curve,
		scheme:      w.scheme,
		cardanoType: w.cardanoType,
		passphrase:  w.passphrase,
		versions:    w.versions,
	}
	if err := fork.FromNode(w.root); err != nil {
		return nil, err
	}
	return fork, nil
}

// DeriveIndex 在当前节点上派生一个子节点
func (w *Wallet) DeriveIndex(index uint32) error {
	if w.current == nil {
		return errno.ErrRootNotSet
	}
	child, err := w.deriveChild(w.current, index)
	if err != nil {
		logger.Debug("HD 派生失败",
			zap.String("family", w.family.String()),
			zap.String("path", w.current.Path()),
			zap.Uint32("index", index),
			zap.Error(err))
		return err
	}
	w.current = child
	return nil
}

// UpdateDerivation 从根节点重放整个路径，失败时当前节点保持不变
func (w *Wallet) UpdateDerivation(tree derivation.Tree) error {
	if w.root == nil {
		return errno.ErrRootNotSet
	}
	indexes, err := derivation.Resolve(tree)
	if err != nil {
		return err
	}

	node := w.root.Clone()
	for _, idx := range indexes {
		node, err = w.deriveChild(node, idx.Raw())
		if err != nil {
			logger.Debug("HD 路径派生失败",
				zap.String("family", w.family.String()),
				zap.String("derivation", tree.Name()),
				zap.String("path", tree.Path()),
				zap.Error(err))
			return fmt.Errorf("%s: %w", tree.Path(), err)
		}
	}
	w.current = node
	return nil
}

// DerivePath 根据路径 (如 "m/44'/0'/0'/0/0") 从根节点派生
func (w *Wallet) DerivePath(path string) error {
	custom, err := derivation.NewCustom(path)
	if err != nil {
		return err
	}
	return w.UpdateDerivation(custom)
}

// CleanDerivation 回到根节点
func (w *Wallet) CleanDerivation() error {
	if w.root == nil {
		return errno.ErrRootNotSet
	}
	w.current = w.root.Clone()
	return nil
}

// ---------- 访问器 ----------

func hexOrEmpty(b []byte) string {
	if b == nil {
		return ""
	}
	return hex.EncodeToString(b)
}

func privateHex(n *KeyNode) string {
	if n == nil || !n.IsPrivate() {
		return ""
	}
	return hex.EncodeToString(n.PrivateKey.Raw())
}

func (w *Wallet) RootXPrivateKey() (string, error) { return w.serialize(w.root, true) }
func (w *Wallet) RootXPublicKey() (string, error)  { return w.serialize(w.root, false) }
func (w *Wallet) XPrivateKey() (string, error)     { return w.serialize(w.current, true) }
func (w *Wallet) XPublicKey() (string, error)      { return w.serialize(w.current, false) }

func (w *Wallet) RootPrivateKey() string { return privateHex(w.root) }

func (w *Wallet) RootChainCode() string {
	if w.root == nil {
		return ""
	}
	return hexOrEmpty(w.root.ChainCode)
}

func (w *Wallet) RootPublicKey() string {
	if w.root == nil {
		return ""
	}
	return hex.EncodeToString(w.root.PublicKey.RawCompressed())
}

func (w *Wallet) PrivateKey() string { return privateHex(w.current) }

// PublicKey 当前节点的压缩公钥
func (w *Wallet) PublicKey() string { return w.CompressedPublicKey() }

func (w *Wallet) CompressedPublicKey() string {
	if w.current == nil {
		return ""
	}
	return hex.EncodeToString(w.current.PublicKey.RawCompressed())
}

func (w *Wallet) UncompressedPublicKey() string {
	if w.current == nil {
		return ""
	}
	return hex.EncodeToString(w.current.PublicKey.RawUncompressed())
}

func (w *Wallet) ChainCode() string {
	if w.current == nil {
		return ""
	}
	return hexOrEmpty(w.current.ChainCode)
}

// Hash hash160(compressed pub)
func (w *Wallet) Hash() string {
	if w.current == nil {
		return ""
	}
	return hex.EncodeToString(crypto_util.Hash160(w.current.PublicKey.RawCompressed()))
}

func (w *Wallet) Fingerprint() string {
	if w.current == nil {
		return ""
	}
	fp := w.current.Fingerprint()
	return hex.EncodeToString(fp[:])
}

func (w *Wallet) ParentFingerprint() string {
	if w.current == nil {
		return ""
	}
	return hex.EncodeToString(w.current.ParentFingerprint[:])
}

func (w *Wallet) Depth() uint8 {
	if w.current == nil {
		return 0
	}
	return w.current.Depth
}

func (w *Wallet) Index() uint32 {
	if w.current == nil {
		return 0
	}
	return w.current.Index
}

func (w *Wallet) Path() string {
	if w.current == nil {
		return ""
	}
	return w.current.Path()
}

// Indexes 当前路径的原始索引 (带强化位)
func (w *Wallet) Indexes() []uint32 {
	if w.current == nil {
		return nil
	}
	out := make([]uint32, 0, len(w.current.Indexes))
	for _, idx := range w.current.Indexes {
		out = append(out, idx.Raw())
	}
	return out
}

func (w *Wallet) IsWatchOnly() bool {
	return w.current != nil && !w.current.IsPrivate()
}
