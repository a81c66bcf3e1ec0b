package service

// DumpRequest 一次 dump 请求。根来源字段只能设置一个。
type DumpRequest struct {
	Family      string `json:"family"`
	CardanoType string `json:"cardano_type"`
	// Passphrase Icarus 主密钥的 PBKDF2 密码，也作为 BIP-39 passphrase
	Passphrase string `json:"passphrase"`

	Seed        string `json:"seed"`
	Mnemonic    string `json:"mnemonic"`
	XPrivateKey string `json:"xprivate_key"`
	XPublicKey  string `json:"xpublic_key"`
	PrivateKey  string `json:"private_key"`
	PublicKey   string `json:"public_key"`
	// Strict 导入扩展密钥时要求是根节点
	Strict bool `json:"strict"`

	// Monero
	SpendPrivateKey string `json:"spend_private_key"`
	ViewPrivateKey  string `json:"view_private_key"`
	SpendPublicKey  string `json:"spend_public_key"`

	Derivation DerivationRequest `json:"derivation"`
	// Address 附加地址格式: "btc" / "eth"，只对 secp256k1 有效
	Address string `json:"address"`
}

// DerivationRequest 派生描述，区间写成 "0-4"
type DerivationRequest struct {
	// Type custom / bip44 / bip49 / bip84 / bip86 / cip1852 / electrum / monero
	Type     string `json:"type"`
	Path     string `json:"path"`
	CoinType uint32 `json:"coin_type"`
	Account  string `json:"account"`
	Change   string `json:"change"`
	Role     string `json:"role"`
	Address  string `json:"address"`
	Minor    string `json:"minor"`
	Major    string `json:"major"`
}

// DumpResult dump 结果
type DumpResult struct {
	Family      string     `json:"family"`
	Scheme      string     `json:"scheme"`
	CardanoType string     `json:"cardano_type,omitempty"`
	Derivation  string     `json:"derivation"`
	Root        RootInfo   `json:"root"`
	Nodes       []DumpNode `json:"nodes"`
}

type RootInfo struct {
	XPrivateKey string `json:"xprivate_key,omitempty"`
	XPublicKey  string `json:"xpublic_key,omitempty"`
	PrivateKey  string `json:"private_key,omitempty"`
	PublicKey   string `json:"public_key,omitempty"`
	ChainCode   string `json:"chain_code,omitempty"`
	// Electrum
	MasterPublicKey string `json:"master_public_key,omitempty"`
	// Monero
	SpendPrivateKey string `json:"spend_private_key,omitempty"`
	ViewPrivateKey  string `json:"view_private_key,omitempty"`
	SpendPublicKey  string `json:"spend_public_key,omitempty"`
	ViewPublicKey   string `json:"view_public_key,omitempty"`
	WatchOnly       bool   `json:"watch_only"`
}

// DumpNode 单个派生结果，不同方案只填各自的字段
type DumpNode struct {
	Path                  string `json:"path,omitempty"`
	Depth                 uint8  `json:"depth"`
	Index                 uint32 `json:"index"`
	XPrivateKey           string `json:"xprivate_key,omitempty"`
	XPublicKey            string `json:"xpublic_key,omitempty"`
	PrivateKey            string `json:"private_key,omitempty"`
	PublicKey             string `json:"public_key,omitempty"`
	UncompressedPublicKey string `json:"uncompressed_public_key,omitempty"`
	ChainCode             string `json:"chain_code,omitempty"`
	Fingerprint           string `json:"fingerprint,omitempty"`
	ParentFingerprint     string `json:"parent_fingerprint,omitempty"`
	Address               string `json:"address,omitempty"`

	// Electrum
	Change uint32 `json:"change,omitempty"`
	// Monero
	Minor          uint32 `json:"minor,omitempty"`
	Major          uint32 `json:"major,omitempty"`
	SpendPublicKey string `json:"spend_public_key,omitempty"`
	ViewPublicKey  string `json:"view_public_key,omitempty"`
}
