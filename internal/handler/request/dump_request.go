package request

// DumpRequest POST /api/v1/dump 的请求体。这里只做格式校验，根来源互斥等规则由 service 检查。
type DumpRequest struct {
	Family      string `json:"family"`
	CardanoType string `json:"cardano_type" binding:"omitempty,oneof=icarus ledger byron-legacy"`
	Passphrase  string `json:"passphrase"`

	Seed        string `json:"seed" binding:"omitempty,hexadecimal"`
	Mnemonic    string `json:"mnemonic"`
	XPrivateKey string `json:"xprivate_key"`
	XPublicKey  string `json:"xpublic_key"`
	PrivateKey  string `json:"private_key" binding:"omitempty,hexadecimal"`
	PublicKey   string `json:"public_key" binding:"omitempty,hexadecimal"`
	Strict      bool   `json:"strict"`

	SpendPrivateKey string `json:"spend_private_key" binding:"omitempty,hexadecimal"`
	ViewPrivateKey  string `json:"view_private_key" binding:"omitempty,hexadecimal"`
	SpendPublicKey  string `json:"spend_public_key" binding:"omitempty,hexadecimal"`

	Derivation DerivationRequest `json:"derivation"`
	Address    string            `json:"address" binding:"omitempty,oneof=btc eth"`
}

type DerivationRequest struct {
	Type     string `json:"type" binding:"omitempty,oneof=custom bip44 bip49 bip84 bip86 cip1852 electrum monero"`
	Path     string `json:"path"`
	CoinType uint32 `json:"coin_type"`
	Account  string `json:"account"`
	Change   string `json:"change"`
	Role     string `json:"role"`
	Address  string `json:"address"`
	Minor    string `json:"minor"`
	Major    string `json:"major"`
}
