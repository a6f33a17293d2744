package tx

import (
	"fmt"
	"strings"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/trinityneo/libtrinity-go/fixed8"
	"github.com/trinityneo/libtrinity-go/wallet"
)

// AssetID identifies one of the two native assets.
type AssetID int

const (
	// AssetNEO is the primary, indivisible governing asset.
	AssetNEO AssetID = iota + 1
	// AssetGAS is the utility asset used for fees and claims.
	AssetGAS
)

var (
	assetNEOHash = mustHash("c56f33fc6ecfcd0c225c4ab356fee59390af8560be0e930faebe74a6daff7c9b")
	assetGASHash = mustHash("602c79718b16e442de58778e148d0b1084e3b2dffd5de6b7b16cee7969282de7")
)

// Assets lists the known assets in canonical order.
var Assets = []AssetID{AssetNEO, AssetGAS}

// Symbol returns the ticker used by the balance API.
func (a AssetID) Symbol() string {
	switch a {
	case AssetNEO:
		return "NEO"
	case AssetGAS:
		return "GAS"
	default:
		return fmt.Sprintf("asset(%d)", int(a))
	}
}

func (a AssetID) String() string { return a.Symbol() }

// Hash returns the on-chain asset id.
func (a AssetID) Hash() (chainhash.Hash, error) {
	switch a {
	case AssetNEO:
		return assetNEOHash, nil
	case AssetGAS:
		return assetGASHash, nil
	default:
		return chainhash.Hash{}, fmt.Errorf("%w: %d", ErrUnknownAsset, int(a))
	}
}

// ParseAsset resolves an asset symbol (case-insensitive).
func ParseAsset(symbol string) (AssetID, error) {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case "NEO":
		return AssetNEO, nil
	case "GAS":
		return AssetGAS, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAsset, symbol)
	}
}

// UnspentOutput is a spendable output owned by the sender.
type UnspentOutput struct {
	TxID  string        `json:"txid"` // display-order hex
	Index uint16        `json:"index"`
	Value fixed8.Fixed8 `json:"value"`
}

// key identifies the outpoint regardless of hex case.
func (u UnspentOutput) key() string {
	return fmt.Sprintf("%s:%d", strings.ToLower(u.TxID), u.Index)
}

// AssetBalance is a point-in-time snapshot of one asset held by an address.
type AssetBalance struct {
	Asset   AssetID
	Balance fixed8.Fixed8
	Unspent []UnspentOutput
}

// Input references a previous output being spent or claimed.
type Input struct {
	PrevHash  string // display-order hex
	PrevIndex uint16
}

// Output pays Value of Asset to ScriptHash. Requested outputs (intents) and
// change outputs share this shape.
type Output struct {
	Asset      AssetID
	Value      fixed8.Fixed8
	ScriptHash wallet.ScriptHash
}

// Attribute is a transaction attribute. Only variable-length usages are encoded.
type Attribute struct {
	Usage byte
	Data  []byte
}

// Witness carries the invocation (signature push) and verification scripts.
type Witness struct {
	Invocation   []byte
	Verification []byte
}

// TxType is the transaction type byte.
type TxType byte

const (
	// ClaimType spends claimable GAS references.
	ClaimType TxType = 0x02
	// ContractType transfers assets between script hashes.
	ContractType TxType = 0x80
)

// CurrentVersion is the transaction version written for both types.
const CurrentVersion byte = 0

// UnsignedTransaction is a transaction record before the witness is attached.
// Scripts is filled exactly once by AttachSignature.
type UnsignedTransaction struct {
	Type       TxType
	Version    byte
	Attributes []Attribute
	Inputs     []Input
	Claims     []Input
	Outputs    []Output
	Scripts    []Witness
}

func mustHash(s string) chainhash.Hash {
	h, err := chainhash.NewHashFromHex(s)
	if err != nil {
		panic(err)
	}
	return *h
}
