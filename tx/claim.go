package tx

import (
	"fmt"

	"github.com/trinityneo/libtrinity-go/fixed8"
	"github.com/trinityneo/libtrinity-go/wallet"
)

// Claim is a spent NEO output whose generated GAS has not been claimed yet.
type Claim struct {
	TxID  string
	Index uint16
	Value fixed8.Fixed8 // claimable GAS
}

// BuildClaim assembles an unsigned claim transaction that references every
// claim and pays their total GAS to sender.
func BuildClaim(sender wallet.ScriptHash, claims []Claim) (*UnsignedTransaction, error) {
	if len(claims) == 0 {
		return nil, ErrNothingToClaim
	}

	tx := &UnsignedTransaction{
		Type:       ClaimType,
		Version:    CurrentVersion,
		Attributes: []Attribute{},
	}
	var total fixed8.Fixed8
	for i, c := range claims {
		if c.Value < 0 {
			return nil, fmt.Errorf("%w: claim %d value %s", ErrInvalidParams, i, c.Value)
		}
		total += c.Value
		tx.Claims = append(tx.Claims, Input{PrevHash: c.TxID, PrevIndex: c.Index})
	}
	if total <= 0 {
		return nil, ErrNothingToClaim
	}

	tx.Outputs = []Output{{Asset: AssetGAS, Value: total, ScriptHash: sender}}
	return tx, nil
}
