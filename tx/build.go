package tx

import (
	"fmt"

	"github.com/trinityneo/libtrinity-go/fixed8"
	"github.com/trinityneo/libtrinity-go/wallet"
)

// Build assembles an unsigned contract transaction paying intents from the
// sender's balances. gasCost, when positive, is added to the GAS requirement.
//
// Each asset is selected independently. Inputs are deduplicated by outpoint
// and a change output back to sender is appended for every asset whose
// selection exceeds its requirement. Outputs are the intents followed by
// the change outputs.
func Build(sender wallet.ScriptHash, balances map[AssetID]AssetBalance, intents []Output, gasCost fixed8.Fixed8) (*UnsignedTransaction, error) {
	if len(intents) == 0 {
		return nil, fmt.Errorf("%w: no outputs requested", ErrInvalidParams)
	}
	if gasCost < 0 {
		return nil, fmt.Errorf("%w: negative gas cost %s", ErrInvalidParams, gasCost)
	}

	var order []AssetID
	required := make(map[AssetID]fixed8.Fixed8)
	for i, intent := range intents {
		if _, err := intent.Asset.Hash(); err != nil {
			return nil, fmt.Errorf("%w: output %d: %w", ErrInvalidIntent, i, err)
		}
		if intent.Value <= 0 {
			return nil, fmt.Errorf("%w: output %d value %s", ErrInvalidIntent, i, intent.Value)
		}
		if _, seen := required[intent.Asset]; !seen {
			order = append(order, intent.Asset)
		}
		required[intent.Asset] += intent.Value
	}
	if gasCost > 0 {
		if _, seen := required[AssetGAS]; !seen {
			order = append(order, AssetGAS)
		}
		required[AssetGAS] += gasCost
	}

	tx := &UnsignedTransaction{
		Type:       ContractType,
		Version:    CurrentVersion,
		Attributes: []Attribute{},
		Outputs:    append([]Output(nil), intents...),
	}

	seen := make(map[string]bool)
	var change []Output
	for _, asset := range order {
		sel, err := Select(asset, balances[asset].Unspent, required[asset])
		if err != nil {
			return nil, err
		}
		for _, in := range sel.Inputs {
			if seen[in.key()] {
				continue
			}
			seen[in.key()] = true
			tx.Inputs = append(tx.Inputs, Input{PrevHash: in.TxID, PrevIndex: in.Index})
		}
		if sel.Change > 0 {
			change = append(change, Output{Asset: asset, Value: sel.Change, ScriptHash: sender})
		}
	}
	tx.Outputs = append(tx.Outputs, change...)

	return tx, nil
}
