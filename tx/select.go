package tx

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/trinityneo/libtrinity-go/fixed8"
)

// Selection is the result of covering a required amount for one asset.
type Selection struct {
	Inputs []UnspentOutput
	Change fixed8.Fixed8
}

// Total returns the value of all selected inputs.
func (s *Selection) Total() fixed8.Fixed8 {
	var sum fixed8.Fixed8
	for _, in := range s.Inputs {
		sum += in.Value
	}
	return sum
}

// Select picks unspent outputs smallest-first until their sum reaches
// required. Outputs of equal value keep their original order. The caller's
// slice is not modified.
//
// If the sum of all unspent outputs is below required, Select returns an
// *InsufficientFundsError and no inputs.
func Select(asset AssetID, unspent []UnspentOutput, required fixed8.Fixed8) (*Selection, error) {
	if required < 0 {
		return nil, fmt.Errorf("%w: negative required amount %s", ErrInvalidParams, required)
	}

	var available fixed8.Fixed8
	for _, u := range unspent {
		available += u.Value
	}
	if available < required {
		return nil, &InsufficientFundsError{Asset: asset, Required: required, Available: available}
	}

	sorted := slices.Clone(unspent)
	slices.SortStableFunc(sorted, func(a, b UnspentOutput) int {
		return cmp.Compare(a.Value, b.Value)
	})

	sel := &Selection{}
	var sum fixed8.Fixed8
	for _, u := range sorted {
		if sum >= required {
			break
		}
		sel.Inputs = append(sel.Inputs, u)
		sum += u.Value
	}
	sel.Change = sum - required
	return sel, nil
}
