package tx

import (
	"errors"
	"fmt"

	"github.com/trinityneo/libtrinity-go/fixed8"
)

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrInsufficientFunds indicates the unspent outputs of an asset cannot cover the required amount.
	ErrInsufficientFunds = errors.New("tx: insufficient funds")

	// ErrInvalidParams indicates invalid parameters were provided.
	ErrInvalidParams = errors.New("tx: invalid parameters")

	// ErrInvalidIntent indicates a requested output has a non-positive value or unknown asset.
	ErrInvalidIntent = errors.New("tx: invalid intent")

	// ErrUnknownAsset indicates the asset symbol or id is not recognized.
	ErrUnknownAsset = errors.New("tx: unknown asset")

	// ErrNothingToClaim indicates there is no claimable GAS for the address.
	ErrNothingToClaim = errors.New("tx: nothing to claim")

	// ErrAlreadySigned indicates the transaction already carries a witness.
	ErrAlreadySigned = errors.New("tx: transaction already signed")

	// ErrInvalidHash indicates a transaction hash is not 32 bytes of hex.
	ErrInvalidHash = errors.New("tx: invalid transaction hash")

	// ErrInvalidSignature indicates the signature is not 64 bytes.
	ErrInvalidSignature = errors.New("tx: signature must be 64 bytes")

	// ErrScriptBuild indicates script construction failed.
	ErrScriptBuild = errors.New("tx: script build failed")
)

// InsufficientFundsError reports the shortfall for one asset.
// It matches ErrInsufficientFunds with errors.Is.
type InsufficientFundsError struct {
	Asset     AssetID
	Required  fixed8.Fixed8
	Available fixed8.Fixed8
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("tx: insufficient funds: %s required %s, available %s",
		e.Asset, e.Required, e.Available)
}

// Is reports whether target is ErrInsufficientFunds.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
