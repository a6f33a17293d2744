package wallet

import "errors"

var (
	// ErrInvalidNetwork indicates unknown network name with no custom config.
	ErrInvalidNetwork = errors.New("wallet: invalid network name")

	// ErrInvalidPublicKey indicates the key bytes are not a point on secp256r1.
	ErrInvalidPublicKey = errors.New("wallet: invalid public key")

	// ErrInvalidAddress indicates the address fails base58check decoding.
	ErrInvalidAddress = errors.New("wallet: invalid address")

	// ErrAddressVersion indicates the address version byte does not match the network.
	ErrAddressVersion = errors.New("wallet: address version mismatch")

	// ErrInvalidScriptHash indicates a script hash is not 20 bytes.
	ErrInvalidScriptHash = errors.New("wallet: script hash must be 20 bytes")
)
