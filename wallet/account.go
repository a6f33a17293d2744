package wallet

import (
	"crypto/ecdh"
	"crypto/elliptic"
	"encoding/hex"
	"errors"
	"fmt"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/bsv-blockchain/go-sdk/script"
	"github.com/btcsuite/btcd/btcutil/base58"
)

const (
	// UncompressedKeySize is the length of a 0x04-prefixed secp256r1 point.
	UncompressedKeySize = 65

	// CompressedKeySize is the length of a 0x02/0x03-prefixed secp256r1 point.
	CompressedKeySize = 33

	// ScriptHashSize is the length of a script hash.
	ScriptHashSize = 20
)

// ScriptHash identifies a verification script. The array holds the raw
// Hash160 bytes in wire order.
type ScriptHash [ScriptHashSize]byte

// String returns the script hash in display order (byte-reversed hex).
func (h ScriptHash) String() string {
	return hex.EncodeToString(reverse(h[:]))
}

// ParseScriptHash parses a display-order hex script hash.
func ParseScriptHash(s string) (ScriptHash, error) {
	var h ScriptHash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("%w: %w", ErrInvalidScriptHash, err)
	}
	if len(b) != ScriptHashSize {
		return h, fmt.Errorf("%w: got %d bytes", ErrInvalidScriptHash, len(b))
	}
	copy(h[:], reverse(b))
	return h, nil
}

// EncodePublicKey validates a secp256r1 public key and returns its
// 33-byte compressed encoding. Both uncompressed (65-byte) and already
// compressed keys are accepted.
func EncodePublicKey(pub []byte) ([]byte, error) {
	switch len(pub) {
	case UncompressedKeySize:
		if _, err := ecdh.P256().NewPublicKey(pub); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
		}
		out := make([]byte, CompressedKeySize)
		out[0] = 0x02 | (pub[UncompressedKeySize-1] & 0x01)
		copy(out[1:], pub[1:33])
		return out, nil
	case CompressedKeySize:
		if x, _ := elliptic.UnmarshalCompressed(elliptic.P256(), pub); x == nil {
			return nil, fmt.Errorf("%w: not a compressed point", ErrInvalidPublicKey)
		}
		out := make([]byte, CompressedKeySize)
		copy(out, pub)
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unexpected length %d", ErrInvalidPublicKey, len(pub))
	}
}

// VerificationScript returns the single-signature verification script
// PUSH(pubkey) CHECKSIG for a compressed public key.
func VerificationScript(pub []byte) ([]byte, error) {
	if len(pub) != CompressedKeySize {
		return nil, fmt.Errorf("%w: verification script needs a compressed key", ErrInvalidPublicKey)
	}
	s := &script.Script{}
	if err := s.AppendPushData(pub); err != nil {
		return nil, fmt.Errorf("wallet: push public key: %w", err)
	}
	if err := s.AppendOpcodes(script.OpCHECKSIG); err != nil {
		return nil, fmt.Errorf("wallet: append checksig: %w", err)
	}
	return *s, nil
}

// ScriptHashFromPublicKey returns Hash160 of the key's verification script.
func ScriptHashFromPublicKey(pub []byte) (ScriptHash, error) {
	var h ScriptHash
	vs, err := VerificationScript(pub)
	if err != nil {
		return h, err
	}
	copy(h[:], bsvhash.Hash160(vs))
	return h, nil
}

// AddressFromScriptHash encodes a script hash as a base58check address.
func AddressFromScriptHash(h ScriptHash, version byte) string {
	return base58.CheckEncode(h[:], version)
}

// DecodeAddress decodes a base58check address and checks its version byte.
func DecodeAddress(addr string, version byte) (ScriptHash, error) {
	var h ScriptHash
	payload, v, err := base58.CheckDecode(addr)
	if err != nil {
		if errors.Is(err, base58.ErrChecksum) {
			return h, fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
		}
		return h, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if v != version {
		return h, fmt.Errorf("%w: got 0x%02x, want 0x%02x", ErrAddressVersion, v, version)
	}
	if len(payload) != ScriptHashSize {
		return h, fmt.Errorf("%w: payload is %d bytes", ErrInvalidAddress, len(payload))
	}
	copy(h[:], payload)
	return h, nil
}

// Account is the public view of a device-held key.
type Account struct {
	PublicKey  []byte // compressed, 33 bytes
	ScriptHash ScriptHash
	Address    string
}

// AccountFromPublicKey derives the account for a device public key.
func AccountFromPublicKey(pub []byte, version byte) (*Account, error) {
	encoded, err := EncodePublicKey(pub)
	if err != nil {
		return nil, err
	}
	h, err := ScriptHashFromPublicKey(encoded)
	if err != nil {
		return nil, err
	}
	return &Account{
		PublicKey:  encoded,
		ScriptHash: h,
		Address:    AddressFromScriptHash(h, version),
	}, nil
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}
