package ledger

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
)

// ScalarSize is the length of each signature component.
const ScalarSize = 32

// Signature is a P-256 ECDSA signature with fixed-width components.
type Signature struct {
	R [ScalarSize]byte
	S [ScalarSize]byte
}

// Bytes returns r||s.
func (s *Signature) Bytes() []byte {
	out := make([]byte, 0, 2*ScalarSize)
	out = append(out, s.R[:]...)
	return append(out, s.S[:]...)
}

// DecodeSignature parses the DER signature returned by the device:
// 30 LL 02 rl r 02 sl s. Leading zero bytes are stripped from each integer
// while it is longer than 32 bytes and the result is left-padded to 32.
// The device sets the low bit of the sequence tag to the parity of y, so
// 0x31 is accepted as well as 0x30. Bytes after the sequence are ignored.
func DecodeSignature(der []byte) (*Signature, error) {
	in := cryptobyte.String(der)
	var tag uint8
	if !in.ReadUint8(&tag) || tag&^0x01 != 0x30 {
		return nil, fmt.Errorf("%w: missing sequence tag", ErrMalformedSignature)
	}
	var seq cryptobyte.String
	if !in.ReadUint8LengthPrefixed(&seq) {
		return nil, fmt.Errorf("%w: truncated sequence", ErrMalformedSignature)
	}

	sig := &Signature{}
	if err := readScalar(&seq, &sig.R); err != nil {
		return nil, fmt.Errorf("r: %w", err)
	}
	if err := readScalar(&seq, &sig.S); err != nil {
		return nil, fmt.Errorf("s: %w", err)
	}
	return sig, nil
}

// DecodeSignatureHex is DecodeSignature for a hex-encoded response.
func DecodeSignatureHex(derHex string) (*Signature, error) {
	der, err := hex.DecodeString(derHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSignature, err)
	}
	return DecodeSignature(der)
}

func readScalar(in *cryptobyte.String, out *[ScalarSize]byte) error {
	var tag uint8
	if !in.ReadUint8(&tag) || tag != 0x02 {
		return fmt.Errorf("%w: missing integer tag", ErrMalformedSignature)
	}
	var v cryptobyte.String
	if !in.ReadUint8LengthPrefixed(&v) {
		return fmt.Errorf("%w: truncated integer", ErrMalformedSignature)
	}
	b := []byte(v)
	for len(b) > ScalarSize && b[0] == 0x00 {
		b = b[1:]
	}
	if len(b) == 0 || len(b) > ScalarSize {
		return fmt.Errorf("%w: integer is %d bytes", ErrMalformedSignature, len(b))
	}
	copy(out[ScalarSize-len(b):], b)
	return nil
}
