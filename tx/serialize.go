package tx

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/bsv-blockchain/go-sdk/script"

	"github.com/trinityneo/libtrinity-go/wallet"
)

// SignatureSize is the length of a raw r||s signature.
const SignatureSize = 64

// WireSerializer produces the on-chain byte encoding of claim and contract
// transactions.
type WireSerializer struct{}

// Serialize returns the hex of the unsigned encoding: every field except the
// witness list. This is the payload the device signs.
func (WireSerializer) Serialize(t *UnsignedTransaction) (string, error) {
	b, err := t.unsignedBytes()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// AttachSignature appends a one-element witness list built from sig and the
// compressed public key to an unsigned encoding.
func (WireSerializer) AttachSignature(unsignedHex string, sig, pubKey []byte) (string, error) {
	if _, err := hex.DecodeString(unsignedHex); err != nil {
		return "", fmt.Errorf("%w: unsigned transaction hex: %w", ErrInvalidParams, err)
	}
	w, err := NewWitness(sig, pubKey)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	writeWitnesses(&buf, []Witness{w})
	return unsignedHex + hex.EncodeToString(buf.Bytes()), nil
}

// AttachSignature records the witness on the transaction. It may be called once.
func (t *UnsignedTransaction) AttachSignature(sig, pubKey []byte) error {
	if len(t.Scripts) > 0 {
		return ErrAlreadySigned
	}
	w, err := NewWitness(sig, pubKey)
	if err != nil {
		return err
	}
	t.Scripts = []Witness{w}
	return nil
}

// Bytes returns the full encoding, including witnesses if attached.
func (t *UnsignedTransaction) Bytes() ([]byte, error) {
	b, err := t.unsignedBytes()
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(b)
	writeWitnesses(buf, t.Scripts)
	return buf.Bytes(), nil
}

// NewWitness builds the invocation script PUSH(sig) and the verification
// script PUSH(pubKey) CHECKSIG.
func NewWitness(sig, pubKey []byte) (Witness, error) {
	if len(sig) != SignatureSize {
		return Witness{}, fmt.Errorf("%w: got %d", ErrInvalidSignature, len(sig))
	}
	inv := &script.Script{}
	if err := inv.AppendPushData(sig); err != nil {
		return Witness{}, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	ver, err := wallet.VerificationScript(pubKey)
	if err != nil {
		return Witness{}, fmt.Errorf("%w: %w", ErrScriptBuild, err)
	}
	return Witness{Invocation: *inv, Verification: ver}, nil
}

// Hash returns the transaction id for an unsigned encoding: the double
// SHA-256 of its bytes, in display order.
func Hash(unsignedHex string) (string, error) {
	b, err := hex.DecodeString(unsignedHex)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	return chainhash.DoubleHashH(b).String(), nil
}

func (t *UnsignedTransaction) unsignedBytes() ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: transaction", ErrNilParam)
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(t.Type))
	buf.WriteByte(t.Version)

	if t.Type == ClaimType {
		if err := writeInputs(&buf, t.Claims); err != nil {
			return nil, err
		}
	}

	writeVarInt(&buf, uint64(len(t.Attributes)))
	for _, a := range t.Attributes {
		if a.Usage < 0x81 {
			return nil, fmt.Errorf("%w: attribute usage 0x%02x", ErrInvalidParams, a.Usage)
		}
		buf.WriteByte(a.Usage)
		writeVarBytes(&buf, a.Data)
	}

	if err := writeInputs(&buf, t.Inputs); err != nil {
		return nil, err
	}

	writeVarInt(&buf, uint64(len(t.Outputs)))
	for i, o := range t.Outputs {
		assetHash, err := o.Asset.Hash()
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}
		buf.Write(assetHash[:])
		_ = binary.Write(&buf, binary.LittleEndian, int64(o.Value))
		buf.Write(o.ScriptHash[:])
	}

	return buf.Bytes(), nil
}

func writeInputs(buf *bytes.Buffer, inputs []Input) error {
	writeVarInt(buf, uint64(len(inputs)))
	for _, in := range inputs {
		h, err := chainhash.NewHashFromHex(in.PrevHash)
		if err != nil || len(in.PrevHash) != 2*chainhash.HashSize {
			return fmt.Errorf("%w: %q", ErrInvalidHash, in.PrevHash)
		}
		buf.Write(h[:])
		_ = binary.Write(buf, binary.LittleEndian, in.PrevIndex)
	}
	return nil
}

func writeWitnesses(buf *bytes.Buffer, ws []Witness) {
	writeVarInt(buf, uint64(len(ws)))
	for _, w := range ws {
		writeVarBytes(buf, w.Invocation)
		writeVarBytes(buf, w.Verification)
	}
}

func writeVarBytes(buf *bytes.Buffer, b []byte) {
	writeVarInt(buf, uint64(len(b)))
	buf.Write(b)
}

func writeVarInt(buf *bytes.Buffer, v uint64) {
	switch {
	case v < 0xfd:
		buf.WriteByte(byte(v))
	case v <= 0xffff:
		buf.WriteByte(0xfd)
		_ = binary.Write(buf, binary.LittleEndian, uint16(v))
	case v <= 0xffffffff:
		buf.WriteByte(0xfe)
		_ = binary.Write(buf, binary.LittleEndian, uint32(v))
	default:
		buf.WriteByte(0xff)
		_ = binary.Write(buf, binary.LittleEndian, v)
	}
}
