package ledger

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testR = "0262675396fbcc768bf505c9dc05728fd98fd977810c547d1a10c7dd58d18802"
	testS = "69c9c4a38ee95b4f394e31a3dd6a63054f8265ff9fd2baf68a9c4c3aa8c5d47e"
)

func TestDecodeSignature_Plain(t *testing.T) {
	sig, err := DecodeSignatureHex("3044" + "0220" + testR + "0220" + testS)
	require.NoError(t, err)
	assert.Equal(t, testR, hex.EncodeToString(sig.R[:]))
	assert.Equal(t, testS, hex.EncodeToString(sig.S[:]))
	assert.Equal(t, testR+testS, hex.EncodeToString(sig.Bytes()))
}

func TestDecodeSignature_StripsSignByte(t *testing.T) {
	r := "f1" + testR[2:]
	sig, err := DecodeSignatureHex("3045" + "022100" + r + "0220" + testS)
	require.NoError(t, err)
	assert.Equal(t, r, hex.EncodeToString(sig.R[:]))
	assert.Equal(t, testS, hex.EncodeToString(sig.S[:]))
}

func TestDecodeSignature_PadsShortIntegers(t *testing.T) {
	sig, err := DecodeSignatureHex("3043" + "021f" + testR[2:] + "0220" + testS)
	require.NoError(t, err)
	assert.Equal(t, "00"+testR[2:], hex.EncodeToString(sig.R[:]))

	sig, err = DecodeSignatureHex("3024" + "0220" + testR + "0200")
	assert.ErrorIs(t, err, ErrMalformedSignature)
	assert.Nil(t, sig)
}

func TestDecodeSignature_ParityTagAndTrailingBytes(t *testing.T) {
	sig, err := DecodeSignatureHex("3144" + "0220" + testR + "0220" + testS + "9000")
	require.NoError(t, err)
	assert.Equal(t, testS, hex.EncodeToString(sig.S[:]))
}

func TestDecodeSignature_Malformed(t *testing.T) {
	tests := []struct {
		name string
		der  string
	}{
		{"empty", ""},
		{"bad sequence tag", "3244" + "0220" + testR + "0220" + testS},
		{"truncated sequence", "3050" + "0220" + testR + "0220" + testS},
		{"bad r tag", "3044" + "0320" + testR + "0220" + testS},
		{"bad s tag", "3044" + "0220" + testR + "0420" + testS},
		{"missing s", "3022" + "0220" + testR},
		{"r too long", "3045" + "0221" + "01" + testR + "0220" + testS},
		{"s too long", "3046" + "0220" + testR + "02220100" + testS},
		{"not hex", "zz"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeSignatureHex(tc.der)
			assert.ErrorIs(t, err, ErrMalformedSignature)
		})
	}
}

func TestDecodeSignature_VerifiesWithStdlib(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	digest := sha256.Sum256([]byte(strings.Repeat("neo", 10)))

	for i := 0; i < 16; i++ {
		der, err := ecdsa.SignASN1(rand.Reader, key, digest[:])
		require.NoError(t, err)

		sig, err := DecodeSignature(der)
		require.NoError(t, err)

		r := new(big.Int).SetBytes(sig.R[:])
		s := new(big.Int).SetBytes(sig.S[:])
		assert.True(t, ecdsa.Verify(&key.PublicKey, digest[:], r, s))
	}
}
