package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trinityneo/libtrinity-go/fixed8"
)

func TestBuildClaim(t *testing.T) {
	claims := []Claim{
		{TxID: testUnspent("1")[0].TxID, Index: 0, Value: 120},
		{TxID: testUnspent("1", "1")[1].TxID, Index: 3, Value: 80},
	}

	got, err := BuildClaim(testSender, claims)
	require.NoError(t, err)

	assert.Equal(t, ClaimType, got.Type)
	assert.Empty(t, got.Inputs)
	require.Len(t, got.Claims, 2)
	assert.Equal(t, Input{PrevHash: claims[1].TxID, PrevIndex: 3}, got.Claims[1])
	require.Len(t, got.Outputs, 1)
	assert.Equal(t, Output{Asset: AssetGAS, Value: fixed8.Fixed8(200), ScriptHash: testSender}, got.Outputs[0])
}

func TestBuildClaim_NothingToClaim(t *testing.T) {
	_, err := BuildClaim(testSender, nil)
	assert.ErrorIs(t, err, ErrNothingToClaim)

	_, err = BuildClaim(testSender, []Claim{{TxID: testUnspent("1")[0].TxID, Value: 0}})
	assert.ErrorIs(t, err, ErrNothingToClaim)
}

func TestBuildClaim_NegativeValue(t *testing.T) {
	_, err := BuildClaim(testSender, []Claim{{TxID: testUnspent("1")[0].TxID, Value: -5}})
	assert.ErrorIs(t, err, ErrInvalidParams)
}
