package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trinityneo/libtrinity-go/fixed8"
	"github.com/trinityneo/libtrinity-go/tx"
)

const testAddress = "AKJQMHma9MA8KK5M8iQg8ASeg3KZLsjwvB"

const balanceJSON = `{
  "GAS": {
    "balance": 1.0006,
    "unspent": [
      {"index": 0, "txid": "0x91e1e4fbec4d9386e0ff3a0d0e3c2c1dd4c7e2b0c67e3ab39e8d5dc5ac54d6a2", "value": 1e-05},
      {"index": 1, "txid": "7d4d2d9ab2e1ab5cb6ab16e1b7e0b3a2c9c1f9e3e0c9b5a0a1b2c3d4e5f60718", "value": 1.00059}
    ]
  },
  "NEO": {
    "balance": 5,
    "unspent": [
      {"index": 0, "txid": "c7b2a3d3d4b5b6b7b8b9babbbcbdbebfc0c1c2c3c4c5c6c7c8c9cacbcccdcecf", "value": 5}
    ]
  },
  "address": "AKJQMHma9MA8KK5M8iQg8ASeg3KZLsjwvB",
  "net": "TestNet"
}`

const claimsJSON = `{
  "address": "AKJQMHma9MA8KK5M8iQg8ASeg3KZLsjwvB",
  "claims": [
    {"claim": 1240, "end": 1173946, "index": 0, "start": 1173830, "sysfee": 0, "txid": "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90", "value": 1},
    {"claim": 5760, "end": 1174500, "index": 1, "start": 1173946, "sysfee": 0, "txid": "0xb1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90", "value": 1}
  ],
  "net": "TestNet",
  "total_claim": 7000,
  "total_unspent_claim": 1200
}`

// apiServer serves fixed bodies keyed by request path.
func apiServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGetBalance(t *testing.T) {
	server := apiServer(t, map[string]string{"/v2/address/balance/" + testAddress: balanceJSON})

	balances, err := NewAPIClient(server.URL+"/").GetBalance(context.Background(), testAddress)
	require.NoError(t, err)

	gas := balances[tx.AssetGAS]
	assert.Equal(t, tx.AssetGAS, gas.Asset)
	assert.Equal(t, fixed8.MustParse("1.0006"), gas.Balance)
	require.Len(t, gas.Unspent, 2)
	assert.Equal(t, fixed8.Fixed8(1000), gas.Unspent[0].Value)
	assert.Equal(t, "91e1e4fbec4d9386e0ff3a0d0e3c2c1dd4c7e2b0c67e3ab39e8d5dc5ac54d6a2", gas.Unspent[0].TxID)
	assert.Equal(t, uint16(1), gas.Unspent[1].Index)

	neo := balances[tx.AssetNEO]
	assert.Equal(t, fixed8.MustParse("5"), neo.Balance)
	require.Len(t, neo.Unspent, 1)
}

func TestGetBalance_Errors(t *testing.T) {
	negative := `{"GAS":{"balance":-1,"unspent":[]},"NEO":{"balance":0,"unspent":[]}}`
	negativeOutput := `{"GAS":{"balance":0,"unspent":[{"index":0,"txid":"aa","value":-2}]},"NEO":{"balance":0,"unspent":[]}}`
	server := apiServer(t, map[string]string{
		"/v2/address/balance/neg":    negative,
		"/v2/address/balance/negout": negativeOutput,
		"/v2/address/balance/junk":   "{",
	})
	client := NewAPIClient(server.URL)

	for _, addr := range []string{"neg", "negout", "junk", "missing"} {
		t.Run(addr, func(t *testing.T) {
			_, err := client.GetBalance(context.Background(), addr)
			assert.ErrorIs(t, err, ErrBalanceFetch)
		})
	}

	_, err := NewAPIClient("http://localhost:1").GetBalance(context.Background(), testAddress)
	assert.ErrorIs(t, err, ErrBalanceFetch)
	assert.ErrorIs(t, err, ErrConnectionFailed)

	_, err = NewAPIClient("").GetBalance(context.Background(), testAddress)
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestGetClaims(t *testing.T) {
	server := apiServer(t, map[string]string{"/v2/address/claims/" + testAddress: claimsJSON})

	claims, err := NewAPIClient(server.URL).GetClaims(context.Background(), testAddress)
	require.NoError(t, err)

	assert.Equal(t, testAddress, claims.Address)
	assert.Equal(t, fixed8.Fixed8(7000), claims.Total)
	require.Len(t, claims.Claims, 2)
	assert.Equal(t, tx.Claim{
		TxID:  "b1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90",
		Index: 1,
		Value: 5760,
	}, claims.Claims[1])
}

func TestGetClaims_Errors(t *testing.T) {
	server := apiServer(t, map[string]string{
		"/v2/address/claims/neg": `{"claims":[{"claim":-1,"index":0,"txid":"aa"}]}`,
	})
	client := NewAPIClient(server.URL)

	_, err := client.GetClaims(context.Background(), "neg")
	assert.ErrorIs(t, err, ErrClaimsFetch)

	_, err = client.GetClaims(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrClaimsFetch)
}

func TestGetBestNode(t *testing.T) {
	body, _ := json.Marshal(bestNodeResponse{Node: "http://seed3.neo.org:20332"})
	server := apiServer(t, map[string]string{
		"/v2/network/best_node": string(body),
	})

	node, err := NewAPIClient(server.URL).GetBestNode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://seed3.neo.org:20332", node)

	empty := apiServer(t, map[string]string{"/v2/network/best_node": `{}`})
	_, err = NewAPIClient(empty.URL).GetBestNode(context.Background())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
