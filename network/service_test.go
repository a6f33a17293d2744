package network

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceResolvesBestNodeOnce(t *testing.T) {
	node := rpcServer(t, func(req rpcRequest) rpcResponse {
		return rpcResponse{Result: json.RawMessage(`true`)}
	})

	var lookups atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/network/best_node", r.URL.Path)
		lookups.Add(1)
		_ = json.NewEncoder(w).Encode(bestNodeResponse{Node: node.URL})
	}))
	defer api.Close()

	svc := NewService(&EndpointConfig{APIURL: api.URL})
	require.NoError(t, svc.SendRawTransaction(context.Background(), "00"))
	require.NoError(t, svc.SendRawTransaction(context.Background(), "00"))
	assert.Equal(t, int32(1), lookups.Load())

	url, err := svc.NodeURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, node.URL, url)
}

func TestServiceConfiguredNode(t *testing.T) {
	node := rpcServer(t, func(req rpcRequest) rpcResponse {
		return rpcResponse{Result: json.RawMessage(`false`)}
	})

	svc := NewService(&EndpointConfig{APIURL: "http://localhost:1", RPCURL: node.URL})
	err := svc.SendRawTransaction(context.Background(), "00")
	assert.ErrorIs(t, err, ErrBroadcastRejected)
}

func TestServiceBestNodeFailure(t *testing.T) {
	svc := NewService(&EndpointConfig{APIURL: "http://localhost:1"})
	err := svc.SendRawTransaction(context.Background(), "00")
	assert.ErrorIs(t, err, ErrBroadcastError)
}

func TestServiceDelegatesReads(t *testing.T) {
	server := apiServer(t, map[string]string{
		"/v2/address/balance/" + testAddress: balanceJSON,
		"/v2/address/claims/" + testAddress:  claimsJSON,
	})
	svc := NewService(&EndpointConfig{APIURL: server.URL})

	balances, err := svc.GetBalance(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Len(t, balances, 2)

	claims, err := svc.GetClaims(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Len(t, claims.Claims, 2)
}
