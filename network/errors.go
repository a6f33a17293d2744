package network

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed indicates the client could not connect to the endpoint.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrInvalidResponse indicates the endpoint returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrBalanceFetch indicates the balance of an address could not be obtained.
	ErrBalanceFetch = errors.New("network: balance fetch failed")

	// ErrClaimsFetch indicates the claimable GAS of an address could not be obtained.
	ErrClaimsFetch = errors.New("network: claims fetch failed")

	// ErrBroadcastRejected indicates the node refused the transaction.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")

	// ErrBroadcastError indicates the transaction could not be delivered to a node.
	ErrBroadcastError = errors.New("network: broadcast failed")

	// ErrNoEndpoint indicates no API endpoint is configured for the network.
	ErrNoEndpoint = errors.New("network: no endpoint configured")
)

// RPCError is an error object returned by a JSON-RPC server.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("network: rpc error %d: %s", e.Code, e.Message)
}
