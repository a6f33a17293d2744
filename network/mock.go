package network

import (
	"context"

	"github.com/trinityneo/libtrinity-go/tx"
)

// MockNodeService is a test double for NodeService.
// All function fields must be set before the corresponding method is called.
type MockNodeService struct {
	GetBalanceFn         func(ctx context.Context, address string) (map[tx.AssetID]tx.AssetBalance, error)
	GetClaimsFn          func(ctx context.Context, address string) (*Claims, error)
	SendRawTransactionFn func(ctx context.Context, signedHex string) error
}

// Compile-time interface check.
var _ NodeService = (*MockNodeService)(nil)

func (m *MockNodeService) GetBalance(ctx context.Context, address string) (map[tx.AssetID]tx.AssetBalance, error) {
	return m.GetBalanceFn(ctx, address)
}
func (m *MockNodeService) GetClaims(ctx context.Context, address string) (*Claims, error) {
	return m.GetClaimsFn(ctx, address)
}
func (m *MockNodeService) SendRawTransaction(ctx context.Context, signedHex string) error {
	return m.SendRawTransactionFn(ctx, signedHex)
}
