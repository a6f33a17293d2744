package network

import (
	"context"
	"fmt"
	"sync"

	"github.com/trinityneo/libtrinity-go/tx"
)

// NodeService is the chain access used by the signing workflows.
type NodeService interface {
	// GetBalance returns the NEO and GAS holdings of address.
	GetBalance(ctx context.Context, address string) (map[tx.AssetID]tx.AssetBalance, error)

	// GetClaims returns the unclaimed GAS references of address.
	GetClaims(ctx context.Context, address string) (*Claims, error)

	// SendRawTransaction submits a signed transaction hex to a node.
	SendRawTransaction(ctx context.Context, signedHex string) error
}

// Service combines the REST API with a JSON-RPC node. When no RPC URL is
// configured the node is resolved through the API on first broadcast.
type Service struct {
	api    *APIClient
	rpcURL string

	mu  sync.Mutex
	rpc *RPCClient
}

// Compile-time interface check.
var _ NodeService = (*Service)(nil)

// NewService creates a Service from resolved endpoints.
func NewService(cfg *EndpointConfig) *Service {
	s := &Service{api: NewAPIClient(cfg.APIURL), rpcURL: cfg.RPCURL}
	if cfg.RPCURL != "" {
		s.rpc = NewRPCClient(cfg.RPCURL)
	}
	return s
}

// GetBalance implements NodeService.
func (s *Service) GetBalance(ctx context.Context, address string) (map[tx.AssetID]tx.AssetBalance, error) {
	return s.api.GetBalance(ctx, address)
}

// GetClaims implements NodeService.
func (s *Service) GetClaims(ctx context.Context, address string) (*Claims, error) {
	return s.api.GetClaims(ctx, address)
}

// SendRawTransaction implements NodeService.
func (s *Service) SendRawTransaction(ctx context.Context, signedHex string) error {
	rpc, err := s.node(ctx)
	if err != nil {
		return fmt.Errorf("%w: resolve node: %w", ErrBroadcastError, err)
	}
	return rpc.SendRawTransaction(ctx, signedHex)
}

// NodeURL returns the RPC endpoint, resolving it if necessary.
func (s *Service) NodeURL(ctx context.Context) (string, error) {
	rpc, err := s.node(ctx)
	if err != nil {
		return "", err
	}
	return rpc.URL(), nil
}

func (s *Service) node(ctx context.Context) (*RPCClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rpc != nil {
		return s.rpc, nil
	}
	url, err := s.api.GetBestNode(ctx)
	if err != nil {
		return nil, err
	}
	s.rpc = NewRPCClient(url)
	return s.rpc, nil
}
