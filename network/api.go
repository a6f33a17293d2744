package network

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trinityneo/libtrinity-go/fixed8"
	"github.com/trinityneo/libtrinity-go/tx"
)

// APIClient reads address state from a NeonDB-style REST API.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a client for the API rooted at baseURL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type balanceResponse struct {
	Address string        `json:"address"`
	Net     string        `json:"net"`
	NEO     assetResponse `json:"NEO"`
	GAS     assetResponse `json:"GAS"`
}

type assetResponse struct {
	Balance fixed8.Fixed8     `json:"balance"`
	Unspent []unspentResponse `json:"unspent"`
}

type unspentResponse struct {
	Index uint16        `json:"index"`
	TxID  string        `json:"txid"`
	Value fixed8.Fixed8 `json:"value"`
}

type claimsResponse struct {
	Address    string          `json:"address"`
	Net        string          `json:"net"`
	Claims     []claimResponse `json:"claims"`
	TotalClaim int64           `json:"total_claim"`
}

// claimResponse amounts are already in Fixed8 units.
type claimResponse struct {
	Claim  int64  `json:"claim"`
	Index  uint16 `json:"index"`
	TxID   string `json:"txid"`
	Start  int64  `json:"start"`
	End    int64  `json:"end"`
	SysFee int64  `json:"sysfee"`
}

type bestNodeResponse struct {
	Node string `json:"node"`
}

// Claims is the claimable GAS of an address.
type Claims struct {
	Address string
	Claims  []tx.Claim
	Total   fixed8.Fixed8
}

// GetBalance returns a snapshot of the NEO and GAS holdings of address.
// Every failure wraps ErrBalanceFetch.
func (c *APIClient) GetBalance(ctx context.Context, address string) (map[tx.AssetID]tx.AssetBalance, error) {
	var resp balanceResponse
	if err := c.get(ctx, "/v2/address/balance/"+url.PathEscape(address), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBalanceFetch, err)
	}

	balances := make(map[tx.AssetID]tx.AssetBalance, 2)
	for asset, ar := range map[tx.AssetID]assetResponse{tx.AssetNEO: resp.NEO, tx.AssetGAS: resp.GAS} {
		if ar.Balance < 0 {
			return nil, fmt.Errorf("%w: negative %s balance %s", ErrBalanceFetch, asset, ar.Balance)
		}
		bal := tx.AssetBalance{Asset: asset, Balance: ar.Balance}
		for _, u := range ar.Unspent {
			if u.Value < 0 {
				return nil, fmt.Errorf("%w: negative %s output %s:%d", ErrBalanceFetch, asset, u.TxID, u.Index)
			}
			bal.Unspent = append(bal.Unspent, tx.UnspentOutput{
				TxID:  trimHexPrefix(u.TxID),
				Index: u.Index,
				Value: u.Value,
			})
		}
		balances[asset] = bal
	}
	return balances, nil
}

// GetClaims returns the unclaimed GAS references of address.
// Every failure wraps ErrClaimsFetch.
func (c *APIClient) GetClaims(ctx context.Context, address string) (*Claims, error) {
	var resp claimsResponse
	if err := c.get(ctx, "/v2/address/claims/"+url.PathEscape(address), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClaimsFetch, err)
	}

	out := &Claims{Address: resp.Address, Total: fixed8.Fixed8(resp.TotalClaim)}
	for _, cr := range resp.Claims {
		if cr.Claim < 0 {
			return nil, fmt.Errorf("%w: negative claim %s:%d", ErrClaimsFetch, cr.TxID, cr.Index)
		}
		out.Claims = append(out.Claims, tx.Claim{
			TxID:  trimHexPrefix(cr.TxID),
			Index: cr.Index,
			Value: fixed8.Fixed8(cr.Claim),
		})
	}
	return out, nil
}

// GetBestNode returns the RPC endpoint the API currently recommends.
func (c *APIClient) GetBestNode(ctx context.Context) (string, error) {
	var resp bestNodeResponse
	if err := c.get(ctx, "/v2/network/best_node", &resp); err != nil {
		return "", err
	}
	if resp.Node == "" {
		return "", fmt.Errorf("%w: empty best node", ErrInvalidResponse)
	}
	return resp.Node, nil
}

func (c *APIClient) get(ctx context.Context, path string, out interface{}) error {
	if c.baseURL == "" {
		return ErrNoEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("network: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, err)
	}
	return nil
}

func trimHexPrefix(s string) string {
	return strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
}
