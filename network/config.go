package network

import (
	"fmt"

	"github.com/trinityneo/libtrinity-go/wallet"
)

// EndpointConfig holds the API and RPC endpoints for one network.
// An empty RPCURL means the best node is resolved from the API.
type EndpointConfig struct {
	Network string `json:"network"`
	APIURL  string `json:"api_url"`
	RPCURL  string `json:"rpc_url"`
}

// ResolveConfig merges endpoint configuration from three sources with decreasing priority:
//  1. CLI flags (highest priority)
//  2. Environment variables (TRINITY_API_URL, TRINITY_RPC_URL)
//  3. Network presets (lowest priority, mainnet/testnet)
//
// Custom networks have no preset and need an explicit API URL.
func ResolveConfig(flags *EndpointConfig, env map[string]string, network string) (*EndpointConfig, error) {
	preset, err := wallet.GetNetwork(network)
	if err != nil {
		preset = &wallet.NetworkConfig{Name: network}
	}
	return ResolveNetwork(flags, env, preset)
}

// ResolveNetwork is ResolveConfig with the preset layer taken from net,
// which may be a custom network.
func ResolveNetwork(flags *EndpointConfig, env map[string]string, net *wallet.NetworkConfig) (*EndpointConfig, error) {
	network := net.Name
	result := EndpointConfig{Network: network}

	// Layer 1: start with the network's own endpoints.
	result.APIURL = net.APIEndpoint
	result.RPCURL = net.RPCEndpoint

	// Layer 2: environment variables override preset defaults.
	if env != nil {
		if v, ok := env["TRINITY_API_URL"]; ok && v != "" {
			result.APIURL = v
		}
		if v, ok := env["TRINITY_RPC_URL"]; ok && v != "" {
			result.RPCURL = v
		}
	}

	// Layer 3: CLI flags have highest priority.
	if flags != nil {
		if flags.APIURL != "" {
			result.APIURL = flags.APIURL
		}
		if flags.RPCURL != "" {
			result.RPCURL = flags.RPCURL
		}
	}

	if result.APIURL == "" {
		return nil, fmt.Errorf("%w: %s requires an API URL (set --api-url, TRINITY_API_URL, or config file)", ErrNoEndpoint, network)
	}

	return &result, nil
}
