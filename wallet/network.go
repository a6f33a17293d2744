package wallet

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultAddressVersion is the base58check version byte for standard accounts.
const DefaultAddressVersion byte = 0x17

// NetworkConfig defines network parameters for a NEO network.
type NetworkConfig struct {
	Name           string `json:"name"`
	AddressVersion byte   `json:"address_version"`
	Magic          uint32 `json:"magic"`
	APIEndpoint    string `json:"api_endpoint"`
	RPCEndpoint    string `json:"rpc_endpoint"`
}

// Predefined network configurations. RPCEndpoint is left empty so the
// best node is resolved from the API at run time.
var (
	MainNet = NetworkConfig{
		Name:           "mainnet",
		AddressVersion: DefaultAddressVersion,
		Magic:          7630401,
		APIEndpoint:    "http://api.wallet.cityofzion.io",
	}

	TestNet = NetworkConfig{
		Name:           "testnet",
		AddressVersion: DefaultAddressVersion,
		Magic:          1953787457,
		APIEndpoint:    "http://testnet-api.wallet.cityofzion.io",
	}
)

// predefined maps network names to their configs.
var predefined = map[string]*NetworkConfig{
	"mainnet": &MainNet,
	"testnet": &TestNet,
}

// GetNetwork returns a predefined network by name.
// If the name is not predefined, it returns ErrInvalidNetwork.
func GetNetwork(name string) (*NetworkConfig, error) {
	if net, ok := predefined[name]; ok {
		return net, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}

// LoadCustomNetwork loads a NetworkConfig from a JSON file. A missing
// address version defaults to DefaultAddressVersion.
func LoadCustomNetwork(path string) (*NetworkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: failed to read network config: %w", err)
	}

	var config NetworkConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("wallet: failed to parse network config: %w", err)
	}

	if config.Name == "" {
		return nil, fmt.Errorf("wallet: network config must have a name")
	}
	if config.AddressVersion == 0 {
		config.AddressVersion = DefaultAddressVersion
	}

	return &config, nil
}
