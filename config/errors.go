package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\" or \"testnet\", or set networkfile)")

	// ErrInvalidURL indicates an API or RPC endpoint is not an http(s) URL.
	ErrInvalidURL = errors.New("config: invalid endpoint URL")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidPath indicates the derivation path does not parse.
	ErrInvalidPath = errors.New("config: invalid derivation path")

	// ErrInvalidTimeout indicates a non-positive discovery timeout.
	ErrInvalidTimeout = errors.New("config: discovery timeout must be positive")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
