// Package config loads and saves the trinity-ledger configuration file.
//
// The file is a flat list of "key = value" lines. Blank lines and lines
// starting with '#' are ignored, and unknown keys are skipped so that
// newer files still load.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDiscoveryTimeout bounds how long device discovery polls.
const DefaultDiscoveryTimeout = 5 * time.Second

// Config holds the settings shared by the command line tool.
type Config struct {
	DataDir          string        // directory holding the config file and journal
	Network          string        // "mainnet" or "testnet"
	NetworkFile      string        // optional JSON network definition, overrides Network
	LogLevel         string        // "debug", "info", "warn", "error"
	LogFile          string        // empty logs to stderr
	APIURL           string        // overrides the network's API endpoint
	RPCURL           string        // fixed RPC node, skips best node lookup
	DerivationPath   string        // BIP-44 path of the signing key
	DiscoveryTimeout time.Duration // device discovery deadline
}

// DefaultDataDir returns ~/.trinity, or .trinity when the home directory
// cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trinity"
	}
	return filepath.Join(home, ".trinity")
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() Config {
	return Config{
		DataDir:          DefaultDataDir(),
		Network:          "mainnet",
		LogLevel:         "info",
		DerivationPath:   "m/44'/888'/0'/0/0",
		DiscoveryTimeout: DefaultDiscoveryTimeout,
	}
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(filepath.Clean(dataDir), "config")
}

// LoadConfig reads the file at path on top of DefaultConfig.
// It returns ErrConfigNotFound if the file does not exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := applyKey(&cfg, key, value); err != nil {
			return cfg, fmt.Errorf("%w: line %d: %w", ErrInvalidConfigLine, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating the parent directory.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Trinity Ledger Configuration\n\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "networkfile = %s\n", cfg.NetworkFile)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	fmt.Fprintf(&b, "apiurl = %s\n", cfg.APIURL)
	fmt.Fprintf(&b, "rpcurl = %s\n", cfg.RPCURL)
	fmt.Fprintf(&b, "path = %s\n", cfg.DerivationPath)
	fmt.Fprintf(&b, "timeout = %s\n", cfg.DiscoveryTimeout)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// parseKeyValue splits a line on its first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return key, strings.TrimSpace(value), nil
}

func applyKey(cfg *Config, key, value string) error {
	switch key {
	case "datadir":
		cfg.DataDir = value
	case "network":
		cfg.Network = value
	case "networkfile":
		cfg.NetworkFile = value
	case "loglevel":
		cfg.LogLevel = value
	case "logfile":
		cfg.LogFile = value
	case "apiurl":
		cfg.APIURL = value
	case "rpcurl":
		cfg.RPCURL = value
	case "path":
		cfg.DerivationPath = value
	case "timeout":
		if value == "" {
			cfg.DiscoveryTimeout = 0
			return nil
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.DiscoveryTimeout = d
	}
	return nil
}
