package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/trinityneo/libtrinity-go/config"
)

// rootFlags are the persistent flags. Only flags set on the command line
// override the config file.
type rootFlags struct {
	cmd *cobra.Command

	dataDir     string
	network     string
	networkFile string
	apiURL      string
	rpcURL      string
	path        string
	timeout     time.Duration
	logLevel    string
	logFile     string
}

func (f *rootFlags) apply(cfg *config.Config) {
	set := func(name string, dst *string, v string) {
		if f.cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("network", &cfg.Network, f.network)
	set("network-file", &cfg.NetworkFile, f.networkFile)
	set("api-url", &cfg.APIURL, f.apiURL)
	set("rpc-url", &cfg.RPCURL, f.rpcURL)
	set("path", &cfg.DerivationPath, f.path)
	set("log-level", &cfg.LogLevel, f.logLevel)
	set("log-file", &cfg.LogFile, f.logFile)
	if f.cmd.Flags().Changed("timeout") {
		cfg.DiscoveryTimeout = f.timeout
	}
}

func newRootCmd(a *app) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "trinity-ledger",
		Short:         "Send NEO and GAS and claim GAS with a Ledger device",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			flags.cmd = cmd
			return a.setup(flags)
		},
	}

	def := config.DefaultConfig()
	pf := root.PersistentFlags()
	pf.StringVar(&flags.dataDir, "datadir", "", "data directory (default ~/.trinity)")
	pf.StringVarP(&flags.network, "network", "n", def.Network, "network: mainnet or testnet")
	pf.StringVar(&flags.networkFile, "network-file", "", "JSON file describing a custom network")
	pf.StringVar(&flags.apiURL, "api-url", "", "REST API endpoint override")
	pf.StringVar(&flags.rpcURL, "rpc-url", "", "JSON-RPC node override")
	pf.StringVar(&flags.path, "path", def.DerivationPath, "derivation path of the signing key")
	pf.DurationVar(&flags.timeout, "timeout", def.DiscoveryTimeout, "device discovery timeout")
	pf.StringVar(&flags.logLevel, "log-level", def.LogLevel, "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFile, "log-file", "", "write JSON logs to this file")

	root.AddCommand(newPubkeyCmd(a), newSendCmd(a), newClaimCmd(a), newHistoryCmd(a))
	return root
}
