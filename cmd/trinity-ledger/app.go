package main

import (
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/trinityneo/libtrinity-go/config"
	"github.com/trinityneo/libtrinity-go/journal"
	"github.com/trinityneo/libtrinity-go/ledger"
	"github.com/trinityneo/libtrinity-go/logger"
	"github.com/trinityneo/libtrinity-go/network"
	"github.com/trinityneo/libtrinity-go/wallet"
	"github.com/trinityneo/libtrinity-go/workflow"
)

// app carries the state shared by every command of one invocation.
type app struct {
	hub     ledger.Hub
	newNode func(*network.EndpointConfig) network.NodeService

	cfg      config.Config
	net      *wallet.NetworkConfig
	log      *zap.Logger
	closeLog func()
}

func newApp() *app {
	return &app{
		hub: ledger.NewHIDHub(),
		newNode: func(ep *network.EndpointConfig) network.NodeService {
			return network.NewService(ep)
		},
	}
}

// setup loads the config file, applies flag overrides and builds the logger.
func (a *app) setup(flags *rootFlags) error {
	dataDir := flags.dataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	cfg, err := config.LoadConfig(config.ConfigPath(dataDir))
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return err
	}
	cfg.DataDir = dataDir
	flags.apply(&cfg)
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	if cfg.NetworkFile != "" {
		a.net, err = wallet.LoadCustomNetwork(cfg.NetworkFile)
	} else {
		a.net, err = wallet.GetNetwork(cfg.Network)
	}
	if err != nil {
		return err
	}

	a.log, a.closeLog, err = logger.New(cfg.LogLevel, cfg.LogFile)
	return err
}

func (a *app) close() {
	if a.closeLog != nil {
		a.closeLog()
	}
}

func (a *app) journalPath() string {
	return filepath.Join(a.cfg.DataDir, journal.DefaultFileName)
}

// orchestrator wires the device, the node and the journal. The returned
// func closes the journal.
func (a *app) orchestrator() (*workflow.Orchestrator, func(), error) {
	path, err := ledger.ParseDerivationPath(a.cfg.DerivationPath)
	if err != nil {
		return nil, nil, err
	}
	client := ledger.NewClient(a.hub, ledger.Config{Path: path, DiscoveryTimeout: a.cfg.DiscoveryTimeout})

	env := map[string]string{
		"TRINITY_API_URL": os.Getenv("TRINITY_API_URL"),
		"TRINITY_RPC_URL": os.Getenv("TRINITY_RPC_URL"),
	}
	flags := &network.EndpointConfig{APIURL: a.cfg.APIURL, RPCURL: a.cfg.RPCURL}
	ep, err := network.ResolveNetwork(flags, env, a.net)
	if err != nil {
		return nil, nil, err
	}
	a.log.Debug("endpoints", zap.String("api", ep.APIURL), zap.String("rpc", ep.RPCURL))

	orch := workflow.New(client, a.newNode(ep), a.net, a.log)

	store, err := journal.Open(a.journalPath())
	if err != nil {
		a.log.Warn("journal unavailable", zap.Error(err))
		return orch, func() {}, nil
	}
	orch.Recorder = store
	return orch, func() {
		if err := store.Close(); err != nil {
			a.log.Warn("close journal", zap.Error(err))
		}
	}, nil
}

// userError logs err in full and returns the message shown to the user.
func (a *app) userError(err error) error {
	a.log.Error("command failed", zap.Error(err))
	return errors.New(workflow.UserMessage(err))
}
