package main

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trinityneo/libtrinity-go/config"
	"github.com/trinityneo/libtrinity-go/fixed8"
	"github.com/trinityneo/libtrinity-go/journal"
	"github.com/trinityneo/libtrinity-go/ledger"
	"github.com/trinityneo/libtrinity-go/network"
	"github.com/trinityneo/libtrinity-go/tx"
	"github.com/trinityneo/libtrinity-go/wallet"
)

// testApp returns an app without devices whose node calls fail the test.
func testApp(t *testing.T) *app {
	return &app{
		hub: &ledger.MockHub{
			ListFn: func(context.Context) ([]ledger.DeviceInfo, error) { return nil, nil },
		},
		newNode: func(*network.EndpointConfig) network.NodeService {
			return &network.MockNodeService{}
		},
	}
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	a.close()
	return out.String(), err
}

func testAddress(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	pub, err := key.PublicKey.ECDH()
	require.NoError(t, err)
	acct, err := wallet.AccountFromPublicKey(pub.Bytes(), wallet.DefaultAddressVersion)
	require.NoError(t, err)
	return acct.Address
}

func TestHistoryEmpty(t *testing.T) {
	out, err := run(t, testApp(t), "history", "--datadir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "no transactions")
}

func TestHistoryLists(t *testing.T) {
	dir := t.TempDir()
	store, err := journal.Open(filepath.Join(dir, journal.DefaultFileName))
	require.NoError(t, err)
	require.NoError(t, store.Put(&journal.Record{TxID: "aa11", Kind: journal.KindSend, Network: "mainnet", Accepted: true}))
	require.NoError(t, store.Put(&journal.Record{
		TxID: "bb22", Kind: journal.KindClaim, Network: "testnet",
		Error: "network: broadcast rejected", Timestamp: time.Now().Add(time.Minute),
	}))
	require.NoError(t, store.Close())

	out, err := run(t, testApp(t), "history", "--datadir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "aa11")
	assert.Contains(t, out, "failed: network: broadcast rejected")
	assert.Less(t, bytes.Index([]byte(out), []byte("bb22")), bytes.Index([]byte(out), []byte("aa11")))
}

func TestSendWithoutDevice(t *testing.T) {
	_, err := run(t, testApp(t), "send", testAddress(t), "1",
		"--datadir", t.TempDir(), "--timeout", "20ms")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No Ledger device found")
}

func TestClaimWithoutDevice(t *testing.T) {
	_, err := run(t, testApp(t), "claim", "--datadir", t.TempDir(), "--timeout", "20ms")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No Ledger device found")
}

func TestInvalidNetworkFlag(t *testing.T) {
	_, err := run(t, testApp(t), "history", "--datadir", t.TempDir(), "--network", "devnet")
	assert.ErrorIs(t, err, config.ErrInvalidNetwork)
}

func TestConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.Network = "testnet"
	cfg.DiscoveryTimeout = 2 * time.Second
	require.NoError(t, config.SaveConfig(config.ConfigPath(dir), cfg))

	a := testApp(t)
	_, err := run(t, a, "history", "--datadir", dir)
	require.NoError(t, err)
	assert.Equal(t, "testnet", a.cfg.Network)
	assert.Equal(t, wallet.TestNet.Magic, a.net.Magic)
	assert.Equal(t, 2*time.Second, a.cfg.DiscoveryTimeout)

	a = testApp(t)
	_, err = run(t, a, "history", "--datadir", dir, "--network", "mainnet")
	require.NoError(t, err)
	assert.Equal(t, "mainnet", a.cfg.Network)
}

func TestCustomNetworkFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "privnet.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"privnet","magic":56753,"api_endpoint":"http://localhost:5000"}`), 0600))

	a := testApp(t)
	_, err := run(t, a, "history", "--datadir", dir, "--network-file", path)
	require.NoError(t, err)
	assert.Equal(t, "privnet", a.net.Name)
	assert.Equal(t, wallet.DefaultAddressVersion, a.net.AddressVersion)
}

func TestParseTransfer(t *testing.T) {
	to := testAddress(t)

	tr, err := parseTransfer([]string{to, "3"})
	require.NoError(t, err)
	assert.Equal(t, tx.AssetNEO, tr.Asset)
	assert.Equal(t, fixed8.MustParse("3"), tr.Amount)

	tr, err = parseTransfer([]string{to, "0.125", "gas"})
	require.NoError(t, err)
	assert.Equal(t, tx.AssetGAS, tr.Asset)
	assert.Equal(t, fixed8.MustParse("0.125"), tr.Amount)

	_, err = parseTransfer([]string{to, "1.5", "NEO"})
	assert.Error(t, err)

	_, err = parseTransfer([]string{to, "1", "ONT"})
	assert.ErrorIs(t, err, tx.ErrUnknownAsset)

	_, err = parseTransfer([]string{to, "abc"})
	assert.ErrorIs(t, err, fixed8.ErrInvalidAmount)
}

// endpointsFor runs pubkey and returns the endpoints handed to the node.
func endpointsFor(t *testing.T, args ...string) *network.EndpointConfig {
	t.Helper()
	var got *network.EndpointConfig
	a := testApp(t)
	a.newNode = func(ep *network.EndpointConfig) network.NodeService {
		got = ep
		return &network.MockNodeService{}
	}
	_, err := run(t, a, append([]string{"pubkey", "--datadir", t.TempDir(), "--timeout", "10ms"}, args...)...)
	require.Error(t, err)
	require.NotNil(t, got)
	return got
}

func TestEndpointPrecedence(t *testing.T) {
	t.Setenv("TRINITY_API_URL", "")
	t.Setenv("TRINITY_RPC_URL", "")
	ep := endpointsFor(t)
	assert.Equal(t, wallet.MainNet.APIEndpoint, ep.APIURL)
	assert.Empty(t, ep.RPCURL)

	t.Setenv("TRINITY_API_URL", "http://env-api.example")
	t.Setenv("TRINITY_RPC_URL", "http://env-rpc.example:10332")
	ep = endpointsFor(t)
	assert.Equal(t, "http://env-api.example", ep.APIURL)
	assert.Equal(t, "http://env-rpc.example:10332", ep.RPCURL)

	ep = endpointsFor(t, "--api-url", "http://flag-api.example")
	assert.Equal(t, "http://flag-api.example", ep.APIURL)
	assert.Equal(t, "http://env-rpc.example:10332", ep.RPCURL)
}

func TestEndpointCustomNetworkPreset(t *testing.T) {
	t.Setenv("TRINITY_API_URL", "")
	t.Setenv("TRINITY_RPC_URL", "")
	path := filepath.Join(t.TempDir(), "privnet.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"privnet","api_endpoint":"http://localhost:5000","rpc_endpoint":"http://localhost:30333"}`), 0600))

	ep := endpointsFor(t, "--network-file", path)
	assert.Equal(t, "privnet", ep.Network)
	assert.Equal(t, "http://localhost:5000", ep.APIURL)
	assert.Equal(t, "http://localhost:30333", ep.RPCURL)
}
