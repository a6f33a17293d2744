// Package workflow drives the two hardware-signed operations, sending
// assets and claiming GAS, through discovery, building, signing and
// broadcast.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/trinityneo/libtrinity-go/fixed8"
	"github.com/trinityneo/libtrinity-go/journal"
	"github.com/trinityneo/libtrinity-go/ledger"
	"github.com/trinityneo/libtrinity-go/network"
	"github.com/trinityneo/libtrinity-go/tx"
	"github.com/trinityneo/libtrinity-go/wallet"
)

// Signer hands out exclusive sessions on the signing device.
type Signer interface {
	Acquire(ctx context.Context) (*ledger.Session, error)
}

// BalanceProvider returns the holdings of an address.
type BalanceProvider interface {
	GetBalance(ctx context.Context, address string) (map[tx.AssetID]tx.AssetBalance, error)
}

// ClaimsProvider returns the unclaimed GAS of an address.
type ClaimsProvider interface {
	GetClaims(ctx context.Context, address string) (*network.Claims, error)
}

// Broadcaster submits signed transactions.
type Broadcaster interface {
	SendRawTransaction(ctx context.Context, signedHex string) error
}

// Serializer encodes unsigned transactions and attaches signatures.
type Serializer interface {
	Serialize(t *tx.UnsignedTransaction) (string, error)
	AttachSignature(unsignedHex string, sig, pubKey []byte) (string, error)
}

// Recorder stores the outcome of every broadcast.
type Recorder interface {
	Put(rec *journal.Record) error
}

// Transfer pays Amount of Asset to the address To.
type Transfer struct {
	To     string
	Asset  tx.AssetID
	Amount fixed8.Fixed8
}

// SendRequest lists the transfers of one send transaction.
type SendRequest struct {
	Transfers []Transfer
}

// Result describes a completed workflow.
type Result struct {
	TxID      string
	SignedHex string
	Address   string
	States    []State
}

// Orchestrator runs one workflow at a time. Signer, Network and the
// providers the workflow uses must be set; Serializer defaults to
// tx.WireSerializer and Logger to a no-op logger. Recorder is optional.
type Orchestrator struct {
	Signer      Signer
	Balances    BalanceProvider
	Claims      ClaimsProvider
	Broadcaster Broadcaster
	Serializer  Serializer
	Recorder    Recorder
	Network     *wallet.NetworkConfig
	GasCost     fixed8.Fixed8
	Logger      *zap.Logger

	mu sync.Mutex
}

// New returns an Orchestrator whose balance, claims and broadcast calls all
// go to node.
func New(signer Signer, node network.NodeService, net *wallet.NetworkConfig, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		Signer:      signer,
		Balances:    node,
		Claims:      node,
		Broadcaster: node,
		Network:     net,
		Logger:      log,
	}
}

// run tracks the state sequence of one invocation.
type run struct {
	log    *zap.Logger
	states []State
}

func (r *run) enter(s State) {
	r.states = append(r.states, s)
	r.log.Debug("workflow state", zap.Stringer("state", s))
}

func (r *run) fail(err error) error {
	failed := r.states[len(r.states)-1]
	r.states = append(r.states, Failed)
	r.log.Warn("workflow failed", zap.Stringer("state", failed), zap.Error(err))
	return &StepError{State: failed, Err: err}
}

// Account discovers the device and returns the account of its key.
func (o *Orchestrator) Account(ctx context.Context) (*wallet.Account, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	r := o.newRun("account")
	sess, err := o.discover(ctx, r)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	acct, err := o.account(ctx, r, sess)
	if err != nil {
		return nil, err
	}
	r.enter(Done)
	return acct, nil
}

// SendAsset signs and broadcasts a contract transaction paying every
// transfer in req. The request is copied before any step runs.
func (o *Orchestrator) SendAsset(ctx context.Context, req SendRequest) (*Result, error) {
	transfers := append([]Transfer(nil), req.Transfers...)
	if len(transfers) == 0 {
		return nil, fmt.Errorf("%w: no transfers", tx.ErrInvalidParams)
	}
	intents := make([]tx.Output, 0, len(transfers))
	for i, t := range transfers {
		to, err := wallet.DecodeAddress(t.To, o.Network.AddressVersion)
		if err != nil {
			return nil, fmt.Errorf("transfer %d: %w", i, err)
		}
		intents = append(intents, tx.Output{Asset: t.Asset, Value: t.Amount, ScriptHash: to})
	}

	var balances map[tx.AssetID]tx.AssetBalance
	return o.execute(ctx, journal.KindSend,
		func(ctx context.Context, acct *wallet.Account) error {
			var err error
			balances, err = o.Balances.GetBalance(ctx, acct.Address)
			if err != nil && !errors.Is(err, network.ErrBalanceFetch) {
				err = fmt.Errorf("%w: %w", network.ErrBalanceFetch, err)
			}
			return err
		},
		func(acct *wallet.Account) (*tx.UnsignedTransaction, error) {
			return tx.Build(acct.ScriptHash, balances, intents, o.GasCost)
		})
}

// ClaimAllGas signs and broadcasts a claim transaction for all unclaimed
// GAS of the device account.
func (o *Orchestrator) ClaimAllGas(ctx context.Context) (*Result, error) {
	var claims *network.Claims
	return o.execute(ctx, journal.KindClaim,
		func(ctx context.Context, acct *wallet.Account) error {
			var err error
			claims, err = o.Claims.GetClaims(ctx, acct.Address)
			if err != nil && !errors.Is(err, network.ErrClaimsFetch) {
				err = fmt.Errorf("%w: %w", network.ErrClaimsFetch, err)
			}
			if err == nil && claims == nil {
				err = fmt.Errorf("%w: empty response", network.ErrClaimsFetch)
			}
			return err
		},
		func(acct *wallet.Account) (*tx.UnsignedTransaction, error) {
			return tx.BuildClaim(acct.ScriptHash, claims.Claims)
		})
}

func (o *Orchestrator) execute(
	ctx context.Context,
	kind journal.Kind,
	fetch func(context.Context, *wallet.Account) error,
	build func(*wallet.Account) (*tx.UnsignedTransaction, error),
) (*Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	r := o.newRun(string(kind))
	sess, err := o.discover(ctx, r)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	acct, err := o.account(ctx, r, sess)
	if err != nil {
		return nil, err
	}
	r.log = r.log.With(zap.String("address", acct.Address))

	r.enter(BalanceFetch)
	if err := fetch(ctx, acct); err != nil {
		return nil, r.fail(err)
	}

	r.enter(Build)
	utx, err := build(acct)
	if err != nil {
		return nil, r.fail(err)
	}
	ser := o.serializer()
	unsignedHex, err := ser.Serialize(utx)
	if err != nil {
		return nil, r.fail(err)
	}
	txid, err := tx.Hash(unsignedHex)
	if err != nil {
		return nil, r.fail(err)
	}
	r.log = r.log.With(zap.String("txid", txid))
	r.log.Info("transaction built",
		zap.Int("inputs", len(utx.Inputs)+len(utx.Claims)),
		zap.Int("outputs", len(utx.Outputs)))

	r.enter(Sign)
	sig, err := sess.Sign(ctx, unsignedHex)
	if err != nil {
		return nil, r.fail(err)
	}

	r.enter(Attach)
	signedHex, err := ser.AttachSignature(unsignedHex, sig.Bytes(), acct.PublicKey)
	if err != nil {
		return nil, r.fail(err)
	}

	r.enter(Broadcast)
	err = o.Broadcaster.SendRawTransaction(ctx, signedHex)
	o.record(r.log, &journal.Record{
		TxID:      txid,
		Kind:      kind,
		Network:   o.Network.Name,
		Address:   acct.Address,
		SignedHex: signedHex,
		Accepted:  err == nil,
		Error:     errString(err),
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, r.fail(err)
	}

	r.enter(Done)
	r.log.Info("transaction broadcast")
	return &Result{TxID: txid, SignedHex: signedHex, Address: acct.Address, States: r.states}, nil
}

func (o *Orchestrator) newRun(op string) *run {
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r := &run{log: log.With(zap.String("op", op), zap.String("network", o.Network.Name))}
	r.enter(Idle)
	return r
}

func (o *Orchestrator) discover(ctx context.Context, r *run) (*ledger.Session, error) {
	r.enter(DeviceDiscovery)
	sess, err := o.Signer.Acquire(ctx)
	if err != nil {
		return nil, r.fail(err)
	}
	r.log.Debug("device found", zap.String("product", sess.Info().Product))
	return sess, nil
}

func (o *Orchestrator) account(ctx context.Context, r *run, sess *ledger.Session) (*wallet.Account, error) {
	r.enter(PublicKeyRetrieval)
	pub, err := sess.PublicKey(ctx)
	if err != nil {
		return nil, r.fail(err)
	}
	acct, err := wallet.AccountFromPublicKey(pub, o.Network.AddressVersion)
	if err != nil {
		return nil, r.fail(fmt.Errorf("%w: %w", ledger.ErrDeviceComm, err))
	}
	return acct, nil
}

func (o *Orchestrator) serializer() Serializer {
	if o.Serializer == nil {
		return tx.WireSerializer{}
	}
	return o.Serializer
}

// record stores rec if a Recorder is set. Failures are logged only.
func (o *Orchestrator) record(log *zap.Logger, rec *journal.Record) {
	if o.Recorder == nil {
		return
	}
	if err := o.Recorder.Put(rec); err != nil {
		log.Warn("journal write failed", zap.Error(err))
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
