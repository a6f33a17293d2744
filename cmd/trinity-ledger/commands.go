package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/trinityneo/libtrinity-go/fixed8"
	"github.com/trinityneo/libtrinity-go/journal"
	"github.com/trinityneo/libtrinity-go/tx"
	"github.com/trinityneo/libtrinity-go/workflow"
)

func newPubkeyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "pubkey",
		Aliases: []string{"address"},
		Short:   "Show the address and public key of the device account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, done, err := a.orchestrator()
			if err != nil {
				return err
			}
			defer done()

			acct, err := orch.Account(cmd.Context())
			if err != nil {
				return a.userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "address:    %s\n", acct.Address)
			fmt.Fprintf(cmd.OutOrStdout(), "public key: %x\n", acct.PublicKey)
			fmt.Fprintf(cmd.OutOrStdout(), "scripthash: %s\n", acct.ScriptHash)
			return nil
		},
	}
}

func newSendCmd(a *app) *cobra.Command {
	var gasCost string
	cmd := &cobra.Command{
		Use:   "send ADDRESS AMOUNT [ASSET]",
		Short: "Send NEO or GAS to an address",
		Long: `Send AMOUNT of ASSET (NEO by default) from the device account to ADDRESS.
The transaction is signed on the device and broadcast to the network.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			transfer, err := parseTransfer(args)
			if err != nil {
				return err
			}
			cost, err := fixed8.Parse(gasCost)
			if err != nil {
				return fmt.Errorf("--gas-cost: %w", err)
			}

			orch, done, err := a.orchestrator()
			if err != nil {
				return err
			}
			defer done()
			orch.GasCost = cost

			fmt.Fprintln(cmd.ErrOrStderr(), "Confirm the transaction on your Ledger...")
			res, err := orch.SendAsset(cmd.Context(), workflow.SendRequest{Transfers: []workflow.Transfer{transfer}})
			if err != nil {
				return a.userError(err)
			}
			printResult(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&gasCost, "gas-cost", "0", "network fee paid in GAS")
	return cmd
}

func parseTransfer(args []string) (workflow.Transfer, error) {
	amount, err := fixed8.Parse(args[1])
	if err != nil {
		return workflow.Transfer{}, err
	}
	asset := tx.AssetNEO
	if len(args) == 3 {
		if asset, err = tx.ParseAsset(strings.ToUpper(args[2])); err != nil {
			return workflow.Transfer{}, err
		}
	}
	if asset == tx.AssetNEO && amount%fixed8.Unit != 0 {
		return workflow.Transfer{}, fmt.Errorf("NEO is indivisible: %s", amount)
	}
	return workflow.Transfer{To: args[0], Asset: asset, Amount: amount}, nil
}

func newClaimCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "claim",
		Short: "Claim all unclaimed GAS of the device account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orch, done, err := a.orchestrator()
			if err != nil {
				return err
			}
			defer done()

			fmt.Fprintln(cmd.ErrOrStderr(), "Confirm the claim on your Ledger...")
			res, err := orch.ClaimAllGas(cmd.Context())
			if err != nil {
				return a.userError(err)
			}
			printResult(cmd, res)
			return nil
		},
	}
}

func printResult(cmd *cobra.Command, res *workflow.Result) {
	fmt.Fprintf(cmd.OutOrStdout(), "broadcast %s from %s\n", res.TxID, res.Address)
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List transactions submitted from this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := journal.Open(a.journalPath())
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List(limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, "no transactions")
				return nil
			}
			for _, r := range recs {
				status := "accepted"
				if !r.Accepted {
					status = "failed: " + r.Error
				}
				fmt.Fprintf(out, "%s  %-5s  %-7s  %s  %s\n",
					r.Timestamp.Local().Format(time.DateTime), r.Kind, r.Network, r.TxID, status)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of entries, 0 for all")
	return cmd
}
