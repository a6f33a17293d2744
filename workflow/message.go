package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/trinityneo/libtrinity-go/ledger"
	"github.com/trinityneo/libtrinity-go/network"
	"github.com/trinityneo/libtrinity-go/tx"
)

// UserMessage returns the message shown to a user for a workflow error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		appErr    *ledger.AppNotOpenError
		statusErr *ledger.StatusError
		fundsErr  *tx.InsufficientFundsError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The operation was cancelled."
	case errors.Is(err, ledger.ErrDeviceNotFound):
		return "No Ledger device found. Connect and unlock it, then try again."
	case errors.As(err, &appErr):
		return fmt.Sprintf("Open the NEO app on your Ledger and try again (status 0x%04x).", appErr.Code)
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Ledger communication error (status 0x%04x).", statusErr.Code)
	case errors.Is(err, ledger.ErrDeviceComm):
		return "Could not communicate with the Ledger device."
	case errors.Is(err, ledger.ErrMalformedSignature):
		return "The Ledger returned a malformed signature."
	case errors.As(err, &fundsErr):
		return fmt.Sprintf("Insufficient %s: %s required, %s available.",
			fundsErr.Asset, fundsErr.Required, fundsErr.Available)
	case errors.Is(err, tx.ErrNothingToClaim):
		return "There is no GAS to claim."
	case errors.Is(err, network.ErrClaimsFetch):
		return "Could not fetch claimable GAS for this address."
	case errors.Is(err, network.ErrBalanceFetch):
		return "Could not fetch the balance for this address."
	case errors.Is(err, network.ErrBroadcastRejected):
		return "The network rejected the transaction."
	case errors.Is(err, network.ErrBroadcastError):
		return "Could not broadcast the transaction. Check your connection."
	}
	return err.Error()
}
