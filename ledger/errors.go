package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceNotFound indicates no device appeared before the discovery timeout.
	ErrDeviceNotFound = errors.New("ledger: device not found")

	// ErrDeviceComm indicates the transport failed or the device answered unexpectedly.
	ErrDeviceComm = errors.New("ledger: device communication error")

	// ErrMalformedSignature indicates the device signature is not valid DER.
	ErrMalformedSignature = errors.New("ledger: malformed signature")

	// ErrEmptyPayload indicates there is nothing to send to the device.
	ErrEmptyPayload = errors.New("ledger: empty payload")

	// ErrInvalidPath indicates a derivation path could not be parsed.
	ErrInvalidPath = errors.New("ledger: invalid derivation path")
)

// StatusError is returned when the device answers with a status word other
// than StatusOK.
type StatusError struct {
	Code uint16
}

func (e *StatusError) Error() string {
	if text, ok := StatusText(e.Code); ok {
		return fmt.Sprintf("ledger: invalid device status 0x%04x (%s)", e.Code, text)
	}
	return fmt.Sprintf("ledger: invalid device status 0x%04x", e.Code)
}

// AppNotOpenError is returned when the device rejects a command because the
// NEO application is not running.
type AppNotOpenError struct {
	Code uint16
}

func (e *AppNotOpenError) Error() string {
	return fmt.Sprintf("ledger: NEO app not open (status 0x%04x)", e.Code)
}

// Unwrap exposes the underlying status.
func (e *AppNotOpenError) Unwrap() error {
	return &StatusError{Code: e.Code}
}
