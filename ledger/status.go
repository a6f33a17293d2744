package ledger

import (
	"encoding/binary"
	"fmt"
)

// Status words returned by the device.
const (
	StatusOK                   uint16 = 0x9000
	StatusWrongLength          uint16 = 0x6700
	StatusSecurityNotSatisfied uint16 = 0x6982
	StatusDenied               uint16 = 0x6985
	StatusInvalidData          uint16 = 0x6a80
	StatusInsNotSupported      uint16 = 0x6d00
	StatusClaNotSupported      uint16 = 0x6e00
)

var statusText = map[uint16]string{
	StatusOK:                   "success",
	StatusWrongLength:          "wrong length",
	StatusSecurityNotSatisfied: "device locked",
	StatusDenied:               "denied by user",
	StatusInvalidData:          "invalid data",
	StatusInsNotSupported:      "instruction not supported",
	StatusClaNotSupported:      "class not supported",
}

// StatusText returns a short description of a known status word.
func StatusText(code uint16) (string, bool) {
	s, ok := statusText[code]
	return s, ok
}

// IsAppNotOpen reports whether code means the NEO app is not running.
func IsAppNotOpen(code uint16) bool {
	return code == StatusInsNotSupported || code == StatusClaNotSupported
}

// splitStatus separates the trailing status word from a raw response and
// returns the data when the status is StatusOK.
func splitStatus(resp []byte) ([]byte, error) {
	if len(resp) < 2 {
		return nil, fmt.Errorf("%w: response too short (%d bytes)", ErrDeviceComm, len(resp))
	}
	n := len(resp) - 2
	code := binary.BigEndian.Uint16(resp[n:])
	if code != StatusOK {
		return nil, &StatusError{Code: code}
	}
	return resp[:n], nil
}
