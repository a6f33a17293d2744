// Package ledger drives a Ledger hardware wallet running the NEO
// application: discovery, framed signing exchanges, public key retrieval
// and decoding of the returned DER signatures.
package ledger

import (
	"context"
	"fmt"
	"time"
)

// DefaultDiscoveryTimeout bounds how long Discover waits for a device.
const DefaultDiscoveryTimeout = 5 * time.Second

// discoveryPollInterval is the delay between device enumerations.
const discoveryPollInterval = 100 * time.Millisecond

// DeviceInfo describes a connected device.
type DeviceInfo struct {
	Path    string
	Product string
	Serial  string
}

// Device is an open handle to a device. Exchange sends one APDU and returns
// the raw response including the trailing status word.
type Device interface {
	Exchange(ctx context.Context, apdu []byte) ([]byte, error)
	Close() error
}

// Hub enumerates and opens devices.
type Hub interface {
	List(ctx context.Context) ([]DeviceInfo, error)
	Open(ctx context.Context, info DeviceInfo) (Device, error)
}

// Discover polls hub until a device is connected and returns the first one.
// It fails with ErrDeviceNotFound once timeout elapses.
func Discover(ctx context.Context, hub Hub, timeout time.Duration) (DeviceInfo, error) {
	if timeout <= 0 {
		timeout = DefaultDiscoveryTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(discoveryPollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		devices, err := hub.List(ctx)
		if err == nil && len(devices) > 0 {
			return devices[0], nil
		}
		lastErr = err

		select {
		case <-ctx.Done():
			if lastErr != nil {
				return DeviceInfo{}, fmt.Errorf("%w: after %s: %w", ErrDeviceNotFound, timeout, lastErr)
			}
			return DeviceInfo{}, fmt.Errorf("%w: after %s", ErrDeviceNotFound, timeout)
		case <-ticker.C:
		}
	}
}
