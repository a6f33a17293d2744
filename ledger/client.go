package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/trinityneo/libtrinity-go/wallet"
)

// Config holds the device parameters for a Client.
type Config struct {
	Path             DerivationPath
	DiscoveryTimeout time.Duration
}

// Client serializes access to the hardware device. At most one Session is
// live at a time.
type Client struct {
	hub     Hub
	path    DerivationPath
	timeout time.Duration
	mu      sync.Mutex
}

// NewClient creates a Client. Zero config fields take their defaults.
func NewClient(hub Hub, cfg Config) *Client {
	path := cfg.Path
	if len(path) == 0 {
		path = DefaultDerivationPath
	}
	timeout := cfg.DiscoveryTimeout
	if timeout <= 0 {
		timeout = DefaultDiscoveryTimeout
	}
	return &Client{hub: hub, path: path, timeout: timeout}
}

// Path returns the derivation path used for every command.
func (c *Client) Path() DerivationPath { return c.path }

// Session is exclusive access to one discovered device. Each command opens
// the device and closes it before returning.
type Session struct {
	client *Client
	info   DeviceInfo
	once   sync.Once
}

// Acquire waits for exclusive access, then discovers a device. The returned
// Session must be released.
func (c *Client) Acquire(ctx context.Context) (*Session, error) {
	c.mu.Lock()
	info, err := Discover(ctx, c.hub, c.timeout)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	return &Session{client: c, info: info}, nil
}

// Info returns the discovered device.
func (s *Session) Info() DeviceInfo { return s.info }

// Release gives up exclusive access. It is safe to call more than once.
func (s *Session) Release() {
	s.once.Do(s.client.mu.Unlock)
}

// PublicKey returns the uncompressed public key of the account at the
// client's derivation path. Status 0x6d00 and 0x6e00 yield *AppNotOpenError;
// any other failure wraps ErrDeviceComm.
func (s *Session) PublicKey(ctx context.Context) ([]byte, error) {
	dev, err := s.client.hub.Open(ctx, s.info)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrDeviceComm, err)
	}
	defer func() { _ = dev.Close() }()

	apdu := append([]byte{CLA, InsGetPublicKey, 0x00, 0x00, 0x00}, s.client.path.Bytes()...)
	raw, err := dev.Exchange(ctx, apdu)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceComm, err)
	}
	data, err := splitStatus(raw)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			if IsAppNotOpen(se.Code) {
				return nil, &AppNotOpenError{Code: se.Code}
			}
			return nil, fmt.Errorf("%w: %w", ErrDeviceComm, se)
		}
		return nil, err
	}
	if len(data) < wallet.UncompressedKeySize {
		return nil, fmt.Errorf("%w: public key response is %d bytes", ErrDeviceComm, len(data))
	}
	pub := make([]byte, wallet.UncompressedKeySize)
	copy(pub, data[:wallet.UncompressedKeySize])
	return pub, nil
}

// Sign asks the device to sign the unsigned transaction encoding. The
// derivation path is appended to the payload before framing.
func (s *Session) Sign(ctx context.Context, unsignedHex string) (*Signature, error) {
	frames, err := FrameHex(unsignedHex + hexPath(s.client.path))
	if err != nil {
		return nil, err
	}
	dev, err := s.client.hub.Open(ctx, s.info)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrDeviceComm, err)
	}
	der, err := ExchangeFrames(ctx, dev, frames)
	if err != nil {
		return nil, err
	}
	return DecodeSignature(der)
}

func hexPath(p DerivationPath) string {
	return fmt.Sprintf("%x", p.Bytes())
}
