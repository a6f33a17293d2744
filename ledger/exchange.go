package ledger

import (
	"context"
	"fmt"
)

// ExchangeFrames sends frames to dev one at a time, checking the status of
// every response before sending the next frame. It returns the data of the
// final frame's response. dev is closed before ExchangeFrames returns.
func ExchangeFrames(ctx context.Context, dev Device, frames []Frame) ([]byte, error) {
	defer func() { _ = dev.Close() }()

	if len(frames) == 0 {
		return nil, ErrEmptyPayload
	}

	for i, f := range frames {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDeviceComm, err)
		}
		raw, err := dev.Exchange(ctx, f.APDU())
		if err != nil {
			return nil, fmt.Errorf("%w: frame %d/%d: %w", ErrDeviceComm, i+1, len(frames), err)
		}
		data, err := splitStatus(raw)
		if err != nil {
			return nil, err
		}
		if f.Final() {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: no final frame", ErrDeviceComm)
}
