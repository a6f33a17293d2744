package ledger

import (
	"encoding/hex"
	"fmt"
)

// APDU header fields for the NEO application.
const (
	CLA             byte = 0x80
	InsSign         byte = 0x02
	InsGetPublicKey byte = 0x04

	// P1More marks a frame that is followed by more frames.
	P1More byte = 0x00
	// P1Last marks the final frame of a payload.
	P1Last byte = 0x80
)

// MaxChunkSize is the largest payload one frame can carry.
const MaxChunkSize = 255

// Frame is one signing command carrying a slice of the payload.
type Frame struct {
	P1   byte
	Data []byte
}

// Final reports whether f is the last frame of its payload.
func (f Frame) Final() bool { return f.P1 == P1Last }

// APDU encodes the frame as CLA INS P1 P2 Lc data.
func (f Frame) APDU() []byte {
	apdu := make([]byte, 0, 5+len(f.Data))
	apdu = append(apdu, CLA, InsSign, f.P1, 0x00, byte(len(f.Data)))
	return append(apdu, f.Data...)
}

// FramePayload splits payload into frames of at most MaxChunkSize bytes.
// Only the last frame is marked P1Last.
func FramePayload(payload []byte) ([]Frame, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	frames := make([]Frame, 0, (len(payload)+MaxChunkSize-1)/MaxChunkSize)
	for i := 0; i < len(payload); i += MaxChunkSize {
		end := i + MaxChunkSize
		p1 := P1More
		if end >= len(payload) {
			end = len(payload)
			p1 = P1Last
		}
		chunk := make([]byte, end-i)
		copy(chunk, payload[i:end])
		frames = append(frames, Frame{P1: p1, Data: chunk})
	}
	return frames, nil
}

// FrameHex is FramePayload for a hex-encoded payload.
func FrameHex(payloadHex string) ([]Frame, error) {
	payload, err := hex.DecodeString(payloadHex)
	if err != nil {
		return nil, fmt.Errorf("ledger: decode payload: %w", err)
	}
	return FramePayload(payload)
}
