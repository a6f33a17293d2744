package ledger

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/zondax/hid"
)

// Ledger USB identifiers and HID framing constants.
const (
	VendorLedger = 0x2c97

	usagePageLedger = 0xffa0
	hidChannel      = 0x0101
	hidTagAPDU      = 0x05
	hidPacketSize   = 64
)

// hidConn is the subset of *hid.Device used by the transport.
type hidConn interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	Close() error
}

// HIDHub enumerates Ledger devices over USB HID.
type HIDHub struct {
	mu sync.Mutex
}

// NewHIDHub returns a Hub backed by the host's HID stack.
func NewHIDHub() *HIDHub { return &HIDHub{} }

// Compile-time interface check.
var _ Hub = (*HIDHub)(nil)

// List returns the connected Ledger devices.
func (h *HIDHub) List(_ context.Context) ([]DeviceInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return ledgerInterfaces(hid.Enumerate(VendorLedger, 0)), nil
}

// ledgerInterfaces keeps the APDU interface of each enumerated device.
func ledgerInterfaces(infos []hid.DeviceInfo) []DeviceInfo {
	var out []DeviceInfo
	for _, d := range infos {
		if d.UsagePage != usagePageLedger && d.Interface != 0 {
			continue
		}
		out = append(out, DeviceInfo{Path: d.Path, Product: d.Product, Serial: d.Serial})
	}
	return out
}

// Open opens the device at info.Path.
func (h *HIDHub) Open(_ context.Context, info DeviceInfo) (Device, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, d := range hid.Enumerate(VendorLedger, 0) {
		if d.Path != info.Path {
			continue
		}
		dev, err := d.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrDeviceComm, info.Path, err)
		}
		return &hidDevice{conn: dev}, nil
	}
	return nil, fmt.Errorf("%w: %s disconnected", ErrDeviceNotFound, info.Path)
}

// hidDevice exchanges APDUs over HID packets.
type hidDevice struct {
	conn hidConn
}

// Compile-time interface check.
var _ Device = (*hidDevice)(nil)

func (d *hidDevice) Exchange(ctx context.Context, apdu []byte) ([]byte, error) {
	for _, pkt := range wrapAPDU(hidChannel, apdu, hidPacketSize) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := d.conn.Write(pkt); err != nil {
			return nil, fmt.Errorf("hid write: %w", err)
		}
	}
	return readResponse(ctx, d.conn, hidChannel, hidPacketSize)
}

func (d *hidDevice) Close() error { return d.conn.Close() }

// wrapAPDU splits apdu into fixed-size HID packets. Every packet starts with
// channel (2 bytes), tag and sequence index (2 bytes); the first packet
// also carries the APDU length (2 bytes). Packets are zero-padded.
func wrapAPDU(channel uint16, apdu []byte, packetSize int) [][]byte {
	body := make([]byte, 2+len(apdu))
	binary.BigEndian.PutUint16(body, uint16(len(apdu)))
	copy(body[2:], apdu)

	const header = 5
	var packets [][]byte
	for seq := 0; len(body) > 0; seq++ {
		pkt := make([]byte, packetSize)
		binary.BigEndian.PutUint16(pkt, channel)
		pkt[2] = hidTagAPDU
		binary.BigEndian.PutUint16(pkt[3:], uint16(seq))
		n := copy(pkt[header:], body)
		body = body[n:]
		packets = append(packets, pkt)
	}
	return packets
}

// readResponse reassembles a response from HID packets.
func readResponse(ctx context.Context, r hidConn, channel uint16, packetSize int) ([]byte, error) {
	var (
		resp     []byte
		total    = -1
		buf      = make([]byte, packetSize)
		expected uint16
	)
	for total < 0 || len(resp) < total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("hid read: %w", err)
		}
		if n < 5 {
			return nil, fmt.Errorf("hid read: short packet (%d bytes)", n)
		}
		pkt := buf[:n]
		if binary.BigEndian.Uint16(pkt) != channel || pkt[2] != hidTagAPDU {
			return nil, fmt.Errorf("hid read: unexpected channel or tag")
		}
		if seq := binary.BigEndian.Uint16(pkt[3:]); seq != expected {
			return nil, fmt.Errorf("hid read: sequence %d, want %d", seq, expected)
		}
		data := pkt[5:]
		if expected == 0 {
			if len(data) < 2 {
				return nil, fmt.Errorf("hid read: missing response length")
			}
			total = int(binary.BigEndian.Uint16(data))
			data = data[2:]
		}
		expected++
		remaining := total - len(resp)
		if len(data) > remaining {
			data = data[:remaining]
		}
		resp = append(resp, data...)
	}
	return resp, nil
}
