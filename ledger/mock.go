package ledger

import "context"

// MockHub is a test double for Hub.
// All function fields must be set before the corresponding method is called.
type MockHub struct {
	ListFn func(ctx context.Context) ([]DeviceInfo, error)
	OpenFn func(ctx context.Context, info DeviceInfo) (Device, error)
}

func (m *MockHub) List(ctx context.Context) ([]DeviceInfo, error) {
	return m.ListFn(ctx)
}
func (m *MockHub) Open(ctx context.Context, info DeviceInfo) (Device, error) {
	return m.OpenFn(ctx, info)
}

// MockDevice is a test double for Device. It records every APDU it
// receives and whether it was closed.
type MockDevice struct {
	ExchangeFn func(ctx context.Context, apdu []byte) ([]byte, error)
	CloseFn    func() error

	Sent   [][]byte
	Closed int
}

func (m *MockDevice) Exchange(ctx context.Context, apdu []byte) ([]byte, error) {
	m.Sent = append(m.Sent, append([]byte(nil), apdu...))
	return m.ExchangeFn(ctx, apdu)
}
func (m *MockDevice) Close() error {
	m.Closed++
	if m.CloseFn == nil {
		return nil
	}
	return m.CloseFn()
}

// Compile-time interface checks.
var (
	_ Hub    = (*MockHub)(nil)
	_ Device = (*MockDevice)(nil)
)
