package ledger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramePayload_Counts(t *testing.T) {
	tests := []struct {
		size   int
		frames int
	}{
		{1, 1},
		{254, 1},
		{255, 1},
		{256, 2},
		{510, 2},
		{511, 3},
		{1000, 4},
	}
	for _, tc := range tests {
		payload := make([]byte, tc.size)
		for i := range payload {
			payload[i] = byte(i)
		}

		frames, err := FramePayload(payload)
		require.NoError(t, err)
		require.Len(t, frames, tc.frames, "size %d", tc.size)

		var joined []byte
		for i, f := range frames {
			assert.LessOrEqual(t, len(f.Data), MaxChunkSize)
			if i == len(frames)-1 {
				assert.Equal(t, P1Last, f.P1)
				assert.True(t, f.Final())
			} else {
				assert.Equal(t, P1More, f.P1)
				assert.Len(t, f.Data, MaxChunkSize)
			}
			joined = append(joined, f.Data...)
		}
		assert.Equal(t, payload, joined)
	}
}

func TestFramePayload_DoesNotAlias(t *testing.T) {
	payload := []byte{1, 2, 3}
	frames, err := FramePayload(payload)
	require.NoError(t, err)
	payload[0] = 9
	assert.Equal(t, byte(1), frames[0].Data[0])
}

func TestFramePayload_Empty(t *testing.T) {
	_, err := FramePayload(nil)
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = FrameHex("")
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestFrameHex(t *testing.T) {
	frames, err := FrameHex(strings.Repeat("ab", 300))
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Len(t, frames[1].Data, 45)

	_, err = FrameHex("xyz")
	assert.Error(t, err)
}

func TestFrameAPDU(t *testing.T) {
	f := Frame{P1: P1More, Data: bytes.Repeat([]byte{0xaa}, MaxChunkSize)}
	apdu := f.APDU()
	assert.Equal(t, []byte{0x80, 0x02, 0x00, 0x00, 0xff}, apdu[:5])
	assert.Len(t, apdu, 5+MaxChunkSize)

	last := Frame{P1: P1Last, Data: []byte{0x01, 0x02}}
	assert.Equal(t, []byte{0x80, 0x02, 0x80, 0x00, 0x02, 0x01, 0x02}, last.APDU())
}
