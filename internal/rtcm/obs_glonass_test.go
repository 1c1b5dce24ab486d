package rtcm

import (
	"testing"

	"github.com/ntripmon/ntripmon/internal/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// glonass1012Payload: station 9, epoch 100, 1 satellite (slot 3) with
// known L1/L2 fields.
var glonass1012Payload = []byte{
	0x3F, 0x40, 0x09, 0x00, 0x00, 0x0C, 0x80, 0x40, 0x3A, 0xF1, 0x85, 0x3B,
	0xFF, 0x83, 0x05, 0x05, 0xC8, 0xBF, 0x9C, 0xFF, 0xDA, 0x82, 0x96, 0x80,
}

func TestDecodeGlonassObs(t *testing.T) {
	buf := &sink.Buffer{}
	ok := decodeGlonassObs(glonass1012Payload, buf)
	require.True(t, ok)
	out := buf.String()
	assert.Contains(t, out, "station 9")
	assert.Contains(t, out, "sats=1")
	assert.Contains(t, out, "slot 3")
}

func TestDecodeGlonassObsTooShortHeader(t *testing.T) {
	ok := decodeGlonassObs(glonass1012Payload[:5], sink.Discard)
	assert.False(t, ok)
}

func TestDecodeGlonassObsTooShortForSatellite(t *testing.T) {
	ok := decodeGlonassObs(glonass1012Payload[:9], sink.Discard)
	assert.False(t, ok)
}
