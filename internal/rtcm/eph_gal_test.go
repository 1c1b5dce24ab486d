package rtcm

import (
	"testing"

	"github.com/ntripmon/ntripmon/internal/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// galEph1045Payload: SVID 7, week 200, health 5, every other field zero.
var galEph1045Payload = []byte{
	0x41, 0x51, 0xC3, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x14,
}

func TestDecodeGalileoEphemeris(t *testing.T) {
	buf := &sink.Buffer{}
	ok := decodeGalileoEphemeris(galEph1045Payload, buf)
	require.True(t, ok)
	out := buf.String()
	assert.Contains(t, out, "SVID 7")
	assert.Contains(t, out, "week 200")
	assert.Contains(t, out, "health=5")
}

func TestDecodeGalileoEphemerisTooShort(t *testing.T) {
	ok := decodeGalileoEphemeris(galEph1045Payload[:10], sink.Discard)
	assert.False(t, ok)
}
