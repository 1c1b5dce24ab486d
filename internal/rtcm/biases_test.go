package rtcm

import (
	"testing"

	"github.com/ntripmon/ntripmon/internal/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// glonassBias1230Payload: station 8, 1 satellite (slot 5, bias -2.00ns).
var glonassBias1230Payload = []byte{0x4C, 0xE0, 0x08, 0x04, 0x5F, 0xF3, 0x80}

func TestDecodeGlonassBiases(t *testing.T) {
	buf := &sink.Buffer{}
	ok := decodeGlonassBiases(glonassBias1230Payload, buf)
	require.True(t, ok)
	out := buf.String()
	assert.Contains(t, out, "station 8")
	assert.Contains(t, out, "satellites=1")
	assert.Contains(t, out, "slot 5: bias=-2.00 ns")
}

func TestDecodeGlonassBiasesTooShortHeader(t *testing.T) {
	ok := decodeGlonassBiases(glonassBias1230Payload[:2], sink.Discard)
	assert.False(t, ok)
}

func TestDecodeGlonassBiasesTooShortForSatellite(t *testing.T) {
	ok := decodeGlonassBiases(glonassBias1230Payload[:4], sink.Discard)
	assert.False(t, ok)
}
