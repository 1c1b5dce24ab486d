package rtcm

import (
	"testing"

	"github.com/ntripmon/ntripmon/internal/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// station1005Payload encodes a 1005 message for station 1 at
// (lat=52.0, lon=5.0, alt=50.0), ITRF year 0, GPS+GLONASS indicators
// set. Exactly 19 bytes (152 bits), the real RTCM minimum for 1005.
var station1005Payload = []byte{
	0x3E, 0xD0, 0x01, 0x03, 0x09, 0x20, 0x83, 0x30, 0x78, 0x00,
	0xCC, 0x6B, 0x19, 0x23, 0x0B, 0xA5, 0xED, 0x38, 0xC4,
}

// station1006Payload is the same station position with a 1006 type and
// a 16-bit antenna height of 1.2345 m appended (21 bytes).
var station1006Payload = []byte{
	0x3E, 0xE0, 0x01, 0x03, 0x09, 0x20, 0x83, 0x30, 0x78, 0x00,
	0xCC, 0x6B, 0x19, 0x23, 0x0B, 0xA5, 0xED, 0x38, 0xC4, 0x30, 0x39,
}

func TestDecodeStationARP1005(t *testing.T) {
	buf := &sink.Buffer{}
	ok := decodeStationARP(station1005Payload, buf, RoverPosition{})
	require.True(t, ok)
	assert.Contains(t, buf.String(), "station 1")
	assert.Contains(t, buf.String(), "lat=52.0")
}

func TestDecodeStationARP1006IncludesHeight(t *testing.T) {
	buf := &sink.Buffer{}
	ok := decodeStationARP(station1006Payload, buf, RoverPosition{})
	require.True(t, ok)
	assert.Contains(t, buf.String(), "antenna height=1.2345")
}

func TestDecodeStationARPTooShort(t *testing.T) {
	ok := decodeStationARP(station1005Payload[:10], sink.Discard, RoverPosition{})
	assert.False(t, ok)
}

func TestDecodeStationARP1006TooShortForHeight(t *testing.T) {
	ok := decodeStationARP(station1005Payload, sink.Discard, RoverPosition{})
	assert.True(t, ok, "a bare 1005 payload should decode without a height field")

	ok = decodeStationARP(station1006Payload[:19], sink.Discard, RoverPosition{})
	assert.False(t, ok, "1006 payload missing its height field must fail")
}

func TestDecodeStationARPAnnotatesDistanceFromRover(t *testing.T) {
	buf := &sink.Buffer{}
	ok := decodeStationARP(station1005Payload, buf, RoverPosition{Latitude: 52.1, Longitude: 5.0})
	require.True(t, ok)
	assert.Contains(t, buf.String(), "distance from rover=")
}

func TestDecodeViaDispatch(t *testing.T) {
	buf := &sink.Buffer{}
	res := Decode(station1005Payload, buf, RoverPosition{})
	assert.Equal(t, Type1005, res.MessageType)
	assert.False(t, res.TooShort)
	assert.Nil(t, res.MSM)
}
