package rtcm

import (
	"testing"

	"github.com/ntripmon/ntripmon/internal/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var antenna1007Payload = []byte{0x3E, 0xF0, 0x07, 0x07, 0x41, 0x6E, 0x74, 0x44, 0x65, 0x73, 0x63, 0x03}

var antenna1008Payload = []byte{
	0x3F, 0x00, 0x07, 0x07, 0x41, 0x6E, 0x74, 0x44, 0x65, 0x73, 0x63, 0x03, 0x53, 0x4E, 0x31,
}

func TestDecodeAntennaDescriptor1007(t *testing.T) {
	buf := &sink.Buffer{}
	ok := decodeAntennaDescriptor(antenna1007Payload, buf)
	require.True(t, ok)
	assert.Contains(t, buf.String(), `antenna="AntDesc"`)
	assert.Contains(t, buf.String(), "setup ID=3")
}

func TestDecodeAntennaDescriptor1008(t *testing.T) {
	buf := &sink.Buffer{}
	ok := decodeAntennaDescriptor(antenna1008Payload, buf)
	require.True(t, ok)
	assert.Contains(t, buf.String(), `antenna="AntDesc"`)
	assert.Contains(t, buf.String(), `serial="SN1"`)
}

func TestDecodeAntennaDescriptorTooShort(t *testing.T) {
	ok := decodeAntennaDescriptor(antenna1007Payload[:2], sink.Discard)
	assert.False(t, ok)
}

func TestDecodeAntennaDescriptorRejectsOversizeLength(t *testing.T) {
	bad := append([]byte(nil), antenna1007Payload...)
	bad[3] = byte(maxDescriptorLen + 1)
	ok := decodeAntennaDescriptor(bad, sink.Discard)
	assert.False(t, ok)
}
