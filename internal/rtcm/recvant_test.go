package rtcm

import (
	"testing"

	"github.com/ntripmon/ntripmon/internal/sink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recvAntenna1033Payload = []byte{
	0x40, 0x90, 0x05, 0x07, 0x41, 0x6E, 0x74, 0x44, 0x65, 0x73, 0x63, 0x03, 0x53, 0x4E, 0x31, 0x08,
	0x52, 0x65, 0x63, 0x76, 0x54, 0x79, 0x70, 0x65, 0x03, 0x52, 0x53, 0x31,
}

func TestDecodeReceiverAntennaDescriptors(t *testing.T) {
	buf := &sink.Buffer{}
	ok := decodeReceiverAntennaDescriptors(recvAntenna1033Payload, buf)
	require.True(t, ok)
	out := buf.String()
	assert.Contains(t, out, "station 5")
	assert.Contains(t, out, `antenna descriptor="AntDesc"`)
	assert.Contains(t, out, `antenna serial="SN1"`)
	assert.Contains(t, out, `receiver type="RecvType"`)
	assert.Contains(t, out, `receiver serial="RS1"`)
}

func TestDecodeReceiverAntennaDescriptorsTooShort(t *testing.T) {
	ok := decodeReceiverAntennaDescriptors(recvAntenna1033Payload[:2], sink.Discard)
	assert.False(t, ok)
}
