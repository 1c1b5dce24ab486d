package rtcm

import (
	"github.com/ntripmon/ntripmon/internal/bitio"
	"github.com/ntripmon/ntripmon/internal/sink"
)

// decodeReceiverAntennaDescriptors decodes 1033 (Receiver and Antenna
// Descriptors): header plus four length-prefixed ASCII strings.
func decodeReceiverAntennaDescriptors(payload []byte, out sink.Sink) bool {
	bitLen := len(payload) * 8
	pos := 0
	if !bitio.FitsBits(bitLen, pos, 24) {
		sink.Writef(out, "1033: payload too short for header")
		return false
	}
	msgType := int(bitio.Bits(payload, pos, 12))
	stationID := bitio.Bits(payload, pos+12, 12)
	pos += 24

	fields := []string{"antenna descriptor", "antenna serial", "receiver type", "receiver serial"}
	values := make([]string, len(fields))
	for i, name := range fields {
		if !bitio.FitsBits(bitLen, pos, 8) {
			sink.Writef(out, "1033: payload too short for %s length", name)
			return false
		}
		n := int(bitio.Bits(payload, pos, 8))
		pos += 8
		if n > maxDescriptorLen {
			sink.Writef(out, "1033: %s length %d exceeds %d", name, n, maxDescriptorLen)
			return false
		}
		if !bitio.FitsBits(bitLen, pos, n*8) {
			sink.Writef(out, "1033: payload too short for %s", name)
			return false
		}
		values[i] = readASCII(payload, pos, n)
		pos += n * 8
	}

	sink.Writef(out, "type %d: station %d", msgType, stationID)
	for i, name := range fields {
		sink.Writef(out, "  %s=%q", name, values[i])
	}
	return true
}
