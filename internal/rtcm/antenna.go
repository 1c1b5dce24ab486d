package rtcm

import (
	"github.com/ntripmon/ntripmon/internal/bitio"
	"github.com/ntripmon/ntripmon/internal/sink"
)

// maxDescriptorLen bounds the 1007/1008/1033 length-prefixed ASCII
// fields before copying, per spec.md §4.E.
const maxDescriptorLen = 64

// decodeAntennaDescriptor decodes 1007 (Antenna Descriptor) and 1008
// (Antenna Descriptor & Serial Number).
func decodeAntennaDescriptor(payload []byte, out sink.Sink) bool {
	bitLen := len(payload) * 8
	const headerBits = 12 + 12 + 8
	if !bitio.FitsBits(bitLen, 0, headerBits) {
		sink.Writef(out, "1007/1008: payload too short for header")
		return false
	}

	msgType := int(bitio.Bits(payload, 0, 12))
	stationID := bitio.Bits(payload, 12, 12)
	descLen := int(bitio.Bits(payload, 24, 8))
	if descLen > maxDescriptorLen {
		sink.Writef(out, "1007/1008: descriptor length %d exceeds %d", descLen, maxDescriptorLen)
		return false
	}

	descStart := headerBits
	if !bitio.FitsBits(bitLen, descStart, descLen*8) {
		sink.Writef(out, "1007/1008: payload too short for descriptor")
		return false
	}
	descriptor := readASCII(payload, descStart, descLen)

	after := descStart + descLen*8
	sink.Writef(out, "type %d: station %d antenna=%q", msgType, stationID, descriptor)

	switch msgType {
	case Type1007:
		if !bitio.FitsBits(bitLen, after, 8) {
			sink.Writef(out, "1007: payload too short for setup ID")
			return false
		}
		setupID := bitio.Bits(payload, after, 8)
		sink.Writef(out, "  setup ID=%d", setupID)
	case Type1008:
		if !bitio.FitsBits(bitLen, after, 8) {
			sink.Writef(out, "1008: payload too short for serial length")
			return false
		}
		serialLen := int(bitio.Bits(payload, after, 8))
		if serialLen > maxDescriptorLen {
			sink.Writef(out, "1008: serial length %d exceeds %d", serialLen, maxDescriptorLen)
			return false
		}
		serialStart := after + 8
		if !bitio.FitsBits(bitLen, serialStart, serialLen*8) {
			sink.Writef(out, "1008: payload too short for serial number")
			return false
		}
		sink.Writef(out, "  serial=%q", readASCII(payload, serialStart, serialLen))
	}
	return true
}

// readASCII reads n bytes starting at bit offset start as an ASCII
// string, one byte at a time through bitio so callers never index the
// buffer directly.
func readASCII(payload []byte, start, n int) string {
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = byte(bitio.Bits(payload, start+i*8, 8))
	}
	return string(b)
}
