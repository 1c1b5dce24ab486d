package rtcm

import (
	"github.com/ntripmon/ntripmon/internal/bitio"
	"github.com/ntripmon/ntripmon/internal/sink"
)

// glonassBiasScale is the 0.01 ns unit for the 1230 per-satellite bias
// field, spec.md §4.E.
const glonassBiasScale = 0.01

const glonassBiasPerSatBits = 6 + 16

// decodeGlonassBiases decodes 1230 (GLONASS code-phase biases).
func decodeGlonassBiases(payload []byte, out sink.Sink) bool {
	bitLen := len(payload) * 8
	const headerBits = 12 + 12 + 6
	if !bitio.FitsBits(bitLen, 0, headerBits) {
		sink.Writef(out, "1230: payload too short for header")
		return false
	}

	msgType := int(bitio.Bits(payload, 0, 12))
	stationID := bitio.Bits(payload, 12, 12)
	numSats := int(bitio.Bits(payload, 24, 6))

	sink.Writef(out, "type %d: station %d satellites=%d", msgType, stationID, numSats)

	pos := headerBits
	for i := 0; i < numSats; i++ {
		if !bitio.FitsBits(bitLen, pos, glonassBiasPerSatBits) {
			sink.Writef(out, "1230: payload too short for satellite %d/%d", i+1, numSats)
			return false
		}
		slot := bitio.Bits(payload, pos, 6)
		bias := float64(bitio.SignedBits(payload, pos+6, 16)) * glonassBiasScale
		sink.Writef(out, "  slot %d: bias=%.2f ns", slot, bias)
		pos += glonassBiasPerSatBits
	}
	return true
}
