package rtcm

import (
	"github.com/ntripmon/ntripmon/internal/bitio"
	"github.com/ntripmon/ntripmon/internal/sink"
)

const glonassObsPerSatBits = 6 + 1 + 25 + 20 + 7 + 7 + 8 + 2 + 14 + 20 + 7 + 8

// decodeGlonassObs decodes 1012 (GLONASS L1/L2 RTK Observables).
func decodeGlonassObs(payload []byte, out sink.Sink) bool {
	bitLen := len(payload) * 8
	const headerBits = 12 + 12 + 27 + 1 + 6 + 1 + 3
	if !bitio.FitsBits(bitLen, 0, headerBits) {
		sink.Writef(out, "1012: payload too short for header")
		return false
	}

	msgType := int(bitio.Bits(payload, 0, 12))
	stationID := bitio.Bits(payload, 12, 12)
	epoch := bitio.Bits(payload, 24, 27)
	sync := bitio.Bits(payload, 51, 1)
	numSats := int(bitio.Bits(payload, 52, 6))
	smoothing := bitio.Bits(payload, 58, 1)
	smoothInterval := bitio.Bits(payload, 59, 3)

	sink.Writef(out, "type %d: station %d epoch=%d sync=%d sats=%d smoothing=%d/%d",
		msgType, stationID, epoch, sync, numSats, smoothing, smoothInterval)

	pos := headerBits
	for i := 0; i < numSats; i++ {
		if !bitio.FitsBits(bitLen, pos, glonassObsPerSatBits) {
			sink.Writef(out, "1012: payload too short for satellite %d/%d", i+1, numSats)
			return false
		}
		slot := bitio.Bits(payload, pos, 6)
		l1Code := bitio.Bits(payload, pos+6, 1)
		l1Pseudorange := bitio.Bits(payload, pos+7, 25)
		l1Phase := bitio.SignedBits(payload, pos+32, 20)
		l1Lock := bitio.Bits(payload, pos+52, 7)
		l1Ambiguity := bitio.Bits(payload, pos+59, 7)
		l1CNR := bitio.Bits(payload, pos+66, 8)
		l2Code := bitio.Bits(payload, pos+74, 2)
		l2PseudorangeDiff := bitio.SignedBits(payload, pos+76, 14)
		l2Phase := bitio.SignedBits(payload, pos+90, 20)
		l2Lock := bitio.Bits(payload, pos+110, 7)
		l2CNR := bitio.Bits(payload, pos+117, 8)

		sink.Writef(out, "  slot %d: L1[code=%d pr=%d phase=%d lock=%d amb=%d cnr=%d] L2[code=%d prDiff=%d phase=%d lock=%d cnr=%d]",
			slot, l1Code, l1Pseudorange, l1Phase, l1Lock, l1Ambiguity, l1CNR,
			l2Code, l2PseudorangeDiff, l2Phase, l2Lock, l2CNR)

		pos += glonassObsPerSatBits
	}
	return true
}
