package rtcm

import (
	"math/bits"

	"github.com/ntripmon/ntripmon/internal/bitio"
	"github.com/ntripmon/ntripmon/internal/sink"
)

// msmHeaderBits is the absolute bit offset where the cell mask begins:
// the 12-bit message type, then the shared MSM header (spec.md §4.E)
// of station, epoch, multiple-message, IODS, reserved, clock-steering,
// ext-clock, divergence-free-smoothing, smoothing-interval, the 64-bit
// satellite mask, and the 32-bit signal mask.
const msmHeaderBits = 12 + 12 + 30 + 1 + 3 + 7 + 2 + 2 + 1 + 3 + 64 + 32

type msmHeader struct {
	station        uint64
	epoch          uint64
	multipleMsg    uint64
	iods           uint64
	clockSteering  uint64
	extClock       uint64
	divFreeSmooth  uint64
	smoothInterval uint64
	satMask        uint64
	sigMask        uint32
	numSats        int
	numSigs        int
}

// msm4CellWidths gives the per-cell fine-pseudorange and
// fine-phase-range bit widths and scales for an MSM4 message; 1124 uses wider
// phase and a different pseudorange scale per spec.md §4.E.
func msm4CellWidths(msgType int) (prBits, phaseBits int, prScale, phaseScale float64) {
	if msgType == Type1124 {
		return 15, 24, 0.1, 0.0005
	}
	return 15, 22, 0.02, 0.0005
}

func decodeMSMHeader(payload []byte) msmHeader {
	var h msmHeader
	h.station = bitio.Bits(payload, 12, 12)
	h.epoch = bitio.Bits(payload, 24, 30)
	h.multipleMsg = bitio.Bits(payload, 54, 1)
	h.iods = bitio.Bits(payload, 55, 3)
	// bits 58..64: reserved (7 bits)
	h.clockSteering = bitio.Bits(payload, 65, 2)
	h.extClock = bitio.Bits(payload, 67, 2)
	h.divFreeSmooth = bitio.Bits(payload, 69, 1)
	h.smoothInterval = bitio.Bits(payload, 70, 3)
	h.satMask = bitio.Bits(payload, 73, 64)
	h.sigMask = uint32(bitio.Bits(payload, 137, 32))
	h.numSats = bits.OnesCount64(h.satMask)
	h.numSigs = bits.OnesCount32(h.sigMask)
	return h
}

// decodeCellMask reads the S*G-bit cell mask that follows the header
// and returns it alongside its popcount.
func decodeCellMask(payload []byte, pos, numCells int) (mask []bool, active int) {
	mask = make([]bool, numCells)
	for i := 0; i < numCells; i++ {
		if bitio.Bits(payload, pos+i, 1) == 1 {
			mask[i] = true
			active++
		}
	}
	return mask, active
}

func satellitePRNs(satMask uint64) []int {
	var prns []int
	for i := 0; i < 64; i++ {
		if satMask&(uint64(1)<<uint(63-i)) != 0 {
			prns = append(prns, i+1)
		}
	}
	return prns
}

// decodeMSM4 decodes an MSM4 observation message (1074/1084/1094/1124).
func decodeMSM4(payload []byte, out sink.Sink, msgType int) (*MSMInfo, bool) {
	bitLen := len(payload) * 8
	if !bitio.FitsBits(bitLen, 0, msmHeaderBits) {
		sink.Writef(out, "%d: payload too short for MSM header", msgType)
		return nil, false
	}
	h := decodeMSMHeader(payload)
	cellBits := h.numSats * h.numSigs
	if !bitio.FitsBits(bitLen, msmHeaderBits, cellBits) {
		sink.Writef(out, "%d: payload too short for cell mask", msgType)
		return nil, false
	}
	_, numCells := decodeCellMask(payload, msmHeaderBits, cellBits)

	info := &MSMInfo{
		GNSS:     GNSSForType(msgType),
		SatMask:  h.satMask,
		NumSats:  h.numSats,
		NumSigs:  h.numSigs,
		NumCells: numCells,
	}

	sink.Writef(out, "type %d: station %d epoch=%d sats=%d sigs=%d cells=%d",
		msgType, h.station, h.epoch, h.numSats, h.numSigs, numCells)

	prBits, phaseBits, prScale, phaseScale := msm4CellWidths(msgType)
	cellFieldBits := prBits + phaseBits + 4 + 1 + 6
	pos := msmHeaderBits + cellBits
	if !bitio.FitsBits(bitLen, pos, numCells*cellFieldBits) {
		sink.Writef(out, "%d: payload too short for %d cells", msgType, numCells)
		return info, false
	}
	for c := 0; c < numCells; c++ {
		pr := float64(bitio.SignedBits(payload, pos, prBits)) * prScale
		pos += prBits
		phase := float64(bitio.SignedBits(payload, pos, phaseBits)) * phaseScale
		pos += phaseBits
		lock := bitio.Bits(payload, pos, 4)
		pos += 4
		halfCycle := bitio.Bits(payload, pos, 1)
		pos++
		cnr := bitio.Bits(payload, pos, 6)
		pos += 6
		sink.Writef(out, "  cell %d: pr=%.3fm phase=%.4fm lock=%d halfCycle=%d cnr=%d",
			c, pr, phase, lock, halfCycle, cnr)
	}
	return info, true
}

// decodeMSM7 decodes an MSM7 observation message
// (1077/1087/1097/1117/1127/1137).
func decodeMSM7(payload []byte, out sink.Sink, msgType int) (*MSMInfo, bool) {
	bitLen := len(payload) * 8
	if !bitio.FitsBits(bitLen, 0, msmHeaderBits) {
		sink.Writef(out, "%d: payload too short for MSM header", msgType)
		return nil, false
	}
	h := decodeMSMHeader(payload)
	cellBits := h.numSats * h.numSigs
	if !bitio.FitsBits(bitLen, msmHeaderBits, cellBits) {
		sink.Writef(out, "%d: payload too short for cell mask", msgType)
		return nil, false
	}
	_, numCells := decodeCellMask(payload, msmHeaderBits, cellBits)

	info := &MSMInfo{
		GNSS:     GNSSForType(msgType),
		SatMask:  h.satMask,
		NumSats:  h.numSats,
		NumSigs:  h.numSigs,
		NumCells: numCells,
	}

	sink.Writef(out, "type %d: station %d epoch=%d sats=%d sigs=%d cells=%d",
		msgType, h.station, h.epoch, h.numSats, h.numSigs, numCells)

	const perSatBits = 8 + 4 + 10 + 14
	pos := msmHeaderBits + cellBits
	if !bitio.FitsBits(bitLen, pos, h.numSats*perSatBits) {
		sink.Writef(out, "%d: payload too short for %d satellite rough-range blocks", msgType, h.numSats)
		return info, false
	}
	prns := satellitePRNs(h.satMask)
	for i := 0; i < h.numSats; i++ {
		roughRange := bitio.Bits(payload, pos, 8)
		pos += 8
		extInfo := bitio.Bits(payload, pos, 4)
		pos += 4
		roughRangeMod := bitio.Bits(payload, pos, 10)
		pos += 10
		roughPhaseRate := bitio.SignedBits(payload, pos, 14)
		pos += 14
		prn := 0
		if i < len(prns) {
			prn = prns[i]
		}
		sink.Writef(out, "  sat PRN%d: roughRange=%dms extInfo=%d roughRangeMod=%d/1024ms roughPhaseRate=%dm/s",
			prn, roughRange, extInfo, roughRangeMod, roughPhaseRate)
	}

	const cellFieldBits = 20 + 24 + 10 + 1 + 10 + 15
	if !bitio.FitsBits(bitLen, pos, numCells*cellFieldBits) {
		sink.Writef(out, "%d: payload too short for %d cells", msgType, numCells)
		return info, false
	}
	for c := 0; c < numCells; c++ {
		pr := float64(bitio.SignedBits(payload, pos, 20)) * twoExp(-29)
		pos += 20
		phase := float64(bitio.SignedBits(payload, pos, 24)) * twoExp(-31)
		pos += 24
		lock := bitio.Bits(payload, pos, 10)
		pos += 10
		halfCycle := bitio.Bits(payload, pos, 1)
		pos++
		cnr := float64(bitio.Bits(payload, pos, 10)) * 0.0625
		pos += 10
		phaseRate := float64(bitio.SignedBits(payload, pos, 15)) * 0.0001
		pos += 15
		sink.Writef(out, "  cell %d: pr=%.6fms phase=%.6fms lock=%d halfCycle=%d cnr=%.4fdBHz phaseRate=%.4fm/s",
			c, pr, phase, lock, halfCycle, cnr, phaseRate)
	}
	return info, true
}
