// Package rtcm decodes the RTCM 3.x message subset named in spec.md
// §4.E: station/antenna/receiver descriptors, GPS/Galileo ephemeris,
// GLONASS observables, system parameters, MSM4/MSM7 observation sets,
// and GLONASS code-phase biases. Every decoder reads through
// internal/bitio, bounds-checks before each read, and writes
// human-readable lines to an internal/sink.Sink; nothing here retains
// state between calls except the package-level scale constants.
//
// Field widths and scale factors are transcribed from spec.md §4.E,
// which is itself the RTCM 10403.3 standard's own tables; the bit-
// reading idiom (signed_bits == masked two's complement at the
// declared width) is grounded on bramburn-gnssgo's GetBitU/GetBitsU and
// FengXuebin-gnssgo's GetBits in common.go.
package rtcm

import "github.com/ntripmon/ntripmon/internal/sink"

// Message type constants for the subset this package decodes.
const (
	Type1005 = 1005
	Type1006 = 1006
	Type1007 = 1007
	Type1008 = 1008
	Type1012 = 1012
	Type1013 = 1013
	Type1019 = 1019
	Type1033 = 1033
	Type1045 = 1045
	Type1230 = 1230

	// MSM4 (GPS, GLONASS, Galileo, BeiDou)
	Type1074 = 1074
	Type1084 = 1084
	Type1094 = 1094
	Type1124 = 1124

	// MSM7 (GPS, GLONASS, Galileo, QZSS, BeiDou, SBAS)
	Type1077 = 1077
	Type1087 = 1087
	Type1097 = 1097
	Type1117 = 1117
	Type1127 = 1127
	Type1137 = 1137
)

// GNSS identifiers, spec.md §3.
const (
	GNSSNone    = 0
	GNSSGPS     = 1
	GNSSGLONASS = 2
	GNSSGalileo = 3
	GNSSQZSS    = 4
	GNSSBeiDou  = 5
	GNSSSBAS    = 6
)

// GNSSForType derives the per-GNSS satellite-set key from an RTCM
// message type per spec.md §3's range table. It returns GNSSNone for
// types outside any named range.
func GNSSForType(messageType int) int {
	switch {
	case messageType >= 1070 && messageType < 1080:
		return GNSSGPS
	case messageType >= 1080 && messageType < 1090:
		return GNSSGLONASS
	case messageType >= 1090 && messageType < 1100:
		return GNSSGalileo
	case messageType >= 1110 && messageType < 1120:
		return GNSSQZSS
	case messageType >= 1120 && messageType < 1130:
		return GNSSBeiDou
	case messageType >= 1130 && messageType < 1140:
		return GNSSSBAS
	default:
		return GNSSNone
	}
}

// RoverPosition is the optional fixed rover location used to annotate
// 1005/1006 station positions with distance and bearing.
type RoverPosition struct {
	Latitude  float64
	Longitude float64
}

// IsZero reports whether both coordinates are exactly zero, the
// sentinel spec.md §3 uses for "distance not computed".
func (r RoverPosition) IsZero() bool {
	return r.Latitude == 0 && r.Longitude == 0
}

// MSMInfo carries the fields the stat aggregator (internal/stats) needs
// out of an MSM header without re-parsing it: the GNSS this message
// belongs to and its 64-bit satellite mask (spec.md §4.F).
type MSMInfo struct {
	GNSS     int
	SatMask  uint64
	NumSats  int
	NumSigs  int
	NumCells int
}

// Result summarizes what Decode did, for the caller (the NTRIP worker)
// to feed into the stat aggregator and event bus.
type Result struct {
	MessageType int
	TooShort    bool
	MSM         *MSMInfo // non-nil only for MSM4/MSM7 message types
}

// Decode dispatches payload (which begins with the 12-bit message type)
// to the matching field decoder, writing human-readable lines to out.
// Payloads for message types this package does not implement are
// reported by type number only; decoding never panics on a short
// payload, it emits one diagnostic and returns.
func Decode(payload []byte, out sink.Sink, rover RoverPosition) Result {
	if len(payload) < 2 {
		return Result{TooShort: true}
	}
	msgType := int(payload[0])<<4 | int(payload[1])>>4
	res := Result{MessageType: msgType}

	switch msgType {
	case Type1005, Type1006:
		res.TooShort = !decodeStationARP(payload, out, rover)
	case Type1007, Type1008:
		res.TooShort = !decodeAntennaDescriptor(payload, out)
	case Type1012:
		res.TooShort = !decodeGlonassObs(payload, out)
	case Type1013:
		res.TooShort = !decodeSystemParameters(payload, out)
	case Type1019:
		res.TooShort = !decodeGPSEphemeris(payload, out)
	case Type1033:
		res.TooShort = !decodeReceiverAntennaDescriptors(payload, out)
	case Type1045:
		res.TooShort = !decodeGalileoEphemeris(payload, out)
	case Type1230:
		res.TooShort = !decodeGlonassBiases(payload, out)
	case Type1074, Type1084, Type1094, Type1124:
		info, ok := decodeMSM4(payload, out, msgType)
		res.TooShort = !ok
		res.MSM = info
	case Type1077, Type1087, Type1097, Type1117, Type1127, Type1137:
		info, ok := decodeMSM7(payload, out, msgType)
		res.TooShort = !ok
		res.MSM = info
	default:
		sink.Writef(out, "type %d: no decoder", msgType)
	}
	return res
}
