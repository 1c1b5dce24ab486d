package rtcm

import (
	"math"

	"github.com/ntripmon/ntripmon/internal/bitio"
	"github.com/ntripmon/ntripmon/internal/sink"
)

// GPS navigation scale factors, spec.md §4.E. Named by the exponent of
// two (and, where the quantity is an angle, the extra factor of pi)
// they scale their raw integer field by, matching the RTCM/ICD-GPS-200
// convention the spec cites for af0, delta-n and sqrt(A).
var (
	scaleIDOT   = math.Pi * twoExp(-43) // rad/s
	scaleTOC    = twoExp(4)             // s
	scaleAF2    = twoExp(-55)           // s/s^2
	scaleAF1    = twoExp(-43)           // s/s
	scaleAF0    = twoExp(-31)           // s
	scaleCRS    = twoExp(-5)            // m
	scaleDeltaN = math.Pi * twoExp(-43) // rad/s
	scaleM0     = math.Pi * twoExp(-31) // rad
	scaleCUC    = twoExp(-29)           // rad
	scaleCUS    = twoExp(-29)           // rad
	scaleCRC    = twoExp(-5)            // m
	scaleCIC    = twoExp(-29)           // rad
	scaleCIS    = twoExp(-29)           // rad
	scaleE      = twoExp(-33)           // dimensionless
	scaleSqrtA  = twoExp(-19)           // m^1/2
	scaleTOE    = twoExp(4)             // s
	scaleTGD    = twoExp(-31)           // s
	scaleTxTime = twoExp(4)             // s
)

func twoExp(n int) float64 { return math.Ldexp(1, n) }

// gpsEphemerisFieldBits is the bit layout of spec.md §4.E's 1019 field
// list, in order, excluding the leading 12-bit message type.
var gpsEphemerisFieldBits = []int{
	6,  // PRN
	10, // week
	4,  // SV accuracy
	2,  // code on L2
	14, // IDOT (signed)
	8,  // IODE
	16, // toc
	8,  // af2 (signed)
	16, // af1 (signed)
	22, // af0 (signed)
	10, // IODC
	16, // crs (signed)
	16, // delta-n (signed)
	32, // M0 (signed)
	16, // cuc (signed)
	16, // cus (signed)
	16, // crc (signed)
	16, // crs2 (signed) -- second correction term, spec.md §4.E field list
	16, // cic (signed)
	16, // cis (signed)
	32, // e
	32, // sqrt(A)
	16, // toe
	1,  // fit flag
	5,  // AODO
	6,  // health
	8,  // TGD (signed)
	16, // tx time
	2,  // reserved
}

var gpsEphemerisSigned = map[int]bool{
	4: true, 7: true, 8: true, 9: true, 11: true, 12: true, 13: true,
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 26: true,
}

// decodeGPSEphemeris decodes 1019 (GPS broadcast ephemeris).
func decodeGPSEphemeris(payload []byte, out sink.Sink) bool {
	bitLen := len(payload) * 8
	total := 12
	for _, w := range gpsEphemerisFieldBits {
		total += w
	}
	if !bitio.FitsBits(bitLen, 0, total) {
		sink.Writef(out, "1019: payload too short (%d bits, need %d)", bitLen, total)
		return false
	}

	msgType := int(bitio.Bits(payload, 0, 12))
	pos := 12

	raw := make([]int64, len(gpsEphemerisFieldBits))
	for i, w := range gpsEphemerisFieldBits {
		if gpsEphemerisSigned[i] {
			raw[i] = bitio.SignedBits(payload, pos, w)
		} else {
			raw[i] = int64(bitio.Bits(payload, pos, w))
		}
		pos += w
	}

	prn := raw[0]
	week := raw[1]
	svAccuracy := raw[2]
	codeOnL2 := raw[3]
	idot := float64(raw[4]) * scaleIDOT
	iode := raw[5]
	toc := float64(raw[6]) * scaleTOC
	af2 := float64(raw[7]) * scaleAF2
	af1 := float64(raw[8]) * scaleAF1
	af0 := float64(raw[9]) * scaleAF0
	iodc := raw[10]
	crs := float64(raw[11]) * scaleCRS
	deltaN := float64(raw[12]) * scaleDeltaN
	m0 := float64(raw[13]) * scaleM0
	cuc := float64(raw[14]) * scaleCUC
	cus := float64(raw[15]) * scaleCUS
	crc := float64(raw[16]) * scaleCRC
	crs2 := float64(raw[17]) * scaleCRS
	cic := float64(raw[18]) * scaleCIC
	cis := float64(raw[19]) * scaleCIS
	e := float64(raw[20]) * scaleE
	sqrtA := float64(raw[21]) * scaleSqrtA
	toe := float64(raw[22]) * scaleTOE
	fitFlag := raw[23]
	aodo := raw[24]
	health := raw[25]
	tgd := float64(raw[26]) * scaleTGD
	txTime := float64(raw[27]) * scaleTxTime

	sink.Writef(out, "type %d: PRN %d week %d accuracy=%d codeL2=%d health=%d",
		msgType, prn, week, svAccuracy, codeOnL2, health)
	sink.Writef(out, "  IODE=%d IODC=%d toc=%.1fs toe=%.1fs txTime=%.1fs fitFlag=%d AODO=%d",
		iode, iodc, toc, toe, txTime, fitFlag, aodo)
	sink.Writef(out, "  af0=%.6e af1=%.6e af2=%.6e TGD=%.6e", af0, af1, af2, tgd)
	sink.Writef(out, "  IDOT=%.6e deltaN=%.6e M0=%.6f e=%.9f sqrtA=%.6f",
		idot, deltaN, m0, e, sqrtA)
	sink.Writef(out, "  cuc=%.6e cus=%.6e crc=%.4f crs=%.4f crs2=%.4f cic=%.6e cis=%.6e",
		cuc, cus, crc, crs, crs2, cic, cis)

	return true
}
