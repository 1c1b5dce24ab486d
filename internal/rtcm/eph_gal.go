package rtcm

import (
	"math"

	"github.com/ntripmon/ntripmon/internal/bitio"
	"github.com/ntripmon/ntripmon/internal/sink"
)

// Galileo F/NAV scale factors, following the same ICD convention as the
// GPS fields in eph_gps.go (spec.md §4.E gives only the field widths for
// 1045; the scale factors are the standard Galileo OS-SIS-ICD values for
// fields of identical width and role to their GPS counterparts).
var (
	scaleGalIDOT     = math.Pi * twoExp(-43)
	scaleGalDeltaN   = math.Pi * twoExp(-43)
	scaleGalM0       = math.Pi * twoExp(-31)
	scaleGalE        = twoExp(-33)
	scaleGalSqrtA    = twoExp(-19)
	scaleGalOmega0   = math.Pi * twoExp(-31)
	scaleGalI0       = math.Pi * twoExp(-31)
	scaleGalOmega    = math.Pi * twoExp(-31)
	scaleGalOmegaDot = math.Pi * twoExp(-43)
	scaleGalCUC      = twoExp(-29)
	scaleGalCUS      = twoExp(-29)
	scaleGalCRC      = twoExp(-5)
	scaleGalCRS      = twoExp(-5)
	scaleGalCIC      = twoExp(-29)
	scaleGalCIS      = twoExp(-29)
	scaleGalTOE      = 60.0
	scaleGalBGD      = twoExp(-32)
)

var galEphemerisFieldBits = []int{
	6,  // SVID
	12, // week
	10, // IODnav
	8,  // SISA
	14, // IDOT (signed)
	16, // delta-n (signed)
	32, // M0 (signed)
	32, // e
	32, // sqrt(A)
	32, // Omega0 (signed)
	32, // i0 (signed)
	32, // omega (signed)
	24, // Omega-dot (signed)
	16, // Cuc (signed)
	16, // Cus (signed)
	16, // Crc (signed)
	16, // Crs (signed)
	16, // Cic (signed)
	16, // Cis (signed)
	14, // toe
	10, // BGD E5a/E1 (signed)
	10, // BGD E5b/E1 (signed)
	6,  // health
}

var galEphemerisSigned = map[int]bool{
	4: true, 5: true, 6: true, 9: true, 10: true, 11: true, 12: true,
	13: true, 14: true, 15: true, 16: true, 17: true, 18: true, 20: true, 21: true,
}

// decodeGalileoEphemeris decodes 1045 (Galileo F/NAV ephemeris).
func decodeGalileoEphemeris(payload []byte, out sink.Sink) bool {
	bitLen := len(payload) * 8
	total := 12
	for _, w := range galEphemerisFieldBits {
		total += w
	}
	if !bitio.FitsBits(bitLen, 0, total) {
		sink.Writef(out, "1045: payload too short (%d bits, need %d)", bitLen, total)
		return false
	}

	msgType := int(bitio.Bits(payload, 0, 12))
	pos := 12
	raw := make([]int64, len(galEphemerisFieldBits))
	for i, w := range galEphemerisFieldBits {
		if galEphemerisSigned[i] {
			raw[i] = bitio.SignedBits(payload, pos, w)
		} else {
			raw[i] = int64(bitio.Bits(payload, pos, w))
		}
		pos += w
	}

	svid := raw[0]
	week := raw[1]
	iodnav := raw[2]
	sisa := raw[3]
	idot := float64(raw[4]) * scaleGalIDOT
	deltaN := float64(raw[5]) * scaleGalDeltaN
	m0 := float64(raw[6]) * scaleGalM0
	e := float64(raw[7]) * scaleGalE
	sqrtA := float64(raw[8]) * scaleGalSqrtA
	omega0 := float64(raw[9]) * scaleGalOmega0
	i0 := float64(raw[10]) * scaleGalI0
	omega := float64(raw[11]) * scaleGalOmega
	omegaDot := float64(raw[12]) * scaleGalOmegaDot
	cuc := float64(raw[13]) * scaleGalCUC
	cus := float64(raw[14]) * scaleGalCUS
	crc := float64(raw[15]) * scaleGalCRC
	crs := float64(raw[16]) * scaleGalCRS
	cic := float64(raw[17]) * scaleGalCIC
	cis := float64(raw[18]) * scaleGalCIS
	toe := float64(raw[19]) * scaleGalTOE
	bgdE5aE1 := float64(raw[20]) * scaleGalBGD
	bgdE5bE1 := float64(raw[21]) * scaleGalBGD
	health := raw[22]

	sink.Writef(out, "type %d: SVID %d week %d IODnav=%d SISA=%d health=%d",
		msgType, svid, week, iodnav, sisa, health)
	sink.Writef(out, "  toe=%.1fs IDOT=%.6e deltaN=%.6e M0=%.6f e=%.9f sqrtA=%.6f",
		toe, idot, deltaN, m0, e, sqrtA)
	sink.Writef(out, "  Omega0=%.6f i0=%.6f omega=%.6f OmegaDot=%.6e",
		omega0, i0, omega, omegaDot)
	sink.Writef(out, "  Cuc=%.6e Cus=%.6e Crc=%.4f Crs=%.4f Cic=%.6e Cis=%.6e",
		cuc, cus, crc, crs, cic, cis)
	sink.Writef(out, "  BGD(E5a/E1)=%.6e BGD(E5b/E1)=%.6e", bgdE5aE1, bgdE5bE1)

	return true
}
