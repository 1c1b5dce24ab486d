package rtcm

import (
	"github.com/ntripmon/ntripmon/internal/bitio"
	"github.com/ntripmon/ntripmon/internal/geo"
	"github.com/ntripmon/ntripmon/internal/sink"
)

// ecefScale converts the 0.0001 m units spec.md §4.E declares for every
// 1005/1006 position field into metres.
const ecefScale = 0.0001

// antennaHeightScale is the 0.0001 m unit for the 1006 antenna height
// field.
const antennaHeightScale = 0.0001

// decodeStationARP decodes 1005 (Stationary RTK Reference Station ARP)
// and, when the payload is long enough, the 1006 antenna-height
// extension. Bit layout per spec.md §4.E.
func decodeStationARP(payload []byte, out sink.Sink, rover RoverPosition) bool {
	bitLen := len(payload) * 8
	const headerBits = 12 + 12 + 6 + 1 + 1 + 1 + 1 + 38 + 1 + 1 + 38 + 2 + 38
	if !bitio.FitsBits(bitLen, 0, headerBits) {
		sink.Writef(out, "1005/1006: payload too short (%d bits, need %d)", bitLen, headerBits)
		return false
	}

	msgType := int(bitio.Bits(payload, 0, 12))
	stationID := bitio.Bits(payload, 12, 12)
	itrfYear := bitio.Bits(payload, 24, 6)
	gpsInd := bitio.Bits(payload, 30, 1)
	glonassInd := bitio.Bits(payload, 31, 1)
	galileoInd := bitio.Bits(payload, 32, 1)
	refStationInd := bitio.Bits(payload, 33, 1)

	x := float64(bitio.SignedBits(payload, 34, 38)) * ecefScale
	// bit 72: oscillator indicator, bit 73: reserved
	y := float64(bitio.SignedBits(payload, 74, 38)) * ecefScale
	// bits 112-113: reserved
	z := float64(bitio.SignedBits(payload, 114, 38)) * ecefScale

	lat, lon, alt := geo.ECEFToWGS84(x, y, z)

	sink.Writef(out, "type %d: station %d ITRF%d GPS=%d GLO=%d GAL=%d ref=%d",
		msgType, stationID, itrfYear, gpsInd, glonassInd, galileoInd, refStationInd)
	sink.Writef(out, "  ECEF X=%.4f Y=%.4f Z=%.4f m", x, y, z)
	sink.Writef(out, "  WGS84 lat=%.8f lon=%.8f alt=%.3f m", lat, lon, alt)

	if msgType == Type1006 {
		const heightBit = headerBits
		if !bitio.FitsBits(bitLen, heightBit, 16) {
			sink.Writef(out, "1006: payload too short for antenna height")
			return false
		}
		height := float64(bitio.Bits(payload, heightBit, 16)) * antennaHeightScale
		sink.Writef(out, "  antenna height=%.4f m", height)
	}

	if !rover.IsZero() {
		dist := geo.HaversineKM(rover.Latitude, rover.Longitude, lat, lon)
		bearing := geo.InitialBearingDeg(rover.Latitude, rover.Longitude, lat, lon)
		sink.Writef(out, "  distance from rover=%.1f km bearing=%.1f deg", dist, bearing)
	}

	return true
}
