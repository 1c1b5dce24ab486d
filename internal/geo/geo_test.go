package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineScenario6(t *testing.T) {
	d := HaversineKM(52.0, 5.0, 52.5, 5.5)
	assert.GreaterOrEqual(t, d, 60.0)
	assert.LessOrEqual(t, d, 66.0)
}

func TestECEFRoundTrip(t *testing.T) {
	for lat := -85.0; lat <= 85.0; lat += 5 {
		for _, lon := range []float64{-170, -90, 0, 45, 120, 179} {
			x, y, z := wgs84ToECEF(lat, lon, 100)
			gotLat, gotLon, _ := ECEFToWGS84(x, y, z)
			assert.InDelta(t, lat, gotLat, 1e-8, "lat mismatch at (%v,%v)", lat, lon)
			assert.InDelta(t, lon, gotLon, 1e-8, "lon mismatch at (%v,%v)", lat, lon)
		}
	}
}

// wgs84ToECEF is the forward transform used only by the round-trip
// test to manufacture inputs for ECEFToWGS84.
func wgs84ToECEF(latDeg, lonDeg, altM float64) (x, y, z float64) {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	sinLat := math.Sin(lat)
	n := WGS84A / math.Sqrt(1-WGS84E2*sinLat*sinLat)
	x = (n + altM) * math.Cos(lat) * math.Cos(lon)
	y = (n + altM) * math.Cos(lat) * math.Sin(lon)
	z = (n*(1-WGS84E2) + altM) * sinLat
	return x, y, z
}
