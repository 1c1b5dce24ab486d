// Package nmea builds the periodic rover-position GGA uplink sentence
// spec.md §6 requires, and self-validates the generated sentence with
// github.com/adrianmo/go-nmea before it is sent — the same
// wrap-a-parser-behind-a-small-type idiom the teacher uses in
// internal/parser/nmea.go, pointed at a real parsing library instead
// of the teacher's hand-rolled field splitter.
package nmea

import (
	"fmt"
	"math"
	"time"

	adrianmo "github.com/adrianmo/go-nmea"
)

// BuildGGA renders the fixed-quality GGA uplink sentence of spec.md §6
// for the given rover position and UTC time: fix quality 1, 8
// satellites, HDOP 1.0, antenna height 1.5 m, geoid separation 0.0 m,
// no age-of-differential. The checksum is the XOR of every byte
// between '$' and '*'.
func BuildGGA(lat, lon float64, t time.Time) string {
	t = t.UTC()
	timeField := fmt.Sprintf("%02d%02d%02d.%02d", t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/10000000)

	latField, latHemi := formatLat(lat)
	lonField, lonHemi := formatLon(lon)

	body := fmt.Sprintf("GNGGA,%s,%s,%s,%s,%s,1,08,1.0,1.5,M,0.0,M,,",
		timeField, latField, latHemi, lonField, lonHemi)

	return fmt.Sprintf("$%s*%02X\r\n", body, checksum(body))
}

func formatLat(lat float64) (field, hemi string) {
	hemi = "N"
	if lat < 0 {
		hemi = "S"
		lat = -lat
	}
	deg := math.Floor(lat)
	min := (lat - deg) * 60
	return fmt.Sprintf("%02d%07.4f", int(deg), min), hemi
}

func formatLon(lon float64) (field, hemi string) {
	hemi = "E"
	if lon < 0 {
		hemi = "W"
		lon = -lon
	}
	deg := math.Floor(lon)
	min := (lon - deg) * 60
	return fmt.Sprintf("%03d%07.4f", int(deg), min), hemi
}

// checksum XORs every byte of body (the text between '$' and '*').
func checksum(body string) byte {
	var c byte
	for i := 0; i < len(body); i++ {
		c ^= body[i]
	}
	return c
}

// Validate parses a generated sentence back through
// github.com/adrianmo/go-nmea as a belt-and-braces check before
// transmit; it returns an error if the library rejects the checksum
// or fails to recognise the sentence as GGA.
func Validate(sentence string) error {
	s, err := adrianmo.Parse(trimCRLF(sentence))
	if err != nil {
		return fmt.Errorf("self-validating GGA uplink: %w", err)
	}
	if _, ok := s.(adrianmo.GGA); !ok {
		return fmt.Errorf("self-validating GGA uplink: parsed as %T, not GGA", s)
	}
	return nil
}

func trimCRLF(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\r' || s[len(s)-1] == '\n') {
		s = s[:len(s)-1]
	}
	return s
}
