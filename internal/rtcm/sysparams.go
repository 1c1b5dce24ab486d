package rtcm

import (
	"fmt"

	"github.com/ntripmon/ntripmon/internal/bitio"
	"github.com/ntripmon/ntripmon/internal/sink"
)

// secondsOfDayScale: the message encodes seconds-of-day directly as an
// integer count; no scaling is needed, only HH:MM:SS formatting.

// decodeSystemParameters decodes 1013 (System Parameters).
func decodeSystemParameters(payload []byte, out sink.Sink) bool {
	bitLen := len(payload) * 8
	const headerBits = 12 + 12 + 16 + 17 + 5
	if !bitio.FitsBits(bitLen, 0, headerBits) {
		sink.Writef(out, "1013: payload too short for header")
		return false
	}

	msgType := int(bitio.Bits(payload, 0, 12))
	stationID := bitio.Bits(payload, 12, 12)
	mjd := int(bitio.Bits(payload, 24, 16))
	secOfDay := int(bitio.Bits(payload, 40, 17))
	numAnnouncements := int(bitio.Bits(payload, 57, 5))

	year, month, day := civilFromMJD(mjd)
	sink.Writef(out, "type %d: station %d date=%04d-%02d-%02d time=%s announcements=%d",
		msgType, stationID, year, month, day, formatHHMMSS(secOfDay), numAnnouncements)

	pos := headerBits
	const entryBits = 12 + 1 + 16
	for i := 0; i < numAnnouncements; i++ {
		if !bitio.FitsBits(bitLen, pos, entryBits) {
			sink.Writef(out, "1013: payload too short for announcement %d/%d", i+1, numAnnouncements)
			return false
		}
		messageID := bitio.Bits(payload, pos, 12)
		sync := bitio.Bits(payload, pos+12, 1)
		interval := float64(bitio.Bits(payload, pos+13, 16)) * 0.1
		sink.Writef(out, "  message %d sync=%d interval=%.1fs", messageID, sync, interval)
		pos += entryBits
	}
	return true
}

// civilFromMJD converts a Modified Julian Date to a Gregorian calendar
// date via the Fliegel-Van Flandern integer algorithm.
func civilFromMJD(mjd int) (year, month, day int) {
	jdn := mjd + 2400001
	l := jdn + 68569
	n := 4 * l / 146097
	l = l - (146097*n+3)/4
	i := 4000 * (l + 1) / 1461001
	l = l - 1461*i/4 + 31
	j := 80 * l / 2447
	day = l - 2447*j/80
	l = j / 11
	month = j + 2 - 12*l
	year = 100*(n-49) + i + l
	return year, month, day
}

// formatHHMMSS renders a seconds-of-day count as HH:MM:SS.
func formatHHMMSS(secOfDay int) string {
	h := secOfDay / 3600
	m := (secOfDay % 3600) / 60
	s := secOfDay % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
