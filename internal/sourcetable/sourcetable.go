// Package sourcetable parses the text sourcetable body an NTRIP caster
// returns for the root path, and computes each mountpoint's great-
// circle distance from a rover position (spec.md §4.K). The line
// splitting and field-tokenizing idiom is grounded on the teacher's
// internal/ntrip/client.go parseSourcetable, generalized to the
// spec's "≥11 fields" validity rule and CR-or-LF line splitting
// instead of the teacher's CRLF-only split.
package sourcetable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ntripmon/ntripmon/internal/geo"
)

// Entry is one STR; record from a sourcetable body, spec.md §3.
type Entry struct {
	Mountpoint    string
	Identifier    string
	Format        string
	FormatDetails string
	Carrier       string
	NavSystem     string
	Network       string
	Country       string
	Latitude      float64
	Longitude     float64

	// DistanceKM is the Haversine distance from the rover, formatted
	// to one decimal, or "-" if either endpoint is the origin
	// (spec.md §4.K).
	DistanceKM string
}

const minFields = 11

// Parse splits body into lines (accepting bare CR, bare LF, or CRLF)
// and returns one Entry per well-formed "STR;" line. roverLat/roverLon
// of (0,0) means "no rover position"; every entry then gets "-" for
// DistanceKM, matching the origin sentinel in spec.md §3.
func Parse(body string, roverLat, roverLon float64) []Entry {
	var entries []Entry
	for _, line := range splitLines(body) {
		if !strings.HasPrefix(line, "STR;") {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) < minFields {
			continue
		}
		lat, latErr := strconv.ParseFloat(fields[9], 64)
		lon, lonErr := strconv.ParseFloat(fields[10], 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		e := Entry{
			Mountpoint:    fields[1],
			Identifier:    fields[2],
			Format:        fields[3],
			FormatDetails: fields[4],
			Carrier:       fields[5],
			NavSystem:     fields[6],
			Network:       fields[7],
			Country:       fields[8],
			Latitude:      lat,
			Longitude:     lon,
			DistanceKM:    "-",
		}

		roverIsOrigin := roverLat == 0 && roverLon == 0
		mountIsOrigin := lat == 0 && lon == 0
		if !roverIsOrigin && !mountIsOrigin {
			d := geo.HaversineKM(roverLat, roverLon, lat, lon)
			e.DistanceKM = fmt.Sprintf("%.1f", d)
		}

		entries = append(entries, e)
	}
	return entries
}

func splitLines(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	return strings.Split(body, "\n")
}
