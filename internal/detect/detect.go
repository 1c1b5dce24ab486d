// Package detect classifies the wire format of an NTRIP stream's body,
// per spec.md §4.D: sourcetable hints first, then byte-pattern
// signatures, with RTCM3 only promoted to "confirmed" once the framer
// has produced a CRC-valid frame. Grounded on the teacher's
// internal/parser/{rtcm,ubx}.go preamble checks, generalised into a
// single ordered rule list instead of two independent per-protocol
// scanners.
package detect

import "strings"

// Format is the tagged wire-format value of spec.md §3.
type Format int

const (
	None Format = iota
	RTCM3
	UBX
	SBF
	RT27
	LB2
	Unknown
)

func (f Format) String() string {
	switch f {
	case None:
		return "None"
	case RTCM3:
		return "RTCM3"
	case UBX:
		return "UBX"
	case SBF:
		return "SBF"
	case RT27:
		return "RT27"
	case LB2:
		return "LB2"
	default:
		return "Unknown"
	}
}

// Decodable reports whether this is a format the decoder pipeline
// handles (RTCM3, RT27, LB2). SBF and UBX are detected but not framed
// by this system (spec.md §4.D). None is not Decodable, yet the session
// worker still frames a stream classified None so that the framer's
// first CRC-valid frame can confirm RTCM3.
func (f Format) Decodable() bool {
	return f == RTCM3 || f == RT27 || f == LB2
}

// State tracks the detector's running classification across a session.
// It is not safe for concurrent use; the NTRIP worker is its only
// writer (spec.md §5).
type State struct {
	format          Format
	confirmed       bool
	firstDataByte   bool
	sourcetableDone bool
}

// NewState returns a State ready to classify the first bytes of a new
// session's body stream.
func NewState() *State {
	return &State{firstDataByte: true}
}

// Format returns the current classification.
func (s *State) Format() Format { return s.format }

// Confirmed reports whether RTCM3 has been confirmed by a successful
// frame decode.
func (s *State) Confirmed() bool { return s.confirmed }

// FromSourcetable applies rules 1-4 of spec.md §4.D using the
// sourcetable's advertised Format and Details fields for this
// mountpoint. It is a pure function: the same two strings always yield
// the same classification.
func FromSourcetable(format, details string) Format {
	hay := strings.ToLower(format + " " + details)
	switch {
	case strings.Contains(hay, "rt27"):
		return RT27
	case strings.Contains(hay, "lb2"):
		return LB2
	case strings.Contains(hay, "sbf"), strings.Contains(hay, "septentrio"):
		return SBF
	case strings.Contains(hay, "ubx"), strings.Contains(hay, "binex"):
		return UBX
	default:
		return None
	}
}

// Seed installs a classification obtained from the sourcetable (rules
// 1-4) before any body bytes have arrived. A None result leaves the
// detector to fall back on the byte-scan rules.
func (s *State) Seed(format Format) {
	if format != None {
		s.format = format
	}
}

// Observe applies the byte-pattern rules (5-6) of spec.md §4.D to a
// chunk of newly-received body bytes. It should be called once per
// received chunk, in order, until the format leaves None.
func (s *State) Observe(chunk []byte) {
	if s.format != None {
		return
	}

	for i := 0; i+1 < len(chunk); i++ {
		if chunk[i] == 0x24 && chunk[i+1] == 0x40 {
			s.format = SBF
			return
		}
		if chunk[i] == 0xB5 && chunk[i+1] == 0x62 {
			s.format = UBX
			return
		}
	}

	if s.firstDataByte && len(chunk) > 0 {
		s.firstDataByte = false
		if b0 := chunk[0]; b0 == 0xD3 {
			// A leading 0xD3 suppresses all weak-pattern detection;
			// rely on the framer's first successful decode instead.
			return
		} else if b0 == 0x10 && len(chunk) > 1 && chunk[1] != 0x10 && chunk[1] != 0x03 {
			s.format = RT27
			return
		} else if b0 == 0x01 && len(chunk) > 2 && chunk[1] > 0 && chunk[1] <= 0x80 && chunk[2] < 0x40 {
			s.format = LB2
			return
		}
	}
}

// ConfirmRTCM3 is called by the worker on the framer's first
// successful frame decode. It is idempotent: the "confirmed" event
// fires only on the false->true transition (spec.md §5).
func (s *State) ConfirmRTCM3() (justConfirmed bool) {
	if s.format != RTCM3 {
		s.format = RTCM3
	}
	if s.confirmed {
		return false
	}
	s.confirmed = true
	return true
}
