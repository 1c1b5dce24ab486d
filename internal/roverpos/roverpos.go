// Package roverpos supplies the rover's own latitude/longitude to the
// periodic GGA uplink (spec.md §4.G). spec.md treats the rover
// position as an immutable config value; this package keeps that as
// the default (StaticPosition) and adds SerialNMEAPosition, adapted
// from the teacher's internal/device.GNSSDevice contract and
// internal/port.GNSSSerialPort, for the case where a local receiver's
// live fix should drive the uplink instead.
package roverpos

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	adrianmo "github.com/adrianmo/go-nmea"
)

// Source supplies the latest known rover position. Position returns
// (0,0) and ok=false if no fix has been obtained yet.
type Source interface {
	Position() (lat, lon float64, ok bool)
	Close() error
}

// StaticPosition is a Source whose value never changes, backing the
// default "rover lat/lon is a config value" behaviour of spec.md §3.
type StaticPosition struct {
	Lat, Lon float64
}

// Position always returns the configured coordinates.
func (s StaticPosition) Position() (lat, lon float64, ok bool) {
	return s.Lat, s.Lon, true
}

// Close is a no-op; StaticPosition owns no resources.
func (s StaticPosition) Close() error { return nil }

// SerialNMEAPosition opens a local serial GNSS receiver, parses its
// NMEA stream with github.com/adrianmo/go-nmea, and keeps the latest
// GGA/RMC fix. Grounded on the teacher's GNSSSerialPort.Open (mode
// construction, SetReadTimeout) and its background-read-loop pattern
// in internal/device/topgnss.go.
type SerialNMEAPosition struct {
	port serial.Port

	mu      sync.RWMutex
	lat     float64
	lon     float64
	haveFix bool

	done chan struct{}
}

// OpenSerialNMEAPosition opens portName at baud (0 selects the
// TOPGNSS-style default of 38400, matching the teacher's
// DefaultSerialConfig) and starts a background reader goroutine.
func OpenSerialNMEAPosition(portName string, baud int) (*SerialNMEAPosition, error) {
	if baud <= 0 {
		baud = 38400
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", portName, err)
	}
	if err := p.SetReadTimeout(500 * time.Millisecond); err != nil {
		p.Close()
		return nil, fmt.Errorf("setting read timeout on %s: %w", portName, err)
	}

	s := &SerialNMEAPosition{port: p, done: make(chan struct{})}
	go s.readLoop()
	return s, nil
}

func (s *SerialNMEAPosition) readLoop() {
	scanner := bufio.NewScanner(s.port)
	for scanner.Scan() {
		select {
		case <-s.done:
			return
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sentence, err := adrianmo.Parse(line)
		if err != nil {
			continue
		}
		lat, lon, ok := latLonFromSentence(sentence)
		if !ok {
			continue
		}
		s.mu.Lock()
		s.lat, s.lon, s.haveFix = lat, lon, true
		s.mu.Unlock()
	}
}

func latLonFromSentence(s adrianmo.Sentence) (lat, lon float64, ok bool) {
	switch v := s.(type) {
	case adrianmo.GGA:
		return v.Latitude, v.Longitude, true
	case adrianmo.RMC:
		return v.Latitude, v.Longitude, true
	default:
		return 0, 0, false
	}
}

// Position returns the latest parsed fix, if any.
func (s *SerialNMEAPosition) Position() (lat, lon float64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lat, s.lon, s.haveFix
}

// Close stops the reader goroutine and closes the serial port.
func (s *SerialNMEAPosition) Close() error {
	close(s.done)
	return s.port.Close()
}

// Open resolves the -a flag value of SPEC_FULL.md §6: "static" (or
// empty) yields a StaticPosition from the config's lat/lon;
// "serial:PORT" or "serial:PORT:BAUD" opens a SerialNMEAPosition.
func Open(spec string, configLat, configLon float64) (Source, error) {
	if spec == "" || spec == "static" {
		return StaticPosition{Lat: configLat, Lon: configLon}, nil
	}
	rest := strings.TrimPrefix(spec, "serial:")
	if rest == spec {
		return nil, fmt.Errorf("unrecognised rover position source %q", spec)
	}
	parts := strings.SplitN(rest, ":", 2)
	portName := parts[0]
	baud := 0
	if len(parts) == 2 {
		b, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("parsing baud rate in %q: %w", spec, err)
		}
		baud = b
	}
	return OpenSerialNMEAPosition(portName, baud)
}
