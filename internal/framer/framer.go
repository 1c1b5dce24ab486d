// Package framer assembles RTCM 3.x frames out of a raw byte stream.
// It is grounded on the teacher's internal/parser/rtcm.go buffer-and-scan
// loop (append incoming bytes, scan for the preamble, slice off complete
// messages), generalised to the exact IDLE/LEN/BODY state machine and
// resync rule of spec.md §4.C: a CRC mismatch or an impossible length
// field drops exactly one byte and rescans, so a spurious 0xD3 inside
// garbage can never swallow a frame that starts one byte later.
package framer

import (
	"bytes"

	"github.com/ntripmon/ntripmon/internal/crc24q"
)

// maxFrame is the worst case: 3-byte header + 1023-byte payload (10-bit
// length) + 3-byte CRC.
const maxFrame = 1029

// Frame is one verified, complete RTCM 3.x frame.
type Frame struct {
	// Payload is the L bytes between the header and the CRC; its first
	// 12 bits are the message type.
	Payload []byte
	// MessageType is the 12-bit value extracted from Payload[0:2].
	MessageType int
}

// Framer is a growing-buffer RTCM 3.x assembler. The zero value is
// ready to use.
type Framer struct {
	buf []byte
}

// New returns a ready-to-use Framer.
func New() *Framer {
	return &Framer{}
}

// Write feeds p into the framer and returns every frame that became
// complete and CRC-valid as a result, in stream order.
func (f *Framer) Write(p []byte) []Frame {
	f.buf = append(f.buf, p...)

	var out []Frame
	for {
		idx := bytes.IndexByte(f.buf, 0xD3)
		if idx < 0 {
			f.buf = f.buf[:0]
			break
		}
		if idx > 0 {
			f.buf = f.buf[idx:]
		}

		if len(f.buf) < 3 {
			break // LEN: wait for the rest of the header
		}

		length := (int(f.buf[1]&0x03) << 8) | int(f.buf[2])
		if length+6 > maxFrame {
			// Physically impossible length: resync without waiting for
			// a continuation that can never validate.
			f.buf = f.buf[1:]
			continue
		}

		target := length + 6
		if len(f.buf) < target {
			break // BODY: wait for the rest of the payload+CRC
		}

		payloadEnd := target - 3
		want := crc24q.Checksum(f.buf[:payloadEnd])
		got := uint32(f.buf[payloadEnd])<<16 | uint32(f.buf[payloadEnd+1])<<8 | uint32(f.buf[payloadEnd+2])
		if got != want {
			f.buf = f.buf[1:]
			continue
		}

		payload := make([]byte, length)
		copy(payload, f.buf[3:payloadEnd])
		msgType := 0
		if length >= 2 {
			msgType = int(payload[0])<<4 | int(payload[1])>>4
		}
		out = append(out, Frame{Payload: payload, MessageType: msgType})
		f.buf = f.buf[target:]
	}
	return out
}

// Reset discards any partially-assembled frame, so that a Framer reused
// for a new stream can never frame stale bytes from a previous one.
func (f *Framer) Reset() {
	f.buf = f.buf[:0]
}
