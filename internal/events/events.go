// Package events implements the worker/consumer event bus of spec.md
// §5 and §9: atomic counters for live metrics the consumer polls, and a
// channel of posted event structs for per-frame and lifecycle updates.
// This is the idiomatic-Go rendering of the source's "atomic counters
// plus posted OS messages" design the teacher's internal/device package
// approximates with plain callback functions; here the worker is the
// sole writer of every field except the cancellation flag, which only
// the consumer sets.
package events

import (
	"sync/atomic"
)

// Kind tags which fields of Event are meaningful.
type Kind int

const (
	KindStreamInfo Kind = iota
	KindStatUpdate
	KindSatUpdate
	KindMsgRaw
	KindMountResult
	KindStreamDone
)

func (k Kind) String() string {
	switch k {
	case KindStreamInfo:
		return "StreamInfo"
	case KindStatUpdate:
		return "StatUpdate"
	case KindSatUpdate:
		return "SatUpdate"
	case KindMsgRaw:
		return "MsgRaw"
	case KindMountResult:
		return "MountResult"
	case KindStreamDone:
		return "StreamDone"
	default:
		return "Unknown"
	}
}

// Event is a single posted update, spec.md §6's "UI-facing event
// stream". Only the fields relevant to Kind are populated.
type Event struct {
	Kind Kind

	// KindStreamInfo
	Format int

	// KindStatUpdate
	MessageType int
	Count       int64

	// KindSatUpdate
	GNSS     int
	SatMask  uint64
	SatCount int

	// KindMsgRaw: ownership of Frame transfers to the consumer on
	// receipt, per spec.md §3's "posted raw-frame event" ownership rule.
	Frame []byte

	// KindMountResult
	Ok   bool
	Body string

	// KindStreamDone
	Err error
}

// Bus couples the atomic live-metric fields to a buffered channel of
// posted Events. The worker writes the counters and posts events; the
// consumer reads both halves and is the only caller of Cancel.
type Bus struct {
	bytes     atomic.Int64
	format    atomic.Int32
	cancelled atomic.Bool
	events    chan Event
	closed    atomic.Bool
}

// New returns a Bus whose posted-event channel has the given buffer
// capacity. A worker that posts faster than the consumer drains will
// block on Post once the buffer fills; spec.md's model is lock-free
// counters plus a posted-event queue, not an unbounded one.
func New(bufSize int) *Bus {
	return &Bus{events: make(chan Event, bufSize)}
}

// AddBytes adds n to the running byte counter (spec.md §5's "Total
// byte counter").
func (b *Bus) AddBytes(n int) { b.bytes.Add(int64(n)) }

// Bytes returns the current byte counter.
func (b *Bus) Bytes() int64 { return b.bytes.Load() }

// SetFormat stores the detected stream format tag.
func (b *Bus) SetFormat(f int) { b.format.Store(int32(f)) }

// Format loads the detected stream format tag.
func (b *Bus) Format() int { return int(b.format.Load()) }

// Cancel sets the cancellation token; the worker observes it between
// receives.
func (b *Bus) Cancel() { b.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called.
func (b *Bus) Cancelled() bool { return b.cancelled.Load() }

// Post enqueues an event for the consumer. Callers must not call Post
// after posting a KindStreamDone event (spec.md §5: "StreamDone is the
// last event delivered"); doing so panics on the closed channel rather
// than silently violating the ordering guarantee.
func (b *Bus) Post(e Event) {
	b.events <- e
	if e.Kind == KindStreamDone {
		b.closed.Store(true)
		close(b.events)
	}
}

// Events returns the channel the consumer ranges over to drain posted
// events; the channel closes after a KindStreamDone event.
func (b *Bus) Events() <-chan Event { return b.events }
