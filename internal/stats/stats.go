// Package stats aggregates per-message-type interarrival timing and
// per-GNSS satellite visibility for a streaming session (spec.md §4.F).
// It is owned exclusively by the session worker; snapshots are copied
// out for publication on the event bus rather than shared by reference,
// so callers never need to lock it.
package stats

import "math/bits"

// TypeStat holds count/min/max/sum interarrival statistics for one
// RTCM message type. The zero value is a valid "never seen" row.
type TypeStat struct {
	Seen     bool
	Count    int64
	LastSeen int64 // caller-supplied monotonic timestamp, e.g. UnixNano
	SumDt    int64
	MinDt    int64
	MaxDt    int64
}

// AvgDt returns sum_dt/(count-1), the average interarrival time, or 0
// if fewer than two observations have been made.
func (t TypeStat) AvgDt() int64 {
	if t.Count < 2 {
		return 0
	}
	return t.SumDt / (t.Count - 1)
}

// Aggregator owns one TypeStat per observed message type and one
// 64-bit satellite bitset per GNSS identifier.
type Aggregator struct {
	byType map[int]*TypeStat
	sats   map[int]*satSet
}

type satSet struct {
	mask  uint64
	count int
}

// New returns an empty aggregator, matching "reset on new session"
// (spec.md §3).
func New() *Aggregator {
	return &Aggregator{
		byType: make(map[int]*TypeStat),
		sats:   make(map[int]*satSet),
	}
}

// Observe records one successfully framed message of type t arriving
// at time now (spec.md §4.F). It returns a copy of the updated row so
// callers can post it as an event without retaining a pointer into the
// aggregator's internal state.
func (a *Aggregator) Observe(t int, now int64) TypeStat {
	row, ok := a.byType[t]
	if !ok {
		row = &TypeStat{}
		a.byType[t] = row
	}
	if !row.Seen {
		row.Seen = true
		row.LastSeen = now
		row.Count = 1
		row.MinDt, row.MaxDt, row.SumDt = 0, 0, 0
		return *row
	}
	dt := now - row.LastSeen
	row.LastSeen = now
	row.Count++
	row.SumDt += dt
	if row.MinDt == 0 || dt < row.MinDt {
		row.MinDt = dt
	}
	if dt > row.MaxDt {
		row.MaxDt = dt
	}
	return *row
}

// Stat returns the current row for t and whether it has ever been
// observed.
func (a *Aggregator) Stat(t int) (TypeStat, bool) {
	row, ok := a.byType[t]
	if !ok {
		return TypeStat{}, false
	}
	return *row, true
}

// Types returns every message type with at least one observation, in
// no particular order; callers that need a stable table sort it.
func (a *Aggregator) Types() []int {
	out := make([]int, 0, len(a.byType))
	for t := range a.byType {
		out = append(out, t)
	}
	return out
}

// ObserveSatellites iterates satMask MSB-first (bit 0 = PRN/slot 1) and
// sets the corresponding bit of gnss's bitset, incrementing the cached
// count only the first time a given satellite is seen (spec.md §4.F);
// idempotent across repeated calls with the same mask.
func (a *Aggregator) ObserveSatellites(gnss int, satMask uint64) {
	set, ok := a.sats[gnss]
	if !ok {
		set = &satSet{}
		a.sats[gnss] = set
	}
	for i := 0; i < 64; i++ {
		bit := uint64(1) << uint(63-i)
		if satMask&bit == 0 {
			continue
		}
		if set.mask&bit == 0 {
			set.mask |= bit
			set.count++
		}
	}
}

// Satellites returns the bitset and count for gnss, and whether it has
// ever had a satellite observed.
func (a *Aggregator) Satellites(gnss int) (mask uint64, count int, ok bool) {
	set, exists := a.sats[gnss]
	if !exists {
		return 0, 0, false
	}
	return set.mask, set.count, true
}

// GNSSIDs returns every GNSS identifier with at least one observed
// satellite, in no particular order.
func (a *Aggregator) GNSSIDs() []int {
	out := make([]int, 0, len(a.sats))
	for g := range a.sats {
		out = append(out, g)
	}
	return out
}

// popcount counts set bits; also exercised directly in this package's
// own tests to check the set.mask == count invariant (spec.md §3).
func popcount(mask uint64) int { return bits.OnesCount64(mask) }

// Popcount is the exported form, for callers outside this package that
// need the same count (e.g. the NTRIP worker's per-update SatCount).
func Popcount(mask uint64) int { return popcount(mask) }
