// Package sink provides the redirectable decoded-text destination
// described in spec.md §9: a small interface instead of the source's
// process-global printf detour, so the CLI can stream straight to
// stdout while the host UI captures the same text into a buffer for an
// on-demand detail view, with no race between a worker's writes and a
// UI's drain.
package sink

import (
	"fmt"
	"strings"
	"sync"
)

// Sink is anything that can receive one line of human-readable decoded
// output at a time.
type Sink interface {
	WriteLine(line string)
}

// Writef is a convenience for decoders: format and write in one call.
func Writef(s Sink, format string, args ...interface{}) {
	s.WriteLine(fmt.Sprintf(format, args...))
}

// Discard is a Sink that drops every line; used when a caller wants
// stats/events but not decoded text.
var Discard Sink = discard{}

type discard struct{}

func (discard) WriteLine(string) {}

// Stdout writes each line to standard output via fmt.Println, the CLI
// consumer of spec.md §6.
type Stdout struct{}

func (Stdout) WriteLine(line string) { fmt.Println(line) }

// Buffer is a growable in-memory Sink, installed by a host UI around a
// single on-demand detail decode and then drained and uninstalled
// (spec.md §5). Safe for concurrent WriteLine/String calls.
type Buffer struct {
	mu  sync.Mutex
	b   strings.Builder
}

func (b *Buffer) WriteLine(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.b.WriteString(line)
	b.b.WriteByte('\n')
}

// String returns everything written so far.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Reset clears the buffer for reuse across multiple installs.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.b.Reset()
}
