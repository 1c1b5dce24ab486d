package bitio

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitsRoundTrip(t *testing.T) {
	type pair struct {
		value uint64
		width int
	}

	rng := rand.New(rand.NewSource(1))
	pairs := make([]pair, 40)
	totalBits := 0
	for i := range pairs {
		width := 1 + rng.Intn(64)
		var v uint64
		if width == 64 {
			v = rng.Uint64()
		} else {
			v = rng.Uint64() & ((uint64(1) << uint(width)) - 1)
		}
		pairs[i] = pair{value: v, width: width}
		totalBits += width
	}

	buf := make([]byte, (totalBits+7)/8)
	pos := 0
	for _, p := range pairs {
		packMSB(buf, pos, p.width, p.value)
		pos += p.width
	}

	pos = 0
	for _, p := range pairs {
		got := Bits(buf, pos, p.width)
		assert.Equal(t, p.value, got, "width=%d", p.width)
		pos += p.width
	}
}

func packMSB(buf []byte, start, width int, value uint64) {
	for i := 0; i < width; i++ {
		bitPos := start + i
		bit := (value >> uint(width-1-i)) & 1
		if bit != 0 {
			buf[bitPos>>3] |= 1 << uint(7-bitPos&7)
		}
	}
}

func TestSignedBitsSignExtends(t *testing.T) {
	buf := make([]byte, 8)
	// -1 in 12 bits is 0xFFF
	packMSB(buf, 0, 12, 0xFFF)
	require.Equal(t, int64(-1), SignedBits(buf, 0, 12))

	// largest positive value representable in 8 bits (sign bit clear)
	buf2 := make([]byte, 8)
	packMSB(buf2, 0, 8, 0x7F)
	require.Equal(t, int64(127), SignedBits(buf2, 0, 8))

	// most negative value representable in 8 bits
	buf3 := make([]byte, 8)
	packMSB(buf3, 0, 8, 0x80)
	require.Equal(t, int64(-128), SignedBits(buf3, 0, 8))
}

func TestFitsBits(t *testing.T) {
	assert.True(t, FitsBits(96, 0, 96))
	assert.True(t, FitsBits(96, 50, 46))
	assert.False(t, FitsBits(96, 50, 47))
	assert.False(t, FitsBits(96, -1, 4))
	assert.False(t, FitsBits(96, 10, 0))
}
