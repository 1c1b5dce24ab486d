package roverpos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticPositionAlwaysReturnsConfiguredValue(t *testing.T) {
	s := StaticPosition{Lat: 52.5, Lon: 4.75}
	lat, lon, ok := s.Position()
	assert.True(t, ok)
	assert.Equal(t, 52.5, lat)
	assert.Equal(t, 4.75, lon)
	assert.NoError(t, s.Close())
}

func TestOpenDefaultsToStatic(t *testing.T) {
	src, err := Open("", 52.5, 4.75)
	require.NoError(t, err)
	lat, lon, ok := src.Position()
	assert.True(t, ok)
	assert.Equal(t, 52.5, lat)
	assert.Equal(t, 4.75, lon)

	src2, err := Open("static", 1.0, 2.0)
	require.NoError(t, err)
	lat2, lon2, _ := src2.Position()
	assert.Equal(t, 1.0, lat2)
	assert.Equal(t, 2.0, lon2)
}

func TestOpenRejectsUnknownSource(t *testing.T) {
	_, err := Open("bogus:whatever", 0, 0)
	assert.Error(t, err)
}

func TestOpenRejectsBadBaud(t *testing.T) {
	_, err := Open("serial:/dev/ttyUSB0:notanumber", 0, 0)
	assert.Error(t, err)
}
