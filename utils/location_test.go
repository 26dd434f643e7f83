package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistanceZero(t *testing.T) {
	assert.Equal(t, 0.0, HaversineDistance(45.5017, -73.5673, 45.5017, -73.5673))
}

func TestHaversineDistanceSymmetry(t *testing.T) {
	d1 := HaversineDistance(45.5017, -73.5673, 46.8139, -71.2080)
	d2 := HaversineDistance(46.8139, -71.2080, 45.5017, -73.5673)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestHaversineDistanceMontrealQuebec(t *testing.T) {
	// Montreal to Quebec City is roughly 233 km as the crow flies.
	d := HaversineDistance(45.5017, -73.5673, 46.8139, -71.2080)
	assert.InDelta(t, 233, d, 5)
}

func TestIsLocationValid(t *testing.T) {
	assert.True(t, IsLocationValid(45.5, -73.5))
	assert.False(t, IsLocationValid(91, 0))
	assert.False(t, IsLocationValid(-91, 0))
	assert.False(t, IsLocationValid(0, 181))
	assert.False(t, IsLocationValid(0, -181))
}

func TestProRadiusOrDefault(t *testing.T) {
	assert.Equal(t, 10.0, ProRadiusOrDefault(10))
	assert.Equal(t, DefaultProRadiusKM, ProRadiusOrDefault(0))
	assert.Equal(t, DefaultProRadiusKM, ProRadiusOrDefault(-3))
}
