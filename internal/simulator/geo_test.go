package simulator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

var permianBox = BoundingBox{MinLat: 30.5, MaxLat: 33.5, MinLon: -103.5, MaxLon: -100.5}

func TestAdvance_StaysWithinBox(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	lat, lon := 31.9, -102.1
	for i := 0; i < 10000; i++ {
		lat, lon = Advance(lat, lon, permianBox, 0.01, rng)
		assert.True(t, permianBox.Contains(lat, lon), "tick %d escaped box: %f,%f", i, lat, lon)
	}
}

func TestAdvance_StepBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	maxStep := 0.01

	lat, lon := 32.0, -102.0
	for i := 0; i < 1000; i++ {
		newLat, newLon := Advance(lat, lon, permianBox, maxStep, rng)
		// 反射只在边界附近放大位移，内部点的单步位移有界
		if permianBox.Contains(lat+maxStep, lon+maxStep) && permianBox.Contains(lat-maxStep, lon-maxStep) {
			assert.LessOrEqual(t, math.Abs(newLat-lat), maxStep+1e-12)
			assert.LessOrEqual(t, math.Abs(newLon-lon), maxStep+1e-12)
		}
		lat, lon = newLat, newLon
	}
}

func TestAdvance_ReflectsAtBoundary(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	// 紧贴边界出发仍留在区域内
	lat, lon := permianBox.MinLat, permianBox.MaxLon
	for i := 0; i < 1000; i++ {
		lat, lon = Advance(lat, lon, permianBox, 0.01, rng)
		assert.True(t, permianBox.Contains(lat, lon))
	}
}

func TestBoundingBox_Contains(t *testing.T) {
	assert.True(t, permianBox.Contains(32.0, -102.0))
	assert.False(t, permianBox.Contains(29.0, -102.0))
	assert.False(t, permianBox.Contains(32.0, -99.0))
}
