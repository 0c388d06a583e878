package simulator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldops-demo/internal/registry"
)

func TestNextValue_StaysWithinStepOfPrev(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	r := registry.ChannelRange{Min: 100, Max: 220, MaxDelta: 5}

	prev := 150.0
	for i := 0; i < 1000; i++ {
		next := NextValue(prev, r, rng)
		assert.LessOrEqual(t, math.Abs(next-prev), r.MaxDelta+1e-9)
		prev = next
	}
}

func TestNextValue_ClampsToRange(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	r := registry.ChannelRange{Min: 100, Max: 220, MaxDelta: 5}

	// 从边界出发反复游走也不会越界
	prev := r.Max
	for i := 0; i < 1000; i++ {
		prev = NextValue(prev, r, rng)
		assert.GreaterOrEqual(t, prev, r.Min)
		assert.LessOrEqual(t, prev, r.Max)
	}
}

func TestNextValue_WellTemperatureScenario(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	r := registry.ChannelRange{Min: 100, Max: 220, MaxDelta: 5}

	for i := 0; i < 500; i++ {
		next := NextValue(150, r, rng)
		assert.GreaterOrEqual(t, next, 145.0)
		assert.LessOrEqual(t, next, 155.0)
	}
}

func TestInitialValue_WithinRange(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	r := registry.ChannelRange{Min: 1500, Max: 3500, MaxDelta: 60}

	for i := 0; i < 500; i++ {
		v := InitialValue(r, rng)
		assert.GreaterOrEqual(t, v, r.Min)
		assert.Less(t, v, r.Max)
	}
}
