package geom

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(5, -1, 1))
	assert.Equal(t, -1.0, Clamp(-5, -1, 1))
	assert.Equal(t, 0.3, Clamp(0.3, -1, 1))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 2.0, Lerp(2, 10, 0))
	assert.Equal(t, 10.0, Lerp(2, 10, 1))
	assert.Equal(t, 6.0, Lerp(2, 10, 0.5))
	// t outside [0,1] must not extrapolate
	assert.Equal(t, 10.0, Lerp(2, 10, 3))
	assert.Equal(t, 2.0, Lerp(2, 10, -3))
}

func TestClampMagnitude(t *testing.T) {
	testCases := []struct {
		desc     string
		vx, vz   float64
		min, max float64
	}{
		{desc: "too fast", vx: 4, vz: 3, min: 0.5, max: 2},
		{desc: "too slow", vx: 0.01, vz: 0.02, min: 0.5, max: 2},
		{desc: "in range", vx: 0.6, vz: 0.8, min: 0.5, max: 2},
		{desc: "axis aligned", vx: 0, vz: 9, min: 0.5, max: 2},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			vx, vz := ClampMagnitude(tC.vx, tC.vz, tC.min, tC.max)
			mag := math.Hypot(vx, vz)
			assert.GreaterOrEqual(t, mag, tC.min-1e-9)
			assert.LessOrEqual(t, mag, tC.max+1e-9)
			// direction preserved
			cross := tC.vx*vz - tC.vz*vx
			assert.InDelta(t, 0, cross, 1e-9)
		})
	}
}

func TestClampMagnitudeZeroVector(t *testing.T) {
	vx, vz := ClampMagnitude(0, 0, 0.5, 2)
	assert.Equal(t, 0.0, vx)
	assert.Equal(t, 0.0, vz)
}

func TestWeightedChoice(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	assert.Equal(t, -1, WeightedChoice(rng, nil))
	assert.Equal(t, -1, WeightedChoice(rng, []float64{0, -2}))

	// the only positive weight must always win
	for i := 0; i < 50; i++ {
		assert.Equal(t, 1, WeightedChoice(rng, []float64{0, 3, 0}))
	}

	// heavy weight should dominate over many draws
	counts := [2]int{}
	for i := 0; i < 2000; i++ {
		counts[WeightedChoice(rng, []float64{9, 1})]++
	}
	assert.Greater(t, counts[0], counts[1])
}
