// Package geom holds the small pure-math helpers shared by the simulation:
// scalar clamping, interpolation, horizontal speed clamping and weighted
// random selection. Nothing in here owns state.
package geom

import (
	"math"
	"math/rand"
)

// Vec3 is a position or velocity in field space. X and Z span the play
// field, Y is the cosmetic vertical axis.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Scale returns v scaled by s on all three axes.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// HorizontalSpeed returns the magnitude of the X/Z components.
func (v Vec3) HorizontalSpeed() float64 {
	return math.Hypot(v.X, v.Z)
}

// Clamp limits v to the [lo, hi] interval.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates linearly between a and b. t is clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	t = Clamp(t, 0, 1)
	return a + (b-a)*t
}

// ClampMagnitude rescales the (vx, vz) pair so its magnitude lies in
// [min, max]. A zero vector is left untouched since it has no direction
// to preserve; callers are expected to never feed a stalled ball here.
func ClampMagnitude(vx, vz, min, max float64) (float64, float64) {
	mag := math.Hypot(vx, vz)
	if mag == 0 {
		return vx, vz
	}
	if mag < min {
		s := min / mag
		return vx * s, vz * s
	}
	if mag > max {
		s := max / mag
		return vx * s, vz * s
	}
	return vx, vz
}

// WeightedChoice picks an index in [0, len(weights)) with probability
// proportional to its weight. Non-positive weights are treated as zero.
// Returns -1 when no weight is positive.
func WeightedChoice(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}
