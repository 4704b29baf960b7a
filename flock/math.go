package flock

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// limit caps the magnitude of v at max.
func limit(v r2.Vec, max float64) r2.Vec {
	n2 := r2.Norm2(v)
	if n2 <= max*max {
		return v
	}
	return r2.Scale(max/math.Sqrt(n2), v)
}

// unit returns v scaled to length 1, or the zero vector when v has no length.
// r2.Unit yields NaN for a zero vector.
func unit(v r2.Vec) r2.Vec {
	if isZero(v) {
		return r2.Vec{}
	}
	return r2.Unit(v)
}

// steer returns the Reynolds steering force toward a desired direction:
// limit(unit(desired)*maxSpeed - velocity, maxForce). A zero desired
// direction asks for a standstill, so the result opposes velocity.
func steer(desired, velocity r2.Vec, maxSpeed, maxForce float64) r2.Vec {
	return limit(r2.Sub(r2.Scale(maxSpeed, unit(desired)), velocity), maxForce)
}

// heading returns the angle of v in radians.
func heading(v r2.Vec) float64 {
	return math.Atan2(v.Y, v.X)
}

// isZero reports whether v is the zero vector.
func isZero(v r2.Vec) bool {
	return v.X == 0 && v.Y == 0
}
