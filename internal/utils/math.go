package utils

import (
	"math"
	"math/rand"
)

// RandomFloat returns a random float64 in [0.0, 1.0)
func RandomFloat() float64 {
	return rand.Float64() //nolint:gosec // Game logic randomness, not security critical
}

// RoundHalfUp rounds to the nearest integer with halves rounded towards +Inf.
// math.Round rounds halves away from zero, which differs for negative values.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ClampInt bounds v to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
