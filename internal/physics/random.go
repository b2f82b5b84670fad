package physics

import (
	"math"
	"math/rand"
)

// Range returns a uniform sample in [lo, hi).
func Range(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// IntRange returns a uniform integer in [lo, hi]. Returns lo when hi <= lo.
func IntRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// Angle returns a uniform angle in [0, 2π).
func Angle(rng *rand.Rand) float64 {
	return rng.Float64() * 2 * math.Pi
}

// PointIn returns a uniform point inside the playfield.
func PointIn(rng *rand.Rand, b Bounds) Vec {
	return Vec{rng.Float64() * b.Width, rng.Float64() * b.Height}
}
