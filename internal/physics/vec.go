package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec is a 2D vector in world units (x right, y down).
type Vec = mgl64.Vec2

// FromAngle returns the unit vector for angle radians.
func FromAngle(angle float64) Vec {
	return Vec{math.Cos(angle), math.Sin(angle)}
}

// Unit returns v scaled to length 1, or the zero vector when v has no length.
func Unit(v Vec) Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return v.Mul(1 / l)
}

// Lerp blends a toward b by t (0 keeps a, 1 yields b).
func Lerp(a, b Vec, t float64) Vec {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// Heading returns the angle of v in radians.
func Heading(v Vec) float64 {
	return math.Atan2(v[1], v[0])
}
