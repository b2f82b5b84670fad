package physics

import "math"

// Bounds is the playfield rectangle with its origin at the top-left corner.
type Bounds struct {
	Width  float64
	Height float64
}

// Center returns the middle of the playfield.
func (b Bounds) Center() Vec {
	return Vec{b.Width / 2, b.Height / 2}
}

// Contains reports whether p lies inside the playfield.
func (b Bounds) Contains(p Vec) bool {
	return p[0] >= 0 && p[0] <= b.Width && p[1] >= 0 && p[1] <= b.Height
}

// Wrap moves p to the opposite edge once it has left the playfield by more than
// margin on either axis (Asteroids-style). Each axis wraps over a period of
// size+2*margin, so an object leaving at -margin reappears at size+margin and
// repeated wraps stay congruent to the unwrapped trajectory.
func (b Bounds) Wrap(p Vec, margin float64) Vec {
	p[0] = wrapAxis(p[0], b.Width, margin)
	p[1] = wrapAxis(p[1], b.Height, margin)
	return p
}

func wrapAxis(v, size, margin float64) float64 {
	if size <= 0 {
		return v
	}
	lo := -margin
	hi := size + margin
	if v >= lo && v <= hi {
		return v
	}

	period := hi - lo
	v = math.Mod(v-lo, period)
	if v < 0 {
		v += period
	}
	return v + lo
}
