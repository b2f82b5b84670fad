// Package physics provides vector math, overlap tests and distance utilities.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Dist is Distance for vectors.
func Dist(a, b Vec) float64 {
	return Distance(a[0], a[1], b[0], b[1])
}

// Within reports whether a and b are at most radius apart.
func Within(a, b Vec, radius float64) bool {
	return DistanceSquared(a[0], a[1], b[0], b[1]) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// Overlap is CirclesOverlap for vectors.
func Overlap(a Vec, ra float64, b Vec, rb float64) bool {
	return CirclesOverlap(a[0], a[1], ra, b[0], b[1], rb)
}
