// Package draw renders line art to ANSI terminals. Shapes are rasterized onto a
// Canvas with two sub-pixels per cell (half blocks); text is placed with a
// ChunkWriter. Both buffer their output so a frame leaves in a few large writes.
package draw

import (
	"math"

	"github.com/tomz197/shardfall/internal/physics"
)

// Point is a position in logical (world) coordinates.
type Point = physics.Vec

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI color sequences for text overlays. The canvas itself is monochrome.
const (
	ColorReset      = "\033[0m"
	ColorDim        = "\033[2m"
	ColorYellow     = "\033[33m"
	ColorBrightCyan = "\033[96m"
	ColorBrightRed  = "\033[91m"
)

// Colorize wraps s in color and a reset.
func Colorize(color, s string) string {
	return color + s + ColorReset
}

// Polygon writes the outline of an irregular polygon into dst and returns it.
// Vertex i sits radii[i] from center at angle rotation + 2πi/len(radii).
// dst is grown when too small.
func Polygon(dst []Point, center Point, radii []float64, rotation float64) []Point {
	n := len(radii)
	if cap(dst) < n {
		dst = make([]Point, n)
	}
	dst = dst[:n]
	for i, r := range radii {
		angle := rotation + 2*math.Pi*float64(i)/float64(n)
		dst[i] = center.Add(physics.FromAngle(angle).Mul(r))
	}
	return dst
}

// Triangle writes the ship-shaped triangle pointing along angle into dst.
func Triangle(dst []Point, center Point, size, angle float64) []Point {
	if cap(dst) < 3 {
		dst = make([]Point, 3)
	}
	dst = dst[:3]
	dst[0] = center.Add(physics.FromAngle(angle).Mul(size))
	dst[1] = center.Add(physics.FromAngle(angle + 2.5).Mul(size * 0.8))
	dst[2] = center.Add(physics.FromAngle(angle - 2.5).Mul(size * 0.8))
	return dst
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
