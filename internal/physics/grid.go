package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection in a wrapping world.
// Items are inserted by position and index, then nearby items can be queried
// through a 3x3 neighborhood lookup.
//
// Cell size must be >= the maximum interaction distance between any two
// colliding items so that all potential collisions are found within
// the 3x3 neighborhood.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64
	cols        int
	rows        int
	cells       [][]int // item indices per cell, reset to [:0] between frames
}

// NewSpatialGrid creates a spatial grid covering the playfield.
func NewSpatialGrid(b Bounds, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil(b.Width / cellSize))
	rows := int(math.Ceil(b.Height / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
	}
}

// Clear removes all items from the grid without releasing cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an item (identified by index) at p.
func (g *SpatialGrid) Insert(p Vec, index int) {
	col, row := g.cell(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], index)
}

// QueryAround calls fn for each item index in the 3x3 neighborhood around p,
// wrapping at the playfield edges. Iteration stops once fn returns true.
// Small grids may visit the same cell more than once.
func (g *SpatialGrid) QueryAround(p Vec, fn func(index int) bool) {
	col, row := g.cell(p)

	for dr := -1; dr <= 1; dr++ {
		r := (row + dr + g.rows) % g.rows
		rowOffset := r * g.cols

		for dc := -1; dc <= 1; dc++ {
			c := (col + dc + g.cols) % g.cols
			for _, itemIdx := range g.cells[rowOffset+c] {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// cell converts a position to grid coordinates, clamping positions that sit in
// the wrap margin outside the playfield.
func (g *SpatialGrid) cell(p Vec) (col, row int) {
	col = int(p[0] * g.invCellSize)
	if col < 0 || p[0] < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(p[1] * g.invCellSize)
	if row < 0 || p[1] < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
