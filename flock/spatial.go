package flock

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"
)

// SpatialGrid buckets agent indices by cell for radius queries. It covers the
// viewport plus the wrap margin; positions outside are clamped to edge cells,
// which keeps queries exact because clamping is monotonic.
type SpatialGrid struct {
	cellSize float64
	originX  float64
	originY  float64
	cols     int
	rows     int
	cells    [][]int
}

// NewSpatialGrid creates a grid covering [-margin, w+margin] x [-margin, h+margin].
// A non-positive cellSize falls back to DefaultRadii.Max().
func NewSpatialGrid(vp Viewport, margin, cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = DefaultRadii.Max()
	}
	g := &SpatialGrid{cellSize: cellSize}
	g.Resize(vp, margin)
	return g
}

// Resize reallocates the grid for a new viewport. The grid is left empty.
func (g *SpatialGrid) Resize(vp Viewport, margin float64) {
	g.originX = -margin
	g.originY = -margin
	g.cols = int((vp.Width+2*margin)/g.cellSize) + 1
	g.rows = int((vp.Height+2*margin)/g.cellSize) + 1
	if g.cols < 1 {
		g.cols = 1
	}
	if g.rows < 1 {
		g.rows = 1
	}

	n := g.cols * g.rows
	if cap(g.cells) >= n {
		g.cells = g.cells[:n]
	} else {
		g.cells = make([][]int, n)
	}
	g.Clear()
}

// Clear removes all entries from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		if g.cells[i] == nil {
			g.cells[i] = make([]int, 0, 4)
		}
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds index i at position p.
func (g *SpatialGrid) Insert(i int, p r2.Vec) {
	col, row := g.cell(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], i)
}

// QueryInto appends to dst the indices stored in every cell that may hold a
// point within radius of p, sorted ascending. Callers still filter by exact
// distance. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryInto(dst []int, p r2.Vec, radius float64) []int {
	minCol, minRow := g.cell(r2.Vec{X: p.X - radius, Y: p.Y - radius})
	maxCol, maxRow := g.cell(r2.Vec{X: p.X + radius, Y: p.Y + radius})

	start := len(dst)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			dst = append(dst, g.cells[row*g.cols+col]...)
		}
	}
	// Keep insertion order so sums are accumulated in the same order as a
	// full scan.
	slices.Sort(dst[start:])
	return dst
}

// cell returns the clamped column and row for a position.
func (g *SpatialGrid) cell(p r2.Vec) (col, row int) {
	col = int((p.X - g.originX) / g.cellSize)
	row = int((p.Y - g.originY) / g.cellSize)

	if p.X < g.originX {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if p.Y < g.originY {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}
