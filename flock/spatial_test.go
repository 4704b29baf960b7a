package flock

import (
	"math/rand"
	"slices"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestSpatialGridQueryCoversRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const margin = 70.0
	g := NewSpatialGrid(testViewport, margin, 50)

	points := make([]r2.Vec, 300)
	for i := range points {
		// Include points beyond the wrap band to exercise clamping.
		points[i] = r2.Vec{
			X: rng.Float64()*(testViewport.Width+4*margin) - 2*margin,
			Y: rng.Float64()*(testViewport.Height+4*margin) - 2*margin,
		}
		g.Insert(i, points[i])
	}

	var buf []int
	for i, p := range points {
		buf = g.QueryInto(buf[:0], p, 50)
		if !slices.IsSorted(buf) {
			t.Fatalf("query %d: result not sorted", i)
		}
		for j, q := range points {
			if r2.Norm(r2.Sub(p, q)) < 50 {
				if _, found := slices.BinarySearch(buf, j); !found {
					t.Errorf("query %d: missing neighbor %d at distance %f", i, j, r2.Norm(r2.Sub(p, q)))
				}
			}
		}
	}
}

func TestSpatialGridClearAndResize(t *testing.T) {
	g := NewSpatialGrid(testViewport, 70, 50)
	g.Insert(0, r2.Vec{X: 10, Y: 10})

	if got := g.QueryInto(nil, r2.Vec{X: 10, Y: 10}, 5); len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}

	g.Clear()
	if got := g.QueryInto(nil, r2.Vec{X: 10, Y: 10}, 5); len(got) != 0 {
		t.Errorf("expected empty grid after clear, got %v", got)
	}

	g.Resize(Viewport{Width: 100, Height: 100}, 10)
	g.Insert(7, r2.Vec{X: 500, Y: 500}) // clamped into the last cell
	if got := g.QueryInto(nil, r2.Vec{X: 110, Y: 110}, 1); len(got) != 1 || got[0] != 7 {
		t.Errorf("expected clamped entry 7, got %v", got)
	}
}

func TestSpatialGridDefaultsCellSize(t *testing.T) {
	g := NewSpatialGrid(testViewport, 70, 0)
	if g.cellSize != DefaultRadii.Max() {
		t.Errorf("expected cell size %f, got %f", DefaultRadii.Max(), g.cellSize)
	}
}
