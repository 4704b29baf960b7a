package flock

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

const eps = 1e-9

func testBoid(x, y, vx, vy float64) Boid {
	return NewBoid(r2.Vec{X: x, Y: y}, r2.Vec{X: vx, Y: vy}, Sprite{Key: "A", Width: 10, Height: 10}, r2.Vec{X: 400, Y: 300})
}

func vecNear(a, b r2.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestForcesAreBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	boids := make([]Boid, 60)
	view := make([]Neighbor, len(boids))
	for i := range boids {
		boids[i] = testBoid(rng.Float64()*200, rng.Float64()*200, rng.Float64()*6-3, rng.Float64()*6-3)
		boids[i].Destination = r2.Vec{X: rng.Float64() * 800, Y: rng.Float64() * 600}
		view[i] = boids[i].Neighbor()
	}

	for i := range boids {
		f := boids[i].Forces(view, DefaultRadii)
		for name, v := range map[string]r2.Vec{
			"separation": f.Separation,
			"alignment":  f.Alignment,
			"cohesion":   f.Cohesion,
			"travel":     f.Travel,
		} {
			if math.IsNaN(v.X) || math.IsNaN(v.Y) {
				t.Fatalf("boid %d: %s force is NaN", i, name)
			}
			if n := r2.Norm(v); n > boids[i].MaxForce+eps {
				t.Errorf("boid %d: %s force %f exceeds max force %f", i, name, n, boids[i].MaxForce)
			}
		}
	}
}

func TestNoNeighborsGivesZeroForce(t *testing.T) {
	b := testBoid(100, 100, 1, 2)

	tests := []struct {
		name string
		view []Neighbor
	}{
		{name: "empty view", view: nil},
		{name: "self only", view: []Neighbor{b.Neighbor()}},
		{name: "neighbor out of range", view: []Neighbor{b.Neighbor(), {Position: r2.Vec{X: 160, Y: 100}, Velocity: r2.Vec{X: 3}}}},
		{name: "neighbor exactly at radius", view: []Neighbor{{Position: r2.Vec{X: 150, Y: 100}, Velocity: r2.Vec{X: 3}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Align(tt.view, DefaultRadii.Alignment); got != (r2.Vec{}) {
				t.Errorf("expected zero alignment, got %v", got)
			}
			if got := b.Cohere(tt.view, DefaultRadii.Cohesion); got != (r2.Vec{}) {
				t.Errorf("expected zero cohesion, got %v", got)
			}
			if got := b.Separate(tt.view, DefaultRadii.Separation); got != (r2.Vec{}) {
				t.Errorf("expected zero separation, got %v", got)
			}
		})
	}
}

func TestSelfDoesNotContribute(t *testing.T) {
	b := testBoid(100, 100, 1, 0)
	other := Neighbor{Position: r2.Vec{X: 120, Y: 110}, Velocity: r2.Vec{X: -2, Y: 1}}

	withSelf := b.Forces([]Neighbor{b.Neighbor(), other}, DefaultRadii)
	without := b.Forces([]Neighbor{other}, DefaultRadii)

	if withSelf != without {
		t.Errorf("self entry changed forces: with self %+v, without %+v", withSelf, without)
	}
}

func TestSeparationPushesAway(t *testing.T) {
	b := testBoid(100, 100, 0, 0)
	view := []Neighbor{b.Neighbor(), {Position: r2.Vec{X: 110, Y: 100}}}

	got := b.Separate(view, DefaultRadii.Separation)
	want := r2.Vec{X: -b.MaxForce}
	if !vecNear(got, want, eps) {
		t.Errorf("expected separation %v, got %v", want, got)
	}
}

func TestSeparationWeightsCloserNeighborsHarder(t *testing.T) {
	// Neighbors on opposite sides: the closer one (left, d=5) must win.
	b := testBoid(100, 100, 0, 0)
	view := []Neighbor{
		{Position: r2.Vec{X: 95, Y: 100}},
		{Position: r2.Vec{X: 130, Y: 100}},
	}

	got := b.Separate(view, DefaultRadii.Separation)
	if got.X <= 0 {
		t.Errorf("expected push to the right, got %v", got)
	}
}

func TestAlignmentMatchesNeighborHeading(t *testing.T) {
	b := testBoid(100, 100, 0, 0)
	view := []Neighbor{{Position: r2.Vec{X: 120, Y: 100}, Velocity: r2.Vec{Y: 3}}}

	got := b.Align(view, DefaultRadii.Alignment)
	want := r2.Vec{Y: b.MaxForce}
	if !vecNear(got, want, eps) {
		t.Errorf("expected alignment %v, got %v", want, got)
	}
}

func TestCohesionSeeksCentroid(t *testing.T) {
	b := testBoid(100, 100, 0, 0)
	view := []Neighbor{
		{Position: r2.Vec{X: 120, Y: 90}},
		{Position: r2.Vec{X: 120, Y: 110}},
	}

	got := b.Cohere(view, DefaultRadii.Cohesion)
	want := r2.Vec{X: b.MaxForce}
	if !vecNear(got, want, eps) {
		t.Errorf("expected cohesion %v, got %v", want, got)
	}
}

func TestSeekAtTargetBrakes(t *testing.T) {
	b := testBoid(100, 100, 2, 2)
	want := limit(r2.Vec{X: -2, Y: -2}, b.MaxForce)
	if got := b.Seek(b.Position); !vecNear(got, want, eps) {
		t.Errorf("expected braking seek %v at target, got %v", want, got)
	}

	rest := testBoid(100, 100, 0, 0)
	if got := rest.Seek(rest.Position); got != (r2.Vec{}) {
		t.Errorf("expected zero seek at target when at rest, got %v", got)
	}
}

func TestCancellingNeighbors(t *testing.T) {
	b := testBoid(100, 100, 2, 0)
	view := []Neighbor{
		b.Neighbor(),
		{Position: r2.Vec{X: 90, Y: 100}, Velocity: r2.Vec{Y: 1}},
		{Position: r2.Vec{X: 110, Y: 100}, Velocity: r2.Vec{Y: -1}},
	}
	brake := r2.Vec{X: -b.MaxForce}

	tests := []struct {
		name string
		got  r2.Vec
		want r2.Vec
	}{
		{name: "alignment brakes", got: b.Align(view, DefaultRadii.Alignment), want: brake},
		{name: "cohesion brakes", got: b.Cohere(view, DefaultRadii.Cohesion), want: brake},
		{name: "separation is zero", got: b.Separate(view, DefaultRadii.Separation), want: r2.Vec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vecNear(tt.got, tt.want, eps) {
				t.Errorf("expected %v, got %v", tt.want, tt.got)
			}
		})
	}
}

func TestTravel(t *testing.T) {
	tests := []struct {
		name string
		boid Boid
		want r2.Vec
	}{
		{
			name: "at destination",
			boid: Boid{Position: r2.Vec{X: 400, Y: 300}, Velocity: r2.Vec{X: 3}, Destination: r2.Vec{X: 400, Y: 300}, MaxSpeed: 5, MaxForce: 0.05},
			want: r2.Vec{},
		},
		{
			name: "far away at rest accelerates toward",
			boid: Boid{Position: r2.Vec{X: 0, Y: 300}, Destination: r2.Vec{X: 400, Y: 300}, MaxSpeed: 5, MaxForce: 0.05},
			want: r2.Vec{X: 0.05},
		},
		{
			name: "inside stopping distance brakes",
			boid: Boid{Position: r2.Vec{X: 390, Y: 300}, Velocity: r2.Vec{X: 5}, Destination: r2.Vec{X: 400, Y: 300}, MaxSpeed: 5, MaxForce: 0.05},
			want: r2.Vec{X: -0.05},
		},
		{
			name: "slow inside stopping distance comes to rest",
			boid: Boid{Position: r2.Vec{X: 399.999, Y: 300}, Velocity: r2.Vec{X: 0.02}, Destination: r2.Vec{X: 400, Y: 300}, MaxSpeed: 5, MaxForce: 0.05},
			want: r2.Vec{X: -0.02},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.boid.Travel()
			if !vecNear(got, tt.want, eps) {
				t.Errorf("expected travel %v, got %v", tt.want, got)
			}
		})
	}
}

func TestStopDistance(t *testing.T) {
	if got := StopDistance(5, 0.05); math.Abs(got-250) > eps {
		t.Errorf("expected stop distance 250, got %f", got)
	}
	if got := StopDistance(0, 0.05); got != 0 {
		t.Errorf("expected stop distance 0 at rest, got %f", got)
	}
	if got := StopDistance(1, 0); !math.IsInf(got, 1) {
		t.Errorf("expected infinite stop distance without force, got %f", got)
	}
}

func TestBlend(t *testing.T) {
	f := Forces{
		Separation: r2.Vec{X: 1},
		Alignment:  r2.Vec{Y: 1},
		Cohesion:   r2.Vec{X: 1},
		Travel:     r2.Vec{X: -4},
	}

	tests := []struct {
		w    float64
		want r2.Vec
	}{
		{w: 0, want: r2.Vec{X: 2, Y: 1}},
		{w: 1, want: r2.Vec{X: -4}},
		{w: 0.5, want: r2.Vec{X: -1, Y: 0.5}},
		{w: 2, want: r2.Vec{X: -4}}, // clamped
	}

	for _, tt := range tests {
		if got := f.Blend(tt.w); !vecNear(got, tt.want, eps) {
			t.Errorf("Blend(%v): expected %v, got %v", tt.w, tt.want, got)
		}
	}
}
