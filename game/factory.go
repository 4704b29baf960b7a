package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/letterflock/flock"
)

// spawnFlock creates one agent per layout slot, in text order, at a random
// position with a random velocity.
func (g *Game) spawnFlock() {
	for _, slot := range g.slots {
		g.spawnAgent(slot.Letter, slot.Size, slot.Center)
	}
}

// spawnAgent creates one agent heading for dest.
func (g *Game) spawnAgent(letter string, size float64, dest r2.Vec) {
	cfg := g.cfg
	v := cfg.Boid.InitialSpeed

	pos := r2.Vec{
		X: g.rng.Float64() * float64(g.screenWidth),
		Y: g.rng.Float64() * float64(g.screenHeight),
	}
	vel := r2.Vec{
		X: g.rng.Float64()*2*v - v,
		Y: g.rng.Float64()*2*v - v,
	}

	b := flock.NewBoid(pos, vel, flock.Sprite{Key: letter, Width: size, Height: size}, dest)
	b.MaxSpeed = cfg.Boid.MaxSpeed
	b.MaxForce = cfg.Boid.MaxForce
	b.Margin = cfg.Boid.Margin

	g.flock.Add(b)
}
