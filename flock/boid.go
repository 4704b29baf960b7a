// Package flock implements the steering engine: agents that blend flocking
// with a timed pull toward individual destinations.
package flock

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Default agent limits.
const (
	DefaultMaxSpeed = 5.0
	DefaultMaxForce = 0.05
	DefaultMargin   = 70.0
)

// Boid is a single steering agent.
type Boid struct {
	Position     r2.Vec
	Velocity     r2.Vec
	Acceleration r2.Vec // forces accumulated this frame, cleared on integrate

	Sprite      Sprite
	Destination r2.Vec

	MaxSpeed float64
	MaxForce float64
	Margin   float64 // distance past the viewport edge before wrapping
}

// NewBoid creates an agent with the default limits.
func NewBoid(pos, vel r2.Vec, sprite Sprite, destination r2.Vec) Boid {
	return Boid{
		Position:    pos,
		Velocity:    vel,
		Sprite:      sprite,
		Destination: destination,
		MaxSpeed:    DefaultMaxSpeed,
		MaxForce:    DefaultMaxForce,
		Margin:      DefaultMargin,
	}
}

// Forces holds the four steering contributions of a frame before blending.
type Forces struct {
	Separation r2.Vec
	Alignment  r2.Vec
	Cohesion   r2.Vec
	Travel     r2.Vec
}

// Blend weights flocking by (1-w) and travel by w and sums the result.
func (f Forces) Blend(w float64) r2.Vec {
	w = clamp01(w)
	flocking := r2.Add(r2.Add(f.Separation, f.Alignment), f.Cohesion)
	return r2.Add(r2.Scale(1-w, flocking), r2.Scale(w, f.Travel))
}

// Forces computes the steering contributions against view. The view may
// contain the agent itself; zero-distance entries are ignored.
func (b *Boid) Forces(view []Neighbor, radii Radii) Forces {
	return Forces{
		Separation: b.Separate(view, radii.Separation),
		Alignment:  b.Align(view, radii.Alignment),
		Cohesion:   b.Cohere(view, radii.Cohesion),
		Travel:     b.Travel(),
	}
}

// Tick advances the agent by one frame: steer, integrate, wrap and draw.
// view must not alias the agent's own fields; it is read before any write.
// It reports whether the agent wrapped.
func (b *Boid) Tick(view []Neighbor, frame Frame) bool {
	b.ApplyForce(b.Forces(view, frame.Radii).Blend(frame.TravelWeight))
	b.Integrate()
	wrapped := b.Wrap(frame.Viewport)
	if frame.Drawer != nil {
		frame.Drawer.Draw(b.DrawRequest(frame.Dilation))
	}
	return wrapped
}

// ApplyForce adds force to this frame's acceleration.
func (b *Boid) ApplyForce(force r2.Vec) {
	b.Acceleration = r2.Add(b.Acceleration, force)
}

// Integrate applies the accumulated acceleration, caps speed, moves the
// agent and clears the acceleration.
func (b *Boid) Integrate() {
	b.Velocity = limit(r2.Add(b.Velocity, b.Acceleration), b.MaxSpeed)
	b.Position = r2.Add(b.Position, b.Velocity)
	b.Acceleration = r2.Vec{}
}

// Wrap teleports the agent to the opposite side once it is more than Margin
// past an edge. The jump is discontinuous; there is no interpolation.
// It reports whether any axis wrapped.
func (b *Boid) Wrap(vp Viewport) bool {
	m := b.Margin
	before := b.Position
	if b.Position.X < -m {
		b.Position.X = vp.Width + m
	}
	if b.Position.Y < -m {
		b.Position.Y = vp.Height + m
	}
	if b.Position.X > vp.Width+m {
		b.Position.X = -m
	}
	if b.Position.Y > vp.Height+m {
		b.Position.Y = -m
	}
	return b.Position != before
}

// Rotation is the sprite angle: the velocity heading plus a quarter turn so
// the sprite's up axis points along the velocity.
func (b *Boid) Rotation() float64 {
	return heading(b.Velocity) + math.Pi/2
}

// DrawRequest describes how to draw the agent. A dilation of 0 is treated as 1.
func (b *Boid) DrawRequest(dilation float64) DrawRequest {
	if dilation == 0 {
		dilation = 1
	}
	return DrawRequest{
		Sprite:   b.Sprite,
		Center:   b.Position,
		Width:    b.Sprite.Width * dilation,
		Height:   b.Sprite.Height * dilation,
		Rotation: b.Rotation(),
	}
}

// Neighbor returns the view other agents see of b.
func (b *Boid) Neighbor() Neighbor {
	return Neighbor{Position: b.Position, Velocity: b.Velocity}
}

// DistanceToDestination returns |destination - position|.
func (b *Boid) DistanceToDestination() float64 {
	return r2.Norm(r2.Sub(b.Destination, b.Position))
}

// Speed returns |velocity|.
func (b *Boid) Speed() float64 {
	return r2.Norm(b.Velocity)
}
