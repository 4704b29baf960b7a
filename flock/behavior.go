package flock

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Separate steers away from neighbors closer than radius. Closer neighbors
// push harder (each contribution is divided by its distance).
func (b *Boid) Separate(view []Neighbor, radius float64) r2.Vec {
	var sum r2.Vec
	count := 0
	for i := range view {
		diff := r2.Sub(b.Position, view[i].Position)
		d := r2.Norm(diff)
		// d == 0 is this agent (or an exact overlap, which has no direction)
		if d <= 0 || d >= radius {
			continue
		}
		sum = r2.Add(sum, r2.Scale(1/(d*d), diff))
		count++
	}
	if count == 0 {
		return r2.Vec{}
	}
	sum = r2.Scale(1/float64(count), sum)
	// Pushes that cancel out leave nothing to steer away from
	if isZero(sum) {
		return r2.Vec{}
	}
	return steer(sum, b.Velocity, b.MaxSpeed, b.MaxForce)
}

// Align steers toward the average velocity of neighbors within radius. When
// the neighbors' velocities cancel out it brakes toward a standstill.
func (b *Boid) Align(view []Neighbor, radius float64) r2.Vec {
	var sum r2.Vec
	count := 0
	for i := range view {
		d := r2.Norm(r2.Sub(b.Position, view[i].Position))
		if d <= 0 || d >= radius {
			continue
		}
		sum = r2.Add(sum, view[i].Velocity)
		count++
	}
	if count == 0 {
		return r2.Vec{}
	}
	return steer(r2.Scale(1/float64(count), sum), b.Velocity, b.MaxSpeed, b.MaxForce)
}

// Cohere seeks the centroid of neighbors within radius.
func (b *Boid) Cohere(view []Neighbor, radius float64) r2.Vec {
	var sum r2.Vec
	count := 0
	for i := range view {
		d := r2.Norm(r2.Sub(b.Position, view[i].Position))
		if d <= 0 || d >= radius {
			continue
		}
		sum = r2.Add(sum, view[i].Position)
		count++
	}
	if count == 0 {
		return r2.Vec{}
	}
	return b.Seek(r2.Scale(1/float64(count), sum))
}

// Seek steers toward target at full speed. Already at the target, it brakes.
func (b *Boid) Seek(target r2.Vec) r2.Vec {
	return steer(r2.Sub(target, b.Position), b.Velocity, b.MaxSpeed, b.MaxForce)
}

// Travel steers toward the destination and brakes once the agent is inside
// its stopping distance (speed^2 / 2*maxForce at full deceleration).
func (b *Boid) Travel() r2.Vec {
	travel := r2.Sub(b.Destination, b.Position)
	distance := r2.Norm(travel)
	if distance == 0 {
		return r2.Vec{}
	}

	speed := r2.Norm(b.Velocity)
	if distance > StopDistance(speed, b.MaxForce) {
		return steer(travel, b.Velocity, b.MaxSpeed, b.MaxForce)
	}
	return limit(r2.Scale(-1, b.Velocity), b.MaxForce)
}

// StopDistance is the distance needed to come to rest from speed under a
// constant deceleration of maxForce per frame.
func StopDistance(speed, maxForce float64) float64 {
	if maxForce <= 0 {
		return math.Inf(1)
	}
	return speed * speed / (2 * maxForce)
}
