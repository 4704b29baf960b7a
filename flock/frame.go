package flock

import "gonum.org/v1/gonum/spatial/r2"

// Viewport is the drawing surface size in pixels.
type Viewport struct {
	Width, Height float64
}

// Sprite identifies the image an agent is drawn with and its drawn size.
type Sprite struct {
	Key           string
	Width, Height float64
}

// DrawRequest asks the host to draw a sprite centered at Center, rotated by
// Rotation radians about that center.
type DrawRequest struct {
	Sprite   Sprite
	Center   r2.Vec
	Width    float64
	Height   float64
	Rotation float64
}

// Drawer receives draw requests from agents.
type Drawer interface {
	Draw(req DrawRequest)
}

// DrawerFunc adapts a function to the Drawer interface.
type DrawerFunc func(req DrawRequest)

// Draw calls f(req).
func (f DrawerFunc) Draw(req DrawRequest) {
	f(req)
}

// Radii are the neighborhood sizes of the flocking behaviors.
type Radii struct {
	Separation float64
	Alignment  float64
	Cohesion   float64
}

// DefaultRadii are the neighborhood sizes used by the letter flock.
var DefaultRadii = Radii{Separation: 40, Alignment: 50, Cohesion: 50}

// Max returns the largest radius.
func (r Radii) Max() float64 {
	return max(r.Separation, r.Alignment, r.Cohesion)
}

// Neighbor is the read-only view of an agent that other agents see during a
// frame. It is captured before any agent updates.
type Neighbor struct {
	Position r2.Vec
	Velocity r2.Vec
}

// Frame carries the per-frame inputs shared by every agent.
type Frame struct {
	// TravelWeight blends flocking (1-w) with destination seeking (w).
	TravelWeight float64
	// Dilation scales the drawn sprite size.
	Dilation float64
	Viewport Viewport
	Radii    Radii
	// Drawer may be nil, in which case nothing is drawn.
	Drawer Drawer
}
