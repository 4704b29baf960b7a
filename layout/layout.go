// Package layout places the letters of a word on screen by scaling a fixed
// stencil to the current viewport.
package layout

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/letterflock/config"
)

// Stencil is a word laid out in a fixed design space.
type Stencil struct {
	Text       string
	Width      float64
	Height     float64
	LetterSize float64      // Letter edge length in stencil units
	OffsetX    float64      // Screen pixels subtracted from every x
	Positions  [][2]float64 // One point per letter of Text
}

// Slot is where one letter ends up.
type Slot struct {
	Letter string
	// Center is the letter's destination, as the centre of its sprite.
	Center r2.Vec
	Size   float64
}

// FromConfig builds a stencil from the layout config section.
func FromConfig(cfg config.LayoutConfig) Stencil {
	return Stencil{
		Text:       cfg.Text,
		Width:      cfg.StencilWidth,
		Height:     cfg.StencilHeight,
		LetterSize: cfg.LetterSize,
		OffsetX:    cfg.OffsetX,
		Positions:  cfg.Positions,
	}
}

// PixelSize returns the letter edge length in pixels for a viewport width.
// Letters scale with width only.
func (s Stencil) PixelSize(viewportW float64) float64 {
	return s.LetterSize * (viewportW / s.Width)
}

// Slots returns one slot per letter of Text, in order.
//
// The stencil point gives the letter's top-left corner with x shifted left by
// OffsetX and y raised by half a letter; Center adds half a letter on both
// axes so it can be used directly as a sprite centre.
func (s Stencil) Slots(viewportW, viewportH float64) ([]Slot, error) {
	letters := []rune(s.Text)
	if len(letters) != len(s.Positions) {
		return nil, fmt.Errorf("layout: %d letters but %d positions", len(letters), len(s.Positions))
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("layout: stencil size must be positive, got %gx%g", s.Width, s.Height)
	}

	sx := viewportW / s.Width
	sy := viewportH / s.Height
	size := s.PixelSize(viewportW)

	slots := make([]Slot, len(letters))
	for i, c := range letters {
		p := s.Positions[i]
		topLeft := r2.Vec{X: sx*p[0] - s.OffsetX, Y: sy*p[1] - size/2}
		slots[i] = Slot{
			Letter: string(c),
			Center: r2.Add(topLeft, r2.Vec{X: size / 2, Y: size / 2}),
			Size:   size,
		}
	}
	return slots, nil
}

// Letters returns the distinct letters of Text in first-appearance order.
func (s Stencil) Letters() []string {
	seen := make(map[rune]bool)
	var out []string
	for _, c := range s.Text {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, string(c))
	}
	return out
}
