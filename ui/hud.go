package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Agents       int
	Tick         int32
	FPS          int32
	Elapsed      time.Duration
	TravelWeight float64
	Fullscreen   bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Phase names the part of the schedule a travel weight belongs to.
func Phase(travelWeight float64) string {
	switch {
	case travelWeight <= 0:
		return "Flocking"
	case travelWeight >= 1:
		return "Forming"
	default:
		return "Handoff"
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	// Title
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	// Simulation info
	rl.DrawText(
		fmt.Sprintf("Agents: %d | Tick: %d | FPS: %d | %dx%d", data.Agents, data.Tick, data.FPS, data.ScreenWidth, data.ScreenHeight),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Elapsed: %s", data.Elapsed.Round(100*time.Millisecond)),
		10, 55, 16, rl.LightGray,
	)

	// Travel weight
	gui.ProgressBar(
		rl.Rectangle{X: 70, Y: 78, Width: 200, Height: 14},
		"Travel", fmt.Sprintf("%.2f", data.TravelWeight),
		float32(data.TravelWeight), 0, 1,
	)

	rl.DrawText(Phase(data.TravelWeight), 10, 100, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
