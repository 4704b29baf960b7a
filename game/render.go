package game

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/letterflock/flock"
	"github.com/pthm-cable/letterflock/ui"
)

const controlsLegend = "F: fullscreen | H: HUD | O: overlays | D V N B: toggle overlay | < >: speed"

// Draw renders the current frame.
func (g *Game) Draw() {
	if g.headless {
		return
	}
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	bg := uint8(g.cfg.Screen.Background)
	rl.ClearBackground(rl.Color{R: bg, G: bg, B: bg, A: 255})

	// Underlays
	if g.overlays.IsEnabled(ui.OverlayWrapBand) {
		g.drawWrapBand()
	}
	if g.overlays.IsEnabled(ui.OverlayDestinations) {
		g.drawDestinations()
	}

	// Agents, in insertion order
	g.queue.Flush(g.sprites)

	// Overlays
	if g.overlays.IsEnabled(ui.OverlayNeighborhoods) {
		g.drawNeighborhoods()
	}
	if g.overlays.IsEnabled(ui.OverlayVelocity) {
		g.drawVelocities()
	}

	if g.showHUD {
		g.drawHUD()
	}

	rl.EndDrawing()
}

// drawHUD renders the HUD, stats panel and controls panel.
func (g *Game) drawHUD() {
	g.hud.Draw(ui.HUDData{
		Title:        fmt.Sprintf("Letter Flock: %s", g.stencil.Text),
		Agents:       g.flock.Len(),
		Tick:         g.tick,
		FPS:          rl.GetFPS(),
		Elapsed:      g.flock.Clock().Elapsed(),
		TravelWeight: g.flock.TravelWeight(),
		Fullscreen:   rl.IsWindowFullscreen(),
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	})

	if g.tick > 0 {
		g.statsPanel.Draw(g.lastStats)
	}
	g.controls.Draw(ui.ControlRows(g.overlays, ui.ControlsStatus{
		Stats:            g.lastStats,
		SeparationRadius: g.cfg.Steering.SeparationRadius,
		AlignmentRadius:  g.cfg.Steering.AlignmentRadius,
		CohesionRadius:   g.cfg.Steering.CohesionRadius,
	}))
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controlsLegend)
}

// drawDestinations outlines each letter's slot.
func (g *Game) drawDestinations() {
	for _, slot := range g.slots {
		half := float32(slot.Size / 2)
		x, y := float32(slot.Center.X), float32(slot.Center.Y)
		rl.DrawRectangleLinesEx(rl.Rectangle{X: x - half, Y: y - half, Width: 2 * half, Height: 2 * half}, 1, rl.Fade(rl.SkyBlue, 0.6))
		rl.DrawCircleV(rl.Vector2{X: x, Y: y}, 3, rl.SkyBlue)
	}
}

// drawVelocities draws each agent's velocity scaled up for visibility.
func (g *Game) drawVelocities() {
	const scale = 10
	g.flock.Each(func(_ ecs.Entity, b *flock.Boid) {
		from := rl.Vector2{X: float32(b.Position.X), Y: float32(b.Position.Y)}
		to := rl.Vector2{X: from.X + float32(b.Velocity.X*scale), Y: from.Y + float32(b.Velocity.Y*scale)}
		rl.DrawLineEx(from, to, 2, rl.Orange)
	})
}

// drawNeighborhoods draws the separation and cohesion radii around each agent.
func (g *Game) drawNeighborhoods() {
	sep := float32(g.cfg.Steering.SeparationRadius)
	coh := float32(g.cfg.Steering.CohesionRadius)
	g.flock.Each(func(_ ecs.Entity, b *flock.Boid) {
		x, y := int32(math.Round(b.Position.X)), int32(math.Round(b.Position.Y))
		rl.DrawCircleLines(x, y, sep, rl.Fade(rl.Red, 0.4))
		rl.DrawCircleLines(x, y, coh, rl.Fade(rl.Green, 0.4))
	})
}

// drawWrapBand marks agents inside the off-screen margin at the nearest
// screen edge, sized by how close they are to wrapping.
func (g *Game) drawWrapBand() {
	w, h := float64(g.screenWidth), float64(g.screenHeight)
	margin := g.cfg.Boid.Margin
	g.flock.Each(func(_ ecs.Entity, b *flock.Boid) {
		x := math.Min(math.Max(b.Position.X, 0), w)
		y := math.Min(math.Max(b.Position.Y, 0), h)
		out := math.Max(math.Abs(b.Position.X-x), math.Abs(b.Position.Y-y))
		if out == 0 {
			return
		}
		r := float32(4 + 8*math.Min(out/margin, 1))
		rl.DrawCircleV(rl.Vector2{X: float32(x), Y: float32(y)}, r, rl.Fade(rl.Yellow, 0.7))
	})
}
