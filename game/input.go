package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF) || rl.IsKeyPressed(rl.KeyF11) {
		g.toggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyH) {
		g.showHUD = !g.showHUD
	}

	if rl.IsKeyPressed(rl.KeyO) {
		g.controls.Toggle()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	for _, desc := range g.overlays.All() {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			g.overlays.Toggle(desc.ID)
		}
	}
}

// toggleFullscreen switches between windowed and fullscreen at the
// monitor's resolution.
func (g *Game) toggleFullscreen() {
	if !rl.IsWindowFullscreen() {
		monitor := rl.GetCurrentMonitor()
		rl.SetWindowSize(rl.GetMonitorWidth(monitor), rl.GetMonitorHeight(monitor))
		rl.ToggleFullscreen()
	} else {
		rl.ToggleFullscreen()
		rl.SetWindowSize(g.cfg.Screen.Width, g.cfg.Screen.Height)
	}
	g.syncScreenSize()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.syncScreenSize()
}

// syncScreenSize reads the current window size. Destinations stay where
// they were laid out; only the wrap bounds and panels follow the window.
func (g *Game) syncScreenSize() {
	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())
	g.statsPanel.SetPosition(int32(g.screenWidth)-230, 10)
}
