// Letter layout preview tool - shows where each letter settles for a given
// viewport size, with sliders for the viewport and stencil parameters.
//
// Usage: go run ./cmd/layoutpreview [-config path] [-out layout.yaml]
package main

import (
	"flag"
	"fmt"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/letterflock/config"
	"github.com/pthm-cable/letterflock/layout"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewW     = 720
	previewH     = 520
	panelWidth   = windowWidth - previewW - 30
)

// PreviewParams holds the values the sliders edit.
type PreviewParams struct {
	ViewportW  float32
	ViewportH  float32
	LetterSize float32
	OffsetX    float32
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "layout.yaml", "Where Save writes the edited config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	defaults := PreviewParams{
		ViewportW:  float32(cfg.Screen.Width),
		ViewportH:  float32(cfg.Screen.Height),
		LetterSize: float32(cfg.Layout.LetterSize),
		OffsetX:    float32(cfg.Layout.OffsetX),
	}
	params := defaults
	status := ""

	rl.InitWindow(windowWidth, windowHeight, "Letter Layout Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	for !rl.WindowShouldClose() {
		stencil := layout.FromConfig(cfg.Layout)
		stencil.LetterSize = float64(params.LetterSize)
		stencil.OffsetX = float64(params.OffsetX)
		slots, slotErr := stencil.Slots(float64(params.ViewportW), float64(params.ViewportH))

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Preview: the viewport scaled to fit the preview box
		scale := min(previewW/params.ViewportW, previewH/params.ViewportH)
		vw, vh := params.ViewportW*scale, params.ViewportH*scale
		bg := uint8(cfg.Screen.Background)
		rl.DrawRectangle(10, 10, int32(vw), int32(vh), rl.Color{R: bg, G: bg, B: bg, A: 255})
		rl.DrawRectangleLines(10, 10, int32(vw), int32(vh), rl.DarkGray)

		if slotErr != nil {
			rl.DrawText(slotErr.Error(), 20, 20, 16, rl.Red)
		}
		outside := 0
		for _, s := range slots {
			half := float32(s.Size/2) * scale
			x := 10 + float32(s.Center.X)*scale
			y := 10 + float32(s.Center.Y)*scale
			color := rl.SkyBlue
			if s.Center.X < 0 || s.Center.X > float64(params.ViewportW) || s.Center.Y < 0 || s.Center.Y > float64(params.ViewportH) {
				color = rl.Red
				outside++
			}
			rl.DrawRectangleLinesEx(rl.Rectangle{X: x - half, Y: y - half, Width: 2 * half, Height: 2 * half}, 1, color)
			fontSize := int32(max(2*half*0.8, 8))
			tw := rl.MeasureText(s.Letter, fontSize)
			rl.DrawText(s.Letter, int32(x)-tw/2, int32(y)-fontSize/2, fontSize, rl.White)
		}

		statsY := int32(previewH + 25)
		rl.DrawText(fmt.Sprintf("Viewport: %.0fx%.0f  Letter size: %.1fpx  Slots: %d  Off-screen: %d",
			params.ViewportW, params.ViewportH, stencil.PixelSize(float64(params.ViewportW)), len(slots), outside),
			15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Text: %s", stencil.Text), 15, statsY+20, 16, rl.DarkGray)
		if status != "" {
			rl.DrawText(status, 15, statsY+40, 16, rl.DarkGreen)
		}

		// Control panel
		panelX := float32(previewW + 20)
		panelY := float32(10)

		rl.DrawText("Layout Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		params.ViewportW = slider(panelX, &panelY, "Viewport width", "%.0f", params.ViewportW, 320, 3840)
		params.ViewportH = slider(panelX, &panelY, "Viewport height", "%.0f", params.ViewportH, 240, 2160)

		// Separator
		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		params.LetterSize = slider(panelX, &panelY, "Letter size (stencil units)", "%.1f", params.LetterSize, 20, 260)
		params.OffsetX = slider(panelX, &panelY, "Offset X (pixels)", "%.0f", params.OffsetX, -200, 200)
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset") {
			params = defaults
			status = ""
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Save") {
			out := cfg.Clone()
			out.Screen.Width = int(params.ViewportW)
			out.Screen.Height = int(params.ViewportH)
			out.Layout.LetterSize = float64(params.LetterSize)
			out.Layout.OffsetX = float64(params.OffsetX)
			if err := out.WriteYAML(*outPath); err != nil {
				status = err.Error()
			} else {
				status = "Saved to " + *outPath
			}
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bar and advances y past it.
func slider(x float32, y *float32, label, format string, value, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, v), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}
