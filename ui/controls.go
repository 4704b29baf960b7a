package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/letterflock/telemetry"
)

// ControlsStatus is the live flock state shown next to each overlay.
type ControlsStatus struct {
	Stats telemetry.WindowStats

	SeparationRadius float64
	AlignmentRadius  float64
	CohesionRadius   float64
}

// ControlRow is one line of the controls panel. A header row carries only
// Name.
type ControlRow struct {
	Header bool
	Key    string
	Name   string
	On     bool
	Detail string
}

// OverlayDetail returns the live value an overlay visualizes.
func OverlayDetail(id OverlayID, st ControlsStatus) string {
	switch id {
	case OverlayDestinations:
		return fmt.Sprintf("%d/%d settled", st.Stats.Settled, st.Stats.Agents)
	case OverlayVelocity:
		return fmt.Sprintf("%.2f px/f", st.Stats.SpeedMean)
	case OverlayNeighborhoods:
		return fmt.Sprintf("%.0f/%.0f/%.0f px", st.SeparationRadius, st.AlignmentRadius, st.CohesionRadius)
	case OverlayWrapBand:
		return fmt.Sprintf("%d wraps", st.Stats.Wraps)
	}
	return ""
}

// ControlRows lays out the panel: one header per category followed by its
// overlays in registration order.
func ControlRows(overlays *OverlayRegistry, st ControlsStatus) []ControlRow {
	var rows []ControlRow
	for _, cat := range overlays.Categories() {
		rows = append(rows, ControlRow{Header: true, Name: categoryLabel(cat)})
		for _, desc := range overlays.ByCategory(cat) {
			rows = append(rows, ControlRow{
				Key:    desc.KeyLabel,
				Name:   desc.Name,
				On:     overlays.IsEnabled(desc.ID),
				Detail: OverlayDetail(desc.ID, st),
			})
		}
	}
	return rows
}

// ControlsPanel lists the overlay keys with their state.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders rows and returns the y below the panel.
func (c *ControlsPanel) Draw(rows []ControlRow) int32 {
	if !c.visible {
		return c.y
	}

	th := c.renderer.Theme
	height := int32(len(rows)+1)*th.LineHeight + th.Padding*2
	c.renderer.DrawPanel(c.x, c.y, c.width, height)

	x := c.x + th.Padding
	y := c.y + th.Padding
	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += th.LineHeight

	for _, row := range rows {
		if row.Header {
			rl.DrawText(row.Name, x, y, th.HeaderFontSize, th.SectionHeader)
			y += th.LineHeight
			continue
		}
		c.drawRow(x, y, c.width-th.Padding*2, row)
		y += th.LineHeight
	}
	return c.y + height
}

func (c *ControlsPanel) drawRow(x, y, width int32, row ControlRow) {
	th := c.renderer.Theme

	key := fmt.Sprintf("[%s]", row.Key)
	state, stateColor := "off", th.LabelColor
	nameColor := th.LabelColor
	if row.On {
		state, stateColor = "on", rl.Green
		nameColor = rl.White
	}

	rl.DrawText(key, x, y, th.FontSize, th.ValueColor)
	rl.DrawText(state, x+28, y, th.FontSize, stateColor)
	rl.DrawText(row.Name, x+56, y, th.FontSize, nameColor)

	dw := rl.MeasureText(row.Detail, th.FontSize)
	rl.DrawText(row.Detail, x+width-dw, y, th.FontSize, th.ValueColor)
}

func categoryLabel(cat string) string {
	switch cat {
	case "formation":
		return "Formation"
	case "motion":
		return "Motion"
	}
	return cat
}
