package ui

import (
	"fmt"

	"github.com/pthm-cable/letterflock/telemetry"
)

// statsOf unwraps the panel data.
func statsOf(data any) telemetry.WindowStats {
	switch s := data.(type) {
	case telemetry.WindowStats:
		return s
	case *telemetry.WindowStats:
		if s != nil {
			return *s
		}
	}
	return telemetry.WindowStats{}
}

// FlockSections describes the stats panel. maxSpeed scales the speed bar.
func FlockSections(maxSpeed float32) []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID:    "formation",
			Title: "Formation",
			Fields: []FieldDescriptor{
				{
					ID:     "settled",
					Label:  "Settled",
					Widget: WidgetText,
					TextGetter: func(d any) string {
						s := statsOf(d)
						return fmt.Sprintf("%d/%d", s.Settled, s.Agents)
					},
				},
				{
					ID:     "settled_frac",
					Label:  "Settled %",
					Widget: WidgetBar,
					Range:  DefaultRange(),
					Getter: func(d any) float32 { return float32(statsOf(d).SettledFrac()) },
				},
				{
					ID:     "dist_p50",
					Label:  "Dist p50",
					Widget: WidgetText,
					Format: "%.1f",
					Getter: func(d any) float32 { return float32(statsOf(d).DistP50) },
				},
				{
					ID:     "dist_p90",
					Label:  "Dist p90",
					Widget: WidgetText,
					Format: "%.1f",
					Getter: func(d any) float32 { return float32(statsOf(d).DistP90) },
				},
			},
		},
		{
			ID:    "motion",
			Title: "Motion",
			Fields: []FieldDescriptor{
				{
					ID:     "speed_mean",
					Label:  "Speed",
					Widget: WidgetBar,
					Range:  FieldRange{Min: 0, Max: maxSpeed},
					Getter: func(d any) float32 { return float32(statsOf(d).SpeedMean) },
				},
				{
					ID:     "speed_std",
					Label:  "Speed std",
					Widget: WidgetText,
					Format: "%.2f",
					Getter: func(d any) float32 { return float32(statsOf(d).SpeedStd) },
				},
				{
					ID:     "wraps",
					Label:  "Wraps",
					Widget: WidgetText,
					Format: "%.0f",
					Getter: func(d any) float32 { return float32(statsOf(d).Wraps) },
				},
			},
		},
		{
			ID:    "growth",
			Title: "Growth",
			// Only interesting while sprites are still scaling
			Visible: func(d any) bool { return statsOf(d).Dilation < 1 },
			Fields: []FieldDescriptor{
				{
					ID:     "dilation",
					Label:  "Dilation",
					Widget: WidgetBar,
					Range:  FieldRange{Min: 0.5, Max: 1},
					Getter: func(d any) float32 { return float32(statsOf(d).Dilation) },
				},
			},
		},
	}
}

// StatsPanel renders the latest window stats.
type StatsPanel struct {
	renderer *Renderer
	sections []SectionDescriptor
	x, y     int32
	width    int32
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel(x, y, width int32, maxSpeed float32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		sections: FlockSections(maxSpeed),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *StatsPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the panel.
func (p *StatsPanel) Draw(stats telemetry.WindowStats) {
	r := p.renderer
	padding := r.Theme.Padding

	height := padding * 2
	for _, sd := range p.sections {
		height += r.SectionHeight(sd, stats)
	}
	r.DrawPanel(p.x, p.y, p.width, height)

	y := p.y + padding
	for _, sd := range p.sections {
		y = r.DrawSection(p.x+padding, y, sd, stats, p.width-padding*2)
	}
}
