package ui

import (
	"slices"
	"testing"

	"github.com/pthm-cable/letterflock/telemetry"
)

func TestFieldRangeNormalize(t *testing.T) {
	tests := []struct {
		name string
		rng  FieldRange
		v    float32
		want float32
	}{
		{"low clamp", DefaultRange(), -1, 0},
		{"high clamp", DefaultRange(), 2, 1},
		{"mid", FieldRange{Min: 0, Max: 5}, 2.5, 0.5},
		{"offset", FieldRange{Min: 0.5, Max: 1}, 0.75, 0.5},
		{"degenerate", FieldRange{Min: 1, Max: 1}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rng.Normalize(tt.v); got != tt.want {
				t.Errorf("Normalize(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestPhase(t *testing.T) {
	if got := Phase(0); got != "Flocking" {
		t.Errorf("expected Flocking at 0, got %s", got)
	}
	if got := Phase(0.4); got != "Handoff" {
		t.Errorf("expected Handoff at 0.4, got %s", got)
	}
	if got := Phase(1); got != "Forming" {
		t.Errorf("expected Forming at 1, got %s", got)
	}
}

func findField(t *testing.T, sections []SectionDescriptor, id string) FieldDescriptor {
	t.Helper()
	for _, sd := range sections {
		for _, fd := range sd.Fields {
			if fd.ID == id {
				return fd
			}
		}
	}
	t.Fatalf("field %q not found", id)
	return FieldDescriptor{}
}

func TestFlockSectionsReadStats(t *testing.T) {
	sections := FlockSections(5)
	stats := telemetry.WindowStats{Agents: 14, Settled: 7, DistP90: 12.34, SpeedMean: 2.5, Wraps: 3, Dilation: 1}

	if got := FieldText(findField(t, sections, "settled"), stats); got != "7/14" {
		t.Errorf("expected settled text 7/14, got %q", got)
	}
	if got := FieldText(findField(t, sections, "dist_p90"), stats); got != "12.3" {
		t.Errorf("expected dist p90 text 12.3, got %q", got)
	}
	if got := FieldText(findField(t, sections, "wraps"), &stats); got != "3" {
		t.Errorf("expected wraps text 3 from pointer data, got %q", got)
	}

	speed := findField(t, sections, "speed_mean")
	if got := speed.Range.Normalize(speed.Getter(stats)); got != 0.5 {
		t.Errorf("expected speed bar at 0.5, got %v", got)
	}
	frac := findField(t, sections, "settled_frac")
	if got := frac.Getter(stats); got != 0.5 {
		t.Errorf("expected settled fraction 0.5, got %v", got)
	}
}

func TestGrowthSectionHiddenWhenGrown(t *testing.T) {
	r := NewRenderer()
	var growth SectionDescriptor
	for _, sd := range FlockSections(5) {
		if sd.ID == "growth" {
			growth = sd
		}
	}

	if h := r.SectionHeight(growth, telemetry.WindowStats{Dilation: 1}); h != 0 {
		t.Errorf("expected hidden growth section, got height %d", h)
	}
	if h := r.SectionHeight(growth, telemetry.WindowStats{Dilation: 0.6}); h == 0 {
		t.Error("expected visible growth section while growing")
	}
}

func TestOverlayRegistry(t *testing.T) {
	reg := NewOverlayRegistry()

	if len(reg.EnabledOverlays()) != 0 {
		t.Fatal("expected all overlays off initially")
	}

	id, state, ok := reg.HandleKeyPress(reg.All()[0].Key)
	if !ok || id != OverlayDestinations || !state {
		t.Errorf("expected destinations toggled on, got %s %v %v", id, state, ok)
	}
	if !reg.IsEnabled(OverlayDestinations) {
		t.Error("expected destinations enabled")
	}

	if _, _, ok := reg.HandleKeyPress(-1); ok {
		t.Error("unknown key should not toggle anything")
	}

	if got := reg.Categories(); !slices.Equal(got, []string{"formation", "motion"}) {
		t.Errorf("unexpected categories %v", got)
	}
	if got := len(reg.ByCategory("motion")); got != 3 {
		t.Errorf("expected 3 motion overlays, got %d", got)
	}
}

func TestOverlayExclusive(t *testing.T) {
	reg := NewOverlayRegistry()
	reg.Register(OverlayDescriptor{ID: "solo", Name: "Solo", Category: "motion", Exclusive: []OverlayID{OverlayVelocity}})

	reg.SetEnabled(OverlayVelocity, true)
	reg.Toggle("solo")

	if reg.IsEnabled(OverlayVelocity) {
		t.Error("enabling an exclusive overlay should disable the other")
	}
	if got := reg.EnabledOverlays(); !slices.Equal(got, []OverlayID{"solo"}) {
		t.Errorf("expected only solo enabled, got %v", got)
	}
}

func TestControlRows(t *testing.T) {
	reg := NewOverlayRegistry()
	reg.SetEnabled(OverlayNeighborhoods, true)
	st := ControlsStatus{
		Stats:            telemetry.WindowStats{Agents: 14, Settled: 9, SpeedMean: 1.234, Wraps: 2},
		SeparationRadius: 25,
		AlignmentRadius:  50,
		CohesionRadius:   50,
	}

	want := []ControlRow{
		{Header: true, Name: "Formation"},
		{Key: "D", Name: "Destinations", Detail: "9/14 settled"},
		{Header: true, Name: "Motion"},
		{Key: "V", Name: "Velocity", Detail: "1.23 px/f"},
		{Key: "N", Name: "Neighborhoods", On: true, Detail: "25/50/50 px"},
		{Key: "B", Name: "Wrap Band", Detail: "2 wraps"},
	}

	got := ControlRows(reg, st)
	if !slices.Equal(got, want) {
		t.Errorf("expected rows\n%+v\ngot\n%+v", want, got)
	}
}

func TestOverlayDetailUnknown(t *testing.T) {
	if got := OverlayDetail("solo", ControlsStatus{}); got != "" {
		t.Errorf("expected no detail for unknown overlay, got %q", got)
	}
}
