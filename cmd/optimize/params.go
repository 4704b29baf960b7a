package main

import (
	"github.com/pthm-cable/letterflock/config"
)

// FlockParams are the flock knobs the optimizer tunes.
type FlockParams struct {
	MaxForce         float64 `csv:"max_force"`
	SeparationRadius float64 `csv:"separation_radius"`
	AlignmentRadius  float64 `csv:"alignment_radius"`
	CohesionRadius   float64 `csv:"cohesion_radius"`
	TravelRampMS     float64 `csv:"travel_ramp_ms"`
}

// FlockParamsFromConfig reads the tunable values out of cfg.
func FlockParamsFromConfig(cfg *config.Config) FlockParams {
	return FlockParams{
		MaxForce:         cfg.Boid.MaxForce,
		SeparationRadius: cfg.Steering.SeparationRadius,
		AlignmentRadius:  cfg.Steering.AlignmentRadius,
		CohesionRadius:   cfg.Steering.CohesionRadius,
		TravelRampMS:     float64(cfg.Schedule.TravelRampMS),
	}
}

// Apply writes p into cfg and recomputes the derived values.
func (p FlockParams) Apply(cfg *config.Config) {
	cfg.Boid.MaxForce = p.MaxForce
	cfg.Steering.SeparationRadius = p.SeparationRadius
	cfg.Steering.AlignmentRadius = p.AlignmentRadius
	cfg.Steering.CohesionRadius = p.CohesionRadius
	cfg.Schedule.TravelRampMS = int(p.TravelRampMS)
	cfg.Refresh()
}

// Vector returns p in ParamVector order.
func (p FlockParams) Vector() []float64 {
	return []float64{p.MaxForce, p.SeparationRadius, p.AlignmentRadius, p.CohesionRadius, p.TravelRampMS}
}

func flockParamsFromVector(v []float64) FlockParams {
	return FlockParams{
		MaxForce:         v[0],
		SeparationRadius: v[1],
		AlignmentRadius:  v[2],
		CohesionRadius:   v[3],
		TravelRampMS:     v[4],
	}
}

// ParamSpec bounds one dimension of the search.
type ParamSpec struct {
	Name string
	Min  float64
	Max  float64
}

// paramLimits are hard limits in Vector order. The search never leaves them
// whatever the base config says.
var paramLimits = []ParamSpec{
	{Name: "max_force", Min: 0.01, Max: 1},
	{Name: "separation_radius", Min: 5, Max: 200},
	{Name: "alignment_radius", Min: 5, Max: 300},
	{Name: "cohesion_radius", Min: 5, Max: 300},
	{Name: "travel_ramp_ms", Min: 0, Max: 30000},
}

// searchSpread is how far each bound reaches from the base value, as a factor.
const searchSpread = 3.0

// ParamVector maps flock parameters to the unit cube the optimizer works in.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector centres the search on base: each dimension spans
// [base/searchSpread, base*searchSpread] cut to its hard limits, or the full
// hard range when base leaves nothing to span.
func NewParamVector(base FlockParams) *ParamVector {
	v := base.Vector()
	specs := make([]ParamSpec, len(paramLimits))
	for i, lim := range paramLimits {
		lo := max(lim.Min, v[i]/searchSpread)
		hi := min(lim.Max, v[i]*searchSpread)
		if hi <= lo {
			lo, hi = lim.Min, lim.Max
		}
		specs[i] = ParamSpec{Name: lim.Name, Min: lo, Max: hi}
	}
	return &ParamVector{Specs: specs}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// Normalize maps p to [0,1] per dimension.
func (pv *ParamVector) Normalize(p FlockParams) []float64 {
	raw := pv.Clamp(p.Vector())
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return out
}

// Params maps an optimizer point back to flock parameters, clamped to bounds.
func (pv *ParamVector) Params(x []float64) FlockParams {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + x[i]*(spec.Max-spec.Min)
	}
	return flockParamsFromVector(pv.Clamp(raw))
}

// Clamp keeps every value within its bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		out[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return out
}
