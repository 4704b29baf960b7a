// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Boid      BoidConfig      `yaml:"boid"`
	Steering  SteeringConfig  `yaml:"steering"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Layout    LayoutConfig    `yaml:"layout"`
	Assets    AssetsConfig    `yaml:"assets"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	TargetFPS  int  `yaml:"target_fps"`
	Fullscreen bool `yaml:"fullscreen"` // Enter fullscreen at startup
	Resizable  bool `yaml:"resizable"`
	Background int  `yaml:"background"` // Grey level 0-255
}

// BoidConfig holds per-agent steering limits.
type BoidConfig struct {
	MaxSpeed     float64 `yaml:"max_speed"`
	MaxForce     float64 `yaml:"max_force"`
	Margin       float64 `yaml:"margin"`        // Distance past the edge before wrapping
	InitialSpeed float64 `yaml:"initial_speed"` // Initial velocity components are uniform in [-v, v]
}

// SteeringConfig holds flocking neighborhood sizes.
type SteeringConfig struct {
	SeparationRadius float64 `yaml:"separation_radius"`
	AlignmentRadius  float64 `yaml:"alignment_radius"`
	CohesionRadius   float64 `yaml:"cohesion_radius"`
}

// ScheduleConfig holds the timing of the flocking-to-travel handoff.
type ScheduleConfig struct {
	TravelDelayMS int  `yaml:"travel_delay_ms"` // Flocking only until this point
	TravelRampMS  int  `yaml:"travel_ramp_ms"`  // Crossfade length
	GrowthDelayMS int  `yaml:"growth_delay_ms"`
	GrowthRampMS  int  `yaml:"growth_ramp_ms"`
	GrowthEnabled bool `yaml:"growth_enabled"` // Scale sprites from 0.5x to 1x over the growth ramp
}

// LayoutConfig describes the stencil the letters settle into.
type LayoutConfig struct {
	Text          string       `yaml:"text"`
	StencilWidth  float64      `yaml:"stencil_width"`
	StencilHeight float64      `yaml:"stencil_height"`
	LetterSize    float64      `yaml:"letter_size"` // In stencil units
	OffsetX       float64      `yaml:"offset_x"`    // Screen pixels subtracted from each x
	Positions     [][2]float64 `yaml:"positions"`   // One stencil point per letter of Text
}

// AssetsConfig holds sprite loading parameters.
type AssetsConfig struct {
	Dir      string `yaml:"dir"` // Empty = render glyphs from the default font
	Ext      string `yaml:"ext"`
	FontSize int    `yaml:"font_size"` // Glyph size for generated sprites
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow  float64 `yaml:"stats_window"`  // Seconds per stats window
	PerfWindow   int     `yaml:"perf_window"`   // Frames averaged by the perf collector
	SettleRadius float64 `yaml:"settle_radius"` // Agents closer than this to their destination count as settled
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT          time.Duration // One frame at TargetFPS
	TravelDelay time.Duration
	TravelRamp  time.Duration
	GrowthDelay time.Duration
	GrowthRamp  time.Duration
	ScreenW     float64
	ScreenH     float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations the simulation cannot run with.
func (c *Config) validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Layout.StencilWidth <= 0 || c.Layout.StencilHeight <= 0 {
		return fmt.Errorf("stencil size must be positive, got %gx%g", c.Layout.StencilWidth, c.Layout.StencilHeight)
	}
	st := c.Steering
	if st.SeparationRadius <= 0 || st.AlignmentRadius <= 0 || st.CohesionRadius <= 0 {
		return fmt.Errorf("steering radii must be positive, got %g/%g/%g", st.SeparationRadius, st.AlignmentRadius, st.CohesionRadius)
	}
	letters := len([]rune(c.Layout.Text))
	if letters != len(c.Layout.Positions) {
		return fmt.Errorf("layout text has %d letters but %d positions", letters, len(c.Layout.Positions))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.DT = time.Second / time.Duration(fps)
	c.Derived.TravelDelay = time.Duration(c.Schedule.TravelDelayMS) * time.Millisecond
	c.Derived.TravelRamp = time.Duration(c.Schedule.TravelRampMS) * time.Millisecond
	c.Derived.GrowthDelay = time.Duration(c.Schedule.GrowthDelayMS) * time.Millisecond
	c.Derived.GrowthRamp = time.Duration(c.Schedule.GrowthRampMS) * time.Millisecond
	c.Derived.ScreenW = float64(c.Screen.Width)
	c.Derived.ScreenH = float64(c.Screen.Height)

	if c.Assets.Ext == "" {
		c.Assets.Ext = ".png"
	}
	if c.Assets.FontSize <= 0 {
		c.Assets.FontSize = 96
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() {
	c.computeDerived()
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Layout.Positions = append([][2]float64(nil), c.Layout.Positions...)
	return &out
}
