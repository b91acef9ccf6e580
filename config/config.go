// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/driftloop/track"
	"github.com/pthm-cable/driftloop/vehicle"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Screen    ScreenConfig     `yaml:"screen"`
	Physics   PhysicsConfig    `yaml:"physics"`
	Track     track.Config     `yaml:"track"`
	Car       vehicle.Config   `yaml:"car"`
	AI        vehicle.AIConfig `yaml:"ai"`
	Race      RaceConfig       `yaml:"race"`
	Camera    CameraConfig     `yaml:"camera"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds frame stepping settings.
type PhysicsConfig struct {
	DT         float64 `yaml:"dt"`           // Fixed step for headless runs
	MaxFrameDT float64 `yaml:"max_frame_dt"` // Upper clamp on a rendered frame's dt
}

// RaceConfig describes the field of cars.
type RaceConfig struct {
	AICars      int      `yaml:"ai_cars"`      // Number of AI opponents
	Player      bool     `yaml:"player"`       // Whether a player-controlled car takes the pole
	Names       []string `yaml:"names"`        // Driver names, cycled when there are more cars
	GridSpacing float64  `yaml:"grid_spacing"` // Distance between grid rows, fraction of tile size
	GridOffset  float64  `yaml:"grid_offset"`  // Lateral offset of each grid column, fraction of tile size
}

// CameraConfig holds follow-camera settings.
type CameraConfig struct {
	Zoom      float64 `yaml:"zoom"`
	MinZoom   float64 `yaml:"min_zoom"`
	MaxZoom   float64 `yaml:"max_zoom"`
	Smoothing float64 `yaml:"smoothing"` // Fraction of the distance to the target closed per second
}

// TelemetryConfig holds telemetry settings.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Ticks in the rolling perf window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32           float32 // Physics.DT as float32
	ScreenW32      float32 // Screen.Width as float32
	ScreenH32      float32 // Screen.Height as float32
	AITickInterval float64 // Seconds between AI decisions
	TotalCars      int     // AI cars plus the player, if any
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
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

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

	cfg.computeDerived()
	return cfg, nil
}

// Defaults returns the embedded default configuration.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	if c.AI.TickRate <= 0 {
		// A zero rate would decide every frame; fall back to the compiled-in rate.
		c.AI.TickRate = vehicle.DefaultAIConfig().TickRate
	}
	c.Derived.AITickInterval = c.AI.TickInterval()

	if c.Physics.MaxFrameDT <= 0 {
		c.Physics.MaxFrameDT = 0.1
	}
	if c.Race.AICars < 0 {
		c.Race.AICars = 0
	}
	if len(c.Race.Names) == 0 {
		c.Race.Names = []string{"Player"}
	}

	c.Derived.TotalCars = c.Race.AICars
	if c.Race.Player {
		c.Derived.TotalCars++
	}
}

// Clone returns an independent copy with derived values recomputed, so the
// copy's fields can be edited without touching c.
func (c *Config) Clone() *Config {
	out := *c
	out.Race.Names = append([]string(nil), c.Race.Names...)
	out.computeDerived()
	return &out
}

// DriverName returns the name of the i-th car on the grid.
func (c *Config) DriverName(i int) string {
	n := len(c.Race.Names)
	if n == 0 {
		return fmt.Sprintf("Car %d", i+1)
	}
	if i < n {
		return c.Race.Names[i]
	}
	return fmt.Sprintf("%s %d", c.Race.Names[i%n], i/n+1)
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
