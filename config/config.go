// Package config provides configuration loading and access for the race.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all race configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Race      RaceConfig      `yaml:"race"`
	Agent     AgentConfig     `yaml:"agent"`
	Camera    CameraConfig    `yaml:"camera"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Replay    ReplayConfig    `yaml:"replay"`
	Effects   EffectsConfig   `yaml:"effects"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	// Viewport is the visible track width in track units (0 = screen width)
	Viewport int `yaml:"viewport"`
}

// RaceConfig holds race setup parameters.
type RaceConfig struct {
	AgentCount  int      `yaml:"agent_count"`
	MinAgents   int      `yaml:"min_agents"`
	MaxAgents   int      `yaml:"max_agents"`
	DurationSec float64  `yaml:"duration_sec"`
	FPS         float64  `yaml:"fps"`         // Nominal ticks per second used to size the track
	TrackSpeed  float64  `yaml:"track_speed"` // Fastest sustained agent speed (units/tick)
	Names       []string `yaml:"names"`
}

// AgentConfig holds the stochastic motion model parameters.
type AgentConfig struct {
	BaseSpeedMin   float64 `yaml:"base_speed_min"`
	BaseSpeedRange float64 `yaml:"base_speed_range"`
	MinSpeedFrac   float64 `yaml:"min_speed_frac"` // MinSpeed = BaseSpeed * this
	MaxSpeedFrac   float64 `yaml:"max_speed_frac"` // MaxSpeed = BaseSpeed * this
	Damping        float64 `yaml:"damping"`        // Fraction of the speed gap closed per tick
	Jitter         float64 `yaml:"jitter"`         // Width of the uniform position noise

	RegimeTicksMin   float64 `yaml:"regime_ticks_min"`
	RegimeTicksRange float64 `yaml:"regime_ticks_range"`
	BoostChance      float64 `yaml:"boost_chance"`   // r > 1-this
	AccelChance      float64 `yaml:"accel_chance"`   // r > 1-boost-accel
	FatigueChance    float64 `yaml:"fatigue_chance"` // r < this
	AccelMin         float64 `yaml:"accel_min"`      // Accelerating target = base * [min, min+range)
	AccelRange       float64 `yaml:"accel_range"`
	NormalMin        float64 `yaml:"normal_min"` // Normal target = base * [min, min+range)
	NormalRange      float64 `yaml:"normal_range"`
	BoostTicks       int     `yaml:"boost_ticks"`
	TrailChance      float64 `yaml:"trail_chance"` // Per-tick particle chance while boosting
	TrailLife        int     `yaml:"trail_life"`   // Particle lifetime in ticks
}

// CameraConfig holds camera follow parameters.
type CameraConfig struct {
	Anchor             float64 `yaml:"anchor"`               // Leader kept at this fraction of the viewport
	FollowGain         float64 `yaml:"follow_gain"`          // Per-tick approach in follow mode
	FinishGain         float64 `yaml:"finish_gain"`          // Per-tick approach near the finish
	FinishProgress     float64 `yaml:"finish_progress"`      // Leader progress that reveals the finish line
	FinishExitProgress float64 `yaml:"finish_exit_progress"` // 0 = no hysteresis
}

// RankingConfig holds highlight detection parameters.
type RankingConfig struct {
	HighlightTopK      int `yaml:"highlight_top_k"`
	HighlightThreshold int `yaml:"highlight_threshold"`
	HighlightHistory   int `yaml:"highlight_history"`
	LeaderboardSize    int `yaml:"leaderboard_size"`
}

// ReplayConfig holds replay recording parameters.
type ReplayConfig struct {
	MaxFrames int `yaml:"max_frames"`
}

// EffectsConfig holds visual particle parameters.
type EffectsConfig struct {
	MaxParticles int `yaml:"max_particles"`
}

// TelemetryConfig holds field statistics and perf logging parameters.
type TelemetryConfig struct {
	StatsWindow   float64 `yaml:"stats_window"` // Seconds of race time per stats window
	PerfWindow    int     `yaml:"perf_window"`  // Ticks averaged by the perf collector
	LogHighlights bool    `yaml:"log_highlights"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	TrackLength float64 // TrackSpeed * FPS * DurationSec
	TickSec     float64 // 1 / FPS
	Viewport    float64
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

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ComputeDerived()

	return cfg, nil
}

// Hard agent-count limits. Config may narrow them, never widen them.
const (
	MinAgentsFloor   = 10
	MaxAgentsCeiling = 1000
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Validate rejects values that would make the simulation unstable or meaningless.
func (c *Config) Validate() error {
	switch {
	case c.Race.MinAgents < MinAgentsFloor || c.Race.MaxAgents > MaxAgentsCeiling ||
		c.Race.MinAgents > c.Race.MaxAgents:
		return fmt.Errorf("%w: agent bounds [%d, %d] outside [%d, %d]",
			ErrInvalidConfig, c.Race.MinAgents, c.Race.MaxAgents, MinAgentsFloor, MaxAgentsCeiling)
	case c.Race.FPS <= 0:
		return fmt.Errorf("%w: race.fps must be positive", ErrInvalidConfig)
	case c.Race.TrackSpeed <= 0:
		return fmt.Errorf("%w: race.track_speed must be positive", ErrInvalidConfig)
	case c.Agent.Damping <= 0 || c.Agent.Damping >= 1:
		return fmt.Errorf("%w: agent.damping %.3f outside (0, 1)", ErrInvalidConfig, c.Agent.Damping)
	case c.Agent.MinSpeedFrac <= 0 || c.Agent.MinSpeedFrac > c.Agent.MaxSpeedFrac:
		return fmt.Errorf("%w: speed fractions [%.2f, %.2f]", ErrInvalidConfig, c.Agent.MinSpeedFrac, c.Agent.MaxSpeedFrac)
	case c.Camera.FollowGain <= 0 || c.Camera.FollowGain > 1:
		return fmt.Errorf("%w: camera.follow_gain %.3f outside (0, 1]", ErrInvalidConfig, c.Camera.FollowGain)
	case c.Camera.FinishGain <= 0 || c.Camera.FinishGain > 1:
		return fmt.Errorf("%w: camera.finish_gain %.3f outside (0, 1]", ErrInvalidConfig, c.Camera.FinishGain)
	case c.Camera.FinishExitProgress > c.Camera.FinishProgress:
		return fmt.Errorf("%w: camera.finish_exit_progress above finish_progress", ErrInvalidConfig)
	case c.Ranking.HighlightThreshold < 1:
		return fmt.Errorf("%w: ranking.highlight_threshold must be at least 1", ErrInvalidConfig)
	case c.Ranking.HighlightTopK < 0:
		return fmt.Errorf("%w: ranking.highlight_top_k must not be negative", ErrInvalidConfig)
	case c.Replay.MaxFrames < 0:
		return fmt.Errorf("%w: replay.max_frames must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ComputeDerived calculates values derived from loaded config.
// Call again after editing fields in place.
func (c *Config) ComputeDerived() {
	c.Derived.TickSec = 1 / c.Race.FPS
	c.Derived.TrackLength = c.Race.TrackSpeed * c.Race.FPS * c.Race.DurationSec

	viewport := c.Screen.Viewport
	if viewport == 0 {
		viewport = c.Screen.Width
	}
	c.Derived.Viewport = float64(viewport)
}

// Clone returns a deep copy, used when running many sessions from one base config.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Race.Names = append([]string(nil), c.Race.Names...)
	return &cp
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
