// Package config loads the YAML ride configuration and the terrain rule
// file, falling back to embedded defaults.
package config

import "time"

// RideConfig contains all configuration for a minecart ride.
type RideConfig struct {
	Level      LevelConfig      `yaml:"level"`
	Cart       CartConfig       `yaml:"cart"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// LevelConfig defines terrain geometry and generation budgets.
type LevelConfig struct {
	TileSize      int           `yaml:"tile_size"`      // pixels per tile edge
	ChunkTiles    int           `yaml:"chunk_tiles"`    // columns per chunk
	ChunkRows     int           `yaml:"chunk_rows"`     // rows per chunk
	ViewportWidth int           `yaml:"viewport_width"` // pixels; 0 = derive from the screen
	RailMin       int           `yaml:"rail_min"`       // highest rail row
	RailMax       int           `yaml:"rail_max"`       // lowest rail row
	RailStart     int           `yaml:"rail_start"`
	MaxSteps      int           `yaml:"max_steps"`  // solver steps per cycle
	MaxCycles     int           `yaml:"max_cycles"` // solver restarts + 1
	PollTimeout   time.Duration `yaml:"poll_timeout"`
}

// CartConfig defines cart physics in pixels and seconds.
type CartConfig struct {
	Acceleration float64       `yaml:"acceleration"`
	Drag         float64       `yaml:"drag"`         // quadratic drag while throttling
	BrakingDrag  float64       `yaml:"braking_drag"` // quadratic drag while coasting
	Gravity      float64       `yaml:"gravity"`
	StartDelay   time.Duration `yaml:"start_delay"`
	ThrottleHold time.Duration `yaml:"throttle_hold"` // how long one key press keeps the throttle open
	ScreenOffset float64       `yaml:"screen_offset"` // cart x relative to the viewport's left edge
	Width        float64       `yaml:"width"`
	Height       float64       `yaml:"height"`
}

// DifficultyConfig defines how the ride speeds up as it goes.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines what drives difficulty.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "distance", "time", or "none"
	MaxAt int    `yaml:"max_at"` // tiles or ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // added to acceleration at max difficulty
	DragReduction   float64 `yaml:"drag_reduction"`   // fraction of drag removed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the difficulty section for a preset. An empty
// preset leaves the configuration alone.
func (c *RideConfig) ApplyPreset(preset DifficultyPreset) {
	switch preset {
	case "":
		return
	case DifficultyFixed:
		c.Difficulty.Enabled = false
	default:
		c.Difficulty.Enabled = true
		c.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}
