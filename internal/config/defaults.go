package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/ride.yaml
var defaultRideYAML []byte

//go:embed defaults/terrain_generation.yaml
var defaultRulesYAML []byte

const (
	RideFile  = "ride.yaml"
	RulesFile = "terrain_generation.yaml"
)

// DefaultRulesYAML returns the embedded terrain rule document.
func DefaultRulesYAML() []byte {
	return defaultRulesYAML
}

// DefaultRideConfig returns the built-in ride configuration.
func DefaultRideConfig() RideConfig {
	return RideConfig{
		Level: LevelConfig{
			TileSize:      8,
			ChunkTiles:    8,
			ChunkRows:     24,
			ViewportWidth: 0,
			RailMin:       12,
			RailMax:       20,
			RailStart:     12,
			MaxSteps:      1000,
			MaxCycles:     10,
			PollTimeout:   time.Millisecond,
		},
		Cart: CartConfig{
			Acceleration: 24,
			Drag:         0.0002,
			BrakingDrag:  0.005,
			Gravity:      320,
			StartDelay:   time.Second,
			ThrottleHold: 250 * time.Millisecond,
			ScreenOffset: 84,
			Width:        10,
			Height:       4,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "distance",
				MaxAt: 2000,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
				DragReduction:   0.5,
			},
		},
	}
}
