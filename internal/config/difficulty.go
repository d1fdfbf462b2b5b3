package config

import "math"

// DifficultyManager scales cart physics by distance travelled or time.
type DifficultyManager struct {
	cfg DifficultyConfig
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	cfg.InitialLevel = clampF(cfg.InitialLevel, 0.0, 1.0)
	return &DifficultyManager{cfg: cfg}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty in [initial, 1] for the given progress.
func (d *DifficultyManager) Level(distance int, ticks int) float64 {
	if !d.IsEnabled() {
		return d.cfg.InitialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "distance":
		progress = float64(distance) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.cfg.InitialLevel
	}

	progress = clampF(progress, 0.0, 1.0)
	return d.cfg.InitialLevel + progress*(1.0-d.cfg.InitialLevel)
}

// Acceleration grows from base to base * (1 + speed_multiplier).
func (d *DifficultyManager) Acceleration(base float64, distance, ticks int) float64 {
	return base * (1.0 + d.Level(distance, ticks)*d.cfg.Scaling.SpeedMultiplier)
}

// Drag shrinks by up to drag_reduction of its base value.
func (d *DifficultyManager) Drag(base float64, distance, ticks int) float64 {
	cut := clampF(d.cfg.Scaling.DragReduction, 0.0, 1.0)
	return base * (1.0 - d.Level(distance, ticks)*cut)
}

func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
