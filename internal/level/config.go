// Package level streams procedurally generated terrain chunks around a
// moving viewport. Chunks are produced one at a time on a background
// goroutine by a constraint solver, stitched to their left neighbour and
// evicted once they scroll out of view.
package level

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidConfig   = errors.New("level: invalid config")
	ErrMissingRailTile = errors.New("level: catalog lacks a rail tile")
)

// Config describes chunk geometry and generation budgets.
type Config struct {
	TileSize      int     // pixels per tile edge
	ChunkTiles    int     // columns per chunk
	ChunkRows     int     // rows per chunk
	ViewportWidth float64 // pixels
	RailMin       int     // highest row a rail may climb to
	RailMax       int     // lowest row a rail may descend to
	RailStart     int     // rail row of the very first chunk
	MaxSteps      int
	MaxCycles     int
	PollTimeout   time.Duration // 0 polls without blocking
}

// DefaultConfig returns the standard ride geometry: 8 px tiles,
// 8x24 tile chunks and a 256 px wide viewport.
func DefaultConfig() Config {
	return Config{
		TileSize:      8,
		ChunkTiles:    8,
		ChunkRows:     24,
		ViewportWidth: 256,
		RailMin:       12,
		RailMax:       20,
		RailStart:     12,
		MaxSteps:      1000,
		MaxCycles:     10,
		PollTimeout:   time.Millisecond,
	}
}

// Validate checks that the geometry is usable.
func (c Config) Validate() error {
	switch {
	case c.TileSize <= 0 || c.ChunkTiles <= 0 || c.ChunkRows <= 0:
		return fmt.Errorf("%w: tile size and chunk dimensions must be positive", ErrInvalidConfig)
	case c.ViewportWidth <= 0:
		return fmt.Errorf("%w: viewport width must be positive", ErrInvalidConfig)
	case c.RailMin < 0 || c.RailMin > c.RailMax:
		return fmt.Errorf("%w: rail band [%d,%d]", ErrInvalidConfig, c.RailMin, c.RailMax)
	case c.RailMax > c.ChunkRows-2:
		// The bottom row never holds rail.
		return fmt.Errorf("%w: rail_max %d leaves no ground below", ErrInvalidConfig, c.RailMax)
	case c.RailStart < c.RailMin || c.RailStart > c.RailMax:
		return fmt.Errorf("%w: rail_start %d outside [%d,%d]", ErrInvalidConfig, c.RailStart, c.RailMin, c.RailMax)
	case c.PollTimeout < 0:
		return fmt.Errorf("%w: negative poll timeout", ErrInvalidConfig)
	}
	return nil
}

// ChunkWidth is the width of one chunk in pixels.
func (c Config) ChunkWidth() float64 {
	return float64(c.TileSize * c.ChunkTiles)
}

// Sentinel is the rail height reported where no chunk is resident. It lies
// one tile below the bottom of the world.
func (c Config) Sentinel() float64 {
	return float64(c.ChunkRows*c.TileSize + c.TileSize)
}
