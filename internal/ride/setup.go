package ride

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/minecart/internal/config"
	"github.com/vovakirdan/minecart/internal/level"
	"github.com/vovakirdan/minecart/internal/wfc"
)

// HeadlessViewport is the viewport width used when no screen decides it.
const HeadlessViewport = 256

// Setup holds what every ride on one terminal shares.
type Setup struct {
	Config   config.RideConfig
	Catalog  *wfc.Catalog
	Logger   *log.Logger
	TickRate int
}

// LevelConfig converts the ride configuration into level geometry. A zero
// viewport width is derived from the screen, one tile per column, or
// HeadlessViewport when there is no screen.
func LevelConfig(c config.LevelConfig, screenW int) level.Config {
	width := float64(c.ViewportWidth)
	if width <= 0 {
		width = HeadlessViewport
		if screenW > 0 {
			width = float64(screenW * c.TileSize)
		}
	}
	return level.Config{
		TileSize:      c.TileSize,
		ChunkTiles:    c.ChunkTiles,
		ChunkRows:     c.ChunkRows,
		ViewportWidth: width,
		RailMin:       c.RailMin,
		RailMax:       c.RailMax,
		RailStart:     c.RailStart,
		MaxSteps:      c.MaxSteps,
		MaxCycles:     c.MaxCycles,
		PollTimeout:   c.PollTimeout,
	}
}

// Start builds a fresh level and cart for a seed.
func (s Setup) Start(seed uint32, screenW int) (*Game, *level.Level, error) {
	lc := LevelConfig(s.Config.Level, screenW)
	lvl, err := level.New(lc, s.Catalog, seed, s.Logger)
	if err != nil {
		return nil, nil, err
	}

	dt := 1.0 / 60
	if s.TickRate > 0 {
		dt = 1.0 / float64(s.TickRate)
	}
	worldHeight := float64(lc.ChunkRows * lc.TileSize)
	return NewGame(s.Config, lvl, lc.TileSize, worldHeight, dt), lvl, nil
}

// NewSeed returns a time-derived seed. Zero would stall the xorshift
// stream, so it is never returned.
func NewSeed() uint32 {
	n := time.Now().UnixNano()
	if seed := uint32(n ^ n>>32); seed != 0 {
		return seed
	}
	return 1
}
