package tui

import (
	"math"

	"github.com/vovakirdan/minecart/internal/core"
	"github.com/vovakirdan/minecart/internal/level"
	"github.com/vovakirdan/minecart/internal/wfc"
)

// tileCells maps terrain tiles to terminal cells. Tiles missing here are
// drawn with fallbackCell.
var tileCells = map[wfc.Option]core.Cell{
	level.TileBlank:       {Rune: ' '},
	level.TileRailFlat:    {Rune: '═', Color: core.ColorBrown},
	level.TileRailClimb:   {Rune: '╱', Color: core.ColorBrown},
	level.TileRailDescend: {Rune: '╲', Color: core.ColorBrown},
	level.TileUnresolved:  {Rune: '$', Color: core.ColorBrightYellow},
	165:                   {Rune: '║', Color: core.ColorBrown},
	149:                   {Rune: '▀', Color: core.ColorGreen},
	150:                   {Rune: '▓', Color: core.ColorOrange},
	151:                   {Rune: '█', Color: core.ColorGray},
	152:                   {Rune: '◆', Color: core.ColorBrightCyan},
}

var fallbackCell = core.Cell{Rune: '?', Color: core.ColorRed}

// CellFor returns the terminal cell drawn for a tile.
func CellFor(tile wfc.Option) core.Cell {
	if c, ok := tileCells[tile]; ok {
		return c
	}
	return fallbackCell
}

// screenSurface draws level tiles into a screen, one cell per tile. Row
// is the world row drawn at the top of the view; rows above it are cut.
type screenSurface struct {
	screen   *core.Screen
	tileSize float64
	top      int // screen row of the view's first line
	row      int // first world row shown
	rows     int // world rows shown
}

// DrawTile implements level.Surface.
func (s screenSurface) DrawTile(tile wfc.Option, x, y float64) {
	tx := int(math.Floor(x / s.tileSize))
	ty := int(math.Floor(y/s.tileSize)) - s.row
	if ty < 0 || ty >= s.rows {
		return
	}
	s.screen.SetCell(tx, s.top+ty, CellFor(tile))
}
