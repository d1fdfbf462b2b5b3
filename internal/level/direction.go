package level

import (
	"fmt"

	"github.com/vovakirdan/minecart/internal/wfc"
)

// Tile ids the generator places or recognises.
const (
	TileRailFlat    wfc.Option = 133
	TileRailClimb   wfc.Option = 187
	TileRailDescend wfc.Option = 188
	TileBlank       wfc.Option = 255 // never drawn
	TileUnresolved  wfc.Option = 144 // fills cells the solver gave up on
)

// RailSurfaceOffset is how far below a rail tile's top edge the cart rides.
const RailSurfaceOffset = 6

// RailDirection is how the rail moves through a column.
type RailDirection uint8

const (
	Flat    RailDirection = iota
	Climb                 // rises one row left to right
	Descend               // drops one row left to right
	railDirections
)

var (
	railTiles = [railDirections]wfc.Option{
		Flat:    TileRailFlat,
		Climb:   TileRailClimb,
		Descend: TileRailDescend,
	}
	// rowOffset places the tile relative to the stored height.
	rowOffset = [railDirections]int{Flat: 0, Climb: 1, Descend: 0}
	// baseOffset and slope give the surface in tiles at the left edge
	// of the column and its change across the column.
	baseOffset = [railDirections]float64{Flat: 0, Climb: 1, Descend: -1}
	slope      = [railDirections]float64{Flat: 0, Climb: -1, Descend: 1}
	names      = [railDirections]string{Flat: "flat", Climb: "climb", Descend: "descend"}
)

func (d RailDirection) mustBeValid() {
	if d >= railDirections {
		panic(fmt.Sprintf("level: invalid rail direction %d", d))
	}
}

func (d RailDirection) String() string {
	if d >= railDirections {
		return fmt.Sprintf("RailDirection(%d)", d)
	}
	return names[d]
}

// Tile returns the rail tile drawn for the direction.
func (d RailDirection) Tile() wfc.Option {
	d.mustBeValid()
	return railTiles[d]
}

// TileRow returns the row the rail tile occupies for a stored height.
func (d RailDirection) TileRow(height int) int {
	d.mustBeValid()
	return height + rowOffset[d]
}

// Surface returns the rail surface y in pixels for a column whose stored
// height is height, at fraction t in [0,1) across the column.
func (d RailDirection) Surface(height int, t float64, tileSize int) float64 {
	d.mustBeValid()
	ts := float64(tileSize)
	return float64(height)*ts + RailSurfaceOffset + baseOffset[d]*ts + slope[d]*t*ts
}

// MarshalYAML writes the direction by name.
func (d RailDirection) MarshalYAML() (any, error) {
	return d.String(), nil
}
