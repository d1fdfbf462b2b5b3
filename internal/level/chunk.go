package level

import "github.com/vovakirdan/minecart/internal/wfc"

// RailPoint is the rail height and direction in one solver column.
type RailPoint struct {
	Height    int           `yaml:"height"`
	Direction RailDirection `yaml:"direction"`
}

// Chunk is a generated block of terrain. It is immutable once published.
type Chunk struct {
	ID int `yaml:"id"`
	// Grid is indexed [x][y] with ChunkTiles columns of ChunkRows tiles.
	Grid [][]wfc.Option `yaml:"grid"`
	// Rails has two more entries than the chunk has columns. Entry i
	// describes solver column i, so chunk column x reads Rails[x+1].
	Rails    []RailPoint `yaml:"rails"`
	Degraded bool        `yaml:"degraded"`
	// Unresolved counts cells filled with TileUnresolved.
	Unresolved int       `yaml:"unresolved"`
	Solve      wfc.Stats `yaml:"-"`
	// State is the generator state when the cycle began.
	State uint32 `yaml:"state"`
}

// Tile returns the tile at chunk-local coordinates.
func (c *Chunk) Tile(x, y int) (wfc.Option, bool) {
	if x < 0 || x >= len(c.Grid) || y < 0 || y >= len(c.Grid[x]) {
		return 0, false
	}
	return c.Grid[x][y], true
}

// RailAt returns the rail point under chunk column x.
func (c *Chunk) RailAt(x int) (RailPoint, bool) {
	i := x + 1
	if x < 0 || i >= len(c.Rails) {
		return RailPoint{}, false
	}
	return c.Rails[i], true
}

func newGrid(cols, rows int) [][]wfc.Option {
	grid := make([][]wfc.Option, cols)
	for x := range grid {
		grid[x] = make([]wfc.Option, rows)
	}
	return grid
}
