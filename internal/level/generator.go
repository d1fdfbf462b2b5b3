package level

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/minecart/internal/random"
	"github.com/vovakirdan/minecart/internal/wfc"
)

// Generator produces consecutive chunks for one seed. Each chunk is
// stitched to the one before it, so chunks must be taken in order. A
// Generator is not safe for concurrent use.
type Generator struct {
	cfg     Config
	cat     *wfc.Catalog
	solver  *wfc.Solver
	rng     *random.XorShift
	nonRail []wfc.Option
	logger  *log.Logger

	last   *Chunk
	nextID int
}

// NewGenerator creates a generator. The solver is two columns wider than
// a chunk: column 0 repeats the previous chunk's last column and the last
// column looks one step ahead along the rail.
func NewGenerator(cfg Config, cat *wfc.Catalog, seed uint32, logger *log.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, errors.New("level: nil catalog")
	}
	for _, t := range railTiles {
		if !cat.Contains(t) {
			return nil, fmt.Errorf("%w: %d", ErrMissingRailTile, t)
		}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	solver, err := wfc.NewSolver(cfg.ChunkTiles+2, cfg.ChunkRows, cat,
		wfc.WithBudget(cfg.MaxSteps, cfg.MaxCycles))
	if err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}

	return &Generator{
		cfg:     cfg,
		cat:     cat,
		solver:  solver,
		rng:     random.NewXorShift(seed),
		nonRail: cat.NonRail(),
		logger:  logger,
	}, nil
}

// NextID is the id the next call to Next will produce.
func (g *Generator) NextID() int {
	return g.nextID
}

// Seed returns the generator seed.
func (g *Generator) Seed() uint32 {
	return g.rng.Seed()
}

// Next generates the next chunk. A solve that runs out of budget still
// yields a chunk: unresolved cells hold TileUnresolved and the chunk is
// marked degraded.
func (g *Generator) Next() *Chunk {
	id := g.nextID
	cols, rows := g.cfg.ChunkTiles, g.cfg.ChunkRows
	solverCols := cols + 2

	chunk := &Chunk{
		ID:    id,
		Grid:  newGrid(cols, rows),
		Rails: make([]RailPoint, 0, solverCols),
		State: g.rng.State(),
	}
	g.logger.Debug("generating chunk", "chunk", id, "state", chunk.State)

	g.solver.Reset()
	for x := 0; x < solverCols; x++ {
		g.must(id, g.solver.Constrain(x, rows-1, g.nonRail))
	}

	// Carry the last two rail points over so the track joins up.
	inherited := []RailPoint{
		{Height: g.cfg.RailStart, Direction: Flat},
		{Height: g.cfg.RailStart, Direction: Flat},
	}
	if g.last != nil {
		inherited = g.last.Rails[len(g.last.Rails)-2:]
	}
	for x, p := range inherited {
		chunk.Rails = append(chunk.Rails, p)
		g.must(id, g.solver.SetCell(x, p.Direction.TileRow(p.Height), p.Direction.Tile()))
	}

	for x := 2; x < solverCols; x++ {
		prev := chunk.Rails[len(chunk.Rails)-1]
		next := g.stepRail(prev)
		chunk.Rails = append(chunk.Rails, next)
		g.must(id, g.solver.SetCell(x, next.Direction.TileRow(next.Height), next.Direction.Tile()))
	}

	if g.last != nil {
		edge := g.last.Grid[cols-1]
		for y, t := range edge {
			// Placeholders from a degraded chunk are not catalog tiles.
			if !g.cat.Contains(t) {
				continue
			}
			g.must(id, g.solver.SetCell(0, y, t))
		}
	}

	stats, err := g.solver.Collapse(g.rng)
	chunk.Solve = stats

	for x := 0; x < cols; x++ {
		for y := 0; y < rows; y++ {
			v, ok := g.solver.Cell(x+1, y)
			if !ok {
				v = TileUnresolved
				chunk.Unresolved++
			}
			chunk.Grid[x][y] = v
		}
	}

	if err != nil || chunk.Unresolved > 0 {
		chunk.Degraded = true
		g.logger.Warn("chunk generation degraded",
			"chunk", id,
			"unresolved", chunk.Unresolved,
			"steps", stats.Steps,
			"restarts", stats.Restarts,
			"error", err)
	}

	g.last = chunk
	g.nextID++
	return chunk
}

// stepRail picks where the rail goes in the next column. A climb may not
// directly follow a descent and vice versa, and the rail stays inside the
// configured band.
func (g *Generator) stepRail(prev RailPoint) RailPoint {
	v := g.rng.Float()
	switch {
	case v < 0.25 && prev.Direction != Descend && prev.Height > g.cfg.RailMin:
		return RailPoint{Height: prev.Height - 1, Direction: Climb}
	case v >= 0.25 && v < 0.5 && prev.Direction != Climb && prev.Height < g.cfg.RailMax:
		return RailPoint{Height: prev.Height + 1, Direction: Descend}
	default:
		return RailPoint{Height: prev.Height, Direction: Flat}
	}
}

// must logs a placement the solver rejected. Placements are derived from
// validated geometry, so this only fires on a broken catalog.
func (g *Generator) must(id int, err error) {
	if err != nil {
		g.logger.Error("tile placement rejected", "chunk", id, "error", err)
	}
}
