package level

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/minecart/internal/core"
	"github.com/vovakirdan/minecart/internal/wfc"
)

// Surface receives tiles to draw at screen pixel positions.
type Surface interface {
	DrawTile(tile wfc.Option, x, y float64)
}

// Stats summarises the work a Level has done.
type Stats struct {
	Generated  int
	Degraded   int
	Evicted    int
	Backtracks int
	Restarts   int
}

// Level keeps the chunks around the viewport resident.
//
// Update, Await and the scheduling state belong to one goroutine, the
// frame loop. Queries and Render may be called from anywhere.
type Level struct {
	cfg    Config
	cat    *wfc.Catalog
	seed   uint32
	logger *log.Logger

	// gen is handed to the worker goroutine while inFlight is set.
	gen      *Generator
	inFlight bool
	results  chan *Chunk
	nextID   int

	mu        sync.RWMutex
	chunks    map[int]*Chunk
	scroll    float64
	leftmost  int
	rightmost int
	stats     Stats
}

// New creates a level for the seed. Nothing is generated until the first
// Update.
func New(cfg Config, cat *wfc.Catalog, seed uint32, logger *log.Logger) (*Level, error) {
	gen, err := NewGenerator(cfg, cat, seed, logger)
	if err != nil {
		return nil, err
	}
	return &Level{
		cfg:     cfg,
		cat:     cat,
		seed:    seed,
		logger:  gen.logger,
		gen:     gen,
		results: make(chan *Chunk, 1),
		chunks:  make(map[int]*Chunk),
	}, nil
}

// Seed returns the seed the level was created with.
func (l *Level) Seed() uint32 {
	return l.seed
}

// Config returns the level geometry.
func (l *Level) Config() Config {
	return l.cfg
}

// Update advances streaming for a viewport whose left edge is at
// viewportX world pixels. It starts a generation cycle when the next
// chunk is needed and none is running, waits up to PollTimeout for the
// running cycle, then evicts chunks left of the viewport.
func (l *Level) Update(viewportX float64) {
	cw := l.cfg.ChunkWidth()
	left := viewportX
	right := left + l.cfg.ViewportWidth
	leftmost := max(int(math.Floor(left/cw)), 0)
	rightmost := int(math.Floor(right/cw)) + 1

	l.mu.Lock()
	l.scroll = left
	l.leftmost = leftmost
	l.rightmost = rightmost
	l.mu.Unlock()

	if !l.inFlight && l.nextID <= rightmost {
		l.launch()
	}
	l.poll(l.cfg.PollTimeout)
	l.evict(leftmost)
}

// Await blocks until the running generation cycle, if any, has been
// published. It must be called from the goroutine that calls Update.
func (l *Level) Await(ctx context.Context) error {
	if !l.inFlight {
		return nil
	}
	select {
	case c := <-l.results:
		l.publish(c)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InFlight reports whether a generation cycle is running.
func (l *Level) InFlight() bool {
	return l.inFlight
}

// NextID is the id of the next chunk to be generated.
func (l *Level) NextID() int {
	return l.nextID
}

func (l *Level) launch() {
	l.inFlight = true
	gen := l.gen
	go func() {
		l.results <- gen.Next()
	}()
}

func (l *Level) poll(timeout time.Duration) {
	if !l.inFlight {
		return
	}
	if timeout <= 0 {
		select {
		case c := <-l.results:
			l.publish(c)
		default:
		}
		return
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case c := <-l.results:
		l.publish(c)
	case <-timer.C:
	}
}

func (l *Level) publish(c *Chunk) {
	l.mu.Lock()
	l.chunks[c.ID] = c
	l.stats.Generated++
	l.stats.Backtracks += c.Solve.Backtracks
	l.stats.Restarts += c.Solve.Restarts
	if c.Degraded {
		l.stats.Degraded++
	}
	l.mu.Unlock()

	l.nextID = c.ID + 1
	l.inFlight = false
	l.logger.Debug("chunk published", "chunk", c.ID, "degraded", c.Degraded)
}

func (l *Level) evict(leftmost int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id := range l.chunks {
		if id < leftmost {
			delete(l.chunks, id)
			l.stats.Evicted++
		}
	}
}

// Resident returns the ids of the chunks held, in ascending order.
func (l *Level) Resident() []int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]int, 0, len(l.chunks))
	for id := range l.chunks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Chunk returns a resident chunk. The chunk must not be modified.
func (l *Level) Chunk(id int) (*Chunk, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.chunks[id]
	return c, ok
}

// Scroll returns the viewport left edge from the last Update.
func (l *Level) Scroll() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.scroll
}

// Window returns the chunk id range the last Update asked for.
func (l *Level) Window() (leftmost, rightmost int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.leftmost, l.rightmost
}

// Stats returns running totals.
func (l *Level) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stats
}

// RailHeights returns a copy of a resident chunk's rail points.
func (l *Level) RailHeights(id int) ([]RailPoint, bool) {
	c, ok := l.Chunk(id)
	if !ok {
		return nil, false
	}
	return slices.Clone(c.Rails), true
}

// RailHeightAt returns the rail surface y at world x, interpolating along
// slopes. Where no chunk is resident it returns Config.Sentinel.
func (l *Level) RailHeightAt(x float64) float64 {
	cw := l.cfg.ChunkWidth()
	ts := float64(l.cfg.TileSize)

	id := int(math.Floor(x / cw))
	c, ok := l.Chunk(id)
	if !ok {
		return l.cfg.Sentinel()
	}

	local := x - float64(id)*cw
	tileX := min(int(local/ts), l.cfg.ChunkTiles-1)
	p, ok := c.RailAt(tileX)
	if !ok {
		return l.cfg.Sentinel()
	}
	t := (local - float64(tileX)*ts) / ts
	return p.Direction.Surface(p.Height, t, l.cfg.TileSize)
}

// TouchingRail reports whether any tile under rect, in world pixels,
// holds rail.
func (l *Level) TouchingRail(rect core.RectF) bool {
	cw := l.cfg.ChunkWidth()
	ts := float64(l.cfg.TileSize)

	first := int(math.Floor(rect.X / cw))
	last := int(math.Floor(rect.Right() / cw))
	cols := int(math.Ceil(rect.W / ts))
	rows := int(math.Ceil(rect.H / ts))

	for id := first; id <= last; id++ {
		c, ok := l.Chunk(id)
		if !ok {
			continue
		}
		tx0 := int(math.Floor((rect.X - float64(id)*cw) / ts))
		ty0 := int(math.Floor(rect.Y / ts))
		for dx := 0; dx < cols; dx++ {
			for dy := 0; dy < rows; dy++ {
				t, ok := c.Tile(tx0+dx, ty0+dy)
				if ok && l.cat.IsRail(t) {
					return true
				}
			}
		}
	}
	return false
}

// Render draws resident chunks in id order, skipping blank tiles, at
// world positions shifted left by the scroll.
func (l *Level) Render(s Surface) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]int, 0, len(l.chunks))
	for id := range l.chunks {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	ts := float64(l.cfg.TileSize)
	for _, id := range ids {
		c := l.chunks[id]
		originX := float64(id*l.cfg.ChunkTiles)*ts - l.scroll
		for x, col := range c.Grid {
			for y, t := range col {
				if t == TileBlank {
					continue
				}
				s.DrawTile(t, originX+float64(x)*ts, float64(y)*ts)
			}
		}
	}
}
