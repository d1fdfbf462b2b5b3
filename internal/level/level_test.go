package level

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/vovakirdan/minecart/internal/config"
	"github.com/vovakirdan/minecart/internal/core"
	"github.com/vovakirdan/minecart/internal/wfc"
)

func defaultCatalog(t *testing.T) *wfc.Catalog {
	t.Helper()
	cat, err := wfc.ParseRules(config.DefaultRulesYAML())
	if err != nil {
		t.Fatalf("default rules: %v", err)
	}
	return cat
}

func generate(t *testing.T, cfg Config, seed uint32, n int) []*Chunk {
	t.Helper()
	g, err := NewGenerator(cfg, defaultCatalog(t), seed, nil)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	chunks := make([]*Chunk, n)
	for i := range chunks {
		chunks[i] = g.Next()
	}
	return chunks
}

func TestGeneratorDeterminism(t *testing.T) {
	a := generate(t, DefaultConfig(), 42, 6)
	b := generate(t, DefaultConfig(), 42, 6)

	for i := range a {
		if !slices.Equal(a[i].Rails, b[i].Rails) {
			t.Fatalf("chunk %d rails differ", i)
		}
		for x := range a[i].Grid {
			if !slices.Equal(a[i].Grid[x], b[i].Grid[x]) {
				t.Fatalf("chunk %d column %d differs", i, x)
			}
		}
		if a[i].State != b[i].State {
			t.Errorf("chunk %d start state %d != %d", i, a[i].State, b[i].State)
		}
	}

	c := generate(t, DefaultConfig(), 43, 6)
	same := true
	for i := range a {
		if !slices.Equal(a[i].Rails, c[i].Rails) {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical rails")
	}
}

func TestGeneratedChunksHoldTheirRail(t *testing.T) {
	cfg := DefaultConfig()
	cat := defaultCatalog(t)
	chunks := generate(t, cfg, 7, 10)

	solved := 0
	for k, c := range chunks {
		if c.ID != k {
			t.Errorf("chunk %d has id %d", k, c.ID)
		}
		if len(c.Rails) != cfg.ChunkTiles+2 {
			t.Fatalf("chunk %d: %d rail points, expected %d", k, len(c.Rails), cfg.ChunkTiles+2)
		}
		for i, p := range c.Rails {
			if p.Height < cfg.RailMin || p.Height > cfg.RailMax {
				t.Errorf("chunk %d rail %d height %d outside band", k, i, p.Height)
			}
			if i > 0 {
				prev := c.Rails[i-1]
				if d := p.Height - prev.Height; d < -1 || d > 1 {
					t.Errorf("chunk %d rail %d jumps %d rows", k, i, d)
				}
			}
		}

		if k > 0 {
			prev := chunks[k-1]
			if c.Rails[0] != prev.Rails[cfg.ChunkTiles] || c.Rails[1] != prev.Rails[cfg.ChunkTiles+1] {
				t.Errorf("chunk %d does not continue the rail of chunk %d", k, k-1)
			}
		}

		if c.Degraded {
			continue
		}
		solved++
		for x := 0; x < cfg.ChunkTiles; x++ {
			p := c.Rails[x+1]
			if got := c.Grid[x][p.Direction.TileRow(p.Height)]; got != p.Direction.Tile() {
				t.Errorf("chunk %d column %d: tile %d at rail row, expected %d", k, x, got, p.Direction.Tile())
			}
			if bottom := c.Grid[x][cfg.ChunkRows-1]; cat.IsRail(bottom) {
				t.Errorf("chunk %d column %d: rail on the bottom row", k, x)
			}
		}
	}
	if solved == 0 {
		t.Fatal("every chunk degraded")
	}
}

func TestSeamAdjacency(t *testing.T) {
	cfg := DefaultConfig()
	cat := defaultCatalog(t)
	chunks := generate(t, cfg, 2024, 8)

	for k := 1; k < len(chunks); k++ {
		prev, c := chunks[k-1], chunks[k]
		if prev.Degraded || c.Degraded {
			continue
		}
		for y := 0; y < cfg.ChunkRows; y++ {
			l, r := prev.Grid[cfg.ChunkTiles-1][y], c.Grid[0][y]
			if !cat.Rules[l].Allows(wfc.Right, r) {
				t.Errorf("seam %d/%d row %d: %d may not sit left of %d", k-1, k, y, l, r)
			}
		}
		// Vertical soundness inside the chunk.
		for x := range c.Grid {
			for y := 0; y+1 < cfg.ChunkRows; y++ {
				up, down := c.Grid[x][y], c.Grid[x][y+1]
				if !cat.Rules[up].Allows(wfc.Down, down) {
					t.Errorf("chunk %d (%d,%d): %d above %d", k, x, y, up, down)
				}
			}
		}
	}
}

func TestDegradedChunkUsesPlaceholder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSteps = 1
	cfg.MaxCycles = 1
	chunks := generate(t, cfg, 5, 2)

	for _, c := range chunks {
		if !c.Degraded {
			t.Fatalf("chunk %d should be degraded with a one-step budget", c.ID)
		}
		if c.Unresolved == 0 {
			t.Fatalf("chunk %d reports no unresolved cells", c.ID)
		}
		n := 0
		for _, col := range c.Grid {
			for _, v := range col {
				if v == TileUnresolved {
					n++
				}
			}
		}
		if n != c.Unresolved {
			t.Errorf("chunk %d: %d placeholders, Unresolved = %d", c.ID, n, c.Unresolved)
		}
	}
}

func TestNewValidation(t *testing.T) {
	noRail := &wfc.Catalog{
		All:         []wfc.Option{255, 133},
		Frequencies: map[wfc.Option]uint32{255: 1, 133: 1},
		Rules: map[wfc.Option]wfc.Rules{
			255: {Up: []wfc.Option{255}, Down: []wfc.Option{255}},
			133: {},
		},
	}
	if _, err := New(DefaultConfig(), noRail, 1, nil); !errors.Is(err, ErrMissingRailTile) {
		t.Errorf("New() error = %v, expected ErrMissingRailTile", err)
	}

	cases := map[string]func(*Config){
		"zero tile size":   func(c *Config) { c.TileSize = 0 },
		"no viewport":      func(c *Config) { c.ViewportWidth = 0 },
		"inverted band":    func(c *Config) { c.RailMin, c.RailMax = 15, 14 },
		"rail on bottom":   func(c *Config) { c.RailMax = c.ChunkRows - 1 },
		"start off band":   func(c *Config) { c.RailStart = 3 },
		"negative timeout": func(c *Config) { c.PollTimeout = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			if _, err := New(cfg, defaultCatalog(t), 1, nil); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New() error = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

// handBuilt returns a level with one resident chunk whose rail follows
// the given points and whose other tiles are blank.
func handBuilt(t *testing.T, id int, rails []RailPoint) *Level {
	t.Helper()
	cfg := DefaultConfig()
	l, err := New(cfg, defaultCatalog(t), 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := &Chunk{ID: id, Grid: newGrid(cfg.ChunkTiles, cfg.ChunkRows), Rails: rails}
	for x := range c.Grid {
		for y := range c.Grid[x] {
			c.Grid[x][y] = TileBlank
		}
		p := rails[x+1]
		c.Grid[x][p.Direction.TileRow(p.Height)] = p.Direction.Tile()
	}
	l.chunks[id] = c
	return l
}

func TestRailHeightAt(t *testing.T) {
	rails := []RailPoint{
		{12, Flat}, {12, Flat}, // column 0 flat at row 12
		{11, Climb},            // column 1 climbs from row 12 to 11
		{12, Descend},          // column 2 descends from row 11 to 12
		{12, Flat}, {12, Flat}, {12, Flat}, {12, Flat}, {12, Flat}, {12, Flat},
	}
	l := handBuilt(t, 1, rails)

	tests := []struct {
		x, want float64
	}{
		{64 + 0, 12*8 + 6},      // flat
		{64 + 7.5, 12*8 + 6},    // flat, far edge
		{64 + 8, 11*8 + 6 + 8},  // climb start
		{64 + 12, 11*8 + 6 + 4}, // climb midway
		{64 + 16, 12*8 + 6 - 8}, // descend start
		{64 + 20, 12*8 + 6 - 4}, // descend midway
		{64 + 63.99, 12*8 + 6},  // last column
		{0, 200},                // chunk 0 not resident
		{128, 200},              // chunk 2 not resident
		{-5, 200},               // left of the world
	}
	for _, tt := range tests {
		if got := l.RailHeightAt(tt.x); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RailHeightAt(%v) = %v, expected %v", tt.x, got, tt.want)
		}
	}
	if l.cfg.Sentinel() != 200 {
		t.Errorf("Sentinel() = %v, expected 200", l.cfg.Sentinel())
	}

	// The slope is continuous across a climb into a flat column.
	if a, b := l.RailHeightAt(64+15.999), l.RailHeightAt(64+16); math.Abs(a-(11*8+6)) > 0.01 || b != 12*8+6-8 {
		t.Errorf("slope edges: %v, %v", a, b)
	}
}

func TestTouchingRail(t *testing.T) {
	flat := make([]RailPoint, 10)
	for i := range flat {
		flat[i] = RailPoint{Height: 14, Direction: Flat}
	}
	l := handBuilt(t, 0, flat)

	tests := []struct {
		name string
		rect core.RectF
		want bool
	}{
		{"on the rail", core.RectF{X: 20, Y: 14*8 + 2, W: 10, H: 4}, true},
		{"above the rail", core.RectF{X: 20, Y: 40, W: 10, H: 4}, false},
		{"straddling into a missing chunk", core.RectF{X: 60, Y: 14 * 8, W: 10, H: 4}, true},
		{"missing chunk only", core.RectF{X: 70, Y: 14 * 8, W: 10, H: 4}, false},
		{"left of the world", core.RectF{X: -30, Y: 14 * 8, W: 10, H: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.TouchingRail(tt.rect); got != tt.want {
				t.Errorf("TouchingRail(%+v) = %v, expected %v", tt.rect, got, tt.want)
			}
		})
	}
}

type recorder struct {
	draws []draw
}

type draw struct {
	tile wfc.Option
	x, y float64
}

func (r *recorder) DrawTile(tile wfc.Option, x, y float64) {
	r.draws = append(r.draws, draw{tile, x, y})
}

func TestRender(t *testing.T) {
	flat := make([]RailPoint, 10)
	for i := range flat {
		flat[i] = RailPoint{Height: 12, Direction: Flat}
	}
	l := handBuilt(t, 2, flat)
	l.scroll = 100

	var r recorder
	l.Render(&r)

	if len(r.draws) != 8 {
		t.Fatalf("drew %d tiles, expected the 8 rail tiles only", len(r.draws))
	}
	for i, d := range r.draws {
		wantX := float64(2*64+i*8) - 100
		if d.tile != TileRailFlat || d.x != wantX || d.y != 96 {
			t.Errorf("draw %d = %+v, expected rail at (%v, 96)", i, d, wantX)
		}
	}

	rails, ok := l.RailHeights(2)
	if !ok || len(rails) != 10 {
		t.Fatalf("RailHeights(2) = %v, %v", rails, ok)
	}
	rails[0].Height = 99
	if again, _ := l.RailHeights(2); again[0].Height != 12 {
		t.Error("RailHeights() must return a copy")
	}
	if _, ok := l.RailHeights(3); ok {
		t.Error("RailHeights() of an absent chunk should report false")
	}
}

func TestStreamingEvictsBehindViewport(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PollTimeout = 0
	l, err := New(cfg, defaultCatalog(t), 99, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prevLeft := 0
	published := map[int]bool{}
	for vx := 0.0; vx <= 3000; vx += 7 {
		l.Update(vx)
		if err := l.Await(ctx); err != nil {
			t.Fatalf("Await() error = %v", err)
		}
		l.Update(vx)

		left, right := l.Window()
		if left < prevLeft {
			t.Fatalf("leftmost went backwards: %d -> %d", prevLeft, left)
		}
		prevLeft = left
		if want := int(math.Floor(vx / 64)); left != want {
			t.Errorf("viewport %v: leftmost = %d, expected %d", vx, left, want)
		}
		if want := int(math.Floor((vx+256)/64)) + 1; right != want {
			t.Errorf("viewport %v: rightmost = %d, expected %d", vx, right, want)
		}

		resident := l.Resident()
		if len(resident) > right-left+1 {
			t.Errorf("viewport %v: %d chunks resident for window [%d, %d]", vx, len(resident), left, right)
		}
		for _, id := range resident {
			if id < left {
				t.Errorf("viewport %v: chunk %d resident left of %d", vx, id, left)
			}
			published[id] = true
		}
	}

	st := l.Stats()
	if st.Generated != l.NextID() {
		t.Errorf("Generated = %d, NextID = %d", st.Generated, l.NextID())
	}
	if st.Generated != len(published) {
		t.Errorf("Generated = %d but %d distinct ids seen", st.Generated, len(published))
	}
	if st.Evicted == 0 {
		t.Error("nothing was evicted")
	}
	if got := len(l.Resident()); got+st.Evicted != st.Generated {
		t.Errorf("resident %d + evicted %d != generated %d", got, st.Evicted, st.Generated)
	}
	if l.Seed() != 99 {
		t.Errorf("Seed() = %d, expected 99", l.Seed())
	}
}

func TestSingleFlight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PollTimeout = 0
	l, err := New(cfg, defaultCatalog(t), 3, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Far ahead of what is generated: every Update wants a chunk.
	for i := 0; i < 200; i++ {
		before := l.NextID()
		l.Update(float64(i))
		if l.NextID() > before+1 {
			t.Fatalf("one Update published %d chunks", l.NextID()-before)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := l.Await(ctx); err != nil {
		t.Fatal(err)
	}
	if l.InFlight() {
		t.Error("Await() returned with a cycle still running")
	}
	ids := l.Resident()
	for i := 1; i < len(ids); i++ {
		if ids[i] != ids[i-1]+1 {
			t.Errorf("resident ids not contiguous: %v", ids)
		}
	}
}

func TestAwaitHonoursContext(t *testing.T) {
	l, err := New(DefaultConfig(), defaultCatalog(t), 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Await(context.Background()); err != nil {
		t.Errorf("Await() with nothing in flight = %v", err)
	}

	l.inFlight = true // pretend a cycle is running that never reports
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Await() error = %v, expected context.Canceled", err)
	}
}
