package ride

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/minecart/internal/config"
	"github.com/vovakirdan/minecart/internal/core"
)

// flatTrack is a rail at a constant height that records viewport updates.
type flatTrack struct {
	surface float64
	updates []float64
}

func (t *flatTrack) Update(viewportX float64)      { t.updates = append(t.updates, viewportX) }
func (t *flatTrack) RailHeightAt(x float64) float64 { return t.surface }

const (
	testDt    = 0.25
	testFloor = 192
)

func testConfig() config.RideConfig {
	cfg := config.DefaultRideConfig()
	cfg.Difficulty.Enabled = false
	return cfg
}

func newTestGame(cfg config.RideConfig, surface float64) (*Game, *flatTrack) {
	track := &flatTrack{surface: surface}
	return NewGame(cfg, track, 8, testFloor, testDt), track
}

func throttle() core.InputFrame {
	in := core.NewInputFrame()
	in.Set(core.ActionThrottle)
	return in
}

func run(g *Game, ticks int, in core.InputFrame) {
	for range ticks {
		g.Step(in)
	}
}

func TestStartDelayHoldsCart(t *testing.T) {
	g, track := newTestGame(testConfig(), 100)

	run(g, 3, throttle())
	if got := g.Position(); got != (core.Vec{X: 84, Y: 0}) {
		t.Fatalf("cart moved during start delay: %+v", got)
	}
	if len(track.updates) != 3 {
		t.Fatalf("track updated %d times, expected 3", len(track.updates))
	}
	for i, x := range track.updates {
		if x != 0 {
			t.Errorf("update %d: viewport %v, expected 0", i, x)
		}
	}

	g.Step(core.NewInputFrame())
	if got := g.Position().Y; got != 20 {
		t.Errorf("after delay y = %v, expected 20", got)
	}
	if g.Elapsed() != time.Second {
		t.Errorf("Elapsed() = %v", g.Elapsed())
	}
}

func TestCartSettlesOnRail(t *testing.T) {
	g, _ := newTestGame(testConfig(), 100)

	run(g, 20, core.NewInputFrame())
	if !g.OnRail() {
		t.Fatal("cart not on rail")
	}
	// Surface minus cart height minus one pixel of wheel.
	if got := g.Position().Y; got != 95 {
		t.Errorf("y = %v, expected 95", got)
	}
	if got := g.Velocity(); got != (core.Vec{}) {
		t.Errorf("velocity = %+v, expected zero", got)
	}
	if g.Distance() != 0 {
		t.Errorf("Distance() = %d without throttle", g.Distance())
	}
}

func TestThrottle(t *testing.T) {
	g, track := newTestGame(testConfig(), 100)
	run(g, 3, core.NewInputFrame())

	g.Step(throttle())
	want := 6 - 36*0.0002*testDt
	if got := g.Velocity().X; math.Abs(got-want) > 1e-9 {
		t.Fatalf("vx after one throttled tick = %v, expected %v", got, want)
	}
	if g.Throttling() {
		t.Error("throttle still open after its hold elapsed")
	}

	before := g.Velocity().X
	g.Step(core.NewInputFrame())
	if got := g.Velocity().X; got >= before {
		t.Errorf("coasting did not slow the cart: %v -> %v", before, got)
	}

	run(g, 40, throttle())
	if g.Velocity().X < 150 {
		t.Errorf("vx = %v after sustained throttle", g.Velocity().X)
	}
	if g.Distance() == 0 {
		t.Error("distance did not grow")
	}
	last := track.updates[len(track.updates)-1]
	if last <= 0 {
		t.Errorf("viewport did not follow the cart: %v", last)
	}
}

func TestThrottleHoldSpansTicks(t *testing.T) {
	cfg := testConfig()
	cfg.Cart.ThrottleHold = time.Second
	g, _ := newTestGame(cfg, 100)
	run(g, 3, core.NewInputFrame())

	g.Step(throttle())
	for i := range 3 {
		if !g.Throttling() {
			t.Fatalf("throttle closed early at tick %d", i)
		}
		g.Step(core.NewInputFrame())
	}
	if g.Throttling() {
		t.Error("throttle still open after one second")
	}
}

func TestDifficultyScalesAcceleration(t *testing.T) {
	easy, _ := newTestGame(testConfig(), 100)

	cfg := testConfig()
	cfg.Difficulty = config.DifficultyConfig{
		Enabled:      true,
		InitialLevel: 1,
		Progression:  config.ProgressionConfig{Type: "distance", MaxAt: 100},
		Scaling:      config.ScalingConfig{SpeedMultiplier: 1, DragReduction: 0.5},
	}
	hard, _ := newTestGame(cfg, 100)

	for _, g := range []*Game{easy, hard} {
		run(g, 3, core.NewInputFrame())
		g.Step(throttle())
	}
	want := 12 - 144*0.0001*testDt
	if got := hard.Velocity().X; math.Abs(got-want) > 1e-9 {
		t.Errorf("hard vx = %v, expected %v", got, want)
	}
	if hard.Velocity().X <= easy.Velocity().X {
		t.Errorf("difficulty did not speed the cart: easy %v, hard %v", easy.Velocity().X, hard.Velocity().X)
	}
}

func TestFallingOutOfTheWorldEndsRide(t *testing.T) {
	// No rail: the track reports the sentinel below the bottom row.
	g, _ := newTestGame(testConfig(), 200)

	var state core.GameState
	for i := 0; i < 20 && !state.GameOver; i++ {
		state = g.Step(core.NewInputFrame())
	}
	if !state.GameOver {
		t.Fatal("ride did not end")
	}

	pos, ticks := g.Position(), g.Ticks()
	g.Step(throttle())
	if g.Position() != pos || g.Ticks() != ticks {
		t.Error("cart moved after the ride ended")
	}
}

func TestPauseFreezesRide(t *testing.T) {
	g, track := newTestGame(testConfig(), 100)
	run(g, 5, core.NewInputFrame())

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	if !g.Step(pause).Paused {
		t.Fatal("Step(pause) did not pause")
	}
	ticks, updates := g.Ticks(), len(track.updates)
	run(g, 10, core.NewInputFrame())
	if g.Ticks() != ticks || len(track.updates) != updates {
		t.Error("ride advanced while paused")
	}

	if g.Step(pause).Paused {
		t.Error("second pause did not resume")
	}
	if g.Ticks() != ticks+1 {
		t.Errorf("Ticks() = %d after resume, expected %d", g.Ticks(), ticks+1)
	}
}

func TestBounds(t *testing.T) {
	g, _ := newTestGame(testConfig(), 100)
	run(g, 20, core.NewInputFrame())

	b := g.Bounds()
	if b.X != 84 || b.Y != 95 || b.W != 10 || b.H != 4 {
		t.Errorf("Bounds() = %+v", b)
	}
	if g.ViewportX() != 0 {
		t.Errorf("ViewportX() = %v", g.ViewportX())
	}
}
