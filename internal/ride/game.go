// Package ride simulates a minecart riding the streamed rail. The cart
// drives the level's viewport and reads the rail height under it.
package ride

import (
	"time"

	"github.com/vovakirdan/minecart/internal/config"
	"github.com/vovakirdan/minecart/internal/core"
)

// Track is the terrain the cart rides on.
type Track interface {
	Update(viewportX float64)
	RailHeightAt(x float64) float64
}

// Game is the cart simulation for one ride.
type Game struct {
	cart     config.CartConfig
	diff     *config.DifficultyManager
	track    Track
	tileSize float64
	floor    float64 // y at which the cart has left the world
	dt       float64

	pos, vel core.Vec
	onRail   bool
	throttle float64 // seconds of throttle left from the last key press

	ticks   int
	elapsed float64
	paused  bool
	over    bool
}

// NewGame creates a cart at the start of the track. worldHeight is the
// height of the terrain in pixels; dt is the tick length in seconds.
func NewGame(cfg config.RideConfig, track Track, tileSize int, worldHeight, dt float64) *Game {
	return &Game{
		cart:     cfg.Cart,
		diff:     config.NewDifficultyManager(cfg.Difficulty),
		track:    track,
		tileSize: float64(tileSize),
		floor:    worldHeight,
		dt:       dt,
		pos:      core.Vec{X: cfg.Cart.ScreenOffset, Y: 0},
	}
}

// Step advances the ride by one tick.
func (g *Game) Step(in core.InputFrame) core.GameState {
	if g.over {
		return g.State()
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return g.State()
	}

	g.ticks++
	g.elapsed += g.dt
	g.track.Update(g.ViewportX())

	if g.elapsed < g.cart.StartDelay.Seconds() {
		return g.State()
	}

	if in.Has(core.ActionThrottle) {
		g.throttle = g.cart.ThrottleHold.Seconds()
	}
	speedUp := g.throttle > 0
	g.throttle = max(g.throttle-g.dt, 0)

	distance := g.Distance()
	if speedUp {
		g.vel.X += g.diff.Acceleration(g.cart.Acceleration, distance, g.ticks) * g.dt
	}
	if g.onRail {
		if g.vel.Y > 0 {
			g.vel.Y = 0
		}
	} else {
		g.vel.Y += g.cart.Gravity * g.dt
	}

	drag := g.cart.BrakingDrag
	if speedUp {
		drag = g.cart.Drag
	}
	drag = g.diff.Drag(drag, distance, g.ticks)
	g.vel.X -= g.vel.X * g.vel.X * drag * g.dt
	g.pos = g.pos.Add(g.vel.Scale(g.dt))

	// Snap onto the rail when at or below it. One pixel of wheel sits
	// between the cart body and the rail surface.
	g.onRail = false
	rail := g.track.RailHeightAt(g.pos.X+g.cart.Width/2) - g.cart.Height - 1
	if rail <= g.pos.Y+0.5 {
		g.onRail = true
		g.vel.Y = (rail - g.pos.Y) / g.dt
		g.pos.Y = rail
	}

	if g.pos.Y >= g.floor {
		g.over = true
	}
	return g.State()
}

// State reports score and status. The score is the distance in tiles.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.Distance(),
		GameOver: g.over,
		Paused:   g.paused,
	}
}

// ViewportX is the world x of the screen's left edge.
func (g *Game) ViewportX() float64 {
	return g.pos.X - g.cart.ScreenOffset
}

// Distance is how many whole tiles the cart has travelled.
func (g *Game) Distance() int {
	return max(int((g.pos.X-g.cart.ScreenOffset)/g.tileSize), 0)
}

// Bounds is the cart body in world pixels.
func (g *Game) Bounds() core.RectF {
	return core.NewRectF(g.pos, g.cart.Width, g.cart.Height)
}

func (g *Game) Position() core.Vec { return g.pos }
func (g *Game) Velocity() core.Vec { return g.vel }
func (g *Game) OnRail() bool       { return g.onRail }
func (g *Game) Throttling() bool   { return g.throttle > 0 }
func (g *Game) Ticks() int         { return g.ticks }

// Elapsed is the simulated time since the ride began.
func (g *Game) Elapsed() time.Duration {
	return time.Duration(g.elapsed * float64(time.Second))
}
