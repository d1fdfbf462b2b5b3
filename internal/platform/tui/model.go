package tui

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/minecart/internal/core"
	"github.com/vovakirdan/minecart/internal/level"
	"github.com/vovakirdan/minecart/internal/ride"
	"github.com/vovakirdan/minecart/internal/storage"
)

const cartGlyph = "▙▟"

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model for one terminal riding the cart.
type Model struct {
	setup      ride.Setup
	store      *storage.Store
	config     core.RuntimeConfig
	player     string
	game       *ride.Game
	level      *level.Level
	screen     *core.Screen
	keys       RideKeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	best       int
	quitting   bool
	runSaved   bool // whether the current ride has been logged
}

// NewModel creates a ride model. A zero seed picks one from the clock.
func NewModel(setup ride.Setup, store *storage.Store, cfg core.RuntimeConfig, player string) (Model, error) {
	if cfg.Seed == 0 {
		cfg.Seed = ride.NewSeed()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if setup.Logger == nil {
		setup.Logger = log.New(io.Discard)
	}
	setup.TickRate = cfg.TickRate

	m := Model{
		setup:      setup,
		store:      store,
		config:     cfg,
		player:     player,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		keys:       DefaultRideKeyMap(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
	}
	m.help.Width = cfg.ScreenW
	if err := m.start(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// start begins a ride on the configured seed.
func (m *Model) start() error {
	game, lvl, err := m.setup.Start(m.config.Seed, m.config.ScreenW)
	if err != nil {
		return err
	}
	m.game, m.level = game, lvl
	m.gameState = game.State()
	m.runSaved = false
	if m.store != nil {
		if best, err := m.store.BestDistance(); err == nil {
			m.best = best
		}
	}
	m.setup.Logger.Debug("ride started", "seed", m.config.Seed, "player", m.player)
	return nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
	}
	return m, nil
}

// handleResize adapts the screen. The viewport width follows the terminal,
// so a ride in progress restarts on the same seed.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	if msg.Width == m.config.ScreenW && msg.Height == m.config.ScreenH {
		return m, nil
	}
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 1))
	m.help.Width = msg.Width

	if !m.gameState.GameOver {
		if err := m.start(); err != nil {
			m.setup.Logger.Error("restart after resize", "error", err)
			return m, tea.Quit
		}
	}
	return m, nil
}

// handleTick advances the ride by one tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = ride.NewSeed()
		if err := m.start(); err != nil {
			m.setup.Logger.Error("new ride", "error", err)
			return m, tea.Quit
		}
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	m.gameState = m.game.Step(m.inputFrame)
	if m.gameState.GameOver && !m.runSaved {
		m.saveRun()
		m.runSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

func (m *Model) saveRun() {
	stats := m.level.Stats()
	m.setup.Logger.Info("ride over",
		"seed", m.config.Seed,
		"distance", m.gameState.Score,
		"chunks", stats.Generated,
		"degraded", stats.Degraded,
	)
	if m.store == nil {
		return
	}
	_, err := m.store.SaveRun(storage.Run{
		Player:   m.player,
		Seed:     m.config.Seed,
		Distance: m.gameState.Score,
		Chunks:   stats.Generated,
		Degraded: stats.Degraded,
		Duration: m.game.Elapsed(),
	})
	if err != nil {
		m.setup.Logger.Warn("could not save run", "error", err)
	}
	m.best = max(m.best, m.gameState.Score)
}

// saveScreenshot writes the current screen to a text file.
func (m *Model) saveScreenshot() {
	m.draw()

	dir := filepath.Join(os.Getenv("HOME"), ".minecart", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("ride_%d_%s.txt", m.config.Seed, timestamp))
	//nolint:errcheck // Best-effort save, the ride continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// draw renders the HUD, terrain and cart into the screen buffer.
func (m *Model) draw() {
	m.screen.Clear()
	lc := m.level.Config()

	// Terrain is anchored to the bottom of the view and loses its top
	// rows, mostly sky, on short terminals.
	viewRows := m.screen.Height() - 1
	surface := screenSurface{
		screen:   m.screen,
		tileSize: float64(lc.TileSize),
		top:      1,
		rows:     min(viewRows, lc.ChunkRows),
	}
	if viewRows >= lc.ChunkRows {
		surface.top += viewRows - lc.ChunkRows
	} else {
		surface.row = lc.ChunkRows - viewRows
	}
	m.level.Render(surface)

	body := m.game.Bounds()
	ts := float64(lc.TileSize)
	col := int(math.Floor((body.X - m.game.ViewportX()) / ts))
	row := int(math.Floor((body.Y+body.H/2)/ts)) - surface.row
	if row >= 0 && row < surface.rows {
		m.screen.DrawTextColored(col, surface.top+row, cartGlyph, core.ColorBrightYellow)
	}

	m.drawHUD()

	switch {
	case m.gameState.GameOver:
		m.drawBanner("CART LOST",
			fmt.Sprintf("distance %d  seed %d", m.gameState.Score, m.config.Seed),
			"r new ride  q quit")
	case m.gameState.Paused:
		m.drawBanner("PAUSED", "p to resume")
	}
}

func (m *Model) drawHUD() {
	left, right := m.level.Window()
	hud := fmt.Sprintf(" seed %d  distance %d  best %d  chunks %d-%d",
		m.config.Seed, m.gameState.Score, max(m.best, m.gameState.Score), left, right)
	if m.level.InFlight() {
		hud += "  generating"
	}
	if m.game.Throttling() {
		hud += "  ▶"
	}
	m.screen.DrawTextColored(0, 0, hud, core.ColorBrightWhite)
}

func (m *Model) drawBanner(lines ...string) {
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	box := core.NewRect((m.screen.Width()-width)/2-2, m.screen.Height()/2-len(lines)/2-1, width+4, len(lines)+2)
	m.screen.DrawRect(box, core.Cell{Rune: ' '})
	m.screen.DrawBox(box, core.ColorBrightWhite)
	for i, l := range lines {
		color := core.ColorWhite
		if i == 0 {
			color = core.ColorBrightYellow
		}
		m.screen.DrawTextCentered(box.Y+1+i, l, color)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	m.draw()
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Run starts the Bubble Tea program for a local ride.
func Run(setup ride.Setup, store *storage.Store, cfg core.RuntimeConfig, player string) error {
	model, err := NewModel(setup, store, cfg, player)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
