package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/minecart/internal/config"
	"github.com/vovakirdan/minecart/internal/core"
	"github.com/vovakirdan/minecart/internal/platform/tui"
	"github.com/vovakirdan/minecart/internal/storage"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Ride in this terminal",
	Long: `Ride a minecart across streamed terrain.

Controls:
  Right/Space - Throttle (each press holds it briefly)
  P/Esc       - Pause
  R           - New ride on a fresh seed (after the cart is lost)
  Ctrl+S      - Save a text screenshot to ~/.minecart/screenshots
  Q/Ctrl+C    - Quit

The cart is lost when it falls below the terrain, which happens when it
outruns generation or leaves the rail. Every ride is logged to the runs
database.

Difficulty options:
  easy   - Start at the lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at the config's initial level

Examples:
  minecart play
  minecart play --seed 42
  minecart play --difficulty hard
  minecart play --config ./my-ride.yaml --log-file ride.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger("minecart", true)
	if err != nil {
		exitf("%v", err)
	}
	defer closeLog()

	setup, err := loadSetup(logger)
	if err != nil {
		exitf("%v", err)
	}
	switch preset := config.DifficultyPreset(flagDifficulty); preset {
	case "", config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
		setup.Config.ApplyPreset(preset)
	default:
		exitf("unknown difficulty %q", flagDifficulty)
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database", "error", err)
		store = nil
	}

	runErr := tui.Run(setup, store, cfg, playerName())

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		closeLog()
		exitf("running ride: %v", runErr)
	}
}

// playerName is the name runs are logged under.
func playerName() string {
	for _, env := range []string{"USER", "USERNAME"} {
		if name := os.Getenv(env); name != "" {
			return name
		}
	}
	return "player"
}
