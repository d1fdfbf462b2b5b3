// minecart rides a minecart across endless terrain generated by wave
// function collapse, in the terminal or over SSH.
//
// Usage:
//
//	minecart play             - Ride in this terminal
//	minecart generate [n]     - Print the first n chunks of a seed
//	minecart survey           - Generate many seeds and report solver work
//	minecart runs             - Show logged rides
//	minecart serve            - Start SSH server for remote rides
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Terrain seed (0 = from the clock)
//	--db <path>         - Runs database (default: ~/.minecart/runs.db)
//	--config <path>     - Ride config YAML
//	--rules <path>      - Tile rules YAML or JSON
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagFPS      int
	flagSeed     uint32
	flagDBPath   string
	flagConfig   string
	flagRules    string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minecart",
	Short: "Minecart - ride procedurally generated rails in your terminal",
	Long: `Minecart streams terrain chunks ahead of a scrolling minecart. Each
chunk is solved by wave function collapse from a seeded xorshift stream,
so a seed always produces the same track.

Available commands:
  play      - Ride in this terminal
  generate  - Print chunks of a seed as text or YAML
  survey    - Generate many seeds in parallel and report solver work
  runs      - Show logged rides
  serve     - Start SSH server for remote rides

Examples:
  minecart play
  minecart play --seed 42 --difficulty hard
  minecart generate 4 --seed 42
  minecart survey --seeds 200 --chunks 30
  minecart serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Uint32Var(&flagSeed, "seed", 0, "Terrain seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.minecart/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom ride config YAML")
	rootCmd.PersistentFlags().StringVar(&flagRules, "rules", "", "Path to custom tile rules (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(surveyCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
}
