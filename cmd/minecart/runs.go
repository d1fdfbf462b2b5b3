package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/minecart/internal/platform/tui"
	"github.com/vovakirdan/minecart/internal/storage"
)

var (
	flagRunsPlain bool
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show logged rides",
	Long: `Show the rides logged in the runs database, longest first.

In a terminal this opens the runs board, which pages through every run and
then the runs of each seed among the best. With --plain, or when output is
not a terminal, the top ten are printed; --seed narrows them to one seed.

Examples:
  minecart runs
  minecart runs --plain --seed 42
  minecart runs --clear`,
	Args: cobra.NoArgs,
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagRunsPlain, "plain", false, "Print the top runs instead of opening the board")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete every logged run")
}

func runRuns(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitf("opening runs database: %v", err)
	}
	defer store.Close()

	if flagRunsClear {
		if err := store.ClearRuns(); err != nil {
			store.Close()
			exitf("clearing runs: %v", err)
		}
		fmt.Println("Runs cleared.")
		return
	}

	fd := int(os.Stdout.Fd())
	if !flagRunsPlain && term.IsTerminal(fd) {
		width, height, err := term.GetSize(fd)
		if err != nil {
			width, height = 80, 24
		}
		if err := tui.RunRunsBoard(store, width, height); err != nil {
			store.Close()
			exitf("runs board: %v", err)
		}
		return
	}

	var runs []storage.Run
	if flagSeed != 0 {
		runs, err = store.RunsForSeed(flagSeed)
		if len(runs) > 10 {
			runs = runs[:10]
		}
	} else {
		runs, err = store.TopRuns(10)
	}
	if err != nil {
		store.Close()
		exitf("retrieving runs: %v", err)
	}

	if flagSeed != 0 {
		fmt.Printf("Runs - seed %d\n\n", flagSeed)
	} else {
		fmt.Print("Runs\n\n")
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'minecart play' to log the first one!")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-12s  %-10s  %-6s  %s\n", "Rank", "Distance", "Player", "Seed", "Chunks", "Date")
	fmt.Printf("  %-4s  %-8s  %-12s  %-10s  %-6s  %s\n", "----", "--------", "------", "----", "------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-12s  %-10d  %-6d  %s\n",
			i+1, r.Distance, r.Player, r.Seed, r.Chunks, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if best, err := store.BestDistance(); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d tiles\n", best)
	}
}
