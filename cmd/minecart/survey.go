package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/minecart/internal/ride"
	"github.com/vovakirdan/minecart/internal/survey"
)

var (
	flagSurveySeeds   int
	flagSurveyChunks  int
	flagSurveyWorkers int
	flagSurveyTop     int
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Generate many seeds and report solver work",
	Long: `Generate the first chunks of a range of seeds in parallel and report how
often the solver backtracked, restarted or gave up. Useful when tuning tile
rules or solver budgets.

The range starts at --seed (1 when unset).

Examples:
  minecart survey
  minecart survey --seeds 500 --chunks 40 --workers 8
  minecart survey --rules ./my-rules.yaml --top 10`,
	Args: cobra.NoArgs,
	Run:  runSurvey,
}

func init() {
	surveyCmd.Flags().IntVar(&flagSurveySeeds, "seeds", 50, "Number of consecutive seeds")
	surveyCmd.Flags().IntVar(&flagSurveyChunks, "chunks", 20, "Chunks generated per seed")
	surveyCmd.Flags().IntVar(&flagSurveyWorkers, "workers", 0, "Parallel generators (0 = one per CPU)")
	surveyCmd.Flags().IntVar(&flagSurveyTop, "top", 5, "Hardest seeds to list")
}

func runSurvey(_ *cobra.Command, _ []string) {
	logger, closeLog, err := newLogger("minecart", false)
	if err != nil {
		exitf("%v", err)
	}
	defer closeLog()

	setup, err := loadSetup(logger)
	if err != nil {
		exitf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := survey.Options{
		FirstSeed: max(flagSeed, 1),
		Seeds:     flagSurveySeeds,
		Chunks:    flagSurveyChunks,
		Workers:   flagSurveyWorkers,
	}
	logger.Info("surveying", "from", opts.FirstSeed, "seeds", opts.Seeds, "chunks", opts.Chunks)

	report, err := survey.Run(ctx, ride.LevelConfig(setup.Config.Level, 0), setup.Catalog, opts, logger)
	if err != nil {
		exitf("survey: %v", err)
	}

	total := report.Total()
	fmt.Printf("Surveyed %d seeds x %d chunks in %s\n\n", len(report.Seeds), opts.Chunks, report.Elapsed.Round(time.Millisecond))
	fmt.Printf("  Steps:          %d\n", total.Solve.Steps)
	fmt.Printf("  Contradictions: %d\n", total.Solve.Contradictions)
	fmt.Printf("  Backtracks:     %d\n", total.Solve.Backtracks)
	fmt.Printf("  Restarts:       %d\n", total.Solve.Restarts)
	fmt.Printf("  Degraded:       %d of %d chunks (%.1f%%)\n", total.Degraded, total.Chunks, report.DegradedRate()*100)

	hardest := report.Hardest(flagSurveyTop)
	if len(hardest) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Hardest seeds:")
	fmt.Printf("  %-10s  %-8s  %-10s  %-8s  %s\n", "Seed", "Degraded", "Backtracks", "Restarts", "Time")
	fmt.Printf("  %-10s  %-8s  %-10s  %-8s  %s\n", "----", "--------", "----------", "--------", "----")
	for _, s := range hardest {
		fmt.Printf("  %-10d  %-8d  %-10d  %-8d  %s\n", s.Seed, s.Degraded, s.Solve.Backtracks, s.Solve.Restarts, s.Elapsed.Round(100*time.Microsecond))
	}
}
