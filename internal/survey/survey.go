// Package survey generates many seeds in parallel and reports how hard the
// solver worked for each.
package survey

import (
	"context"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/minecart/internal/level"
	"github.com/vovakirdan/minecart/internal/wfc"
)

// Options selects the seeds and how far each is generated.
type Options struct {
	FirstSeed uint32
	Seeds     int
	Chunks    int // chunks per seed
	Workers   int // 0 means one per CPU
}

// SeedReport is the solver work for one seed.
type SeedReport struct {
	Seed       uint32
	Chunks     int
	Degraded   int
	Unresolved int // placeholder cells across all chunks
	Solve      wfc.Stats
	Elapsed    time.Duration
}

// Report is the outcome of a survey, seeds in ascending order.
type Report struct {
	Seeds   []SeedReport
	Elapsed time.Duration
}

// Run generates opts.Chunks chunks for each seed. Seeds are independent, so
// each gets its own Generator.
func Run(ctx context.Context, cfg level.Config, cat *wfc.Catalog, opts Options, logger *log.Logger) (Report, error) {
	if opts.Seeds <= 0 || opts.Chunks <= 0 {
		return Report{}, nil
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	reports := make([]SeedReport, opts.Seeds)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range reports {
		seed := opts.FirstSeed + uint32(i)
		g.Go(func() error {
			r, err := surveySeed(ctx, cfg, cat, seed, opts.Chunks, logger)
			if err != nil {
				return err
			}
			reports[i] = r
			if logger != nil {
				logger.Debug("seed surveyed", "seed", seed, "degraded", r.Degraded, "backtracks", r.Solve.Backtracks)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	return Report{Seeds: reports, Elapsed: time.Since(start)}, nil
}

func surveySeed(ctx context.Context, cfg level.Config, cat *wfc.Catalog, seed uint32, chunks int, logger *log.Logger) (SeedReport, error) {
	gen, err := level.NewGenerator(cfg, cat, seed, logger)
	if err != nil {
		return SeedReport{}, err
	}

	start := time.Now()
	r := SeedReport{Seed: seed}
	for range chunks {
		if err := ctx.Err(); err != nil {
			return SeedReport{}, err
		}
		c := gen.Next()
		r.Chunks++
		if c.Degraded {
			r.Degraded++
		}
		r.Unresolved += c.Unresolved
		r.Solve.Steps += c.Solve.Steps
		r.Solve.Contradictions += c.Solve.Contradictions
		r.Solve.Backtracks += c.Solve.Backtracks
		r.Solve.Restarts += c.Solve.Restarts
	}
	r.Elapsed = time.Since(start)
	return r, nil
}

// Total sums every seed into one report. Its Seed is zero.
func (r Report) Total() SeedReport {
	var t SeedReport
	for _, s := range r.Seeds {
		t.Chunks += s.Chunks
		t.Degraded += s.Degraded
		t.Unresolved += s.Unresolved
		t.Solve.Steps += s.Solve.Steps
		t.Solve.Contradictions += s.Solve.Contradictions
		t.Solve.Backtracks += s.Solve.Backtracks
		t.Solve.Restarts += s.Solve.Restarts
		t.Elapsed += s.Elapsed
	}
	return t
}

// Hardest returns up to n seeds ordered by degraded chunks, then by
// backtracks.
func (r Report) Hardest(n int) []SeedReport {
	sorted := slices.Clone(r.Seeds)
	slices.SortStableFunc(sorted, func(a, b SeedReport) int {
		if a.Degraded != b.Degraded {
			return b.Degraded - a.Degraded
		}
		return b.Solve.Backtracks - a.Solve.Backtracks
	})
	return sorted[:min(n, len(sorted))]
}

// DegradedRate is the share of generated chunks that needed placeholders.
func (r Report) DegradedRate() float64 {
	t := r.Total()
	if t.Chunks == 0 {
		return 0
	}
	return float64(t.Degraded) / float64(t.Chunks)
}
