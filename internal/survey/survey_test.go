package survey

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/minecart/internal/config"
	"github.com/vovakirdan/minecart/internal/level"
	"github.com/vovakirdan/minecart/internal/wfc"
)

func catalog(t *testing.T) *wfc.Catalog {
	t.Helper()
	cat, err := wfc.ParseRules(config.DefaultRulesYAML())
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func TestRunMatchesSequentialGeneration(t *testing.T) {
	cfg := level.DefaultConfig()
	cat := catalog(t)
	opts := Options{FirstSeed: 100, Seeds: 6, Chunks: 3, Workers: 3}

	report, err := Run(context.Background(), cfg, cat, opts, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.Seeds) != opts.Seeds {
		t.Fatalf("got %d seed reports", len(report.Seeds))
	}

	for i, r := range report.Seeds {
		if r.Seed != opts.FirstSeed+uint32(i) {
			t.Errorf("report %d is for seed %d", i, r.Seed)
		}
		if r.Chunks != opts.Chunks {
			t.Errorf("seed %d: %d chunks", r.Seed, r.Chunks)
		}

		gen, err := level.NewGenerator(cfg, cat, r.Seed, nil)
		if err != nil {
			t.Fatal(err)
		}
		var want wfc.Stats
		degraded := 0
		for range opts.Chunks {
			c := gen.Next()
			want.Steps += c.Solve.Steps
			want.Backtracks += c.Solve.Backtracks
			want.Restarts += c.Solve.Restarts
			want.Contradictions += c.Solve.Contradictions
			if c.Degraded {
				degraded++
			}
		}
		if r.Solve != want || r.Degraded != degraded {
			t.Errorf("seed %d: parallel %+v/%d, sequential %+v/%d", r.Seed, r.Solve, r.Degraded, want, degraded)
		}
	}

	total := report.Total()
	if total.Chunks != opts.Seeds*opts.Chunks {
		t.Errorf("Total().Chunks = %d", total.Chunks)
	}
	if rate := report.DegradedRate(); rate < 0 || rate > 1 {
		t.Errorf("DegradedRate() = %v", rate)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, level.DefaultConfig(), catalog(t), Options{Seeds: 4, Chunks: 2}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, expected context.Canceled", err)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := level.DefaultConfig()
	cfg.ChunkTiles = 0
	if _, err := Run(context.Background(), cfg, catalog(t), Options{Seeds: 2, Chunks: 1}, nil); err == nil {
		t.Error("Run() accepted an invalid config")
	}
}

func TestRunNothingToDo(t *testing.T) {
	report, err := Run(context.Background(), level.DefaultConfig(), catalog(t), Options{}, nil)
	if err != nil || len(report.Seeds) != 0 {
		t.Errorf("Run(empty) = %+v, %v", report, err)
	}
	if report.DegradedRate() != 0 {
		t.Error("empty report has a degraded rate")
	}
}

func TestHardest(t *testing.T) {
	r := Report{Seeds: []SeedReport{
		{Seed: 1, Degraded: 0, Solve: wfc.Stats{Backtracks: 9}},
		{Seed: 2, Degraded: 2},
		{Seed: 3, Degraded: 0, Solve: wfc.Stats{Backtracks: 1}},
		{Seed: 4, Degraded: 2, Solve: wfc.Stats{Backtracks: 5}},
	}}

	got := r.Hardest(3)
	want := []uint32{4, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("Hardest(3) returned %d seeds", len(got))
	}
	for i, s := range got {
		if s.Seed != want[i] {
			t.Errorf("Hardest(3)[%d] = seed %d, expected %d", i, s.Seed, want[i])
		}
	}
	if len(r.Hardest(10)) != 4 {
		t.Error("Hardest(10) should return every seed")
	}
	if r.Seeds[0].Seed != 1 {
		t.Error("Hardest reordered the report")
	}
}
