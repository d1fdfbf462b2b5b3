package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "runs.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestSaveAndTopRuns(t *testing.T) {
	store := openTemp(t)

	runs := []Run{
		{Player: "local", Seed: 7, Distance: 120, Chunks: 20, Duration: 90 * time.Second},
		{Player: "ana", Seed: 4000000000, Distance: 300, Chunks: 45, Degraded: 1},
		{Player: "local", Seed: 7, Distance: 80, Chunks: 15},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("TopRuns() returned %d runs, expected 3", len(top))
	}

	wantDistance := []int{300, 120, 80}
	for i, w := range wantDistance {
		if top[i].Distance != w {
			t.Errorf("top[%d].Distance = %d, expected %d", i, top[i].Distance, w)
		}
	}
	if top[0].Seed != 4000000000 {
		t.Errorf("seed above MaxInt32 came back as %d", top[0].Seed)
	}
	if top[0].Degraded != 1 || top[0].Player != "ana" {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[1].Duration != 90*time.Second {
		t.Errorf("Duration = %v, expected 1m30s", top[1].Duration)
	}
	if top[1].CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}

	limited, err := store.TopRuns(1)
	if err != nil || len(limited) != 1 {
		t.Errorf("TopRuns(1) = %d runs, %v", len(limited), err)
	}
}

func TestRunsForSeed(t *testing.T) {
	store := openTemp(t)
	for _, d := range []int{10, 30, 20} {
		if _, err := store.SaveRun(Run{Seed: 5, Distance: d}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.SaveRun(Run{Seed: 6, Distance: 99}); err != nil {
		t.Fatal(err)
	}

	runs, err := store.RunsForSeed(5)
	if err != nil {
		t.Fatalf("RunsForSeed() failed: %v", err)
	}
	if len(runs) != 3 || runs[0].Distance != 30 || runs[2].Distance != 10 {
		t.Errorf("RunsForSeed(5) = %+v", runs)
	}
}

func TestBestDistanceAndClear(t *testing.T) {
	store := openTemp(t)

	best, err := store.BestDistance()
	if err != nil || best != 0 {
		t.Fatalf("BestDistance() on empty store = %d, %v", best, err)
	}

	for _, d := range []int{40, 400, 4} {
		if _, err := store.SaveRun(Run{Seed: 1, Distance: d}); err != nil {
			t.Fatal(err)
		}
	}
	if best, _ := store.BestDistance(); best != 400 {
		t.Errorf("BestDistance() = %d, expected 400", best)
	}

	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	if runs, _ := store.TopRuns(10); len(runs) != 0 {
		t.Errorf("runs left after ClearRuns(): %d", len(runs))
	}
}

func TestStorePersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveRun(Run{Seed: 9, Distance: 77}); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if best, _ := store.BestDistance(); best != 77 {
		t.Errorf("BestDistance() after reopen = %d, expected 77", best)
	}
}
