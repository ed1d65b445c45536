package database

import (
	"testing"
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

func seedRun(t *testing.T, db *Database, id string, level int, waves int) {
	t.Helper()
	run := db.Run(id)
	if err := run.SaveLevel(level); err != nil {
		t.Fatal(err)
	}
	if err := run.AddItem("heal_potion", level); err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= waves; i++ {
		if err := run.RecordWave(wave.Summary{Level: i, FloorTiles: 100 + i, Duration: time.Second}); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRunIDs(t *testing.T) {
	db := openTestDB(t)
	seedRun(t, db, "beta", 2, 1)
	seedRun(t, db, "alpha", 3, 0)
	db.Run("gamma").AddItem("range_potion", 1)

	ids, err := db.RunIDs()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 || ids[0] != "alpha" || ids[1] != "beta" || ids[2] != "gamma" {
		t.Errorf("RunIDs = %v", ids)
	}
}

func TestCopyRuns(t *testing.T) {
	src, dst := openTestDB(t), openTestDB(t)
	seedRun(t, src, "alpha", 4, 3)
	seedRun(t, src, "beta", 2, 1)

	dry, err := CopyRuns(src, dst, true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if dry.Runs != 2 || dry.Progress != 2 || dry.Items != 2 || dry.Waves != 4 {
		t.Errorf("dry run stats = %+v", dry)
	}
	if ids, _ := dst.RunIDs(); len(ids) != 0 {
		t.Fatalf("dry run wrote runs %v", ids)
	}

	stats, err := CopyRuns(src, dst, false)
	if err != nil {
		t.Fatalf("CopyRuns: %v", err)
	}
	if stats != dry {
		t.Errorf("stats = %+v, want %+v", stats, dry)
	}

	alpha := dst.Run("alpha")
	if level, _ := alpha.LoadLevel(); level != 4 {
		t.Errorf("copied level = %d", level)
	}
	if items, _ := alpha.Inventory(); items["heal_potion"] != 4 {
		t.Errorf("copied inventory = %v", items)
	}
	hist, err := alpha.History(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 3 || hist[0].Level != 3 || hist[2].Level != 1 {
		t.Fatalf("copied history = %+v", hist)
	}
	orig, _ := src.Run("alpha").History(1)
	if orig[0].RecordedAt.IsZero() {
		t.Fatal("source history has no timestamp")
	}
	if d := hist[0].RecordedAt.Sub(orig[0].RecordedAt); d > time.Second || d < -time.Second {
		t.Errorf("recorded_at drifted by %v", d)
	}

	again, err := CopyRuns(src, dst, false)
	if err != nil {
		t.Fatal(err)
	}
	if again.Waves != 0 || again.SkipWaves != 4 {
		t.Errorf("second copy stats = %+v", again)
	}
	if items, _ := alpha.Inventory(); items["heal_potion"] != 4 {
		t.Errorf("second copy changed inventory: %v", items)
	}
	if hist, _ := alpha.History(0); len(hist) != 3 {
		t.Errorf("second copy duplicated history: %d rows", len(hist))
	}
}
