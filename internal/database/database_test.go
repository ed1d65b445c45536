package database

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/difficulty"
	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

var (
	_ difficulty.LevelStore = (*Run)(nil)
	_ wave.Inventory        = (*Run)(nil)
	_ wave.Journal          = (*Run)(nil)
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "wavecrawler.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesDirectoryAndSchema(t *testing.T) {
	db := openTestDB(t)
	for _, table := range []string{"progress", "inventory", "wave_history"} {
		var name string
		err := db.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		db, err := Open(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		db.Close()
	}
}

func TestMigrationAddsDroppedColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	old, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = old.Exec(`CREATE TABLE wave_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		level INTEGER NOT NULL,
		boss INTEGER NOT NULL DEFAULT 0,
		attempts INTEGER NOT NULL DEFAULT 0,
		floor_tiles INTEGER NOT NULL DEFAULT 0,
		hostiles_planned INTEGER NOT NULL DEFAULT 0,
		hostiles_placed INTEGER NOT NULL DEFAULT 0,
		collectibles_planned INTEGER NOT NULL DEFAULT 0,
		collectibles_placed INTEGER NOT NULL DEFAULT 0,
		claimed INTEGER NOT NULL DEFAULT 0,
		auto_collected INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		recorded_at TIMESTAMP
	)`)
	old.Close()
	if err != nil {
		t.Fatal(err)
	}

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	run := db.Run("legacy")
	if err := run.RecordWave(wave.Summary{Level: 1, Stats: wave.Stats{CollectiblesDropped: 4}}); err != nil {
		t.Fatalf("RecordWave: %v", err)
	}
	hist, err := run.History(0)
	if err != nil || len(hist) != 1 || hist[0].Stats.CollectiblesDropped != 4 {
		t.Errorf("history = %+v, %v", hist, err)
	}
}

func TestLevelRoundTrip(t *testing.T) {
	run := openTestDB(t).Run("alpha")

	level, err := run.LoadLevel()
	if err != nil || level != 0 {
		t.Fatalf("LoadLevel on new run = %d, %v", level, err)
	}
	for _, l := range []int{2, 7} {
		if err := run.SaveLevel(l); err != nil {
			t.Fatalf("SaveLevel(%d): %v", l, err)
		}
	}
	if level, _ := run.LoadLevel(); level != 7 {
		t.Errorf("LoadLevel = %d, want 7", level)
	}
}

func TestProgressResumesFromDatabase(t *testing.T) {
	db := openTestDB(t)
	scaler := difficulty.NewScaler(difficulty.DefaultConfig())

	p, err := difficulty.NewProgress(scaler, db.Run("beta"))
	if err != nil {
		t.Fatal(err)
	}
	p.Advance()
	p.Advance()

	resumed, err := difficulty.NewProgress(scaler, db.Run("beta"))
	if err != nil {
		t.Fatal(err)
	}
	if resumed.Level() != 3 {
		t.Errorf("resumed level = %d, want 3", resumed.Level())
	}
}

func TestInventoryAccumulates(t *testing.T) {
	db := openTestDB(t)
	run := db.Run("gamma")

	for _, add := range []struct {
		id  string
		qty int
	}{{"heal_potion", 1}, {"range_potion", 2}, {"heal_potion", 3}} {
		if err := run.AddItem(add.id, add.qty); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	if err := run.AddItem("heal_potion", 0); err == nil {
		t.Error("zero quantity accepted")
	}

	items, err := run.Inventory()
	if err != nil {
		t.Fatal(err)
	}
	if items["heal_potion"] != 4 || items["range_potion"] != 2 {
		t.Errorf("inventory = %v", items)
	}

	other, _ := db.Run("delta").Inventory()
	if len(other) != 0 {
		t.Errorf("inventory leaked across runs: %v", other)
	}
}

func TestWaveHistory(t *testing.T) {
	run := openTestDB(t).Run("epsilon")
	for level := 1; level <= 3; level++ {
		err := run.RecordWave(wave.Summary{
			Level:         level,
			Boss:          level == 3,
			Attempts:      level,
			FloorTiles:    100 + level,
			Stats:         wave.Stats{HostilesPlanned: 5, HostilesPlaced: 4, CollectiblesPlanned: 3, CollectiblesPlaced: 3, CollectiblesDropped: 2},
			Claimed:       1,
			AutoCollected: 2,
			Duration:      1500 * time.Millisecond,
		})
		if err != nil {
			t.Fatalf("RecordWave: %v", err)
		}
	}

	hist, err := run.History(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 {
		t.Fatalf("history rows = %d, want 2", len(hist))
	}
	latest := hist[0]
	if latest.Level != 3 || !latest.Boss || latest.FloorTiles != 103 {
		t.Errorf("latest = %+v", latest)
	}
	if latest.Stats.HostilesPlaced != 4 || latest.Stats.CollectiblesDropped != 2 ||
		latest.AutoCollected != 2 || latest.Duration != 1500*time.Millisecond {
		t.Errorf("latest details = %+v", latest)
	}
	if hist[1].ID >= latest.ID {
		t.Error("history not ordered newest first")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"sqlite", DefaultConfig("x.db"), true},
		{"sqlite without path", Config{Driver: "sqlite"}, false},
		{"postgres", Config{Driver: "postgres", Postgres: PostgresConfig{Host: "h", Database: "d"}}, true},
		{"postgres without db", Config{Driver: "postgres", Postgres: PostgresConfig{Host: "h"}}, false},
		{"unknown", Config{Driver: "mysql"}, false},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); (err == nil) != tt.ok {
			t.Errorf("%s: Validate() = %v", tt.name, err)
		}
	}
}

func TestPostgresDSN(t *testing.T) {
	p := DefaultPostgresConfig()
	p.User, p.Password, p.Database = "crawler", "secret", "waves"
	want := "host=localhost port=5432 user=crawler password=secret dbname=waves sslmode=disable"
	if got := p.DSN(); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
