package database

import (
	"fmt"
	"os"
	"testing"

	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

// postgresTestConfig reads WAVECRAWLER_POSTGRES_{HOST,PORT,USER,PASSWORD,DATABASE}.
// The tests are skipped unless WAVECRAWLER_POSTGRES_HOST is set.
func postgresTestConfig(t *testing.T) Config {
	t.Helper()
	host := os.Getenv("WAVECRAWLER_POSTGRES_HOST")
	if host == "" {
		t.Skip("WAVECRAWLER_POSTGRES_HOST not set")
	}
	p := DefaultPostgresConfig()
	p.Host = host
	p.User = envOr("WAVECRAWLER_POSTGRES_USER", "wavecrawler")
	p.Password = envOr("WAVECRAWLER_POSTGRES_PASSWORD", "wavecrawler")
	p.Database = envOr("WAVECRAWLER_POSTGRES_DATABASE", "wavecrawler_test")
	if port := os.Getenv("WAVECRAWLER_POSTGRES_PORT"); port != "" {
		var n int
		if _, err := fmt.Sscan(port, &n); err == nil {
			p.Port = n
		}
	}
	return Config{Driver: string(DialectPostgres), Postgres: p}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func TestPostgresRun(t *testing.T) {
	db, err := OpenWithConfig(postgresTestConfig(t))
	if err != nil {
		t.Fatalf("OpenWithConfig: %v", err)
	}
	defer db.Close()

	run := db.Run(t.Name())
	db.db.Exec(db.qb.Build(`DELETE FROM progress WHERE run_id = ?`), run.ID())
	db.db.Exec(db.qb.Build(`DELETE FROM inventory WHERE run_id = ?`), run.ID())
	db.db.Exec(db.qb.Build(`DELETE FROM wave_history WHERE run_id = ?`), run.ID())

	if err := run.SaveLevel(4); err != nil {
		t.Fatal(err)
	}
	if level, err := run.LoadLevel(); err != nil || level != 4 {
		t.Errorf("LoadLevel = %d, %v", level, err)
	}
	if err := run.AddItem("heal_potion", 2); err != nil {
		t.Fatal(err)
	}
	if err := run.AddItem("heal_potion", 1); err != nil {
		t.Fatal(err)
	}
	if items, _ := run.Inventory(); items["heal_potion"] != 3 {
		t.Errorf("inventory = %v", items)
	}
	if err := run.RecordWave(wave.Summary{Level: 4, Boss: false}); err != nil {
		t.Fatal(err)
	}
	if hist, err := run.History(5); err != nil || len(hist) != 1 {
		t.Errorf("history = %v, %v", hist, err)
	}
}
