package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/tile"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Difficulty.BaseEnemyCount != 5 || cfg.Arena.MinFloorTiles != 100 {
		t.Errorf("unexpected defaults: %+v %+v", cfg.Difficulty, cfg.Arena)
	}
	if cfg.Wave.PollInterval != 300*time.Millisecond {
		t.Errorf("poll interval = %v", cfg.Wave.PollInterval)
	}
	if len(cfg.Notifier.WebSocket.AllowedOrigins) != 0 {
		t.Error("expected same-origin policy by default")
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil || cfg.Run.ID != "default" {
		t.Fatal("expected default config for missing file")
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	content := `
run:
  id: speedrun
  seed: 1234
difficulty:
  boss_levels: [3, 6]
arena:
  start: {x: 2, y: -1}
  min_floor_tiles: 60
wave:
  cleared_message_delay: 1500ms
  portal_min_distance: 7
notifier:
  enabled: true
  websocket:
    allowed_origins:
      - "https://example.com"
database:
  driver: sqlite
  sqlite_path: /tmp/runs.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Run.ID != "speedrun" || cfg.Run.Seed != 1234 {
		t.Errorf("run = %+v", cfg.Run)
	}
	if len(cfg.Difficulty.BossLevels) != 2 || cfg.Difficulty.BaseWalkSteps != 150 {
		t.Errorf("difficulty = %+v", cfg.Difficulty)
	}
	if cfg.Arena.Start != (tile.Coord{X: 2, Y: -1}) || cfg.Arena.MinFloorTiles != 60 || cfg.Arena.MaxAttempts != 100 {
		t.Errorf("arena = %+v", cfg.Arena)
	}
	if cfg.Wave.ClearedMessageDelay != 1500*time.Millisecond || cfg.Wave.PortalMinDistance != 7 {
		t.Errorf("wave = %+v", cfg.Wave)
	}
	if cfg.Wave.PollInterval != 300*time.Millisecond {
		t.Error("unset wave fields should keep defaults")
	}
	if !cfg.Notifier.Enabled || cfg.Notifier.Address == "" {
		t.Errorf("notifier = %+v", cfg.Notifier)
	}
	if cfg.Database.SQLitePath != "/tmp/runs.db" {
		t.Errorf("database = %+v", cfg.Database)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"syntax":        "run: [",
		"bad poll":      "wave:\n  poll_interval: 0s\n",
		"bad arena":     "arena:\n  max_attempts: 0\n",
		"bad driver":    "database:\n  driver: mysql\n",
		"negative base": "difficulty:\n  base_enemy_count: -2\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "game.yaml")
			os.WriteFile(path, []byte(content), 0644)
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Run.ID = ""
	cfg.Wave.PortalTypeID = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "run.id") || !strings.Contains(err.Error(), "portal_type_id") {
		t.Errorf("error should mention both problems: %v", err)
	}
}

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		host    string
		want    bool
	}{
		{"same origin", nil, "http://localhost:4480", "localhost:4480", true},
		{"same origin trailing slash", nil, "http://localhost:4480/", "localhost:4480", true},
		{"cross origin", nil, "http://evil.com", "localhost:4480", false},
		{"no origin header", nil, "", "localhost:4480", true},
		{"listed", []string{"https://example.com"}, "https://example.com", "localhost", true},
		{"not listed", []string{"https://example.com"}, "https://other.com", "localhost", false},
		{"wildcard", []string{"*"}, "https://anything.io", "localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := WebSocketConfig{AllowedOrigins: tt.allowed}
			if got := cfg.IsOriginAllowed(tt.origin, tt.host); got != tt.want {
				t.Errorf("IsOriginAllowed(%q, %q) = %v, want %v", tt.origin, tt.host, got, tt.want)
			}
		})
	}
}
