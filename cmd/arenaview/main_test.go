package main

import (
	"errors"
	"testing"

	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/catalog"
	"github.com/lawnchairsociety/wavecrawler/internal/config"
	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

func TestRegenerate(t *testing.T) {
	g, err := newEngine(config.DefaultConfig(), catalog.Default(), 5, 2)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	if err := g.orch.StartOrRegenerateWave(g.levels.Level()); err != nil {
		t.Fatal(err)
	}
	if err := g.regenerate(); err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if g.orch.Level() != 2 || g.orch.State() != wave.Populating {
		t.Errorf("level %d state %v after regenerate", g.orch.Level(), g.orch.State())
	}
}

func TestRegenerateReportsFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Arena.MinFloorTiles = 1_000_000
	cfg.Arena.MaxAttempts = 2
	g, err := newEngine(cfg, catalog.Default(), 5, 1)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	if err := g.regenerate(); !errors.Is(err, arena.ErrGenerationExhausted) {
		t.Errorf("regenerate = %v, want ErrGenerationExhausted", err)
	}
	if g.orch.State() != wave.Idle || g.orch.Err() == nil {
		t.Errorf("state %v err %v", g.orch.State(), g.orch.Err())
	}
}
