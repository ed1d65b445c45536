package main

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/difficulty"
)

// ArenaGenerator generates arenas for a level range and writes them to YAML
type ArenaGenerator struct {
	Seed      int64
	OutputDir string

	scaler *difficulty.Scaler
	gen    *arena.Generator
}

// NewArenaGenerator creates a generator using the given difficulty and arena settings
func NewArenaGenerator(seed int64, outputDir string, dcfg difficulty.Config, acfg arena.Config) (*ArenaGenerator, error) {
	gen, err := arena.NewGenerator(acfg)
	if err != nil {
		return nil, err
	}
	return &ArenaGenerator{
		Seed:      seed,
		OutputDir: outputDir,
		scaler:    difficulty.NewScaler(dcfg),
		gen:       gen,
	}, nil
}

// GenerateLevel generates the arena for one level and writes it to
// arena_<level>.yaml. Each level has its own seed so a single level can be
// regenerated on its own.
func (g *ArenaGenerator) GenerateLevel(level int) (*arena.Arena, error) {
	params := g.scaler.Compute(level)
	seed := g.Seed + int64(level)

	a, err := g.gen.Generate(level, params.WalkSteps, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	path := filepath.Join(g.OutputDir, fmt.Sprintf("arena_%03d.yaml", level))
	if err := arena.SaveArena(a, seed, path); err != nil {
		return nil, fmt.Errorf("failed to write YAML: %w", err)
	}
	return a, nil
}
