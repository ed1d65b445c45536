package arena

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/wavecrawler/internal/logger"
	"github.com/lawnchairsociety/wavecrawler/internal/tile"
)

// ErrGenerationExhausted is returned when no attempt reached the minimum floor size.
var ErrGenerationExhausted = errors.New("arena generation exhausted")

// Config controls arena carving.
type Config struct {
	Start         tile.Coord `yaml:"start"`
	StampRadius   int        `yaml:"stamp_radius"`
	MinFloorTiles int        `yaml:"min_floor_tiles"`
	MaxAttempts   int        `yaml:"max_attempts"`
}

// DefaultConfig carves from (0,0) with a 3x3 stamp and requires at least 100
// floor tiles within 100 attempts.
func DefaultConfig() Config {
	return Config{
		Start:         tile.Coord{},
		StampRadius:   1,
		MinFloorTiles: 100,
		MaxAttempts:   100,
	}
}

// Validate checks the generation bounds.
func (c Config) Validate() error {
	if c.StampRadius < 0 {
		return fmt.Errorf("stamp_radius must be non-negative, got %d", c.StampRadius)
	}
	if c.MinFloorTiles < 1 {
		return fmt.Errorf("min_floor_tiles must be at least 1, got %d", c.MinFloorTiles)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	return nil
}

// Arena is one generated wave layout.
type Arena struct {
	Level    int
	Start    tile.Coord
	Floor    tile.Set
	Walls    tile.Set
	Attempts int
}

// Clone returns a deep copy.
func (a *Arena) Clone() *Arena {
	return &Arena{
		Level:    a.Level,
		Start:    a.Start,
		Floor:    a.Floor.Clone(),
		Walls:    a.Walls.Clone(),
		Attempts: a.Attempts,
	}
}

// Generator wraps GenerateFloor in the minimum-size retry loop.
type Generator struct {
	cfg Config
}

// NewGenerator validates cfg.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate carves floors until one has at least MinFloorTiles tiles. Each
// attempt starts from nothing; walls are derived once for the accepted floor.
func (g *Generator) Generate(level, steps int, rng *rand.Rand) (*Arena, error) {
	best := 0
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		floor := GenerateFloor(g.cfg.Start, steps, g.cfg.StampRadius, rng)
		if floor.Len() >= g.cfg.MinFloorTiles {
			logger.Debug("arena carved",
				"level", level,
				"attempts", attempt,
				"floor_tiles", floor.Len())
			return &Arena{
				Level:    level,
				Start:    g.cfg.Start,
				Floor:    floor,
				Walls:    DeriveWalls(floor),
				Attempts: attempt,
			}, nil
		}
		if floor.Len() > best {
			best = floor.Len()
		}
	}
	return nil, fmt.Errorf("level %d: failed after %d attempts (best %d tiles, need %d): %w",
		level, g.cfg.MaxAttempts, best, g.cfg.MinFloorTiles, ErrGenerationExhausted)
}
