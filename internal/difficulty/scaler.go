// Package difficulty derives per-wave parameters from the wave level.
package difficulty

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
)

// Config holds the scaling constants. Every field has a documented default
// in DefaultConfig.
type Config struct {
	BaseEnemyCount        int     `yaml:"base_enemy_count"`
	EnemyIncreasePerLevel int     `yaml:"enemy_increase_per_level"`
	BossEnemyMultiplier   float64 `yaml:"boss_enemy_multiplier"`

	BaseCollectibleCount        int     `yaml:"base_collectible_count"`
	CollectibleIncreasePerLevel int     `yaml:"collectible_increase_per_level"`
	BossCollectibleMultiplier   float64 `yaml:"boss_collectible_multiplier"`

	BaseWalkSteps             int `yaml:"base_walk_steps"`
	WalkStepsIncreasePerLevel int `yaml:"walk_steps_increase_per_level"`
	BossArenaWalkSteps        int `yaml:"boss_arena_walk_steps"`

	// BossLevels is the authoritative set of boss waves.
	BossLevels []int `yaml:"boss_levels"`
}

// DefaultConfig returns the stock scaling curve: 5 enemies +2 per level,
// 3 collectibles +1 per level, 150 walk steps +20 per level, boss arenas
// of 250 steps with 1.5x counts on every fifth level up to 50.
func DefaultConfig() Config {
	return Config{
		BaseEnemyCount:              5,
		EnemyIncreasePerLevel:       2,
		BossEnemyMultiplier:         1.5,
		BaseCollectibleCount:        3,
		CollectibleIncreasePerLevel: 1,
		BossCollectibleMultiplier:   1.5,
		BaseWalkSteps:               150,
		WalkStepsIncreasePerLevel:   20,
		BossArenaWalkSteps:          250,
		BossLevels:                  []int{5, 10, 15, 20, 25, 30, 35, 40, 45, 50},
	}
}

// Validate rejects configurations that would produce negative counts.
func (c Config) Validate() error {
	switch {
	case c.BaseEnemyCount < 0 || c.EnemyIncreasePerLevel < 0:
		return fmt.Errorf("enemy counts must be non-negative")
	case c.BaseCollectibleCount < 0 || c.CollectibleIncreasePerLevel < 0:
		return fmt.Errorf("collectible counts must be non-negative")
	case c.BaseWalkSteps < 0 || c.WalkStepsIncreasePerLevel < 0 || c.BossArenaWalkSteps < 0:
		return fmt.Errorf("walk steps must be non-negative")
	case c.BossEnemyMultiplier < 0 || c.BossCollectibleMultiplier < 0:
		return fmt.Errorf("boss multipliers must be non-negative")
	}
	for _, l := range c.BossLevels {
		if l < 1 {
			return fmt.Errorf("boss level %d is below 1", l)
		}
	}
	return nil
}

// Params are the derived values for one wave.
type Params struct {
	Level            int  `json:"level"`
	IsBossWave       bool `json:"boss"`
	WalkSteps        int  `json:"walk_steps"`
	EnemyCount       int  `json:"enemy_count"`
	CollectibleCount int  `json:"collectible_count"`
}

// LogValue groups the params under one log attribute.
func (p Params) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("level", p.Level),
		slog.Bool("boss", p.IsBossWave),
		slog.Int("walk_steps", p.WalkSteps),
		slog.Int("enemies", p.EnemyCount),
		slog.Int("collectibles", p.CollectibleCount),
	)
}

// Scaler computes Params from a Config.
type Scaler struct {
	cfg    Config
	bosses []int
}

// NewScaler copies cfg; the boss list is sorted and deduplicated.
func NewScaler(cfg Config) *Scaler {
	bosses := append([]int(nil), cfg.BossLevels...)
	sort.Ints(bosses)
	out := bosses[:0]
	for i, l := range bosses {
		if i == 0 || l != bosses[i-1] {
			out = append(out, l)
		}
	}
	cfg.BossLevels = out
	return &Scaler{cfg: cfg, bosses: out}
}

// Config returns the scaler's configuration.
func (s *Scaler) Config() Config {
	return s.cfg
}

// IsBossWave reports whether level is in the configured boss set.
func (s *Scaler) IsBossWave(level int) bool {
	i := sort.SearchInts(s.bosses, level)
	return i < len(s.bosses) && s.bosses[i] == level
}

// Compute derives the wave parameters for level. Levels below 1 are treated
// as level 1.
func (s *Scaler) Compute(level int) Params {
	if level < 1 {
		level = 1
	}
	boss := s.IsBossWave(level)
	steps := level - 1

	p := Params{Level: level, IsBossWave: boss}
	if boss {
		p.WalkSteps = s.cfg.BossArenaWalkSteps
	} else {
		p.WalkSteps = s.cfg.BaseWalkSteps + s.cfg.WalkStepsIncreasePerLevel*steps
	}

	enemyMult, collectibleMult := 1.0, 1.0
	if boss {
		enemyMult = s.cfg.BossEnemyMultiplier
		collectibleMult = s.cfg.BossCollectibleMultiplier
	}
	p.EnemyCount = scaled(s.cfg.BaseEnemyCount, s.cfg.EnemyIncreasePerLevel, steps, enemyMult)
	p.CollectibleCount = scaled(s.cfg.BaseCollectibleCount, s.cfg.CollectibleIncreasePerLevel, steps, collectibleMult)
	return p
}

// scaled rounds half away from zero.
func scaled(base, inc, steps int, mult float64) int {
	return int(math.Round(mult * float64(base+inc*steps)))
}
