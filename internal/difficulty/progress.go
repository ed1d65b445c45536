package difficulty

import (
	"fmt"

	"github.com/lawnchairsociety/wavecrawler/internal/logger"
)

// LevelStore persists the current wave level between runs.
type LevelStore interface {
	LoadLevel() (int, error)
	SaveLevel(level int) error
}

// Progress is the difficulty counter: the level the next wave is generated at.
type Progress struct {
	level  int
	scaler *Scaler
	store  LevelStore
}

// NewProgress starts at level 1, or at the stored level when store has one.
// store may be nil.
func NewProgress(scaler *Scaler, store LevelStore) (*Progress, error) {
	p := &Progress{level: 1, scaler: scaler, store: store}
	if store != nil {
		level, err := store.LoadLevel()
		if err != nil {
			return nil, fmt.Errorf("load level: %w", err)
		}
		if level > 1 {
			p.level = level
		}
	}
	return p, nil
}

// Level returns the current level.
func (p *Progress) Level() int {
	return p.level
}

// Advance moves to the next level and returns it. A failing store is logged;
// the in-memory counter still advances.
func (p *Progress) Advance() int {
	p.level++
	p.persist()
	if p.scaler != nil {
		logger.Info("difficulty advanced", "next", p.scaler.Compute(p.level))
	}
	return p.level
}

// Set jumps to level, clamped to at least 1.
func (p *Progress) Set(level int) {
	if level < 1 {
		level = 1
	}
	p.level = level
	p.persist()
}

// Reset returns to level 1.
func (p *Progress) Reset() {
	p.level = 1
	p.persist()
}

func (p *Progress) persist() {
	if p.store == nil {
		return
	}
	if err := p.store.SaveLevel(p.level); err != nil {
		logger.Error("failed to persist level", "level", p.level, "error", err)
	}
}
