package database

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

// Run scopes persistence to one play-through. It satisfies the level store,
// inventory and journal the wave engine needs.
type Run struct {
	db *Database
	id string
}

// Run returns the handle for runID.
func (d *Database) Run(runID string) *Run {
	return &Run{db: d, id: runID}
}

// ID returns the run identifier.
func (r *Run) ID() string {
	return r.id
}

// LoadLevel returns the saved level, or 0 when the run has none.
func (r *Run) LoadLevel() (int, error) {
	var level int
	err := r.db.db.QueryRow(
		r.db.qb.Build(`SELECT level FROM progress WHERE run_id = ?`), r.id,
	).Scan(&level)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load level: %w", err)
	}
	return level, nil
}

// SaveLevel stores level for the run.
func (r *Run) SaveLevel(level int) error {
	_, err := r.db.db.Exec(r.db.qb.Build(`
		INSERT INTO progress (run_id, level, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (run_id) DO UPDATE SET level = excluded.level, updated_at = excluded.updated_at`),
		r.id, level, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save level: %w", err)
	}
	return nil
}

// AddItem adds quantity of itemID to the run's inventory.
func (r *Run) AddItem(itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("invalid quantity %d for %s", quantity, itemID)
	}
	_, err := r.db.db.Exec(r.db.qb.Build(`
		INSERT INTO inventory (run_id, item_id, quantity) VALUES (?, ?, ?)
		ON CONFLICT (run_id, item_id) DO UPDATE SET quantity = inventory.quantity + excluded.quantity`),
		r.id, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	return nil
}

// Inventory returns item quantities for the run.
func (r *Run) Inventory() (map[string]int, error) {
	rows, err := r.db.db.Query(
		r.db.qb.Build(`SELECT item_id, quantity FROM inventory WHERE run_id = ? ORDER BY item_id`), r.id)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	items := make(map[string]int)
	for rows.Next() {
		var id string
		var qty int
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}
		items[id] = qty
	}
	return items, rows.Err()
}

// RecordWave appends a finished wave to the run's history.
func (r *Run) RecordWave(s wave.Summary) error {
	return r.recordWave(s, time.Now().UTC())
}

func (r *Run) recordWave(s wave.Summary, at time.Time) error {
	boss := 0
	if s.Boss {
		boss = 1
	}
	_, err := r.db.insertReturningID(`
		INSERT INTO wave_history (run_id, level, boss, attempts, floor_tiles,
			hostiles_planned, hostiles_placed, collectibles_planned, collectibles_placed,
			collectibles_dropped, claimed, auto_collected, duration_ms, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.id, s.Level, boss, s.Attempts, s.FloorTiles,
		s.Stats.HostilesPlanned, s.Stats.HostilesPlaced,
		s.Stats.CollectiblesPlanned, s.Stats.CollectiblesPlaced,
		s.Stats.CollectiblesDropped, s.Claimed, s.AutoCollected, s.Duration.Milliseconds(), at)
	if err != nil {
		return fmt.Errorf("failed to record wave: %w", err)
	}
	return nil
}

// setQuantity overwrites the stored quantity of itemID.
func (r *Run) setQuantity(itemID string, quantity int) error {
	_, err := r.db.db.Exec(r.db.qb.Build(`
		INSERT INTO inventory (run_id, item_id, quantity) VALUES (?, ?, ?)
		ON CONFLICT (run_id, item_id) DO UPDATE SET quantity = excluded.quantity`),
		r.id, itemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to set item quantity: %w", err)
	}
	return nil
}

// WaveRecord is one row of wave history.
type WaveRecord struct {
	ID         int64
	RecordedAt time.Time
	wave.Summary
}

// History returns up to limit recorded waves, newest first. A limit of 0 or
// less returns them all.
func (r *Run) History(limit int) ([]WaveRecord, error) {
	if limit <= 0 {
		limit = math.MaxInt32
	}
	rows, err := r.db.db.Query(r.db.qb.Build(`
		SELECT id, level, boss, attempts, floor_tiles,
			hostiles_planned, hostiles_placed, collectibles_planned, collectibles_placed,
			collectibles_dropped, claimed, auto_collected, duration_ms, recorded_at
		FROM wave_history WHERE run_id = ? ORDER BY id DESC LIMIT ?`), r.id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query wave history: %w", err)
	}
	defer rows.Close()

	var out []WaveRecord
	for rows.Next() {
		var rec WaveRecord
		var boss int
		var durationMS int64
		var recordedAt sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Level, &boss, &rec.Attempts, &rec.FloorTiles,
			&rec.Stats.HostilesPlanned, &rec.Stats.HostilesPlaced,
			&rec.Stats.CollectiblesPlanned, &rec.Stats.CollectiblesPlaced,
			&rec.Stats.CollectiblesDropped, &rec.Claimed, &rec.AutoCollected, &durationMS, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wave history: %w", err)
		}
		rec.Boss = boss != 0
		rec.RecordedAt = parseTime(recordedAt)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, rec)
	}
	return out, rows.Err()
}

var timeFormats = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
}

// parseTime reads a timestamp column. Drivers hand these back either as
// time.Time, which database/sql renders as RFC 3339, or as stored text.
func parseTime(ns sql.NullString) time.Time {
	if !ns.Valid || ns.String == "" {
		return time.Time{}
	}
	for _, f := range timeFormats {
		if t, err := time.Parse(f, ns.String); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
