package database

import (
	"fmt"

	"github.com/lawnchairsociety/wavecrawler/internal/logger"
)

// TransferStats counts rows copied by CopyRuns.
type TransferStats struct {
	Runs      int
	Progress  int
	Items     int
	Waves     int
	SkipWaves int
}

// RunIDs lists every run with stored progress, items or history.
func (d *Database) RunIDs() ([]string, error) {
	rows, err := d.db.Query(`
		SELECT run_id FROM progress
		UNION SELECT run_id FROM inventory
		UNION SELECT run_id FROM wave_history
		ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CopyRuns copies every run from src into dst. Progress and item
// quantities overwrite dst; history is only copied for runs that have none
// in dst, so repeating a copy does not duplicate waves. With dryRun nothing
// is written and the stats report what would be copied.
func CopyRuns(src, dst *Database, dryRun bool) (TransferStats, error) {
	var stats TransferStats
	ids, err := src.RunIDs()
	if err != nil {
		return stats, err
	}

	for _, id := range ids {
		from, to := src.Run(id), dst.Run(id)
		stats.Runs++

		level, err := from.LoadLevel()
		if err != nil {
			return stats, fmt.Errorf("run %s: %w", id, err)
		}
		if level > 0 {
			if !dryRun {
				if err := to.SaveLevel(level); err != nil {
					return stats, fmt.Errorf("run %s: %w", id, err)
				}
			}
			stats.Progress++
		}

		items, err := from.Inventory()
		if err != nil {
			return stats, fmt.Errorf("run %s: %w", id, err)
		}
		for itemID, qty := range items {
			if !dryRun {
				if err := to.setQuantity(itemID, qty); err != nil {
					return stats, fmt.Errorf("run %s: %w", id, err)
				}
			}
			stats.Items++
		}

		history, err := from.History(0)
		if err != nil {
			return stats, fmt.Errorf("run %s: %w", id, err)
		}
		existing, err := to.History(1)
		if err != nil {
			return stats, fmt.Errorf("run %s: %w", id, err)
		}
		if len(existing) > 0 {
			stats.SkipWaves += len(history)
			logger.Info("Run already has history, skipping waves", "run", id, "waves", len(history))
			continue
		}
		// History is newest first; replay oldest first to keep id order.
		for i := len(history) - 1; i >= 0; i-- {
			rec := history[i]
			if !dryRun {
				if err := to.recordWave(rec.Summary, rec.RecordedAt); err != nil {
					return stats, fmt.Errorf("run %s: %w", id, err)
				}
			}
			stats.Waves++
		}
		logger.Debug("Run copied", "run", id, "level", level, "items", len(items), "waves", len(history))
	}
	return stats, nil
}
