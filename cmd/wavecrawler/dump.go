package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/logger"
	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

// arenaDumper saves each painted arena before passing it on.
type arenaDumper struct {
	next wave.Terrain
	dir  string
	seed int64
	n    int
}

func (d *arenaDumper) PaintArena(a *arena.Arena) {
	d.n++
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		logger.Error("Failed to create dump directory", "dir", d.dir, "error", err)
	} else {
		path := filepath.Join(d.dir, fmt.Sprintf("wave_%04d_level_%03d.yaml", d.n, a.Level))
		if err := arena.SaveArena(a, d.seed, path); err != nil {
			logger.Error("Failed to dump arena", "path", path, "error", err)
		} else {
			logger.Debug("Arena dumped", "path", path)
		}
	}
	d.next.PaintArena(a)
}
