// Package view draws arenas to a terminal or to plain text.
package view

import (
	"fmt"
	"strings"

	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/notify"
	"github.com/lawnchairsociety/wavecrawler/internal/tile"
	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

const (
	GlyphFloor       = '.'
	GlyphWall        = '#'
	GlyphPlayer      = '@'
	GlyphHostile     = 'e'
	GlyphBoss        = 'B'
	GlyphCollectible = '*'
	GlyphPortal      = 'O'
)

// Frame is one picture of an arena: the terrain, entity glyphs keyed by
// tile, the tile to keep in view, and a status line.
type Frame struct {
	Arena  *arena.Arena
	Marks  map[tile.Coord]rune
	Focus  tile.Coord
	Status string
}

// SnapshotFrame builds a frame from an orchestrator snapshot. alive filters
// hostiles the host has already removed; nil shows them all.
func SnapshotFrame(s wave.Snapshot, player tile.Coord, alive func(wave.Handle) bool) Frame {
	marks := make(map[tile.Coord]rune)
	for _, c := range s.Collectibles {
		marks[c.Tile] = GlyphCollectible
	}
	live := 0
	for _, h := range s.Hostiles {
		if alive != nil && !alive(h.Handle) {
			continue
		}
		live++
		if h.Boss {
			marks[h.Tile] = GlyphBoss
		} else {
			marks[h.Tile] = GlyphHostile
		}
	}
	if s.Portal != nil {
		marks[s.Portal.Tile] = GlyphPortal
	}
	marks[player] = GlyphPlayer

	status := fmt.Sprintf("%s | %s | %s | items %d",
		notify.WaveText(s.Params.Level, s.Params.IsBossWave), s.State, notify.HostilesText(live), len(s.Collectibles))
	if s.Err != nil {
		status += " | error: " + s.Err.Error()
	}
	return Frame{Arena: s.Arena, Marks: marks, Focus: player, Status: status}
}

// Glyph returns what to draw at c.
func (f Frame) Glyph(c tile.Coord) rune {
	if r, ok := f.Marks[c]; ok {
		return r
	}
	if f.Arena == nil {
		return ' '
	}
	if f.Arena.Floor.Has(c) {
		return GlyphFloor
	}
	if f.Arena.Walls.Has(c) {
		return GlyphWall
	}
	return ' '
}

// RenderASCII renders the arena's bounding box as text, one row per line.
func RenderASCII(a *arena.Arena, marks map[tile.Coord]rune) string {
	if a == nil {
		return ""
	}
	min, max, ok := a.Walls.Bounds()
	if !ok {
		if min, max, ok = a.Floor.Bounds(); !ok {
			return ""
		}
	}
	f := Frame{Arena: a, Marks: marks}

	var sb strings.Builder
	for y := min.Y; y <= max.Y; y++ {
		var row strings.Builder
		for x := min.X; x <= max.X; x++ {
			row.WriteRune(f.Glyph(tile.Coord{X: x, Y: y}))
		}
		sb.WriteString(strings.TrimRight(row.String(), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
