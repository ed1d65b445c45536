package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/tile"
)

func TestUnreachableTiles(t *testing.T) {
	floor := tile.NewSet(tile.Coord{X: 0}, tile.Coord{X: 1}, tile.Coord{X: 3})
	a := &arena.Arena{Floor: floor, Walls: arena.DeriveWalls(floor)}
	got := unreachableTiles(a)
	if len(got) != 1 || got[0] != (tile.Coord{X: 3}) {
		t.Errorf("unreachable = %v", got)
	}
}

func TestRenderArena(t *testing.T) {
	floor := tile.NewSet(tile.Coord{X: 0}, tile.Coord{X: 1})
	a := &arena.Arena{Level: 2, Floor: floor, Walls: arena.DeriveWalls(floor), Attempts: 1}
	path := filepath.Join(t.TempDir(), "arena_002.yaml")
	if err := arena.SaveArena(a, 9, path); err != nil {
		t.Fatal(err)
	}
	files, err := arenaFiles(filepath.Dir(path))
	if err != nil || len(files) != 1 {
		t.Fatalf("arenaFiles = %v, %v", files, err)
	}
	loaded, seed, err := arena.LoadArena(files[0])
	if err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	renderArena(&out, loadedArena{path: files[0], arena: loaded, seed: seed})
	for _, want := range []string{"Level 2", "seed 9", "2 floor tiles", "All floor tiles reachable", "#@.#"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
