package view

import (
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/difficulty"
	"github.com/lawnchairsociety/wavecrawler/internal/tile"
	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

func corridor(length int) *arena.Arena {
	floor := tile.NewSet()
	for x := 0; x < length; x++ {
		floor.Add(tile.Coord{X: x, Y: 0})
	}
	return &arena.Arena{Level: 1, Floor: floor, Walls: arena.DeriveWalls(floor)}
}

func TestRenderASCII(t *testing.T) {
	a := corridor(2)
	got := RenderASCII(a, map[tile.Coord]rune{{X: 0, Y: 0}: GlyphPlayer})
	want := "####\n#@.#\n####\n"
	if got != want {
		t.Errorf("RenderASCII =\n%s\nwant\n%s", got, want)
	}
	if RenderASCII(nil, nil) != "" {
		t.Error("nil arena should render empty")
	}
	if RenderASCII(&arena.Arena{Floor: tile.NewSet(), Walls: tile.NewSet()}, nil) != "" {
		t.Error("empty arena should render empty")
	}
}

func TestSnapshotFrame(t *testing.T) {
	snap := wave.Snapshot{
		State:  wave.Active,
		Params: difficulty.Params{Level: 5, IsBossWave: true},
		Arena:  corridor(6),
		Hostiles: []wave.Placed{
			{Handle: 1, TypeID: "warden", Tile: tile.Coord{X: 5}, Boss: true},
			{Handle: 2, TypeID: "grunt", Tile: tile.Coord{X: 4}},
			{Handle: 3, TypeID: "grunt", Tile: tile.Coord{X: 3}},
		},
		Collectibles: []wave.Placed{{Handle: 4, TypeID: "heal_potion", Tile: tile.Coord{X: 2}}},
		Portal:       &wave.Placed{Handle: 5, TypeID: "portal", Tile: tile.Coord{X: 1}},
	}
	alive := func(h wave.Handle) bool { return h != 3 }
	f := SnapshotFrame(snap, tile.Coord{}, alive)

	want := map[tile.Coord]rune{
		{X: 0}: GlyphPlayer,
		{X: 1}: GlyphPortal,
		{X: 2}: GlyphCollectible,
		{X: 3}: GlyphFloor,
		{X: 4}: GlyphHostile,
		{X: 5}: GlyphBoss,
		{X: 6}: GlyphWall,
		{X: 9}: ' ',
	}
	for c, r := range want {
		if got := f.Glyph(c); got != r {
			t.Errorf("Glyph(%v) = %q, want %q", c, got, r)
		}
	}
	for _, part := range []string{"BOSS WAVE 5", "active", "Enemies: 2", "items 1"} {
		if !strings.Contains(f.Status, part) {
			t.Errorf("status %q missing %q", f.Status, part)
		}
	}

	snap.Err = errors.New("boom")
	if f := SnapshotFrame(snap, tile.Coord{}, nil); !strings.Contains(f.Status, "error: boom") {
		t.Errorf("status %q does not show the error", f.Status)
	}
}

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func TestDrawSmallArena(t *testing.T) {
	screen := newScreen(t, 10, 4)
	f := Frame{
		Arena:  corridor(2),
		Marks:  map[tile.Coord]rune{{X: 0, Y: 0}: GlyphPlayer},
		Status: "Wave 1",
	}
	Draw(screen, f)

	rows := []string{"####", "#@.#", "####"}
	for y, row := range rows {
		for x, want := range row {
			if got := runeAt(screen, x, y); got != want {
				t.Errorf("cell (%d,%d) = %q, want %q", x, y, got, want)
			}
		}
	}
	status := ""
	for x := 0; x < 6; x++ {
		status += string(runeAt(screen, x, 3))
	}
	if status != "Wave 1" {
		t.Errorf("status row = %q", status)
	}
	if _, _, style, _ := screen.GetContent(1, 1); style != glyphStyles[GlyphPlayer] {
		t.Error("player drawn without its style")
	}
}

func TestDrawFollowsFocusOnLargeArena(t *testing.T) {
	screen := newScreen(t, 10, 4)
	f := Frame{
		Arena: corridor(30),
		Marks: map[tile.Coord]rune{{X: 20, Y: 0}: GlyphPlayer},
		Focus: tile.Coord{X: 20, Y: 0},
	}
	Draw(screen, f)
	if got := runeAt(screen, 5, 1); got != GlyphPlayer {
		t.Errorf("player not centred: got %q", got)
	}

	// Focus near the right edge clamps to the wall.
	f.Focus = tile.Coord{X: 29}
	Draw(screen, f)
	if got := runeAt(screen, 9, 1); got != GlyphWall {
		t.Errorf("rightmost column = %q, want wall", got)
	}
}
