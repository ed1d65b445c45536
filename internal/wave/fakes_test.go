package wave

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/catalog"
	"github.com/lawnchairsociety/wavecrawler/internal/difficulty"
	"github.com/lawnchairsociety/wavecrawler/internal/tile"
)

// fakeWorld implements every host collaborator and records calls in order.
type fakeWorld struct {
	calls []string

	next      Handle
	entities  map[Handle]string
	tiles     map[Handle]tile.Point
	destroyed []Handle
	hostile   map[string]bool
	failSpawn map[string]bool

	playerAt  tile.Point
	invuln    time.Duration
	painted   *arena.Arena
	inventory map[string]int

	// scripted live counts; when empty the live hostile entities are counted
	counts []int
	polls  int

	notes    []string
	journal  []Summary
	addError error
}

func newFakeWorld() *fakeWorld {
	hostile := map[string]bool{}
	for _, id := range catalog.Default().HostileTypes() {
		hostile[id] = true
	}
	return &fakeWorld{
		entities:  map[Handle]string{},
		tiles:     map[Handle]tile.Point{},
		hostile:   hostile,
		failSpawn: map[string]bool{},
		inventory: map[string]int{},
	}
}

func (w *fakeWorld) SpawnEntity(typeID string, at tile.Point) (Handle, error) {
	if w.failSpawn[typeID] {
		return 0, errors.New("no template")
	}
	w.next++
	w.entities[w.next] = typeID
	w.tiles[w.next] = at
	w.calls = append(w.calls, "spawn:"+typeID)
	return w.next, nil
}

func (w *fakeWorld) DestroyEntity(h Handle) {
	if _, ok := w.entities[h]; ok {
		delete(w.entities, h)
		w.destroyed = append(w.destroyed, h)
	}
}

func (w *fakeWorld) CountLiveHostiles() int {
	w.polls++
	if len(w.counts) > 0 {
		i := w.polls - 1
		if i >= len(w.counts) {
			i = len(w.counts) - 1
		}
		return w.counts[i]
	}
	n := 0
	for _, typeID := range w.entities {
		if w.hostile[typeID] {
			n++
		}
	}
	return n
}

func (w *fakeWorld) killAll() {
	for h, typeID := range w.entities {
		if w.hostile[typeID] {
			delete(w.entities, h)
		}
	}
}

func (w *fakeWorld) count(typeID string) int {
	n := 0
	for _, t := range w.entities {
		if t == typeID {
			n++
		}
	}
	return n
}

func (w *fakeWorld) MovePlayerTo(at tile.Point) {
	w.playerAt = at
	w.calls = append(w.calls, "move")
}

func (w *fakeWorld) GrantTemporaryInvulnerability(d time.Duration) {
	w.invuln = d
	w.calls = append(w.calls, "invulnerable")
}

func (w *fakeWorld) PaintArena(a *arena.Arena) {
	w.painted = a
	w.calls = append(w.calls, "paint")
}

func (w *fakeWorld) AddItem(itemID string, quantity int) error {
	w.inventory[itemID] += quantity
	return w.addError
}

func (w *fakeWorld) WaveDisplayChanged(level int, boss bool) {
	w.note(fmt.Sprintf("display:%d:%v", level, boss))
	w.calls = append(w.calls, "display")
}

func (w *fakeWorld) HostileCountChanged(count int) { w.note(fmt.Sprintf("count:%d", count)) }

func (w *fakeWorld) ClearedMessage(boss bool) { w.note(fmt.Sprintf("cleared:%v", boss)) }

func (w *fakeWorld) PortalSearchMessage() { w.note("portal") }

func (w *fakeWorld) RecordWave(s Summary) error {
	w.journal = append(w.journal, s)
	return nil
}

func (w *fakeWorld) note(s string) { w.notes = append(w.notes, s) }

func (w *fakeWorld) noted(s string) int {
	n := 0
	for _, v := range w.notes {
		if v == s {
			n++
		}
	}
	return n
}

type harness struct {
	o      *Orchestrator
	world  *fakeWorld
	levels *difficulty.Progress
}

func newHarness(t *testing.T, tweak func(*Config, *arena.Config)) *harness {
	t.Helper()
	cfg := DefaultConfig()
	arenaCfg := arena.DefaultConfig()
	if tweak != nil {
		tweak(&cfg, &arenaCfg)
	}
	gen, err := arena.NewGenerator(arenaCfg)
	if err != nil {
		t.Fatal(err)
	}
	scaler := difficulty.NewScaler(difficulty.DefaultConfig())
	levels, err := difficulty.NewProgress(scaler, nil)
	if err != nil {
		t.Fatal(err)
	}
	w := newFakeWorld()
	o, err := New(cfg, scaler, gen, catalog.Default(), Deps{
		Spawner:   w,
		Hostiles:  w,
		Player:    w,
		Inventory: w,
		Notifier:  w,
		Levels:    levels,
		Terrain:   w,
		Journal:   w,
	}, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &harness{o: o, world: w, levels: levels}
}

const frame = 100 * time.Millisecond

// runUntil ticks until the orchestrator reaches state or the budget runs out.
func (h *harness) runUntil(t *testing.T, want State, budget time.Duration) {
	t.Helper()
	for elapsed := time.Duration(0); elapsed <= budget; elapsed += frame {
		if h.o.State() == want {
			return
		}
		h.o.Tick(frame)
	}
	if h.o.State() != want {
		t.Fatalf("state = %v after %v, want %v (err: %v)", h.o.State(), budget, want, h.o.Err())
	}
}

func (h *harness) run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		h.o.Tick(frame)
	}
}

func (h *harness) start(t *testing.T, level int) {
	t.Helper()
	if err := h.o.StartOrRegenerateWave(level); err != nil {
		t.Fatalf("StartOrRegenerateWave(%d): %v", level, err)
	}
}

func indexOf(calls []string, want string) int {
	for i, c := range calls {
		if c == want {
			return i
		}
	}
	return -1
}
