// Package placement picks tiles for wave entities: safe-zone exclusion,
// weighted item tables and enemy quotas.
package placement

import (
	"math/rand"
	"sort"

	"github.com/lawnchairsociety/wavecrawler/internal/tile"
)

// Exclusion keeps placements at least Radius tiles from Center. A zero
// radius excludes nothing.
type Exclusion struct {
	Center tile.Coord
	Radius float64
}

func (e Exclusion) allows(c tile.Coord) bool {
	return c.Distance(e.Center) >= e.Radius
}

// Assignment is one placed payload.
type Assignment struct {
	Tile    tile.Coord
	Payload string
}

// Batch is a consumable copy of candidate tiles. Tiles handed out by a
// batch are never handed out again by the same batch.
type Batch struct {
	candidates []tile.Coord // row-major order
	picks      []int
	rng        *rand.Rand
}

// NewBatch copies floor; the caller's set is not modified.
func NewBatch(floor tile.Set, rng *rand.Rand) *Batch {
	return &Batch{candidates: floor.Sorted(), rng: rng}
}

// Reserve removes c from the candidates without placing anything there.
func (b *Batch) Reserve(c tile.Coord) {
	i := sort.Search(len(b.candidates), func(i int) bool { return !tile.Less(b.candidates[i], c) })
	if i < len(b.candidates) && b.candidates[i] == c {
		b.take(i)
	}
}

// Remaining is the number of unconsumed candidates.
func (b *Batch) Remaining() int {
	return len(b.candidates)
}

func (b *Batch) take(i int) tile.Coord {
	c := b.candidates[i]
	b.candidates = append(b.candidates[:i], b.candidates[i+1:]...)
	return c
}

// PlaceAwayFrom picks a uniformly random candidate outside ex. When every
// candidate is inside the exclusion zone it falls back to all candidates.
// The chosen tile is consumed. ok is false only when the batch is empty.
func (b *Batch) PlaceAwayFrom(ex Exclusion) (tile.Coord, bool) {
	if len(b.candidates) == 0 {
		return tile.Coord{}, false
	}

	b.picks = b.picks[:0]
	for i, c := range b.candidates {
		if ex.allows(c) {
			b.picks = append(b.picks, i)
		}
	}
	if len(b.picks) == 0 {
		return b.take(b.rng.Intn(len(b.candidates))), true
	}
	return b.take(b.picks[b.rng.Intn(len(b.picks))]), true
}

// PlaceNear picks the candidate closest to center, choosing uniformly among
// equally close tiles. The chosen tile is consumed.
func (b *Batch) PlaceNear(center tile.Coord) (tile.Coord, bool) {
	if len(b.candidates) == 0 {
		return tile.Coord{}, false
	}

	best := -1
	b.picks = b.picks[:0]
	for i, c := range b.candidates {
		d := distSq(c, center)
		if best >= 0 && d > best {
			continue
		}
		if d < best || best < 0 {
			best = d
			b.picks = b.picks[:0]
		}
		b.picks = append(b.picks, i)
	}
	return b.take(b.picks[b.rng.Intn(len(b.picks))]), true
}

func distSq(a, b tile.Coord) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// PlaceEach assigns a tile to every payload in order. Payloads that find no
// tile are skipped, so the result may be shorter than payloads.
func (b *Batch) PlaceEach(payloads []string, ex Exclusion) []Assignment {
	out := make([]Assignment, 0, len(payloads))
	for _, p := range payloads {
		c, ok := b.PlaceAwayFrom(ex)
		if !ok {
			break
		}
		out = append(out, Assignment{Tile: c, Payload: p})
	}
	return out
}

// PlaceWeighted draws count items from table and places each one. Slots that
// find no tile are skipped.
func (b *Batch) PlaceWeighted(table *Table, count int, ex Exclusion) []Assignment {
	if count <= 0 {
		return nil
	}
	out := make([]Assignment, 0, count)
	for i := 0; i < count; i++ {
		item := table.Pick(b.rng)
		c, ok := b.PlaceAwayFrom(ex)
		if !ok {
			break
		}
		out = append(out, Assignment{Tile: c, Payload: item})
	}
	return out
}
