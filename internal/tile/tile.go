// Package tile holds the integer grid coordinates arenas are carved on,
// the world-space points entities are placed at, and sets of tiles.
package tile

import (
	"fmt"
	"math"
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Coord is a unit cell on the arena grid.
type Coord struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Point is a continuous world-space position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns c offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Center maps a tile to the world position of its centre: (x+0.5, y+0.5).
func (c Coord) Center() Point {
	return Point{X: float64(c.X) + 0.5, Y: float64(c.Y) + 0.5}
}

// Distance is the Euclidean distance between two tiles.
func (c Coord) Distance(o Coord) float64 {
	return math.Hypot(float64(c.X-o.X), float64(c.Y-o.Y))
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Distance is the Euclidean distance between two points.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Coord returns the tile containing p.
func (p Point) Coord() Coord {
	return Coord{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// Less orders coordinates row-major: by Y, then X.
func Less(a, b Coord) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// SortCoords sorts coords in place in row-major order.
func SortCoords(coords []Coord) {
	sort.Slice(coords, func(i, j int) bool { return Less(coords[i], coords[j]) })
}

// Set is an unordered, deduplicated collection of tiles. The zero value is
// not usable; create sets with NewSet.
type Set struct {
	m mapset.Set[Coord]
}

// NewSet returns a set containing coords.
func NewSet(coords ...Coord) Set {
	s := Set{m: mapset.New[Coord]()}
	for _, c := range coords {
		s.m.Put(c)
	}
	return s
}

// Add inserts c.
func (s Set) Add(c Coord) { s.m.Put(c) }

// Has reports whether c is in the set.
func (s Set) Has(c Coord) bool { return s.m.Has(c) }

// Remove deletes c if present.
func (s Set) Remove(c Coord) { s.m.Remove(c) }

// Len is the number of tiles in the set.
func (s Set) Len() int { return s.m.Size() }

// Each calls fn for every tile in unspecified order.
func (s Set) Each(fn func(Coord)) { s.m.Each(fn) }

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := NewSet()
	s.m.Each(func(c Coord) { out.m.Put(c) })
	return out
}

// Sorted returns the tiles in row-major order. Random selection always goes
// through this so seeded runs do not depend on map iteration order.
func (s Set) Sorted() []Coord {
	out := make([]Coord, 0, s.m.Size())
	s.m.Each(func(c Coord) { out = append(out, c) })
	SortCoords(out)
	return out
}

// Bounds returns the inclusive bounding box of the set. ok is false for an
// empty set.
func (s Set) Bounds() (min, max Coord, ok bool) {
	first := true
	s.m.Each(func(c Coord) {
		if first {
			min, max, first = c, c, false
			return
		}
		if c.X < min.X {
			min.X = c.X
		}
		if c.Y < min.Y {
			min.Y = c.Y
		}
		if c.X > max.X {
			max.X = c.X
		}
		if c.Y > max.Y {
			max.Y = c.Y
		}
	})
	return min, max, !first
}

// Intersects reports whether any tile is in both sets.
func (s Set) Intersects(o Set) bool {
	small, large := s, o
	if small.Len() > large.Len() {
		small, large = large, small
	}
	hit := false
	small.Each(func(c Coord) {
		if !hit && large.Has(c) {
			hit = true
		}
	})
	return hit
}
