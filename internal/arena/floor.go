// Package arena carves wave arenas: a random-walk floor and the wall ring
// around it.
package arena

import (
	"math/rand"

	"github.com/lawnchairsociety/wavecrawler/internal/tile"
)

var walkDirections = [4]tile.Coord{
	{X: 0, Y: 1},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

// GenerateFloor runs a drunkard's walk of steps iterations from start. Every
// iteration stamps the (2r+1)x(2r+1) square around the current tile, then
// moves one unit in a uniformly chosen axis direction. The same rng state
// always yields the same floor. There is no retry here; see Generator.
func GenerateFloor(start tile.Coord, steps, stampRadius int, rng *rand.Rand) tile.Set {
	floor := tile.NewSet()
	if stampRadius < 0 {
		stampRadius = 0
	}
	current := start
	for i := 0; i < steps; i++ {
		for dx := -stampRadius; dx <= stampRadius; dx++ {
			for dy := -stampRadius; dy <= stampRadius; dy++ {
				floor.Add(current.Add(dx, dy))
			}
		}
		d := walkDirections[rng.Intn(len(walkDirections))]
		current = current.Add(d.X, d.Y)
	}
	return floor
}

// DeriveWalls returns every 8-neighbour of a floor tile that is not itself
// floor. The result never intersects floor; an empty floor has no walls.
func DeriveWalls(floor tile.Set) tile.Set {
	walls := tile.NewSet()
	floor.Each(func(c tile.Coord) {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				n := c.Add(dx, dy)
				if !floor.Has(n) {
					walls.Add(n)
				}
			}
		}
	})
	return walls
}
