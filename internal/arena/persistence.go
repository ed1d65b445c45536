package arena

import (
	"fmt"
	"os"
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/tile"
	"gopkg.in/yaml.v3"
)

// ArenaData is the serialized form of an Arena.
type ArenaData struct {
	Level    int       `yaml:"level"`
	Seed     int64     `yaml:"seed,omitempty"`
	Attempts int       `yaml:"attempts"`
	SavedAt  time.Time `yaml:"saved_at"`
	Start    [2]int    `yaml:"start,flow"`
	Floor    [][2]int  `yaml:"floor,flow"`
	Walls    [][2]int  `yaml:"walls,flow"`
}

// Marshal serializes an arena with coordinates in row-major order.
func Marshal(a *Arena, seed int64) ([]byte, error) {
	data := ArenaData{
		Level:    a.Level,
		Seed:     seed,
		Attempts: a.Attempts,
		SavedAt:  time.Now().UTC(),
		Start:    [2]int{a.Start.X, a.Start.Y},
		Floor:    pairs(a.Floor),
		Walls:    pairs(a.Walls),
	}
	out, err := yaml.Marshal(&data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal arena: %w", err)
	}
	return out, nil
}

// Unmarshal parses serialized arena data. Walls are re-derived when the
// document omits them.
func Unmarshal(b []byte) (*Arena, int64, error) {
	var data ArenaData
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, 0, fmt.Errorf("failed to parse arena: %w", err)
	}
	floor := tile.NewSet()
	for _, p := range data.Floor {
		floor.Add(tile.Coord{X: p[0], Y: p[1]})
	}
	start := tile.Coord{X: data.Start[0], Y: data.Start[1]}
	if floor.Len() > 0 && !floor.Has(start) {
		return nil, 0, fmt.Errorf("start tile %v is not on the floor", start)
	}

	var walls tile.Set
	if len(data.Walls) == 0 {
		walls = DeriveWalls(floor)
	} else {
		walls = tile.NewSet()
		for _, p := range data.Walls {
			walls.Add(tile.Coord{X: p[0], Y: p[1]})
		}
		if walls.Intersects(floor) {
			return nil, 0, fmt.Errorf("wall and floor tiles overlap")
		}
	}

	return &Arena{
		Level:    data.Level,
		Start:    start,
		Floor:    floor,
		Walls:    walls,
		Attempts: data.Attempts,
	}, data.Seed, nil
}

// SaveArena writes an arena to a YAML file.
func SaveArena(a *Arena, seed int64, filename string) error {
	out, err := Marshal(a, seed)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, out, 0644); err != nil {
		return fmt.Errorf("failed to write arena file: %w", err)
	}
	return nil
}

// LoadArena reads an arena written by SaveArena.
func LoadArena(filename string) (*Arena, int64, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read arena file: %w", err)
	}
	return Unmarshal(b)
}

func pairs(s tile.Set) [][2]int {
	sorted := s.Sorted()
	out := make([][2]int, len(sorted))
	for i, c := range sorted {
		out[i] = [2]int{c.X, c.Y}
	}
	return out
}
