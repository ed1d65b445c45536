package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/tile"
	"github.com/lawnchairsociety/wavecrawler/internal/view"
)

type loadedArena struct {
	path  string
	arena *arena.Arena
	seed  int64
}

func main() {
	inputPath := flag.String("input", "data/arenas", "Arena YAML file or directory of them")
	level := flag.Int("level", 0, "Level to display (0 for all)")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	showLegend := flag.Bool("legend", true, "Show legend")
	flag.Parse()

	files, err := arenaFiles(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	var arenas []loadedArena
	for _, f := range files {
		a, seed, err := arena.LoadArena(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", f, err)
			os.Exit(1)
		}
		if *level > 0 && a.Level != *level {
			continue
		}
		arenas = append(arenas, loadedArena{path: f, arena: a, seed: seed})
	}

	sort.SliceStable(arenas, func(i, j int) bool {
		return arenas[i].arena.Level < arenas[j].arena.Level
	})

	var output strings.Builder
	output.WriteString(fmt.Sprintf("Arena Maps (%d)\n", len(arenas)))
	output.WriteString(strings.Repeat("=", 60) + "\n\n")
	for _, la := range arenas {
		renderArena(&output, la)
		output.WriteString("\n")
	}

	if *showLegend {
		output.WriteString(getLegend())
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}
}

func arenaFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := filepath.Glob(filepath.Join(path, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func renderArena(output *strings.Builder, la loadedArena) {
	a := la.arena
	output.WriteString(fmt.Sprintf("Level %d  (%s, seed %d, attempts %d)\n", a.Level, filepath.Base(la.path), la.seed, a.Attempts))
	output.WriteString(strings.Repeat("-", 40) + "\n")

	min, max, _ := a.Floor.Bounds()
	output.WriteString(fmt.Sprintf("%d floor tiles, %d walls, %dx%d\n",
		a.Floor.Len(), a.Walls.Len(), max.X-min.X+1, max.Y-min.Y+1))

	if unreachable := unreachableTiles(a); len(unreachable) > 0 {
		output.WriteString(fmt.Sprintf("WARNING: %d floor tiles unreachable from start!\n", len(unreachable)))
		for _, c := range unreachable {
			output.WriteString(fmt.Sprintf("  - %s\n", c))
		}
	} else {
		output.WriteString("All floor tiles reachable from start.\n")
	}
	output.WriteString("\n")
	output.WriteString(view.RenderASCII(a, map[tile.Coord]rune{a.Start: view.GlyphPlayer}))
}

// unreachableTiles floods the floor from the start tile over axis moves.
func unreachableTiles(a *arena.Arena) []tile.Coord {
	visited := tile.NewSet(a.Start)
	queue := []tile.Coord{a.Start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, d := range []tile.Coord{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			n := current.Add(d.X, d.Y)
			if a.Floor.Has(n) && !visited.Has(n) {
				visited.Add(n)
				queue = append(queue, n)
			}
		}
	}

	var unreachable []tile.Coord
	for _, c := range a.Floor.Sorted() {
		if !visited.Has(c) {
			unreachable = append(unreachable, c)
		}
	}
	return unreachable
}

func getLegend() string {
	return `
Legend:
  [@] Player start
  [.] Floor
  [#] Wall
`
}
