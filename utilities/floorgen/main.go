package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/wavecrawler/internal/config"
)

func main() {
	levels := flag.String("levels", "", "Level range to generate (e.g., 1-25 or 5)")
	seed := flag.Int64("seed", 42, "Base seed for generation")
	outDir := flag.String("out", "data/arenas", "Output directory")
	configFile := flag.String("config", "data/game.yaml", "Path to game config YAML file")
	flag.Parse()

	if *levels == "" {
		fmt.Fprintln(os.Stderr, "Error: --levels is required (e.g., --levels=1-25 or --levels=5)")
		flag.Usage()
		os.Exit(1)
	}

	startLevel, endLevel, err := parseLevelRange(*levels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid level range: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	gen, err := NewArenaGenerator(*seed, *outDir, cfg.Difficulty, cfg.Arena)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating arenas %d-%d (seed: %d)\n", startLevel, endLevel, *seed)
	fmt.Printf("Output directory: %s\n\n", *outDir)

	for level := startLevel; level <= endLevel; level++ {
		fmt.Printf("Generating level %d... ", level)
		a, err := gen.GenerateLevel(level)
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("OK (%d tiles, %d attempts)\n", a.Floor.Len(), a.Attempts)
	}

	fmt.Printf("\nSuccessfully generated %d arena(s)\n", endLevel-startLevel+1)
}

// parseLevelRange parses a level range string like "1-25" or "5"
func parseLevelRange(s string) (start, end int, err error) {
	if strings.Contains(s, "-") {
		parts := strings.Split(s, "-")
		if len(parts) != 2 {
			return 0, 0, fmt.Errorf("invalid range format, expected 'start-end'")
		}
		start, err = strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid start level: %w", err)
		}
		end, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid end level: %w", err)
		}
	} else {
		start, err = strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid level: %w", err)
		}
		end = start
	}

	if start < 1 {
		return 0, 0, fmt.Errorf("levels start at 1")
	}
	if end < start {
		return 0, 0, fmt.Errorf("end level must be >= start level")
	}

	return start, end, nil
}
