// wavecrawler runs arena waves headless: the autopilot fights each wave,
// progress and loot go to the database, and spectators can follow over a
// websocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/catalog"
	"github.com/lawnchairsociety/wavecrawler/internal/config"
	"github.com/lawnchairsociety/wavecrawler/internal/database"
	"github.com/lawnchairsociety/wavecrawler/internal/difficulty"
	"github.com/lawnchairsociety/wavecrawler/internal/logger"
	"github.com/lawnchairsociety/wavecrawler/internal/notify"
	"github.com/lawnchairsociety/wavecrawler/internal/sim"
	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

func main() {
	configFile := flag.String("config", "data/game.yaml", "Path to game config YAML file")
	catalogFile := flag.String("catalog", "data/catalog.yaml", "Path to enemy and item catalog YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	dbFile := flag.String("db", "", "SQLite database path (overrides config)")
	runID := flag.String("run", "", "Run identifier (overrides config)")
	seed := flag.Int64("seed", 0, "Random seed (default: config, then current time)")
	level := flag.Int("level", 0, "Start at this level instead of the saved one")
	reset := flag.Bool("reset", false, "Reset saved progress to level 1")
	waves := flag.Int("waves", 0, "Stop after this many waves (0 = run until interrupted)")
	tick := flag.Duration("tick", 0, "Frame interval (overrides config)")
	pilotInterval := flag.Duration("pilot", 400*time.Millisecond, "Autopilot action interval in game time")
	spectate := flag.Bool("spectate", false, "Enable the spectator websocket")
	listen := flag.String("listen", "", "Spectator listen address (overrides config)")
	dumpDir := flag.String("dump-dir", "", "Write every generated arena as YAML into this directory")
	history := flag.Int("history", 0, "Print the last N waves of the run and exit")
	hashToken := flag.String("hash-token", "", "Print the bcrypt hash of a spectator token and exit")
	flag.Parse()

	if *hashToken != "" {
		hash, err := notify.HashToken(*hashToken)
		if err != nil {
			log.Fatalf("Failed to hash token: %v", err)
		}
		fmt.Println(hash)
		return
	}

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)
	defer logger.Close()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbFile != "" {
		cfg.Database.Driver = string(database.DialectSQLite)
		cfg.Database.SQLitePath = *dbFile
	}
	if *runID != "" {
		cfg.Run.ID = *runID
	}
	if *tick > 0 {
		cfg.Run.Tick = *tick
	}
	if *spectate {
		cfg.Notifier.Enabled = true
	}
	if *listen != "" {
		cfg.Notifier.Address = *listen
	}

	db, err := database.OpenWithConfig(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	run := db.Run(cfg.Run.ID)

	if *history > 0 {
		printHistory(run, *history)
		return
	}

	roster, err := catalog.LoadFromYAML(*catalogFile)
	if err != nil {
		logger.Warning("Failed to load catalog, using built-in roster", "path", *catalogFile, "error", err)
		roster = catalog.Default()
	}

	runSeed := *seed
	if runSeed == 0 {
		runSeed = cfg.Run.Seed
	}
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
		logger.Info("Run seed selected", "seed", runSeed, "random", true)
	} else {
		logger.Info("Run seed selected", "seed", runSeed, "random", false)
	}

	scaler := difficulty.NewScaler(cfg.Difficulty)
	progress, err := difficulty.NewProgress(scaler, run)
	if err != nil {
		log.Fatalf("Failed to load progress: %v", err)
	}
	if *reset {
		progress.Reset()
	}
	if *level > 0 {
		progress.Set(*level)
	}

	gen, err := arena.NewGenerator(cfg.Arena)
	if err != nil {
		log.Fatalf("Invalid arena config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifiers := notify.Multi{notify.LogNotifier{}}
	if cfg.Notifier.Enabled {
		hub := notify.NewHub(cfg.Notifier)
		notifiers = append(notifiers, hub)
		go func() {
			if err := hub.ListenAndServe(ctx); err != nil {
				logger.Error("Spectator feed stopped", "error", err)
			}
		}()
	}

	world := sim.NewWorld(roster, cfg.Wave.PortalTypeID, 100)
	var terrain wave.Terrain = world
	if *dumpDir != "" {
		terrain = &arenaDumper{next: world, dir: *dumpDir, seed: runSeed}
	}

	orch, err := wave.New(cfg.Wave, scaler, gen, roster, wave.Deps{
		Spawner:   world,
		Hostiles:  world,
		Player:    world,
		Inventory: run,
		Notifier:  notifiers,
		Levels:    progress,
		Terrain:   terrain,
		Journal:   run,
	}, rand.New(rand.NewSource(runSeed)))
	if err != nil {
		log.Fatalf("Failed to create wave orchestrator: %v", err)
	}
	host := sim.NewHost(world, orch, sim.NewAutopilot(world, orch, *pilotInterval))

	startLevel := progress.Level()
	logger.Always("Starting wavecrawler", "run", cfg.Run.ID, "level", startLevel, "tick", cfg.Run.Tick)
	if err := orch.StartOrRegenerateWave(startLevel); err != nil {
		log.Fatalf("Failed to start wave: %v", err)
	}

	ticker := time.NewTicker(cfg.Run.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Always("Shutting down", "level", progress.Level())
			return
		case <-ticker.C:
			host.Frame(cfg.Run.Tick)

			if world.Player().Downed() {
				logger.Warning("Player downed, restarting wave", "level", orch.Level())
				world.Heal()
				if err := orch.StartOrRegenerateWave(orch.Level()); err != nil {
					log.Fatalf("Failed to restart wave: %v", err)
				}
			}
			if err := waveFailure(orch); err != nil {
				log.Fatalf("Wave engine stopped: %v", err)
			}
			if *waves > 0 && progress.Level()-startLevel >= *waves {
				logger.Always("Wave target reached", "waves", *waves, "level", progress.Level())
				return
			}
		}
	}
}

// waveFailure returns the orchestrator's halt error. A failed population
// phase leaves the wave in Populating, so the state is not consulted.
func waveFailure(o *wave.Orchestrator) error {
	if err := o.Err(); err != nil {
		return fmt.Errorf("level %d (%s): %w", o.Level(), o.State(), err)
	}
	return nil
}

func printHistory(run *database.Run, limit int) {
	level, err := run.LoadLevel()
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}
	records, err := run.History(limit)
	if err != nil {
		log.Fatalf("Failed to load history: %v", err)
	}
	items, err := run.Inventory()
	if err != nil {
		log.Fatalf("Failed to load inventory: %v", err)
	}

	fmt.Printf("Run %s: level %d\n", run.ID(), level)
	for _, r := range records {
		kind := "wave"
		if r.Boss {
			kind = "boss"
		}
		fmt.Printf("  %s %3d  %-4s  tiles %4d  hostiles %d/%d  items %d/%d +%d dropped  claimed %d  auto %d  %s\n",
			r.RecordedAt.Format("2006-01-02 15:04"), r.Level, kind, r.FloorTiles,
			r.Stats.HostilesPlaced, r.Stats.HostilesPlanned,
			r.Stats.CollectiblesPlaced, r.Stats.CollectiblesPlanned, r.Stats.CollectiblesDropped,
			r.Claimed, r.AutoCollected, r.Duration.Round(time.Millisecond))
	}
	fmt.Printf("Inventory: %s\n", sim.Bag(items))
}
