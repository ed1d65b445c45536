// arenaview plays waves in the terminal. Arrow keys move, x strikes
// adjacent enemies, a toggles the autopilot, r regenerates the wave,
// space pauses and q quits.
package main

import (
	"flag"
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/catalog"
	"github.com/lawnchairsociety/wavecrawler/internal/config"
	"github.com/lawnchairsociety/wavecrawler/internal/difficulty"
	"github.com/lawnchairsociety/wavecrawler/internal/logger"
	"github.com/lawnchairsociety/wavecrawler/internal/notify"
	"github.com/lawnchairsociety/wavecrawler/internal/sim"
	"github.com/lawnchairsociety/wavecrawler/internal/view"
	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

const strikeDamage = 15

type game struct {
	screen tcell.Screen
	host   *sim.Host
	world  *sim.World
	orch   *wave.Orchestrator
	levels *difficulty.Progress
	pilot  *sim.Autopilot
	bag    sim.Bag
	tick   time.Duration

	autopilot bool
	paused    bool
}

func main() {
	configFile := flag.String("config", "data/game.yaml", "Path to game config YAML file")
	catalogFile := flag.String("catalog", "data/catalog.yaml", "Path to enemy and item catalog YAML file")
	logFile := flag.String("log", "logs/arenaview.log", "Log file (the terminal is taken by the view)")
	seed := flag.Int64("seed", 0, "Random seed (default: current time)")
	level := flag.Int("level", 1, "Starting level")
	autopilot := flag.Bool("autopilot", false, "Start with the autopilot on")
	flag.Parse()

	logConfig := logger.DefaultConfig()
	logConfig.ConsoleEnabled = new(bool)
	logConfig.FileEnabled = true
	logConfig.FilePath = *logFile
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	roster, err := catalog.LoadFromYAML(*catalogFile)
	if err != nil {
		logger.Warning("Failed to load catalog, using built-in roster", "path", *catalogFile, "error", err)
		roster = catalog.Default()
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	g, err := newGame(cfg, roster, *seed, *level)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	g.autopilot = *autopilot
	defer g.screen.Fini()

	g.run()
}

func newGame(cfg *config.GameConfig, roster *catalog.Catalog, seed int64, level int) (*game, error) {
	g, err := newEngine(cfg, roster, seed, level)
	if err != nil {
		return nil, err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	g.screen = screen

	if err := g.orch.StartOrRegenerateWave(g.levels.Level()); err != nil {
		screen.Fini()
		return nil, err
	}
	return g, nil
}

// newEngine wires the world, orchestrator and autopilot without a screen.
func newEngine(cfg *config.GameConfig, roster *catalog.Catalog, seed int64, level int) (*game, error) {
	scaler := difficulty.NewScaler(cfg.Difficulty)
	progress, err := difficulty.NewProgress(scaler, nil)
	if err != nil {
		return nil, err
	}
	progress.Set(level)

	gen, err := arena.NewGenerator(cfg.Arena)
	if err != nil {
		return nil, err
	}

	world := sim.NewWorld(roster, cfg.Wave.PortalTypeID, 100)
	bag := sim.Bag{}
	orch, err := wave.New(cfg.Wave, scaler, gen, roster, wave.Deps{
		Spawner:   world,
		Hostiles:  world,
		Player:    world,
		Inventory: bag,
		Notifier:  notify.LogNotifier{},
		Levels:    progress,
		Terrain:   world,
	}, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	return &game{
		host:   sim.NewHost(world, orch, nil),
		world:  world,
		orch:   orch,
		levels: progress,
		pilot:  sim.NewAutopilot(world, orch, 300*time.Millisecond),
		bag:    bag,
		tick:   cfg.Run.Tick,
	}, nil
}

func (g *game) run() {
	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- g.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}
		case <-ticker.C:
			if !g.paused {
				g.step()
			}
			g.draw()
		}
	}
}

func (g *game) step() {
	if g.autopilot {
		g.host.Pilot = g.pilot
	} else {
		g.host.Pilot = nil
	}
	g.host.Frame(g.tick)
	if g.world.Player().Downed() {
		logger.Warning("Player downed, restarting wave", "level", g.orch.Level())
		g.world.Heal()
		g.regenerate()
	}
}

// regenerate rebuilds the current wave. A failure leaves the view on an
// empty arena, so it is logged and shown in the status line.
func (g *game) regenerate() error {
	err := g.orch.StartOrRegenerateWave(g.orch.Level())
	if err != nil {
		logger.Error("Failed to regenerate wave", "level", g.orch.Level(), "error", err)
	}
	return err
}

func (g *game) draw() {
	player := g.world.Player()
	f := view.SnapshotFrame(g.orch.Snapshot(), player.Pos.Coord(), func(h wave.Handle) bool {
		_, ok := g.world.Entity(h)
		return ok
	})
	f.Status += "  hp " + strconv.Itoa(player.Health)
	if len(g.bag) > 0 {
		f.Status += "  bag: " + g.bag.String()
	}
	if g.autopilot {
		f.Status += "  [auto]"
	}
	if g.paused {
		f.Status += "  [paused]"
	}
	view.Draw(g.screen, f)
}

func (g *game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			g.move(0, -1)
		case tcell.KeyDown:
			g.move(0, 1)
		case tcell.KeyLeft:
			g.move(-1, 0)
		case tcell.KeyRight:
			g.move(1, 0)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				g.paused = !g.paused
			case 'a':
				g.autopilot = !g.autopilot
			case 'r':
				g.regenerate()
			case 'x':
				g.strike()
			}
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

// move steps the player one tile if the target is floor, then picks up
// whatever is there.
func (g *game) move(dx, dy int) {
	a := g.world.Arena()
	if a == nil || g.paused {
		return
	}
	to := g.world.Player().Pos.Coord().Add(dx, dy)
	if !a.Floor.Has(to) {
		return
	}
	g.world.MovePlayerTo(to.Center())

	for _, e := range g.world.Entities(sim.RoleCollectible) {
		if e.Pos.Coord() == to {
			g.orch.ClaimCollectible(e.Handle)
		}
	}
	for _, e := range g.world.Entities(sim.RolePortal) {
		if e.Pos.Coord() == to {
			g.orch.NotifyPortalEntered()
		}
	}
}

func (g *game) strike() {
	at := g.world.Player().Pos
	for _, role := range []sim.Role{sim.RoleHostile, sim.RoleBoss} {
		for _, e := range g.world.Entities(role) {
			if e.Pos.Distance(at) <= 1.5 {
				g.world.Damage(e.Handle, strikeDamage)
			}
		}
	}
}
