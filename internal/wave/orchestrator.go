// Package wave sequences one arena wave from generation to the exit portal.
package wave

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/difficulty"
	"github.com/lawnchairsociety/wavecrawler/internal/gametime"
	"github.com/lawnchairsociety/wavecrawler/internal/logger"
	"github.com/lawnchairsociety/wavecrawler/internal/placement"
	"github.com/lawnchairsociety/wavecrawler/internal/tile"
)

var (
	// ErrMissingCollaborator is returned by New when a required dependency is nil.
	ErrMissingCollaborator = errors.New("missing collaborator")
	// ErrMissingBoss means a boss wave has no spawnable boss type.
	ErrMissingBoss = errors.New("boss wave without a boss type")
	// ErrPortalPlacement means the portal could not be put on the floor.
	ErrPortalPlacement = errors.New("portal placement failed")
)

// Placed is an entity the orchestrator spawned.
type Placed struct {
	Handle Handle     `json:"handle"`
	TypeID string     `json:"type"`
	Tile   tile.Coord `json:"tile"`
	Boss   bool       `json:"boss,omitempty"`
}

// Stats compares what a wave asked for with what fit on the floor.
type Stats struct {
	HostilesPlanned     int `json:"hostiles_planned"`
	HostilesPlaced      int `json:"hostiles_placed"`
	CollectiblesPlanned int `json:"collectibles_planned"`
	CollectiblesPlaced  int `json:"collectibles_placed"`
	CollectiblesDropped int `json:"collectibles_dropped"`
}

// Summary describes a finished wave.
type Summary struct {
	Level         int
	Boss          bool
	Attempts      int
	FloorTiles    int
	Stats         Stats
	Claimed       int
	AutoCollected int
	Duration      time.Duration
}

type phase struct {
	name string
	run  func() error
}

// Orchestrator drives the wave lifecycle. It is single-threaded: the host
// calls every method, Tick included, from its frame loop.
type Orchestrator struct {
	cfg    Config
	scaler *difficulty.Scaler
	gen    *arena.Generator
	roster Roster
	deps   Deps
	rng    *rand.Rand
	clock  *gametime.Scheduler

	state  State
	params difficulty.Params
	arena  *arena.Arena
	batch  *placement.Batch
	phases []phase

	hostiles     map[Handle]Placed
	fallen       map[Handle]struct{}
	collectibles map[Handle]Placed
	portal       *Placed
	spawnQueue   []placement.Assignment
	queueTimer   *gametime.Timer

	detector         ClearDetector
	pollTimer        *gametime.Timer
	observeRequested bool
	portalConsumed   bool

	stats     Stats
	claimed   int
	startedAt time.Duration
	err       error
}

// New wires an orchestrator. rng may be nil, in which case a time-seeded
// source is used.
func New(cfg Config, scaler *difficulty.Scaler, gen *arena.Generator, roster Roster, deps Deps, rng *rand.Rand) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("wave config: %w", err)
	}
	for _, c := range []struct {
		name    string
		missing bool
	}{
		{"scaler", scaler == nil},
		{"generator", gen == nil},
		{"roster", roster == nil},
		{"spawner", deps.Spawner == nil},
		{"hostiles", deps.Hostiles == nil},
		{"player", deps.Player == nil},
		{"inventory", deps.Inventory == nil},
		{"notifier", deps.Notifier == nil},
		{"levels", deps.Levels == nil},
	} {
		if c.missing {
			return nil, fmt.Errorf("%w: %s", ErrMissingCollaborator, c.name)
		}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Orchestrator{
		cfg:          cfg,
		scaler:       scaler,
		gen:          gen,
		roster:       roster,
		deps:         deps,
		rng:          rng,
		clock:        gametime.NewScheduler(),
		hostiles:     make(map[Handle]Placed),
		fallen:       make(map[Handle]struct{}),
		collectibles: make(map[Handle]Placed),
	}, nil
}

// State returns the current lifecycle phase.
func (o *Orchestrator) State() State { return o.state }

// Level returns the level of the current wave.
func (o *Orchestrator) Level() int { return o.params.Level }

// Params returns the current wave parameters.
func (o *Orchestrator) Params() difficulty.Params { return o.params }

// Stats returns planned and placed counts for the current wave.
func (o *Orchestrator) Stats() Stats { return o.stats }

// Err returns the last fatal generation or configuration error of the
// current wave, or nil.
func (o *Orchestrator) Err() error { return o.err }

// Clock exposes game time.
func (o *Orchestrator) Clock() *gametime.Scheduler { return o.clock }

// SetRoster swaps the enemy and item definitions. It takes effect at the
// next StartOrRegenerateWave.
func (o *Orchestrator) SetRoster(r Roster) {
	if r != nil {
		o.roster = r
	}
}

// StartOrRegenerateWave tears down the current wave and generates a new one
// at level. Population happens over the following ticks. A generation
// failure leaves the orchestrator Idle and is returned.
func (o *Orchestrator) StartOrRegenerateWave(level int) error {
	o.teardown()

	o.params = o.scaler.Compute(level)
	o.startedAt = o.clock.Now()
	o.setState(Generating)

	a, err := o.gen.Generate(o.params.Level, o.params.WalkSteps, o.rng)
	if err != nil {
		o.fail(fmt.Errorf("generate wave %d: %w", o.params.Level, err))
		o.setState(Idle)
		return o.err
	}
	o.arena = a
	logger.Info("wave generated", "wave", o.params, "attempts", a.Attempts, "floor_tiles", a.Floor.Len())

	o.setState(Populating)
	o.phases = []phase{
		{"walls", o.paintArena},
		{"player", o.placePlayer},
		{"hostiles", o.spawnHostiles},
		{"collectibles", o.spawnCollectibles},
	}
	return nil
}

// Tick advances game time by dt, runs at most one pending population phase,
// and performs any observation requested by NotifyHostileDefeated. While
// staggered hostiles are still queued the next phase waits.
func (o *Orchestrator) Tick(dt time.Duration) {
	o.clock.Advance(dt)

	if len(o.phases) > 0 && len(o.spawnQueue) == 0 {
		p := o.phases[0]
		o.phases = o.phases[1:]
		if err := p.run(); err != nil {
			o.phases = nil
			o.fail(fmt.Errorf("populate %s: %w", p.name, err))
			return
		}
		if len(o.phases) == 0 {
			o.populated()
		}
	}

	if o.observeRequested {
		o.observeRequested = false
		if o.state == Active {
			o.observe()
		}
	}
}

// NotifyHostileDefeated asks for a live-count check on the next tick.
// Bursts of calls collapse into one check.
func (o *Orchestrator) NotifyHostileDefeated() {
	if o.state == Active {
		o.observeRequested = true
	}
}

// HostileDefeatedAt reports that hostile h fell at the given position. The
// item drops for its type are rolled and placed on the free floor tiles
// nearest to it, then a live-count check is requested as with
// NotifyHostileDefeated. Unknown handles and repeat reports are ignored.
func (o *Orchestrator) HostileDefeatedAt(h Handle, at tile.Point) {
	p, ok := o.hostiles[h]
	if !ok {
		return
	}
	if _, done := o.fallen[h]; done {
		return
	}
	o.fallen[h] = struct{}{}
	o.NotifyHostileDefeated()
	o.dropItems(p, at.Coord())
}

// NotifyPortalEntered starts the transition to the next wave. Only the first
// call per open portal has an effect; it reports whether this call did.
func (o *Orchestrator) NotifyPortalEntered() bool {
	if o.state != PortalOpen || o.portalConsumed {
		return false
	}
	o.portalConsumed = true
	logger.Info("portal entered", "level", o.params.Level)
	o.clock.After(o.cfg.PortalEntryDelay, "portal-transition", o.advance)
	return true
}

// ClaimCollectible moves a collectible into the inventory. It reports false
// for unknown or already claimed handles.
func (o *Orchestrator) ClaimCollectible(h Handle) bool {
	p, ok := o.collectibles[h]
	if !ok {
		return false
	}
	delete(o.collectibles, h)
	o.grant(p.TypeID)
	o.deps.Spawner.DestroyEntity(h)
	o.claimed++
	return true
}

func (o *Orchestrator) setState(s State) {
	if o.state != s {
		logger.Debug("wave state", "from", o.state.String(), "to", s.String(), "level", o.params.Level)
	}
	o.state = s
}

func (o *Orchestrator) fail(err error) {
	o.err = err
	logger.Error("wave halted", "level", o.params.Level, "state", o.state.String(), "error", err)
}

// teardown cancels every timer and removes every entity of the previous wave.
func (o *Orchestrator) teardown() {
	o.clock.CancelAll()
	o.pollTimer = nil
	o.phases = nil
	o.batch = nil

	for _, p := range sortedPlaced(o.hostiles) {
		o.deps.Spawner.DestroyEntity(p.Handle)
	}
	for _, p := range sortedPlaced(o.collectibles) {
		o.deps.Spawner.DestroyEntity(p.Handle)
	}
	if o.portal != nil {
		o.deps.Spawner.DestroyEntity(o.portal.Handle)
	}

	o.hostiles = make(map[Handle]Placed)
	o.fallen = make(map[Handle]struct{})
	o.collectibles = make(map[Handle]Placed)
	o.spawnQueue = nil
	o.queueTimer = nil
	o.portal = nil
	o.arena = nil
	o.detector.Reset()
	o.observeRequested = false
	o.portalConsumed = false
	o.stats = Stats{}
	o.claimed = 0
	o.err = nil
}

func (o *Orchestrator) paintArena() error {
	if o.deps.Terrain != nil {
		o.deps.Terrain.PaintArena(o.arena.Clone())
	}
	return nil
}

func (o *Orchestrator) placePlayer() error {
	o.batch = placement.NewBatch(o.arena.Floor, o.rng)
	o.batch.Reserve(o.arena.Start)
	o.deps.Player.MovePlayerTo(o.arena.Start.Center())
	o.deps.Player.GrantTemporaryInvulnerability(o.cfg.Invulnerability)
	return nil
}

func (o *Orchestrator) spawnHostiles() error {
	types, err := placement.ResolveEnemyQuota(o.roster.EnemyQuota(), o.params.EnemyCount, o.rng)
	if err != nil {
		return err
	}
	ex := placement.Exclusion{Center: o.arena.Start, Radius: o.cfg.EnemySafeRadius}

	if o.params.IsBossWave {
		bossID := o.roster.BossTypeID()
		if bossID == "" {
			return ErrMissingBoss
		}
		o.stats.HostilesPlanned++
		for _, a := range o.batch.PlaceEach([]string{bossID}, ex) {
			o.spawnHostile(a, true)
		}
	}

	o.stats.HostilesPlanned += len(types)
	queue := o.batch.PlaceEach(types, ex)
	if o.cfg.SpawnInterval > 0 && len(queue) > 0 {
		o.spawnQueue = queue
		o.queueTimer = o.clock.Every(o.cfg.SpawnInterval, "spawn-queue", o.spawnNext)
		return nil
	}
	for _, a := range queue {
		o.spawnHostile(a, false)
	}
	o.hostilesSpawned()
	return nil
}

// spawnNext spawns the head of the staggered hostile queue.
func (o *Orchestrator) spawnNext() {
	if len(o.spawnQueue) == 0 {
		return
	}
	o.spawnHostile(o.spawnQueue[0], false)
	o.spawnQueue = o.spawnQueue[1:]
	if len(o.spawnQueue) == 0 {
		o.queueTimer.Cancel()
		o.queueTimer = nil
		o.hostilesSpawned()
	}
}

func (o *Orchestrator) spawnHostile(a placement.Assignment, boss bool) {
	p, ok := o.spawn(a)
	if !ok {
		return
	}
	p.Boss = boss
	o.hostiles[p.Handle] = p
	o.stats.HostilesPlaced++
}

func (o *Orchestrator) hostilesSpawned() {
	if o.stats.HostilesPlaced < o.stats.HostilesPlanned {
		logger.Debug("hostile placement short",
			"level", o.params.Level,
			"planned", o.stats.HostilesPlanned,
			"placed", o.stats.HostilesPlaced)
	}
}

func (o *Orchestrator) spawnCollectibles() error {
	if o.params.CollectibleCount <= 0 {
		return nil
	}
	table, err := o.roster.SpawnTable()
	if err != nil {
		return err
	}
	ex := placement.Exclusion{Center: o.arena.Start, Radius: o.cfg.CollectibleSafeRadius}

	count := o.params.CollectibleCount
	if count > o.batch.Remaining() {
		count = o.batch.Remaining()
	}
	o.stats.CollectiblesPlanned = o.params.CollectibleCount
	for _, a := range o.batch.PlaceWeighted(table, count, ex) {
		if p, ok := o.spawn(a); ok {
			o.collectibles[p.Handle] = p
			o.stats.CollectiblesPlaced++
		}
	}
	if o.stats.CollectiblesPlaced < o.stats.CollectiblesPlanned {
		logger.Debug("collectible placement short",
			"level", o.params.Level,
			"planned", o.stats.CollectiblesPlanned,
			"placed", o.stats.CollectiblesPlaced)
	}
	return nil
}

func (o *Orchestrator) dropItems(from Placed, near tile.Coord) {
	if o.arena == nil {
		return
	}
	items := placement.RollDrops(o.roster.DropTable(), from.TypeID, o.rng)
	if len(items) == 0 {
		return
	}
	free := o.freeTiles()
	dropped := 0
	for _, id := range items {
		c, ok := free.PlaceNear(near)
		if !ok {
			logger.Debug("no floor left for drop", "item", id, "type", from.TypeID)
			break
		}
		if p, ok := o.spawn(placement.Assignment{Tile: c, Payload: id}); ok {
			o.collectibles[p.Handle] = p
			o.stats.CollectiblesDropped++
			dropped++
		}
	}
	logger.Debug("hostile dropped items", "type", from.TypeID, "rolled", len(items), "dropped", dropped)
}

// freeTiles is the floor minus the start tile and every tile held by a live
// hostile, a queued spawn, a collectible or the portal.
func (o *Orchestrator) freeTiles() *placement.Batch {
	b := placement.NewBatch(o.arena.Floor, o.rng)
	b.Reserve(o.arena.Start)
	for h, p := range o.hostiles {
		if _, dead := o.fallen[h]; !dead {
			b.Reserve(p.Tile)
		}
	}
	for _, p := range o.collectibles {
		b.Reserve(p.Tile)
	}
	for _, a := range o.spawnQueue {
		b.Reserve(a.Tile)
	}
	if o.portal != nil {
		b.Reserve(o.portal.Tile)
	}
	return b
}

func (o *Orchestrator) spawn(a placement.Assignment) (Placed, bool) {
	h, err := o.deps.Spawner.SpawnEntity(a.Payload, a.Tile.Center())
	if err != nil {
		logger.Warning("spawn failed", "type", a.Payload, "tile", a.Tile.String(), "error", err)
		return Placed{}, false
	}
	return Placed{Handle: h, TypeID: a.Payload, Tile: a.Tile}, true
}

func (o *Orchestrator) populated() {
	o.batch = nil
	o.deps.Notifier.WaveDisplayChanged(o.params.Level, o.params.IsBossWave)
	logger.Info("wave populated",
		"level", o.params.Level,
		"hostiles", o.stats.HostilesPlaced,
		"collectibles", o.stats.CollectiblesPlaced)
	o.clock.After(o.cfg.ActivationDelay, "activate", o.activate)
}

func (o *Orchestrator) activate() {
	o.setState(Active)
	o.detector.Reset()
	o.observe()
	if o.state == Active {
		o.pollTimer = o.clock.Every(o.cfg.PollInterval, "hostile-poll", o.observe)
	}
}

func (o *Orchestrator) observe() {
	if o.state != Active {
		return
	}
	count := o.deps.Hostiles.CountLiveHostiles()
	changed, cleared := o.detector.Observe(count)
	if changed {
		o.deps.Notifier.HostileCountChanged(count)
	}
	if cleared {
		o.clear()
	}
}

func (o *Orchestrator) clear() {
	o.pollTimer.Cancel()
	o.pollTimer = nil
	o.setState(Cleared)
	logger.Info("wave cleared", "level", o.params.Level, "boss", o.params.IsBossWave)
	o.deps.Notifier.ClearedMessage(o.params.IsBossWave)
	o.clock.After(o.cfg.ClearedMessageDelay, "open-portal", o.openPortal)
}

func (o *Orchestrator) openPortal() {
	b := placement.NewBatch(o.arena.Floor, o.rng)
	c, ok := b.PlaceAwayFrom(placement.Exclusion{Center: o.arena.Start, Radius: o.cfg.PortalMinDistance})
	if !ok {
		o.fail(fmt.Errorf("%w: empty floor", ErrPortalPlacement))
		return
	}
	h, err := o.deps.Spawner.SpawnEntity(o.cfg.PortalTypeID, c.Center())
	if err != nil {
		o.fail(fmt.Errorf("%w: %v", ErrPortalPlacement, err))
		return
	}
	o.portal = &Placed{Handle: h, TypeID: o.cfg.PortalTypeID, Tile: c}
	o.portalConsumed = false
	o.setState(PortalOpen)
	logger.Debug("portal opened", "level", o.params.Level, "tile", c.String())
	o.deps.Notifier.PortalSearchMessage()
}

func (o *Orchestrator) advance() {
	auto := 0
	for _, p := range sortedPlaced(o.collectibles) {
		delete(o.collectibles, p.Handle)
		o.grant(p.TypeID)
		o.deps.Spawner.DestroyEntity(p.Handle)
		auto++
	}

	summary := Summary{
		Level:         o.params.Level,
		Boss:          o.params.IsBossWave,
		Attempts:      o.arena.Attempts,
		FloorTiles:    o.arena.Floor.Len(),
		Stats:         o.stats,
		Claimed:       o.claimed,
		AutoCollected: auto,
		Duration:      o.clock.Now() - o.startedAt,
	}
	if o.deps.Journal != nil {
		if err := o.deps.Journal.RecordWave(summary); err != nil {
			logger.Error("failed to record wave", "level", summary.Level, "error", err)
		}
	}

	next := o.deps.Levels.Advance()
	if err := o.StartOrRegenerateWave(next); err != nil {
		return
	}
	logger.Info("advanced to next wave", "level", next)
}

func (o *Orchestrator) grant(itemID string) {
	qty := 1
	if def, ok := o.roster.Item(itemID); ok {
		qty = def.Amount()
	}
	if err := o.deps.Inventory.AddItem(itemID, qty); err != nil {
		logger.Error("failed to add item", "item", itemID, "quantity", qty, "error", err)
	}
}

func sortedPlaced(m map[Handle]Placed) []Placed {
	out := make([]Placed, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}
