// Package sim is a headless host for the wave orchestrator: a world of
// entities with simple combat, and a scripted player.
package sim

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/catalog"
	"github.com/lawnchairsociety/wavecrawler/internal/logger"
	"github.com/lawnchairsociety/wavecrawler/internal/tile"
	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

// ErrEmptyType is returned when spawning without a type id.
var ErrEmptyType = errors.New("empty entity type")

// Role is how the world treats an entity type.
type Role int

const (
	RoleOther Role = iota
	RoleHostile
	RoleBoss
	RoleCollectible
	RolePortal
)

func (r Role) String() string {
	switch r {
	case RoleHostile:
		return "hostile"
	case RoleBoss:
		return "boss"
	case RoleCollectible:
		return "collectible"
	case RolePortal:
		return "portal"
	default:
		return "other"
	}
}

// Hostile reports whether the role counts toward the live hostile total.
func (r Role) Hostile() bool {
	return r == RoleHostile || r == RoleBoss
}

// Entity is a spawned thing in the world.
type Entity struct {
	Handle    wave.Handle
	TypeID    string
	Role      Role
	Pos       tile.Point
	Health    int
	MaxHealth int

	attacker Attacker
}

// IsAlive returns true if the entity has health remaining
func (e *Entity) IsAlive() bool {
	return e.Health > 0
}

// TakeDamage applies damage and returns the damage taken.
func (e *Entity) TakeDamage(damage int) int {
	if damage < 1 {
		damage = 1
	}
	if damage > e.Health {
		damage = e.Health
	}
	e.Health -= damage
	return damage
}

// PlayerState is the player's position and health.
type PlayerState struct {
	Pos               tile.Point
	Health            int
	MaxHealth         int
	InvulnerableUntil time.Duration
	Hits              int
}

// Downed reports whether the player has no health left.
func (p PlayerState) Downed() bool {
	return p.Health <= 0
}

type playerTarget struct{ w *World }

func (t playerTarget) Position() tile.Point { return t.w.player.Pos }

func (t playerTarget) TakeDamage(amount int, now time.Duration) bool {
	p := &t.w.player
	if now < p.InvulnerableUntil || p.Downed() {
		return false
	}
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
	p.Hits++
	if p.Downed() {
		logger.Warning("player downed", "hits", p.Hits)
	}
	return true
}

// World implements the orchestrator's Spawner, HostileCounter, Player and
// Terrain collaborators. It is driven by the same frame loop as the
// orchestrator and is not safe for concurrent use.
type World struct {
	roster       *catalog.Catalog
	portalTypeID string

	next     wave.Handle
	entities map[wave.Handle]*Entity
	arena    *arena.Arena
	player   PlayerState
	now      time.Duration
	clock    func() time.Duration

	// OnHostileDefeated is called with the hostile's last position whenever
	// it leaves the world other than through DestroyEntity.
	OnHostileDefeated func(h wave.Handle, at tile.Point)
}

// NewWorld creates an empty world.
func NewWorld(roster *catalog.Catalog, portalTypeID string, playerHealth int) *World {
	return &World{
		roster:       roster,
		portalTypeID: portalTypeID,
		entities:     make(map[wave.Handle]*Entity),
		player:       PlayerState{Health: playerHealth, MaxHealth: playerHealth},
	}
}

// SpawnEntity creates an entity of typeID at at.
func (w *World) SpawnEntity(typeID string, at tile.Point) (wave.Handle, error) {
	if typeID == "" {
		return 0, ErrEmptyType
	}
	w.next++
	e := &Entity{Handle: w.next, TypeID: typeID, Pos: at, Role: w.roleOf(typeID), Health: 1, MaxHealth: 1}
	if def, ok := w.roster.Enemy(typeID); ok {
		e.Health = max(def.Health, 1)
		e.MaxHealth = e.Health
		e.attacker = NewAttacker(def)
	}
	w.entities[e.Handle] = e
	return e.Handle, nil
}

func (w *World) roleOf(typeID string) Role {
	if typeID == w.portalTypeID {
		return RolePortal
	}
	if def, ok := w.roster.Enemy(typeID); ok {
		if def.Boss || typeID == w.roster.BossID {
			return RoleBoss
		}
		return RoleHostile
	}
	if _, ok := w.roster.Item(typeID); ok {
		return RoleCollectible
	}
	return RoleOther
}

// DestroyEntity removes h. Unknown handles are ignored.
func (w *World) DestroyEntity(h wave.Handle) {
	delete(w.entities, h)
}

// CountLiveHostiles counts hostiles and bosses with health remaining.
func (w *World) CountLiveHostiles() int {
	n := 0
	for _, e := range w.entities {
		if e.Role.Hostile() && e.IsAlive() {
			n++
		}
	}
	return n
}

func (w *World) MovePlayerTo(at tile.Point) {
	w.player.Pos = at
}

func (w *World) GrantTemporaryInvulnerability(d time.Duration) {
	if until := w.Now() + d; until > w.player.InvulnerableUntil {
		w.player.InvulnerableUntil = until
	}
}

func (w *World) PaintArena(a *arena.Arena) {
	w.arena = a
}

// SetClock makes the world read game time from clock between steps.
func (w *World) SetClock(clock func() time.Duration) {
	w.clock = clock
}

// Now is the world's game time.
func (w *World) Now() time.Duration {
	if w.clock != nil {
		return w.clock()
	}
	return w.now
}

// Arena returns the last painted arena.
func (w *World) Arena() *arena.Arena {
	return w.arena
}

// Player returns a copy of the player state.
func (w *World) Player() PlayerState {
	return w.player
}

// Heal restores the player to full health.
func (w *World) Heal() {
	w.player.Health = w.player.MaxHealth
}

// Entity returns a copy of the entity behind h.
func (w *World) Entity(h wave.Handle) (Entity, bool) {
	e, ok := w.entities[h]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// Entities returns copies of the entities with the given role, in handle order.
func (w *World) Entities(role Role) []Entity {
	var out []Entity
	for _, e := range w.entities {
		if e.Role == role {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// Damage hurts a hostile. A hostile brought to zero health is removed and
// reported through OnHostileDefeated.
func (w *World) Damage(h wave.Handle, amount int) error {
	e, ok := w.entities[h]
	if !ok {
		return fmt.Errorf("no entity %d", h)
	}
	if !e.Role.Hostile() {
		return fmt.Errorf("entity %d is a %s", h, e.Role)
	}
	e.TakeDamage(amount)
	if !e.IsAlive() {
		w.defeat(e)
	}
	return nil
}

// Kill removes a hostile outright.
func (w *World) Kill(h wave.Handle) error {
	e, ok := w.entities[h]
	if !ok {
		return fmt.Errorf("no entity %d", h)
	}
	return w.Damage(h, e.Health)
}

// Step advances the world to game time now and lets hostiles attack.
func (w *World) Step(now time.Duration) {
	w.now = now
	target := playerTarget{w}
	for _, e := range w.Entities(RoleHostile) {
		w.attack(e.Handle, target)
	}
	for _, e := range w.Entities(RoleBoss) {
		w.attack(e.Handle, target)
	}
}

func (w *World) attack(h wave.Handle, target Target) {
	e, ok := w.entities[h]
	if !ok || e.attacker == nil || !e.IsAlive() {
		return
	}
	if e.attacker.Attack(e.Pos, target, w.now) && e.attacker.Spent() {
		logger.Debug("hostile detonated", "type", e.TypeID, "handle", uint64(h))
		e.Health = 0
		w.defeat(e)
	}
}

func (w *World) defeat(e *Entity) {
	delete(w.entities, e.Handle)
	if w.OnHostileDefeated != nil {
		w.OnHostileDefeated(e.Handle, e.Pos)
	}
}
