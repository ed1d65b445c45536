package sim

import (
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/catalog"
	"github.com/lawnchairsociety/wavecrawler/internal/tile"
)

// Target is something a hostile can hit.
type Target interface {
	Position() tile.Point
	// TakeDamage applies damage at game time now and reports whether it landed.
	TakeDamage(amount int, now time.Duration) bool
}

// Attacker is a hostile's attack style.
type Attacker interface {
	// Attack tries to hit target from the attacker's position. It reports
	// whether an attack was made, whether or not it landed.
	Attack(from tile.Point, target Target, now time.Duration) bool
	// Spent reports that the attacker destroyed itself.
	Spent() bool
}

// NewAttacker builds the attack style for an enemy definition.
func NewAttacker(def catalog.EnemyDefinition) Attacker {
	kind, _ := catalog.ParseKind(def.Kind)
	switch kind {
	case catalog.Ranged:
		return &RangedAttacker{swing: newSwing(def, 6), MinRange: 1}
	case catalog.Exploding:
		return &ExplodingAttacker{Damage: def.Damage, Radius: orDefault(def.AttackRange, 1.5)}
	default:
		return &MeleeAttacker{swing: newSwing(def, 1.5)}
	}
}

func orDefault(v, d float64) float64 {
	if v <= 0 {
		return d
	}
	return v
}

// swing is a ranged-check plus cooldown shared by melee and ranged styles.
type swing struct {
	Damage   int
	Range    float64
	Cooldown time.Duration

	ready time.Duration
}

func newSwing(def catalog.EnemyDefinition, defaultRange float64) swing {
	return swing{
		Damage:   def.Damage,
		Range:    orDefault(def.AttackRange, defaultRange),
		Cooldown: def.Cooldown,
	}
}

func (s *swing) try(from tile.Point, target Target, now time.Duration) bool {
	if now < s.ready || from.Distance(target.Position()) > s.Range {
		return false
	}
	s.ready = now + s.Cooldown
	target.TakeDamage(s.Damage, now)
	return true
}

// MeleeAttacker hits adjacent targets on a cooldown.
type MeleeAttacker struct{ swing }

func (m *MeleeAttacker) Attack(from tile.Point, target Target, now time.Duration) bool {
	return m.try(from, target, now)
}

func (m *MeleeAttacker) Spent() bool { return false }

// RangedAttacker hits distant targets but cannot fire at anything closer
// than MinRange.
type RangedAttacker struct {
	swing
	MinRange float64
}

func (r *RangedAttacker) Attack(from tile.Point, target Target, now time.Duration) bool {
	if from.Distance(target.Position()) < r.MinRange {
		return false
	}
	return r.try(from, target, now)
}

func (r *RangedAttacker) Spent() bool { return false }

// ExplodingAttacker detonates once when a target comes within Radius and
// then destroys itself.
type ExplodingAttacker struct {
	Damage int
	Radius float64

	detonated bool
}

func (e *ExplodingAttacker) Attack(from tile.Point, target Target, now time.Duration) bool {
	if e.detonated || from.Distance(target.Position()) > e.Radius {
		return false
	}
	e.detonated = true
	target.TakeDamage(e.Damage, now)
	return true
}

func (e *ExplodingAttacker) Spent() bool { return e.detonated }
