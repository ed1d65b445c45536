package sim

import (
	"testing"
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/catalog"
	"github.com/lawnchairsociety/wavecrawler/internal/tile"
)

type fakeTarget struct {
	pos   tile.Point
	taken []int
}

func (f *fakeTarget) Position() tile.Point { return f.pos }

func (f *fakeTarget) TakeDamage(amount int, now time.Duration) bool {
	f.taken = append(f.taken, amount)
	return true
}

func TestMeleeCooldownAndRange(t *testing.T) {
	a := NewAttacker(catalog.EnemyDefinition{Kind: "melee", Damage: 10, AttackRange: 1.5, Cooldown: time.Second})
	if _, ok := a.(*MeleeAttacker); !ok {
		t.Fatalf("expected melee attacker, got %T", a)
	}
	from := tile.Point{X: 0.5, Y: 0.5}
	near := &fakeTarget{pos: tile.Point{X: 1.5, Y: 0.5}}

	steps := []struct {
		at   time.Duration
		want bool
	}{
		{0, true},
		{500 * time.Millisecond, false},
		{time.Second, true},
		{1900 * time.Millisecond, false},
		{2 * time.Second, true},
	}
	for _, s := range steps {
		if got := a.Attack(from, near, s.at); got != s.want {
			t.Errorf("Attack at %v = %v, want %v", s.at, got, s.want)
		}
	}
	if len(near.taken) != 3 || near.taken[0] != 10 {
		t.Errorf("damage taken = %v", near.taken)
	}

	far := &fakeTarget{pos: tile.Point{X: 5.5, Y: 0.5}}
	if a.Attack(from, far, 10*time.Second) {
		t.Error("melee hit a target out of range")
	}
	if a.Spent() {
		t.Error("melee attacker should never be spent")
	}
}

func TestRangedMinimumRange(t *testing.T) {
	a := NewAttacker(catalog.EnemyDefinition{Kind: "ranged", Damage: 6, AttackRange: 6})
	if _, ok := a.(*RangedAttacker); !ok {
		t.Fatalf("expected ranged attacker, got %T", a)
	}
	from := tile.Point{}
	if a.Attack(from, &fakeTarget{pos: tile.Point{X: 0.5}}, 0) {
		t.Error("ranged attacker fired at point blank")
	}
	target := &fakeTarget{pos: tile.Point{X: 4}}
	if !a.Attack(from, target, 0) {
		t.Error("ranged attacker should hit at distance 4")
	}
	if a.Attack(from, &fakeTarget{pos: tile.Point{X: 7}}, time.Second) {
		t.Error("ranged attacker hit beyond its range")
	}
}

func TestExplodingDetonatesOnce(t *testing.T) {
	a := NewAttacker(catalog.EnemyDefinition{Kind: "exploding", Damage: 25})
	from := tile.Point{}
	if a.Attack(from, &fakeTarget{pos: tile.Point{X: 3}}, 0) || a.Spent() {
		t.Fatal("detonated outside the default radius")
	}
	target := &fakeTarget{pos: tile.Point{X: 1}}
	if !a.Attack(from, target, 0) || !a.Spent() {
		t.Fatal("expected detonation")
	}
	if a.Attack(from, target, time.Second) {
		t.Error("detonated twice")
	}
	if len(target.taken) != 1 || target.taken[0] != 25 {
		t.Errorf("damage taken = %v", target.taken)
	}
}
