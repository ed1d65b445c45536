package placement

import (
	"math/rand"
	"testing"
)

func TestRollDrops(t *testing.T) {
	tests := []struct {
		name    string
		entries []DropEntry
		source  string
		want    map[string]int
	}{
		{"certain fixed amount", []DropEntry{{ID: "potion", Chance: 100, Min: 2, Max: 2}}, "grunt", map[string]int{"potion": 2}},
		{"zero chance", []DropEntry{{ID: "potion", Chance: 0, Min: 1, Max: 3}}, "grunt", map[string]int{}},
		{"other source", []DropEntry{{ID: "sigil", Chance: 100, Min: 1, Max: 1, Source: "warden"}}, "grunt", map[string]int{}},
		{"matching source", []DropEntry{{ID: "sigil", Chance: 100, Min: 1, Max: 1, Source: "warden"}}, "warden", map[string]int{"sigil": 1}},
		{"max below min", []DropEntry{{ID: "coin", Chance: 100, Min: 3, Max: 1}}, "grunt", map[string]int{"coin": 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			for i := 0; i < 20; i++ {
				got := map[string]int{}
				for _, id := range RollDrops(tt.entries, tt.source, rng) {
					got[id]++
				}
				if len(got) != len(tt.want) {
					t.Fatalf("drops = %v, want %v", got, tt.want)
				}
				for id, n := range tt.want {
					if got[id] != n {
						t.Fatalf("drops = %v, want %v", got, tt.want)
					}
				}
			}
		})
	}
}

func TestRollDropsAmountRange(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	entries := []DropEntry{{ID: "coin", Chance: 100, Min: 1, Max: 3}}
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		n := len(RollDrops(entries, "", rng))
		if n < 1 || n > 3 {
			t.Fatalf("amount %d outside [1,3]", n)
		}
		seen[n] = true
	}
	if len(seen) != 3 {
		t.Errorf("amounts seen = %v, want 1, 2 and 3", seen)
	}
}

func TestRollDropsChance(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	entries := []DropEntry{{ID: "potion", Chance: 25, Min: 1, Max: 1}}
	hits := 0
	for i := 0; i < 4000; i++ {
		hits += len(RollDrops(entries, "", rng))
	}
	if hits < 800 || hits > 1200 {
		t.Errorf("hits = %d of 4000, want about 1000", hits)
	}
}
