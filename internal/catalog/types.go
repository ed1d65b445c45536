package catalog

import (
	"fmt"
	"time"
)

// Kind is an enemy attack style.
type Kind int

const (
	Melee Kind = iota
	Ranged
	Exploding
)

// String returns the YAML name of the kind.
func (k Kind) String() string {
	switch k {
	case Melee:
		return "melee"
	case Ranged:
		return "ranged"
	case Exploding:
		return "exploding"
	default:
		return "unknown"
	}
}

// ParseKind converts a YAML kind name. An empty name means melee.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "melee":
		return Melee, nil
	case "ranged":
		return Ranged, nil
	case "exploding":
		return Exploding, nil
	default:
		return Melee, fmt.Errorf("unknown enemy kind %q", s)
	}
}

// Rarity grades collectibles.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
)

// String returns the YAML name of the rarity.
func (r Rarity) String() string {
	switch r {
	case Common:
		return "common"
	case Uncommon:
		return "uncommon"
	case Rare:
		return "rare"
	case Epic:
		return "epic"
	case Legendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// ParseRarity converts a YAML rarity name. An empty name means common.
func ParseRarity(s string) (Rarity, error) {
	switch s {
	case "", "common":
		return Common, nil
	case "uncommon":
		return Uncommon, nil
	case "rare":
		return Rare, nil
	case "epic":
		return Epic, nil
	case "legendary":
		return Legendary, nil
	default:
		return Common, fmt.Errorf("unknown rarity %q", s)
	}
}

// Default returns the built-in roster used when no catalog file is given.
func Default() *Catalog {
	return &Catalog{
		Enemies: map[string]EnemyDefinition{
			"grunt": {
				Name: "Grunt", Kind: "melee", Template: "enemies/grunt", Count: 3,
				Health: 30, Damage: 10, AttackRange: 1.2, Cooldown: time.Second,
			},
			"archer": {
				Name: "Archer", Kind: "ranged", Template: "enemies/archer", Count: 1,
				Health: 20, Damage: 6, AttackRange: 6, Cooldown: 1500 * time.Millisecond,
			},
			"bomber": {
				Name: "Bomber", Kind: "exploding", Template: "enemies/bomber", Count: 1,
				Health: 10, Damage: 25, AttackRange: 1.5,
			},
			"warden": {
				Name: "Warden", Kind: "melee", Template: "enemies/warden", Boss: true,
				Health: 300, Damage: 20, AttackRange: 2, Cooldown: 2 * time.Second,
			},
		},
		BossID: "warden",
		Items: map[string]ItemDefinition{
			"heal_potion": {
				Name: "Heal Potion", Description: "Restores health.",
				Rarity: "common", AllowArenaSpawn: true, DropChance: 20,
			},
			"range_potion": {
				Name: "Range Potion", Description: "Extends attack range for a while.",
				Rarity: "uncommon", SpawnWeight: weight(25), AllowArenaSpawn: true,
			},
			"warden_sigil": {
				Name: "Warden Sigil", Description: "Proof of a fallen warden.",
				Rarity: "legendary", AllowArenaSpawn: false,
				DropChance: 100, DroppedBy: "warden",
			},
		},
	}
}

func weight(w float64) *float64 { return &w }
