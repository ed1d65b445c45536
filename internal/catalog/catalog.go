// Package catalog loads the enemy, boss and item definitions a wave draws from.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/placement"
	"gopkg.in/yaml.v3"
)

// DefaultSpawnWeight applies to items that do not set spawn_weight.
const DefaultSpawnWeight = 50.0

// EnemyDefinition describes one enemy type.
type EnemyDefinition struct {
	Name        string        `yaml:"name"`
	Kind        string        `yaml:"kind"`
	Template    string        `yaml:"template"`
	Count       int           `yaml:"count"`
	Boss        bool          `yaml:"boss,omitempty"`
	Health      int           `yaml:"health"`
	Damage      int           `yaml:"damage"`
	AttackRange float64       `yaml:"attack_range"`
	Cooldown    time.Duration `yaml:"cooldown"`
}

// ItemDefinition describes one collectible.
type ItemDefinition struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Rarity          string   `yaml:"rarity"`
	SpawnWeight     *float64 `yaml:"spawn_weight,omitempty"`
	AllowArenaSpawn bool     `yaml:"allow_arena_spawn"`
	Quantity        int      `yaml:"quantity,omitempty"`

	// DropChance is the percent chance a defeated hostile drops this item.
	DropChance float64 `yaml:"drop_chance,omitempty"`
	MinDrop    int     `yaml:"min_drop,omitempty"`
	MaxDrop    int     `yaml:"max_drop,omitempty"`
	// DroppedBy restricts drops to one enemy id.
	DroppedBy string `yaml:"dropped_by,omitempty"`
}

// Weight returns the spawn weight, applying the default.
func (d ItemDefinition) Weight() float64 {
	if d.SpawnWeight == nil {
		return DefaultSpawnWeight
	}
	return *d.SpawnWeight
}

// Amount is the quantity granted on pickup, at least 1.
func (d ItemDefinition) Amount() int {
	if d.Quantity < 1 {
		return 1
	}
	return d.Quantity
}

// DropAmounts returns the drop range. Leaving both bounds unset drops one.
func (d ItemDefinition) DropAmounts() (lo, hi int) {
	lo, hi = d.MinDrop, d.MaxDrop
	if lo == 0 && hi == 0 {
		return 1, 1
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// Catalog is the full roster. Map keys are type and item ids.
type Catalog struct {
	Enemies map[string]EnemyDefinition `yaml:"enemies"`
	BossID  string                     `yaml:"boss_id"`
	Items   map[string]ItemDefinition  `yaml:"items"`
}

// LoadFromYAML reads and validates a catalog file.
func LoadFromYAML(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", filename, err)
	}
	return &c, nil
}

// Validate checks kinds, rarities and the boss reference. It does not
// require any enemies or spawnable items; those gaps are reported when a
// wave tries to use them.
func (c *Catalog) Validate() error {
	for id, e := range c.Enemies {
		if _, err := ParseKind(e.Kind); err != nil {
			return fmt.Errorf("enemy %s: %w", id, err)
		}
		if e.Count < 0 {
			return fmt.Errorf("enemy %s: negative count", id)
		}
	}
	for id, it := range c.Items {
		if _, err := ParseRarity(it.Rarity); err != nil {
			return fmt.Errorf("item %s: %w", id, err)
		}
		if it.DropChance < 0 || it.DropChance > 100 {
			return fmt.Errorf("item %s: drop_chance %v outside 0..100", id, it.DropChance)
		}
		if it.MinDrop < 0 || it.MaxDrop < 0 || (it.MaxDrop > 0 && it.MaxDrop < it.MinDrop) {
			return fmt.Errorf("item %s: invalid drop range %d..%d", id, it.MinDrop, it.MaxDrop)
		}
		if it.DroppedBy != "" {
			if _, ok := c.Enemies[it.DroppedBy]; !ok {
				return fmt.Errorf("item %s: dropped_by %q is not a defined enemy", id, it.DroppedBy)
			}
		}
	}
	if c.BossID != "" {
		e, ok := c.Enemies[c.BossID]
		if !ok {
			return fmt.Errorf("boss_id %q is not a defined enemy", c.BossID)
		}
		if !e.Boss {
			return fmt.Errorf("boss_id %q is not marked boss", c.BossID)
		}
	}
	return nil
}

// EnemyQuota lists the non-boss enemy types in id order. Types without a
// template produce an entry with an empty TypeID.
func (c *Catalog) EnemyQuota() []placement.QuotaEntry {
	var out []placement.QuotaEntry
	for _, id := range sortedKeys(c.Enemies) {
		e := c.Enemies[id]
		if e.Boss {
			continue
		}
		entry := placement.QuotaEntry{TypeID: id, Count: e.Count}
		if e.Template == "" {
			entry.TypeID = ""
		}
		out = append(out, entry)
	}
	return out
}

// BossTypeID returns the boss type, or "" when none is configured or it has
// no template.
func (c *Catalog) BossTypeID() string {
	e, ok := c.Enemies[c.BossID]
	if !ok || e.Template == "" {
		return ""
	}
	return c.BossID
}

// SpawnTable builds the weighted table of arena-spawnable items.
func (c *Catalog) SpawnTable() (*placement.Table, error) {
	var entries []placement.Entry
	for _, id := range sortedKeys(c.Items) {
		it := c.Items[id]
		if !it.AllowArenaSpawn {
			continue
		}
		entries = append(entries, placement.Entry{ID: id, Weight: it.Weight()})
	}
	return placement.NewTable(entries)
}

// DropTable lists the items defeated hostiles can drop, in id order.
func (c *Catalog) DropTable() []placement.DropEntry {
	var out []placement.DropEntry
	for _, id := range sortedKeys(c.Items) {
		it := c.Items[id]
		if it.DropChance <= 0 {
			continue
		}
		lo, hi := it.DropAmounts()
		out = append(out, placement.DropEntry{ID: id, Chance: it.DropChance, Min: lo, Max: hi, Source: it.DroppedBy})
	}
	return out
}

// Item looks up an item definition.
func (c *Catalog) Item(id string) (ItemDefinition, bool) {
	it, ok := c.Items[id]
	return it, ok
}

// Enemy looks up an enemy definition.
func (c *Catalog) Enemy(id string) (EnemyDefinition, bool) {
	e, ok := c.Enemies[id]
	return e, ok
}

// HostileTypes lists every enemy id, boss included.
func (c *Catalog) HostileTypes() []string {
	return sortedKeys(c.Enemies)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
