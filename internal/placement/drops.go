package placement

import "math/rand"

// DropEntry is an item a defeated hostile may leave behind.
type DropEntry struct {
	ID string
	// Chance is a percentage in [0, 100]. Entries at 0 never drop.
	Chance float64
	Min    int
	Max    int
	// Source limits the drop to one hostile type; empty means any.
	Source string
}

// RollDrops rolls every entry that applies to sourceType once and returns
// the dropped item ids, an entry repeated for each unit of its amount.
func RollDrops(entries []DropEntry, sourceType string, rng *rand.Rand) []string {
	var out []string
	for _, e := range entries {
		if e.Chance <= 0 || (e.Source != "" && e.Source != sourceType) {
			continue
		}
		if rng.Float64()*100 >= e.Chance {
			continue
		}
		lo, hi := max(e.Min, 0), e.Max
		if hi < lo {
			hi = lo
		}
		n := lo + rng.Intn(hi-lo+1)
		for i := 0; i < n; i++ {
			out = append(out, e.ID)
		}
	}
	return out
}
