package placement

import (
	"errors"
	"math/rand"
)

// ErrNoEnemyTypes is returned when a quota has no usable enemy type.
var ErrNoEnemyTypes = errors.New("no enemy types configured")

// QuotaEntry asks for Count copies of TypeID. An empty TypeID marks an entry
// with no template and is ignored.
type QuotaEntry struct {
	TypeID string
	Count  int
}

// ResolveEnemyQuota expands entries into exactly target type ids: the
// configured counts, padded with uniformly random configured types or
// trimmed by removing random entries, then shuffled.
func ResolveEnemyQuota(entries []QuotaEntry, target int, rng *rand.Rand) ([]string, error) {
	var types []string
	var list []string
	for _, e := range entries {
		if e.TypeID == "" {
			continue
		}
		types = append(types, e.TypeID)
		for i := 0; i < e.Count; i++ {
			list = append(list, e.TypeID)
		}
	}
	if len(types) == 0 {
		return nil, ErrNoEnemyTypes
	}
	if target <= 0 {
		return []string{}, nil
	}

	for len(list) < target {
		list = append(list, types[rng.Intn(len(types))])
	}
	for len(list) > target {
		i := rng.Intn(len(list))
		list = append(list[:i], list[i+1:]...)
	}

	Shuffle(rng, list)
	return list, nil
}

// Shuffle is a Fisher-Yates shuffle driven by rng.
func Shuffle[T any](rng *rand.Rand, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
