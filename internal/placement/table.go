package placement

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrEmptyTable is returned for a table with no entries.
	ErrEmptyTable = errors.New("weighted table has no entries")
	// ErrZeroWeight is returned when the weights sum to zero.
	ErrZeroWeight = errors.New("weighted table has zero total weight")
	// ErrNegativeWeight is returned for an entry with a negative weight.
	ErrNegativeWeight = errors.New("weighted table has a negative weight")
)

// Entry is one weighted option.
type Entry struct {
	ID     string
	Weight float64
}

// Table is a validated weighted selection table.
type Table struct {
	entries []Entry
	total   float64
}

// NewTable validates entries. Tables that could never produce a pick are
// rejected here rather than at draw time.
func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	total := 0.0
	for _, e := range entries {
		if e.Weight < 0 {
			return nil, fmt.Errorf("%w: %s=%v", ErrNegativeWeight, e.ID, e.Weight)
		}
		total += e.Weight
	}
	if total <= 0 {
		return nil, ErrZeroWeight
	}
	return &Table{entries: append([]Entry(nil), entries...), total: total}, nil
}

// Total is the sum of all weights.
func (t *Table) Total() float64 {
	return t.total
}

// Entries returns a copy of the table's entries.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Pick draws u in [0, total) and returns the first positive-weight entry
// whose cumulative weight reaches u. Zero-weight entries are never picked.
func (t *Table) Pick(rng *rand.Rand) string {
	u := rng.Float64() * t.total
	cumulative := 0.0
	last := ""
	for _, e := range t.entries {
		if e.Weight <= 0 {
			continue
		}
		cumulative += e.Weight
		last = e.ID
		if cumulative >= u {
			return e.ID
		}
	}
	return last
}
