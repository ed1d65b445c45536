package wave

import (
	"github.com/lawnchairsociety/wavecrawler/internal/arena"
	"github.com/lawnchairsociety/wavecrawler/internal/difficulty"
)

// Snapshot is a copy of the orchestrator's view of the current wave. The
// hostile list holds everything spawned this wave; whether a hostile is
// still alive is the host's knowledge.
type Snapshot struct {
	State        State
	Params       difficulty.Params
	Arena        *arena.Arena
	Hostiles     []Placed
	Collectibles []Placed
	Portal       *Placed
	Stats        Stats
	Err          error
}

// Snapshot copies the current wave state.
func (o *Orchestrator) Snapshot() Snapshot {
	s := Snapshot{
		State:        o.state,
		Params:       o.params,
		Hostiles:     sortedPlaced(o.hostiles),
		Collectibles: sortedPlaced(o.collectibles),
		Stats:        o.stats,
		Err:          o.err,
	}
	if o.arena != nil {
		s.Arena = o.arena.Clone()
	}
	if o.portal != nil {
		p := *o.portal
		s.Portal = &p
	}
	return s
}
