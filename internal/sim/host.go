package sim

import (
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

// Host runs one frame of the orchestrator, the world and, if set, the
// autopilot in that order.
type Host struct {
	World *World
	Orch  *wave.Orchestrator
	Pilot *Autopilot
}

// NewHost wires the world's defeat callback and clock to the orchestrator.
func NewHost(w *World, o *wave.Orchestrator, pilot *Autopilot) *Host {
	w.OnHostileDefeated = o.HostileDefeatedAt
	w.SetClock(o.Clock().Now)
	return &Host{World: w, Orch: o, Pilot: pilot}
}

// Frame advances everything by dt.
func (h *Host) Frame(dt time.Duration) {
	h.Orch.Tick(dt)
	now := h.Orch.Clock().Now()
	h.World.Step(now)
	if h.Pilot != nil {
		h.Pilot.Step(now)
	}
}
