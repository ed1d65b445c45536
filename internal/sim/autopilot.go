package sim

import (
	"time"

	"github.com/lawnchairsociety/wavecrawler/internal/logger"
	"github.com/lawnchairsociety/wavecrawler/internal/wave"
)

// Autopilot plays waves on its own: every Interval it claims the nearest
// collectible, then defeats the nearest hostile, or walks into an open
// portal.
type Autopilot struct {
	world    *World
	orch     *wave.Orchestrator
	interval time.Duration
	next     time.Duration

	Defeated int
	Claimed  int
	Portals  int
}

// NewAutopilot creates a pilot acting every interval of game time.
func NewAutopilot(w *World, o *wave.Orchestrator, interval time.Duration) *Autopilot {
	if interval <= 0 {
		interval = time.Second
	}
	return &Autopilot{world: w, orch: o, interval: interval}
}

// Step acts if the interval has elapsed at game time now.
func (a *Autopilot) Step(now time.Duration) {
	if now < a.next {
		return
	}
	a.next = now + a.interval

	switch a.orch.State() {
	case wave.Active, wave.Cleared:
		a.claimNearest()
		if a.orch.State() == wave.Active {
			a.defeatNearest()
		}
	case wave.PortalOpen:
		a.claimNearest()
		a.enterPortal()
	}
}

func (a *Autopilot) claimNearest() {
	items := a.world.Entities(RoleCollectible)
	if len(items) == 0 {
		return
	}
	best := a.nearest(items)
	a.world.MovePlayerTo(best.Pos)
	if a.orch.ClaimCollectible(best.Handle) {
		a.Claimed++
	}
}

func (a *Autopilot) defeatNearest() {
	targets := append(a.world.Entities(RoleHostile), a.world.Entities(RoleBoss)...)
	if len(targets) == 0 {
		return
	}
	best := a.nearest(targets)
	if err := a.world.Kill(best.Handle); err != nil {
		logger.Warning("autopilot could not defeat hostile", "handle", uint64(best.Handle), "error", err)
		return
	}
	a.Defeated++
}

func (a *Autopilot) enterPortal() {
	portals := a.world.Entities(RolePortal)
	if len(portals) == 0 {
		return
	}
	a.world.MovePlayerTo(portals[0].Pos)
	if a.orch.NotifyPortalEntered() {
		a.Portals++
	}
}

func (a *Autopilot) nearest(es []Entity) Entity {
	from := a.world.Player().Pos
	best := es[0]
	for _, e := range es[1:] {
		if e.Pos.Distance(from) < best.Pos.Distance(from) {
			best = e
		}
	}
	return best
}
