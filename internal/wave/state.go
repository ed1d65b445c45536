package wave

// State is the wave lifecycle phase.
type State int

const (
	Idle State = iota
	Generating
	Populating
	Active
	Cleared
	PortalOpen
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Populating:
		return "populating"
	case Active:
		return "active"
	case Cleared:
		return "cleared"
	case PortalOpen:
		return "portal_open"
	default:
		return "unknown"
	}
}

// ClearDetector turns a stream of live-hostile counts into a single clear
// event: it fires on the first observation of zero that follows a non-zero
// or unknown count, and never again until Reset.
type ClearDetector struct {
	last  int
	seen  bool
	fired bool
}

// Observe records count. changed reports a different count than the last
// observation; cleared reports the transition into zero.
func (d *ClearDetector) Observe(count int) (changed, cleared bool) {
	changed = !d.seen || count != d.last
	wasLive := !d.seen || d.last > 0
	d.last, d.seen = count, true
	if count == 0 && wasLive && !d.fired {
		d.fired = true
		cleared = true
	}
	return changed, cleared
}

// Fired reports whether the clear event has happened.
func (d *ClearDetector) Fired() bool {
	return d.fired
}

// Reset forgets all observations.
func (d *ClearDetector) Reset() {
	*d = ClearDetector{}
}
