package wave

import "testing"

func TestClearDetectorSequence(t *testing.T) {
	var d ClearDetector
	counts := []int{3, 3, 1, 0, 0}
	wantChanged := []bool{true, false, true, true, false}
	wantCleared := []bool{false, false, false, true, false}

	for i, c := range counts {
		changed, cleared := d.Observe(c)
		if changed != wantChanged[i] || cleared != wantCleared[i] {
			t.Errorf("Observe(%d) at %d = (%v, %v), want (%v, %v)",
				c, i, changed, cleared, wantChanged[i], wantCleared[i])
		}
	}
	if !d.Fired() {
		t.Error("Fired() = false after clear")
	}
}

func TestClearDetectorFiresOnlyOnce(t *testing.T) {
	var d ClearDetector
	fired := 0
	for _, c := range []int{2, 0, 1, 0, 0, 3, 0} {
		if _, cleared := d.Observe(c); cleared {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}
	d.Reset()
	if _, cleared := d.Observe(0); !cleared {
		t.Error("zero after reset should clear")
	}
}

func TestStateString(t *testing.T) {
	names := map[State]string{
		Idle: "idle", Generating: "generating", Populating: "populating",
		Active: "active", Cleared: "cleared", PortalOpen: "portal_open", State(99): "unknown",
	}
	for s, want := range names {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
