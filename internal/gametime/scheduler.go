// Package gametime runs timers against game time that only moves when the
// host advances it, so waits and polls follow the frame loop rather than
// the wall clock.
package gametime

import (
	"time"
)

// Timer is a pending callback. Cancel is safe to call more than once and
// from inside the callback itself.
type Timer struct {
	name      string
	due       time.Duration
	interval  time.Duration
	fn        func()
	seq       uint64
	cancelled bool
}

// Name identifies the timer in logs.
func (t *Timer) Name() string {
	return t.name
}

// Cancel stops the timer from firing again.
func (t *Timer) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// Active reports whether the timer can still fire.
func (t *Timer) Active() bool {
	return t != nil && !t.cancelled
}

// Scheduler owns game time and its timers. It is not safe for concurrent
// use; the host's frame loop drives it.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	timers []*Timer
}

// NewScheduler starts game time at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now is the elapsed game time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once, d after now. A non-positive d fires on the next Advance.
func (s *Scheduler) After(d time.Duration, name string, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	return s.add(&Timer{name: name, due: s.now + d, fn: fn})
}

// Every runs fn each interval, first at now+interval. Intervals below one
// millisecond are raised to one millisecond.
func (s *Scheduler) Every(interval time.Duration, name string, fn func()) *Timer {
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	return s.add(&Timer{name: name, due: s.now + interval, interval: interval, fn: fn})
}

func (s *Scheduler) add(t *Timer) *Timer {
	s.seq++
	t.seq = s.seq
	s.timers = append(s.timers, t)
	return t
}

// Advance moves game time forward by dt, firing due timers in deadline
// order (ties in creation order). While a callback runs, Now reports that
// timer's deadline.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.due
		if t.interval > 0 {
			t.due += t.interval
		} else {
			t.cancelled = true
		}
		t.fn()
	}
	s.now = target
	s.compact()
}

// CancelAll cancels every pending timer.
func (s *Scheduler) CancelAll() {
	for _, t := range s.timers {
		t.cancelled = true
	}
	s.timers = nil
}

// Pending counts timers that can still fire.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (s *Scheduler) nextDue(target time.Duration) *Timer {
	var best *Timer
	for _, t := range s.timers {
		if t.cancelled || t.due > target {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) compact() {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = live
}
