package autoseq

// Timer arms a future firing of a Signal after a delay on the mission time
// base (elapsed seconds supplied by the tick driver). Using mission time
// instead of the wall clock keeps timer behavior reproducible in tests.
//
// A Timer holds at most one pending arm; setting it again replaces the
// previous deadline. There is no cancel operation distinct from re-arming.
// Timers are owned and polled by a single goroutine (the tick), so they
// carry no locking.
type Timer struct {
	fireAt float64
	target *Signal
	armed  bool
}

// NewTimer creates an unarmed Timer.
func NewTimer() *Timer {
	return &Timer{}
}

// Set arms the Timer to fire target once delay seconds have elapsed past now.
// Re-arming replaces any pending deadline. The target is cleared on arm so a
// Signal reused across steps cannot carry a stale firing.
func (t *Timer) Set(now, delay float64, target *Signal) {
	target.Clear()
	t.fireAt = now + delay
	t.target = target
	t.armed = true
}

// Poll fires the armed target if the deadline has passed. The tick driver
// calls this once per tick before dispatch. Firing disarms the Timer.
func (t *Timer) Poll(now float64) {
	if !t.armed || now < t.fireAt {
		return
	}
	t.armed = false
	t.target.Set()
	t.target = nil
}

// Armed reports whether a firing is pending.
func (t *Timer) Armed() bool {
	return t.armed
}
