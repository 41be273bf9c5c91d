package autoseq

import "sync"

// Status provides thread-safe observation of a running mission. The tick
// goroutine updates it; dashboards, log sinks, or tests may snapshot it from
// anywhere. A mission that stalls shows up here as an unchanged step across
// growing tick counts - that is the core's only diagnostic surface.
type Status struct {
	mu          sync.RWMutex
	active      bool
	step        string
	ticks       uint64
	transitions uint64
	elapsed     float64
}

// StatusSnapshot is a point-in-time copy of mission status.
type StatusSnapshot struct {
	Active      bool
	Step        string
	Ticks       uint64
	Transitions uint64
	Elapsed     float64
}

// NewStatus creates an empty Status.
func NewStatus() *Status {
	return &Status{}
}

// SetActive records whether the mission is running.
func (st *Status) SetActive(active bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.active = active
}

// SetStep records the current step name, counting a transition when the
// name changes.
func (st *Status) SetStep(step string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if step != st.step {
		st.transitions++
	}
	st.step = step
}

// Tick records one tick at the given mission-elapsed time.
func (st *Status) Tick(elapsed float64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.ticks++
	st.elapsed = elapsed
}

// Snapshot returns a defensive copy of the current status.
func (st *Status) Snapshot() StatusSnapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return StatusSnapshot{
		Active:      st.active,
		Step:        st.step,
		Ticks:       st.ticks,
		Transitions: st.transitions,
		Elapsed:     st.elapsed,
	}
}
