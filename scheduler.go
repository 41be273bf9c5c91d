package autoseq

// StepID identifies one phase of a mission. Each mission declares its own
// closed enumeration of steps; no steps are created at runtime.
type StepID int

// NoStep is returned alongside ready == false.
const NoStep StepID = -1

// Scheduler is the finite-state engine at the heart of a mission. It holds
// the current step and at most one armed transition rule: a single-signal
// wait, a race over several signals, or nothing (the step re-runs every tick
// until it arms something or the scheduler stops).
//
// Transition evaluation happens at the top of CurrentReadyStep, so a
// satisfied wait advances the current step before the mission dispatches.
// Each step's body therefore executes exactly once per actual visit, and a
// step is never re-dispatched while its wait is still pending.
//
// A Scheduler is owned by exactly one mission and is only touched from the
// tick goroutine. The Signals it polls may be set elsewhere; that is the
// only cross-context surface.
type Scheduler struct {
	name    string
	active  bool
	current StepID
	next    StepID
	waiting []*Signal
	misuses int
}

// NewScheduler creates an inactive Scheduler. The name is used only for
// diagnostics.
func NewScheduler(name string) *Scheduler {
	return &Scheduler{name: name, current: NoStep, next: NoStep}
}

// Start activates the scheduler at the given initial step. Call once per
// mission lifetime; restart semantics are not defined.
func (sm *Scheduler) Start(initial StepID) {
	sm.active = true
	sm.current = initial
	sm.clearWait()
}

// Stop deactivates the scheduler and clears any armed wait. Idempotent.
func (sm *Scheduler) Stop() {
	sm.active = false
	sm.current = NoStep
	sm.clearWait()
}

// IsActive reports whether the scheduler is running a mission.
func (sm *Scheduler) IsActive() bool {
	return sm.active
}

// CurrentReadyStep resolves any satisfied transition rule and returns the
// step the mission should dispatch this tick. ready is false while the
// scheduler is inactive or an armed wait is still pending; in either case
// the mission must not run a step body.
func (sm *Scheduler) CurrentReadyStep() (StepID, bool) {
	if !sm.active {
		return NoStep, false
	}
	if len(sm.waiting) > 0 {
		fired := false
		for _, sig := range sm.waiting {
			if sig.IsSet() {
				fired = true
				break
			}
		}
		if !fired {
			return NoStep, false
		}
		// First tick in which any raced signal qualifies wins; the rule is
		// consumed so a late-firing loser cannot cause a second transition.
		sm.current = sm.next
		sm.clearWait()
	}
	return sm.current, true
}

// Current returns the current step without resolving transitions. Used for
// diagnostics and for detecting that a step body left the step unchanged.
func (sm *Scheduler) Current() StepID {
	if !sm.active {
		return NoStep
	}
	return sm.current
}

// IsWaiting reports whether a wait or race is armed.
func (sm *Scheduler) IsWaiting() bool {
	return len(sm.waiting) > 0
}

// SetStep transitions to next without arming a wait. The mission's dispatch
// loop runs the new step's body within the same tick, so an unconditional
// fallthrough never costs an extra tick.
func (sm *Scheduler) SetStep(next StepID) {
	if !sm.active {
		sm.misuses++
		return
	}
	sm.current = next
	sm.clearWait()
}

// WaitForSignal declares that the scheduler should transition to next once
// sig is set. The signal is cleared on arm, so reuse across steps cannot
// observe a stale firing. Re-arming overwrites any previous rule; steps that
// are revisited rely on this.
func (sm *Scheduler) WaitForSignal(sig *Signal, next StepID) {
	sm.WaitForAny(next, sig)
}

// WaitForAny declares a race: the scheduler transitions to next as soon as
// any of the given signals is set. All signals are cleared on arm. The
// scheduler does not report which signal fired; missions that need to know
// inspect collaborator state themselves.
func (sm *Scheduler) WaitForAny(next StepID, sigs ...*Signal) {
	if !sm.active {
		sm.misuses++
		return
	}
	for _, sig := range sigs {
		sig.Clear()
	}
	sm.next = next
	sm.waiting = append(sm.waiting[:0], sigs...)
}

// Misuses returns the number of arm or transition calls made while the
// scheduler was inactive. A nonzero count indicates a mission logic bug.
func (sm *Scheduler) Misuses() int {
	return sm.misuses
}

func (sm *Scheduler) String() string {
	return sm.name
}

func (sm *Scheduler) clearWait() {
	sm.next = NoStep
	sm.waiting = sm.waiting[:0]
}
