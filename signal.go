package autoseq

import "sync/atomic"

// Signal is a level-triggered completion flag. It starts unset and is set by
// whichever collaborator finishes an asynchronous operation; the scheduler
// reads it during transition evaluation. A set Signal stays set until cleared.
//
// Set may be called from a different goroutine than the tick (a sensor
// callback, a drive controller), so the flag is atomic. No compound
// operations occur on a Signal; atomic visibility is all the model needs.
type Signal struct {
	name string
	set  atomic.Bool
}

// NewSignal creates an unset Signal. The name is used only for diagnostics.
func NewSignal(name string) *Signal {
	return &Signal{name: name}
}

// Set marks the condition as having occurred.
func (s *Signal) Set() {
	s.set.Store(true)
}

// Clear resets the Signal for reuse.
func (s *Signal) Clear() {
	s.set.Store(false)
}

// IsSet reports whether the condition has occurred.
func (s *Signal) IsSet() bool {
	return s.set.Load()
}

func (s *Signal) String() string {
	return s.name
}
