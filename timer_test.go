package autoseq

import "testing"

func TestTimerFiresAfterDelay(t *testing.T) {
	tm := NewTimer()
	sig := NewSignal("expired")

	tm.Set(1.0, 0.5, sig)
	if !tm.Armed() {
		t.Fatal("timer not armed after Set")
	}

	tm.Poll(1.2)
	if sig.IsSet() {
		t.Error("timer fired before deadline")
	}
	tm.Poll(1.5)
	if !sig.IsSet() {
		t.Error("timer did not fire at deadline")
	}
	if tm.Armed() {
		t.Error("timer still armed after firing")
	}
}

func TestTimerFiresOnce(t *testing.T) {
	tm := NewTimer()
	sig := NewSignal("expired")

	tm.Set(0.0, 1.0, sig)
	tm.Poll(2.0)
	sig.Clear()
	tm.Poll(3.0)

	if sig.IsSet() {
		t.Error("timer fired a second time")
	}
}

// TestReArmReplacesDeadline verifies at most one pending arm per timer.
func TestReArmReplacesDeadline(t *testing.T) {
	tm := NewTimer()
	first := NewSignal("first")
	second := NewSignal("second")

	tm.Set(0.0, 1.0, first)
	tm.Set(0.0, 5.0, second)

	tm.Poll(2.0)
	if first.IsSet() {
		t.Error("replaced arm still fired")
	}
	if second.IsSet() {
		t.Error("re-armed deadline fired early")
	}
	tm.Poll(5.0)
	if !second.IsSet() {
		t.Error("re-armed timer never fired")
	}
}

// TestSetClearsStaleTarget verifies arming clears a target left set from an
// earlier use.
func TestSetClearsStaleTarget(t *testing.T) {
	tm := NewTimer()
	sig := NewSignal("reused")
	sig.Set()

	tm.Set(0.0, 1.0, sig)
	if sig.IsSet() {
		t.Error("stale target not cleared on arm")
	}
}
