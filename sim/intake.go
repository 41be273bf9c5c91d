package sim

import "github.com/opcontrol/autoseq"

// NeverCapture makes a simulated intake run forever without triggering its
// capture sensor.
const NeverCapture = -1.0

// Intake simulates the pickup actuator and its capture sensor. A
// sensor-triggered run captures an object captureAfter seconds after the
// first Advance that observes it (or never, with NeverCapture); a timed run
// completes after its requested duration.
type Intake struct {
	captureAfter float64

	power     float64
	hasObject bool

	timed   *intakeRequest
	capture *intakeRequest
}

type intakeRequest struct {
	done     *autoseq.Signal
	duration float64
	finishAt float64
	started  bool
}

// NewIntake creates an intake that captures after captureAfter seconds of
// sensor-triggered running.
func NewIntake(captureAfter float64) *Intake {
	return &Intake{captureAfter: captureAfter}
}

// SetCaptureAfter changes capture timing for subsequent runs; tests use it
// to script a failed attempt followed by a successful retry.
func (in *Intake) SetCaptureAfter(seconds float64) {
	in.captureAfter = seconds
}

// Advance fires due completions. Call once per tick before the mission tick.
func (in *Intake) Advance(now float64) {
	if r := in.timed; r != nil {
		if !r.started {
			r.started = true
			r.finishAt = now + r.duration
		} else if now >= r.finishAt {
			in.timed = nil
			in.power = 0
			in.hasObject = false // a timed run is a dump
			r.done.Set()
		}
	}
	if r := in.capture; r != nil && in.captureAfter >= 0 {
		if !r.started {
			r.started = true
			r.finishAt = now + in.captureAfter
		} else if now >= r.finishAt {
			in.capture = nil
			in.hasObject = true
			r.done.Set()
		}
	}
}

func (in *Intake) RunTimed(power, duration float64, done *autoseq.Signal) {
	in.power = power
	in.timed = &intakeRequest{done: done, duration: duration}
}

func (in *Intake) RunUntilCaptured(power float64, done *autoseq.Signal) {
	in.power = power
	in.capture = &intakeRequest{done: done}
}

func (in *Intake) SetPower(power float64) {
	in.power = power
	if power == 0 {
		in.capture = nil
	}
}

func (in *Intake) HasObject() bool {
	return in.hasObject
}

// DropObject clears the captured object, simulating a dump.
func (in *Intake) DropObject() {
	in.hasObject = false
}

// Power returns the current intake power, for test observation.
func (in *Intake) Power() float64 {
	return in.power
}

// Running reports whether a sensor-triggered run is outstanding.
func (in *Intake) Running() bool {
	return in.capture != nil
}
