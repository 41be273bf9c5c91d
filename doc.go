// Package autoseq provides a cooperative command-sequencing scheduler for
// autonomous robot missions.
//
// The core model is a finite-state engine advanced one non-blocking tick at a
// time by an external control loop. A mission declares a closed set of steps;
// each tick the scheduler reports the step that is ready to run (if any), the
// mission executes that step's body exactly once per visit, and the body arms
// the rule for leaving the step: a single-signal wait, a race over several
// signals, or an immediate same-tick transition.
//
// Nothing in the core blocks. All apparent waiting is polling of Signals that
// collaborators (drive base, intake, timers) flip from their own execution
// contexts. This gives deterministic, reproducible sequencing at a fixed tick
// cadence, which matters for control loops that must never stall.
//
// # Primitives
//
//   - Signal: level-triggered completion flag, safe to set from another
//     goroutine and read from the tick.
//   - Timer: arms a Signal to fire after a delay on the mission time base.
//   - Scheduler: holds the current step and the armed transition rule;
//     resolves at most one transition per tick, before dispatch.
//   - Loop: fixed-cadence driver that converts wall clock into mission
//     elapsed seconds and ticks a mission until it reports done.
//
// # Example
//
//	sm := autoseq.NewScheduler("demo")
//	done := autoseq.NewSignal("done")
//	sm.Start(stepFirst)
//	for !finished {
//		if step, ready := sm.CurrentReadyStep(); ready {
//			switch step {
//			case stepFirst:
//				startSomething(done)
//				sm.WaitForSignal(done, stepLast)
//			case stepLast:
//				sm.Stop()
//			}
//		}
//	}
//
// The mission package builds a complete shuttle autonomous routine on these
// primitives; the sim package provides deterministic collaborators for tests
// and the demo command.
package autoseq
