package autoseq

import (
	"context"
	"fmt"
	"time"
)

// TickFunc advances a mission by one tick at the given mission-elapsed time
// in seconds. It returns true exactly when the mission has terminated.
type TickFunc func(elapsed float64) bool

// LoopConfig configures the fixed-cadence tick driver.
type LoopConfig struct {
	TickRate time.Duration // control period (default 20ms, a 50 Hz loop)
	Speed    float64       // mission-time multiplier (default 1.0)
}

// Loop drives a mission at a fixed cadence. Mission-elapsed time is derived
// from the tick count rather than the wall clock, so a given tick rate and
// speed always produce the same sequence of elapsed values - runs are
// reproducible regardless of scheduling jitter.
type Loop struct {
	tickRate time.Duration
	speed    float64
	ticks    uint64
}

// NewLoop creates a tick driver, applying defaults for zero config fields.
func NewLoop(cfg LoopConfig) *Loop {
	if cfg.TickRate == 0 {
		cfg.TickRate = 20 * time.Millisecond
	}
	if cfg.Speed == 0 {
		cfg.Speed = 1.0
	}
	return &Loop{tickRate: cfg.TickRate, speed: cfg.Speed}
}

// Ticks returns the number of ticks driven so far.
func (l *Loop) Ticks() uint64 {
	return l.ticks
}

// Run ticks the mission at the configured cadence until it reports done or
// ctx is cancelled. A panic inside one tick is recovered and returned as an
// error rather than crashing the control loop.
func (l *Loop) Run(ctx context.Context, tick TickFunc) (err error) {
	ticker := time.NewTicker(l.tickRate)
	defer ticker.Stop()

	dt := l.tickRate.Seconds() * l.speed
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			elapsed := float64(l.ticks) * dt
			l.ticks++
			done, terr := l.safeTick(tick, elapsed)
			if terr != nil {
				return terr
			}
			if done {
				return nil
			}
		}
	}
}

func (l *Loop) safeTick(tick TickFunc, elapsed float64) (done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panicked at t=%.3fs: %v", elapsed, r)
		}
	}()
	return tick(elapsed), nil
}
