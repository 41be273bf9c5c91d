package mission_test

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/opcontrol/autoseq/mission"
	"github.com/opcontrol/autoseq/sim"
)

const tickDT = 0.02 // 50 Hz control loop

// rig wires a Shuttle to simulated collaborators and pumps everything on a
// shared mission clock.
type rig struct {
	t      *testing.T
	drive  *sim.DriveBase
	intake *sim.Intake
	arm    *sim.Arm
	led    *sim.LEDStrip
	m      *mission.Shuttle

	now     float64
	visited map[string]bool
}

func newRig(t *testing.T, cfg mission.Config, detectors []mission.Detector, captureAfter float64) *rig {
	t.Helper()
	r := &rig{
		t:       t,
		drive:   sim.NewDriveBase(1.0),
		intake:  sim.NewIntake(captureAfter),
		arm:     sim.NewArm(),
		led:     sim.NewLEDStrip(),
		visited: map[string]bool{},
	}
	r.m = mission.NewShuttle(cfg, mission.Collaborators{
		Drive:     r.drive,
		Intake:    r.intake,
		Arm:       r.arm,
		Indicator: r.led,
		Detectors: detectors,
	}, zerolog.Nop())
	return r
}

// tick advances the simulated devices then the mission by one control
// period at the current mission time.
func (r *rig) tick() bool {
	r.drive.Advance(r.now)
	r.intake.Advance(r.now)
	done := r.m.Tick(r.now)
	r.visited[r.m.Status().Step] = true
	r.now += tickDT
	return done
}

// runUntil ticks until cond holds or the mission finishes, failing the test
// if neither happens before the time limit. Returns whether the mission
// reported done.
func (r *rig) runUntil(limit float64, cond func() bool) bool {
	r.t.Helper()
	for r.now <= limit {
		if r.tick() {
			return true
		}
		if cond != nil && cond() {
			return false
		}
	}
	r.t.Fatalf("condition not reached by t=%.2f, stuck on step %q", limit, r.m.Status().Step)
	return false
}

func (r *rig) atStep(name string) func() bool {
	return func() bool { return r.m.Status().Step == name }
}

// TestZeroDelayFallsThroughOnFirstTick verifies a zero start delay costs no
// control period: the very first tick dispatches the drive step and issues
// the path request.
func TestZeroDelayFallsThroughOnFirstTick(t *testing.T) {
	r := newRig(t, mission.DefaultConfig(), []mission.Detector{sim.NewStaticDetector(2)}, 0.5)

	if done := r.tick(); done {
		t.Fatal("mission reported done on first tick")
	}
	if got := r.m.Status().Step; got != "drive-to-hub" {
		t.Errorf("expected first tick to dispatch drive-to-hub, got %q", got)
	}
	if !r.drive.Following() {
		t.Error("path request not issued on first tick")
	}
	if levels := r.arm.Levels(); len(levels) == 0 || levels[0] != 2 {
		t.Errorf("arm not raised to detected level, got %v", levels)
	}
}

func TestStartDelayHoldsFirstStep(t *testing.T) {
	cfg := mission.DefaultConfig()
	cfg.StartDelay = 1.0
	r := newRig(t, cfg, nil, 0.5)

	r.tick()
	if got := r.m.Status().Step; got != "start-delay" {
		t.Fatalf("expected start-delay while timer pending, got %q", got)
	}
	if r.drive.Following() {
		t.Error("path issued before the start delay expired")
	}

	r.runUntil(2.0, r.atStep("drive-to-hub"))
	if r.now < 1.0 {
		t.Errorf("delay expired early at t=%.2f", r.now)
	}
}

// TestHintFallbackWhenDetectorsFail verifies the detector chain falls back
// to the documented default level rather than erroring.
func TestHintFallbackWhenDetectorsFail(t *testing.T) {
	r := newRig(t, mission.DefaultConfig(), []mission.Detector{sim.FailingDetector{}, sim.FailingDetector{}}, 0.5)

	r.tick()
	if levels := r.arm.Levels(); len(levels) == 0 || levels[0] != 3 {
		t.Errorf("expected fallback level 3, got %v", levels)
	}
	if got := r.led.Patterns(); len(got) != 0 {
		t.Errorf("indicator should not fire without a detection, got %v", got)
	}
}

// TestCaptureWinsRaceAndCancelsDrive verifies the pickup race: the capture
// sensor fires first, the still-running path request is cancelled, and the
// intake holds the freight.
func TestCaptureWinsRaceAndCancelsDrive(t *testing.T) {
	r := newRig(t, mission.DefaultConfig(), nil, 0.3)

	r.runUntil(30.0, r.atStep("pickup-freight"))
	cancelsBefore := r.drive.Cancels()

	r.runUntil(30.0, r.atStep("drive-out-to-hub"))
	if r.drive.Cancels() != cancelsBefore+1 {
		t.Errorf("losing path request not cancelled: %d -> %d", cancelsBefore, r.drive.Cancels())
	}
	if r.intake.Power() == 0 {
		t.Error("intake not holding freight after capture")
	}

	sawGot := false
	for _, p := range r.led.Patterns() {
		if p == mission.PatternGotTarget {
			sawGot = true
		}
	}
	if !sawGot {
		t.Error("got-target pattern never shown")
	}
}

// TestPathWinsRaceTriggersRetry verifies the other race outcome: the path
// completes without a capture, and the mission loops through retry-pickup
// with a cumulative heading correction.
func TestPathWinsRaceTriggersRetry(t *testing.T) {
	cfg := mission.DefaultConfig()
	r := newRig(t, cfg, nil, sim.NeverCapture)

	r.runUntil(30.0, r.atStep("retry-pickup"))
	r.runUntil(30.0, func() bool {
		if r.m.Status().Step != "pickup-freight" {
			return false
		}
		_, ok := r.drive.Target()
		return ok
	})

	target, _ := r.drive.Target()
	want := 90.0 - cfg.RetryHeadingInc
	if target.Heading != want {
		t.Errorf("retry heading = %v, want %v", target.Heading, want)
	}
}

// TestBudgetExhaustionFinishesRegardlessOfCapture verifies the decision step
// sends the mission to its terminal step once another round trip cannot fit,
// even with nothing captured.
func TestBudgetExhaustionFinishesRegardlessOfCapture(t *testing.T) {
	cfg := mission.DefaultConfig()
	cfg.RetryCap = 0
	r := newRig(t, cfg, nil, sim.NeverCapture)

	done := r.runUntil(cfg.Budget+10.0, nil)
	if !done {
		t.Fatal("mission never finished")
	}
	if !r.arm.Calibrated() {
		t.Error("arm not returned to home position")
	}
	if r.drive.Following() {
		t.Error("path request still outstanding after finish")
	}
	if r.intake.Power() != 0 {
		t.Error("intake still powered after finish")
	}
	if r.m.IsActive() {
		t.Error("mission still active after finish")
	}
}

func TestRetryCapFinishesEarly(t *testing.T) {
	cfg := mission.DefaultConfig()
	cfg.RetryCap = 2
	r := newRig(t, cfg, nil, sim.NeverCapture)

	done := r.runUntil(cfg.Budget+10.0, nil)
	if !done {
		t.Fatal("mission never finished")
	}
	if !r.visited["retry-pickup"] {
		t.Error("mission never retried before hitting the cap")
	}
	// Two capped retries finish well inside the budget; an uncapped run
	// would shuttle until the budget check fired.
	if r.now >= cfg.Budget-cfg.CycleTripTime {
		t.Errorf("capped mission ran to the budget, finished at t=%.2f", r.now)
	}
}

// TestBackoutSubsequenceGatedByConfig verifies the alternate return route
// runs only when configured, and rejoins the main cycle at the hub drive.
func TestBackoutSubsequenceGatedByConfig(t *testing.T) {
	backoutSteps := []string{"back-out", "realign-to-wall", "leave-warehouse"}

	cfg := mission.DefaultConfig()
	cfg.BackoutRealign = true
	r := newRig(t, cfg, nil, 0.3)
	r.runUntil(cfg.Budget+10.0, nil)

	for _, step := range backoutSteps {
		if !r.visited[step] {
			t.Errorf("backout-enabled run never visited %q", step)
		}
	}
	if r.visited["drive-out-to-hub"] {
		t.Error("backout-enabled run used the direct exit route")
	}

	r = newRig(t, mission.DefaultConfig(), nil, 0.3)
	r.runUntil(35.0, nil)
	for _, step := range backoutSteps {
		if r.visited[step] {
			t.Errorf("default run visited gated step %q", step)
		}
	}
}

// TestCancelIsTotal verifies cancellation mid-step stops every outstanding
// collaborator request and is permanent.
func TestCancelIsTotal(t *testing.T) {
	r := newRig(t, mission.DefaultConfig(), nil, 0.5)
	r.runUntil(30.0, r.atStep("pickup-freight"))

	r.m.Cancel()

	if r.m.IsActive() {
		t.Fatal("mission active after Cancel")
	}
	if r.drive.Following() {
		t.Error("path request survived Cancel")
	}
	if r.intake.Power() != 0 {
		t.Error("intake still powered after Cancel")
	}
	if r.intake.Running() {
		t.Error("sensor-triggered intake request survived Cancel")
	}
	if !r.tick() {
		t.Error("Tick did not report done after Cancel")
	}
}

// TestTerminalStateIsIdempotent verifies post-completion ticks are no-ops.
func TestTerminalStateIsIdempotent(t *testing.T) {
	r := newRig(t, mission.DefaultConfig(), nil, sim.NeverCapture)
	r.runUntil(40.0, nil)

	cancels := r.drive.Cancels()
	ticksBefore := r.m.Status().Ticks
	for i := 0; i < 10; i++ {
		if !r.tick() {
			t.Fatal("finished mission reported not done")
		}
	}
	if r.drive.Cancels() != cancels {
		t.Error("terminal ticks issued collaborator calls")
	}
	if r.m.Status().Ticks != ticksBefore {
		t.Error("terminal ticks advanced mission status")
	}
}

// TestBlueAllianceMirrorsRoute verifies the blue run drives to the mirrored
// hub point.
func TestBlueAllianceMirrorsRoute(t *testing.T) {
	redCfg := mission.DefaultConfig()
	blueCfg := mission.DefaultConfig()
	blueCfg.Alliance = mission.AllianceBlue

	red := newRig(t, redCfg, nil, 0.5)
	blue := newRig(t, blueCfg, nil, 0.5)
	red.tick()
	blue.tick()

	redTarget, ok1 := red.drive.Target()
	blueTarget, ok2 := blue.drive.Target()
	if !ok1 || !ok2 {
		t.Fatal("hub path not issued on first tick")
	}
	const eps = 1e-9
	if math.Abs(blueTarget.Y+redTarget.Y) > eps {
		t.Errorf("blue Y %v is not the mirror of red Y %v", blueTarget.Y, redTarget.Y)
	}
	if math.Abs(blueTarget.X-redTarget.X) > eps {
		t.Errorf("mirroring changed X: red %v, blue %v", redTarget.X, blueTarget.X)
	}
	want := mission.NormalizeHeading(180 - redTarget.Heading)
	if blueTarget.Heading != want {
		t.Errorf("blue heading = %v, want mirrored %v", blueTarget.Heading, want)
	}
}

// TestVisionPickupDrivesRelative verifies a configured freight locator turns
// the pickup leg into a relative drive toward the seen freight.
func TestVisionPickupDrivesRelative(t *testing.T) {
	cfg := mission.DefaultConfig()
	cfg.UseVisionPickup = true

	drive := sim.NewDriveBase(1.0)
	intake := sim.NewIntake(0.3)
	r := &rig{
		t:       t,
		drive:   drive,
		intake:  intake,
		arm:     sim.NewArm(),
		led:     sim.NewLEDStrip(),
		visited: map[string]bool{},
	}
	r.m = mission.NewShuttle(cfg, mission.Collaborators{
		Drive:     drive,
		Intake:    intake,
		Arm:       r.arm,
		Indicator: r.led,
		Freight:   sim.NewFixedFreightLocator(mission.PathPoint(0.4, 0.2, 5.0)),
	}, zerolog.Nop())

	r.runUntil(30.0, r.atStep("pickup-freight"))
	if !r.drive.LastRelative() {
		t.Error("vision-guided pickup did not use a relative path")
	}
}
