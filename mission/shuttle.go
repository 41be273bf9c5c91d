package mission

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/opcontrol/autoseq"
)

// Mission steps, in declaration order. The route is a loop: pick freight up
// in the warehouse, shuttle it to the alliance hub, dump it, and come back
// for more until the time budget runs out.
const (
	StepStartDelay autoseq.StepID = iota
	StepDriveToHub
	StepDumpFreight
	StepPrepForWarehouse
	StepAlignToWall
	StepEnterWarehouse
	StepPickupFreight
	StepDecideNextTrip
	StepRetryPickup
	StepBackOut
	StepRealignToWall
	StepLeaveWarehouse
	StepDriveOutToHub
	StepDone
)

var stepNames = [...]string{
	StepStartDelay:       "start-delay",
	StepDriveToHub:       "drive-to-hub",
	StepDumpFreight:      "dump-freight",
	StepPrepForWarehouse: "prep-for-warehouse",
	StepAlignToWall:      "align-to-wall",
	StepEnterWarehouse:   "enter-warehouse",
	StepPickupFreight:    "pickup-freight",
	StepDecideNextTrip:   "decide-next-trip",
	StepRetryPickup:      "retry-pickup",
	StepBackOut:          "back-out",
	StepRealignToWall:    "realign-to-wall",
	StepLeaveWarehouse:   "leave-warehouse",
	StepDriveOutToHub:    "drive-out-to-hub",
	StepDone:             "done",
}

// StepName returns the diagnostic name of a step.
func StepName(id autoseq.StepID) string {
	if id >= 0 && int(id) < len(stepNames) {
		return stepNames[id]
	}
	return "unknown"
}

// Field geometry, authored for the red side in tile units and mirrored for
// blue. See Pose.Mirrored.
const (
	halfFieldTiles  = 3.0
	robotWidthTiles = 14.0 / 24.0

	realignTime = 0.5
	leaveTime   = 1.0
)

var (
	startPoseRed   = PathPoint(0.5, -2.71, 90.0)
	lookingPoseRed = PathPoint(1.65, -2.7, 90.0)
	prepPoseRed    = PathPoint(0.5, -2.5, 90.0)
	pickupPoseRed  = PathPoint(2.6, -2.6, 90.0)
	backoutPoseRed = PathPoint(1.3, -2.6, 90.0)

	// Hub center with the approach heading; the actual stop point is offset
	// by a per-shelf-level distance along that heading.
	hubCenterRed = PathPoint(-0.5, -1.0, -30.0)

	// Out of the warehouse, along the wall, and around to the hub.
	exitRouteRed = []Pose{
		PathPoint(1.5, -2.65, 90.0),
		PathPoint(-0.4, -2.65, 90.0),
		PathPoint(-0.4, -2.5, 0.0),
		PathPoint(-0.3, -1.8, 0.0),
	}
)

// hubApproachDistance maps the shelf level being dumped to how far from the
// hub center the robot stops. Higher shelves overhang further, so the robot
// parks closer.
func hubApproachDistance(level int) float64 {
	switch level {
	case 3:
		return 0.7
	case 2:
		return 0.9
	default:
		return 0.85
	}
}

// Collaborators bundles the subsystems a Shuttle drives. Drive, Intake, and
// Arm are required; Indicator and Freight may be nil and Detectors may be
// empty.
type Collaborators struct {
	Drive     PathDriver
	Intake    Intake
	Arm       Arm
	Indicator Indicator
	Detectors []Detector
	Freight   FreightLocator
}

// Shuttle is the back-and-forth freight autonomous routine. It owns one
// scheduler plus mission-local state and implements the per-step bodies.
// Construct one per run; mission-local state resets only by constructing a
// new Shuttle.
type Shuttle struct {
	cfg Config
	c   Collaborators
	log zerolog.Logger

	sched  *autoseq.Scheduler
	timer  *autoseq.Timer
	status *autoseq.Status

	done       *autoseq.Signal // general completion: timers, path follows
	pickupDone *autoseq.Signal // capture-sensor completion, raced with done

	hintLevel     int  // shelf level resolved at start
	hintDetected  bool
	freightTarget *Pose   // vision-guided pickup target, if any
	headingInc    float64 // cumulative pickup heading correction, degrees
	retries       int
	lastStep      autoseq.StepID
}

// NewShuttle builds the mission and starts its scheduler at the first step.
// The first Tick call performs the first step body.
func NewShuttle(cfg Config, c Collaborators, logger zerolog.Logger) *Shuttle {
	m := &Shuttle{
		cfg:        cfg,
		c:          c,
		sched:      autoseq.NewScheduler("shuttle"),
		timer:      autoseq.NewTimer(),
		status:     autoseq.NewStatus(),
		done:       autoseq.NewSignal("done"),
		pickupDone: autoseq.NewSignal("pickup-done"),
		lastStep:   autoseq.NoStep,
	}
	m.log = logger.With().
		Str("mission", "shuttle").
		Str("run", uuid.NewString()).
		Str("alliance", string(cfg.Alliance)).
		Logger()

	m.sched.Start(StepStartDelay)
	m.status.SetActive(true)
	m.log.Info().Float64("start_delay", cfg.StartDelay).Msg("mission armed")
	return m
}

// IsActive reports whether the mission is still running.
func (m *Shuttle) IsActive() bool {
	return m.sched.IsActive()
}

// Status returns a thread-safe snapshot of mission progress.
func (m *Shuttle) Status() autoseq.StatusSnapshot {
	return m.status.Snapshot()
}

// Cancel stops every outstanding collaborator request and deactivates the
// scheduler. Safe at any tick, in any step, repeatedly.
func (m *Shuttle) Cancel() {
	m.c.Drive.Cancel()
	m.c.Drive.Stop()
	m.c.Intake.SetPower(0)
	if m.sched.IsActive() {
		m.log.Info().Str("step", StepName(m.sched.Current())).Msg("mission stopped")
	}
	m.sched.Stop()
	m.status.SetActive(false)
}

// Tick advances the mission by one control period. elapsed is the mission
// time in seconds since autonomous started. Returns true exactly when the
// mission has terminated; once true it stays true and performs no
// collaborator calls.
func (m *Shuttle) Tick(elapsed float64) bool {
	if !m.sched.IsActive() {
		return true
	}
	m.status.Tick(elapsed)
	m.timer.Poll(elapsed)

	// Dispatch loop. A body that transitions via SetStep gets the new step
	// dispatched within this same tick (fallthrough); arming a wait or
	// leaving the step unchanged ends the tick.
	for {
		step, ready := m.sched.CurrentReadyStep()
		if !ready {
			break
		}
		m.status.SetStep(StepName(step))
		if step != m.lastStep {
			m.log.Debug().Str("step", StepName(step)).Float64("t", elapsed).Msg("step entered")
			m.lastStep = step
		}
		m.runStep(step, elapsed)
		if !m.sched.IsActive() || m.sched.IsWaiting() || m.sched.Current() == step {
			break
		}
	}
	return !m.sched.IsActive()
}

func (m *Shuttle) runStep(step autoseq.StepID, elapsed float64) {
	switch step {
	case StepStartDelay:
		m.startDelay(elapsed)
	case StepDriveToHub:
		m.driveToHub()
	case StepDumpFreight:
		m.dumpFreight()
	case StepPrepForWarehouse:
		m.prepForWarehouse()
	case StepAlignToWall:
		m.alignToWall(elapsed)
	case StepEnterWarehouse:
		m.enterWarehouse(elapsed)
	case StepPickupFreight:
		m.pickupFreight()
	case StepDecideNextTrip:
		m.decideNextTrip(elapsed)
	case StepRetryPickup:
		m.retryPickup()
	case StepBackOut:
		m.backOut()
	case StepRealignToWall:
		m.realignToWall(elapsed)
	case StepLeaveWarehouse:
		m.leaveWarehouse(elapsed)
	case StepDriveOutToHub:
		m.driveOutToHub()
	default:
		m.finish()
	}
}

// point mirrors a red-authored pose for the blue side.
func (m *Shuttle) point(red Pose) Pose {
	if m.cfg.Alliance == AllianceBlue {
		return red.Mirrored()
	}
	return red
}

// sideSign is +1 for red, -1 for blue; used for open-loop nudges toward the
// near wall.
func (m *Shuttle) sideSign() float64 {
	if m.cfg.Alliance == AllianceBlue {
		return -1.0
	}
	return 1.0
}

func (m *Shuttle) startDelay(elapsed float64) {
	m.c.Drive.SetPose(m.point(startPoseRed))

	m.hintLevel, m.hintDetected = ResolveHint(m.c.Detectors, m.cfg.HintFallback)
	if m.hintDetected {
		if m.c.Indicator != nil {
			m.c.Indicator.SetPattern(PatternSawTarget)
		}
		m.log.Info().Int("level", m.hintLevel).Msg("marker detected")
	} else {
		m.log.Info().Int("level", m.hintLevel).Msg("no marker, using fallback level")
	}
	m.c.Arm.SetPresetLevel(m.hintLevel)

	if m.cfg.StartDelay == 0 {
		// Intentional same-tick fallthrough: a zero delay must not cost a
		// control period.
		m.sched.SetStep(StepDriveToHub)
		return
	}
	m.timer.Set(elapsed, m.cfg.StartDelay, m.done)
	m.sched.WaitForSignal(m.done, StepDriveToHub)
}

func (m *Shuttle) driveToHub() {
	hub := m.point(hubCenterRed)
	target := hub.Approach(hubApproachDistance(m.hintLevel))

	m.c.Drive.Follow(m.done, m.c.Drive.Pose(), false, target)
	m.c.Arm.SetPresetLevel(m.hintLevel)
	// The first dump goes to the detected level for the bonus; every later
	// dump goes to the top shelf.
	m.hintLevel = 3

	m.sched.WaitForSignal(m.done, StepDumpFreight)
}

func (m *Shuttle) dumpFreight() {
	m.c.Intake.RunTimed(m.cfg.DumpPower, m.cfg.DumpTime, m.done)
	m.sched.WaitForSignal(m.done, StepPrepForWarehouse)
}

func (m *Shuttle) prepForWarehouse() {
	m.c.Arm.SetPresetLevel(0)
	m.c.Drive.Follow(m.done, m.c.Drive.Pose(), false, m.point(prepPoseRed))
	m.sched.WaitForSignal(m.done, StepAlignToWall)
}

func (m *Shuttle) alignToWall(elapsed float64) {
	m.c.Drive.Drive(m.sideSign()*0.3, 0, 0)
	m.timer.Set(elapsed, m.cfg.AlignTime, m.done)
	m.sched.WaitForSignal(m.done, StepEnterWarehouse)
}

func (m *Shuttle) enterWarehouse(elapsed float64) {
	m.c.Drive.Stop()

	// Squared against the wall now; overwrite drifted odometry with the
	// known wall position before the pickup leg.
	wallY := m.sideSign() * -(halfFieldTiles - robotWidthTiles/2)
	m.c.Drive.SetPose(Pose{X: m.c.Drive.Pose().X, Y: wallY, Heading: 90.0})

	m.c.Drive.SetOutputLimit(1.0)
	m.c.Drive.Drive(0, 0.5, 0)
	m.timer.Set(elapsed, m.cfg.EnterTime, m.done)
	m.sched.WaitForSignal(m.done, StepPickupFreight)
}

// pickupFreight races two independent requests: the capture sensor ending
// the intake run, and the pickup path completing. Whichever fires first ends
// the step; decideNextTrip cancels the loser.
func (m *Shuttle) pickupFreight() {
	m.c.Intake.RunUntilCaptured(m.cfg.PickupPower, m.pickupDone)
	m.c.Drive.SetOutputLimit(m.cfg.PickupOutputLimit)

	if m.freightTarget == nil && m.cfg.UseVisionPickup && m.c.Freight != nil {
		if rel, ok := m.c.Freight.ClosestFreight(); ok {
			m.freightTarget = &rel
		}
	}
	if m.freightTarget != nil {
		m.c.Drive.Follow(m.done, m.c.Drive.Pose(), true, *m.freightTarget)
		m.freightTarget = nil
	} else {
		target := m.point(pickupPoseRed.WithHeading(90.0 - m.headingInc))
		m.c.Drive.Follow(m.done, m.c.Drive.Pose(), false, target)
	}

	m.sched.WaitForAny(StepDecideNextTrip, m.done, m.pickupDone)
}

func (m *Shuttle) decideNextTrip(elapsed float64) {
	// Stop whichever half of the race lost before moving on.
	m.c.Drive.Cancel()
	m.c.Intake.SetPower(0)
	m.c.Drive.SetOutputLimit(1.0)

	if m.cfg.Budget-elapsed <= m.cfg.CycleTripTime {
		m.log.Info().Float64("t", elapsed).Msg("budget exhausted, finishing")
		m.sched.SetStep(StepDone)
		return
	}

	if m.c.Intake.HasObject() {
		if m.c.Indicator != nil {
			m.c.Indicator.SetPattern(PatternGotTarget)
		}
		// Keep the intake running so the freight cannot fall out on the way.
		m.c.Intake.SetPower(m.cfg.PickupPower)
		if m.cfg.BackoutRealign {
			m.sched.SetStep(StepBackOut)
		} else {
			m.sched.SetStep(StepDriveOutToHub)
		}
		return
	}

	if m.cfg.RetryCap > 0 && m.retries >= m.cfg.RetryCap {
		m.log.Warn().Int("retries", m.retries).Msg("retry cap reached, finishing")
		m.sched.SetStep(StepDone)
		return
	}
	m.sched.SetStep(StepRetryPickup)
}

func (m *Shuttle) retryPickup() {
	m.c.Drive.Follow(m.done, m.c.Drive.Pose(), false, m.point(lookingPoseRed))
	m.headingInc += m.cfg.RetryHeadingInc
	m.retries++
	m.log.Info().Int("retry", m.retries).Float64("heading_inc", m.headingInc).Msg("retrying pickup")
	m.sched.WaitForSignal(m.done, StepPickupFreight)
}

// The back-out subsequence is an alternate return route: reverse away from
// the freight pile, square up on the wall again, and drive back out along
// it. Gated by Config.BackoutRealign.

func (m *Shuttle) backOut() {
	m.c.Drive.Follow(m.done, m.c.Drive.Pose(), false, m.point(backoutPoseRed))
	m.sched.WaitForSignal(m.done, StepRealignToWall)
}

func (m *Shuttle) realignToWall(elapsed float64) {
	m.c.Drive.Drive(m.sideSign()*0.3, 0, 0)
	m.timer.Set(elapsed, realignTime, m.done)
	m.sched.WaitForSignal(m.done, StepLeaveWarehouse)
}

func (m *Shuttle) leaveWarehouse(elapsed float64) {
	m.c.Drive.Drive(0, -0.3, 0)
	m.timer.Set(elapsed, leaveTime, m.done)
	m.sched.WaitForSignal(m.done, StepDriveToHub)
}

func (m *Shuttle) driveOutToHub() {
	m.c.Arm.SetPresetLevel(3)

	route := make([]Pose, len(exitRouteRed))
	for i, p := range exitRouteRed {
		route[i] = m.point(p)
	}
	m.c.Drive.Follow(m.done, m.c.Drive.Pose(), false, route...)
	m.sched.WaitForSignal(m.done, StepDumpFreight)
}

func (m *Shuttle) finish() {
	m.c.Arm.ZeroCalibrate()
	m.log.Info().Int("retries", m.retries).Int("misuses", m.sched.Misuses()).Msg("mission complete")
	m.Cancel()
}
