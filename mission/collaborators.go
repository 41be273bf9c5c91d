package mission

import "github.com/opcontrol/autoseq"

// The mission drives its subsystems purely through these interfaces. Each
// asynchronous request carries an autoseq.Signal the collaborator sets on
// completion; collaborators hold the signal only for the duration of one
// outstanding request and never retain it past signaling.

// PathDriver is the path-following drive train.
type PathDriver interface {
	// Follow starts following waypoints from the given pose, setting done on
	// arrival. With relative true the waypoints are offsets from the current
	// pose rather than field coordinates.
	Follow(done *autoseq.Signal, from Pose, relative bool, waypoints ...Pose)
	// Cancel aborts an in-progress Follow. The done signal is not set.
	Cancel()
	// Drive applies open-loop holonomic power (x strafe, y forward, rotate),
	// used for timed wall nudges where path following is overkill.
	Drive(x, y, rotate float64)
	// Stop zeroes all drive output.
	Stop()
	// Pose reports the current field pose.
	Pose() Pose
	// SetPose relocalizes odometry to a known field pose.
	SetPose(p Pose)
	// SetOutputLimit caps path-following output to a fraction of full power.
	SetOutputLimit(frac float64)
}

// Intake is the pickup actuator with its capture sensor.
type Intake interface {
	// RunTimed runs the intake at power for duration seconds, then stops it
	// and sets done.
	RunTimed(power, duration float64, done *autoseq.Signal)
	// RunUntilCaptured runs the intake at power until the capture sensor
	// triggers, then sets done. The intake keeps running until SetPower is
	// called; holding power is the caller's decision.
	RunUntilCaptured(power float64, done *autoseq.Signal)
	// SetPower sets intake power directly, cancelling any sensor-triggered
	// request at zero.
	SetPower(power float64)
	// HasObject reports whether the capture sensor currently sees freight.
	HasObject() bool
}

// Arm positions the freight arm at preset shelf levels.
type Arm interface {
	SetPresetLevel(level int)
	// ZeroCalibrate lowers the arm to its home position and re-zeroes it.
	ZeroCalibrate()
}

// FreightLocator reports the closest piece of freight seen by the camera as
// a pose relative to the robot. Optional; the mission falls back to a blind
// pickup route without one.
type FreightLocator interface {
	ClosestFreight() (relative Pose, ok bool)
}

// Indicator is the driver-visible status light.
type Indicator interface {
	SetPattern(pattern string)
}

// Indicator patterns the mission raises.
const (
	PatternSawTarget = "saw-target"
	PatternGotTarget = "got-target"
)
