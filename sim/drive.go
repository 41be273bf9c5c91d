// Package sim provides deterministic, poll-driven collaborators for running
// and testing missions without hardware. Nothing here spawns goroutines;
// each device advances only when Advance is called with the current mission
// time, so a given tick sequence always reproduces the same run.
package sim

import (
	"github.com/opcontrol/autoseq"

	"github.com/opcontrol/autoseq/mission"
)

// DriveBase simulates the path-following drive train. Every Follow request
// completes pathTime seconds after the first Advance that observes it, then
// teleports the pose to the final waypoint and sets the done signal.
type DriveBase struct {
	pathTime float64

	pose        mission.Pose
	outputLimit float64
	x, y, rot   float64 // open-loop holonomic power

	pending      *followRequest
	cancels      int
	lastRelative bool
}

type followRequest struct {
	done     *autoseq.Signal
	target   mission.Pose
	finishAt float64
	started  bool
}

// NewDriveBase creates a drive base whose paths take pathTime seconds.
func NewDriveBase(pathTime float64) *DriveBase {
	return &DriveBase{pathTime: pathTime, outputLimit: 1.0}
}

// Advance fires any due path completion. Call once per tick before the
// mission tick.
func (d *DriveBase) Advance(now float64) {
	if d.pending == nil {
		return
	}
	if !d.pending.started {
		d.pending.started = true
		d.pending.finishAt = now + d.pathTime
		return
	}
	if now >= d.pending.finishAt {
		d.pose = d.pending.target
		d.pending.done.Set()
		d.pending = nil
	}
}

func (d *DriveBase) Follow(done *autoseq.Signal, from mission.Pose, relative bool, waypoints ...mission.Pose) {
	target := from
	if len(waypoints) > 0 {
		target = waypoints[len(waypoints)-1]
	}
	if relative {
		target = mission.Pose{
			X:       from.X + target.X,
			Y:       from.Y + target.Y,
			Heading: mission.NormalizeHeading(from.Heading + target.Heading),
		}
	}
	d.lastRelative = relative
	d.x, d.y, d.rot = 0, 0, 0
	d.pending = &followRequest{done: done, target: target}
}

func (d *DriveBase) Cancel() {
	if d.pending != nil {
		d.pending = nil
		d.cancels++
	}
}

func (d *DriveBase) Drive(x, y, rotate float64) {
	d.x, d.y, d.rot = x, y, rotate
}

func (d *DriveBase) Stop() {
	d.x, d.y, d.rot = 0, 0, 0
}

func (d *DriveBase) Pose() mission.Pose {
	return d.pose
}

func (d *DriveBase) SetPose(p mission.Pose) {
	d.pose = p
}

func (d *DriveBase) SetOutputLimit(frac float64) {
	d.outputLimit = frac
}

// Test observation helpers.

// Following reports whether a path request is outstanding.
func (d *DriveBase) Following() bool {
	return d.pending != nil
}

// Cancels returns how many in-progress paths were cancelled.
func (d *DriveBase) Cancels() int {
	return d.cancels
}

// OutputLimit returns the current path output cap.
func (d *DriveBase) OutputLimit() float64 {
	return d.outputLimit
}

// DrivePower returns the open-loop holonomic power components.
func (d *DriveBase) DrivePower() (x, y, rotate float64) {
	return d.x, d.y, d.rot
}

// LastRelative reports whether the most recent Follow was pose-relative.
func (d *DriveBase) LastRelative() bool {
	return d.lastRelative
}

// Target returns the outstanding path's final waypoint, if any.
func (d *DriveBase) Target() (mission.Pose, bool) {
	if d.pending == nil {
		return mission.Pose{}, false
	}
	return d.pending.target, true
}
