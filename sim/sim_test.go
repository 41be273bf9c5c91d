package sim

import (
	"testing"

	"github.com/opcontrol/autoseq"

	"github.com/opcontrol/autoseq/mission"
)

func TestDriveBaseCompletesPath(t *testing.T) {
	d := NewDriveBase(1.0)
	done := autoseq.NewSignal("done")
	target := mission.PathPoint(2.0, -2.0, 90.0)

	d.Follow(done, d.Pose(), false, mission.PathPoint(1.0, -1.0, 90.0), target)

	d.Advance(0.0) // request observed, clock starts
	d.Advance(0.5)
	if done.IsSet() {
		t.Fatal("path completed early")
	}
	d.Advance(1.0)
	if !done.IsSet() {
		t.Fatal("path never completed")
	}
	if d.Pose() != target {
		t.Errorf("pose = %v, want final waypoint %v", d.Pose(), target)
	}
}

func TestDriveBaseCancel(t *testing.T) {
	d := NewDriveBase(1.0)
	done := autoseq.NewSignal("done")

	d.Follow(done, d.Pose(), false, mission.PathPoint(1.0, 0, 0))
	d.Advance(0.0)
	d.Cancel()
	d.Advance(5.0)

	if done.IsSet() {
		t.Error("cancelled path still signaled")
	}
	if d.Cancels() != 1 {
		t.Errorf("cancels = %d", d.Cancels())
	}
}

func TestDriveBaseRelativeFollow(t *testing.T) {
	d := NewDriveBase(0.1)
	d.SetPose(mission.PathPoint(1.0, 1.0, 90.0))
	done := autoseq.NewSignal("done")

	d.Follow(done, d.Pose(), true, mission.PathPoint(0.5, -0.25, 10.0))
	d.Advance(0.0)
	d.Advance(0.2)

	want := mission.PathPoint(1.5, 0.75, 100.0)
	if d.Pose() != want {
		t.Errorf("pose after relative follow = %v, want %v", d.Pose(), want)
	}
}

func TestIntakeTimedRunIsADump(t *testing.T) {
	in := NewIntake(0.1)
	captured := autoseq.NewSignal("captured")

	in.RunUntilCaptured(1.0, captured)
	in.Advance(0.0)
	in.Advance(0.2)
	if !in.HasObject() || !captured.IsSet() {
		t.Fatal("capture never triggered")
	}

	dumped := autoseq.NewSignal("dumped")
	in.RunTimed(-0.6, 0.5, dumped)
	in.Advance(0.3)
	in.Advance(0.9)
	if !dumped.IsSet() {
		t.Fatal("timed run never completed")
	}
	if in.HasObject() {
		t.Error("dump did not clear the held object")
	}
	if in.Power() != 0 {
		t.Error("intake still powered after timed run")
	}
}

func TestIntakeNeverCapture(t *testing.T) {
	in := NewIntake(NeverCapture)
	captured := autoseq.NewSignal("captured")

	in.RunUntilCaptured(1.0, captured)
	in.Advance(0.0)
	in.Advance(100.0)

	if captured.IsSet() || in.HasObject() {
		t.Error("NeverCapture intake captured anyway")
	}

	in.SetPower(0)
	if in.Running() {
		t.Error("zero power did not cancel the sensor-triggered run")
	}
}
