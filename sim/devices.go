package sim

import "github.com/opcontrol/autoseq/mission"

// Arm records preset level requests.
type Arm struct {
	levels     []int
	calibrated bool
}

func NewArm() *Arm {
	return &Arm{}
}

func (a *Arm) SetPresetLevel(level int) {
	a.levels = append(a.levels, level)
}

func (a *Arm) ZeroCalibrate() {
	a.calibrated = true
}

// Levels returns every preset level requested, in order.
func (a *Arm) Levels() []int {
	return a.levels
}

// Calibrated reports whether ZeroCalibrate was called.
func (a *Arm) Calibrated() bool {
	return a.calibrated
}

// LEDStrip records indicator patterns.
type LEDStrip struct {
	patterns []string
}

func NewLEDStrip() *LEDStrip {
	return &LEDStrip{}
}

func (l *LEDStrip) SetPattern(pattern string) {
	l.patterns = append(l.patterns, pattern)
}

// Patterns returns every pattern shown, in order.
func (l *LEDStrip) Patterns() []string {
	return l.patterns
}

// StaticDetector always reports the same marker position.
type StaticDetector struct {
	pos int
}

func NewStaticDetector(pos int) *StaticDetector {
	return &StaticDetector{pos: pos}
}

func (d *StaticDetector) Detect() (int, bool) {
	return d.pos, true
}

// FailingDetector never detects anything.
type FailingDetector struct{}

func (FailingDetector) Detect() (int, bool) {
	return 0, false
}

// FixedFreightLocator reports one freight pose relative to the robot.
type FixedFreightLocator struct {
	rel mission.Pose
}

func NewFixedFreightLocator(rel mission.Pose) *FixedFreightLocator {
	return &FixedFreightLocator{rel: rel}
}

func (f *FixedFreightLocator) ClosestFreight() (mission.Pose, bool) {
	return f.rel, true
}
