// Package mission implements the shuttle autonomous routine on top of the
// autoseq sequencing core: collaborator interfaces, field geometry, mission
// configuration, and the per-step bodies that drive one complete run.
package mission

import "math"

// Pose is a field position in tile units with a heading in degrees. The
// field origin is its center; one tile is 24 inches. Headings follow the
// field frame, zero pointing away from the audience.
type Pose struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Heading float64 `yaml:"heading"`
}

// PathPoint builds a waypoint pose.
func PathPoint(x, y, heading float64) Pose {
	return Pose{X: x, Y: y, Heading: heading}
}

// Mirrored reflects a pose across the field centerline: Y negates and the
// heading reflects about the 90-degree axis. Routes are authored for the red
// side and mirrored for blue, so the two alliances stay in lockstep.
func (p Pose) Mirrored() Pose {
	return Pose{X: p.X, Y: -p.Y, Heading: NormalizeHeading(180 - p.Heading)}
}

// WithHeading returns the pose with a replaced heading.
func (p Pose) WithHeading(heading float64) Pose {
	return Pose{X: p.X, Y: p.Y, Heading: NormalizeHeading(heading)}
}

// Approach offsets the pose by distance along its heading toward it, giving
// the perimeter point a robot must stop at to face the pose from distance
// tiles away.
func (p Pose) Approach(distance float64) Pose {
	rad := p.Heading * math.Pi / 180.0
	return Pose{
		X:       p.X - distance*math.Sin(rad),
		Y:       p.Y - distance*math.Cos(rad),
		Heading: p.Heading,
	}
}

// NormalizeHeading wraps a heading into (-180, 180].
func NormalizeHeading(h float64) float64 {
	for h > 180 {
		h -= 360
	}
	for h <= -180 {
		h += 360
	}
	return h
}
