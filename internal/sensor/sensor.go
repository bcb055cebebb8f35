// Package sensor implements lookout, passive sonar and active sonar
// detection. Every check is a pure function of the current observer and
// candidate state plus one random draw; nothing is cached between calls.
package sensor

import (
	"math"
	"math/rand"

	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/geo"
)

// Body is what the sensors read from an observer or a candidate.
type Body interface {
	Position() geo.Vec3
	Heading() geo.Angle
	Length() float64
	Width() float64
	// NoiseFactor is the radiated noise in 0..1; for an observer it is also
	// its self noise.
	NoiseFactor() float64
	// VisibilityFactor scales the lookout ellipse for the current state
	// (depth, periscope or snorkel exposure, speed).
	VisibilityFactor() float64
	// SonarVisibility is the echo strength for active sonar.
	SonarVisibility() float64
	IsSubmarine() bool
	IsSubmerged() bool
	ElectricDrive() bool
}

// Conditions are the overall viewing conditions (time of day, weather).
type Conditions struct {
	Visibility      float64 // 0..1 multiplier on the lookout ellipse
	MaxViewDistance float64 // hard limit, 0 means none
}

// Contact is a detection result. It is handed to the caller and never kept
// by the sensors.
type Contact struct {
	Pos    geo.Vec3
	Target ecs.EntityID // zero when the fix is anonymous
	Time   float64
	Level  float64 // passive sound level, 0 for other sensors
}

// Mode is how a trainable sensor moves its bearing between pings.
type Mode int

const (
	Sweep  Mode = iota // oscillate across the bow
	Rotate             // keep turning, track mode
)

// Sensor holds what every sensor has: range, bearing relative to the
// platform heading, and the half-angle of the detection cone.
type Sensor struct {
	Range   float64
	Bearing geo.Angle
	Cone    float64
	moveDir float64
}

func newSensor(rng, cone float64) Sensor {
	return Sensor{Range: rng, Cone: cone, moveDir: 1}
}

// InCone reports whether the direction rel lies inside the cone of a
// sensor mounted on a platform with the given heading.
func (s *Sensor) InCone(rel geo.Vec2, heading geo.Angle) bool {
	if s.Cone >= 360 {
		return true
	}
	dir := s.Bearing.Add(heading.Value())
	delta := dir.Diff(geo.AngleOf(rel))
	return delta >= -s.Cone && delta <= s.Cone
}

// AutoMoveBearing turns the sensor by 1.5 cone widths. In sweep mode the
// direction flips once the bearing passes abeam.
func (s *Sensor) AutoMoveBearing(mode Mode) {
	if s.Cone >= 360 {
		return
	}
	if s.moveDir == 0 {
		s.moveDir = 1
	}
	s.Bearing = s.Bearing.Add(1.5 * s.moveDir * s.Cone)
	if mode != Sweep {
		return
	}
	b := s.Bearing.Value()
	switch {
	case b > 90 && b < 180 && s.moveDir > 0:
		s.moveDir = -1
	case b > 180 && b < 270 && s.moveDir < 0:
		s.moveDir = 1
	}
}

// MoveDirection is +1 or -1.
func (s *Sensor) MoveDirection() float64 { return s.moveDir }

// distanceFactor is (range/d)^power inside the range, 0 outside.
func (s *Sensor) distanceFactor(d float64, power int) float64 {
	if d > s.Range {
		return 0
	}
	f := s.Range / d
	out := 1.0
	for i := 0; i < power; i++ {
		out *= f
	}
	return out
}

// threshold is the noisy detection threshold 0.10 .. 0.19.
func threshold(rnd *rand.Rand) float64 {
	return 0.1 + 0.01*float64(rnd.Intn(10))
}

// DepthFactor attenuates echoes from deep targets: 1 at the surface, 0.5 at 400 m.
func DepthFactor(depth float64) float64 {
	return 1 - 0.5*math.Max(0, depth)/400
}
