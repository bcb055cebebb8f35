package sensor

import (
	"fmt"
	"math/rand"
)

// PassiveKind selects a listening device.
type PassiveKind string

const (
	PassiveDefault PassiveKind = "default"
	PassiveT5      PassiveKind = "t5"  // G7es acoustic seeker
	PassiveT11     PassiveKind = "t11" // improved seeker
)

// ActiveKind selects an echo ranging set.
type ActiveKind string

const ActiveDefault ActiveKind = "default"

// PassiveSonar listens for engine noise.
type PassiveSonar struct {
	Sensor
}

func NewPassiveSonar(kind PassiveKind) (*PassiveSonar, error) {
	switch kind {
	case PassiveDefault, "":
		return &PassiveSonar{newSensor(9500, 360)}, nil
	case PassiveT5:
		return &PassiveSonar{newSensor(1000, 20)}, nil
	case PassiveT11:
		return &PassiveSonar{newSensor(1500, 40)}, nil
	}
	return nil, fmt.Errorf("unknown passive sonar %q", kind)
}

// Detects returns the sound level of the candidate and whether it stands
// out of the noise. A surfaced submarine hears nothing.
func (p *PassiveSonar) Detects(rnd *rand.Rand, observer, candidate Body) (float64, bool) {
	if observer.IsSubmarine() && !observer.IsSubmerged() {
		return 0, false
	}
	// engine noise comes from the stern third of the hull
	src := candidate.Position().XY().Sub(candidate.Heading().Direction().Scale(0.3 * candidate.Length()))
	r := src.Sub(observer.Position().XY())
	if !p.InCone(r, observer.Heading()) {
		return 0, false
	}
	df := p.distanceFactor(r.Length(), 2)
	if df == 0 {
		return 0, false
	}
	level := (1 - observer.NoiseFactor()) * candidate.NoiseFactor() * df
	return level, level > threshold(rnd)
}

// ActiveSonar is ASDIC: it only finds submerged submarines.
type ActiveSonar struct {
	Sensor
	mode Mode
}

func NewActiveSonar(kind ActiveKind) (*ActiveSonar, error) {
	switch kind {
	case ActiveDefault, "":
		return &ActiveSonar{Sensor: newSensor(1500, 15)}, nil
	}
	return nil, fmt.Errorf("unknown active sonar %q", kind)
}

// Detects runs the echo test against one candidate.
func (a *ActiveSonar) Detects(rnd *rand.Rand, observer, candidate Body) bool {
	if observer.IsSubmarine() && !observer.IsSubmerged() {
		return false
	}
	if !candidate.IsSubmarine() || !candidate.IsSubmerged() {
		return false
	}
	r := candidate.Position().XY().Sub(observer.Position().XY())
	if !a.InCone(r, observer.Heading()) {
		return false
	}
	df := a.distanceFactor(r.Length(), 4)
	if df == 0 {
		return false
	}
	prod := df * candidate.SonarVisibility() * (1 - observer.NoiseFactor()) * DepthFactor(candidate.Position().Depth())
	return prod > threshold(rnd)
}

// Mode returns the current bearing mode.
func (a *ActiveSonar) Mode() Mode { return a.mode }

// SetMode switches the bearing mode. Rotate needs a submerged submarine on
// electric motors: with diesels or a surfaced hull the screw noise swamps
// an independently trained housing, so the request is refused.
func (a *ActiveSonar) SetMode(platform Body, m Mode) bool {
	if m == Rotate && !RotateAllowed(platform) {
		return false
	}
	a.mode = m
	return true
}

// RotateAllowed reports whether the platform may use Rotate mode.
func RotateAllowed(platform Body) bool {
	return platform.IsSubmarine() && platform.IsSubmerged() && platform.ElectricDrive()
}

// SelectMode picks Rotate when the platform allows it, otherwise Sweep.
func SelectMode(platform Body) Mode {
	if RotateAllowed(platform) {
		return Rotate
	}
	return Sweep
}
