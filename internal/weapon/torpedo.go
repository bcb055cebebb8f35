package weapon

import (
	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/sensor"
)

// SafetyRun is the run length before the first hit check, so a fresh
// torpedo does not collide with its own launcher.
const SafetyRun = 10.0

// TorpedoSpec is the static data of a torpedo type.
type TorpedoSpec struct {
	Kind               string
	Speed              float64 // m/s
	Range              float64 // m
	ArmingDistance     float64 // m
	TurnRate           float64 // degrees per metre
	HitPoints          int
	Seeker             sensor.PassiveKind // empty for none
	ActivationDistance float64
}

// Steering is the search pattern setup chosen at launch.
type Steering struct {
	PrimaryRange    float64 `json:"primary_range"`
	SecondaryRange  float64 `json:"secondary_range"`
	InitialTurnLeft bool    `json:"initial_turn_left"`
	TurnAngle       float64 `json:"turn_angle"`
	RunDepth        float64 `json:"run_depth"`
}

func (s Steering) initialSign() float64 {
	if s.InitialTurnLeft {
		return -1
	}
	return 1
}

// Outcome is what a torpedo step ended with.
type Outcome int

const (
	Running Outcome = iota
	Hit
	RanOut
	Failed
)

// Torpedo is a running torpedo.
type Torpedo struct {
	Spec      TorpedoSpec
	Steer     Steering
	Motion    component.Motion
	Launcher  ecs.EntityID
	RunLength float64
	// Phase counts the search pattern turns done so far.
	Phase  int
	Seeker *sensor.PassiveSonar

	failed bool
}

// NewTorpedo places a torpedo at pos on heading h at its run depth.
func NewTorpedo(spec TorpedoSpec, steer Steering, pos geo.Vec2, h geo.Angle, launcher ecs.EntityID) (*Torpedo, error) {
	t := &Torpedo{
		Spec:     spec,
		Steer:    steer,
		Launcher: launcher,
		Motion: component.Motion{
			Pos:      geo.Vec3{X: pos.X, Y: pos.Y, Z: -steer.RunDepth},
			Heading:  h,
			Speed:    spec.Speed,
			MaxSpeed: spec.Speed,
			TurnRate: spec.TurnRate,
		},
	}
	if spec.Seeker != "" {
		s, err := sensor.NewPassiveSonar(spec.Seeker)
		if err != nil {
			return nil, err
		}
		t.Seeker = s
	}
	return t, nil
}

// Fail stops the torpedo; it is removed on its next step.
func (t *Torpedo) Fail()           { t.failed = true }
func (t *Torpedo) HasFailed() bool { return t.failed }

// Armed reports whether the warhead would detonate on a hull.
func (t *Torpedo) Armed() bool { return t.RunLength >= t.Spec.ArmingDistance }

// Step runs the torpedo for dt seconds.
func (t *Torpedo) Step(env Env, dt float64) Outcome {
	if t.failed {
		return Failed
	}
	if dt <= 0 {
		return Running
	}
	t.Motion.Step(dt, t.Spec.Speed)
	t.RunLength += t.Spec.Speed * dt
	if t.RunLength > t.Spec.Range {
		return RanOut
	}

	t.searchPattern()
	if t.Seeker != nil && t.RunLength >= t.Spec.ActivationDistance {
		if p, ok := env.LoudestTarget(t); ok {
			t.Motion.SteerTo(geo.AngleOf(p.Sub(t.Motion.Pos.XY())))
		}
	}

	if t.RunLength > SafetyRun && env.TorpedoHit(t) {
		return Hit
	}
	return Running
}

// searchPattern snaps the heading at the pattern boundaries: the initial
// turn at the end of the primary run, then 180° turns every secondary run,
// the first one to the side opposite the initial turn.
func (t *Torpedo) searchPattern() {
	s := t.Steer
	if s.TurnAngle == 0 || t.RunLength < s.PrimaryRange {
		return
	}
	init := s.initialSign()
	if t.Phase == 0 {
		t.Phase = 1
		t.turn(init * s.TurnAngle)
	}
	if s.SecondaryRange <= 0 {
		return
	}
	n := int((t.RunLength - s.PrimaryRange) / s.SecondaryRange)
	for t.Phase <= n {
		sign := init
		if t.Phase%2 == 1 {
			sign = -init
		}
		t.turn(sign * 180)
		t.Phase++
	}
}

func (t *Torpedo) turn(deg float64) {
	t.Motion.Heading = t.Motion.Heading.Add(deg)
	t.Motion.Steering = false
	t.Motion.Rudder = component.Midships
}
