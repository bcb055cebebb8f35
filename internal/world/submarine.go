package world

import (
	"math"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/damage"
	"github.com/seawolf/tactsim/internal/data"
	"github.com/seawolf/tactsim/internal/weapon"
)

const (
	// SubmergedDepth is the depth below which a submarine counts as submerged.
	SubmergedDepth = 2.0
	// DefaultRunDepth is the torpedo running depth set at launch.
	DefaultRunDepth = 3.0
)

// Submarine is a vessel that can dive.
type Submarine struct {
	Object
	Parts       *damage.Scheme
	Storage     *component.TorpedoStorage
	TargetDepth float64
	Electric    bool
	ScopeUp     bool
	SnorkelUp   bool
	Battery     float64 // 0..1
	Fuel        float64 // 0..1
	Steering    weapon.Steering

	cls *data.SubmarineClass
}

func newSubmarine(cls *data.SubmarineClass, name string) (*Submarine, error) {
	parts := make([]damage.Part, len(cls.Parts))
	copy(parts, cls.Parts)
	s := &Submarine{
		Object: Object{
			Name:    name,
			Class:   cls.Class,
			Length:  cls.Length,
			Width:   cls.Width,
			Height:  cls.Height,
			Tonnage: cls.Tonnage,
			Motion: component.Motion{
				MaxSpeed: cls.SurfaceSpeed * component.KnotsToMS,
				Accel:    cls.Acceleration,
				TurnRate: cls.TurnRate,
			},
			Guns: fitGuns(cls.Guns),
		},
		Parts:    damage.NewScheme(parts),
		Storage:  component.NewTorpedoStorage(cls.Torpedoes, cls.TransferTimes),
		Battery:  1,
		Fuel:     1,
		Steering: weapon.Steering{RunDepth: DefaultRunDepth},
		cls:      cls,
	}
	err := s.fitSensors(sensorInfo{
		lookout:       cls.Sensors.Lookout,
		lookoutFactor: cls.Sensors.LookoutFactor,
		passive:       cls.Sensors.Passive,
		active:        cls.Sensors.Active,
	})
	return s, err
}

func (s *Submarine) Depth() float64   { return s.Motion.Pos.Depth() }
func (s *Submarine) Submerged() bool  { return s.Depth() > SubmergedDepth }
func (s *Submarine) HasSnorkel() bool { return s.cls.SnorkelDepth > 0 }

// MaxSpeed is the submerged speed on electric motors, the surface speed on
// diesels, halved while snorkelling.
func (s *Submarine) MaxSpeed() float64 {
	if s.Electric {
		return s.cls.SubmergedSpeed * component.KnotsToMS
	}
	ms := s.cls.SurfaceSpeed * component.KnotsToMS
	if s.HasSnorkel() && s.Submerged() && s.SnorkelUp {
		ms *= 0.5
	}
	return ms
}

// DiveTo sets the target depth, clamped to the surface.
func (s *Submarine) DiveTo(depth float64) {
	s.TargetDepth = math.Max(0, depth)
}

// SetScope raises or lowers the periscope. It cannot be raised below
// periscope depth.
func (s *Submarine) SetScope(up bool) bool {
	if up && s.Depth() > s.cls.PeriscopeDepth {
		return false
	}
	s.ScopeUp = up
	return true
}

// SetSnorkel raises or lowers the snorkel.
func (s *Submarine) SetSnorkel(up bool) bool {
	if up && (!s.HasSnorkel() || s.Depth() > s.cls.SnorkelDepth) {
		return false
	}
	s.SnorkelUp = up
	return true
}

// NoiseFactor: electric motors are almost silent, the snorkel doubles the
// noise of the halved diesel speed.
func (s *Submarine) NoiseFactor() float64 {
	n := s.throttleNoise()
	if s.Electric {
		return n * 0.007
	}
	if s.HasSnorkel() && s.Submerged() && s.SnorkelUp {
		n *= 2
	}
	return n
}

// VisibilityFactor fades the hull out while diving; at periscope depth
// only the raised masts can be seen, more so at speed.
func (s *Submarine) VisibilityFactor() float64 {
	d := s.Depth()
	f := 0.0
	if d >= 0 && d < 10 {
		f = 0.1 * (10 - d)
	}
	if d >= 10 && d <= s.cls.PeriscopeDepth {
		m := 0.0
		if s.ScopeUp {
			m += 0.1
		}
		if s.SnorkelUp {
			m += 0.3
		}
		ms := s.MaxSpeed()
		ratio := 0.0
		if ms > 0 {
			ratio = math.Abs(s.Motion.Speed) / ms
		}
		f += m * (0.5 + 0.5*ratio)
	}
	return f
}

// SonarVisibility grows while diving and is full below 10 m.
func (s *Submarine) SonarVisibility() float64 {
	d := s.Depth()
	f := 0.0
	switch {
	case d > 10:
		f = 1
	case d > SubmergedDepth:
		f = 0.125 * (d - SubmergedDepth)
	}
	return f * s.Length * s.Height / 700
}

// step advances depth, propulsion, storage and repairs. It returns a
// non-empty cause when the boat is lost.
func (s *Submarine) step(dt float64) string {
	if !s.Status.IsAlive() {
		return ""
	}
	d := s.Depth()
	rate := s.cls.DiveRate * dt
	switch {
	case d < s.TargetDepth:
		d = math.Min(s.TargetDepth, d+rate)
	case d > s.TargetDepth:
		d = math.Max(s.TargetDepth, d-rate)
	}
	s.Motion.Pos.Z = -d
	if s.ScopeUp && d > s.cls.PeriscopeDepth {
		s.ScopeUp = false
	}
	if s.SnorkelUp && d > s.cls.SnorkelDepth {
		s.SnorkelUp = false
	}
	s.Electric = s.Submerged() && !s.SnorkelUp

	s.Motion.MaxSpeed = s.MaxSpeed()
	wanted := s.Motion.Throttle.Speed(s.Motion.MaxSpeed)
	if s.Electric && s.Battery <= 0 || !s.Electric && s.Fuel <= 0 {
		wanted = 0
	}
	s.Motion.Step(dt, wanted)

	b := s.cls.Battery
	if s.Electric {
		s.Battery = math.Max(0, s.Battery-consumption(b.ConsumptionA, b.ConsumptionT, wanted)*dt)
	} else {
		s.Fuel = math.Max(0, s.Fuel-consumption(s.cls.Fuel.ConsumptionA, s.cls.Fuel.ConsumptionT, wanted)*dt)
		if s.Battery < 1 && s.Fuel > 0 && b.RechargeT > 0 {
			charge := b.RechargeScale * (1 - b.RechargeA*math.Exp(-math.Abs(wanted)/b.RechargeT))
			s.Battery = math.Min(1, s.Battery+math.Max(0, charge)*dt)
		}
	}

	s.Storage.Step(dt)
	s.Storage.AutoReload()
	s.Parts.Repair(dt, !s.Submerged())
	s.Guns.Step(dt)

	switch {
	case d > s.cls.MaxDepth:
		return "crushed"
	case s.Parts.Critical():
		return "hull breach"
	}
	return ""
}
