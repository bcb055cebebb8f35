package world

import (
	"math"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/damage"
	"github.com/seawolf/tactsim/internal/data"
)

// Ship roles.
const (
	RoleMerchant = "merchant"
	RoleWarship  = "warship"
	RoleEscort   = "escort"
)

// Ship is a surface vessel.
type Ship struct {
	Object
	Role      string
	Sections  damage.Sections
	Convoy    ecs.EntityID
	Fuel      float64 // 0..1
	SinkTimer float64

	fuel data.FuelInfo
}

func newShip(cls *data.ShipClass, name string) (*Ship, error) {
	s := &Ship{
		Object: Object{
			Name:    name,
			Class:   cls.Class,
			Length:  cls.Length,
			Width:   cls.Width,
			Height:  cls.Height,
			Tonnage: cls.Tonnage,
			Motion: component.Motion{
				MaxSpeed: cls.MaxSpeed * component.KnotsToMS,
				Accel:    cls.Acceleration,
				TurnRate: cls.TurnRate,
			},
			Guns: fitGuns(cls.Guns),
		},
		Role: cls.Role,
		Fuel: 1,
		fuel: cls.Fuel,
	}
	err := s.fitSensors(sensorInfo{
		lookout:       cls.Sensors.Lookout,
		lookoutFactor: cls.Sensors.LookoutFactor,
		passive:       cls.Sensors.Passive,
		active:        cls.Sensors.Active,
	})
	return s, err
}

// NoiseFactor is the ordered speed over the top speed.
func (s *Ship) NoiseFactor() float64 { return s.throttleNoise() }

// step advances an alive ship or counts down a sinking one. It reports
// whether a sinking ship has gone under.
func (s *Ship) step(dt float64) bool {
	switch s.Status {
	case component.Sinking:
		s.Motion.Step(dt, 0)
		s.SinkTimer -= dt
		return s.SinkTimer <= 0
	case component.Dead:
		return true
	}
	wanted := s.Motion.Throttle.Speed(s.Motion.MaxSpeed)
	if s.Fuel <= 0 {
		wanted = 0
	}
	s.Motion.Step(dt, wanted)
	s.Fuel = math.Max(0, s.Fuel-consumption(s.fuel.ConsumptionA, s.fuel.ConsumptionT, wanted)*dt)
	s.Guns.Step(dt)
	return false
}

// consumption is a·(exp(|v|/t) − 1) per second.
func consumption(a, t, v float64) float64 {
	if a <= 0 || t <= 0 {
		return 0
	}
	return a * (math.Exp(math.Abs(v)/t) - 1)
}
