package world

import (
	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/gunnery"
	"github.com/seawolf/tactsim/internal/sensor"
)

// Object is what every vessel has: hull size, kinematics, life cycle and
// its sensor capability set.
// Accessed only from the simulation goroutine, no locks needed.
type Object struct {
	Name    string
	Class   string
	Length  float64
	Width   float64
	Height  float64
	Tonnage int

	Motion  component.Motion
	Status  component.Status
	Sensors sensor.Set
	Guns    gunnery.Battery
}

// Hull returns the collision footprint.
func (o *Object) Hull() Hull {
	return Hull{Pos: o.Motion.Pos.XY(), Heading: o.Motion.Heading, Length: o.Length, Width: o.Width}
}

// throttleNoise is the engine noise of the ordered speed relative to the
// top speed.
func (o *Object) throttleNoise() float64 {
	if o.Motion.MaxSpeed <= 0 {
		return 0
	}
	v := o.Motion.Throttle.Speed(o.Motion.MaxSpeed)
	if v < 0 {
		v = -v
	}
	return v / o.Motion.MaxSpeed
}

// fitSensors builds the sensor set of a class. Unknown kinds were
// rejected when the tables were loaded.
func (o *Object) fitSensors(info sensorInfo) error {
	if info.lookout {
		o.Sensors.SetLookout(sensor.NewLookout(info.lookoutFactor))
	}
	if info.passive != "" {
		p, err := sensor.NewPassiveSonar(sensor.PassiveKind(info.passive))
		if err != nil {
			return err
		}
		o.Sensors.SetPassive(p)
	}
	if info.active != "" {
		a, err := sensor.NewActiveSonar(sensor.ActiveKind(info.active))
		if err != nil {
			return err
		}
		o.Sensors.SetActive(a)
	}
	return nil
}

type sensorInfo struct {
	lookout       bool
	lookoutFactor float64
	passive       string
	active        string
}

// fitGuns copies the turret table of a class so that ammo and reload
// timers are per hull.
func fitGuns(turrets []gunnery.Turret) gunnery.Battery {
	b := gunnery.Battery{Turrets: make([]gunnery.Turret, len(turrets))}
	copy(b.Turrets, turrets)
	return b
}
