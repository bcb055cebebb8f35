package weapon

import (
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/geo"
)

const (
	// SinkRate is how fast a depth charge goes down, m/s.
	SinkRate = 4.0
	// depthEpsilon absorbs float drift from summing many small steps.
	depthEpsilon = 1e-6
)

// DepthCharge sinks until it reaches its set depth and then explodes.
type DepthCharge struct {
	Pos            geo.Vec3
	ExplosionDepth float64
	Dropper        ecs.EntityID
}

func NewDepthCharge(pos geo.Vec3, depth float64, dropper ecs.EntityID) *DepthCharge {
	return &DepthCharge{Pos: pos, ExplosionDepth: depth, Dropper: dropper}
}

// Step sinks the charge and reports whether it exploded.
func (d *DepthCharge) Step(env Env, dt float64) bool {
	if dt <= 0 {
		return false
	}
	d.Pos.Z -= SinkRate * dt
	if -d.Pos.Z < d.ExplosionDepth-depthEpsilon {
		return false
	}
	d.Pos.Z = -d.ExplosionDepth
	env.Explode(d)
	return true
}
