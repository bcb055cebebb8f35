package weapon

import (
	"math"

	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/gunnery"
)

// Shell is a deck gun round in flight.
type Shell struct {
	Pos      geo.Vec3
	Velocity geo.Vec3
	Damage   float64
	Source   ecs.EntityID
}

// NewShell fires a round from pos along heading at elevation degrees.
func NewShell(pos geo.Vec3, heading geo.Angle, elevation, muzzle, dmg float64, src ecs.EntityID) *Shell {
	r := elevation * math.Pi / 180
	h := heading.Direction().Scale(muzzle * math.Cos(r))
	return &Shell{
		Pos:      pos,
		Velocity: geo.Vec3{X: h.X, Y: h.Y, Z: muzzle * math.Sin(r)},
		Damage:   dmg,
		Source:   src,
	}
}

// Step moves the shell and reports whether it came down. A shell that
// reaches the water is handed to env.ShellImpact.
func (s *Shell) Step(env Env, dt float64) bool {
	if dt <= 0 {
		return false
	}
	s.Pos = s.Pos.Add(s.Velocity.Scale(dt))
	s.Pos.Z -= gunnery.Gravity * dt * dt / 2
	s.Velocity.Z -= gunnery.Gravity * dt
	if s.Pos.Z > 0 {
		return false
	}
	s.Pos.Z = 0
	env.ShellImpact(s)
	return true
}
