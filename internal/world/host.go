package world

import (
	"math/rand"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/core/event"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/gunnery"
	"github.com/seawolf/tactsim/internal/sensor"
	"github.com/seawolf/tactsim/internal/weapon"
)

// vesselHost is the view an AI controller gets of its vessel. It remembers
// which sensor produced the last contact so the adoption can be reported.
type vesselHost struct {
	s      *State
	id     ecs.EntityID
	obj    *Object
	source event.ContactSource
}

func (h *vesselHost) Alive() bool {
	_, ok := h.s.active(h.id)
	return ok
}

func (h *vesselHost) Position() geo.Vec3 { return h.obj.Motion.Pos }
func (h *vesselHost) Heading() geo.Angle { return h.obj.Motion.Heading }
func (h *vesselHost) Speed() float64     { return h.obj.Motion.Speed }
func (h *vesselHost) TurnRate() float64  { return h.obj.Motion.TurnRate }
func (h *vesselHost) Rand() *rand.Rand   { return h.s.rnd }

func (h *vesselHost) VisibleSubmarines() []sensor.Contact {
	ids := h.s.VisibleSubmarines(h.id)
	if len(ids) == 0 {
		return nil
	}
	out := make([]sensor.Contact, 0, len(ids))
	for _, id := range ids {
		sub, _ := h.s.subs.Get(id)
		out = append(out, sensor.Contact{Pos: sub.Motion.Pos, Target: id, Time: h.s.time})
	}
	h.source = event.SourceVisual
	return out
}

func (h *vesselHost) SonarSubmarines() []sensor.Contact {
	out := h.s.SonarSubmarines(h.id)
	if len(out) > 0 {
		h.source = event.SourcePassive
	}
	return out
}

func (h *vesselHost) PingASDIC(moveSensor bool, dir geo.Angle) []sensor.Contact {
	out := h.s.PingASDIC(h.id, moveSensor, dir)
	if len(out) > 0 {
		h.source = event.SourceActive
	}
	return out
}

// MaxGunRange is the longest gun range, possibly shortened by doctrine.
func (h *vesselHost) MaxGunRange() float64 {
	r := h.obj.Guns.MaxRange()
	if h.s.doctrine != nil {
		r = h.s.doctrine.EngageRange(h.obj.Class, r)
	}
	return r
}

func (h *vesselHost) FireGunAt(target ecs.EntityID) gunnery.Result {
	return h.s.fireGun(h.id, h.obj, target)
}

func (h *vesselHost) ManGuns() { h.obj.Guns.Manned = true }

// DropDepthCharge rolls a charge off the stern.
func (h *vesselHost) DropDepthCharge(depth float64) {
	stern := h.obj.Motion.Pos.XY().Sub(h.obj.Motion.Direction().Scale(h.obj.Length / 2))
	h.s.SpawnDepthCharge(stern.XY0(), depth, h.id)
}

func (h *vesselHost) SetThrottle(t component.Throttle) { h.obj.Motion.Throttle = t }

func (h *vesselHost) HeadTo(hd geo.Angle, side component.Rudder) {
	h.obj.Motion.SteerToSide(hd, side)
}

func (h *vesselHost) ObjectPosition(id ecs.EntityID) (geo.Vec3, bool) {
	return h.s.ObjectPosition(id)
}

func (h *vesselHost) ConvoyContact(convoy ecs.EntityID, pos geo.Vec3) {
	h.s.ConvoyContact(convoy, pos)
}

// fireGun aims the battery of a vessel at a target and puts the shell in
// flight.
func (s *State) fireGun(id ecs.EntityID, o *Object, target ecs.EntityID) gunnery.Result {
	tp, ok := s.ObjectPosition(target)
	if !ok {
		return gunnery.OutOfRange
	}
	delta := tp.XY().Sub(o.Motion.Pos.XY())
	dist := delta.Length()
	bearing := geo.AngleOf(delta)
	shot := o.Guns.FireAt(dist, geo.Deg(bearing.Value()-o.Motion.Heading.Value()))
	if shot.Result != gunnery.Fired {
		return shot.Result
	}
	muzzle := o.Motion.Pos
	muzzle.Z += gunnery.MuzzleHeight
	s.SpawnShell(weapon.NewShell(muzzle, bearing, shot.Elevation, shot.Velocity, shot.Damage, id))
	event.Emit(s.bus, event.GunFired{Time: s.time, Ship: id, Target: target, Elevation: shot.Elevation, Distance: dist})
	return gunnery.Fired
}

// weaponEnv resolves a weapon's contact with the world.
type weaponEnv struct {
	s  *State
	id ecs.EntityID
}

// LoudestTarget lets a torpedo seeker listen for every hull but its
// launcher and returns the noise source of the loudest one.
func (e weaponEnv) LoudestTarget(t *weapon.Torpedo) (geo.Vec2, bool) {
	obs := torpBody{t}
	best := 0.0
	var src geo.Vec2
	found := false
	try := func(id ecs.EntityID, b sensor.Body, alive bool) {
		if id == t.Launcher || !alive || e.s.ecs.Doomed(id) {
			return
		}
		if level, ok := t.Seeker.Detects(e.s.rnd, obs, b); ok && level > best {
			best = level
			src = b.Position().XY().Sub(b.Heading().Direction().Scale(0.3 * b.Length()))
			found = true
		}
	}
	e.s.ships.Each(func(id ecs.EntityID, sh *Ship) { try(id, shipBody{sh}, sh.Status.IsAlive()) })
	e.s.subs.Each(func(id ecs.EntityID, sub *Submarine) { try(id, subBody{sub}, sub.Status.IsAlive()) })
	return src, found
}

func (e weaponEnv) TorpedoHit(t *weapon.Torpedo) bool { return e.s.torpedoHit(e.id, t) }
func (e weaponEnv) ShellImpact(sh *weapon.Shell)      { e.s.shellImpact(e.id, sh) }
func (e weaponEnv) Explode(dc *weapon.DepthCharge)    { e.s.explode(e.id, dc.Pos) }
