package world

import (
	"math"

	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/core/event"
	"github.com/seawolf/tactsim/internal/damage"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/weapon"
)

// Loss causes.
const (
	CauseDepthCharge = "depth charge"
	CauseGunfire     = "gunfire"
	CauseTorpedo     = "torpedo"
)

// shellLevelDamage is the shell damage that wrecks one more section level.
const shellLevelDamage = 10.0

// ExplodeDepthCharge resolves a depth charge explosion at pos against
// every submarine.
func (s *State) ExplodeDepthCharge(pos geo.Vec3) event.DepthChargeExploded {
	return s.explode(0, pos)
}

func (s *State) explode(charge ecs.EntityID, pos geo.Vec3) event.DepthChargeExploded {
	deadly, dmg := damage.Radii(pos.Depth())
	ev := event.DepthChargeExploded{Time: s.time, Charge: charge, Pos: pos, Deadly: deadly, Damage: dmg}
	s.subs.Each(func(id ecs.EntityID, sub *Submarine) {
		if s.ecs.Doomed(id) || !sub.Status.IsAlive() {
			return
		}
		p := sub.Motion.Pos
		d := damage.BlastDistance(p.X-pos.X, p.Y-pos.Y, p.Z-pos.Z)
		if d <= deadly {
			s.killSubmarine(id, sub, CauseDepthCharge)
			ev.Killed = append(ev.Killed, id)
			return
		}
		if d > dmg {
			return
		}
		bbox := geo.Vec3{X: sub.Width, Y: sub.Length, Z: sub.Height}
		hit := false
		for i := range sub.Parts.Parts {
			c := sub.Parts.Centre(i, p, sub.Motion.Heading, bbox)
			st := damage.Strength(damage.BlastDistance(c.X-pos.X, c.Y-pos.Y, c.Z-pos.Z), deadly, dmg)
			if st > 0 {
				sub.Parts.AddSaturated(i, st)
				hit = true
			}
		}
		if !hit {
			return
		}
		if sub.Parts.Critical() {
			s.killSubmarine(id, sub, CauseDepthCharge)
			ev.Killed = append(ev.Killed, id)
			return
		}
		ev.Damaged = append(ev.Damaged, id)
	})
	event.Emit(s.bus, ev)
	return ev
}

// sectionOf maps a point on a hull to its bow, mid or stern section.
func sectionOf(o *Object, p geo.Vec2) damage.Section {
	off := p.Sub(o.Motion.Pos.XY()).Dot(o.Motion.Heading.Direction())
	return damage.SectionAt(off, o.Length)
}

// nearestPart returns the damage part whose centre is closest to p.
func nearestPart(sub *Submarine, p geo.Vec3) int {
	best, bestD := -1, math.Inf(1)
	bbox := geo.Vec3{X: sub.Width, Y: sub.Length, Z: sub.Height}
	for i := range sub.Parts.Parts {
		d := sub.Parts.Centre(i, sub.Motion.Pos, sub.Motion.Heading, bbox).Sub(p).SquareLength()
		if d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// ShellImpact resolves a shell landing at pos with no known firer.
func (s *State) ShellImpact(pos geo.Vec3, dmg float64) ecs.EntityID {
	return s.shellImpact(0, &weapon.Shell{Pos: pos, Damage: dmg})
}

// shellImpact tests ships, then surfaced submarines. The first hull that
// contains the impact point takes the damage; a miss is a splash. It
// returns the hull hit, or zero.
func (s *State) shellImpact(shell ecs.EntityID, sh *weapon.Shell) ecs.EntityID {
	pos := sh.Pos
	near := s.aoi.Nearby(pos.XY())
	var target ecs.EntityID

	s.ships.Each(func(id ecs.EntityID, ship *Ship) {
		if !target.IsZero() || id == sh.Source || s.ecs.Doomed(id) || !ship.Status.IsAlive() {
			return
		}
		if _, ok := near[id]; !ok || !ship.Hull().ContainsPoint(pos.XY()) {
			return
		}
		target = id
		n := int(sh.Damage / shellLevelDamage)
		if n < 1 {
			n = 1
		}
		ship.Sections.Hit(sectionOf(&ship.Object, pos.XY()), n)
		if ship.Sections.Wrecked() {
			s.sinkShip(id, ship, CauseGunfire)
		}
	})
	if target.IsZero() {
		s.subs.Each(func(id ecs.EntityID, sub *Submarine) {
			if !target.IsZero() || id == sh.Source || s.ecs.Doomed(id) || !sub.Status.IsAlive() || sub.Submerged() {
				return
			}
			if _, ok := near[id]; !ok || !sub.Hull().ContainsPoint(pos.XY()) {
				return
			}
			target = id
			if i := nearestPart(sub, pos); i >= 0 {
				sub.Parts.AddSaturated(i, sh.Damage/100)
			}
			if sub.Parts.Critical() {
				s.killSubmarine(id, sub, CauseGunfire)
			}
		})
	}

	if target.IsZero() {
		event.Emit(s.bus, event.ShellSplash{Time: s.time, Shell: shell, Pos: pos})
		return 0
	}
	event.Emit(s.bus, event.ShellImpact{Time: s.time, Shell: shell, Target: target, Pos: pos, Damage: sh.Damage})
	return target
}

// TorpedoHit checks a running torpedo against every hull and resolves the
// hit. It reports whether the torpedo is spent.
func (s *State) TorpedoHit(id ecs.EntityID) bool {
	t, ok := s.torps.Get(id)
	if !ok {
		return false
	}
	return s.torpedoHit(id, t)
}

func (s *State) torpedoHit(id ecs.EntityID, t *weapon.Torpedo) bool {
	tp := t.Motion.Pos
	hull := Hull{Pos: tp.XY(), Heading: t.Motion.Heading, Length: TorpedoLength, Width: TorpedoWidth}
	near := s.aoi.Nearby(tp.XY())

	var target ecs.EntityID
	var ship *Ship
	var sub *Submarine
	s.ships.Each(func(sid ecs.EntityID, sh *Ship) {
		if !target.IsZero() || sid == t.Launcher || s.ecs.Doomed(sid) || !sh.Status.IsAlive() {
			return
		}
		if _, ok := near[sid]; ok && Collides(hull, sh.Hull()) {
			target, ship = sid, sh
		}
	})
	if target.IsZero() {
		s.subs.Each(func(sid ecs.EntityID, sb *Submarine) {
			if !target.IsZero() || sid == t.Launcher || s.ecs.Doomed(sid) || !sb.Status.IsAlive() {
				return
			}
			if math.Abs(sb.Motion.Pos.Z-tp.Z) > sb.Height/2 {
				return
			}
			if _, ok := near[sid]; ok && Collides(hull, sb.Hull()) {
				target, sub = sid, sb
			}
		})
	}
	if target.IsZero() {
		return false
	}

	if !t.Armed() {
		s.dud(id, target, tp, event.DudShortRun)
		return true
	}
	if s.rnd.Float64() < s.failure.FailureChance(t.Spec.Kind, t.RunLength) {
		s.dud(id, target, tp, event.DudMalfunction)
		return true
	}

	if ship != nil {
		ship.Sections.Hit(sectionOf(&ship.Object, tp.XY()), t.Spec.HitPoints)
		if ship.Sections.Wrecked() {
			s.sinkShip(target, ship, CauseTorpedo)
		}
	} else {
		s.killSubmarine(target, sub, CauseTorpedo)
	}
	event.Emit(s.bus, event.TorpedoHit{Time: s.time, Torpedo: id, Target: target, Pos: tp})
	return true
}

func (s *State) dud(torp, target ecs.EntityID, pos geo.Vec3, reason event.DudReason) {
	event.Emit(s.bus, event.TorpedoDud{Time: s.time, Torpedo: torp, Target: target, Pos: pos, Reason: reason})
}
