package world

import (
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/core/event"
	"github.com/seawolf/tactsim/internal/weapon"
)

// Simulate advances the world by dt seconds. It is the only entry point
// that changes simulation state. Entities killed during the pass stay in
// their collections, inert, until the destroy queue is flushed at the end;
// entities spawned during the pass are first moved on the next call.
func (s *State) Simulate(dt float64) {
	if dt <= 0 {
		return
	}
	s.time += dt

	// weapons launched from here on wait for the next pass
	torps, charges, shells := s.torps.IDs(), s.charges.IDs(), s.shells.IDs()
	s.drainCommands()

	s.convoys.Each(func(_ ecs.EntityID, c *Convoy) {
		s.pruneConvoy(c)
		c.step(dt)
	})

	s.ships.Each(func(id ecs.EntityID, sh *Ship) {
		if s.ecs.Doomed(id) {
			return
		}
		if sh.step(dt) {
			s.ecs.MarkForDestruction(id)
			return
		}
		s.aoi.Move(id, sh.Motion.Pos.XY())
		s.think(id, &sh.Object, dt)
	})

	s.subs.Each(func(id ecs.EntityID, sub *Submarine) {
		if s.ecs.Doomed(id) {
			return
		}
		if cause := sub.step(dt); cause != "" {
			s.killSubmarine(id, sub, cause)
			return
		}
		s.aoi.Move(id, sub.Motion.Pos.XY())
		s.think(id, &sub.Object, dt)
	})

	eachOf(s.torps, torps, func(id ecs.EntityID, t *weapon.Torpedo) {
		if s.ecs.Doomed(id) {
			return
		}
		switch t.Step(weaponEnv{s, id}, dt) {
		case weapon.Hit:
			s.ecs.MarkForDestruction(id)
		case weapon.RanOut:
			event.Emit(s.bus, event.TorpedoRanOut{Time: s.time, Torpedo: id, RunLength: t.RunLength})
			s.ecs.MarkForDestruction(id)
		case weapon.Failed:
			event.Emit(s.bus, event.TorpedoDud{Time: s.time, Torpedo: id, Pos: t.Motion.Pos, Reason: event.DudFailure})
			s.ecs.MarkForDestruction(id)
		}
	})

	eachOf(s.charges, charges, func(id ecs.EntityID, dc *weapon.DepthCharge) {
		if !s.ecs.Doomed(id) && dc.Step(weaponEnv{s, id}, dt) {
			s.ecs.MarkForDestruction(id)
		}
	})

	eachOf(s.shells, shells, func(id ecs.EntityID, sh *weapon.Shell) {
		if !s.ecs.Doomed(id) && sh.Step(weaponEnv{s, id}, dt) {
			s.ecs.MarkForDestruction(id)
		}
	})

	s.purgePings()
	s.ecs.FlushDestroyQueue()
}

// think runs the AI controller of a vessel and reports a newly adopted
// contact.
func (s *State) think(id ecs.EntityID, o *Object, dt float64) {
	ctrl, ok := s.ai.Get(id)
	if !ok || !o.Status.IsAlive() {
		return
	}
	h := &vesselHost{s: s, id: id, obj: o}
	had, before := ctrl.HasContact, ctrl.Contact
	if !ctrl.Act(h, dt) || !ctrl.HasContact || h.source == "" {
		return
	}
	if had && ctrl.Contact == before {
		return
	}
	event.Emit(s.bus, event.ContactAdopted{
		Time:     s.time,
		Observer: id,
		Pos:      ctrl.Contact,
		Source:   h.source,
	})
}

// eachOf visits the entries of ids that are still in store.
func eachOf[T any](store *ecs.Store[T], ids []ecs.EntityID, fn func(ecs.EntityID, *T)) {
	for _, id := range ids {
		if c, ok := store.Get(id); ok {
			fn(id, c)
		}
	}
}
