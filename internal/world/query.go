package world

import (
	"sort"

	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/core/event"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/sensor"
	"github.com/seawolf/tactsim/internal/weapon"
)

// Detection queries. A dead, defunct, unknown or zero observer gets an
// empty result. Results follow collection order, so they are the same for
// the same input and seed.

// lookoutOf returns the observer body when it can look out. A submarine
// uses its lookout only while surfaced or with the periscope up.
func (s *State) lookoutOf(observer ecs.EntityID) (sensor.Body, *sensor.Lookout, bool) {
	if _, ok := s.active(observer); !ok {
		return nil, nil, false
	}
	body, obj, _ := s.body(observer)
	lo, ok := obj.Sensors.Lookout()
	if !ok {
		return nil, nil, false
	}
	if sub, isSub := s.subs.Get(observer); isSub && sub.Submerged() && !sub.ScopeUp {
		return nil, nil, false
	}
	return body, lo, true
}

// VisibleShips returns the ships the observer's lookout can see.
func (s *State) VisibleShips(observer ecs.EntityID) []ecs.EntityID {
	obs, lo, ok := s.lookoutOf(observer)
	if !ok {
		return nil
	}
	env := s.Conditions()
	var out []ecs.EntityID
	s.ships.Each(func(id ecs.EntityID, sh *Ship) {
		if id == observer || s.ecs.Doomed(id) || !sh.Status.IsAlive() {
			return
		}
		if lo.Detects(env, obs, shipBody{sh}) {
			out = append(out, id)
		}
	})
	return out
}

// VisibleSubmarines returns the submarines the observer can see.
func (s *State) VisibleSubmarines(observer ecs.EntityID) []ecs.EntityID {
	obs, lo, ok := s.lookoutOf(observer)
	if !ok {
		return nil
	}
	env := s.Conditions()
	var out []ecs.EntityID
	s.subs.Each(func(id ecs.EntityID, sub *Submarine) {
		if id == observer || s.ecs.Doomed(id) || !sub.Status.IsAlive() {
			return
		}
		if lo.Detects(env, obs, subBody{sub}) {
			out = append(out, id)
		}
	})
	return out
}

// VisibleTorpedoes returns the torpedo wakes the observer can see.
func (s *State) VisibleTorpedoes(observer ecs.EntityID) []ecs.EntityID {
	obs, lo, ok := s.lookoutOf(observer)
	if !ok {
		return nil
	}
	env := s.Conditions()
	var out []ecs.EntityID
	s.torps.Each(func(id ecs.EntityID, t *weapon.Torpedo) {
		if s.ecs.Doomed(id) {
			return
		}
		if lo.Detects(env, obs, torpBody{t}) {
			out = append(out, id)
		}
	})
	return out
}

type candidate struct {
	id   ecs.EntityID
	body sensor.Body
	d2   float64
}

// nearest keeps the MaxAcousticContacts closest candidates. The sort is
// stable so ties keep collection order.
func nearest(cands []candidate) []candidate {
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].d2 < cands[j].d2 })
	if len(cands) > MaxAcousticContacts {
		cands = cands[:MaxAcousticContacts]
	}
	return cands
}

func (s *State) passiveOf(observer ecs.EntityID) (sensor.Body, *sensor.PassiveSonar, bool) {
	if _, ok := s.active(observer); !ok {
		return nil, nil, false
	}
	body, obj, _ := s.body(observer)
	ps, ok := obj.Sensors.Passive()
	return body, ps, ok
}

func (s *State) listen(obs sensor.Body, ps *sensor.PassiveSonar, cands []candidate) []sensor.Contact {
	var out []sensor.Contact
	for _, c := range nearest(cands) {
		if level, ok := ps.Detects(s.rnd, obs, c.body); ok {
			out = append(out, sensor.Contact{Pos: c.body.Position(), Target: c.id, Time: s.time, Level: level})
		}
	}
	return out
}

// SonarShips returns what the observer's passive sonar hears of ships.
func (s *State) SonarShips(observer ecs.EntityID) []sensor.Contact {
	obs, ps, ok := s.passiveOf(observer)
	if !ok {
		return nil
	}
	origin := obs.Position().XY()
	var cands []candidate
	s.ships.Each(func(id ecs.EntityID, sh *Ship) {
		if id == observer || s.ecs.Doomed(id) || !sh.Status.IsAlive() {
			return
		}
		cands = append(cands, candidate{id, shipBody{sh}, origin.SquareDistance(sh.Motion.Pos.XY())})
	})
	return s.listen(obs, ps, cands)
}

// SonarSubmarines returns what the observer's passive sonar hears of
// submarines.
func (s *State) SonarSubmarines(observer ecs.EntityID) []sensor.Contact {
	obs, ps, ok := s.passiveOf(observer)
	if !ok {
		return nil
	}
	origin := obs.Position().XY()
	var cands []candidate
	s.subs.Each(func(id ecs.EntityID, sub *Submarine) {
		if id == observer || s.ecs.Doomed(id) || !sub.Status.IsAlive() {
			return
		}
		cands = append(cands, candidate{id, subBody{sub}, origin.SquareDistance(sub.Motion.Pos.XY())})
	})
	return s.listen(obs, ps, cands)
}

// PingASDIC sends an active sonar ping and returns anonymous fixes of the
// submarines that echoed, each jittered by up to ±PingJitter per axis.
// With moveSensor the housing trains on by itself, otherwise it is set to
// the absolute direction dir.
func (s *State) PingASDIC(observer ecs.EntityID, moveSensor bool, dir geo.Angle) []sensor.Contact {
	if _, ok := s.active(observer); !ok {
		return nil
	}
	obs, obj, _ := s.body(observer)
	as, ok := obj.Sensors.Active()
	if !ok {
		return nil
	}
	if moveSensor {
		as.SetMode(obs, sensor.SelectMode(obs))
		as.AutoMoveBearing(as.Mode())
	} else {
		as.Bearing = geo.Deg(dir.Value() - obs.Heading().Value())
	}
	ping := Ping{
		Emitter: observer,
		Origin:  obs.Position(),
		Bearing: as.Bearing.Add(obs.Heading().Value()),
		Time:    s.time,
		Range:   as.Range,
		Cone:    as.Cone,
	}
	s.pings = append(s.pings, ping)
	event.Emit(s.bus, event.PingEmitted{
		Time:    s.time,
		Emitter: observer,
		Origin:  ping.Origin,
		Bearing: ping.Bearing.Value(),
		Range:   ping.Range,
		Cone:    ping.Cone,
	})

	var out []sensor.Contact
	s.subs.Each(func(id ecs.EntityID, sub *Submarine) {
		if id == observer || s.ecs.Doomed(id) || !sub.Status.IsAlive() {
			return
		}
		if !as.Detects(s.rnd, obs, subBody{sub}) {
			return
		}
		p := sub.Motion.Pos
		p.X += s.rnd.Float64()*2*PingJitter - PingJitter
		p.Y += s.rnd.Float64()*2*PingJitter - PingJitter
		out = append(out, sensor.Contact{Pos: p, Time: s.time})
	})
	return out
}

// purgePings drops ping records older than the remain time.
func (s *State) purgePings() {
	keep := s.pings[:0]
	for _, p := range s.pings {
		if s.time-p.Time <= s.pingRemain {
			keep = append(keep, p)
		}
	}
	s.pings = keep
}
