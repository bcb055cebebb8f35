package world

import (
	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/core/event"
	"github.com/seawolf/tactsim/internal/geo"
)

// waypointReach is the squared distance at which the convoy reference
// point takes the next waypoint.
const waypointReach = 10.0

const maxConvoyContacts = 16

// Convoy groups ships that sail together. It holds handles only.
type Convoy struct {
	Name      string
	Pos       geo.Vec2
	Speed     float64 // m/s
	Waypoints []geo.Vec2
	Merchants []ecs.EntityID
	Warships  []ecs.EntityID
	Escorts   []ecs.EntityID
	Contacts  []geo.Vec3
}

// step moves the reference point along the waypoint list.
func (c *Convoy) step(dt float64) {
	if len(c.Waypoints) == 0 {
		return
	}
	wp := c.Waypoints[0]
	d := wp.Sub(c.Pos)
	run := c.Speed * dt
	if d.Length() <= run {
		c.Pos = wp
	} else {
		c.Pos = c.Pos.Add(d.Normal().Scale(run))
	}
	if c.Pos.SquareDistance(wp) < waypointReach {
		c.Waypoints = c.Waypoints[1:]
	}
}

// Members returns every member handle.
func (c *Convoy) Members() []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(c.Merchants)+len(c.Warships)+len(c.Escorts))
	out = append(out, c.Merchants...)
	out = append(out, c.Warships...)
	return append(out, c.Escorts...)
}

func (s *State) pruneConvoy(c *Convoy) {
	keep := func(ids []ecs.EntityID) []ecs.EntityID {
		out := ids[:0]
		for _, id := range ids {
			if _, ok := s.active(id); ok {
				out = append(out, id)
			}
		}
		return out
	}
	c.Merchants = keep(c.Merchants)
	c.Warships = keep(c.Warships)
	c.Escorts = keep(c.Escorts)
}

// SpawnConvoy creates an empty convoy at pos.
func (s *State) SpawnConvoy(name string, pos geo.Vec2, knots float64, waypoints []geo.Vec2) ecs.EntityID {
	id := s.ecs.CreateEntity()
	wps := make([]geo.Vec2, len(waypoints))
	copy(wps, waypoints)
	s.convoys.Set(id, &Convoy{Name: name, Pos: pos, Speed: knots * component.KnotsToMS, Waypoints: wps})
	return id
}

// JoinConvoy adds a ship to a convoy under its role.
func (s *State) JoinConvoy(convoy, ship ecs.EntityID) bool {
	c, ok := s.convoys.Get(convoy)
	if !ok {
		return false
	}
	sh, ok := s.ships.Get(ship)
	if !ok {
		return false
	}
	switch sh.Role {
	case RoleEscort:
		c.Escorts = append(c.Escorts, ship)
	case RoleWarship:
		c.Warships = append(c.Warships, ship)
	default:
		c.Merchants = append(c.Merchants, ship)
	}
	sh.Convoy = convoy
	if ctrl, ok := s.ai.Get(ship); ok {
		ctrl.Convoy = convoy
	}
	return true
}

// ConvoyContact stores a contact with the convoy and makes every escort
// attack it.
func (s *State) ConvoyContact(convoy ecs.EntityID, pos geo.Vec3) {
	c, ok := s.convoys.Get(convoy)
	if !ok {
		return
	}
	c.Contacts = append(c.Contacts, pos)
	if len(c.Contacts) > maxConvoyContacts {
		c.Contacts = c.Contacts[len(c.Contacts)-maxConvoyContacts:]
	}
	for _, id := range c.Escorts {
		if _, ok := s.active(id); !ok {
			continue
		}
		if ctrl, ok := s.ai.Get(id); ok {
			ctrl.AttackContact(pos)
			event.Emit(s.bus, event.ContactAdopted{
				Time:     s.time,
				Observer: id,
				Pos:      pos,
				Source:   event.SourceConvoy,
			})
		}
	}
}
