package world

import (
	"fmt"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/data"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/sensor"
)

func points(ps []data.Point) []geo.Vec2 {
	out := make([]geo.Vec2, len(ps))
	for i, p := range ps {
		out[i] = geo.Vec2{X: p.X, Y: p.Y}
	}
	return out
}

func throttleOf(s string) (component.Throttle, error) {
	if s == "" {
		return component.Stop, nil
	}
	return component.ParseThrottle(s)
}

// Populate spawns everything a scenario lists. The scenario must have been
// validated against the tables the State was created with.
func (s *State) Populate(sc *data.Scenario) error {
	if _, fixed := s.environment.(FixedConditions); fixed {
		s.environment = FixedConditions(sensor.Conditions{
			Visibility:      sc.Environment.Visibility,
			MaxViewDistance: sc.Environment.MaxViewDistance,
		})
	}

	convoys := make(map[string]ecs.EntityID, len(sc.Convoys))
	for _, c := range sc.Convoys {
		convoys[c.Name] = s.SpawnConvoy(c.Name, geo.Vec2{}, c.Speed, points(c.Waypoints))
	}

	names := make(map[string]ecs.EntityID)
	for _, e := range sc.Ships {
		th, err := throttleOf(e.Throttle)
		if err != nil {
			return fmt.Errorf("ship %q: %w", e.Name, err)
		}
		id, err := s.SpawnShip(ShipParams{
			Name:     e.Name,
			Class:    e.Class,
			Pos:      geo.Vec2{X: e.X, Y: e.Y},
			Heading:  geo.Deg(e.Heading),
			Throttle: th,
			AI:       e.AI,
		})
		if err != nil {
			return err
		}
		names[e.Name] = id
		if ctrl, ok := s.ai.Get(id); ok {
			for _, wp := range points(e.Waypoints) {
				ctrl.AddWaypoint(wp)
			}
			ctrl.Cyclic = e.Cyclic
		}
		if e.Convoy != "" {
			s.JoinConvoy(convoys[e.Convoy], id)
		}
	}
	for _, e := range sc.Ships {
		if e.Follow == "" {
			continue
		}
		if ctrl, ok := s.ai.Get(names[e.Name]); ok {
			ctrl.FollowObject(names[e.Follow])
		}
	}

	for _, e := range sc.Submarines {
		th, err := throttleOf(e.Throttle)
		if err != nil {
			return fmt.Errorf("submarine %q: %w", e.Name, err)
		}
		id, err := s.SpawnSubmarine(SubmarineParams{
			Name:     e.Name,
			Class:    e.Class,
			Pos:      geo.Vec2{X: e.X, Y: e.Y},
			Depth:    e.Depth,
			Heading:  geo.Deg(e.Heading),
			Throttle: th,
			AI:       e.AI,
		})
		if err != nil {
			return err
		}
		names[e.Name] = id
		sub, _ := s.subs.Get(id)
		for _, l := range e.Loadout {
			a, b := sub.Storage.Range(component.LocationByName(l.Location))
			left := l.Count
			for i := a; i < b && left > 0; i++ {
				if sub.Storage.Load(i, l.Torpedo) {
					left--
				}
			}
		}
	}

	// convoy reference point starts at the centre of its members
	s.convoys.Each(func(_ ecs.EntityID, c *Convoy) {
		members := c.Members()
		if len(members) == 0 {
			return
		}
		var sum geo.Vec2
		for _, id := range members {
			sh, _ := s.ships.Get(id)
			sum = sum.Add(sh.Motion.Pos.XY())
		}
		c.Pos = sum.Scale(1 / float64(len(members)))
	})
	return nil
}
