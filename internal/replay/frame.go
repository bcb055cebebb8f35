package replay

import (
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/weapon"
	"github.com/seawolf/tactsim/internal/world"
)

// Vessel kinds in a frame.
const (
	KindShip      = "ship"
	KindSubmarine = "submarine"
	KindTorpedo   = "torpedo"
)

// VesselState is the position of one moving object at frame time.
type VesselState struct {
	ID      uint64  `json:"id"`
	Kind    string  `json:"kind"`
	Name    string  `json:"name,omitempty"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Depth   float64 `json:"depth,omitempty"`
	Heading float64 `json:"heading"`
	Speed   float64 `json:"speed"`
	Status  string  `json:"status,omitempty"`
}

// Frame is the state of every vessel at one tick.
type Frame struct {
	Tick    uint64
	Time    float64
	Vessels []VesselState
}

// Capture takes a frame of ships, submarines and running torpedoes.
func Capture(s *world.State, tick uint64) Frame {
	f := Frame{Tick: tick, Time: s.Time()}
	s.EachShip(func(id ecs.EntityID, sh *world.Ship) {
		f.Vessels = append(f.Vessels, objectState(uint64(id), KindShip, &sh.Object))
	})
	s.EachSubmarine(func(id ecs.EntityID, sub *world.Submarine) {
		f.Vessels = append(f.Vessels, objectState(uint64(id), KindSubmarine, &sub.Object))
	})
	s.EachTorpedo(func(id ecs.EntityID, t *weapon.Torpedo) {
		m := t.Motion
		f.Vessels = append(f.Vessels, VesselState{
			ID:      uint64(id),
			Kind:    KindTorpedo,
			Name:    t.Spec.Kind,
			X:       m.Pos.X,
			Y:       m.Pos.Y,
			Depth:   m.Pos.Depth(),
			Heading: m.Heading.Value(),
			Speed:   m.Speed,
		})
	})
	return f
}

func objectState(id uint64, kind string, o *world.Object) VesselState {
	m := o.Motion
	return VesselState{
		ID:      id,
		Kind:    kind,
		Name:    o.Name,
		X:       m.Pos.X,
		Y:       m.Pos.Y,
		Depth:   m.Pos.Depth(),
		Heading: m.Heading.Value(),
		Speed:   m.Speed,
		Status:  o.Status.String(),
	}
}
