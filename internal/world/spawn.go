package world

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/seawolf/tactsim/internal/ai"
	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/data"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/weapon"
)

// ErrUnknownClass is returned when a spawn names a class or torpedo type
// the loaded tables do not have.
var ErrUnknownClass = errors.New("unknown class")

// ShipParams place a new ship.
type ShipParams struct {
	Name     string
	Class    string
	Pos      geo.Vec2
	Heading  geo.Angle
	Throttle component.Throttle
	AI       string // "", none, dumb, escort, convoy
}

// SubmarineParams place a new submarine.
type SubmarineParams struct {
	Name     string
	Class    string
	Pos      geo.Vec2
	Depth    float64
	Heading  geo.Angle
	Throttle component.Throttle
	AI       string
}

func aiKind(name string) (ai.Kind, bool, error) {
	switch name {
	case "", "none":
		return 0, false, nil
	case "dumb":
		return ai.Dumb, true, nil
	case "escort":
		return ai.Escort, true, nil
	case "convoy":
		return ai.Convoy, true, nil
	}
	return 0, false, fmt.Errorf("ai %q: %w", name, ErrUnknownClass)
}

// SpawnShip creates a ship of a class from the ship table.
func (s *State) SpawnShip(p ShipParams) (ecs.EntityID, error) {
	var cls *data.ShipClass
	if s.shipTable != nil {
		cls = s.shipTable.Get(p.Class)
	}
	if cls == nil {
		return 0, fmt.Errorf("ship class %q: %w", p.Class, ErrUnknownClass)
	}
	return s.AddShip(cls, p)
}

// AddShip creates a ship from an explicit class.
func (s *State) AddShip(cls *data.ShipClass, p ShipParams) (ecs.EntityID, error) {
	kind, withAI, err := aiKind(p.AI)
	if err != nil {
		return 0, err
	}
	sh, err := newShip(cls, p.Name)
	if err != nil {
		return 0, fmt.Errorf("ship %q: %w", p.Name, err)
	}
	sh.Motion.Pos = p.Pos.XY0()
	sh.Motion.Heading = p.Heading
	sh.Motion.HeadTo = p.Heading
	sh.Motion.Throttle = p.Throttle

	id := s.ecs.CreateEntity()
	s.ships.Set(id, sh)
	s.aoi.Add(id, p.Pos)
	if withAI {
		ctrl := ai.New(kind, s.rnd)
		ctrl.MainCourse = p.Heading
		s.ai.Set(id, ctrl)
		// escorts keep their gun crews closed up
		sh.Guns.Manned = kind == ai.Escort
	}
	s.log.Debug("ship spawned", zap.String("name", p.Name), zap.String("class", cls.Class), zap.Stringer("id", id))
	return id, nil
}

// SpawnSubmarine creates a submarine of a class from the submarine table.
func (s *State) SpawnSubmarine(p SubmarineParams) (ecs.EntityID, error) {
	var cls *data.SubmarineClass
	if s.subTable != nil {
		cls = s.subTable.Get(p.Class)
	}
	if cls == nil {
		return 0, fmt.Errorf("submarine class %q: %w", p.Class, ErrUnknownClass)
	}
	return s.AddSubmarine(cls, p)
}

// AddSubmarine creates a submarine from an explicit class.
func (s *State) AddSubmarine(cls *data.SubmarineClass, p SubmarineParams) (ecs.EntityID, error) {
	kind, withAI, err := aiKind(p.AI)
	if err != nil {
		return 0, err
	}
	sub, err := newSubmarine(cls, p.Name)
	if err != nil {
		return 0, fmt.Errorf("submarine %q: %w", p.Name, err)
	}
	sub.Motion.Pos = geo.Vec3{X: p.Pos.X, Y: p.Pos.Y, Z: -p.Depth}
	sub.Motion.Heading = p.Heading
	sub.Motion.HeadTo = p.Heading
	sub.Motion.Throttle = p.Throttle
	sub.TargetDepth = p.Depth
	sub.Electric = sub.Submerged()
	sub.Motion.MaxSpeed = sub.MaxSpeed()

	id := s.ecs.CreateEntity()
	s.subs.Set(id, sub)
	s.aoi.Add(id, p.Pos)
	if withAI {
		ctrl := ai.New(kind, s.rnd)
		ctrl.MainCourse = p.Heading
		s.ai.Set(id, ctrl)
	}
	s.log.Debug("submarine spawned", zap.String("name", p.Name), zap.String("class", cls.Class), zap.Stringer("id", id))
	return id, nil
}

// SpawnTorpedo puts a running torpedo of a type from the torpedo table
// into the water.
func (s *State) SpawnTorpedo(kind string, steer weapon.Steering, pos geo.Vec2, heading geo.Angle, launcher ecs.EntityID) (ecs.EntityID, error) {
	var tt *data.TorpedoType
	if s.torpTable != nil {
		tt = s.torpTable.Get(kind)
	}
	if tt == nil {
		return 0, fmt.Errorf("torpedo %q: %w", kind, ErrUnknownClass)
	}
	return s.AddTorpedo(tt.Spec(), steer, pos, heading, launcher)
}

// AddTorpedo launches a torpedo with an explicit spec.
func (s *State) AddTorpedo(spec weapon.TorpedoSpec, steer weapon.Steering, pos geo.Vec2, heading geo.Angle, launcher ecs.EntityID) (ecs.EntityID, error) {
	t, err := weapon.NewTorpedo(spec, steer, pos, heading, launcher)
	if err != nil {
		return 0, err
	}
	id := s.ecs.CreateEntity()
	s.torps.Set(id, t)
	return id, nil
}

// SpawnShell adds a gun shell in flight.
func (s *State) SpawnShell(sh *weapon.Shell) ecs.EntityID {
	id := s.ecs.CreateEntity()
	s.shells.Set(id, sh)
	return id
}

// SpawnDepthCharge drops a charge set to explode at depth.
func (s *State) SpawnDepthCharge(pos geo.Vec3, depth float64, dropper ecs.EntityID) ecs.EntityID {
	id := s.ecs.CreateEntity()
	s.charges.Set(id, weapon.NewDepthCharge(pos, depth, dropper))
	return id
}
