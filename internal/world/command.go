package world

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/seawolf/tactsim/internal/ai"
	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/core/event"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/gunnery"
	"github.com/seawolf/tactsim/internal/weapon"
)

var (
	// ErrNoVessel is returned when a command names a handle that is not a
	// live vessel of the right kind.
	ErrNoVessel = errors.New("no such vessel")
	// ErrRejected is returned when the vessel cannot carry out the order.
	ErrRejected = errors.New("order rejected")
)

// Command is an external order. Commands are queued by Submit and applied
// at the start of the next Simulate. The ID is chosen by the client; a
// repeated ID is ignored.
type Command interface {
	CommandID() uint64
	apply(s *State) error
}

// RememberedCommands bounds how many command IDs are kept for duplicate
// detection; the oldest are forgotten first.
const RememberedCommands = 4096

// Submit queues a command. It returns false when the ID was seen before.
func (s *State) Submit(c Command) bool {
	if !s.remember(c.CommandID()) {
		return false
	}
	s.queue = append(s.queue, c)
	return true
}

func (s *State) remember(id uint64) bool {
	if _, dup := s.seen[id]; dup {
		return false
	}
	s.seen[id] = struct{}{}
	s.seenOrder = append(s.seenOrder, id)
	if len(s.seenOrder) > RememberedCommands {
		delete(s.seen, s.seenOrder[0])
		s.seenOrder = s.seenOrder[1:]
	}
	return true
}

func (s *State) drainCommands() {
	if len(s.queue) == 0 {
		return
	}
	q := s.queue
	s.queue = nil
	for _, c := range q {
		if err := c.apply(s); err != nil {
			s.log.Warn("command rejected", zap.Uint64("command", c.CommandID()), zap.Error(err))
		}
	}
}

func (s *State) vessel(id ecs.EntityID) (*Object, error) {
	o, ok := s.active(id)
	if !ok {
		return nil, fmt.Errorf("vessel %s: %w", id, ErrNoVessel)
	}
	return o, nil
}

func (s *State) submarine(id ecs.EntityID) (*Submarine, error) {
	if _, ok := s.active(id); !ok {
		return nil, fmt.Errorf("submarine %s: %w", id, ErrNoVessel)
	}
	sub, ok := s.subs.Get(id)
	if !ok {
		return nil, fmt.Errorf("submarine %s: %w", id, ErrNoVessel)
	}
	return sub, nil
}

type SetThrottle struct {
	ID       uint64             `json:"id"`
	Vessel   ecs.EntityID       `json:"vessel"`
	Throttle component.Throttle `json:"throttle"`
}

func (c SetThrottle) CommandID() uint64 { return c.ID }

func (c SetThrottle) apply(s *State) error {
	o, err := s.vessel(c.Vessel)
	if err != nil {
		return err
	}
	o.Motion.Throttle = c.Throttle
	return nil
}

// HeadTo turns to a heading, by the shorter side unless Side is set.
type HeadTo struct {
	ID      uint64           `json:"id"`
	Vessel  ecs.EntityID     `json:"vessel"`
	Heading geo.Angle        `json:"heading"`
	Side    component.Rudder `json:"side"`
}

func (c HeadTo) CommandID() uint64 { return c.ID }

func (c HeadTo) apply(s *State) error {
	o, err := s.vessel(c.Vessel)
	if err != nil {
		return err
	}
	o.Motion.SteerToSide(c.Heading, c.Side)
	if ctrl, ok := s.ai.Get(c.Vessel); ok {
		ctrl.MainCourse = c.Heading
	}
	return nil
}

// FireTorpedo launches from a tube at a target point. Tube -1 picks the
// first loaded bow tube when the target is forward of the beam, a stern
// tube otherwise.
type FireTorpedo struct {
	ID        uint64          `json:"id"`
	Submarine ecs.EntityID    `json:"submarine"`
	Tube      int             `json:"tube"`
	Target    geo.Vec2        `json:"target"`
	Steering  weapon.Steering `json:"steering"`
}

func (c FireTorpedo) CommandID() uint64 { return c.ID }

func (c FireTorpedo) apply(s *State) error {
	sub, err := s.submarine(c.Submarine)
	if err != nil {
		return err
	}
	_, err = s.LaunchTorpedo(c.Submarine, sub, c.Tube, c.Target, c.Steering)
	return err
}

// LaunchTorpedo fires one torpedo and emits TorpedoLaunched.
func (s *State) LaunchTorpedo(id ecs.EntityID, sub *Submarine, tube int, target geo.Vec2, steer weapon.Steering) (ecs.EntityID, error) {
	pos := sub.Motion.Pos.XY()
	bearing := geo.AngleOf(target.Sub(pos))
	rel := bearing.Diff(sub.Motion.Heading)
	st := sub.Storage
	if tube < 0 {
		loc := component.BowTube
		if rel < -90 || rel > 90 {
			loc = component.SternTube
		}
		tube = st.FindLoaded(loc)
	}
	loc := st.LocationOf(tube)
	if loc != component.BowTube && loc != component.SternTube {
		return 0, fmt.Errorf("tube %d: %w", tube, ErrRejected)
	}
	kind, ok := st.Take(tube)
	if !ok {
		return 0, fmt.Errorf("tube %d empty: %w", tube, ErrRejected)
	}
	half := sub.Motion.Direction().Scale(sub.Length / 2)
	if loc == component.BowTube {
		pos = pos.Add(half)
	} else {
		pos = pos.Sub(half)
	}
	if steer.RunDepth == 0 {
		steer.RunDepth = sub.Steering.RunDepth
	}
	tid, err := s.SpawnTorpedo(kind, steer, pos, bearing, id)
	if err != nil {
		st.Load(tube, kind)
		return 0, err
	}
	event.Emit(s.bus, event.TorpedoLaunched{Time: s.time, Torpedo: tid, Launcher: id, Tube: tube})
	return tid, nil
}

type FireGun struct {
	ID     uint64       `json:"id"`
	Vessel ecs.EntityID `json:"vessel"`
	Target ecs.EntityID `json:"target"`
}

func (c FireGun) CommandID() uint64 { return c.ID }

func (c FireGun) apply(s *State) error {
	o, err := s.vessel(c.Vessel)
	if err != nil {
		return err
	}
	if sub, ok := s.subs.Get(c.Vessel); ok && sub.Submerged() {
		return fmt.Errorf("gun fire while submerged: %w", ErrRejected)
	}
	if r := s.fireGun(c.Vessel, o, c.Target); r != gunnery.Fired {
		return fmt.Errorf("gun: %s: %w", r, ErrRejected)
	}
	return nil
}

type ManGuns struct {
	ID     uint64       `json:"id"`
	Vessel ecs.EntityID `json:"vessel"`
	Manned bool         `json:"manned"`
}

func (c ManGuns) CommandID() uint64 { return c.ID }

func (c ManGuns) apply(s *State) error {
	o, err := s.vessel(c.Vessel)
	if err != nil {
		return err
	}
	o.Guns.Manned = c.Manned
	return nil
}

type Dive struct {
	ID        uint64       `json:"id"`
	Submarine ecs.EntityID `json:"submarine"`
	Depth     float64      `json:"depth"`
}

func (c Dive) CommandID() uint64 { return c.ID }

func (c Dive) apply(s *State) error {
	sub, err := s.submarine(c.Submarine)
	if err != nil {
		return err
	}
	sub.DiveTo(c.Depth)
	return nil
}

type Periscope struct {
	ID        uint64       `json:"id"`
	Submarine ecs.EntityID `json:"submarine"`
	Up        bool         `json:"up"`
}

func (c Periscope) CommandID() uint64 { return c.ID }

func (c Periscope) apply(s *State) error {
	sub, err := s.submarine(c.Submarine)
	if err != nil {
		return err
	}
	if !sub.SetScope(c.Up) {
		return fmt.Errorf("periscope too deep: %w", ErrRejected)
	}
	return nil
}

type Snorkel struct {
	ID        uint64       `json:"id"`
	Submarine ecs.EntityID `json:"submarine"`
	Up        bool         `json:"up"`
}

func (c Snorkel) CommandID() uint64 { return c.ID }

func (c Snorkel) apply(s *State) error {
	sub, err := s.submarine(c.Submarine)
	if err != nil {
		return err
	}
	if !sub.SetSnorkel(c.Up) {
		return fmt.Errorf("snorkel: %w", ErrRejected)
	}
	return nil
}

type TransferTorpedo struct {
	ID        uint64       `json:"id"`
	Submarine ecs.EntityID `json:"submarine"`
	From      int          `json:"from"`
	To        int          `json:"to"`
}

func (c TransferTorpedo) CommandID() uint64 { return c.ID }

func (c TransferTorpedo) apply(s *State) error {
	sub, err := s.submarine(c.Submarine)
	if err != nil {
		return err
	}
	if !sub.Storage.Transfer(c.From, c.To) {
		return fmt.Errorf("transfer %d to %d: %w", c.From, c.To, ErrRejected)
	}
	return nil
}

// Follow makes a vessel follow another one; the zero target returns it to
// its waypoints. A vessel without a controller gets a dumb one.
type Follow struct {
	ID     uint64       `json:"id"`
	Vessel ecs.EntityID `json:"vessel"`
	Target ecs.EntityID `json:"target"`
}

func (c Follow) CommandID() uint64 { return c.ID }

func (c Follow) apply(s *State) error {
	if _, err := s.vessel(c.Vessel); err != nil {
		return err
	}
	ctrl, ok := s.ai.Get(c.Vessel)
	if !ok {
		ctrl = ai.New(ai.Dumb, s.rnd)
		s.ai.Set(c.Vessel, ctrl)
	}
	ctrl.FollowObject(c.Target)
	return nil
}

// FailTorpedo makes a running torpedo fail.
type FailTorpedo struct {
	ID      uint64       `json:"id"`
	Torpedo ecs.EntityID `json:"torpedo"`
}

func (c FailTorpedo) CommandID() uint64 { return c.ID }

func (c FailTorpedo) apply(s *State) error {
	t, ok := s.torps.Get(c.Torpedo)
	if !ok {
		return fmt.Errorf("torpedo %s: %w", c.Torpedo, ErrNoVessel)
	}
	t.Fail()
	return nil
}
