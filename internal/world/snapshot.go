package world

import (
	"fmt"

	"github.com/seawolf/tactsim/internal/ai"
	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/damage"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/gunnery"
	"github.com/seawolf/tactsim/internal/weapon"
)

// Snapshot is the persistent form of a State. Ref fields are the handles
// at record time; Restore maps them to fresh handles.
type Snapshot struct {
	Time         float64             `json:"time"`
	Ships        []ShipRecord        `json:"ships"`
	Submarines   []SubmarineRecord   `json:"submarines"`
	Torpedoes    []TorpedoRecord     `json:"torpedoes"`
	Shells       []ShellRecord       `json:"shells"`
	DepthCharges []DepthChargeRecord `json:"depth_charges"`
	Convoys      []ConvoyRecord      `json:"convoys"`
	Sunk         []SinkRecord        `json:"sunk"`
	Commands     []uint64            `json:"commands,omitempty"`
}

type ShipRecord struct {
	Ref       ecs.EntityID     `json:"ref"`
	Name      string           `json:"name"`
	Class     string           `json:"class"`
	Motion    component.Motion `json:"motion"`
	Status    component.Status `json:"status"`
	Guns      gunnery.Battery  `json:"guns"`
	Sections  damage.Sections  `json:"sections"`
	Convoy    ecs.EntityID     `json:"convoy"`
	Fuel      float64          `json:"fuel"`
	SinkTimer float64          `json:"sink_timer"`
	AI        *ai.Controller   `json:"ai,omitempty"`
}

type SubmarineRecord struct {
	Ref         ecs.EntityID     `json:"ref"`
	Name        string           `json:"name"`
	Class       string           `json:"class"`
	Motion      component.Motion `json:"motion"`
	Status      component.Status `json:"status"`
	Guns        gunnery.Battery  `json:"guns"`
	Damage      []float64        `json:"damage"`
	Slots       []component.Slot `json:"slots"`
	TargetDepth float64          `json:"target_depth"`
	ScopeUp     bool             `json:"scope_up"`
	SnorkelUp   bool             `json:"snorkel_up"`
	Battery     float64          `json:"battery"`
	Fuel        float64          `json:"fuel"`
	Steering    weapon.Steering  `json:"steering"`
	AI          *ai.Controller   `json:"ai,omitempty"`
}

type TorpedoRecord struct {
	Ref       ecs.EntityID       `json:"ref"`
	Spec      weapon.TorpedoSpec `json:"spec"`
	Steering  weapon.Steering    `json:"steering"`
	Motion    component.Motion   `json:"motion"`
	Launcher  ecs.EntityID       `json:"launcher"`
	RunLength float64            `json:"run_length"`
	Phase     int                `json:"phase"`
	Failed    bool               `json:"failed"`
}

type ShellRecord struct {
	Pos      geo.Vec3     `json:"pos"`
	Velocity geo.Vec3     `json:"velocity"`
	Damage   float64      `json:"damage"`
	Source   ecs.EntityID `json:"source"`
}

type DepthChargeRecord struct {
	Pos     geo.Vec3     `json:"pos"`
	Depth   float64      `json:"depth"`
	Dropper ecs.EntityID `json:"dropper"`
}

type ConvoyRecord struct {
	Ref       ecs.EntityID   `json:"ref"`
	Name      string         `json:"name"`
	Pos       geo.Vec2       `json:"pos"`
	Speed     float64        `json:"speed"`
	Waypoints []geo.Vec2     `json:"waypoints"`
	Merchants []ecs.EntityID `json:"merchants"`
	Warships  []ecs.EntityID `json:"warships"`
	Escorts   []ecs.EntityID `json:"escorts"`
	Contacts  []geo.Vec3     `json:"contacts"`
}

func copyController(id ecs.EntityID, store *ecs.Store[ai.Controller]) *ai.Controller {
	c, ok := store.Get(id)
	if !ok {
		return nil
	}
	out := *c
	out.Waypoints = append([]geo.Vec2(nil), c.Waypoints...)
	return &out
}

// Record captures the whole world. Entities waiting for removal are left
// out.
func (s *State) Record() *Snapshot {
	snap := &Snapshot{Time: s.time, Sunk: s.Sunk()}
	if len(s.seenOrder) > 0 {
		snap.Commands = append([]uint64(nil), s.seenOrder...)
	}
	s.convoys.Each(func(id ecs.EntityID, c *Convoy) {
		snap.Convoys = append(snap.Convoys, ConvoyRecord{
			Ref:       id,
			Name:      c.Name,
			Pos:       c.Pos,
			Speed:     c.Speed,
			Waypoints: append([]geo.Vec2(nil), c.Waypoints...),
			Merchants: append([]ecs.EntityID(nil), c.Merchants...),
			Warships:  append([]ecs.EntityID(nil), c.Warships...),
			Escorts:   append([]ecs.EntityID(nil), c.Escorts...),
			Contacts:  append([]geo.Vec3(nil), c.Contacts...),
		})
	})
	s.ships.Each(func(id ecs.EntityID, sh *Ship) {
		if s.ecs.Doomed(id) {
			return
		}
		guns := fitGuns(sh.Guns.Turrets)
		guns.Manned = sh.Guns.Manned
		snap.Ships = append(snap.Ships, ShipRecord{
			Ref:       id,
			Name:      sh.Name,
			Class:     sh.Class,
			Motion:    sh.Motion,
			Status:    sh.Status,
			Guns:      guns,
			Sections:  sh.Sections,
			Convoy:    sh.Convoy,
			Fuel:      sh.Fuel,
			SinkTimer: sh.SinkTimer,
			AI:        copyController(id, s.ai),
		})
	})
	s.subs.Each(func(id ecs.EntityID, sub *Submarine) {
		if s.ecs.Doomed(id) {
			return
		}
		guns := fitGuns(sub.Guns.Turrets)
		guns.Manned = sub.Guns.Manned
		snap.Submarines = append(snap.Submarines, SubmarineRecord{
			Ref:         id,
			Name:        sub.Name,
			Class:       sub.Class,
			Motion:      sub.Motion,
			Status:      sub.Status,
			Guns:        guns,
			Damage:      append([]float64(nil), sub.Parts.Levels...),
			Slots:       append([]component.Slot(nil), sub.Storage.Slots...),
			TargetDepth: sub.TargetDepth,
			ScopeUp:     sub.ScopeUp,
			SnorkelUp:   sub.SnorkelUp,
			Battery:     sub.Battery,
			Fuel:        sub.Fuel,
			Steering:    sub.Steering,
			AI:          copyController(id, s.ai),
		})
	})
	s.torps.Each(func(id ecs.EntityID, t *weapon.Torpedo) {
		if s.ecs.Doomed(id) {
			return
		}
		snap.Torpedoes = append(snap.Torpedoes, TorpedoRecord{
			Ref:       id,
			Spec:      t.Spec,
			Steering:  t.Steer,
			Motion:    t.Motion,
			Launcher:  t.Launcher,
			RunLength: t.RunLength,
			Phase:     t.Phase,
			Failed:    t.HasFailed(),
		})
	})
	s.shells.Each(func(id ecs.EntityID, sh *weapon.Shell) {
		if s.ecs.Doomed(id) {
			return
		}
		snap.Shells = append(snap.Shells, ShellRecord{Pos: sh.Pos, Velocity: sh.Velocity, Damage: sh.Damage, Source: sh.Source})
	})
	s.charges.Each(func(id ecs.EntityID, dc *weapon.DepthCharge) {
		if s.ecs.Doomed(id) {
			return
		}
		snap.DepthCharges = append(snap.DepthCharges, DepthChargeRecord{Pos: dc.Pos, Depth: dc.ExplosionDepth, Dropper: dc.Dropper})
	})
	return snap
}

// Restore rebuilds a recorded world into an empty State created with the
// same class tables. References to vessels that were not recorded become
// zero handles.
func (s *State) Restore(snap *Snapshot) error {
	if s.ships.Len()+s.subs.Len()+s.torps.Len()+s.convoys.Len() > 0 {
		return fmt.Errorf("restore into a populated world: %w", ErrRejected)
	}
	refs := make(map[ecs.EntityID]ecs.EntityID)
	mapRef := func(old ecs.EntityID) ecs.EntityID { return refs[old] }
	mapAll := func(old []ecs.EntityID) []ecs.EntityID {
		out := make([]ecs.EntityID, 0, len(old))
		for _, id := range old {
			if n := refs[id]; !n.IsZero() {
				out = append(out, n)
			}
		}
		return out
	}

	s.time = snap.Time
	s.sunk = append(s.sunk[:0], snap.Sunk...)
	for _, id := range snap.Commands {
		s.remember(id)
	}

	for _, r := range snap.Convoys {
		refs[r.Ref] = s.SpawnConvoy(r.Name, r.Pos, 0, r.Waypoints)
	}
	for _, r := range snap.Ships {
		id, err := s.SpawnShip(ShipParams{Name: r.Name, Class: r.Class})
		if err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		refs[r.Ref] = id
		sh, _ := s.ships.Get(id)
		sh.Motion = r.Motion
		sh.Status = r.Status
		sh.Guns = fitGuns(r.Guns.Turrets)
		sh.Guns.Manned = r.Guns.Manned
		sh.Sections = r.Sections
		sh.Fuel = r.Fuel
		sh.SinkTimer = r.SinkTimer
		s.aoi.Move(id, sh.Motion.Pos.XY())
		if r.AI != nil {
			c := *r.AI
			s.ai.Set(id, &c)
		}
	}
	for _, r := range snap.Submarines {
		id, err := s.SpawnSubmarine(SubmarineParams{Name: r.Name, Class: r.Class})
		if err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		refs[r.Ref] = id
		sub, _ := s.subs.Get(id)
		if len(r.Damage) != len(sub.Parts.Levels) || len(r.Slots) != len(sub.Storage.Slots) {
			return fmt.Errorf("restore submarine %q: layout changed: %w", r.Name, ErrRejected)
		}
		sub.Motion = r.Motion
		sub.Status = r.Status
		sub.Guns = fitGuns(r.Guns.Turrets)
		sub.Guns.Manned = r.Guns.Manned
		copy(sub.Parts.Levels, r.Damage)
		copy(sub.Storage.Slots, r.Slots)
		if err := sub.Storage.Check(); err != nil {
			return fmt.Errorf("restore submarine %q: %v: %w", r.Name, err, ErrRejected)
		}
		sub.TargetDepth = r.TargetDepth
		sub.ScopeUp = r.ScopeUp
		sub.SnorkelUp = r.SnorkelUp
		sub.Electric = sub.Submerged() && !sub.SnorkelUp
		sub.Battery = r.Battery
		sub.Fuel = r.Fuel
		sub.Steering = r.Steering
		s.aoi.Move(id, sub.Motion.Pos.XY())
		if r.AI != nil {
			c := *r.AI
			s.ai.Set(id, &c)
		}
	}

	// second pass: handles between entities
	for _, r := range snap.Convoys {
		c, _ := s.convoys.Get(refs[r.Ref])
		c.Speed = r.Speed
		c.Merchants = mapAll(r.Merchants)
		c.Warships = mapAll(r.Warships)
		c.Escorts = mapAll(r.Escorts)
		c.Contacts = append([]geo.Vec3(nil), r.Contacts...)
	}
	for _, r := range snap.Ships {
		sh, _ := s.ships.Get(refs[r.Ref])
		sh.Convoy = mapRef(r.Convoy)
	}
	s.ai.Each(func(_ ecs.EntityID, c *ai.Controller) {
		c.Follow = mapRef(c.Follow)
		c.Convoy = mapRef(c.Convoy)
	})

	for _, r := range snap.Torpedoes {
		id, err := s.AddTorpedo(r.Spec, r.Steering, r.Motion.Pos.XY(), r.Motion.Heading, mapRef(r.Launcher))
		if err != nil {
			return fmt.Errorf("restore torpedo: %w", err)
		}
		refs[r.Ref] = id
		t, _ := s.torps.Get(id)
		t.Motion = r.Motion
		t.RunLength = r.RunLength
		t.Phase = r.Phase
		if r.Failed {
			t.Fail()
		}
	}
	for _, r := range snap.Shells {
		s.SpawnShell(&weapon.Shell{Pos: r.Pos, Velocity: r.Velocity, Damage: r.Damage, Source: mapRef(r.Source)})
	}
	for _, r := range snap.DepthCharges {
		s.SpawnDepthCharge(r.Pos, r.Depth, mapRef(r.Dropper))
	}
	return nil
}
