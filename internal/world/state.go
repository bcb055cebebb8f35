// Package world is the tactical coordinator: it owns every ship, submarine,
// torpedo, shell, depth charge and convoy, advances them in a fixed order
// and answers the detection and collision queries the vessels and their
// AI controllers need.
package world

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/seawolf/tactsim/internal/ai"
	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/core/event"
	"github.com/seawolf/tactsim/internal/data"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/sensor"
	"github.com/seawolf/tactsim/internal/weapon"
)

const (
	// MaxAcousticContacts caps the passive sonar candidate list.
	MaxAcousticContacts = 5
	// DefaultPingRemainTime is how long ping records are kept, in seconds.
	DefaultPingRemainTime = 1.0
	// DefaultSinkDuration is how long a wrecked ship stays afloat.
	DefaultSinkDuration = 60.0
	// PingJitter is the half width of the random offset of an echo fix.
	PingJitter = 20.0
)

// Environment supplies the viewing conditions at a simulated time.
type Environment interface {
	Conditions(time float64) sensor.Conditions
}

// Doctrine may shorten the range at which a warship opens fire.
type Doctrine interface {
	EngageRange(class string, maxRange float64) float64
}

// FixedConditions is an Environment that never changes.
type FixedConditions sensor.Conditions

func (f FixedConditions) Conditions(float64) sensor.Conditions { return sensor.Conditions(f) }

// Options configure a new State. Zero values pick the defaults.
type Options struct {
	Seed int64
	Rand *rand.Rand // overrides Seed
	Bus  *event.Bus
	Log  *zap.Logger

	Ships      *data.ShipTable
	Submarines *data.SubmarineTable
	Torpedoes  *data.TorpedoTable

	Failure     weapon.FailurePolicy
	Environment Environment
	Doctrine    Doctrine

	PingRemainTime float64
	SinkDuration   float64
}

// Ping is an active sonar emission kept for presentation.
type Ping struct {
	Emitter ecs.EntityID
	Origin  geo.Vec3
	Bearing geo.Angle // absolute
	Time    float64
	Range   float64
	Cone    float64
}

// SinkRecord is one vessel lost.
type SinkRecord struct {
	Time      float64      `json:"time"`
	Vessel    ecs.EntityID `json:"vessel"`
	Name      string       `json:"name"`
	Class     string       `json:"class"`
	Tonnage   int          `json:"tonnage"`
	Submarine bool         `json:"submarine"`
	Cause     string       `json:"cause"`
}

// State tracks every entity of one engagement.
// Single-goroutine access only (simulation loop).
type State struct {
	ecs *ecs.World
	aoi *AOIGrid

	ships   *ecs.Store[Ship]
	subs    *ecs.Store[Submarine]
	torps   *ecs.Store[weapon.Torpedo]
	shells  *ecs.Store[weapon.Shell]
	charges *ecs.Store[weapon.DepthCharge]
	convoys *ecs.Store[Convoy]
	ai      *ecs.Store[ai.Controller]

	pings []Ping
	sunk  []SinkRecord

	queue     []Command
	seen      map[uint64]struct{}
	seenOrder []uint64

	rnd  *rand.Rand
	bus  *event.Bus
	log  *zap.Logger
	time float64

	shipTable *data.ShipTable
	subTable  *data.SubmarineTable
	torpTable *data.TorpedoTable

	failure     weapon.FailurePolicy
	environment Environment
	doctrine    Doctrine

	pingRemain   float64
	sinkDuration float64
}

func NewState(opts Options) *State {
	s := &State{
		ecs:          ecs.NewWorld(),
		aoi:          NewAOIGrid(),
		ships:        ecs.NewStore[Ship](),
		subs:         ecs.NewStore[Submarine](),
		torps:        ecs.NewStore[weapon.Torpedo](),
		shells:       ecs.NewStore[weapon.Shell](),
		charges:      ecs.NewStore[weapon.DepthCharge](),
		convoys:      ecs.NewStore[Convoy](),
		ai:           ecs.NewStore[ai.Controller](),
		seen:         make(map[uint64]struct{}),
		rnd:          opts.Rand,
		bus:          opts.Bus,
		log:          opts.Log,
		shipTable:    opts.Ships,
		subTable:     opts.Submarines,
		torpTable:    opts.Torpedoes,
		failure:      opts.Failure,
		environment:  opts.Environment,
		doctrine:     opts.Doctrine,
		pingRemain:   opts.PingRemainTime,
		sinkDuration: opts.SinkDuration,
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(opts.Seed))
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.failure == nil {
		s.failure = weapon.ConstantFailure(0)
	}
	if s.environment == nil {
		s.environment = FixedConditions{Visibility: 1}
	}
	if s.pingRemain <= 0 {
		s.pingRemain = DefaultPingRemainTime
	}
	if s.sinkDuration <= 0 {
		s.sinkDuration = DefaultSinkDuration
	}
	reg := s.ecs.Registry()
	reg.Register(s.ships)
	reg.Register(s.subs)
	reg.Register(s.torps)
	reg.Register(s.shells)
	reg.Register(s.charges)
	reg.Register(s.convoys)
	reg.Register(s.ai)
	reg.Register(s.aoi)
	return s
}

// Time is the simulated clock in seconds.
func (s *State) Time() float64 { return s.time }

// Rand is the world's random source.
func (s *State) Rand() *rand.Rand { return s.rnd }

// Bus returns the event bus, possibly nil.
func (s *State) Bus() *event.Bus { return s.bus }

// Conditions are the viewing conditions right now.
func (s *State) Conditions() sensor.Conditions {
	return s.environment.Conditions(s.time)
}

// Pings returns the live ping records.
func (s *State) Pings() []Ping {
	out := make([]Ping, len(s.pings))
	copy(out, s.pings)
	return out
}

// Sunk returns every vessel lost so far, in order.
func (s *State) Sunk() []SinkRecord {
	out := make([]SinkRecord, len(s.sunk))
	copy(out, s.sunk)
	return out
}

// Counts is the number of entities per collection.
type Counts struct {
	Ships, Submarines, Torpedoes, Shells, DepthCharges, Convoys, Pings int
}

func (s *State) Counts() Counts {
	return Counts{
		Ships:        s.ships.Len(),
		Submarines:   s.subs.Len(),
		Torpedoes:    s.torps.Len(),
		Shells:       s.shells.Len(),
		DepthCharges: s.charges.Len(),
		Convoys:      s.convoys.Len(),
		Pings:        len(s.pings),
	}
}

// Ship returns a ship by handle.
func (s *State) Ship(id ecs.EntityID) (*Ship, bool) { return s.ships.Get(id) }

// Submarine returns a submarine by handle.
func (s *State) Submarine(id ecs.EntityID) (*Submarine, bool) { return s.subs.Get(id) }

// Torpedo returns a running torpedo by handle.
func (s *State) Torpedo(id ecs.EntityID) (*weapon.Torpedo, bool) { return s.torps.Get(id) }

// Convoy returns a convoy by handle.
func (s *State) Convoy(id ecs.EntityID) (*Convoy, bool) { return s.convoys.Get(id) }

// Controller returns the AI controller of a vessel.
func (s *State) Controller(id ecs.EntityID) (*ai.Controller, bool) { return s.ai.Get(id) }

func (s *State) EachShip(fn func(ecs.EntityID, *Ship))              { s.ships.Each(fn) }
func (s *State) EachSubmarine(fn func(ecs.EntityID, *Submarine))    { s.subs.Each(fn) }
func (s *State) EachTorpedo(fn func(ecs.EntityID, *weapon.Torpedo)) { s.torps.Each(fn) }
func (s *State) EachShell(fn func(ecs.EntityID, *weapon.Shell))     { s.shells.Each(fn) }
func (s *State) EachConvoy(fn func(ecs.EntityID, *Convoy))          { s.convoys.Each(fn) }

func (s *State) EachDepthCharge(fn func(ecs.EntityID, *weapon.DepthCharge)) {
	s.charges.Each(fn)
}

// object returns the vessel part of a ship or submarine.
func (s *State) object(id ecs.EntityID) (*Object, bool) {
	if sh, ok := s.ships.Get(id); ok {
		return &sh.Object, true
	}
	if sub, ok := s.subs.Get(id); ok {
		return &sub.Object, true
	}
	return nil, false
}

// body returns the sensor view of a vessel.
func (s *State) body(id ecs.EntityID) (sensor.Body, *Object, bool) {
	if sh, ok := s.ships.Get(id); ok {
		return shipBody{sh}, &sh.Object, true
	}
	if sub, ok := s.subs.Get(id); ok {
		return subBody{sub}, &sub.Object, true
	}
	return nil, nil, false
}

// active reports whether id is a vessel that still acts this pass.
func (s *State) active(id ecs.EntityID) (*Object, bool) {
	if id.IsZero() || !s.ecs.Alive(id) || s.ecs.Doomed(id) {
		return nil, false
	}
	o, ok := s.object(id)
	if !ok || !o.Status.IsAlive() {
		return nil, false
	}
	return o, true
}

// ObjectPosition returns the position of a live vessel or torpedo.
func (s *State) ObjectPosition(id ecs.EntityID) (geo.Vec3, bool) {
	if o, ok := s.active(id); ok {
		return o.Motion.Pos, true
	}
	if t, ok := s.torps.Get(id); ok && !s.ecs.Doomed(id) {
		return t.Motion.Pos, true
	}
	return geo.Vec3{}, false
}

// recordSink notes a loss once and emits VesselSunk.
func (s *State) recordSink(id ecs.EntityID, o *Object, submarine bool, cause string) {
	rec := SinkRecord{
		Time:      s.time,
		Vessel:    id,
		Name:      o.Name,
		Class:     o.Class,
		Tonnage:   o.Tonnage,
		Submarine: submarine,
		Cause:     cause,
	}
	s.sunk = append(s.sunk, rec)
	s.log.Info("vessel lost",
		zap.String("name", o.Name),
		zap.String("class", o.Class),
		zap.Int("tonnage", o.Tonnage),
		zap.String("cause", cause),
		zap.Float64("time", s.time),
	)
	event.Emit(s.bus, event.VesselSunk{
		Time:      s.time,
		Vessel:    id,
		Name:      o.Name,
		Tonnage:   o.Tonnage,
		Submarine: submarine,
		Cause:     cause,
	})
}

// killSubmarine destroys a submarine outright.
func (s *State) killSubmarine(id ecs.EntityID, sub *Submarine, cause string) {
	if !sub.Status.IsAlive() {
		return
	}
	sub.Status = component.Dead
	sub.Motion.Speed = 0
	s.ecs.MarkForDestruction(id)
	s.recordSink(id, &sub.Object, true, cause)
}

// sinkShip starts the sinking of a wrecked ship.
func (s *State) sinkShip(id ecs.EntityID, sh *Ship, cause string) {
	if !sh.Status.IsAlive() {
		return
	}
	sh.Status = component.Sinking
	sh.SinkTimer = s.sinkDuration
	sh.Motion.Throttle = component.Stop
	s.recordSink(id, &sh.Object, false, cause)
}
