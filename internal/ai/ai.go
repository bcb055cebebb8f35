// Package ai drives computer controlled ships. A Controller thinks once per
// cycle and acts on its vessel only through the Host it is given, so it
// never holds pointers into the world.
package ai

import (
	"math"
	"math/rand"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/gunnery"
	"github.com/seawolf/tactsim/internal/sensor"
)

const (
	CycleTime         = 10.0  // s between two decisions
	WaypointTolerance = 100.0 // m
	ChargeRadius      = 100.0 // contact distance at which depth charges go
	AttackRunRadius   = 600.0 // closer than this the escort runs in at flank
	MinChargeDepth    = 30.0  // shallowest depth charge setting, m

	// evasive timing divides by the speed; a stopped hull uses this instead
	minEvasiveSpeed = 0.5
)

// Kind selects the behaviour.
type Kind int

const (
	Dumb Kind = iota
	Escort
	Convoy
)

func (k Kind) String() string {
	switch k {
	case Dumb:
		return "dumb"
	case Escort:
		return "escort"
	case Convoy:
		return "convoy"
	}
	return "unknown"
}

// State is the current activity.
type State int

const (
	FollowPath State = iota
	FollowObject
	AttackContact
)

func (s State) String() string {
	switch s {
	case FollowPath:
		return "follow_path"
	case FollowObject:
		return "follow_object"
	case AttackContact:
		return "attack_contact"
	}
	return "unknown"
}

// Host is the vessel a controller commands, as seen through the world.
type Host interface {
	Alive() bool
	Position() geo.Vec3
	Heading() geo.Angle
	Speed() float64
	TurnRate() float64 // degrees per metre

	VisibleSubmarines() []sensor.Contact
	SonarSubmarines() []sensor.Contact
	PingASDIC(moveSensor bool, dir geo.Angle) []sensor.Contact

	MaxGunRange() float64
	FireGunAt(target ecs.EntityID) gunnery.Result
	ManGuns()
	DropDepthCharge(depth float64)

	SetThrottle(t component.Throttle)
	HeadTo(h geo.Angle, side component.Rudder)

	// ObjectPosition returns the position of another live object.
	ObjectPosition(id ecs.EntityID) (geo.Vec3, bool)
	// ConvoyContact hands a contact to every escort of a convoy.
	ConvoyContact(convoy ecs.EntityID, pos geo.Vec3)
	Rand() *rand.Rand
}

// Controller is the per vessel AI state.
type Controller struct {
	Kind       Kind     `json:"kind"`
	State      State    `json:"state"`
	Remaining  float64  `json:"remaining"`
	Contact    geo.Vec3 `json:"contact"`
	HasContact bool     `json:"has_contact"`
	AttackRun  bool     `json:"attack_run"`
	Evasive    bool     `json:"evasive"`

	// EvasiveRemaining is the time left to finish an evasive half circle.
	EvasiveRemaining float64      `json:"evasive_remaining"`
	Waypoints        []geo.Vec2   `json:"waypoints"`
	Cyclic           bool         `json:"cyclic"`
	Follow           ecs.EntityID `json:"follow"`
	Convoy           ecs.EntityID `json:"convoy"`
	ZigZag           int          `json:"zigzag"`
	MainCourse       geo.Angle    `json:"main_course"`
}

// New creates a controller whose first decision comes after a random part
// of a cycle, so that controllers spawned together do not think together.
func New(kind Kind, rnd *rand.Rand) *Controller {
	return &Controller{Kind: kind, Remaining: rnd.Float64() * CycleTime}
}

// Act counts down the think timer and makes a decision when it expires.
// It reports whether the controller thought this call.
func (c *Controller) Act(h Host, dt float64) bool {
	c.Remaining -= dt
	if c.Remaining > 0 {
		return false
	}
	c.Remaining = CycleTime * (0.75 + 0.5*h.Rand().Float64())

	switch c.Kind {
	case Escort:
		c.actEscort(h)
	case Convoy:
		c.actConvoy(h)
	default:
		c.actDumb(h)
	}

	if c.ZigZag > 0 {
		switch c.ZigZag {
		case 7:
			h.HeadTo(c.MainCourse.Add(-45), component.HardLeft)
		case 13:
			h.HeadTo(c.MainCourse.Add(45), component.HardRight)
		}
		c.ZigZag++
		if c.ZigZag > 18 {
			c.ZigZag = 1
		}
	}
	return true
}

// SetZigZag switches the zig-zag pattern around MainCourse on or off.
func (c *Controller) SetZigZag(on bool) {
	if on {
		c.ZigZag = 1
	} else {
		c.ZigZag = 0
	}
}

// AttackContact makes pos the contact to hunt.
func (c *Controller) AttackContact(pos geo.Vec3) {
	c.HasContact = true
	c.Contact = pos
	c.State = AttackContact
}

// FollowObject makes the vessel follow another object; the zero id drops
// back to the waypoint list.
func (c *Controller) FollowObject(id ecs.EntityID) {
	c.Follow = id
	if id.IsZero() {
		c.State = FollowPath
	} else {
		c.State = FollowObject
	}
}

// AddWaypoint appends a waypoint to the path.
func (c *Controller) AddWaypoint(p geo.Vec2) { c.Waypoints = append(c.Waypoints, p) }

// Relax drops the contact and returns to normal sailing.
func (c *Controller) Relax(h Host) {
	c.HasContact = false
	if c.Follow.IsZero() {
		c.State = FollowPath
	} else {
		c.State = FollowObject
	}
	h.SetThrottle(component.AheadSonar)
	c.AttackRun = false
}

// SetCourseToPos steers towards target. When the target is behind the
// vessel or inside its turning circle it turns about instead and returns
// false.
func (c *Controller) SetCourseToPos(h Host, target geo.Vec2) bool {
	d := target.Sub(h.Position().XY())
	heading := h.Heading()
	hd := heading.Direction()
	a := d.Dot(hd)
	b := d.Cross(hd) // negative: target to port

	r1 := 1e10
	if b != 0 {
		r1 = (a*a + b*b) / math.Abs(2*b)
	}
	r2 := math.Inf(1)
	if tr := h.TurnRate(); tr > 0 {
		r2 = 1 / (tr * math.Pi / 180)
	}

	switch {
	case a <= 0:
		if b < 0 {
			c.MainCourse = heading.Add(-180)
			h.HeadTo(c.MainCourse, component.HardLeft)
		} else {
			c.MainCourse = heading.Add(180)
			h.HeadTo(c.MainCourse, component.HardRight)
		}
		return false
	case r2 > r1:
		// too tight; open the distance by turning away
		if b < 0 {
			c.MainCourse = heading.Add(180)
			h.HeadTo(c.MainCourse, component.HardRight)
		} else {
			c.MainCourse = heading.Add(-180)
			h.HeadTo(c.MainCourse, component.HardLeft)
		}
		return false
	}
	c.MainCourse = geo.AngleOf(d)
	if b < 0 {
		h.HeadTo(c.MainCourse, component.HardLeft)
	} else {
		h.HeadTo(c.MainCourse, component.HardRight)
	}
	return true
}

func (c *Controller) actDumb(h Host) {
	switch c.State {
	case FollowObject:
		pos, ok := h.ObjectPosition(c.Follow)
		if !ok {
			c.FollowObject(0)
			return
		}
		c.SetCourseToPos(h, pos.XY())
	case FollowPath:
		c.followPath(h, c.Cyclic)
	}
}

func (c *Controller) actConvoy(h Host) {
	c.followPath(h, false)
}

func (c *Controller) followPath(h Host, cyclic bool) {
	if len(c.Waypoints) == 0 {
		return
	}
	wp := c.Waypoints[0]
	c.SetCourseToPos(h, wp)
	if h.Position().XY().Distance(wp) < WaypointTolerance {
		c.Waypoints = c.Waypoints[1:]
		if cyclic {
			c.Waypoints = append(c.Waypoints, wp)
		}
	}
}
