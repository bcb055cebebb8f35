package ai

import (
	"math/rand"
	"testing"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/gunnery"
	"github.com/seawolf/tactsim/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type headOrder struct {
	h    geo.Angle
	side component.Rudder
}

type fakeHost struct {
	dead     bool
	pos      geo.Vec3
	heading  geo.Angle
	speed    float64
	turnRate float64

	visible []sensor.Contact
	heard   []sensor.Contact
	echoes  []sensor.Contact
	pings   []bool

	gunRange float64
	manned   bool
	shots    []ecs.EntityID
	manCalls int
	charges  []float64

	throttle component.Throttle
	heads    []headOrder
	objects  map[ecs.EntityID]geo.Vec3
	reports  []geo.Vec3
	rnd      *rand.Rand
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		speed:    5,
		turnRate: 0.1,
		gunRange: 9000,
		objects:  map[ecs.EntityID]geo.Vec3{},
		rnd:      rand.New(rand.NewSource(1)),
	}
}

func (f *fakeHost) Alive() bool                         { return !f.dead }
func (f *fakeHost) Position() geo.Vec3                  { return f.pos }
func (f *fakeHost) Heading() geo.Angle                  { return f.heading }
func (f *fakeHost) Speed() float64                      { return f.speed }
func (f *fakeHost) TurnRate() float64                   { return f.turnRate }
func (f *fakeHost) VisibleSubmarines() []sensor.Contact { return f.visible }
func (f *fakeHost) SonarSubmarines() []sensor.Contact   { return f.heard }
func (f *fakeHost) MaxGunRange() float64                { return f.gunRange }
func (f *fakeHost) ManGuns()                            { f.manCalls++; f.manned = true }
func (f *fakeHost) DropDepthCharge(depth float64)       { f.charges = append(f.charges, depth) }
func (f *fakeHost) SetThrottle(t component.Throttle)    { f.throttle = t }
func (f *fakeHost) Rand() *rand.Rand                    { return f.rnd }

func (f *fakeHost) PingASDIC(move bool, _ geo.Angle) []sensor.Contact {
	f.pings = append(f.pings, move)
	return f.echoes
}

func (f *fakeHost) FireGunAt(target ecs.EntityID) gunnery.Result {
	if !f.manned {
		return gunnery.NotManned
	}
	f.shots = append(f.shots, target)
	return gunnery.Fired
}

func (f *fakeHost) HeadTo(h geo.Angle, side component.Rudder) {
	f.heads = append(f.heads, headOrder{h, side})
}

func (f *fakeHost) ObjectPosition(id ecs.EntityID) (geo.Vec3, bool) {
	p, ok := f.objects[id]
	return p, ok
}

func (f *fakeHost) ConvoyContact(_ ecs.EntityID, pos geo.Vec3) { f.reports = append(f.reports, pos) }

func TestThinkCycleJitter(t *testing.T) {
	h := newFakeHost()
	c := New(Dumb, rand.New(rand.NewSource(3)))
	require.GreaterOrEqual(t, c.Remaining, 0.0)
	require.Less(t, c.Remaining, CycleTime)

	first := c.Remaining
	assert.False(t, c.Act(h, first/2))
	assert.True(t, c.Act(h, first))
	assert.GreaterOrEqual(t, c.Remaining, 0.75*CycleTime)
	assert.LessOrEqual(t, c.Remaining, 1.25*CycleTime)
}

func TestEscortAttacksVisibleSubmarine(t *testing.T) {
	h := newFakeHost()
	h.manned = true
	c := New(Escort, h.rnd)
	c.Convoy = ecs.NewEntityID(4, 1)
	sub := ecs.NewEntityID(2, 1)
	h.visible = []sensor.Contact{{Pos: geo.Vec3{X: 1000}, Target: sub}}

	require.True(t, c.Act(h, CycleTime))
	assert.Equal(t, AttackContact, c.State)
	assert.True(t, c.AttackRun)
	assert.Equal(t, []ecs.EntityID{sub}, h.shots)
	assert.Equal(t, component.AheadFlank, h.throttle)
	assert.Len(t, h.reports, 1, "contact goes to the convoy")
	assert.Empty(t, h.pings, "no ping when the target is in sight")
}

func TestEscortMansGuns(t *testing.T) {
	h := newFakeHost()
	c := New(Escort, h.rnd)
	h.visible = []sensor.Contact{{Pos: geo.Vec3{Y: 2000}, Target: ecs.NewEntityID(2, 1)}}

	c.Act(h, CycleTime)
	assert.Equal(t, 1, h.manCalls)
	assert.Empty(t, h.shots)

	h.gunRange = 100
	h.manned = false
	c.Act(h, CycleTime*2)
	assert.Equal(t, 1, h.manCalls, "out of gun range")
}

func TestEscortListensThenPings(t *testing.T) {
	h := newFakeHost()
	c := New(Escort, h.rnd)

	c.Act(h, CycleTime)
	assert.Equal(t, []bool{true}, h.pings, "nothing heard, sweep ping")
	assert.Equal(t, FollowPath, c.State)

	h.heard = []sensor.Contact{{Pos: geo.Vec3{Y: 3000, Z: -50}}}
	c.Act(h, CycleTime*2)
	assert.Equal(t, AttackContact, c.State)
	assert.Equal(t, geo.Vec3{Y: 3000}, c.Contact, "passive fix has no depth")
	// far contact, no attack run yet: directed ping toward it
	assert.Equal(t, []bool{true, false}, h.pings)
	assert.False(t, c.AttackRun)
}

func TestEscortDropsChargesOverContact(t *testing.T) {
	h := newFakeHost()
	c := New(Escort, h.rnd)
	c.Follow = ecs.NewEntityID(9, 1)
	h.objects[c.Follow] = geo.Vec3{Y: 5000}
	h.echoes = []sensor.Contact{{Pos: geo.Vec3{Y: 50, Z: -80}}}

	c.Act(h, CycleTime)
	require.Len(t, h.charges, 1)
	assert.Equal(t, 80.0, h.charges[0])
	assert.False(t, c.AttackRun)
	assert.False(t, c.HasContact)
	assert.Equal(t, FollowObject, c.State)
	assert.Equal(t, component.AheadSonar, h.throttle)
}

func TestShallowContactUsesMinimumChargeDepth(t *testing.T) {
	h := newFakeHost()
	c := New(Escort, h.rnd)
	h.heard = []sensor.Contact{{Pos: geo.Vec3{Y: 60}}}

	c.Act(h, CycleTime)
	require.Len(t, h.charges, 1)
	assert.Equal(t, MinChargeDepth, h.charges[0])
}

func TestEvasiveManeuverTiming(t *testing.T) {
	h := newFakeHost()
	h.manned = true
	c := New(Escort, h.rnd)
	// contact astern
	h.visible = []sensor.Contact{{Pos: geo.Vec3{Y: -2000}, Target: ecs.NewEntityID(2, 1)}}

	c.Act(h, CycleTime)
	require.True(t, c.Evasive)
	// 180 / (0.1 * 5) = 360 s, then one cycle is used up
	assert.InDelta(t, 350, c.EvasiveRemaining, 1e-9)
	last := h.heads[len(h.heads)-1]
	assert.Equal(t, geo.Deg(180), last.h)

	n := len(h.heads)
	c.Act(h, CycleTime*2)
	assert.Len(t, h.heads, n, "no new course while the half circle runs")
}

func TestSetCourseToPos(t *testing.T) {
	h := newFakeHost()
	c := New(Dumb, h.rnd)

	assert.True(t, c.SetCourseToPos(h, geo.Vec2{X: 1000, Y: 1000}))
	assert.InDelta(t, 45, h.heads[0].h.Value(), 1e-9)
	assert.Equal(t, component.HardRight, h.heads[0].side)

	assert.False(t, c.SetCourseToPos(h, geo.Vec2{X: -10, Y: -100}), "behind")
	assert.Equal(t, headOrder{geo.Deg(180), component.HardLeft}, h.heads[1])

	// turning circle radius 1/(0.1 rad/deg) ~ 573 m; target close abeam to starboard
	assert.False(t, c.SetCourseToPos(h, geo.Vec2{X: 100, Y: 10}), "inside the turning circle")
	assert.Equal(t, headOrder{geo.Deg(180), component.HardLeft}, h.heads[2])
}

func TestFollowPath(t *testing.T) {
	h := newFakeHost()
	c := New(Dumb, h.rnd)
	c.Cyclic = true
	c.AddWaypoint(geo.Vec2{Y: 50})
	c.AddWaypoint(geo.Vec2{Y: 3000})

	c.Act(h, CycleTime)
	assert.Equal(t, []geo.Vec2{{Y: 3000}, {Y: 50}}, c.Waypoints, "reached waypoint goes to the back")

	conv := New(Convoy, h.rnd)
	conv.AddWaypoint(geo.Vec2{Y: 50})
	conv.Act(h, CycleTime)
	assert.Empty(t, conv.Waypoints)
}

func TestFollowLostObjectFallsBackToPath(t *testing.T) {
	h := newFakeHost()
	c := New(Dumb, h.rnd)
	c.FollowObject(ecs.NewEntityID(7, 1))
	require.Equal(t, FollowObject, c.State)

	c.Act(h, CycleTime)
	assert.Equal(t, FollowPath, c.State)
	assert.True(t, c.Follow.IsZero())
}

func TestZigZag(t *testing.T) {
	h := newFakeHost()
	c := New(Dumb, h.rnd)
	c.MainCourse = geo.Deg(90)
	c.SetZigZag(true)
	for i := 0; i < 13; i++ {
		c.Act(h, 2*CycleTime)
	}
	require.Len(t, h.heads, 2)
	assert.Equal(t, headOrder{geo.Deg(45), component.HardLeft}, h.heads[0])
	assert.Equal(t, headOrder{geo.Deg(135), component.HardRight}, h.heads[1])
	c.SetZigZag(false)
	assert.Zero(t, c.ZigZag)
}
