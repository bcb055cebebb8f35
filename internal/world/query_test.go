package world

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/core/event"
	"github.com/seawolf/tactsim/internal/data"
	"github.com/seawolf/tactsim/internal/geo"
)

func TestLookoutQueries(t *testing.T) {
	s := newTestState(nil)
	merchant := addShip(t, s, merchantClass(), geo.Vec2{Y: 2000}, 90, "")
	deep := addSub(t, s, geo.Vec2{X: 500}, 50, 0)
	surfaced := addSub(t, s, geo.Vec2{X: -500}, 0, 0)

	assert.Equal(t, []ecs.EntityID{merchant}, s.VisibleShips(surfaced))
	assert.Nil(t, s.VisibleShips(deep), "submerged without periscope")

	escort := addShip(t, s, flowerClass(), geo.Vec2{}, 0, "")
	seen := s.VisibleSubmarines(escort)
	assert.Contains(t, seen, surfaced)
	assert.NotContains(t, seen, deep)
	assert.Nil(t, s.VisibleSubmarines(merchant), "no lookout fitted")
}

func TestSonarKeepsNearestContacts(t *testing.T) {
	s := newTestState(nil)
	obs := addSub(t, s, geo.Vec2{}, 50, 0)
	var ids []ecs.EntityID
	for _, x := range []float64{7000, 3000, 1000, 6000, 2000, 5000, 4000} {
		id := addShip(t, s, merchantClass(), geo.Vec2{X: x}, 0, "")
		sh, _ := s.Ship(id)
		sh.Motion.Throttle = component.AheadFlank
		ids = append(ids, id)
	}

	heard := s.SonarShips(obs)

	require.Len(t, heard, MaxAcousticContacts)
	want := []ecs.EntityID{ids[2], ids[4], ids[1], ids[6], ids[5]}
	for i, c := range heard {
		assert.Equal(t, want[i], c.Target)
		assert.Greater(t, c.Level, 0.0)
	}
	assert.Empty(t, s.SonarShips(ecs.NewEntityID(99, 1)))
}

func TestSurfacedSubmarineHearsNothing(t *testing.T) {
	s := newTestState(nil)
	obs := addSub(t, s, geo.Vec2{}, 0, 0)
	id := addShip(t, s, merchantClass(), geo.Vec2{X: 1000}, 0, "")
	sh, _ := s.Ship(id)
	sh.Motion.Throttle = component.AheadFlank

	assert.Empty(t, s.SonarShips(obs))
}

func TestPingASDICFixesSubmarine(t *testing.T) {
	bus := event.NewBus()
	pings := collect[event.PingEmitted](bus)
	s := newTestState(bus)
	escort := addShip(t, s, flowerClass(), geo.Vec2{}, 0, "")
	addSub(t, s, geo.Vec2{Y: 500}, 50, 0)

	fixes := s.PingASDIC(escort, false, geo.Deg(0))
	require.Len(t, fixes, 1)
	assert.InDelta(t, 0, fixes[0].Pos.X, PingJitter)
	assert.InDelta(t, 500, fixes[0].Pos.Y, PingJitter)
	assert.Equal(t, -50.0, fixes[0].Pos.Z)
	assert.True(t, fixes[0].Target.IsZero(), "echo fixes are anonymous")

	assert.Empty(t, s.PingASDIC(escort, false, geo.Deg(180)), "cone points away")
	require.Len(t, s.Pings(), 2)
	assert.Equal(t, geo.Deg(180), s.Pings()[1].Bearing)

	flush(bus)
	assert.Len(t, *pings, 2)

	s.Simulate(1.5)
	assert.Empty(t, s.Pings(), "old pings are purged")
}

func TestPingASDICIgnoresSurfacedSubmarine(t *testing.T) {
	s := newTestState(nil)
	escort := addShip(t, s, flowerClass(), geo.Vec2{}, 0, "")
	addSub(t, s, geo.Vec2{Y: 500}, 0, 0)

	assert.Empty(t, s.PingASDIC(escort, false, geo.Deg(0)))
	assert.Nil(t, s.PingASDIC(ecs.NewEntityID(42, 1), false, 0))
}

func TestFireTorpedoCommand(t *testing.T) {
	torps, err := data.LoadTorpedoTable(filepath.Join("..", "..", "data", "yaml", "torpedo_list.yaml"))
	require.NoError(t, err)
	bus := event.NewBus()
	launched := collect[event.TorpedoLaunched](bus)
	s := NewState(Options{Seed: 1, Bus: bus, Log: zap.NewNop(), Torpedoes: torps})
	sub := addSub(t, s, geo.Vec2{}, 0, 0)
	boat, _ := s.Submarine(sub)
	require.True(t, boat.Storage.Load(0, "G7e"))

	assert.True(t, s.Submit(FireTorpedo{ID: 1, Submarine: sub, Tube: -1, Target: geo.Vec2{Y: 2000}}))
	s.Simulate(0.1)
	flush(bus)

	require.Len(t, *launched, 1)
	tid := (*launched)[0].Torpedo
	assert.Equal(t, 0, (*launched)[0].Tube)
	torp, ok := s.Torpedo(tid)
	require.True(t, ok)
	assert.Equal(t, sub, torp.Launcher)
	assert.InDelta(t, boat.Length/2, torp.Motion.Pos.Y, 1e-9, "leaves from the bow")
	assert.Equal(t, -DefaultRunDepth, torp.Motion.Pos.Z)
	assert.Zero(t, torp.RunLength, "first moved on the next pass")
	assert.Equal(t, component.SlotEmpty, boat.Storage.Slots[0].Status)

	// empty tube and a target astern with no stern torpedo are both refused
	s.Submit(FireTorpedo{ID: 2, Submarine: sub, Tube: 0, Target: geo.Vec2{Y: 2000}})
	s.Submit(FireTorpedo{ID: 3, Submarine: sub, Tube: -1, Target: geo.Vec2{Y: -2000}})
	s.Simulate(0.1)
	assert.Equal(t, 1, s.Counts().Torpedoes)
}

func TestLaunchKeepsTubeLoadedOnUnknownTorpedo(t *testing.T) {
	s := newTestState(nil)
	sub := addSub(t, s, geo.Vec2{}, 0, 0)
	boat, _ := s.Submarine(sub)
	require.True(t, boat.Storage.Load(0, "G7x"))

	_, err := s.LaunchTorpedo(sub, boat, 0, geo.Vec2{Y: 2000}, boat.Steering)
	assert.ErrorIs(t, err, ErrUnknownClass)
	assert.Equal(t, component.SlotLoaded, boat.Storage.Slots[0].Status)
	assert.Equal(t, "G7x", boat.Storage.Slots[0].Torpedo)
	assert.Zero(t, s.Counts().Torpedoes)
}
