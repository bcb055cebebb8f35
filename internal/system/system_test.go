package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/core/event"
	coresys "github.com/seawolf/tactsim/internal/core/system"
	"github.com/seawolf/tactsim/internal/data"
	"github.com/seawolf/tactsim/internal/metrics"
	"github.com/seawolf/tactsim/internal/world"
)

func newWorld(t *testing.T) (*world.State, *event.Bus, ecs.EntityID) {
	t.Helper()
	bus := event.NewBus()
	ws := world.NewState(world.Options{Seed: 1, Bus: bus, Log: zap.NewNop()})
	id, err := ws.AddShip(&data.ShipClass{
		Class: "liberty", Role: world.RoleMerchant, Length: 130, Width: 17, Height: 10,
		Tonnage: 7176, MaxSpeed: 11, TurnRate: 0.1,
	}, world.ShipParams{Name: "Nariva"})
	require.NoError(t, err)
	return ws, bus, id
}

func TestInputSystemSubmitsQueuedCommands(t *testing.T) {
	ws, _, id := newWorld(t)
	in := NewInputSystem(ws, 2, 1, zap.NewNop())

	assert.True(t, in.Enqueue(world.SetThrottle{ID: 1, Vessel: id, Throttle: component.AheadFull}))
	assert.True(t, in.Enqueue(world.SetThrottle{ID: 1, Vessel: id, Throttle: component.Stop}))
	assert.False(t, in.Enqueue(world.SetThrottle{ID: 2, Vessel: id}), "queue full")

	in.Update(0)
	ws.Simulate(0.1)
	sh, _ := ws.Ship(id)
	assert.Equal(t, component.AheadFull, sh.Motion.Throttle)

	in.Update(0) // duplicate ID is dropped
	ws.Simulate(0.1)
	assert.Equal(t, component.AheadFull, sh.Motion.Throttle)
}

func TestSystemsRunInPhaseOrder(t *testing.T) {
	ws, bus, _ := newWorld(t)
	reg := prometheus.NewRegistry()
	col, err := metrics.NewSimCollector(reg)
	require.NoError(t, err)
	col.Subscribe(bus)

	sim := NewSimulationSystem(ws, 0.5)
	runner := coresys.NewRunner()
	runner.Register(NewMetricsSystem(ws, sim, col))
	runner.Register(sim)
	runner.Register(NewEventDispatchSystem(bus))

	event.Emit(bus, event.GunFired{})
	runner.Tick(100 * time.Millisecond)
	runner.Tick(100 * time.Millisecond)

	assert.Equal(t, int64(2), sim.Ticks())
	assert.InDelta(t, 1.0, ws.Time(), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(col.SimTime), 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(col.Entities.WithLabelValues("ships")))
	assert.Equal(t, 1.0, testutil.ToFloat64(col.Events.WithLabelValues("gun_fired")))
}

type fakeSnapshots struct {
	saved  []int64
	pruned int
	err    error
}

func (f *fakeSnapshots) Save(_ context.Context, _ string, tick int64, snap *world.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	if snap == nil {
		return errors.New("nil snapshot")
	}
	f.saved = append(f.saved, tick)
	return nil
}

func (f *fakeSnapshots) Prune(context.Context, string, int) (int64, error) {
	f.pruned++
	return 0, nil
}

type fakeLosses struct {
	batches [][]world.SinkRecord
}

func (f *fakeLosses) WriteLosses(_ context.Context, _ string, losses []world.SinkRecord) error {
	f.batches = append(f.batches, append([]world.SinkRecord(nil), losses...))
	return nil
}

func TestPersistenceSavesEveryInterval(t *testing.T) {
	bus := event.NewBus()
	ws := world.NewState(world.Options{Seed: 1, Bus: bus, Log: zap.NewNop()})
	require.NoError(t, ws.Restore(&world.Snapshot{Time: 100, Sunk: []world.SinkRecord{
		{Time: 40, Name: "Zouave", Tonnage: 8256, Cause: "torpedo"},
	}}))

	sim := NewSimulationSystem(ws, 1)
	snaps := &fakeSnapshots{}
	losses := &fakeLosses{}
	p := NewPersistenceSystem(ws, sim, snaps, losses, "test", zap.NewNop(), 3)

	for i := 0; i < 7; i++ {
		sim.Update(0)
		p.Update(0)
	}
	assert.Equal(t, []int64{3, 6}, snaps.saved)
	assert.Equal(t, 2, snaps.pruned)
	require.Len(t, losses.batches, 1, "only new losses are written")
	assert.Equal(t, "Zouave", losses.batches[0][0].Name)

	p.SaveNow()
	assert.Equal(t, []int64{3, 6, 7}, snaps.saved)
}

func TestPersistenceSurvivesStoreErrors(t *testing.T) {
	ws, _, _ := newWorld(t)
	sim := NewSimulationSystem(ws, 1)
	snaps := &fakeSnapshots{err: errors.New("db down")}
	p := NewPersistenceSystem(ws, sim, snaps, &fakeLosses{}, "test", zap.NewNop(), 1)

	assert.NotPanics(t, func() { p.Update(0) })
	assert.Empty(t, snaps.saved)
	assert.Zero(t, snaps.pruned)
}
