package world

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/weapon"
)

func TestRecordRestore(t *testing.T) {
	s, opts := populated(t)
	for i := 0; i < 20; i++ {
		s.Simulate(1)
	}
	_, err := s.AddTorpedo(testTorpedo(100), weapon.Steering{RunDepth: 3}, geo.Vec2{X: -9000}, 270, 0)
	require.NoError(t, err)
	s.SpawnDepthCharge(geo.Vec3{X: 9000}, 60, 0)

	snap := s.Record()
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(raw, &decoded))

	r := NewState(opts)
	require.NoError(t, r.Restore(&decoded))
	again := r.Record()

	assert.Equal(t, snap.Time, again.Time)
	require.Len(t, again.Ships, len(snap.Ships))
	for i := range snap.Ships {
		assert.Equal(t, snap.Ships[i].Name, again.Ships[i].Name)
		assert.Equal(t, snap.Ships[i].Motion, again.Ships[i].Motion)
		assert.Equal(t, snap.Ships[i].Guns, again.Ships[i].Guns)
		assert.Equal(t, snap.Ships[i].Fuel, again.Ships[i].Fuel)
		assert.Equal(t, snap.Ships[i].AI == nil, again.Ships[i].AI == nil)
	}
	require.Len(t, again.Submarines, 1)
	assert.Equal(t, snap.Submarines[0].Slots, again.Submarines[0].Slots)
	assert.Equal(t, snap.Submarines[0].Motion, again.Submarines[0].Motion)
	assert.Len(t, again.Torpedoes, 1)
	assert.Len(t, again.DepthCharges, 1)

	// references point at the restored entities
	nariva, _ := shipByName(r, "Nariva")
	zouave, z := shipByName(r, "Zouave")
	ctrl, ok := r.Controller(zouave)
	require.True(t, ok)
	assert.Equal(t, nariva, ctrl.Follow)
	cv, ok := r.Convoy(z.Convoy)
	require.True(t, ok)
	assert.Contains(t, cv.Merchants, zouave)
	assert.Len(t, cv.Escorts, 2)
}

func TestRestoreIntoPopulatedWorld(t *testing.T) {
	s, _ := populated(t)
	err := s.Restore(&Snapshot{})
	assert.ErrorIs(t, err, ErrRejected)
}

func TestRestoreRemembersCommandIDs(t *testing.T) {
	s, opts := populated(t)
	subs := s.Record().Submarines
	require.NotEmpty(t, subs)
	require.True(t, s.Submit(Dive{ID: 41, Submarine: subs[0].Ref, Depth: 30}))
	s.Simulate(1)

	snap := s.Record()
	assert.Equal(t, []uint64{41}, snap.Commands)

	r := NewState(opts)
	require.NoError(t, r.Restore(snap))
	restored := r.Record().Submarines
	require.Len(t, restored, 1)
	assert.False(t, r.Submit(Dive{ID: 41, Submarine: restored[0].Ref, Depth: 100}), "replayed after resume")
	assert.True(t, r.Submit(Dive{ID: 42, Submarine: restored[0].Ref, Depth: 100}))
}

func TestRememberedCommandsAreBounded(t *testing.T) {
	s := newTestState(nil)
	for i := uint64(1); i <= RememberedCommands+10; i++ {
		require.True(t, s.remember(i))
	}
	assert.Len(t, s.seen, RememberedCommands)
	assert.Len(t, s.Record().Commands, RememberedCommands)
	assert.True(t, s.remember(1), "oldest forgotten")
	assert.False(t, s.remember(RememberedCommands+10))
}

func TestRestoreRejectsBrokenTransfer(t *testing.T) {
	s, opts := populated(t)
	snap := s.Record()
	require.Len(t, snap.Submarines, 1)
	slots := snap.Submarines[0].Slots
	loaded := -1
	for i := 1; i < len(slots); i++ {
		if slots[i].Status == component.SlotLoaded {
			loaded = i
			break
		}
	}
	require.NotEqual(t, -1, loaded)

	for name, patch := range map[string]component.Slot{
		"pair out of range": {Status: component.SlotReloading, Torpedo: "G7e", Pair: 999},
		"pair is loaded":    {Status: component.SlotReloading, Torpedo: "G7e", Pair: loaded},
		"unknown status":    {Status: component.SlotStatus(7), Pair: -1},
	} {
		t.Run(name, func(t *testing.T) {
			broken := *snap
			sub := broken.Submarines[0]
			sub.Slots = append([]component.Slot(nil), slots...)
			sub.Slots[0] = patch
			broken.Submarines = []SubmarineRecord{sub}

			err := NewState(opts).Restore(&broken)
			assert.ErrorIs(t, err, ErrRejected)
		})
	}
}

func TestRecordSkipsDoomedEntities(t *testing.T) {
	s := newTestState(nil)
	sub := addSub(t, s, geo.Vec2{}, 50, 0)
	s.ExplodeDepthCharge(geo.Vec3{Z: -50})

	snap := s.Record()
	assert.Empty(t, snap.Submarines)
	require.Len(t, snap.Sunk, 1)
	assert.Equal(t, sub, snap.Sunk[0].Vessel)
}
