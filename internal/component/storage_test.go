package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeVIIC() *TorpedoStorage {
	return NewTorpedoStorage(
		Layout{BowTubes: 4, SternTubes: 1, BowReserve: 6, SternReserve: 1, BowDeck: 1, SternDeck: 1},
		TransferTimes{Bow: 600, Stern: 900, BowDeck: 1800, SternDeck: 1800, BowSternDeck: 1200},
	)
}

func TestStorageRanges(t *testing.T) {
	s := typeVIIC()
	a, b := s.Range(BowReserve)
	assert.Equal(t, 5, a)
	assert.Equal(t, 11, b)
	assert.Equal(t, SternTube, s.LocationOf(4))
	assert.Equal(t, SternDeck, s.LocationOf(13))
	assert.Equal(t, LocNone, s.LocationOf(14))
}

func TestStorageTransferTimeFollowsHandlingPath(t *testing.T) {
	s := typeVIIC()
	assert.Equal(t, 600.0, s.TransferTime(5, 0), "bow reserve to bow tube")
	assert.Equal(t, 0.0, s.TransferTime(5, 6), "same location")
	// bow deck -> bow reserve -> bow tube
	assert.Equal(t, 2400.0, s.TransferTime(12, 1))
	// bow tube all the way to the stern tube
	assert.Equal(t, 600.0+1800+1200+1800+900, s.TransferTime(0, 4))
}

func TestStorageTransferPairsSlots(t *testing.T) {
	s := typeVIIC()
	require.True(t, s.Load(5, "G7e"))
	require.True(t, s.Transfer(5, 0))

	src, dst := s.Slots[5], s.Slots[0]
	assert.Equal(t, SlotUnloading, src.Status)
	assert.Equal(t, SlotReloading, dst.Status)
	assert.Equal(t, 0, src.Pair)
	assert.Equal(t, 5, dst.Pair)
	assert.Equal(t, src.Remaining, dst.Remaining)

	assert.False(t, s.Transfer(5, 1), "source is busy")

	assert.Empty(t, s.Step(599))
	assert.Equal(t, s.Slots[5].Remaining, s.Slots[0].Remaining)
	done := s.Step(1)
	assert.Equal(t, []int{0}, done)
	assert.Equal(t, SlotLoaded, s.Slots[0].Status)
	assert.Equal(t, "G7e", s.Slots[0].Torpedo)
	assert.Equal(t, SlotEmpty, s.Slots[5].Status)
	assert.Equal(t, -1, s.Slots[0].Pair)
}

func TestStorageCheck(t *testing.T) {
	s := typeVIIC()
	s.Load(5, "G7e")
	s.Load(1, "G7a")
	require.True(t, s.Transfer(5, 0))
	require.NoError(t, s.Check())

	cases := []struct {
		name  string
		slot  int
		patch Slot
	}{
		{"pair out of range", 0, Slot{Status: SlotReloading, Torpedo: "G7e", Pair: 999, Remaining: 600}},
		{"pair is itself", 0, Slot{Status: SlotReloading, Torpedo: "G7e", Pair: 0, Remaining: 600}},
		{"pair is loaded", 0, Slot{Status: SlotReloading, Torpedo: "G7e", Pair: 1, Remaining: 600}},
		{"times differ", 0, Slot{Status: SlotReloading, Torpedo: "G7e", Pair: 5, Remaining: 10}},
		{"unknown status", 2, Slot{Status: SlotStatus(9), Pair: -1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			broken := typeVIIC()
			copy(broken.Slots, s.Slots)
			broken.Slots[c.slot] = c.patch
			assert.Error(t, broken.Check())
		})
	}
}

func TestStorageAutoReloadAndTake(t *testing.T) {
	s := typeVIIC()
	s.Load(0, "G7a")
	s.Load(6, "G7e")
	s.Load(11, "G7e")

	kind, ok := s.Take(0)
	require.True(t, ok)
	assert.Equal(t, "G7a", kind)
	_, ok = s.Take(0)
	assert.False(t, ok)

	// tubes 0-3 empty, one bow reserve loaded; stern tube empty, stern reserve loaded
	assert.Equal(t, 2, s.AutoReload())
	assert.Equal(t, SlotReloading, s.Slots[0].Status)
	assert.Equal(t, SlotReloading, s.Slots[4].Status)
	assert.Equal(t, 2, s.Count())
}

func TestLocationNames(t *testing.T) {
	for loc := BowTube; loc <= SternDeck; loc++ {
		assert.Equal(t, loc, LocationByName(loc.String()))
	}
	assert.Equal(t, LocNone, LocationByName("conning_tower"))
}
