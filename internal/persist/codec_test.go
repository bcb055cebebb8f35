package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/world"
)

func sampleSnapshot() *world.Snapshot {
	return &world.Snapshot{
		Time: 125.5,
		Ships: []world.ShipRecord{{
			Ref:   ecs.NewEntityID(1, 1),
			Name:  "Nariva",
			Class: "liberty",
			Motion: component.Motion{
				Pos:      geo.Vec3{X: 10, Y: 2200},
				Heading:  geo.Deg(15),
				Speed:    4.2,
				Throttle: component.AheadHalf,
			},
			Fuel: 0.93,
		}},
		Sunk: []world.SinkRecord{{Time: 80, Vessel: ecs.NewEntityID(3, 1), Name: "U-758", Submarine: true, Cause: "depth charge"}},
	}
}

func TestSnapshotCodec(t *testing.T) {
	snap := sampleSnapshot()
	payload, sum, err := EncodeSnapshot(snap)
	require.NoError(t, err)
	assert.Len(t, sum, 32)

	got, err := DecodeSnapshot(payload, sum)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestSharedCodecsBuild(t *testing.T) {
	enc, err := encoder()
	require.NoError(t, err)
	dec, err := decoder()
	require.NoError(t, err)
	again, _ := encoder()
	assert.Same(t, enc, again)

	out, err := dec.DecodeAll(enc.EncodeAll([]byte("convoy"), nil), nil)
	require.NoError(t, err)
	assert.Equal(t, "convoy", string(out))
}

func TestCorruptSnapshotIsRejected(t *testing.T) {
	payload, sum, err := EncodeSnapshot(sampleSnapshot())
	require.NoError(t, err)

	flipped := append([]byte(nil), payload...)
	flipped[len(flipped)/2] ^= 0xff
	_, err = DecodeSnapshot(flipped, sum)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)

	_, err = DecodeSnapshot(payload, sum[:16])
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := MigrationFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_snapshots.sql", "00002_losses.sql"}, files)
}
