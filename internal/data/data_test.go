package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/seawolf/tactsim/internal/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func loadShipped(t *testing.T) (*ShipTable, *SubmarineTable, *TorpedoTable) {
	t.Helper()
	dir := filepath.Join("..", "..", "data", "yaml")
	ships, err := LoadShipTable(filepath.Join(dir, "ship_list.yaml"))
	require.NoError(t, err)
	subs, err := LoadSubmarineTable(filepath.Join(dir, "submarine_list.yaml"))
	require.NoError(t, err)
	torps, err := LoadTorpedoTable(filepath.Join(dir, "torpedo_list.yaml"))
	require.NoError(t, err)
	return ships, subs, torps
}

func TestShippedTables(t *testing.T) {
	ships, subs, torps := loadShipped(t)
	assert.Equal(t, 3, ships.Count())
	assert.Equal(t, 1, subs.Count())
	assert.Equal(t, 3, torps.Count())

	flower := ships.Get("flower")
	require.NotNil(t, flower)
	assert.Equal(t, "escort", flower.Role)
	require.Len(t, flower.Guns, 1)
	assert.Equal(t, 460.0, flower.Guns[0].Velocity)

	vii := subs.Get("typeVIIc")
	require.NotNil(t, vii)
	assert.Equal(t, 14, vii.Torpedoes.Total())
	assert.Equal(t, 1200.0, vii.TransferTimes.BowSternDeck)
	assert.NotEmpty(t, vii.Parts)
	assert.Equal(t, 0.45, vii.Parts[0].P1.X)

	es := torps.Get("G7es").Spec()
	assert.InDelta(t, 24*component.KnotsToMS, es.Speed, 1e-9)
	assert.EqualValues(t, "t5", es.Seeker)
	assert.Nil(t, torps.Get("G7x"))
}

func TestShippedScenario(t *testing.T) {
	ships, subs, torps := loadShipped(t)
	sc, err := LoadScenario(filepath.Join("..", "..", "data", "yaml", "scenario.yaml"))
	require.NoError(t, err)
	require.NoError(t, sc.Validate(ships, subs, torps))
	assert.Len(t, sc.Ships, 4)
	assert.Equal(t, 0.8, sc.Environment.Visibility)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadShipTable(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadTorpedoTable(writeFile(t, "torpedo_list.yaml", "torpedoes: [ {"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse torpedo_list")
}

func TestInvalidSpec(t *testing.T) {
	cases := []struct {
		name string
		load func(string) error
		body string
	}{
		{"ship without speed", func(p string) error { _, err := LoadShipTable(p); return err },
			"ships: [ { class: x, role: escort, length: 10, width: 2, turn_rate: 1 } ]"},
		{"ship with bad role", func(p string) error { _, err := LoadShipTable(p); return err },
			"ships: [ { class: x, role: pirate, length: 10, width: 2, max_speed: 5, turn_rate: 1 } ]"},
		{"submarine without tubes", func(p string) error { _, err := LoadSubmarineTable(p); return err },
			"submarines: [ { class: x, length: 10, width: 2, surface_speed: 5, submerged_speed: 3, turn_rate: 1, dive_rate: 1, max_depth: 100, periscope_depth: 10 } ]"},
		{"torpedo with unknown seeker", func(p string) error { _, err := LoadTorpedoTable(p); return err },
			"torpedoes: [ { kind: x, speed: 30, range: 100, seeker: t99 } ]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.load(writeFile(t, "list.yaml", c.body))
			assert.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
}

func TestScenarioValidate(t *testing.T) {
	ships, subs, torps := loadShipped(t)
	cases := []struct {
		name string
		body string
	}{
		{"unknown class", "ships: [ { name: a, class: bismarck } ]"},
		{"duplicate name", "ships: [ { name: a, class: flower }, { name: a, class: flower } ]"},
		{"unknown convoy", "ships: [ { name: a, class: flower, convoy: SC-7 } ]"},
		{"unknown follow", "ships: [ { name: a, class: flower, follow: b } ]"},
		{"bad throttle", "ships: [ { name: a, class: flower, throttle: warp } ]"},
		{"bad ai", "ships: [ { name: a, class: flower, ai: kamikaze } ]"},
		{"too deep", "submarines: [ { name: u, class: typeVIIc, depth: 500 } ]"},
		{"bad location", "submarines: [ { name: u, class: typeVIIc, loadout: [ { location: galley, torpedo: G7e, count: 1 } ] } ]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sc, err := LoadScenario(writeFile(t, "scenario.yaml", c.body))
			require.NoError(t, err)
			assert.ErrorIs(t, sc.Validate(ships, subs, torps), ErrInvalidSpec)
		})
	}
}
