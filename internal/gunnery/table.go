// Package gunnery holds the deck gun ballistics: the range table that maps
// a target distance to the gun elevation, and the gun battery state.
package gunnery

import (
	"math"
	"sort"
	"sync"
)

const (
	Gravity       = 9.806 // m/s²
	MuzzleHeight  = 4.0   // m above the water
	MaxElevation  = 45.0  // degrees
	ElevationStep = 0.1   // degrees
	TimeStep      = 0.01  // s
	maxFlightTime = 300.0 // s
)

// Entry is one row of a range table.
type Entry struct {
	Distance  float64
	Elevation float64
}

// Table maps horizontal distance to the elevation that reaches it for one
// muzzle velocity. It is computed on first use and never changes after.
type Table struct {
	velocity float64
	once     sync.Once
	entries  []Entry
}

var (
	tablesMu sync.Mutex
	tables   = make(map[float64]*Table)
)

// TableFor returns the shared table for a muzzle velocity.
func TableFor(velocity float64) *Table {
	tablesMu.Lock()
	defer tablesMu.Unlock()
	t, ok := tables[velocity]
	if !ok {
		t = &Table{velocity: velocity}
		tables[velocity] = t
	}
	return t
}

func (t *Table) ensure() {
	t.once.Do(t.build)
}

// build integrates each elevation and keeps rows while the distance still
// grows, so the table only covers the rising part of the range curve.
func (t *Table) build() {
	steps := int(math.Round(MaxElevation / ElevationStep))
	t.entries = make([]Entry, 0, steps+1)
	prev := -1.0
	for i := 0; i <= steps; i++ {
		el := float64(i) * ElevationStep
		d := FlightDistance(t.velocity, el)
		if d <= prev {
			break
		}
		t.entries = append(t.entries, Entry{Distance: d, Elevation: el})
		prev = d
	}
}

// FlightDistance integrates a drag free shell fired at elevation degrees
// until it comes back down to the water and returns the distance flown.
func FlightDistance(velocity, elevation float64) float64 {
	r := elevation * math.Pi / 180
	vx := velocity * math.Cos(r)
	vz := velocity * math.Sin(r)
	x, z := 0.0, MuzzleHeight
	for tm := 0.0; tm < maxFlightTime; tm += TimeStep {
		nx := x + vx*TimeStep
		nz := z + vz*TimeStep - Gravity*TimeStep*TimeStep/2
		vz -= Gravity * TimeStep
		if nz <= 0 {
			// interpolate the water crossing inside the step
			return x + (nx-x)*z/(z-nz)
		}
		x, z = nx, nz
	}
	return x
}

// Lookup returns the elevation of the smallest tabulated distance that is
// at least dist. ok is false when dist is beyond the table.
func (t *Table) Lookup(dist float64) (elevation float64, ok bool) {
	t.ensure()
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Distance >= dist
	})
	if i == len(t.entries) {
		return 0, false
	}
	return t.entries[i].Elevation, true
}

// MaxRange is the largest tabulated distance.
func (t *Table) MaxRange() float64 {
	t.ensure()
	if len(t.entries) == 0 {
		return 0
	}
	return t.entries[len(t.entries)-1].Distance
}

// Entries returns a copy of the rows.
func (t *Table) Entries() []Entry {
	t.ensure()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}
