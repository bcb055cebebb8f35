package gunnery

import "github.com/seawolf/tactsim/internal/geo"

// ReloadTime is the default time between two rounds of one gun.
const ReloadTime = 5.0

// Result is the outcome of a fire order.
type Result int

const (
	Fired Result = iota
	OutOfRange
	NoAmmo
	Reloading
	NotManned
	BlindSpot
	NoGuns
)

func (r Result) String() string {
	switch r {
	case Fired:
		return "fired"
	case OutOfRange:
		return "out_of_range"
	case NoAmmo:
		return "no_ammo"
	case Reloading:
		return "reloading"
	case NotManned:
		return "not_manned"
	case BlindSpot:
		return "blind_spot"
	case NoGuns:
		return "no_guns"
	}
	return "unknown"
}

// rank orders the failure results; the highest one seen is reported.
func (r Result) rank() int {
	switch r {
	case NoAmmo:
		return 1
	case BlindSpot:
		return 2
	case OutOfRange:
		return 3
	case Reloading:
		return 4
	}
	return 0
}

// Turret is one deck gun.
type Turret struct {
	Velocity   float64 `yaml:"velocity" json:"velocity"`
	Damage     float64 `yaml:"damage" json:"damage"`
	Ammo       int     `yaml:"ammo" json:"ammo"`
	ReloadTime float64 `yaml:"reload_time" json:"reload_time"`
	Reload     float64 `yaml:"-" json:"reload"`

	// Firing arc as relative bearings; equal values mean all round.
	ArcFrom float64 `yaml:"arc_from" json:"arc_from"`
	ArcTo   float64 `yaml:"arc_to" json:"arc_to"`
}

// InArc reports whether a relative bearing lies inside the firing arc.
func (t *Turret) InArc(rel geo.Angle) bool {
	if t.ArcFrom == t.ArcTo {
		return true
	}
	from := geo.Deg(t.ArcFrom)
	span := geo.Deg(t.ArcTo - t.ArcFrom).Value()
	return geo.Deg(rel.Value()-from.Value()).Value() <= span
}

// Shot describes a round that left the barrel.
type Shot struct {
	Result    Result
	Turret    int
	Elevation float64
	Velocity  float64
	Damage    float64
}

// Battery is the gun armament of a ship.
type Battery struct {
	Turrets []Turret `json:"turrets"`
	Manned  bool     `json:"manned"`
}

// Step counts down reload timers.
func (b *Battery) Step(dt float64) {
	for i := range b.Turrets {
		if b.Turrets[i].Reload > 0 {
			b.Turrets[i].Reload -= dt
			if b.Turrets[i].Reload < 0 {
				b.Turrets[i].Reload = 0
			}
		}
	}
}

// MaxRange is the longest range of any gun.
func (b *Battery) MaxRange() float64 {
	best := 0.0
	for _, t := range b.Turrets {
		if r := TableFor(t.Velocity).MaxRange(); r > best {
			best = r
		}
	}
	return best
}

// FireAt fires the first gun that can reach a target at dist on the
// relative bearing rel.
func (b *Battery) FireAt(dist float64, rel geo.Angle) Shot {
	if len(b.Turrets) == 0 {
		return Shot{Result: NoGuns}
	}
	if !b.Manned {
		return Shot{Result: NotManned}
	}
	res := NoAmmo
	note := func(r Result) {
		if r.rank() > res.rank() {
			res = r
		}
	}
	for i := range b.Turrets {
		t := &b.Turrets[i]
		switch {
		case t.Ammo <= 0:
			note(NoAmmo)
		case t.Reload > 0:
			note(Reloading)
		case !t.InArc(rel):
			note(BlindSpot)
		default:
			el, ok := TableFor(t.Velocity).Lookup(dist)
			if !ok {
				note(OutOfRange)
				continue
			}
			t.Ammo--
			t.Reload = t.ReloadTime
			if t.Reload <= 0 {
				t.Reload = ReloadTime
			}
			return Shot{Result: Fired, Turret: i, Elevation: el, Velocity: t.Velocity, Damage: t.Damage}
		}
	}
	return Shot{Result: res}
}
