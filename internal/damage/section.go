package damage

import "math"

// Level is the damage of one ship section.
type Level int

const (
	NoDamage Level = iota
	Light
	Medium
	Heavy
	Wrecked
)

// SectionWeight scales the summed section levels into the 0..100 report.
const SectionWeight = 15

// Section names the three macro sections of a ship hull.
type Section int

const (
	Bow Section = iota
	Mid
	Stern
)

// Sections is the macro damage of a surface ship.
type Sections struct {
	Bow   Level `json:"bow"`
	Mid   Level `json:"mid"`
	Stern Level `json:"stern"`
}

// SectionAt picks the section for a longitudinal offset from the hull
// centre, positive towards the bow.
func SectionAt(offset, length float64) Section {
	third := length / 6
	switch {
	case offset > third:
		return Bow
	case offset < -third:
		return Stern
	}
	return Mid
}

// Hit raises a section by n levels, saturating at Wrecked.
func (s *Sections) Hit(sec Section, n int) {
	lv := s.level(sec)
	*lv += Level(n)
	if *lv > Wrecked {
		*lv = Wrecked
	}
	if *lv < NoDamage {
		*lv = NoDamage
	}
}

func (s *Sections) level(sec Section) *Level {
	switch sec {
	case Bow:
		return &s.Bow
	case Stern:
		return &s.Stern
	}
	return &s.Mid
}

func (s Sections) Wrecked() bool {
	return s.Bow == Wrecked || s.Mid == Wrecked || s.Stern == Wrecked
}

// Aggregate is the 0..100 ship damage figure used for reports.
func (s Sections) Aggregate() int {
	if s.Wrecked() {
		return 100
	}
	v := int(math.Round(SectionWeight * float64(s.Bow+s.Mid+s.Stern)))
	if v > 100 {
		v = 100
	}
	return v
}
