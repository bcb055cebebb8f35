// Package damage models per-part damage of submarines, the macro section
// damage of surface ships and the depth charge blast falloff.
package damage

import (
	"math"

	"github.com/seawolf/tactsim/internal/geo"
)

// Max is the saturation level of a part: 1.0 means destroyed.
const Max = 1.0

// Part is one damageable subdivision of a hull. P1 and P2 are opposite
// corners of its box relative to the hull bounding box, each axis in 0..1
// (X port to starboard, Y stern to bow, Z keel to top).
type Part struct {
	Name         string   `yaml:"name" json:"name"`
	P1           geo.Vec3 `yaml:"p1" json:"p1"`
	P2           geo.Vec3 `yaml:"p2" json:"p2"`
	Weakness     float64  `yaml:"weakness" json:"weakness"`
	RepairTime   float64  `yaml:"repair_time" json:"repair_time"`
	NeedsSurface bool     `yaml:"needs_surface" json:"needs_surface"`
	Repairable   bool     `yaml:"repairable" json:"repairable"`
	Critical     bool     `yaml:"critical" json:"critical"`
}

// Scheme is the damage state of one hull: static parts plus the
// accumulated level per part.
type Scheme struct {
	Parts  []Part
	Levels []float64
}

func NewScheme(parts []Part) *Scheme {
	return &Scheme{Parts: parts, Levels: make([]float64, len(parts))}
}

// AddSaturated adds amount scaled by the part weakness, clamped at Max, and
// returns the new level.
func (s *Scheme) AddSaturated(i int, amount float64) float64 {
	if i < 0 || i >= len(s.Parts) || amount <= 0 {
		if i >= 0 && i < len(s.Levels) {
			return s.Levels[i]
		}
		return 0
	}
	w := s.Parts[i].Weakness
	if w <= 0 {
		w = 1
	}
	s.Levels[i] = math.Min(Max, s.Levels[i]+amount*w)
	return s.Levels[i]
}

// Centre returns the world position of part i for a hull at pos with the
// given heading and bounding box (X = width, Y = length, Z = height).
func (s *Scheme) Centre(i int, pos geo.Vec3, heading geo.Angle, bbox geo.Vec3) geo.Vec3 {
	p := s.Parts[i]
	rel := p.P1.Add(p.P2).Scale(0.5).Sub(geo.Vec3{X: 0.5, Y: 0.5, Z: 0.5})
	dir := heading.Direction()
	side := dir.Starboard()
	off := dir.Scale(rel.Y * bbox.Y).Add(side.Scale(rel.X * bbox.X))
	return geo.Vec3{X: pos.X + off.X, Y: pos.Y + off.Y, Z: pos.Z + rel.Z*bbox.Z}
}

// Repair lowers the level of every repairable part that is not destroyed.
// Parts that need the boat surfaced wait until it is.
func (s *Scheme) Repair(dt float64, surfaced bool) {
	for i, p := range s.Parts {
		lv := s.Levels[i]
		if lv <= 0 || lv >= Max || !p.Repairable || p.RepairTime <= 0 {
			continue
		}
		if p.NeedsSurface && !surfaced {
			continue
		}
		s.Levels[i] = math.Max(0, lv-dt/p.RepairTime)
	}
}

// Critical reports whether any critical part is destroyed.
func (s *Scheme) Critical() bool {
	for i, p := range s.Parts {
		if p.Critical && s.Levels[i] >= Max {
			return true
		}
	}
	return false
}

// Total is the mean damage level over all parts, 0..1.
func (s *Scheme) Total() float64 {
	if len(s.Levels) == 0 {
		return 0
	}
	sum := 0.0
	for _, lv := range s.Levels {
		sum += lv
	}
	return sum / float64(len(s.Levels))
}
