package world

import (
	"math"

	"github.com/seawolf/tactsim/internal/geo"
)

// Hull is the rectangular footprint used for collision tests.
type Hull struct {
	Pos     geo.Vec2
	Heading geo.Angle
	Length  float64
	Width   float64
}

func (h Hull) radius() float64 {
	return 0.5 * math.Hypot(h.Length, h.Width)
}

func (h Hull) corners() [4]geo.Vec2 {
	dir := h.Heading.Direction()
	l := dir.Scale(h.Length / 2)
	w := dir.Starboard().Scale(h.Width / 2)
	return [4]geo.Vec2{
		h.Pos.Add(l).Add(w),
		h.Pos.Add(l).Sub(w),
		h.Pos.Sub(l).Add(w),
		h.Pos.Sub(l).Sub(w),
	}
}

// ContainsPoint tests p against the hull in its own frame, anchored at the
// port quarter: p is inside when it lies in [0,length]×[0,width].
func (h Hull) ContainsPoint(p geo.Vec2) bool {
	dir := h.Heading.Direction()
	side := dir.Starboard()
	origin := h.Pos.Sub(dir.Scale(h.Length / 2)).Sub(side.Scale(h.Width / 2))
	r := p.Sub(origin)
	a := r.Dot(dir)
	b := r.Dot(side)
	return a >= 0 && a <= h.Length && b >= 0 && b <= h.Width
}

// Collides reports whether two hulls overlap. After the bounding circle
// rejection the corners of each hull are tested against the other one, in
// both directions, since all corners of one hull can lie outside the other
// while they still overlap.
func Collides(a, b Hull) bool {
	r := a.radius() + b.radius()
	if a.Pos.SquareDistance(b.Pos) > r*r {
		return false
	}
	for _, c := range a.corners() {
		if b.ContainsPoint(c) {
			return true
		}
	}
	for _, c := range b.corners() {
		if a.ContainsPoint(c) {
			return true
		}
	}
	return false
}
