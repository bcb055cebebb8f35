package sensor

// DefaultLookoutFactor gives a surfaced type VII (67 m) a broadside
// detection range of about 2.7 km in clear daylight.
const DefaultLookoutFactor = 40.0

// Lookout is the visual watch.
type Lookout struct {
	Factor float64
}

func NewLookout(factor float64) *Lookout {
	if factor <= 0 {
		factor = DefaultLookoutFactor
	}
	return &Lookout{Factor: factor}
}

// Detects tests the observer position against an ellipse around the
// candidate, aligned with the candidate hull: the broadside semi-axis is
// length·vf, the fore/aft semi-axis width·vf.
func (l *Lookout) Detects(env Conditions, observer, candidate Body) bool {
	rel := observer.Position().XY().Sub(candidate.Position().XY())
	d2 := rel.SquareLength()
	if d2 < 1 {
		return true
	}
	if env.MaxViewDistance > 0 && d2 > env.MaxViewDistance*env.MaxViewDistance {
		return false
	}
	vf := l.Factor * env.Visibility * candidate.VisibilityFactor()
	if vf <= 0 {
		return false
	}
	dir := candidate.Heading().Direction()
	along := rel.Dot(dir)
	across := rel.Dot(dir.Starboard())
	a := candidate.Length() * vf
	b := candidate.Width() * vf
	if a <= 0 || b <= 0 {
		return false
	}
	return (across*across)/(a*a)+(along*along)/(b*b) <= 1
}
