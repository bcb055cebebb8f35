package geo

import "math"

// Angle is a compass angle in degrees, 0 = north, clockwise positive,
// always normalized to [0, 360).
type Angle float64

func Deg(v float64) Angle {
	v = math.Mod(v, 360)
	if v < 0 {
		v += 360
	}
	if v >= 360 {
		v = 0
	}
	return Angle(v)
}

// AngleOf returns the compass direction of v.
func AngleOf(v Vec2) Angle {
	return Deg(math.Atan2(v.X, v.Y) * 180 / math.Pi)
}

func (a Angle) Value() float64 { return float64(a) }
func (a Angle) Rad() float64   { return float64(a) * math.Pi / 180 }

// Add turns the angle by d degrees (negative = to port).
func (a Angle) Add(d float64) Angle { return Deg(float64(a) + d) }

// PM180 maps the angle into (-180, 180].
func (a Angle) PM180() float64 {
	v := float64(a)
	if v > 180 {
		v -= 360
	}
	return v
}

// Diff returns the signed turn from b to a in (-180, 180].
func (a Angle) Diff(b Angle) float64 {
	return Deg(float64(a) - float64(b)).PM180()
}

// Direction is the unit vector pointing along the angle.
func (a Angle) Direction() Vec2 {
	r := a.Rad()
	return Vec2{math.Sin(r), math.Cos(r)}
}
