// Package geo holds the flat-sea vector and compass angle types shared by the
// simulation packages. X grows east, Y grows north, Z is altitude (negative
// below the surface).
package geo

import "math"

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2    { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Dot(o Vec2) float64      { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float64    { return v.X*o.Y - v.Y*o.X }
func (v Vec2) SquareLength() float64   { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Length() float64         { return math.Sqrt(v.SquareLength()) }
func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Length() }
func (v Vec2) XY0() Vec3               { return Vec3{v.X, v.Y, 0} }

func (v Vec2) SquareDistance(o Vec2) float64 {
	return v.Sub(o).SquareLength()
}

// Normal returns the unit vector of v. The zero vector stays zero.
func (v Vec2) Normal() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Starboard returns v rotated 90° clockwise.
func (v Vec2) Starboard() Vec2 { return Vec2{v.Y, -v.X} }

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3       { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3       { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(f float64) Vec3  { return Vec3{v.X * f, v.Y * f, v.Z * f} }
func (v Vec3) XY() Vec2              { return Vec2{v.X, v.Y} }
func (v Vec3) SquareLength() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }
func (v Vec3) Length() float64       { return math.Sqrt(v.SquareLength()) }

// Depth is the distance below the surface, negative when above it.
func (v Vec3) Depth() float64 { return -v.Z }
