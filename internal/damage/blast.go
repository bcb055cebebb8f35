package damage

import "math"

// Depth charge blast radii: at the surface and their change per metre of
// detonation depth.
const (
	DeadlyRadiusSurface = 120.0
	DeadlyRadiusPerM    = 80.0 / 200
	DamageRadiusSurface = 480.0
	DamageRadiusPerM    = 320.0 / 200
)

// Radii returns the deadly and damage radius of a charge going off at the
// given depth. Both shrink linearly, the damage radius faster.
func Radii(depth float64) (deadly, dmg float64) {
	if depth < 0 {
		depth = 0
	}
	deadly = math.Max(0, DeadlyRadiusSurface-depth*DeadlyRadiusPerM)
	dmg = math.Max(deadly, DamageRadiusSurface-depth*DamageRadiusPerM)
	return deadly, dmg
}

// Strength is the damage dealt at distance d: 1 at the deadly radius, 0.01
// at the damage radius, 0 beyond.
func Strength(d, deadly, dmg float64) float64 {
	if d > dmg || dmg <= deadly {
		return 0
	}
	k := math.Log(100) / (dmg - deadly)
	return math.Exp((deadly - d) * k)
}

// BlastDistance is the distance used against submarines; a vertical offset
// counts double.
func BlastDistance(dx, dy, dz float64) float64 {
	dz *= 2
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
