package world

import (
	"github.com/seawolf/tactsim/internal/geo"
	"github.com/seawolf/tactsim/internal/weapon"
)

// Sensor views of the vessel and weapon types. They read live state on
// every call.

type shipBody struct{ s *Ship }

func (b shipBody) Position() geo.Vec3        { return b.s.Motion.Pos }
func (b shipBody) Heading() geo.Angle        { return b.s.Motion.Heading }
func (b shipBody) Length() float64           { return b.s.Length }
func (b shipBody) Width() float64            { return b.s.Width }
func (b shipBody) NoiseFactor() float64      { return b.s.NoiseFactor() }
func (b shipBody) VisibilityFactor() float64 { return 1 }
func (b shipBody) SonarVisibility() float64  { return 0 }
func (b shipBody) IsSubmarine() bool         { return false }
func (b shipBody) IsSubmerged() bool         { return false }
func (b shipBody) ElectricDrive() bool       { return false }

type subBody struct{ s *Submarine }

func (b subBody) Position() geo.Vec3        { return b.s.Motion.Pos }
func (b subBody) Heading() geo.Angle        { return b.s.Motion.Heading }
func (b subBody) Length() float64           { return b.s.Length }
func (b subBody) Width() float64            { return b.s.Width }
func (b subBody) NoiseFactor() float64      { return b.s.NoiseFactor() }
func (b subBody) VisibilityFactor() float64 { return b.s.VisibilityFactor() }
func (b subBody) SonarVisibility() float64  { return b.s.SonarVisibility() }
func (b subBody) IsSubmarine() bool         { return true }
func (b subBody) IsSubmerged() bool         { return b.s.Submerged() }
func (b subBody) ElectricDrive() bool       { return b.s.Electric }

// Torpedo hull size used for collision and lookout tests.
const (
	TorpedoLength = 7.0
	TorpedoWidth  = 0.5
	torpedoWake   = 0.5
)

// torpBody is a running torpedo. As an observer its seeker hears no
// self noise.
type torpBody struct{ t *weapon.Torpedo }

func (b torpBody) Position() geo.Vec3        { return b.t.Motion.Pos }
func (b torpBody) Heading() geo.Angle        { return b.t.Motion.Heading }
func (b torpBody) Length() float64           { return TorpedoLength }
func (b torpBody) Width() float64            { return TorpedoWidth }
func (b torpBody) NoiseFactor() float64      { return 0 }
func (b torpBody) VisibilityFactor() float64 { return torpedoWake }
func (b torpBody) SonarVisibility() float64  { return 0 }
func (b torpBody) IsSubmarine() bool         { return false }
func (b torpBody) IsSubmerged() bool         { return true }
func (b torpBody) ElectricDrive() bool       { return false }
