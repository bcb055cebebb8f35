package event

import (
	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/geo"
)

// Simulation events. Time is the simulated clock in seconds at which the
// event happened.

type TorpedoLaunched struct {
	Time     float64
	Torpedo  ecs.EntityID
	Launcher ecs.EntityID
	Tube     int
}

type TorpedoHit struct {
	Time    float64
	Torpedo ecs.EntityID
	Target  ecs.EntityID
	Pos     geo.Vec3
}

// DudReason tells why a torpedo that reached a hull did not detonate.
type DudReason int

const (
	DudShortRun    DudReason = iota // hit before the arming distance
	DudMalfunction                  // failure policy roll
	DudFailure                      // failed on external command
)

func (r DudReason) String() string {
	switch r {
	case DudShortRun:
		return "short_run"
	case DudMalfunction:
		return "malfunction"
	case DudFailure:
		return "failure"
	}
	return "unknown"
}

type TorpedoDud struct {
	Time    float64
	Torpedo ecs.EntityID
	Target  ecs.EntityID // zero for DudFailure
	Pos     geo.Vec3
	Reason  DudReason
}

type TorpedoRanOut struct {
	Time      float64
	Torpedo   ecs.EntityID
	RunLength float64
}

type ShellImpact struct {
	Time   float64
	Shell  ecs.EntityID
	Target ecs.EntityID
	Pos    geo.Vec3
	Damage float64
}

type ShellSplash struct {
	Time  float64
	Shell ecs.EntityID
	Pos   geo.Vec3
}

type DepthChargeExploded struct {
	Time    float64
	Charge  ecs.EntityID
	Pos     geo.Vec3
	Deadly  float64
	Damage  float64
	Killed  []ecs.EntityID
	Damaged []ecs.EntityID
}

// ContactSource names the sensor that produced a contact.
type ContactSource string

const (
	SourceVisual  ContactSource = "visual"
	SourcePassive ContactSource = "passive"
	SourceActive  ContactSource = "active"
	SourceConvoy  ContactSource = "convoy"
)

type ContactAdopted struct {
	Time     float64
	Observer ecs.EntityID
	Target   ecs.EntityID // zero when the fix is anonymous
	Pos      geo.Vec3
	Source   ContactSource
}

type PingEmitted struct {
	Time    float64
	Emitter ecs.EntityID
	Origin  geo.Vec3
	Bearing float64
	Range   float64
	Cone    float64
}

type GunFired struct {
	Time      float64
	Ship      ecs.EntityID
	Target    ecs.EntityID
	Elevation float64
	Distance  float64
}

type VesselSunk struct {
	Time      float64
	Vessel    ecs.EntityID
	Name      string
	Tonnage   int
	Submarine bool
	Cause     string
}
