// Package weapon moves torpedoes, gun shells and depth charges. The world
// resolves what they hit through Env; the weapons only own their flight.
package weapon

import "github.com/seawolf/tactsim/internal/geo"

// Env is the part of the world a weapon needs while it runs.
type Env interface {
	// LoudestTarget returns the noise source of the loudest hull the
	// torpedo seeker currently hears.
	LoudestTarget(t *Torpedo) (geo.Vec2, bool)
	// TorpedoHit resolves a hull collision. It returns true when the
	// torpedo is used up (hit or dud against a hull).
	TorpedoHit(t *Torpedo) bool
	ShellImpact(s *Shell)
	Explode(dc *DepthCharge)
}

// FailurePolicy gives the probability that a torpedo reaching a hull fails
// to detonate although it is armed.
type FailurePolicy interface {
	FailureChance(kind string, runLength float64) float64
}

// ConstantFailure is a fixed dud probability.
type ConstantFailure float64

func (c ConstantFailure) FailureChance(string, float64) float64 { return float64(c) }
