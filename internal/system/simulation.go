package system

import (
	"time"

	coresys "github.com/seawolf/tactsim/internal/core/system"
	"github.com/seawolf/tactsim/internal/world"
)

// SimulationSystem advances the world by a fixed simulated step each tick,
// independent of the wall-clock tick length. Phase 2 (Update).
type SimulationSystem struct {
	world   *world.State
	step    float64
	ticks   int64
	elapsed time.Duration
}

func NewSimulationSystem(ws *world.State, stepSeconds float64) *SimulationSystem {
	return &SimulationSystem{world: ws, step: stepSeconds}
}

func (s *SimulationSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SimulationSystem) Update(_ time.Duration) {
	start := time.Now()
	s.world.Simulate(s.step)
	s.elapsed = time.Since(start)
	s.ticks++
}

// Ticks is the number of steps run, including any restored from a snapshot.
func (s *SimulationSystem) Ticks() int64 { return s.ticks }

// SetTicks resumes the step counter after a restore.
func (s *SimulationSystem) SetTicks(n int64) { s.ticks = n }

// Elapsed is the wall time of the last step.
func (s *SimulationSystem) Elapsed() time.Duration { return s.elapsed }
