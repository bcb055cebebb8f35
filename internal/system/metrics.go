package system

import (
	"time"

	coresys "github.com/seawolf/tactsim/internal/core/system"
	"github.com/seawolf/tactsim/internal/metrics"
	"github.com/seawolf/tactsim/internal/world"
)

// MetricsSystem publishes the cost and result of the tick's simulation step.
// Phase 3 (PostUpdate).
type MetricsSystem struct {
	world     *world.State
	sim       *SimulationSystem
	collector *metrics.SimCollector
}

func NewMetricsSystem(ws *world.State, sim *SimulationSystem, c *metrics.SimCollector) *MetricsSystem {
	return &MetricsSystem{world: ws, sim: sim, collector: c}
}

func (s *MetricsSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *MetricsSystem) Update(_ time.Duration) {
	s.collector.ObserveTick(s.sim.Elapsed(), s.world.Time(), s.world.Counts())
}
