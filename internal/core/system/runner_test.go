package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type probe struct {
	phase Phase
	name  string
	log   *[]string
}

func (p probe) Phase() Phase { return p.phase }
func (p probe) Update(time.Duration) {
	*p.log = append(*p.log, p.name)
}

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(probe{PhasePersist, "snapshot", &log})
	r.Register(probe{PhaseUpdate, "simulate", &log})
	r.Register(probe{PhasePreUpdate, "dispatch", &log})
	r.Register(probe{PhaseOutput, "frames", &log})
	r.Register(probe{PhaseOutput, "events", &log})

	r.Tick(time.Second)
	assert.Equal(t, []string{"dispatch", "simulate", "frames", "events", "snapshot"}, log)

	log = nil
	r.TickPhase(PhaseOutput, time.Second)
	assert.Equal(t, []string{"frames", "events"}, log)
	assert.Equal(t, 5, r.Len())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "update", PhaseUpdate.String())
	assert.Equal(t, "unknown", Phase(99).String())
}
