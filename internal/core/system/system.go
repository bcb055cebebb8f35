package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: queue external commands
	PhasePreUpdate               // 1: dispatch last tick's events
	PhaseUpdate                  // 2: advance the world
	PhasePostUpdate              // 3: metrics
	PhaseOutput                  // 4: replay frames
	PhasePersist                 // 5: snapshots
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre_update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post_update"
	case PhaseOutput:
		return "output"
	case PhasePersist:
		return "persist"
	}
	return "unknown"
}

// System is the interface every runner system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
