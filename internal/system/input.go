package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/seawolf/tactsim/internal/core/system"
	"github.com/seawolf/tactsim/internal/world"
)

// InputSystem drains externally queued commands into the world.
// Phase 0 (Input). Enqueue may be called from any goroutine.
type InputSystem struct {
	world      *world.State
	queue      chan world.Command
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(ws *world.State, queueSize, maxPerTick int, log *zap.Logger) *InputSystem {
	return &InputSystem{
		world:      ws,
		queue:      make(chan world.Command, queueSize),
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Enqueue offers a command without blocking. It reports false when the
// queue is full.
func (s *InputSystem) Enqueue(c world.Command) bool {
	select {
	case s.queue <- c:
		return true
	default:
		return false
	}
}

func (s *InputSystem) Update(_ time.Duration) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case c := <-s.queue:
			if !s.world.Submit(c) {
				s.log.Debug("duplicate command dropped", zap.Uint64("command", c.CommandID()))
			}
		default:
			return
		}
	}
}
