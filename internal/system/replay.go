package system

import (
	"time"

	coresys "github.com/seawolf/tactsim/internal/core/system"
	"github.com/seawolf/tactsim/internal/replay"
	"github.com/seawolf/tactsim/internal/world"
)

// ReplaySystem writes position frames to the replay bundle. Events reach the
// bundle through the recorder's bus subscriptions. Phase 4 (Output).
type ReplaySystem struct {
	world    *world.State
	recorder *replay.Recorder
}

func NewReplaySystem(ws *world.State, r *replay.Recorder) *ReplaySystem {
	return &ReplaySystem{world: ws, recorder: r}
}

func (s *ReplaySystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *ReplaySystem) Update(_ time.Duration) {
	s.recorder.Tick(s.world)
}

// Close flushes the last frame and closes the bundle.
func (s *ReplaySystem) Close() error {
	return s.recorder.Close(s.world)
}
