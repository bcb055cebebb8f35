package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	coresys "github.com/seawolf/tactsim/internal/core/system"
	"github.com/seawolf/tactsim/internal/world"
)

// SnapshotStore keeps world snapshots per run.
type SnapshotStore interface {
	Save(ctx context.Context, run string, tick int64, snap *world.Snapshot) error
	Prune(ctx context.Context, run string, keep int) (int64, error)
}

// LossStore keeps the loss log per run.
type LossStore interface {
	WriteLosses(ctx context.Context, run string, losses []world.SinkRecord) error
}

// snapshotsKept is how many snapshots per run survive a prune.
const snapshotsKept = 5

// PersistenceSystem periodically snapshots the world and appends new losses
// to the loss log. Phase 5 (Persist).
type PersistenceSystem struct {
	world     *world.State
	sim       *SimulationSystem
	snapshots SnapshotStore
	losses    LossStore
	run       string
	log       *zap.Logger
	tickCount int
	interval  int // save every N ticks
	written   int // sink records already in the loss log
}

func NewPersistenceSystem(ws *world.State, sim *SimulationSystem, snapshots SnapshotStore, losses LossStore, run string, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{
		world:     ws,
		sim:       sim,
		snapshots: snapshots,
		losses:    losses,
		run:       run,
		log:       log,
		interval:  intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.save()
}

// SaveNow persists immediately. Called on graceful shutdown.
func (s *PersistenceSystem) SaveNow() {
	s.tickCount = 0
	s.save()
}

func (s *PersistenceSystem) save() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.writeLosses(ctx); err != nil {
		s.log.Error("loss log write failed", zap.String("run", s.run), zap.Error(err))
	}

	tick := s.sim.Ticks()
	if err := s.snapshots.Save(ctx, s.run, tick, s.world.Record()); err != nil {
		s.log.Error("snapshot save failed", zap.String("run", s.run), zap.Int64("tick", tick), zap.Error(err))
		return
	}
	pruned, err := s.snapshots.Prune(ctx, s.run, snapshotsKept)
	if err != nil {
		s.log.Warn("snapshot prune failed", zap.String("run", s.run), zap.Error(err))
	}
	s.log.Debug("snapshot saved",
		zap.String("run", s.run),
		zap.Int64("tick", tick),
		zap.Float64("sim_time", s.world.Time()),
		zap.Int64("pruned", pruned),
	)
}

func (s *PersistenceSystem) writeLosses(ctx context.Context) error {
	sunk := s.world.Sunk()
	if len(sunk) <= s.written {
		return nil
	}
	if err := s.losses.WriteLosses(ctx, s.run, sunk[s.written:]); err != nil {
		return err
	}
	s.written = len(sunk)
	return nil
}
