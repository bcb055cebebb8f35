package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/seawolf/tactsim/internal/world"
)

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save stores one snapshot of a run at a tick.
func (r *SnapshotRepo) Save(ctx context.Context, run string, tick int64, snap *world.Snapshot) error {
	payload, sum, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO snapshots (run_name, tick, sim_time, payload, checksum)
		 VALUES ($1, $2, $3, $4, $5)`,
		run, tick, snap.Time, payload, sum,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadLatest returns the newest snapshot of a run and its tick. A run with
// no snapshot yields nil and no error.
func (r *SnapshotRepo) LoadLatest(ctx context.Context, run string) (*world.Snapshot, int64, error) {
	var (
		tick         int64
		payload, sum []byte
	)
	err := r.db.Pool.QueryRow(ctx,
		`SELECT tick, payload, checksum FROM snapshots
		 WHERE run_name = $1 ORDER BY tick DESC, id DESC LIMIT 1`, run,
	).Scan(&tick, &payload, &sum)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load snapshot: %w", err)
	}
	snap, err := DecodeSnapshot(payload, sum)
	if err != nil {
		return nil, 0, fmt.Errorf("snapshot %s@%d: %w", run, tick, err)
	}
	return snap, tick, nil
}

// Prune keeps the newest keep snapshots of a run.
func (r *SnapshotRepo) Prune(ctx context.Context, run string, keep int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM snapshots WHERE run_name = $1 AND id NOT IN (
		     SELECT id FROM snapshots WHERE run_name = $1 ORDER BY tick DESC, id DESC LIMIT $2)`,
		run, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}
