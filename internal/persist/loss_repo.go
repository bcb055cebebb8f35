package persist

import (
	"context"
	"fmt"

	"github.com/seawolf/tactsim/internal/core/ecs"
	"github.com/seawolf/tactsim/internal/world"
)

// LossRepo keeps the loss log of a run: one row per vessel lost.
type LossRepo struct {
	db *DB
}

func NewLossRepo(db *DB) *LossRepo {
	return &LossRepo{db: db}
}

// WriteLosses atomically writes a batch of losses in a single transaction.
// Rows already written for the same run, vessel and time are skipped, so a
// batch may be replayed after a failed commit.
func (r *LossRepo) WriteLosses(ctx context.Context, run string, losses []world.SinkRecord) error {
	if len(losses) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("losses begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, l := range losses {
		if _, err := tx.Exec(ctx,
			`INSERT INTO losses (run_name, sim_time, vessel, name, class, tonnage, submarine, cause)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (run_name, vessel, sim_time) DO NOTHING`,
			run, l.Time, int64(l.Vessel), l.Name, l.Class, l.Tonnage, l.Submarine, l.Cause,
		); err != nil {
			return fmt.Errorf("losses insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Losses lists the loss log of a run in time order.
func (r *LossRepo) Losses(ctx context.Context, run string) ([]world.SinkRecord, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT sim_time, vessel, name, class, tonnage, submarine, cause
		 FROM losses WHERE run_name = $1 ORDER BY sim_time, id`, run,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []world.SinkRecord
	for rows.Next() {
		var l world.SinkRecord
		var vessel int64
		if err := rows.Scan(&l.Time, &vessel, &l.Name, &l.Class, &l.Tonnage, &l.Submarine, &l.Cause); err != nil {
			return nil, err
		}
		l.Vessel = ecs.EntityID(vessel)
		out = append(out, l)
	}
	return out, rows.Err()
}
