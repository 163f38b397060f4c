package store

import (
	"context"
	"fmt"
)

// WriteRevision appends a revision with its ops and deltas in one
// transaction. Returns whether a new record was inserted.
//
// Uses ON CONFLICT(number) DO NOTHING: writing a revision number that is
// already journaled leaves the journal unchanged and returns inserted=false.
func (s *Store) WriteRevision(ctx context.Context, rec RevisionRecord) (inserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write revision: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO revisions
		(number, batch_hash, normal_hash, passes, live, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(number) DO NOTHING
	`,
		rec.Number,
		rec.BatchHash,
		rec.NormalHash,
		rec.Passes,
		rec.Live,
		rec.EngineVersion,
		rec.IRVersion,
	)
	if err != nil {
		return false, fmt.Errorf("write revision %d: %w", rec.Number, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write revision %d: rows affected: %w", rec.Number, err)
	}
	if affected == 0 {
		return false, nil
	}

	for i, op := range rec.Ops {
		addr, tag, ref0, ref1 := nodeColumns(op.Node)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ops (revision, idx, op, addr, tag, ref0, ref1)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, rec.Number, i, op.Op, addr, tag, ref0, ref1)
		if err != nil {
			return false, fmt.Errorf("write revision %d: op %d: %w", rec.Number, i, err)
		}
	}

	for i, d := range rec.Deltas {
		addr, tag, ref0, ref1 := nodeColumns(d.Node)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO deltas (revision, idx, change, addr, tag, ref0, ref1)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, rec.Number, i, d.Change, addr, tag, ref0, ref1)
		if err != nil {
			return false, fmt.Errorf("write revision %d: delta %d: %w", rec.Number, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write revision %d: commit: %w", rec.Number, err)
	}
	return true, nil
}
