package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/inet/internal/network"
)

// ReadRevisions returns every journaled revision ordered by number, each
// with its ops and deltas in index order.
//
// Returns an empty slice (not nil) for an empty journal.
func (s *Store) ReadRevisions(ctx context.Context) ([]RevisionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, batch_hash, normal_hash, passes, live, engine_version, ir_version
		FROM revisions
		ORDER BY number ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query revisions: %w", err)
	}

	records := []RevisionRecord{}
	for rows.Next() {
		var rec RevisionRecord
		if err := rows.Scan(
			&rec.Number,
			&rec.BatchHash,
			&rec.NormalHash,
			&rec.Passes,
			&rec.Live,
			&rec.EngineVersion,
			&rec.IRVersion,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}
	rows.Close()

	// Single connection: the revisions cursor must be closed before the
	// per-revision queries run.
	for i := range records {
		if records[i].Ops, err = s.readOps(ctx, records[i].Number); err != nil {
			return nil, err
		}
		if records[i].Deltas, err = s.readDeltas(ctx, records[i].Number); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// LastRevision returns the highest journaled revision number. ok is false
// for an empty journal.
func (s *Store) LastRevision(ctx context.Context) (number int64, ok bool, err error) {
	var n sql.NullInt64
	err = s.db.QueryRowContext(ctx, `SELECT MAX(number) FROM revisions`).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("last revision: %w", err)
	}
	return n.Int64, n.Valid, nil
}

func (s *Store) readOps(ctx context.Context, revision int64) ([]Op, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT op, addr, tag, ref0, ref1
		FROM ops
		WHERE revision = ?
		ORDER BY idx ASC
	`, revision)
	if err != nil {
		return nil, fmt.Errorf("query ops of revision %d: %w", revision, err)
	}
	defer rows.Close()

	ops := []Op{}
	for rows.Next() {
		var op, addr, tag, ref0, ref1 string
		if err := rows.Scan(&op, &addr, &tag, &ref0, &ref1); err != nil {
			return nil, fmt.Errorf("scan op: %w", err)
		}
		node, err := scanNode(addr, tag, ref0, ref1)
		if err != nil {
			return nil, fmt.Errorf("revision %d: %w", revision, err)
		}
		ops = append(ops, Op{Op: op, Node: node})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ops: %w", err)
	}
	return ops, nil
}

func (s *Store) readDeltas(ctx context.Context, revision int64) ([]network.Delta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT change, addr, tag, ref0, ref1
		FROM deltas
		WHERE revision = ?
		ORDER BY idx ASC
	`, revision)
	if err != nil {
		return nil, fmt.Errorf("query deltas of revision %d: %w", revision, err)
	}
	defer rows.Close()

	deltas := []network.Delta{}
	for rows.Next() {
		var change int64
		var addr, tag, ref0, ref1 string
		if err := rows.Scan(&change, &addr, &tag, &ref0, &ref1); err != nil {
			return nil, fmt.Errorf("scan delta: %w", err)
		}
		node, err := scanNode(addr, tag, ref0, ref1)
		if err != nil {
			return nil, fmt.Errorf("revision %d: %w", revision, err)
		}
		deltas = append(deltas, network.Delta{Node: node, Change: change})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deltas: %w", err)
	}
	return deltas, nil
}
