package engine

import (
	"context"
	"fmt"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/store"
)

// JournalReporter appends every committed revision to an edit journal.
type JournalReporter struct {
	store *store.Store
}

// NewJournalReporter creates a reporter writing to s.
func NewJournalReporter(s *store.Store) *JournalReporter {
	return &JournalReporter{store: s}
}

// Report implements Reporter.
func (j *JournalReporter) Report(ctx context.Context, rev Revision) error {
	rec, err := revisionRecord(rev)
	if err != nil {
		return err
	}
	inserted, err := j.store.WriteRevision(ctx, rec)
	if err != nil {
		return fmt.Errorf("journal revision %d: %w", rev.Number, err)
	}
	if !inserted {
		return fmt.Errorf("journal revision %d: already journaled", rev.Number)
	}
	return nil
}

// revisionRecord converts a revision into its journal form.
func revisionRecord(rev Revision) (store.RevisionRecord, error) {
	batchHash, err := rev.Batch.Hash()
	if err != nil {
		return store.RevisionRecord{}, fmt.Errorf("hash batch of revision %d: %w", rev.Number, err)
	}

	ops := make([]store.Op, len(rev.Batch))
	for i, op := range rev.Batch {
		ops[i] = store.Op{Op: op.Type.String(), Node: op.Node}
	}

	return store.RevisionRecord{
		Number:        rev.Number,
		BatchHash:     batchHash,
		NormalHash:    rev.Hash,
		Passes:        rev.Passes,
		Live:          rev.Live,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
		Ops:           ops,
		Deltas:        rev.Delta,
	}, nil
}

// batchOf rebuilds the edit batch of a journaled revision.
func batchOf(rec store.RevisionRecord) (Batch, error) {
	batch := make(Batch, len(rec.Ops))
	for i, op := range rec.Ops {
		t, err := ParseOpType(op.Op)
		if err != nil {
			return nil, fmt.Errorf("revision %d op %d: %w", rec.Number, i, err)
		}
		batch[i] = Op{Type: t, Node: op.Node}
	}
	return batch, nil
}
