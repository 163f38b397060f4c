package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/store"
)

// Replay and determinism
//
// A journal holds the ops of every committed batch and the hash of the
// normal form each batch settled to. Replay feeds the ops through a fresh
// Session, the same code path that produced them, and compares hashes.
//
//	[revision 0 ops] -> NewSession -> hash == journaled?
//	[revision n ops] -> Apply      -> hash == journaled?
//
// Rules never mint ids, so the normal form depends only on the source
// network, and the hashes match unless the rule set, the engine, or the
// journal changed.

// ReplayMismatch records a revision whose re-derived state differs from the
// journal.
type ReplayMismatch struct {
	Revision int64  `json:"revision"`
	Field    string `json:"field"`
	Want     string `json:"want"`
	Got      string `json:"got"`
}

// ReplayReport summarizes a journal replay.
type ReplayReport struct {
	// Revisions counts replayed revisions, revision 0 included.
	Revisions int `json:"revisions"`

	// Mismatches lists every difference found, in revision order.
	Mismatches []ReplayMismatch `json:"mismatches,omitempty"`

	// Final is the last re-derived revision.
	Final Revision `json:"-"`

	session *Session
}

// OK reports whether the replay matched the journal everywhere.
func (r *ReplayReport) OK() bool {
	return len(r.Mismatches) == 0
}

// Session returns the session rebuilt by the replay, positioned at the last
// journaled revision. Nil for an empty journal.
func (r *ReplayReport) Session() *Session {
	return r.session
}

// Replay rebuilds the journaled revisions from scratch and checks each
// normal form hash against the journal.
//
// A batch the journal accepted but the engine now rejects is an error, since
// later revisions cannot be rebuilt without it. Hash differences are
// collected in the report and do not stop the replay.
func Replay(ctx context.Context, records []store.RevisionRecord, opts ...Option) (*ReplayReport, error) {
	report := &ReplayReport{}

	for i, rec := range records {
		if rec.Number != int64(i) {
			return nil, fmt.Errorf("replay: journal revision %d found at position %d", rec.Number, i)
		}
		batch, err := batchOf(rec)
		if err != nil {
			return nil, fmt.Errorf("replay: %w", err)
		}

		var rev Revision
		if i == 0 {
			initial := make([]ir.Node, 0, len(batch))
			for _, op := range batch {
				if op.Type != OpInsert {
					return nil, fmt.Errorf("replay: revision 0 holds a %s op", op.Type)
				}
				initial = append(initial, op.Node)
			}
			report.session, err = NewSession(ctx, initial, opts...)
			if err != nil {
				return nil, fmt.Errorf("replay revision 0: %w", err)
			}
			rev = report.session.Current()
		} else {
			rev, err = report.session.Apply(ctx, batch)
			if err != nil {
				return nil, fmt.Errorf("replay revision %d: %w", rec.Number, err)
			}
		}

		report.Revisions++
		report.Final = rev
		report.compare(rec, rev)
	}

	slog.Info("replay complete",
		"revisions", report.Revisions,
		"mismatches", len(report.Mismatches),
	)
	return report, nil
}

func (r *ReplayReport) compare(rec store.RevisionRecord, rev Revision) {
	check := func(field, want, got string) {
		if want != got {
			r.Mismatches = append(r.Mismatches, ReplayMismatch{
				Revision: rec.Number,
				Field:    field,
				Want:     want,
				Got:      got,
			})
		}
	}

	batchHash, err := rev.Batch.Hash()
	if err != nil {
		batchHash = err.Error()
	}
	check("batch_hash", rec.BatchHash, batchHash)
	check("normal_hash", rec.NormalHash, rev.Hash)
	check("live", fmt.Sprint(rec.Live), fmt.Sprint(rev.Live))
	check("deltas", fmt.Sprint(len(rec.Deltas)), fmt.Sprint(len(rev.Delta)))
}
