package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/network"
)

// Session keeps the normal form of an editable source network.
//
// Thread-safety model:
//   - Apply: safe from any goroutine; batches are serialized
//   - Snapshot, Source, Current, Decode: safe from any goroutine, never block
//     on a running reduction and never observe a partial batch
//
// INVARIANTS:
//   - normal is the result of Reduce(source) at every committed revision
//   - the revision number advances only when a batch is accepted
type Session struct {
	opts  options
	clock *RevisionClock

	// writeMu serializes Apply so that only one batch is validated and
	// reduced at a time.
	writeMu sync.Mutex

	// mu guards the committed state below.
	mu     sync.RWMutex
	source *network.Network
	normal *network.Network
	last   Revision
}

// NewSession reduces the initial network and commits it as revision 0.
//
// The initial records are taken as given: an initial network that is not
// well formed is reduced anyway and its malformed addresses are reported as
// anomalies.
func NewSession(ctx context.Context, initial []ir.Node, opts ...Option) (*Session, error) {
	s := &Session{
		opts:   buildOptions(opts),
		clock:  NewRevisionClock(),
		source: network.FromNodes(initial),
		normal: network.New(),
	}

	batch := make(Batch, len(initial))
	for i, n := range initial {
		batch[i] = Insert(n)
	}

	res, err := Reduce(ctx, s.source, opts...)
	if err != nil {
		return nil, fmt.Errorf("reduce initial network: %w", err)
	}
	rev, err := s.commit(s.clock.Current(), batch, s.source, res)
	if err != nil {
		return nil, err
	}
	s.report(ctx, rev)
	return s, nil
}

// Apply validates and commits one batch, then re-derives the normal form.
//
// A rejected batch returns an INVALID_EDIT RuntimeError and leaves the
// session untouched, revision number included. Errors from the reduction
// (cancellation, pass budget) also leave the session untouched.
func (s *Session) Apply(ctx context.Context, batch Batch) (Revision, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	source := s.source
	s.mu.RUnlock()

	next, err := applyBatch(source, batch)
	if err != nil {
		batchesTotal.WithLabelValues("rejected").Inc()
		slog.Warn("edit batch rejected",
			"revision", s.clock.Current(),
			"ops", len(batch),
			"error", err,
		)
		return Revision{}, err
	}

	res, err := Reduce(ctx, next, s.optionList()...)
	if err != nil {
		batchesTotal.WithLabelValues("failed").Inc()
		return Revision{}, fmt.Errorf("re-derive normal form: %w", err)
	}

	rev, err := s.commit(s.clock.Next(), batch, next, res)
	if err != nil {
		return Revision{}, err
	}
	batchesTotal.WithLabelValues("accepted").Inc()
	s.report(ctx, rev)
	return rev, nil
}

// commit swaps in the new source and normal form.
func (s *Session) commit(number int64, batch Batch, source *network.Network, res *Result) (Revision, error) {
	hash, err := res.Normal.Hash()
	if err != nil {
		return Revision{}, fmt.Errorf("hash normal form: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rev := Revision{
		Number:     number,
		Batch:      batch,
		Delta:      network.Diff(s.normal, res.Normal),
		Passes:     res.Passes,
		Reductions: res.Reductions,
		Anomalies:  res.Anomalies,
		Hash:       hash,
		Live:       res.Normal.LiveUnits(),
	}
	s.source = source
	s.normal = res.Normal
	s.last = rev

	slog.Info("revision committed",
		"revision", rev.Number,
		"ops", len(batch),
		"added", rev.Added(),
		"removed", rev.Removed(),
		"passes", rev.Passes,
	)
	return rev, nil
}

// report hands the revision to every reporter. Failures are logged only.
func (s *Session) report(ctx context.Context, rev Revision) {
	for _, r := range s.opts.reporters {
		if err := r.Report(ctx, rev); err != nil {
			slog.Error("reporter failed",
				"revision", rev.Number,
				"error", err,
			)
		}
	}
}

// optionList rebuilds the reduction options from the session configuration.
func (s *Session) optionList() []Option {
	return []Option{WithWorkers(s.opts.workers), WithMaxPasses(s.opts.maxPasses)}
}

// Snapshot returns a copy of the current normal form.
func (s *Session) Snapshot() *network.Network {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.normal.Clone()
}

// Source returns a copy of the current source network.
func (s *Session) Source() *network.Network {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source.Clone()
}

// Current returns the last committed revision.
func (s *Session) Current() Revision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Decode reads the natural found at from in the current normal form.
func (s *Session) Decode(from ir.NodeID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return network.Decode(s.normal, from)
}
