package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/network"
)

// addSession is a session over n1 + n2 together with the operand chains.
type addSession struct {
	*Session
	alloc       *network.Allocator
	left, right network.Chain
	out         ir.NodeID
}

func newAddSession(t *testing.T, n1, n2 int, opts ...Option) *addSession {
	t.Helper()
	alloc := newAllocator()
	p := buildAdd(t, alloc, n1, n2)
	s, err := NewSession(context.Background(), p.Nodes(), opts...)
	require.NoError(t, err)
	return &addSession{Session: s, alloc: alloc, left: p.Left, right: p.Right, out: p.Output}
}

func (s *addSession) value(t *testing.T) uint64 {
	t.Helper()
	v, err := s.Decode(s.out)
	require.NoError(t, err)
	return v
}

func TestNewSession_InitialRevision(t *testing.T) {
	s := newAddSession(t, 3, 4)

	rev := s.Current()
	assert.Equal(t, int64(0), rev.Number)
	assert.Len(t, rev.Batch, 3+1+4+1+1)
	assert.Equal(t, int64(8), rev.Live)
	assert.Equal(t, int64(8), rev.Added())
	assert.Zero(t, rev.Removed())
	assert.Equal(t, uint64(7), s.value(t))
}

func TestSession_DecrementLeft(t *testing.T) {
	s := newAddSession(t, 3, 4)

	batch, _, err := Decrement(s.left)
	require.NoError(t, err)
	rev, err := s.Apply(context.Background(), batch)
	require.NoError(t, err)

	assert.Equal(t, int64(1), rev.Number)
	assert.Equal(t, uint64(6), s.value(t))
}

func TestSession_DecrementThenIncrement(t *testing.T) {
	s := newAddSession(t, 3, 4)
	ctx := context.Background()

	batch, _, err := Decrement(s.left)
	require.NoError(t, err)
	_, err = s.Apply(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), s.value(t))

	batch, _, err = Increment(s.alloc, s.right)
	require.NoError(t, err)
	rev, err := s.Apply(ctx, batch)
	require.NoError(t, err)

	assert.Equal(t, int64(2), rev.Number)
	assert.Equal(t, uint64(7), s.value(t))
}

func TestSession_MatchesFromScratch(t *testing.T) {
	s := newAddSession(t, 2, 5)
	ctx := context.Background()

	batch, _, err := Increment(s.alloc, s.left)
	require.NoError(t, err)
	_, err = s.Apply(ctx, batch)
	require.NoError(t, err)

	scratch, err := Reduce(ctx, s.Source())
	require.NoError(t, err)
	assert.True(t, scratch.Normal.Equal(s.Snapshot()))
}

func TestSession_RejectedBatchIsAtomic(t *testing.T) {
	s := newAddSession(t, 2, 2)
	before := s.Current()
	source := s.Source()
	rejected := testutil.ToFloat64(batchesTotal.WithLabelValues("rejected"))

	// The first op is valid; the second is not, so neither applies.
	batch := Batch{
		Remove(s.left.Zero()),
		Remove(ir.At(s.out, ir.ZeroKind())),
	}
	_, err := s.Apply(context.Background(), batch)
	require.Error(t, err)
	assert.True(t, IsInvalidEdit(err))

	assert.Equal(t, before.Number, s.Current().Number)
	assert.True(t, source.Equal(s.Source()))
	assert.Equal(t, uint64(4), s.value(t))
	assert.Equal(t, rejected+1, testutil.ToFloat64(batchesTotal.WithLabelValues("rejected")))

	// The next accepted batch takes revision 1.
	next, _, err := Decrement(s.left)
	require.NoError(t, err)
	rev, err := s.Apply(context.Background(), next)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev.Number)
}

func TestSession_DeltaMovesSnapshot(t *testing.T) {
	s := newAddSession(t, 3, 3)
	ctx := context.Background()

	prev := s.Snapshot()
	batch, _, err := Decrement(s.right)
	require.NoError(t, err)
	rev, err := s.Apply(ctx, batch)
	require.NoError(t, err)

	prev.Apply(rev.Delta)
	assert.True(t, prev.Equal(s.Snapshot()))

	hash, err := s.Snapshot().Hash()
	require.NoError(t, err)
	assert.Equal(t, hash, rev.Hash)
}

func TestSession_Reporters(t *testing.T) {
	var got []int64
	record := ReporterFunc(func(_ context.Context, rev Revision) error {
		got = append(got, rev.Number)
		return nil
	})
	failing := ReporterFunc(func(context.Context, Revision) error {
		return errors.New("sink down")
	})

	s := newAddSession(t, 2, 1, WithReporter(failing), WithReporter(record))
	batch, _, err := Decrement(s.left)
	require.NoError(t, err)
	rev, err := s.Apply(context.Background(), batch)
	require.NoError(t, err, "reporter errors do not fail the batch")

	assert.Equal(t, []int64{0, 1}, got)
	assert.Equal(t, rev.Number, s.Current().Number)
}

func TestSession_ReadersSeeWholeRevisions(t *testing.T) {
	s := newAddSession(t, 20, 20, WithWorkers(2))
	ctx := context.Background()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				v, err := s.Decode(s.out)
				assert.NoError(t, err)
				assert.Contains(t, []uint64{40, 39, 38, 37, 36}, v)
			}
		}()
	}

	left := s.left
	for i := 0; i < 4; i++ {
		batch, next, err := Decrement(left)
		require.NoError(t, err)
		_, err = s.Apply(ctx, batch)
		require.NoError(t, err)
		left = next
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, uint64(36), s.value(t))
}

// Random edit sequences must always land on the from-scratch normal form.
func TestSession_RandomEdits(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(1, 2))

	for run := 0; run < 10; run++ {
		n1, n2 := rng.IntN(6), rng.IntN(6)
		s := newAddSession(t, n1, n2)

		for step := 0; step < 12; step++ {
			left := rng.IntN(2) == 0
			chain := &s.right
			if left {
				chain = &s.left
			}

			var (
				batch Batch
				next  network.Chain
				err   error
			)
			if rng.IntN(2) == 0 && chain.Value() > 0 {
				batch, next, err = Decrement(*chain)
			} else {
				batch, next, err = Increment(s.alloc, *chain)
			}
			require.NoError(t, err)

			prev := s.Snapshot()
			rev, err := s.Apply(ctx, batch)
			require.NoError(t, err)
			*chain = next

			scratch, err := Reduce(ctx, network.FromNodes(s.Source().Nodes()))
			require.NoError(t, err)
			require.True(t, scratch.Normal.Equal(s.Snapshot()), "run %d step %d", run, step)

			prev.Apply(rev.Delta)
			require.True(t, prev.Equal(s.Snapshot()))

			assert.Equal(t, uint64(s.left.Value()+s.right.Value()), s.value(t))
		}
	}
}
