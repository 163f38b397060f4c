package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/network"
	"github.com/roach88/inet/internal/store"
	"github.com/roach88/inet/internal/testutil"
)

// newAllocator returns an allocator over sequential ids.
func newAllocator() *network.Allocator {
	return network.NewAllocator(testutil.NewSequentialIDs())
}

// buildAdd constructs n1 + n2 with sequential ids. The output id is the
// first id handed out.
func buildAdd(t *testing.T, alloc *network.Allocator, n1, n2 int) network.AddProblem {
	t.Helper()
	out, err := alloc.Next()
	require.NoError(t, err)
	p, err := network.ConstructAdd(alloc, n1, n2, out)
	require.NoError(t, err)
	return p
}

// reduceAdd reduces n1 + n2 and returns the result and the output id.
func reduceAdd(t *testing.T, n1, n2 int, opts ...Option) (*Result, ir.NodeID) {
	t.Helper()
	p := buildAdd(t, newAllocator(), n1, n2)
	res, err := Reduce(context.Background(), network.FromNodes(p.Nodes()), opts...)
	require.NoError(t, err)
	return res, p.Output
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(dir + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var (
	a = testutil.ID(1)
	b = testutil.ID(2)
	c = testutil.ID(3)
	d = testutil.ID(4)
)
