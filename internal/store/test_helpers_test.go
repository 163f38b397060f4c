package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/network"
	"github.com/roach88/inet/internal/testutil"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRevision creates a revision record touching every node kind.
func createTestRevision(number int64) RevisionRecord {
	a, b, c := testutil.ID(1), testutil.ID(2), testutil.ID(3)
	return RevisionRecord{
		Number:        number,
		BatchHash:     "batch-hash",
		NormalHash:    "normal-hash",
		Passes:        4,
		Live:          2,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
		Ops: []Op{
			{Op: "insert", Node: ir.At(a, ir.AdderKind(b, c))},
			{Op: "remove", Node: ir.At(b, ir.ZeroKind())},
		},
		Deltas: []network.Delta{
			{Node: ir.At(b, ir.ForwarderKind(c)), Change: 1},
			{Node: ir.At(c, ir.SuccessorKind(a)), Change: -1},
		},
	}
}
