// Package testutil provides deterministic id generators for tests and the
// scenario harness.
package testutil

import (
	"encoding/binary"
	"sync"

	"github.com/roach88/inet/internal/ir"
)

// SequentialIDs generates ids 1, 2, 3, ... in the low 8 bytes.
//
// Unlike network.UUIDGenerator, SequentialIDs can be reset, so the same
// scenario run twice produces byte-identical records and golden output.
//
// Thread-safety: all methods are safe for concurrent use.
type SequentialIDs struct {
	mu  sync.Mutex
	seq uint64
}

// NewSequentialIDs creates a generator whose first id is 1.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// Generate returns the next id.
func (g *SequentialIDs) Generate() ir.NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return ID(g.seq)
}

// Current returns the last id number handed out, 0 before the first call.
func (g *SequentialIDs) Current() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset rewinds the generator; the next id is 1 again.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// ID returns the id SequentialIDs produces for n.
func ID(n uint64) ir.NodeID {
	var id ir.NodeID
	binary.BigEndian.PutUint64(id[8:], n)
	return id
}

// FixedIDs returns the same id on every call. Any allocator wrapping it
// reports a collision on the second call.
type FixedIDs struct {
	id ir.NodeID
}

// NewFixedIDs creates a generator that always yields ID(n).
func NewFixedIDs(n uint64) *FixedIDs {
	return &FixedIDs{id: ID(n)}
}

// Generate returns the fixed id.
func (g *FixedIDs) Generate() ir.NodeID {
	return g.id
}
