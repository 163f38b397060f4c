package network

import (
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/inet/internal/ir"
)

// IDGenerator produces node ids. Implementations must never repeat a value
// for the lifetime of the process.
type IDGenerator interface {
	Generate() ir.NodeID
}

// UUIDGenerator generates random (version 4) UUIDs.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate returns a fresh random id.
// Panics if the system randomness source fails.
func (UUIDGenerator) Generate() ir.NodeID {
	return ir.NodeIDFromUUID(uuid.Must(uuid.NewRandom()))
}

// Allocator hands out ids from a generator and refuses any id it has
// already handed out or been told about via Reserve.
//
// Thread-safety: Allocator is safe for concurrent use.
type Allocator struct {
	mu   sync.Mutex
	gen  IDGenerator
	used map[ir.NodeID]struct{}
}

// NewAllocator wraps gen. NilID is reserved from the start.
func NewAllocator(gen IDGenerator) *Allocator {
	return &Allocator{
		gen:  gen,
		used: map[ir.NodeID]struct{}{ir.NilID: {}},
	}
}

// Reserve marks ids chosen outside the allocator, such as an output id
// supplied by the caller or the ids of records already in a network.
func (a *Allocator) Reserve(ids ...ir.NodeID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, id := range ids {
		a.used[id] = struct{}{}
	}
}

// ReserveNodes reserves every id mentioned by nodes, addresses and
// references alike.
func (a *Allocator) ReserveNodes(nodes []ir.Node) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, n := range nodes {
		a.used[n.Addr] = struct{}{}
		for _, r := range n.Kind.Refs() {
			a.used[r] = struct{}{}
		}
	}
}

// Next returns a fresh id or a *CollisionError.
func (a *Allocator) Next() (ir.NodeID, error) {
	id := a.gen.Generate()

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, taken := a.used[id]; taken {
		return ir.NilID, &CollisionError{ID: id}
	}
	a.used[id] = struct{}{}
	return id, nil
}
