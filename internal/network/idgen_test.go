package network

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/testutil"
)

func TestUUIDGeneratorUnique(t *testing.T) {
	var g UUIDGenerator
	seen := make(map[ir.NodeID]bool)
	for i := 0; i < 1000; i++ {
		id := g.Generate()
		assert.False(t, id.IsNil())
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestAllocatorRejectsNil(t *testing.T) {
	alloc := NewAllocator(&nilGenerator{})
	_, err := alloc.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIDCollision))
}

func TestAllocatorReserveNodes(t *testing.T) {
	alloc := NewAllocator(testutil.NewSequentialIDs())
	alloc.ReserveNodes([]ir.Node{ir.At(testutil.ID(3), ir.SuccessorKind(testutil.ID(2)))})

	_, err := alloc.Next() // 1
	require.NoError(t, err)
	_, err = alloc.Next() // 2 is referenced
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIDCollision))
}

func TestAllocatorNextUnique(t *testing.T) {
	alloc := NewAllocator(UUIDGenerator{})
	for i := 0; i < 100; i++ {
		_, err := alloc.Next()
		require.NoError(t, err)
	}
}

type nilGenerator struct{}

func (*nilGenerator) Generate() ir.NodeID { return ir.NilID }
