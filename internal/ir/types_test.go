package ir

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(b byte) NodeID {
	var n NodeID
	n[15] = b
	return n
}

func TestNodeIDRoundTripsThroughString(t *testing.T) {
	u := uuid.New()
	n := NodeIDFromUUID(u)

	parsed, err := ParseNodeID(n.String())
	require.NoError(t, err)
	assert.Equal(t, n, parsed)
	assert.Equal(t, u.String(), n.String())
}

func TestParseNodeIDRejectsGarbage(t *testing.T) {
	_, err := ParseNodeID("not-an-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse node id")
}

func TestNodeIDShort(t *testing.T) {
	assert.Equal(t, "00000007", id(7).Short())
}

func TestNilID(t *testing.T) {
	assert.True(t, NilID.IsNil())
	assert.False(t, id(1).IsNil())
}

func TestNodeIDJSONUsesTextForm(t *testing.T) {
	data, err := json.Marshal(id(1))
	require.NoError(t, err)
	assert.Equal(t, `"00000000-0000-0000-0000-000000000001"`, string(data))

	var back NodeID
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, id(1), back)
}

func TestKindArity(t *testing.T) {
	tests := []struct {
		kind  Kind
		arity int
	}{
		{ZeroKind(), 0},
		{SuccessorKind(id(1)), 1},
		{AdderKind(id(1), id(2)), 2},
		{ForwarderKind(id(1)), 1},
	}
	for _, tt := range tests {
		t.Run(tt.kind.Tag.String(), func(t *testing.T) {
			assert.Equal(t, tt.arity, tt.kind.Tag.Arity())
			assert.Len(t, tt.kind.Refs(), tt.arity)
			assert.True(t, tt.kind.Valid())
		})
	}
}

func TestKindPortAccessors(t *testing.T) {
	add := AdderKind(id(1), id(2))
	assert.Equal(t, id(1), add.Left())
	assert.Equal(t, id(2), add.Out())
	assert.Equal(t, id(3), SuccessorKind(id(3)).Next())
	assert.Equal(t, id(4), ForwarderKind(id(4)).Target())
}

func TestKindValidRejectsStrayPorts(t *testing.T) {
	k := Kind{Tag: TagZero, Ports: [2]NodeID{id(1)}}
	assert.False(t, k.Valid())
	assert.False(t, Kind{Tag: 9}.Valid())
}

func TestKindIsComparable(t *testing.T) {
	assert.True(t, SuccessorKind(id(1)) == SuccessorKind(id(1)))
	assert.False(t, SuccessorKind(id(1)) == ForwarderKind(id(1)))
}

func TestParseKindTag(t *testing.T) {
	for _, tag := range Tags {
		got, err := ParseKindTag(tag.String())
		require.NoError(t, err)
		assert.Equal(t, tag, got)
	}
	got, err := ParseKindTag("adder")
	require.NoError(t, err)
	assert.Equal(t, TagAdder, got)

	_, err = ParseKindTag("DUPLICATOR")
	require.Error(t, err)
}

func TestNodeCompareIsTotal(t *testing.T) {
	a := At(id(1), ZeroKind())
	b := At(id(1), SuccessorKind(id(2)))
	c := At(id(2), ZeroKind())

	assert.Negative(t, a.Compare(b), "same address orders by tag")
	assert.Negative(t, b.Compare(c), "address dominates tag")
	assert.Zero(t, a.Compare(a))
	assert.Positive(t, c.Compare(a))
}

func TestNodeReaddressKeepsKind(t *testing.T) {
	n := At(id(1), AdderKind(id(2), id(3)))
	moved := n.Readdress(id(9))
	assert.Equal(t, id(9), moved.Addr)
	assert.Equal(t, n.Kind, moved.Kind)
}

func TestNodeString(t *testing.T) {
	n := At(id(1), AdderKind(id(2), id(3)))
	assert.Equal(t, "ADDER(00000002,00000003)@00000001", n.String())
	assert.Equal(t, "ZERO@00000005", At(id(5), ZeroKind()).String())
}
