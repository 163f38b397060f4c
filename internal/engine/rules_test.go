package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inet/internal/ir"
)

func TestLookup_Symmetric(t *testing.T) {
	for _, x := range ir.Tags {
		for _, y := range ir.Tags {
			assert.Same(t, Lookup(x, y), Lookup(y, x), "%s/%s", x, y)
		}
	}
}

func TestLookup_StuckPairs(t *testing.T) {
	stuck := [][2]ir.KindTag{
		{ir.TagZero, ir.TagZero},
		{ir.TagZero, ir.TagSuccessor},
		{ir.TagSuccessor, ir.TagSuccessor},
		{ir.TagAdder, ir.TagAdder},
	}
	for _, p := range stuck {
		assert.Nil(t, Lookup(p[0], p[1]), "%s/%s should be stuck", p[0], p[1])
	}
}

func TestRules_Distinct(t *testing.T) {
	names := map[string]bool{}
	for _, r := range Rules() {
		assert.False(t, names[r.Name], "duplicate rule %s", r.Name)
		names[r.Name] = true
		assert.NotEmpty(t, r.Reuses)
	}
	assert.Len(t, names, 4)
}

func TestRewrite_SuccessorAdder(t *testing.T) {
	// SUCCESSOR(s) + ADDER(l, r) at key
	key, s, l, r := a, b, c, d
	succ := ir.At(key, ir.SuccessorKind(s))
	add := ir.At(key, ir.AdderKind(l, r))

	for _, order := range [][2]ir.Node{{succ, add}, {add, succ}} {
		out, rule, ok := rewrite(key, order[0], order[1])
		require.True(t, ok)
		assert.Equal(t, RuleSuccessorAdder, rule.Name)
		assert.Equal(t, []ir.Node{
			ir.At(r, ir.SuccessorKind(key)),
			ir.At(s, ir.AdderKind(l, key)),
		}, out)
	}
}

func TestRewrite_ZeroAdder(t *testing.T) {
	key, l, r := a, b, c
	out, rule, ok := rewrite(key, ir.At(key, ir.AdderKind(l, r)), ir.At(key, ir.ZeroKind()))
	require.True(t, ok)
	assert.Equal(t, RuleZeroAdder, rule.Name)
	assert.Equal(t, []ir.Node{ir.At(l, ir.ForwarderKind(r))}, out)
}

func TestRewrite_Forwarder(t *testing.T) {
	key, k := a, b
	fwd := ir.At(key, ir.ForwarderKind(k))

	tests := []ir.Kind{
		ir.ZeroKind(),
		ir.SuccessorKind(c),
		ir.AdderKind(c, d),
	}
	for _, kind := range tests {
		t.Run(kind.Tag.String(), func(t *testing.T) {
			out, rule, ok := rewrite(key, fwd, ir.At(key, kind))
			require.True(t, ok)
			assert.Equal(t, RuleForwarder, rule.Name)
			assert.Equal(t, []ir.Node{ir.At(k, kind)}, out)
		})
	}
}

func TestRewrite_ForwarderForwarder(t *testing.T) {
	key := a
	first := ir.At(key, ir.ForwarderKind(b))
	second := ir.At(key, ir.ForwarderKind(c))
	require.Negative(t, first.Compare(second))

	// The first record in order is eliminated, whatever the argument order.
	for _, order := range [][2]ir.Node{{first, second}, {second, first}} {
		out, rule, ok := rewrite(key, order[0], order[1])
		require.True(t, ok)
		assert.Equal(t, RuleForwarderForwarder, rule.Name)
		assert.Equal(t, []ir.Node{ir.At(b, ir.ForwarderKind(c))}, out)
	}
}

func TestRewrite_Stuck(t *testing.T) {
	out, rule, ok := rewrite(a, ir.At(a, ir.ZeroKind()), ir.At(a, ir.SuccessorKind(b)))
	assert.False(t, ok)
	assert.Nil(t, rule)
	assert.Nil(t, out)
}

// Rules address their output only at ids already present in the redex.
func TestRewrite_NoFreshIDs(t *testing.T) {
	pairs := [][2]ir.Node{
		{ir.At(a, ir.SuccessorKind(b)), ir.At(a, ir.AdderKind(c, d))},
		{ir.At(a, ir.ZeroKind()), ir.At(a, ir.AdderKind(c, d))},
		{ir.At(a, ir.SuccessorKind(b)), ir.At(a, ir.ForwarderKind(c))},
		{ir.At(a, ir.ForwarderKind(b)), ir.At(a, ir.ForwarderKind(c))},
	}
	for _, p := range pairs {
		known := map[ir.NodeID]bool{a: true}
		for _, n := range p {
			for _, r := range n.Kind.Refs() {
				known[r] = true
			}
		}

		out, _, ok := rewrite(a, p[0], p[1])
		require.True(t, ok)
		for _, n := range out {
			assert.True(t, known[n.Addr], "%s addressed at a fresh id", n)
			for _, r := range n.Kind.Refs() {
				assert.True(t, known[r], "%s refers to a fresh id", n)
			}
		}
	}
}
