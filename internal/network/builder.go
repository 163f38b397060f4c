package network

import (
	"fmt"

	"github.com/roach88/inet/internal/ir"
)

// Chain is a unary natural: Nodes[0] is the ZERO record and Nodes[i] is a
// SUCCESSOR referencing the address of Nodes[i-1]. Head is the address of
// the last record, the outermost increment.
type Chain struct {
	Head  ir.NodeID
	Nodes []ir.Node
}

// Value is the number the chain encodes.
func (c Chain) Value() int {
	return len(c.Nodes) - 1
}

// Zero returns the ZERO record at the bottom of the chain.
func (c Chain) Zero() ir.Node {
	return c.Nodes[0]
}

// ConstructNat builds the chain for n: one ZERO at a fresh id followed by n
// SUCCESSOR records, each at a fresh id and referencing the previous one.
func ConstructNat(alloc *Allocator, n int) (Chain, error) {
	if n < 0 {
		return Chain{}, fmt.Errorf("construct nat: negative value %d", n)
	}

	prev, err := alloc.Next()
	if err != nil {
		return Chain{}, fmt.Errorf("construct nat: %w", err)
	}
	nodes := make([]ir.Node, 0, n+1)
	nodes = append(nodes, ir.At(prev, ir.ZeroKind()))

	for i := 0; i < n; i++ {
		id, err := alloc.Next()
		if err != nil {
			return Chain{}, fmt.Errorf("construct nat: %w", err)
		}
		nodes = append(nodes, ir.At(id, ir.SuccessorKind(prev)))
		prev = id
	}

	return Chain{Head: prev, Nodes: nodes}, nil
}

// AddProblem is the initial network for left + right.
type AddProblem struct {
	Left   Chain
	Right  Chain
	Adder  ir.Node
	Output ir.NodeID
}

// Nodes returns every record of the problem: left chain, right chain, adder.
func (p AddProblem) Nodes() []ir.Node {
	nodes := make([]ir.Node, 0, len(p.Left.Nodes)+len(p.Right.Nodes)+1)
	nodes = append(nodes, p.Left.Nodes...)
	nodes = append(nodes, p.Right.Nodes...)
	return append(nodes, p.Adder)
}

// ConstructAdd builds both chains and ADDER(right head, out) addressed at
// the left head, so the adder's active port meets the left operand.
//
// out is reserved with the allocator so no chain record can take it.
func ConstructAdd(alloc *Allocator, n1, n2 int, out ir.NodeID) (AddProblem, error) {
	alloc.Reserve(out)

	left, err := ConstructNat(alloc, n1)
	if err != nil {
		return AddProblem{}, fmt.Errorf("construct add left: %w", err)
	}
	right, err := ConstructNat(alloc, n2)
	if err != nil {
		return AddProblem{}, fmt.Errorf("construct add right: %w", err)
	}

	return AddProblem{
		Left:   left,
		Right:  right,
		Adder:  ir.At(left.Head, ir.AdderKind(right.Head, out)),
		Output: out,
	}, nil
}
