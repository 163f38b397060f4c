package engine

import (
	"fmt"

	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/network"
)

// OpType distinguishes inserts from removes.
type OpType int

const (
	// OpInsert adds one copy of a record.
	OpInsert OpType = iota + 1
	// OpRemove retracts one live copy of a record.
	OpRemove
)

func (t OpType) String() string {
	switch t {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	default:
		return fmt.Sprintf("OpType(%d)", int(t))
	}
}

// ParseOpType is the inverse of OpType.String.
func ParseOpType(s string) (OpType, error) {
	switch s {
	case "insert":
		return OpInsert, nil
	case "remove":
		return OpRemove, nil
	default:
		return 0, fmt.Errorf("unknown edit op %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t OpType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Op is one edit of the source network.
type Op struct {
	Type OpType  `json:"op"`
	Node ir.Node `json:"node"`
}

// Insert returns an insert op.
func Insert(n ir.Node) Op { return Op{Type: OpInsert, Node: n} }

// Remove returns a remove op.
func Remove(n ir.Node) Op { return Op{Type: OpRemove, Node: n} }

// Batch is an ordered list of ops applied as a unit.
type Batch []Op

// Hash returns the content hash of the batch.
func (b Batch) Hash() (string, error) {
	ops := make([]string, len(b))
	nodes := make([]ir.Node, len(b))
	for i, op := range b {
		ops[i] = op.Type.String()
		nodes[i] = op.Node
	}
	return ir.BatchHash(ops, nodes)
}

// applyBatch applies b to a copy of source and returns the copy.
//
// Removes are checked in batch order: each must target a record live at that
// point. After the last op no address touched by the batch may hold more than
// two live units. The source network is never modified.
func applyBatch(source *network.Network, b Batch) (*network.Network, error) {
	next := source.Clone()
	touched := make(map[ir.NodeID]bool)

	for i, op := range b {
		if !op.Node.Kind.Valid() {
			return nil, newEditError(i, op, "record has an invalid kind")
		}
		switch op.Type {
		case OpInsert:
			next.Insert(op.Node)
		case OpRemove:
			if !next.Live(op.Node) {
				return nil, newEditError(i, op, "remove of a record that is not live")
			}
			next.Remove(op.Node)
		default:
			return nil, newEditError(i, op, fmt.Sprintf("unknown op %s", op.Type))
		}
		touched[op.Node.Addr] = true
	}

	for i, op := range b {
		if !touched[op.Node.Addr] {
			continue
		}
		delete(touched, op.Node.Addr)

		var units int64
		for _, e := range next.LiveAt(op.Node.Addr) {
			units += e.Multiplicity
		}
		if units > 2 {
			return nil, newEditError(i, op, fmt.Sprintf("address would hold %d live records", units))
		}
	}

	return next, nil
}

// Decrement returns the batch that lowers c by one, and the chain after it.
//
// The ZERO record and the SUCCESSOR that references it are removed and a new
// ZERO takes the address of the removed SUCCESSOR, the address the next
// record up the chain (or the adder, for a chain of one) refers to.
func Decrement(c network.Chain) (Batch, network.Chain, error) {
	if c.Value() < 1 {
		return nil, c, fmt.Errorf("decrement: chain already encodes 0")
	}

	zero, first := c.Nodes[0], c.Nodes[1]
	moved := ir.At(first.Addr, ir.ZeroKind())

	nodes := make([]ir.Node, 0, len(c.Nodes)-1)
	nodes = append(nodes, moved)
	nodes = append(nodes, c.Nodes[2:]...)

	batch := Batch{Remove(zero), Remove(first), Insert(moved)}
	return batch, network.Chain{Head: c.Head, Nodes: nodes}, nil
}

// Increment returns the batch that raises c by one, and the chain after it.
//
// The ZERO at X is replaced by SUCCESSOR(new) at X and a ZERO at a fresh id
// new, so every existing reference to X stays valid.
func Increment(alloc *network.Allocator, c network.Chain) (Batch, network.Chain, error) {
	if len(c.Nodes) == 0 {
		return nil, c, fmt.Errorf("increment: empty chain")
	}

	zero := c.Zero()
	fresh, err := alloc.Next()
	if err != nil {
		return nil, c, fmt.Errorf("increment: %w", err)
	}
	succ := ir.At(zero.Addr, ir.SuccessorKind(fresh))
	newZero := ir.At(fresh, ir.ZeroKind())

	nodes := make([]ir.Node, 0, len(c.Nodes)+1)
	nodes = append(nodes, newZero, succ)
	nodes = append(nodes, c.Nodes[1:]...)

	batch := Batch{Remove(zero), Insert(succ), Insert(newZero)}
	return batch, network.Chain{Head: c.Head, Nodes: nodes}, nil
}
