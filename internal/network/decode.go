package network

import (
	"fmt"

	"github.com/roach88/inet/internal/ir"
)

// Decode reads the natural number whose outermost record sits at from.
//
// Starting at from, each step looks up the single live record at the
// current address: SUCCESSOR adds one and moves to its Next reference, ZERO
// ends the walk. Anything else, a missing or shared address, or a revisited
// address is a *DecodeError.
func Decode(n *Network, from ir.NodeID) (uint64, error) {
	index := make(map[ir.NodeID][]ir.Node)
	for _, node := range n.Nodes() {
		index[node.Addr] = append(index[node.Addr], node)
	}

	var count uint64
	seen := make(map[ir.NodeID]bool)
	addr := from
	for {
		if seen[addr] {
			return 0, &DecodeError{Addr: addr, Reason: "cycle"}
		}
		seen[addr] = true

		records := index[addr]
		switch {
		case len(records) == 0:
			return 0, &DecodeError{Addr: addr, Reason: "no live record"}
		case len(records) > 1:
			return 0, &DecodeError{Addr: addr, Reason: fmt.Sprintf("%d records share the address", len(records))}
		case n.Multiplicity(records[0]) > 1:
			return 0, &DecodeError{Addr: addr, Reason: "record is live more than once"}
		}

		switch k := records[0].Kind; k.Tag {
		case ir.TagZero:
			return count, nil
		case ir.TagSuccessor:
			count++
			addr = k.Next()
		default:
			return 0, &DecodeError{Addr: addr, Reason: fmt.Sprintf("unexpected %s", k.Tag)}
		}
	}
}
