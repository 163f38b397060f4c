package network

import (
	"maps"
	"slices"

	"github.com/roach88/inet/internal/ir"
)

// Network is a multiset of records with signed multiplicity.
//
// Entries whose multiplicity returns to zero are dropped, so two networks
// holding the same records with the same multiplicities compare Equal
// regardless of the edits that produced them.
//
// Network is not safe for concurrent mutation. Concurrent readers are fine
// once construction is done.
type Network struct {
	mult map[ir.Node]int64
}

// New returns an empty network.
func New() *Network {
	return &Network{mult: make(map[ir.Node]int64)}
}

// FromNodes returns a network holding each record once per occurrence.
func FromNodes(nodes []ir.Node) *Network {
	n := &Network{mult: make(map[ir.Node]int64, len(nodes))}
	for _, node := range nodes {
		n.Add(node, 1)
	}
	return n
}

// Add changes the multiplicity of node by diff.
func (n *Network) Add(node ir.Node, diff int64) {
	if diff == 0 {
		return
	}
	m := n.mult[node] + diff
	if m == 0 {
		delete(n.mult, node)
		return
	}
	n.mult[node] = m
}

// Insert adds one copy of node.
func (n *Network) Insert(node ir.Node) { n.Add(node, 1) }

// Remove retracts one copy of node.
func (n *Network) Remove(node ir.Node) { n.Add(node, -1) }

// Multiplicity returns the accumulated multiplicity of node.
func (n *Network) Multiplicity(node ir.Node) int64 {
	return n.mult[node]
}

// Live reports whether node has positive multiplicity.
func (n *Network) Live(node ir.Node) bool {
	return n.mult[node] > 0
}

// Len returns the number of distinct records with non-zero multiplicity.
func (n *Network) Len() int {
	return len(n.mult)
}

// LiveUnits sums the positive multiplicities.
func (n *Network) LiveUnits() int64 {
	var total int64
	for _, m := range n.mult {
		if m > 0 {
			total += m
		}
	}
	return total
}

// Clone returns an independent copy.
func (n *Network) Clone() *Network {
	return &Network{mult: maps.Clone(n.mult)}
}

// Equal reports whether both networks hold identical multisets.
func (n *Network) Equal(other *Network) bool {
	if n == nil || other == nil {
		return n == other
	}
	return maps.Equal(n.mult, other.mult)
}

// Entries returns every non-zero entry in canonical record order.
func (n *Network) Entries() []ir.Entry {
	entries := make([]ir.Entry, 0, len(n.mult))
	for node, m := range n.mult {
		entries = append(entries, ir.Entry{Node: node, Multiplicity: m})
	}
	slices.SortFunc(entries, func(a, b ir.Entry) int {
		return a.Node.Compare(b.Node)
	})
	return entries
}

// Nodes returns the live records in canonical order, each listed once.
func (n *Network) Nodes() []ir.Node {
	nodes := make([]ir.Node, 0, len(n.mult))
	for node, m := range n.mult {
		if m > 0 {
			nodes = append(nodes, node)
		}
	}
	slices.SortFunc(nodes, ir.Node.Compare)
	return nodes
}

// LiveAt returns the live entries addressed at addr in canonical order.
func (n *Network) LiveAt(addr ir.NodeID) []ir.Entry {
	var out []ir.Entry
	for node, m := range n.mult {
		if m > 0 && node.Addr == addr {
			out = append(out, ir.Entry{Node: node, Multiplicity: m})
		}
	}
	slices.SortFunc(out, func(a, b ir.Entry) int {
		return a.Node.Compare(b.Node)
	})
	return out
}

// Group is the set of live entries sharing one address.
type Group struct {
	Addr    ir.NodeID
	Entries []ir.Entry
}

// Units sums the multiplicities of the group.
func (g Group) Units() int64 {
	var total int64
	for _, e := range g.Entries {
		total += e.Multiplicity
	}
	return total
}

// Groups partitions the live entries by address. Groups are sorted by
// address and entries within a group by record order. Entries with
// non-positive multiplicity are not part of any group.
func (n *Network) Groups() []Group {
	byAddr := make(map[ir.NodeID][]ir.Entry)
	for node, m := range n.mult {
		if m <= 0 {
			continue
		}
		byAddr[node.Addr] = append(byAddr[node.Addr], ir.Entry{Node: node, Multiplicity: m})
	}

	groups := make([]Group, 0, len(byAddr))
	for addr, entries := range byAddr {
		slices.SortFunc(entries, func(a, b ir.Entry) int {
			return a.Node.Compare(b.Node)
		})
		groups = append(groups, Group{Addr: addr, Entries: entries})
	}
	slices.SortFunc(groups, func(a, b Group) int {
		return a.Addr.Compare(b.Addr)
	})
	return groups
}

// Hash returns the content hash of the multiset.
func (n *Network) Hash() (string, error) {
	return ir.NetworkHash(n.Entries())
}

// Delta is one change of the settled output stream.
type Delta struct {
	Node   ir.Node `json:"node"`
	Change int64   `json:"change"`
}

// Diff returns the per-record multiplicity changes that turn prev into next,
// in canonical record order. A nil prev is treated as empty.
func Diff(prev, next *Network) []Delta {
	changes := make(map[ir.Node]int64)
	if prev != nil {
		for node, m := range prev.mult {
			changes[node] -= m
		}
	}
	if next != nil {
		for node, m := range next.mult {
			changes[node] += m
		}
	}

	deltas := make([]Delta, 0, len(changes))
	for node, c := range changes {
		if c != 0 {
			deltas = append(deltas, Delta{Node: node, Change: c})
		}
	}
	slices.SortFunc(deltas, func(a, b Delta) int {
		return a.Node.Compare(b.Node)
	})
	return deltas
}

// Apply adds every delta to n.
func (n *Network) Apply(deltas []Delta) {
	for _, d := range deltas {
		n.Add(d.Node, d.Change)
	}
}
