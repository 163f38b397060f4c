package engine

import "github.com/roach88/inet/internal/ir"

// Rule rewrites one active pair.
//
// Apply receives the redex address and the two records ordered so that
// first.Kind.Tag <= second.Kind.Tag (ties broken by record order). It returns
// the replacement records. Rules never generate ids: Reuses names the ids each
// emitted record is addressed at or refers to.
type Rule struct {
	Name   string
	Reuses string
	Apply  func(key ir.NodeID, first, second ir.Node) []ir.Node
}

// Rule names, also used as metric labels.
const (
	RuleSuccessorAdder     = "successor_adder"
	RuleZeroAdder          = "zero_adder"
	RuleForwarder          = "forwarder"
	RuleForwarderForwarder = "forwarder_forwarder"
)

// pairKey is an unordered pair of tags stored with lo <= hi.
type pairKey struct {
	lo, hi ir.KindTag
}

func keyOf(x, y ir.KindTag) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{lo: x, hi: y}
}

var (
	successorAdder = &Rule{
		Name:   RuleSuccessorAdder,
		Reuses: "key, successor.next (s), adder.out (r)",
		// SUCCESSOR(s) + ADDER(l,r) @key -> SUCCESSOR(key) @r, ADDER(l,key) @s
		Apply: func(key ir.NodeID, succ, add ir.Node) []ir.Node {
			s := succ.Kind.Next()
			l, r := add.Kind.Left(), add.Kind.Out()
			return []ir.Node{
				ir.At(r, ir.SuccessorKind(key)),
				ir.At(s, ir.AdderKind(l, key)),
			}
		},
	}

	zeroAdder = &Rule{
		Name:   RuleZeroAdder,
		Reuses: "adder.left (l), adder.out (r)",
		// ZERO + ADDER(l,r) -> FORWARDER(r) @l
		//
		// The forwarder is placed at l on the assumption that l is the next
		// address to receive an active connection. That holds for the addition
		// encoding, where l is the head of the right operand, and is not a
		// general interaction-net law.
		Apply: func(_ ir.NodeID, _ ir.Node, add ir.Node) []ir.Node {
			return []ir.Node{ir.At(add.Kind.Left(), ir.ForwarderKind(add.Kind.Out()))}
		},
	}

	forwarder = &Rule{
		Name:   RuleForwarder,
		Reuses: "forwarder.target (k)",
		// N + FORWARDER(k) -> N @k
		Apply: func(_ ir.NodeID, n ir.Node, fwd ir.Node) []ir.Node {
			return []ir.Node{n.Readdress(fwd.Kind.Target())}
		},
	}

	forwarderForwarder = &Rule{
		Name:   RuleForwarderForwarder,
		Reuses: "first.target (k)",
		// FORWARDER(k) + FORWARDER(j) -> FORWARDER(j) @k
		// The first forwarder in record order is the one eliminated.
		Apply: func(_ ir.NodeID, first ir.Node, second ir.Node) []ir.Node {
			return []ir.Node{second.Readdress(first.Kind.Target())}
		},
	}
)

// ruleTable maps every reducible unordered pair to its rule. Pairs missing
// from the table are stuck.
var ruleTable = map[pairKey]*Rule{
	keyOf(ir.TagSuccessor, ir.TagAdder):     successorAdder,
	keyOf(ir.TagZero, ir.TagAdder):          zeroAdder,
	keyOf(ir.TagZero, ir.TagForwarder):      forwarder,
	keyOf(ir.TagSuccessor, ir.TagForwarder): forwarder,
	keyOf(ir.TagAdder, ir.TagForwarder):     forwarder,
	keyOf(ir.TagForwarder, ir.TagForwarder): forwarderForwarder,
}

// Lookup returns the rule for the unordered pair (x, y), or nil when the
// pair is stuck.
func Lookup(x, y ir.KindTag) *Rule {
	return ruleTable[keyOf(x, y)]
}

// Rules lists the distinct rules in table order.
func Rules() []*Rule {
	return []*Rule{successorAdder, zeroAdder, forwarder, forwarderForwarder}
}

// rewrite applies the matching rule to a redex. ok is false when the pair is
// stuck.
func rewrite(key ir.NodeID, x, y ir.Node) (out []ir.Node, rule *Rule, ok bool) {
	rule = Lookup(x.Kind.Tag, y.Kind.Tag)
	if rule == nil {
		return nil, nil, false
	}
	first, second := x, y
	if first.Kind.Tag > second.Kind.Tag ||
		(first.Kind.Tag == second.Kind.Tag && first.Compare(second) > 0) {
		first, second = second, first
	}
	return rule.Apply(key, first, second), rule, true
}
