package ir

import (
	"fmt"
	"strings"
)

// KindTag identifies one of the four node kinds.
type KindTag uint8

const (
	// TagZero is the value 0. No passive ports.
	TagZero KindTag = iota + 1
	// TagSuccessor is one increment over whatever is found at its Next port.
	TagSuccessor
	// TagAdder is a pending addition. Passive ports: Left operand, Out target.
	TagAdder
	// TagForwarder is an indirection produced only by rewriting.
	TagForwarder
)

// Tags lists every tag in declaration order.
var Tags = []KindTag{TagZero, TagSuccessor, TagAdder, TagForwarder}

// Arity returns the number of passive ports of the tag.
func (t KindTag) Arity() int {
	switch t {
	case TagSuccessor, TagForwarder:
		return 1
	case TagAdder:
		return 2
	default:
		return 0
	}
}

func (t KindTag) String() string {
	switch t {
	case TagZero:
		return "ZERO"
	case TagSuccessor:
		return "SUCCESSOR"
	case TagAdder:
		return "ADDER"
	case TagForwarder:
		return "FORWARDER"
	default:
		return fmt.Sprintf("KindTag(%d)", uint8(t))
	}
}

// ParseKindTag is the inverse of KindTag.String.
func ParseKindTag(s string) (KindTag, error) {
	for _, t := range Tags {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// Kind is a tagged union over the four node kinds.
//
// Ports holds the passive references in port order; entries beyond the tag's
// arity are always NilID so that Kind stays comparable with ==.
type Kind struct {
	Tag   KindTag   `json:"tag"`
	Ports [2]NodeID `json:"ports"`
}

// ZeroKind returns ZERO.
func ZeroKind() Kind {
	return Kind{Tag: TagZero}
}

// SuccessorKind returns SUCCESSOR(next).
func SuccessorKind(next NodeID) Kind {
	return Kind{Tag: TagSuccessor, Ports: [2]NodeID{next}}
}

// AdderKind returns ADDER(left, out).
func AdderKind(left, out NodeID) Kind {
	return Kind{Tag: TagAdder, Ports: [2]NodeID{left, out}}
}

// ForwarderKind returns FORWARDER(target).
func ForwarderKind(target NodeID) Kind {
	return Kind{Tag: TagForwarder, Ports: [2]NodeID{target}}
}

// Next is the SUCCESSOR port.
func (k Kind) Next() NodeID { return k.Ports[0] }

// Left is the ADDER left operand port.
func (k Kind) Left() NodeID { return k.Ports[0] }

// Out is the ADDER output port.
func (k Kind) Out() NodeID { return k.Ports[1] }

// Target is the FORWARDER port.
func (k Kind) Target() NodeID { return k.Ports[0] }

// Refs returns the passive references actually used by the tag.
func (k Kind) Refs() []NodeID {
	return k.Ports[:k.Tag.Arity()]
}

// Valid reports whether the tag is known and unused ports are NilID.
func (k Kind) Valid() bool {
	arity := k.Tag.Arity()
	if k.Tag < TagZero || k.Tag > TagForwarder {
		return false
	}
	for i := arity; i < len(k.Ports); i++ {
		if !k.Ports[i].IsNil() {
			return false
		}
	}
	return true
}

// Compare orders kinds by tag, then ports.
func (k Kind) Compare(other Kind) int {
	if k.Tag != other.Tag {
		if k.Tag < other.Tag {
			return -1
		}
		return 1
	}
	for i := range k.Ports {
		if c := k.Ports[i].Compare(other.Ports[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (k Kind) String() string {
	refs := k.Refs()
	if len(refs) == 0 {
		return k.Tag.String()
	}
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.Short()
	}
	return fmt.Sprintf("%s(%s)", k.Tag, strings.Join(parts, ","))
}
