package ir

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// NodeID is a 128-bit wire identifier.
//
// The zero value (NilID) is never produced by a generator and is used to mark
// an unused passive port.
type NodeID [16]byte

// NilID is the unused-port marker.
var NilID NodeID

// NodeIDFromUUID converts a UUID into a NodeID.
func NodeIDFromUUID(u uuid.UUID) NodeID {
	return NodeID(u)
}

// ParseNodeID parses the hyphenated UUID form produced by String.
func ParseNodeID(s string) (NodeID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilID, fmt.Errorf("parse node id %q: %w", s, err)
	}
	return NodeID(u), nil
}

// String renders the id as a hyphenated UUID.
func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// Short renders the last 8 hex digits, enough to tell ids apart in logs.
func (id NodeID) Short() string {
	s := id.String()
	return s[len(s)-8:]
}

// IsNil reports whether id is the unused-port marker.
func (id NodeID) IsNil() bool {
	return id == NilID
}

// Compare orders ids bytewise.
func (id NodeID) Compare(other NodeID) int {
	return bytes.Compare(id[:], other[:])
}

// MarshalText implements encoding.TextMarshaler.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *NodeID) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Node is one record of a network: the kind found at the end of the active
// wire that terminates at Addr.
type Node struct {
	Addr NodeID `json:"addr"`
	Kind Kind   `json:"kind"`
}

// At builds a record of kind k addressed at addr.
func At(addr NodeID, k Kind) Node {
	return Node{Addr: addr, Kind: k}
}

// Readdress returns the same kind at a different address.
func (n Node) Readdress(addr NodeID) Node {
	return Node{Addr: addr, Kind: n.Kind}
}

// String renders the record as "KIND(refs)@addr".
func (n Node) String() string {
	return fmt.Sprintf("%s@%s", n.Kind, n.Addr.Short())
}

// Compare defines the total order on records: address, then tag, then the
// passive references in port order.
func (n Node) Compare(other Node) int {
	if c := n.Addr.Compare(other.Addr); c != 0 {
		return c
	}
	return n.Kind.Compare(other.Kind)
}
