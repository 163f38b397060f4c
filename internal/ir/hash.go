package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes. The version suffix allows the
// encoding to change without colliding with old hashes.
const (
	DomainNetwork = "inet/network/v1"
	DomainBatch   = "inet/batch/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Entry is a record with its multiplicity, the unit a network hash covers.
type Entry struct {
	Node         Node
	Multiplicity int64
}

// NetworkHash hashes entries that are already in canonical record order.
// Two multisets hash equal iff they hold the same records with the same
// multiplicities.
func NetworkHash(entries []Entry) (string, error) {
	arr := make([]any, len(entries))
	for i, e := range entries {
		arr[i] = map[string]any{"node": e.Node, "mult": e.Multiplicity}
	}
	canonical, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("NetworkHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainNetwork, canonical), nil
}

// BatchHash hashes an edit batch given as (op, record) pairs in batch order.
func BatchHash(ops []string, nodes []Node) (string, error) {
	if len(ops) != len(nodes) {
		return "", fmt.Errorf("BatchHash: %d ops for %d records", len(ops), len(nodes))
	}
	arr := make([]any, len(ops))
	for i := range ops {
		arr[i] = map[string]any{"op": ops[i], "node": nodes[i]}
	}
	canonical, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("BatchHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainBatch, canonical), nil
}
