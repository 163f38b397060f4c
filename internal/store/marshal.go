package store

import (
	"fmt"

	"github.com/roach88/inet/internal/ir"
)

// nodeColumns flattens a record into its addr, tag, ref0 and ref1 columns.
// Unused ports are stored as the empty string.
func nodeColumns(n ir.Node) (addr, tag, ref0, ref1 string) {
	refs := [2]string{}
	for i, r := range n.Kind.Refs() {
		refs[i] = r.String()
	}
	return n.Addr.String(), n.Kind.Tag.String(), refs[0], refs[1]
}

// scanNode is the inverse of nodeColumns.
func scanNode(addr, tag, ref0, ref1 string) (ir.Node, error) {
	id, err := ir.ParseNodeID(addr)
	if err != nil {
		return ir.Node{}, fmt.Errorf("scan node: %w", err)
	}
	t, err := ir.ParseKindTag(tag)
	if err != nil {
		return ir.Node{}, fmt.Errorf("scan node: %w", err)
	}

	kind := ir.Kind{Tag: t}
	for i, ref := range []string{ref0, ref1} {
		if i >= t.Arity() {
			if ref != "" {
				return ir.Node{}, fmt.Errorf("scan node: %s has no port %d", t, i)
			}
			continue
		}
		if kind.Ports[i], err = ir.ParseNodeID(ref); err != nil {
			return ir.Node{}, fmt.Errorf("scan node: %w", err)
		}
	}
	return ir.At(id, kind), nil
}
