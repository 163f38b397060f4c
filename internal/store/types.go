package store

import (
	"github.com/roach88/inet/internal/ir"
	"github.com/roach88/inet/internal/network"
)

// Op is one journaled edit op.
type Op struct {
	// Op is "insert" or "remove".
	Op   string
	Node ir.Node
}

// RevisionRecord is one committed revision as stored in the journal.
type RevisionRecord struct {
	Number     int64
	BatchHash  string
	NormalHash string
	Passes     int
	Live       int64

	EngineVersion string
	IRVersion     string

	Ops    []Op
	Deltas []network.Delta
}
