// Package ir provides the node model shared by every other inet package.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// A network is a set of records (address, kind). The address is the NodeID
// at which the record's active port terminates, so two records sharing an
// address form an active pair. The kind carries the passive ports as NodeID
// references to other addresses; wires are ids, never pointers.
//
// Key design constraints:
//   - Node is comparable and used directly as a multiset key
//   - Records have a total order (see Compare) for deterministic output
//   - Rules never mint ids; they reuse the redex address or a referenced id
package ir
