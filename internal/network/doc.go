// Package network holds the multiset representation of an interaction net,
// the builders for unary naturals and addition problems, and the decoder
// that reads a natural back out of a reduced network.
//
// A Network maps each record to a signed multiplicity. A record is live iff
// its multiplicity is positive. Wires are NodeIDs looked up by address, so
// inserting or removing a record never has to patch a pointer graph.
package network
