// Package engine implements the inet rewrite engine.
//
// The engine reduces an interaction net for unary addition to normal form and
// keeps that normal form current while the caller edits the source network.
//
// ARCHITECTURE:
//
// Rule Engine (rules.go, pass.go):
// One pass groups every live record by address. An address holding one live
// unit is re-emitted unchanged; an address holding two is a redex and the rule
// keyed by the unordered pair of kinds decides the replacement records; more
// than two is an anomaly and is re-emitted unchanged. Addresses are independent
// units of work and are partitioned across workers.
//
// Fixpoint Driver (fixpoint.go):
// Reduce runs passes until a pass outputs exactly its input.
//
// Incremental Edit Protocol (edit.go, session.go):
// A Session owns the source network and its normal form at the current
// revision. Apply validates a batch of inserts and removes on a copy, commits
// it atomically, advances the revision and re-derives the normal form. The
// delta between the previous and the new normal form is sent to reporters.
//
// Journal and Replay (journal.go, replay.go):
// JournalReporter appends each revision to a store.Store. Replay feeds the
// journaled batches through a fresh Session and compares normal form hashes.
//
// CRITICAL PATTERNS:
//
// Referential stability:
// Rules never mint ids. Every emitted record is addressed at the redex key or
// at an id already referenced by one of the consumed records, so the result of
// a pass does not depend on evaluation order or on how addresses are split
// across workers.
//
// Snapshot isolation:
// Readers of a Session see the state of the last committed revision only. A
// rejected batch leaves no trace.
package engine
