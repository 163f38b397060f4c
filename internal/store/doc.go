// Package store provides the SQLite-backed edit journal.
//
// The journal is an append-only audit log of committed revisions:
//   - revisions: number, batch hash, normal form hash, passes, live units
//   - ops: the insert/remove ops of each batch, in batch order
//   - deltas: the settled change of the normal form, in record order
//
// The journal never holds a full network. Replaying the ops from revision 0
// rebuilds every source network, and the normal form hashes let a replay
// check that it re-derived the same normal forms.
//
// # Ordering
//
// Reads are ordered by revision number, then by op or delta index. Wall
// clock time is never stored.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
