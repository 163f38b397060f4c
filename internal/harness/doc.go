// Package harness runs addition scenarios against the rewrite engine.
//
// A scenario builds n1 + n2, reduces it, applies a list of operand edits as
// revisions, and checks the decoded value after each one.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	add: { left: 3, right: 4 }
//	expect: 7
//	malformed:
//	  - { addr: 5, kind: ZERO }
//	steps:
//	  - edit: decrement_left
//	    expect: 6
//	assertions:
//	  - type: rule_count
//	    rule: successor_adder
//	    count: 5
//
// Record ids in malformed entries are sequential id numbers: the output id
// is 1, the left operand takes the next n1+1 ids from its ZERO upward, then
// the right operand.
//
// # Assertion Types
//
//   - rule_count: a rule fired exactly count times over all revisions
//   - anomaly_count: the last revision has exactly count malformed addresses
//   - live_count: the last normal form holds exactly count live records
//   - revision_count: exactly count revisions were committed
//
// # Deterministic Testing
//
// Every run uses a fresh testutil.SequentialIDs generator, so the same
// scenario always produces byte-identical records and golden snapshots.
package harness
