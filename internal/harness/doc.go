// Package harness provides conformance testing for the optimistic
// board engine.
//
// Scenarios are YAML files describing a session: an optional seed tree,
// a sequence of mutations with scripted remote outcomes, and snapshot
// pushes interleaved between them. The runner drives a real coordinator
// against a recording remote, then the final tree, the remote call
// trace, and the failure notifications are compared against a golden
// file.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	user: user-1
//	seed:
//	  id: B
//	  name: sprint
//	  columns:
//	    - id: C1
//	      name: todo
//	      cards:
//	        - id: a
//	          title: first
//	steps:
//	  - op: create_card
//	    column: C1
//	    title: second
//	  - op: update_card
//	    column: C1
//	    card: a
//	    patch: { title: renamed }
//	    fail: "network down"
//
// Positions are assigned from list order in seeds and snapshots, so
// fixtures never spell them out.
//
// # Deterministic Execution
//
// Temporary ids come from a sequence generator ("temp-card-1", ...) and
// server ids from the recording remote's fixed sequence ("srv-1", ...),
// unless a step queues an explicit id. Identical runs produce identical
// golden output.
package harness
