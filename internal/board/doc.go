// Package board implements the in-memory board tree and its pure
// state-transition operations.
//
// The tree is the single shared piece of board state: one Board owning
// ordered Columns, each owning ordered Cards, plus a board-level Label
// set referenced by per-card label assignments.
//
// ARCHITECTURE:
//
// Functional core:
// Every operation takes the previous tree by value and returns a new
// tree. Inputs are never mutated - operations deep-copy before editing,
// so rendering consumers can rely on simple equality-based change
// detection and the coordinator can retain prior trees for rollback.
//
// Failure model:
// An operation that references an id absent from the tree returns the
// input tree unchanged together with a NotFoundError. Operations never
// panic and never leave the tree partially edited.
//
// Identity:
// Entities created before server confirmation carry temporary ids
// (see package identity). Substitute rewrites a temporary id to its
// confirmed counterpart everywhere it appears, including nested label
// references inside card assignments, and is an idempotent no-op once
// the temporary id is gone.
package board
