// Package backend provides the SQLite-backed reference server store for
// boardflow trees.
//
// The schema mirrors the client tree: boards own columns and labels,
// columns own cards, and card_labels joins cards to labels. Sibling
// order is a REAL position column; readers always ORDER BY position so
// snapshots come back in display order. Deletes cascade through foreign
// keys, so removing a board, column, card, or label also removes its
// dependents and assignments in one statement.
//
// All ids are server-issued UUIDs; the store never sees a client's
// temporary ids.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package backend
