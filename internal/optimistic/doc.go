// Package optimistic coordinates user-initiated writes against the
// board tree and the remote store.
//
// ARCHITECTURE:
//
// Two-phase writes:
// Every operation applies its board transition synchronously - the new
// tree is observable before any network round trip - then issues the
// corresponding remote mutation. On success the only finalization step
// is identity substitution for creations; no other optimistic field is
// overwritten from the response, so edits made while the call was in
// flight survive. On failure the exact inverse transition restores the
// pre-optimistic state for that one entity and the failure surfaces
// through the Notifier.
//
// Serialization:
// The Coordinator owns the active tree behind a mutex. UI handlers and
// network-response callbacks each take the lock for the duration of one
// transition, so transitions apply in the order actions occur and no
// two writers interleave mid-edit. Remote calls happen outside the
// lock; responses may complete out of order, which is safe because
// finalization only ever targets its own operation's temporary id.
//
// Subscription pushes:
// ApplySnapshot merges an authoritative snapshot into the local tree
// by id (board.MergeSnapshot), retaining entities whose creations are
// still pending. Reorders are best-effort: a partial persistence
// failure is reported once and the next snapshot corrects divergence.
package optimistic
