// Package testutil provides shared test doubles for exercising the
// optimistic write path without a network or a database.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/roach88/boardflow/internal/board"
)

// Call records one remote invocation for assertion.
type Call struct {
	// Op is the operation name, e.g. "CreateCard" or "UpdateColumn".
	Op string

	// ID is the entity the call targeted (parent id for creations).
	ID string

	// Args carries operation-specific arguments worth asserting on.
	Args map[string]any
}

// RecordingRemote is a scripted, in-memory implementation of the
// coordinator's remote surface. Every call is recorded in order.
// Failures are scripted per operation name, either one-shot or sticky;
// creations return ids from a queue, falling back to a deterministic
// "srv-N" sequence.
//
// Thread-safety: all methods are safe for concurrent use.
type RecordingRemote struct {
	mu       sync.Mutex
	calls    []Call
	failNext map[string]error
	failAll  map[string]error
	queued   []string
	nextID   int
}

// NewRecordingRemote creates an empty RecordingRemote.
func NewRecordingRemote() *RecordingRemote {
	return &RecordingRemote{
		failNext: make(map[string]error),
		failAll:  make(map[string]error),
	}
}

// FailNext scripts the next call of the named operation to fail.
func (r *RecordingRemote) FailNext(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext[op] = err
}

// FailAll scripts every call of the named operation to fail until
// cleared by a nil error.
func (r *RecordingRemote) FailAll(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failAll, op)
		return
	}
	r.failAll[op] = err
}

// QueueID enqueues the id the next creation call will return.
func (r *RecordingRemote) QueueID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queued = append(r.queued, id)
}

// Calls returns a copy of the recorded calls in invocation order.
func (r *RecordingRemote) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsOf returns the recorded calls of one operation, in order.
func (r *RecordingRemote) CallsOf(op string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// record appends a call and returns the scripted error, if any.
func (r *RecordingRemote) record(op, id string, args map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: op, ID: id, Args: args})
	if err, ok := r.failNext[op]; ok {
		delete(r.failNext, op)
		return err
	}
	return r.failAll[op]
}

// issueID pops a queued id or mints the next "srv-N".
func (r *RecordingRemote) issueID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queued) > 0 {
		id := r.queued[0]
		r.queued = r.queued[1:]
		return id
	}
	r.nextID++
	return fmt.Sprintf("srv-%d", r.nextID)
}

func (r *RecordingRemote) CreateBoard(_ context.Context, name, ownerID string) (string, error) {
	if err := r.record("CreateBoard", "", map[string]any{"name": name, "owner_id": ownerID}); err != nil {
		return "", err
	}
	return r.issueID(), nil
}

func (r *RecordingRemote) UpdateBoard(_ context.Context, id, name string) error {
	return r.record("UpdateBoard", id, map[string]any{"name": name})
}

func (r *RecordingRemote) DeleteBoard(_ context.Context, id string) error {
	return r.record("DeleteBoard", id, nil)
}

func (r *RecordingRemote) CreateColumn(_ context.Context, boardID, name string, pos float64) (string, error) {
	if err := r.record("CreateColumn", boardID, map[string]any{"name": name, "position": pos}); err != nil {
		return "", err
	}
	return r.issueID(), nil
}

func (r *RecordingRemote) UpdateColumn(_ context.Context, id string, patch board.ColumnPatch) error {
	args := map[string]any{}
	if patch.Name != nil {
		args["name"] = *patch.Name
	}
	if patch.Position != nil {
		args["position"] = *patch.Position
	}
	return r.record("UpdateColumn", id, args)
}

func (r *RecordingRemote) DeleteColumn(_ context.Context, id string) error {
	return r.record("DeleteColumn", id, nil)
}

func (r *RecordingRemote) CreateCard(_ context.Context, columnID, title string, pos float64) (string, error) {
	if err := r.record("CreateCard", columnID, map[string]any{"title": title, "position": pos}); err != nil {
		return "", err
	}
	return r.issueID(), nil
}

func (r *RecordingRemote) UpdateCard(_ context.Context, id string, patch board.CardPatch) error {
	args := map[string]any{}
	if patch.Title != nil {
		args["title"] = *patch.Title
	}
	if patch.Description != nil {
		args["description"] = *patch.Description
	}
	if patch.Position != nil {
		args["position"] = *patch.Position
	}
	if patch.ColumnID != nil {
		args["column_id"] = *patch.ColumnID
	}
	if patch.DueDate != nil {
		args["due_date"] = *patch.DueDate
	}
	if patch.ClearDueDate {
		args["clear_due_date"] = true
	}
	return r.record("UpdateCard", id, args)
}

func (r *RecordingRemote) DeleteCard(_ context.Context, id string) error {
	return r.record("DeleteCard", id, nil)
}

func (r *RecordingRemote) CreateLabel(_ context.Context, boardID, name, color string) (string, error) {
	if err := r.record("CreateLabel", boardID, map[string]any{"name": name, "color": color}); err != nil {
		return "", err
	}
	return r.issueID(), nil
}

func (r *RecordingRemote) DeleteLabel(_ context.Context, id string) error {
	return r.record("DeleteLabel", id, nil)
}

func (r *RecordingRemote) AssignLabel(_ context.Context, cardID, labelID string) error {
	return r.record("AssignLabel", cardID, map[string]any{"label_id": labelID})
}

func (r *RecordingRemote) UnassignLabel(_ context.Context, cardID, labelID string) error {
	return r.record("UnassignLabel", cardID, map[string]any{"label_id": labelID})
}
