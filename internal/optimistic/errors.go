package optimistic

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnauthenticated reports that an operation requiring a current-user
// identity was attempted with none available. The operation is never
// issued remotely.
var ErrUnauthenticated = errors.New("no authenticated user")

// RemoteError reports that an asynchronous remote mutation rejected.
// The optimistic transition for the operation has already been reversed
// by the time callers observe it.
type RemoteError struct {
	// Op names the failed operation, e.g. "create card".
	Op string

	// ID is the entity the operation targeted (temporary id for
	// creations).
	ID string

	// Err is the transport or server error.
	Err error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.ID, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *RemoteError) Unwrap() error { return e.Err }

// IsRemoteFailure returns true if the error is a RemoteError.
// Uses errors.As to handle wrapped errors.
func IsRemoteFailure(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

// PartialReorderError collects the per-entity failures of a reorder's
// sequential persistence calls. The in-memory reorder is not rolled
// back; the subscription feed eventually corrects any divergence.
type PartialReorderError struct {
	// Failed maps entity id to the error its persistence call produced.
	Failed map[string]error
}

// Error implements the error interface.
func (e *PartialReorderError) Error() string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id)
	}
	return fmt.Sprintf("reorder persisted partially: %d write(s) failed (%s)",
		len(e.Failed), strings.Join(ids, ", "))
}

// IsPartialReorder returns true if the error is a PartialReorderError.
func IsPartialReorder(err error) bool {
	var pe *PartialReorderError
	return errors.As(err, &pe)
}
