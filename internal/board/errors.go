package board

import (
	"errors"
	"fmt"
)

// EntityKind names the entity class an operation failed to resolve.
type EntityKind string

const (
	KindBoard  EntityKind = "board"
	KindColumn EntityKind = "column"
	KindCard   EntityKind = "card"
	KindLabel  EntityKind = "label"
)

// NotFoundError reports that a state-transition operation referenced an
// id absent from the tree. The operation is a no-op: callers receive the
// input tree unchanged and decide whether to surface the condition.
type NotFoundError struct {
	// Kind identifies the entity class that could not be resolved.
	Kind EntityKind

	// ID is the identifier that did not resolve.
	ID string

	// Op names the operation that failed, for diagnostics.
	Op string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %q not found", e.Op, e.Kind, e.ID)
}

// IsNotFound returns true if the error is a NotFoundError.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// notFound builds a NotFoundError for the given operation and target.
func notFound(op string, kind EntityKind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id, Op: op}
}
