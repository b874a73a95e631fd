// Package identity allocates temporary identifiers for entities created
// locally before the server confirms them.
//
// Server-issued ids are opaque UUIDs. Temporary ids carry the reserved
// "temp-" prefix, which is not a valid UUID form, so the two id spaces
// can never collide. A temporary id lives only until the creating
// mutation resolves, at which point board.Substitute rewrites it to the
// confirmed id everywhere it appears.
package identity

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Kind tags a temporary id with the entity class it was minted for.
type Kind string

const (
	KindBoard  Kind = "board"
	KindColumn Kind = "column"
	KindCard   Kind = "card"
	KindLabel  Kind = "label"
)

// tempPrefix is the reserved marker distinguishing client-minted ids
// from server UUIDs.
const tempPrefix = "temp-"

// Generator mints temporary ids. Implemented by Allocator (production)
// and SequenceGenerator (deterministic, for tests and golden files).
type Generator interface {
	NewTempID(kind Kind) string
}

// Allocator mints process-unique temporary ids from the wall clock plus
// a monotonic counter. The counter disambiguates ids minted within the
// same millisecond.
type Allocator struct {
	counter atomic.Int64
}

// NewAllocator creates an Allocator.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// NewTempID returns a fresh temporary id for the given kind, e.g.
// "temp-card-1714070400123-7". Safe for concurrent use.
func (a *Allocator) NewTempID(kind Kind) string {
	n := a.counter.Add(1)
	return fmt.Sprintf("%s%s-%d-%d", tempPrefix, kind, time.Now().UnixMilli(), n)
}

// SequenceGenerator mints predictable ids ("temp-card-1", "temp-card-2",
// ...) for deterministic tests and golden snapshots.
type SequenceGenerator struct {
	counter atomic.Int64
}

// NewSequenceGenerator creates a SequenceGenerator starting at 1.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

// NewTempID returns the next id in the fixed sequence for the kind.
func (g *SequenceGenerator) NewTempID(kind Kind) string {
	n := g.counter.Add(1)
	return fmt.Sprintf("%s%s-%d", tempPrefix, kind, n)
}

// IsTempID reports whether the id is a client-minted temporary id.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempPrefix)
}
