package optimistic

import (
	"context"

	"github.com/roach88/boardflow/internal/board"
)

// Remote is the persistence surface the coordinator writes through.
// Implemented by the HTTP client (production) and by scripted fakes in
// tests. Creations return the server-issued id; everything else only
// reports success or failure. Deletes cascade server-side: a board
// takes its columns, cards and labels with it, a column its cards, a
// label every assignment referencing it.
type Remote interface {
	CreateBoard(ctx context.Context, name, ownerID string) (string, error)
	UpdateBoard(ctx context.Context, id, name string) error
	DeleteBoard(ctx context.Context, id string) error

	CreateColumn(ctx context.Context, boardID, name string, position float64) (string, error)
	UpdateColumn(ctx context.Context, id string, patch board.ColumnPatch) error
	DeleteColumn(ctx context.Context, id string) error

	CreateCard(ctx context.Context, columnID, title string, position float64) (string, error)
	UpdateCard(ctx context.Context, id string, patch board.CardPatch) error
	DeleteCard(ctx context.Context, id string) error

	CreateLabel(ctx context.Context, boardID, name, color string) (string, error)
	DeleteLabel(ctx context.Context, id string) error
	AssignLabel(ctx context.Context, cardID, labelID string) error
	UnassignLabel(ctx context.Context, cardID, labelID string) error
}

// Notifier receives the single user-visible, non-blocking notification
// each failed operation produces. Implementations must not block; the
// coordinator calls Notify while holding no locks.
type Notifier interface {
	Notify(op string, err error)
}

// NopNotifier discards notifications. Useful default for tests.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(string, error) {}
