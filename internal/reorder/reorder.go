// Package reorder translates drag-and-drop gestures into board
// operations. A gesture is a kind-agnostic tuple - source container,
// source index, destination container, destination index, entity kind -
// so the protocol carries no dependency on any particular input device
// or UI library; the view layer reduces whatever its drag library emits
// to a Gesture before calling in.
package reorder

import (
	"context"
	"fmt"

	"github.com/roach88/boardflow/internal/optimistic"
)

// Kind discriminates what is being dragged.
type Kind string

const (
	// KindColumn reorders columns within the board.
	KindColumn Kind = "column"
	// KindCard moves a card within or across columns.
	KindCard Kind = "card"
)

// Gesture describes a completed drag-and-drop. For column drags the
// containers are the board itself and may be left empty; for card drags
// they are the source and destination column ids.
type Gesture struct {
	Kind            Kind
	SourceContainer string
	SourceIndex     int
	DestContainer   string
	DestIndex       int
}

// Handler interprets gestures against a coordinator.
type Handler struct {
	Coordinator *optimistic.Coordinator
}

// Drop applies a completed gesture: splice the dragged entity out of
// its source slot, reinsert at the destination slot, relabel positions
// densely, and persist the result through the coordinator. A drop onto
// the slot it came from is a no-op. Gestures naming unknown containers
// or out-of-range indexes are no-ops as well - the tree may have
// changed under a stale gesture, which is not an error worth surfacing.
func (h Handler) Drop(ctx context.Context, g Gesture) error {
	switch g.Kind {
	case KindColumn:
		return h.dropColumn(ctx, g)
	case KindCard:
		return h.dropCard(ctx, g)
	default:
		return fmt.Errorf("unknown drag kind %q", g.Kind)
	}
}

func (h Handler) dropColumn(ctx context.Context, g Gesture) error {
	if g.SourceIndex == g.DestIndex {
		return nil
	}
	tree, ok := h.Coordinator.Tree()
	if !ok {
		return nil
	}
	if g.SourceIndex < 0 || g.SourceIndex >= len(tree.Columns) {
		return nil
	}

	ids := make([]string, 0, len(tree.Columns))
	for _, col := range tree.Columns {
		ids = append(ids, col.ID)
	}
	ids = splice(ids, g.SourceIndex, g.DestIndex)

	return h.Coordinator.ReorderColumns(ctx, ids)
}

func (h Handler) dropCard(ctx context.Context, g Gesture) error {
	if g.SourceContainer == g.DestContainer && g.SourceIndex == g.DestIndex {
		return nil
	}
	tree, ok := h.Coordinator.Tree()
	if !ok {
		return nil
	}
	src := tree.FindColumn(g.SourceContainer)
	if src < 0 || tree.FindColumn(g.DestContainer) < 0 {
		return nil
	}
	if g.SourceIndex < 0 || g.SourceIndex >= len(tree.Columns[src].Cards) {
		return nil
	}
	cardID := tree.Columns[src].Cards[g.SourceIndex].ID

	return h.Coordinator.MoveCard(ctx, g.SourceContainer, g.DestContainer, cardID, g.DestIndex)
}

// splice removes the element at from and reinserts it at to, shifting
// everything between.
func splice(ids []string, from, to int) []string {
	id := ids[from]
	ids = append(ids[:from], ids[from+1:]...)
	if to < 0 {
		to = 0
	}
	if to > len(ids) {
		to = len(ids)
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:to]...)
	out = append(out, id)
	out = append(out, ids[to:]...)
	return out
}
