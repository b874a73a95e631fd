package board

import (
	"github.com/roach88/boardflow/internal/identity"
)

// MergeSnapshot reconciles the local tree with an authoritative server
// snapshot of the same board.
//
// Policy: the snapshot wins for everything it knows about - confirmed
// entities, field values, ordering. Entities the snapshot has not seen
// yet (local ids still carrying the temporary prefix) are retained from
// the local tree at their optimistic slots, so a push racing a pending
// creation never drops the entity nor duplicates it once the creation
// later resolves. Local temporary entities whose parent vanished from
// the snapshot are dropped with it.
func MergeSnapshot(local, snapshot Board) Board {
	merged := snapshot.Clone()

	for _, label := range local.Labels {
		if !identity.IsTempID(label.ID) {
			continue
		}
		merged, _ = InsertLabel(merged, label)
	}

	for _, col := range local.Columns {
		if !identity.IsTempID(col.ID) {
			continue
		}
		merged, _ = InsertColumn(merged, col)
	}

	for _, col := range local.Columns {
		for _, card := range col.Cards {
			if !identity.IsTempID(card.ID) {
				continue
			}
			// InsertCard no-ops on a duplicate id; a NotFoundError
			// means the owning column is gone server-side and the
			// pending card goes with it.
			merged, _ = InsertCard(merged, col.ID, card)
		}
	}

	// Optimistic assignments of not-yet-confirmed labels live on cards
	// the snapshot may have replaced; re-add them.
	for _, col := range local.Columns {
		for _, card := range col.Cards {
			for _, cl := range card.Labels {
				if !identity.IsTempID(cl.Label.ID) {
					continue
				}
				merged, _ = AssignLabel(merged, card.ID, cl.Label)
			}
		}
	}

	return merged
}
