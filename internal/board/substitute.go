package board

// Substitute returns a tree with every occurrence of tempID rewritten to
// realID: the board id itself, column ids, card ids, board label ids,
// and both fields of card assignments. Called exactly once per confirmed
// creation.
//
// Two degenerate cases keep duplicate finalization harmless:
//   - tempID no longer appears (a snapshot already superseded the
//     optimistic entity): the result equals the input.
//   - realID is already present as an entity id (a snapshot delivered
//     the confirmed entity before finalization ran): the temporary
//     entity is dropped instead of renamed, so the tree never holds the
//     same confirmed id twice.
func Substitute(tree Board, tempID, realID string) Board {
	next := tree.Clone()
	confirmed := idExists(next, realID)

	if next.ID == tempID {
		next.ID = realID
	}

	cols := next.Columns[:0]
	for _, col := range next.Columns {
		if col.ID == tempID {
			if confirmed {
				continue
			}
			col.ID = realID
		}
		col.Cards = substituteCards(col.Cards, tempID, realID, confirmed)
		cols = append(cols, col)
	}
	next.Columns = cols

	labels := next.Labels[:0]
	for _, label := range next.Labels {
		if label.ID == tempID {
			if confirmed {
				continue
			}
			label.ID = realID
		}
		labels = append(labels, label)
	}
	next.Labels = labels

	return next
}

// substituteCards rewrites card ids and nested assignment references,
// dropping a temp card when its confirmed twin is already present and
// deduplicating assignments that collapse onto the same label id.
func substituteCards(cards []Card, tempID, realID string, confirmed bool) []Card {
	out := cards[:0]
	for _, card := range cards {
		if card.ID == tempID {
			if confirmed {
				continue
			}
			card.ID = realID
		}
		seen := make(map[string]bool, len(card.Labels))
		kept := card.Labels[:0]
		for _, cl := range card.Labels {
			if cl.CardID == tempID {
				cl.CardID = realID
			}
			if cl.Label.ID == tempID {
				cl.Label.ID = realID
			}
			if seen[cl.Label.ID] {
				continue
			}
			seen[cl.Label.ID] = true
			kept = append(kept, cl)
		}
		card.Labels = kept
		out = append(out, card)
	}
	return out
}

// idExists reports whether id is present as an entity identifier
// (column, card, or board label) anywhere in the tree.
func idExists(tree Board, id string) bool {
	if tree.ID == id {
		return true
	}
	if tree.FindColumn(id) >= 0 {
		return true
	}
	if ci, _ := tree.FindCard(id); ci >= 0 {
		return true
	}
	return tree.FindLabel(id) >= 0
}
