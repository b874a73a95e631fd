package board

import (
	"github.com/roach88/boardflow/internal/position"
)

// RenameBoard returns a tree with the board name replaced.
func RenameBoard(tree Board, name string) (Board, error) {
	next := tree.Clone()
	next.Name = name
	return next, nil
}

// InsertColumn returns a tree with the column inserted at its
// position-sorted slot among the existing columns. Inserting an id that
// is already present is a no-op, not an error: a subscription snapshot
// may have delivered the confirmed entity before the optimistic insert
// was finalized, and the tree must not grow a duplicate.
func InsertColumn(tree Board, col Column) (Board, error) {
	if tree.FindColumn(col.ID) >= 0 {
		return tree, nil
	}
	next := tree.Clone()
	at := len(next.Columns)
	for i := range next.Columns {
		if next.Columns[i].Position > col.Position {
			at = i
			break
		}
	}
	next.Columns = spliceColumns(next.Columns, at, col.Clone())
	return next, nil
}

// RemoveColumn returns a tree without the named column. The column's
// cards go with it - column ownership is exclusive, so this is the
// in-memory half of the server-side cascade.
func RemoveColumn(tree Board, columnID string) (Board, error) {
	i := tree.FindColumn(columnID)
	if i < 0 {
		return tree, notFound("RemoveColumn", KindColumn, columnID)
	}
	next := tree.Clone()
	next.Columns = append(next.Columns[:i], next.Columns[i+1:]...)
	return next, nil
}

// RenameColumn returns a tree with the column's name replaced.
func RenameColumn(tree Board, columnID, name string) (Board, error) {
	i := tree.FindColumn(columnID)
	if i < 0 {
		return tree, notFound("RenameColumn", KindColumn, columnID)
	}
	next := tree.Clone()
	next.Columns[i].Name = name
	return next, nil
}

// ReorderColumns returns a tree with the columns rearranged into the
// given id order and their positions relabeled densely (1000, 2000, ...)
// regardless of the positions they held before. Ids absent from the tree
// fail the whole operation; columns the order omits keep their relative
// order after the listed ones.
func ReorderColumns(tree Board, orderedIDs []string) (Board, error) {
	next := tree.Clone()

	reordered := make([]Column, 0, len(next.Columns))
	taken := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		i := next.FindColumn(id)
		if i < 0 {
			return tree, notFound("ReorderColumns", KindColumn, id)
		}
		reordered = append(reordered, next.Columns[i])
		taken[id] = true
	}
	for i := range next.Columns {
		if !taken[next.Columns[i].ID] {
			reordered = append(reordered, next.Columns[i])
		}
	}

	for i, pos := range position.Resequence(len(reordered)) {
		reordered[i].Position = pos
	}
	next.Columns = reordered
	return next, nil
}

// InsertCard returns a tree with the card inserted into the named column
// at its position-sorted slot. Ties keep existing cards first, so
// insertion order breaks them. Inserting an id already present anywhere
// in the tree is a no-op (see InsertColumn).
func InsertCard(tree Board, columnID string, card Card) (Board, error) {
	i := tree.FindColumn(columnID)
	if i < 0 {
		return tree, notFound("InsertCard", KindColumn, columnID)
	}
	if ci, _ := tree.FindCard(card.ID); ci >= 0 {
		return tree, nil
	}
	next := tree.Clone()
	col := &next.Columns[i]
	at := len(col.Cards)
	for j := range col.Cards {
		if col.Cards[j].Position > card.Position {
			at = j
			break
		}
	}
	col.Cards = spliceCards(col.Cards, at, card.Clone())
	return next, nil
}

// RemoveCard returns a tree without the named card. The card must live
// in the named column.
func RemoveCard(tree Board, columnID, cardID string) (Board, error) {
	i := tree.FindColumn(columnID)
	if i < 0 {
		return tree, notFound("RemoveCard", KindColumn, columnID)
	}
	j := findCardIn(tree.Columns[i], cardID)
	if j < 0 {
		return tree, notFound("RemoveCard", KindCard, cardID)
	}
	next := tree.Clone()
	col := &next.Columns[i]
	col.Cards = append(col.Cards[:j], col.Cards[j+1:]...)
	return next, nil
}

// UpdateCard returns a tree with the patch's non-nil fields applied to
// the named card. Column ownership is not changed here - moves go
// through MoveCard so both affected lists are relabeled together.
func UpdateCard(tree Board, columnID, cardID string, patch CardPatch) (Board, error) {
	i := tree.FindColumn(columnID)
	if i < 0 {
		return tree, notFound("UpdateCard", KindColumn, columnID)
	}
	j := findCardIn(tree.Columns[i], cardID)
	if j < 0 {
		return tree, notFound("UpdateCard", KindCard, cardID)
	}
	next := tree.Clone()
	card := &next.Columns[i].Cards[j]
	if patch.Title != nil {
		card.Title = *patch.Title
	}
	if patch.Description != nil {
		card.Description = *patch.Description
	}
	if patch.DueDate != nil {
		due := *patch.DueDate
		card.DueDate = &due
	}
	if patch.ClearDueDate {
		card.DueDate = nil
	}
	if patch.Position != nil {
		card.Position = *patch.Position
	}
	return next, nil
}

// MoveCard returns a tree with the card spliced out of the source column
// and into the destination column at destIndex (clamped to the list
// bounds). Source and destination may be the same column. Both affected
// card lists are relabeled densely afterward, so positions stay
// gap-free no matter how often cards are dropped at the same spot.
func MoveCard(tree Board, fromColumnID, toColumnID, cardID string, destIndex int) (Board, error) {
	from := tree.FindColumn(fromColumnID)
	if from < 0 {
		return tree, notFound("MoveCard", KindColumn, fromColumnID)
	}
	to := tree.FindColumn(toColumnID)
	if to < 0 {
		return tree, notFound("MoveCard", KindColumn, toColumnID)
	}
	j := findCardIn(tree.Columns[from], cardID)
	if j < 0 {
		return tree, notFound("MoveCard", KindCard, cardID)
	}

	next := tree.Clone()
	src := &next.Columns[from]
	card := src.Cards[j]
	src.Cards = append(src.Cards[:j], src.Cards[j+1:]...)

	dst := &next.Columns[to]
	if destIndex < 0 {
		destIndex = 0
	}
	if destIndex > len(dst.Cards) {
		destIndex = len(dst.Cards)
	}
	dst.Cards = spliceCards(dst.Cards, destIndex, card)

	for i, pos := range position.Resequence(len(src.Cards)) {
		src.Cards[i].Position = pos
	}
	for i, pos := range position.Resequence(len(dst.Cards)) {
		dst.Cards[i].Position = pos
	}
	return next, nil
}

// InsertLabel returns a tree with the label appended to the board's
// label set. Inserting an id already present is a no-op.
func InsertLabel(tree Board, label Label) (Board, error) {
	if tree.FindLabel(label.ID) >= 0 {
		return tree, nil
	}
	next := tree.Clone()
	next.Labels = append(next.Labels, label)
	return next, nil
}

// RemoveLabel returns a tree without the named label and without every
// assignment referencing it, across every card in every column - one
// atomic in-memory transition mirroring the server-side cascade.
func RemoveLabel(tree Board, labelID string) (Board, error) {
	i := tree.FindLabel(labelID)
	if i < 0 {
		return tree, notFound("RemoveLabel", KindLabel, labelID)
	}
	next := tree.Clone()
	next.Labels = append(next.Labels[:i], next.Labels[i+1:]...)
	for ci := range next.Columns {
		for cj := range next.Columns[ci].Cards {
			card := &next.Columns[ci].Cards[cj]
			kept := card.Labels[:0]
			for _, cl := range card.Labels {
				if cl.Label.ID != labelID {
					kept = append(kept, cl)
				}
			}
			card.Labels = kept
		}
	}
	return next, nil
}

// AssignLabel returns a tree with the label assigned to the named card.
// The label value is carried on the assignment itself; during an
// optimistic window it may hold a temporary id that Substitute rewrites
// later. Assigning a label the card already carries is a no-op.
func AssignLabel(tree Board, cardID string, label Label) (Board, error) {
	ci, cj := tree.FindCard(cardID)
	if ci < 0 {
		return tree, notFound("AssignLabel", KindCard, cardID)
	}
	for _, cl := range tree.Columns[ci].Cards[cj].Labels {
		if cl.Label.ID == label.ID {
			return tree, nil
		}
	}
	next := tree.Clone()
	card := &next.Columns[ci].Cards[cj]
	card.Labels = append(card.Labels, CardLabel{CardID: cardID, Label: label})
	return next, nil
}

// UnassignLabel returns a tree with the named label removed from the
// named card's assignments.
func UnassignLabel(tree Board, cardID, labelID string) (Board, error) {
	ci, cj := tree.FindCard(cardID)
	if ci < 0 {
		return tree, notFound("UnassignLabel", KindCard, cardID)
	}
	at := -1
	for i, cl := range tree.Columns[ci].Cards[cj].Labels {
		if cl.Label.ID == labelID {
			at = i
			break
		}
	}
	if at < 0 {
		return tree, notFound("UnassignLabel", KindLabel, labelID)
	}
	next := tree.Clone()
	card := &next.Columns[ci].Cards[cj]
	card.Labels = append(card.Labels[:at], card.Labels[at+1:]...)
	return next, nil
}

// spliceCards inserts a card at index, shifting the tail right.
func spliceCards(cards []Card, at int, card Card) []Card {
	cards = append(cards, Card{})
	copy(cards[at+1:], cards[at:])
	cards[at] = card
	return cards
}

// spliceColumns inserts a column at index, shifting the tail right.
func spliceColumns(cols []Column, at int, col Column) []Column {
	cols = append(cols, Column{})
	copy(cols[at+1:], cols[at:])
	cols[at] = col
	return cols
}
