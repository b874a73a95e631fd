package optimistic

import "github.com/roach88/boardflow/internal/board"

// inversePatch builds the patch that restores the prior values of
// exactly the fields the given patch touches. Column ownership is not
// inverted here - in-memory moves go through MoveCard, which has its
// own persistence plan.
func inversePatch(prior board.Card, patch board.CardPatch) board.CardPatch {
	var inv board.CardPatch
	if patch.Title != nil {
		t := prior.Title
		inv.Title = &t
	}
	if patch.Description != nil {
		d := prior.Description
		inv.Description = &d
	}
	if patch.DueDate != nil || patch.ClearDueDate {
		if prior.DueDate != nil {
			due := *prior.DueDate
			inv.DueDate = &due
		} else {
			inv.ClearDueDate = true
		}
	}
	if patch.Position != nil {
		p := prior.Position
		inv.Position = &p
	}
	return inv
}
