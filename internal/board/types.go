package board

import "time"

// Board is the root of the entity tree: an ordered list of columns plus
// the board-level label set shared by every card on the board.
type Board struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	OwnerID string   `json:"owner_id,omitempty"`
	Columns []Column `json:"columns"`
	Labels  []Label  `json:"labels"`
}

// Column is a named, ordered list of cards within a board.
// Position is the numeric sort key among sibling columns.
type Column struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position float64 `json:"position"`
	Cards    []Card  `json:"cards"`
}

// Card is a unit of work belonging to exactly one column at a time.
// Position orders it among the cards of its column.
type Card struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	Position    float64     `json:"position"`
	Labels      []CardLabel `json:"card_labels"`
}

// Label is a named, colored tag owned by a board and shared across its
// cards via CardLabel assignments.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CardLabel associates one card with one label. It is a fixed two-field
// record: the owning card's id and the referenced label value. The label
// reference must resolve to an entry in the board's label set; during an
// optimistic window it may carry a temporary label id, never permanently.
type CardLabel struct {
	CardID string `json:"card_id"`
	Label  Label  `json:"label"`
}

// CardPatch is a partial update to a card's fields. Nil fields are left
// untouched. ColumnID is only meaningful to persistence (a move); the
// in-memory move is expressed through MoveCard.
type CardPatch struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	ClearDueDate bool       `json:"clear_due_date,omitempty"`
	Position     *float64   `json:"position,omitempty"`
	ColumnID     *string    `json:"column_id,omitempty"`
}

// ColumnPatch is a partial update to a column's fields. Nil fields are
// left untouched.
type ColumnPatch struct {
	Name     *string  `json:"name,omitempty"`
	Position *float64 `json:"position,omitempty"`
}

// Clone returns a deep copy of the tree. The copy shares no slices with
// the original, so mutating one can never be observed through the other.
func (b Board) Clone() Board {
	out := b
	if b.Columns != nil {
		out.Columns = make([]Column, len(b.Columns))
		for i, col := range b.Columns {
			out.Columns[i] = col.Clone()
		}
	}
	if b.Labels != nil {
		out.Labels = make([]Label, len(b.Labels))
		copy(out.Labels, b.Labels)
	}
	return out
}

// Clone returns a deep copy of the column and its cards.
func (c Column) Clone() Column {
	out := c
	if c.Cards != nil {
		out.Cards = make([]Card, len(c.Cards))
		for i, card := range c.Cards {
			out.Cards[i] = card.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the card and its label assignments.
func (c Card) Clone() Card {
	out := c
	if c.DueDate != nil {
		due := *c.DueDate
		out.DueDate = &due
	}
	if c.Labels != nil {
		out.Labels = make([]CardLabel, len(c.Labels))
		copy(out.Labels, c.Labels)
	}
	return out
}

// FindColumn returns the index of the column with the given id, or -1.
func (b Board) FindColumn(columnID string) int {
	for i := range b.Columns {
		if b.Columns[i].ID == columnID {
			return i
		}
	}
	return -1
}

// FindCard returns the (column index, card index) of the card with the
// given id, searching every column. Returns (-1, -1) if absent.
func (b Board) FindCard(cardID string) (int, int) {
	for i := range b.Columns {
		for j := range b.Columns[i].Cards {
			if b.Columns[i].Cards[j].ID == cardID {
				return i, j
			}
		}
	}
	return -1, -1
}

// FindLabel returns the index of the board label with the given id, or -1.
func (b Board) FindLabel(labelID string) int {
	for i := range b.Labels {
		if b.Labels[i].ID == labelID {
			return i
		}
	}
	return -1
}

// findCardIn returns the index of the card within a specific column, or -1.
func findCardIn(col Column, cardID string) int {
	for i := range col.Cards {
		if col.Cards[i].ID == cardID {
			return i
		}
	}
	return -1
}
