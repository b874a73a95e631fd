package board

// Fixture builders shared across this package's tests.

func testCard(id string, pos float64) Card {
	return Card{ID: id, Title: "card " + id, Position: pos, Labels: []CardLabel{}}
}

func testColumn(id string, pos float64, cards ...Card) Column {
	if cards == nil {
		cards = []Card{}
	}
	return Column{ID: id, Name: "column " + id, Position: pos, Cards: cards}
}

// testTree builds a small two-column board:
//
//	c1: [a(1000), b(2000)]
//	c2: [c(1000)]
//
// with one label "urgent" assigned to card a.
func testTree() Board {
	urgent := Label{ID: "l1", Name: "urgent", Color: "#ef4444"}
	a := testCard("a", 1000)
	a.Labels = []CardLabel{{CardID: "a", Label: urgent}}
	return Board{
		ID:   "b1",
		Name: "test board",
		Columns: []Column{
			testColumn("c1", 1000, a, testCard("b", 2000)),
			testColumn("c2", 2000, testCard("c", 1000)),
		},
		Labels: []Label{urgent},
	}
}
