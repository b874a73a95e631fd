package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitute_CardID(t *testing.T) {
	tree := testTree()
	next, err := InsertCard(tree, "c1", testCard("temp-card-1", 3000))
	require.NoError(t, err)

	next = Substitute(next, "temp-card-1", "real-42")

	assert.Equal(t, []string{"a", "b", "real-42"}, cardIDs(next, "c1"))
	assertIDAbsent(t, next, "temp-card-1")
}

func TestSubstitute_LabelID_IncludingNestedAssignments(t *testing.T) {
	tree := testTree()
	temp := Label{ID: "temp-label-1", Name: "new", Color: "#000"}

	next, err := InsertLabel(tree, temp)
	require.NoError(t, err)
	next, err = AssignLabel(next, "a", temp)
	require.NoError(t, err)
	next, err = AssignLabel(next, "c", temp)
	require.NoError(t, err)

	next = Substitute(next, "temp-label-1", "real-7")

	assert.Equal(t, "real-7", next.Labels[1].ID)
	for _, col := range next.Columns {
		for _, card := range col.Cards {
			for _, cl := range card.Labels {
				assert.NotEqual(t, "temp-label-1", cl.Label.ID,
					"nested assignment on card %q must be rewritten", card.ID)
			}
		}
	}
	assertIDAbsent(t, next, "temp-label-1")
}

func TestSubstitute_ColumnAndBoardID(t *testing.T) {
	tree := testTree()
	tree.ID = "temp-board-1"
	next, err := InsertColumn(tree, testColumn("temp-column-1", 3000))
	require.NoError(t, err)

	next = Substitute(next, "temp-column-1", "col-real")
	next = Substitute(next, "temp-board-1", "board-real")

	assert.Equal(t, "board-real", next.ID)
	assert.Equal(t, "col-real", next.Columns[2].ID)
}

func TestSubstitute_CardLabelOwnerID(t *testing.T) {
	tree := testTree()
	card := testCard("temp-card-9", 3000)
	card.Labels = []CardLabel{{CardID: "temp-card-9", Label: tree.Labels[0]}}
	next, err := InsertCard(tree, "c2", card)
	require.NoError(t, err)

	next = Substitute(next, "temp-card-9", "real-9")

	i := next.FindColumn("c2")
	got := next.Columns[i].Cards[1]
	assert.Equal(t, "real-9", got.ID)
	assert.Equal(t, "real-9", got.Labels[0].CardID, "assignment owner id must follow the card")
}

func TestSubstitute_Idempotent(t *testing.T) {
	tree := testTree()
	next, err := InsertCard(tree, "c1", testCard("temp-card-1", 3000))
	require.NoError(t, err)

	once := Substitute(next, "temp-card-1", "real-42")
	twice := Substitute(once, "temp-card-1", "real-42")

	assert.Equal(t, once, twice, "substituting an absent temp id must be a no-op")
}

func TestSubstitute_DropsTempWhenConfirmedAlreadyPresent(t *testing.T) {
	// A snapshot delivered the confirmed card before finalization ran:
	// both the temp and the real id are in the tree.
	tree := testTree()
	next, err := InsertCard(tree, "c1", testCard("real-42", 3000))
	require.NoError(t, err)
	next, err = InsertCard(next, "c1", testCard("temp-card-1", 4000))
	require.NoError(t, err)

	next = Substitute(next, "temp-card-1", "real-42")

	assert.Equal(t, []string{"a", "b", "real-42"}, cardIDs(next, "c1"),
		"the temp entity is dropped, never duplicated")
	assertIDAbsent(t, next, "temp-card-1")
}

func TestSubstitute_AbsentIDLeavesTreeEqual(t *testing.T) {
	tree := testTree()

	next := Substitute(tree, "temp-card-ghost", "real-1")
	assert.Equal(t, tree, next)
}

// assertIDAbsent walks every identifier field in the tree.
func assertIDAbsent(t *testing.T, tree Board, id string) {
	t.Helper()
	assert.NotEqual(t, id, tree.ID)
	for _, col := range tree.Columns {
		assert.NotEqual(t, id, col.ID)
		for _, card := range col.Cards {
			assert.NotEqual(t, id, card.ID)
			for _, cl := range card.Labels {
				assert.NotEqual(t, id, cl.CardID)
				assert.NotEqual(t, id, cl.Label.ID)
			}
		}
	}
	for _, label := range tree.Labels {
		assert.NotEqual(t, id, label.ID)
	}
}
