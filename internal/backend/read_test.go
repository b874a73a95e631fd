package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/boardflow/internal/board"
)

func TestBoardsForUser_FullTree(t *testing.T) {
	s := createTestStore(t)
	ids := seedBoard(t, s)
	ctx := context.Background()

	boards, err := s.BoardsForUser(ctx, ids.owner)
	if err != nil {
		t.Fatalf("BoardsForUser() failed: %v", err)
	}
	if len(boards) != 1 {
		t.Fatalf("boards = %d, want 1", len(boards))
	}

	b := boards[0]
	if b.ID != ids.board || b.OwnerID != ids.owner {
		t.Errorf("board identity = %q/%q, want %q/%q", b.ID, b.OwnerID, ids.board, ids.owner)
	}
	if len(b.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(b.Columns))
	}
	if b.Columns[0].ID != ids.colTodo || b.Columns[1].ID != ids.colDone {
		t.Errorf("column order = [%s %s], want position order [todo done]",
			b.Columns[0].ID, b.Columns[1].ID)
	}
	if got := b.Columns[0].Cards; len(got) != 2 || got[0].ID != ids.cardA || got[1].ID != ids.cardB {
		t.Errorf("todo cards = %+v, want [a b] in position order", got)
	}
	if len(b.Labels) != 1 || b.Labels[0].ID != ids.label {
		t.Errorf("labels = %+v, want the seeded label", b.Labels)
	}

	cardA := b.Columns[0].Cards[0]
	if len(cardA.Labels) != 1 {
		t.Fatalf("card a assignments = %d, want 1", len(cardA.Labels))
	}
	if cardA.Labels[0].CardID != ids.cardA || cardA.Labels[0].Label.ID != ids.label {
		t.Errorf("assignment = %+v, want card %s label %s", cardA.Labels[0], ids.cardA, ids.label)
	}
	if cardA.Labels[0].Label.Name != "urgent" || cardA.Labels[0].Label.Color != "#ff0000" {
		t.Errorf("assignment carries stale label fields: %+v", cardA.Labels[0].Label)
	}
}

func TestBoardsForUser_OrderFollowsPosition(t *testing.T) {
	s := createTestStore(t)
	ids := seedBoard(t, s)
	ctx := context.Background()

	// Swap the columns by rewriting positions.
	pos := 500.0
	if err := s.UpdateColumn(ctx, ids.colDone, board.ColumnPatch{Position: &pos}); err != nil {
		t.Fatalf("UpdateColumn() failed: %v", err)
	}

	boards, err := s.BoardsForUser(ctx, ids.owner)
	if err != nil {
		t.Fatalf("BoardsForUser() failed: %v", err)
	}
	if boards[0].Columns[0].ID != ids.colDone {
		t.Errorf("first column = %s, want repositioned done column", boards[0].Columns[0].ID)
	}
}

func TestBoardsForUser_NoBoards(t *testing.T) {
	s := createTestStore(t)
	owner := seedUser(t, s, "empty@example.com")

	boards, err := s.BoardsForUser(context.Background(), owner)
	if err != nil {
		t.Fatalf("BoardsForUser() failed: %v", err)
	}
	if len(boards) != 0 {
		t.Errorf("boards = %+v, want none", boards)
	}
}

func TestBoardsForUser_ScopedToOwner(t *testing.T) {
	s := createTestStore(t)
	ids := seedBoard(t, s)
	other := seedUser(t, s, "other@example.com")
	if _, err := s.CreateBoard(context.Background(), "theirs", other); err != nil {
		t.Fatalf("CreateBoard() failed: %v", err)
	}

	boards, err := s.BoardsForUser(context.Background(), ids.owner)
	if err != nil {
		t.Fatalf("BoardsForUser() failed: %v", err)
	}
	if len(boards) != 1 || boards[0].ID != ids.board {
		t.Errorf("boards = %+v, want only the caller's board", boards)
	}
}

func TestOwnerOf(t *testing.T) {
	s := createTestStore(t)
	ids := seedBoard(t, s)

	owner, err := s.OwnerOf(context.Background(), ids.board)
	if err != nil {
		t.Fatalf("OwnerOf() failed: %v", err)
	}
	if owner != ids.owner {
		t.Errorf("owner = %q, want %q", owner, ids.owner)
	}

	_, err = s.OwnerOf(context.Background(), "ghost")
	if !errors.Is(err, ErrNoSuchEntity) {
		t.Errorf("unknown board should return ErrNoSuchEntity, got %v", err)
	}
}
