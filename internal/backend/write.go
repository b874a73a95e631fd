package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/boardflow/internal/board"
)

// CreateUser inserts a user and returns the issued id.
// The email must be unique; a duplicate surfaces as a constraint error.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (string, error) {
	id := uuid.NewString()
	_, err := s.exec(ctx, "create user", `
		INSERT INTO users (id, email, password_hash)
		VALUES (?, ?, ?)
	`, id, email, passwordHash)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UserByEmail looks up a user's id and password hash for login.
// Returns ErrNoSuchEntity when the email is unknown.
func (s *Store) UserByEmail(ctx context.Context, email string) (id, passwordHash string, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM users WHERE email = ?
	`, email).Scan(&id, &passwordHash)
	if err != nil {
		if isNoRows(err) {
			return "", "", fmt.Errorf("user %s: %w", email, ErrNoSuchEntity)
		}
		return "", "", fmt.Errorf("user by email: %w", err)
	}
	return id, passwordHash, nil
}

// CreateBoard inserts a board owned by the given user and returns its id.
func (s *Store) CreateBoard(ctx context.Context, name, ownerID string) (string, error) {
	id := uuid.NewString()
	_, err := s.exec(ctx, "create board", `
		INSERT INTO boards (id, name, owner_id) VALUES (?, ?, ?)
	`, id, name, ownerID)
	if err != nil {
		return "", err
	}
	return id, nil
}

// RenameBoard updates a board's name.
func (s *Store) RenameBoard(ctx context.Context, id, name string) error {
	res, err := s.exec(ctx, "rename board", `
		UPDATE boards SET name = ? WHERE id = ?
	`, name, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "rename board", id)
}

// DeleteBoard removes a board. Columns, cards, labels, and assignments
// cascade with it.
func (s *Store) DeleteBoard(ctx context.Context, id string) error {
	res, err := s.exec(ctx, "delete board", `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "delete board", id)
}

// CreateColumn inserts a column into a board and returns its id.
func (s *Store) CreateColumn(ctx context.Context, boardID, name string, pos float64) (string, error) {
	id := uuid.NewString()
	_, err := s.exec(ctx, "create column", `
		INSERT INTO columns (id, board_id, name, position) VALUES (?, ?, ?, ?)
	`, id, boardID, name, pos)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateColumn applies a partial column update. An empty patch is a no-op.
func (s *Store) UpdateColumn(ctx context.Context, id string, patch board.ColumnPatch) error {
	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *patch.Position)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := s.exec(ctx, "update column",
		"UPDATE columns SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return err
	}
	return mustAffect(res, "update column", id)
}

// DeleteColumn removes a column and, via cascade, its cards.
func (s *Store) DeleteColumn(ctx context.Context, id string) error {
	res, err := s.exec(ctx, "delete column", `DELETE FROM columns WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "delete column", id)
}

// CreateCard inserts a card into a column and returns its id.
func (s *Store) CreateCard(ctx context.Context, columnID, title string, pos float64) (string, error) {
	id := uuid.NewString()
	_, err := s.exec(ctx, "create card", `
		INSERT INTO cards (id, column_id, title, position) VALUES (?, ?, ?, ?)
	`, id, columnID, title, pos)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateCard applies a partial card update, including moves to another
// column (ColumnID) and due-date removal (ClearDueDate). An empty patch
// is a no-op.
func (s *Store) UpdateCard(ctx context.Context, id string, patch board.CardPatch) error {
	var sets []string
	var args []any
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, patch.DueDate.UTC().Format(time.RFC3339Nano))
	} else if patch.ClearDueDate {
		sets = append(sets, "due_date = NULL")
	}
	if patch.Position != nil {
		sets = append(sets, "position = ?")
		args = append(args, *patch.Position)
	}
	if patch.ColumnID != nil {
		sets = append(sets, "column_id = ?")
		args = append(args, *patch.ColumnID)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := s.exec(ctx, "update card",
		"UPDATE cards SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return err
	}
	return mustAffect(res, "update card", id)
}

// DeleteCard removes a card and, via cascade, its label assignments.
func (s *Store) DeleteCard(ctx context.Context, id string) error {
	res, err := s.exec(ctx, "delete card", `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "delete card", id)
}

// CreateLabel inserts a board-scoped label and returns its id.
func (s *Store) CreateLabel(ctx context.Context, boardID, name, color string) (string, error) {
	id := uuid.NewString()
	_, err := s.exec(ctx, "create label", `
		INSERT INTO labels (id, board_id, name, color) VALUES (?, ?, ?, ?)
	`, id, boardID, name, color)
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteLabel removes a label and, via cascade, every assignment of it.
func (s *Store) DeleteLabel(ctx context.Context, id string) error {
	res, err := s.exec(ctx, "delete label", `DELETE FROM labels WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, "delete label", id)
}

// AssignLabel attaches a label to a card.
// Uses ON CONFLICT DO NOTHING for idempotency - assigning an already
// attached label is silently ignored.
func (s *Store) AssignLabel(ctx context.Context, cardID, labelID string) error {
	_, err := s.exec(ctx, "assign label", `
		INSERT INTO card_labels (card_id, label_id) VALUES (?, ?)
		ON CONFLICT(card_id, label_id) DO NOTHING
	`, cardID, labelID)
	return err
}

// UnassignLabel detaches a label from a card.
// Returns ErrNoSuchEntity when the assignment does not exist.
func (s *Store) UnassignLabel(ctx context.Context, cardID, labelID string) error {
	res, err := s.exec(ctx, "unassign label", `
		DELETE FROM card_labels WHERE card_id = ? AND label_id = ?
	`, cardID, labelID)
	if err != nil {
		return err
	}
	return mustAffect(res, "unassign label", fmt.Sprintf("%s/%s", cardID, labelID))
}
