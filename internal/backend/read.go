package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/boardflow/internal/board"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// OwnerOf returns the owner id of a board, for authorization checks.
// Returns ErrNoSuchEntity for an unknown board.
func (s *Store) OwnerOf(ctx context.Context, boardID string) (string, error) {
	var owner string
	err := s.db.QueryRowContext(ctx, `
		SELECT owner_id FROM boards WHERE id = ?
	`, boardID).Scan(&owner)
	if err != nil {
		if isNoRows(err) {
			return "", fmt.Errorf("board %s: %w", boardID, ErrNoSuchEntity)
		}
		return "", fmt.Errorf("owner of board: %w", err)
	}
	return owner, nil
}

// BoardOfColumn resolves the board a column belongs to.
func (s *Store) BoardOfColumn(ctx context.Context, columnID string) (string, error) {
	return s.scanID(ctx, "column", columnID, `
		SELECT board_id FROM columns WHERE id = ?
	`)
}

// BoardOfCard resolves the board a card belongs to.
func (s *Store) BoardOfCard(ctx context.Context, cardID string) (string, error) {
	return s.scanID(ctx, "card", cardID, `
		SELECT c.board_id FROM columns c JOIN cards k ON k.column_id = c.id WHERE k.id = ?
	`)
}

// BoardOfLabel resolves the board a label belongs to.
func (s *Store) BoardOfLabel(ctx context.Context, labelID string) (string, error) {
	return s.scanID(ctx, "label", labelID, `
		SELECT board_id FROM labels WHERE id = ?
	`)
}

func (s *Store) scanID(ctx context.Context, kind, id, query string) (string, error) {
	var out string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&out)
	if err != nil {
		if isNoRows(err) {
			return "", fmt.Errorf("%s %s: %w", kind, id, ErrNoSuchEntity)
		}
		return "", fmt.Errorf("board of %s: %w", kind, err)
	}
	return out, nil
}

// BoardsForUser loads every board owned by the user as a full tree:
// columns and cards ordered by position, labels and assignments attached.
// This is the snapshot shape pushed to subscribed clients.
func (s *Store) BoardsForUser(ctx context.Context, userID string) ([]board.Board, error) {
	boards, err := s.boardRows(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range boards {
		if err := s.fillBoard(ctx, &boards[i]); err != nil {
			return nil, err
		}
	}

	return boards, nil
}

// BoardByID loads one board as a full tree.
// Returns ErrNoSuchEntity for an unknown board.
func (s *Store) BoardByID(ctx context.Context, boardID string) (board.Board, error) {
	var b board.Board
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, owner_id FROM boards WHERE id = ?
	`, boardID).Scan(&b.ID, &b.Name, &b.OwnerID)
	if err != nil {
		if isNoRows(err) {
			return board.Board{}, fmt.Errorf("board %s: %w", boardID, ErrNoSuchEntity)
		}
		return board.Board{}, fmt.Errorf("board by id: %w", err)
	}
	if err := s.fillBoard(ctx, &b); err != nil {
		return board.Board{}, err
	}
	return b, nil
}

func (s *Store) boardRows(ctx context.Context, userID string) ([]board.Board, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, owner_id FROM boards WHERE owner_id = ? ORDER BY name, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("boards for user: %w", err)
	}
	defer rows.Close()

	var boards []board.Board
	for rows.Next() {
		var b board.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.OwnerID); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("boards for user: %w", err)
	}
	return boards, nil
}

// fillBoard attaches columns, cards, labels, and assignments to a board
// whose id/name/owner are already populated.
func (s *Store) fillBoard(ctx context.Context, b *board.Board) error {
	labels, err := s.labelRows(ctx, b.ID)
	if err != nil {
		return err
	}
	b.Labels = labels

	labelByID := make(map[string]board.Label, len(labels))
	for _, l := range labels {
		labelByID[l.ID] = l
	}

	assignments, err := s.assignmentRows(ctx, b.ID)
	if err != nil {
		return err
	}

	columns, err := s.columnRows(ctx, b.ID)
	if err != nil {
		return err
	}
	for i := range columns {
		cards, err := s.cardRows(ctx, columns[i].ID)
		if err != nil {
			return err
		}
		for j := range cards {
			cards[j].Labels = []board.CardLabel{}
			for _, labelID := range assignments[cards[j].ID] {
				l, ok := labelByID[labelID]
				if !ok {
					continue
				}
				cards[j].Labels = append(cards[j].Labels, board.CardLabel{
					CardID: cards[j].ID,
					Label:  l,
				})
			}
		}
		columns[i].Cards = cards
	}
	b.Columns = columns
	return nil
}

func (s *Store) columnRows(ctx context.Context, boardID string) ([]board.Column, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, position FROM columns
		WHERE board_id = ? ORDER BY position, id
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("columns for board: %w", err)
	}
	defer rows.Close()

	columns := []board.Column{}
	for rows.Next() {
		var c board.Column
		if err := rows.Scan(&c.ID, &c.Name, &c.Position); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

func (s *Store) cardRows(ctx context.Context, columnID string) ([]board.Card, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, due_date, position FROM cards
		WHERE column_id = ? ORDER BY position, id
	`, columnID)
	if err != nil {
		return nil, fmt.Errorf("cards for column: %w", err)
	}
	defer rows.Close()

	cards := []board.Card{}
	for rows.Next() {
		var c board.Card
		var due sql.NullString
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &due, &c.Position); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		if due.Valid {
			t, err := time.Parse(time.RFC3339Nano, due.String)
			if err != nil {
				return nil, fmt.Errorf("parse due date of card %s: %w", c.ID, err)
			}
			c.DueDate = &t
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (s *Store) labelRows(ctx context.Context, boardID string) ([]board.Label, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, color FROM labels
		WHERE board_id = ? ORDER BY name, id
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("labels for board: %w", err)
	}
	defer rows.Close()

	labels := []board.Label{}
	for rows.Next() {
		var l board.Label
		if err := rows.Scan(&l.ID, &l.Name, &l.Color); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}

// assignmentRows maps card id to its assigned label ids, for one board.
func (s *Store) assignmentRows(ctx context.Context, boardID string) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cl.card_id, cl.label_id
		FROM card_labels cl
		JOIN labels l ON l.id = cl.label_id
		WHERE l.board_id = ?
		ORDER BY cl.card_id, cl.label_id
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("assignments for board: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]string)
	for rows.Next() {
		var cardID, labelID string
		if err := rows.Scan(&cardID, &labelID); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out[cardID] = append(out[cardID], labelID)
	}
	return out, rows.Err()
}
