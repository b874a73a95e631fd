package optimistic

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/boardflow/internal/board"
	"github.com/roach88/boardflow/internal/identity"
	"github.com/roach88/boardflow/internal/position"
)

// Coordinator owns the active board tree and runs every user-initiated
// write through the optimistic two-phase protocol: synchronous board
// transition first, remote mutation second, then finalize (identity
// substitution) or rollback (exact inverse transition).
//
// Thread-safety model:
//   - all public methods are safe from any goroutine
//   - the tree is replaced only while holding the mutex, so transitions
//     serialize in the order callers arrive
//   - remote calls run outside the lock; the tree never waits on the
//     network
type Coordinator struct {
	remote Remote
	ids    identity.Generator
	notify Notifier
	logger *slog.Logger

	mu       sync.Mutex
	tree     board.Board
	active   bool
	userID   string
	onChange func(board.Board)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithNotifier sets the sink for user-visible failure notifications.
func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) { c.notify = n }
}

// WithGenerator sets the temporary-id generator. Tests use a
// deterministic sequence generator for stable golden output.
func WithGenerator(g identity.Generator) Option {
	return func(c *Coordinator) { c.ids = g }
}

// WithLogger sets the coordinator's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithOnChange registers a hook invoked with the new tree after every
// replacement. The hook runs outside the coordinator's lock and must
// not call back into write operations synchronously.
func WithOnChange(fn func(board.Board)) Option {
	return func(c *Coordinator) { c.onChange = fn }
}

// New creates a Coordinator writing through the given remote.
func New(remote Remote, opts ...Option) *Coordinator {
	c := &Coordinator{
		remote: remote,
		ids:    identity.NewAllocator(),
		notify: NopNotifier{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUser sets the current-user identity. An empty id marks the session
// unauthenticated; every write is then refused before reaching the
// remote.
func (c *Coordinator) SetUser(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
}

// SetBoard replaces the active tree wholesale, e.g. when the user opens
// a different board.
func (c *Coordinator) SetBoard(tree board.Board) {
	c.mu.Lock()
	c.tree = tree.Clone()
	c.active = true
	cb, snapshot := c.onChange, c.tree
	c.mu.Unlock()
	if cb != nil {
		cb(snapshot)
	}
}

// Tree returns a deep copy of the active tree. The second return is
// false when no board is active.
func (c *Coordinator) Tree() (board.Board, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree.Clone(), c.active
}

// CreateBoard creates a new empty board, makes it active, and persists
// it. The previous active tree is restored on failure.
func (c *Coordinator) CreateBoard(ctx context.Context, name string) (string, error) {
	userID, err := c.requireUser("create board")
	if err != nil {
		return "", err
	}
	tempID := c.ids.NewTempID(identity.KindBoard)

	c.mu.Lock()
	prev, wasActive := c.tree, c.active
	c.replaceLocked(board.Board{
		ID:      tempID,
		Name:    name,
		OwnerID: userID,
		Columns: []board.Column{},
		Labels:  []board.Label{},
	})
	c.mu.Unlock()

	realID, err := c.remote.CreateBoard(ctx, name, userID)
	if err != nil {
		c.mu.Lock()
		c.tree, c.active = prev, wasActive
		c.mu.Unlock()
		return "", c.fail("create board", tempID, err)
	}
	c.finalize(tempID, realID)
	return realID, nil
}

// RenameBoard renames the active board, restoring the prior name if the
// remote update rejects.
func (c *Coordinator) RenameBoard(ctx context.Context, name string) error {
	if _, err := c.requireUser("rename board"); err != nil {
		return err
	}

	c.mu.Lock()
	boardID, prevName := c.tree.ID, c.tree.Name
	next, err := board.RenameBoard(c.tree, name)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.replaceLocked(next)
	c.mu.Unlock()

	if err := c.remote.UpdateBoard(ctx, boardID, name); err != nil {
		c.rollback("rename board", func(t board.Board) (board.Board, error) {
			return board.RenameBoard(t, prevName)
		})
		return c.fail("rename board", boardID, err)
	}
	return nil
}

// DeleteBoard deletes the active board. The remote delete cascades to
// columns, cards and labels; locally the whole tree goes at once, and
// comes back intact if the delete rejects.
func (c *Coordinator) DeleteBoard(ctx context.Context) error {
	if _, err := c.requireUser("delete board"); err != nil {
		return err
	}

	c.mu.Lock()
	prev, wasActive := c.tree, c.active
	boardID := c.tree.ID
	c.tree = board.Board{}
	c.active = false
	cb := c.onChange
	c.mu.Unlock()
	if cb != nil {
		cb(board.Board{})
	}

	if err := c.remote.DeleteBoard(ctx, boardID); err != nil {
		c.mu.Lock()
		c.tree, c.active = prev, wasActive
		cb, snapshot := c.onChange, c.tree
		c.mu.Unlock()
		if cb != nil {
			cb(snapshot)
		}
		return c.fail("delete board", boardID, err)
	}
	return nil
}

// CreateColumn appends a column with the next free position and
// persists it, substituting the server id on success and removing the
// temporary column on failure.
func (c *Coordinator) CreateColumn(ctx context.Context, name string) (string, error) {
	if _, err := c.requireUser("create column"); err != nil {
		return "", err
	}
	tempID := c.ids.NewTempID(identity.KindColumn)

	c.mu.Lock()
	boardID := c.tree.ID
	pos := position.Next(columnPositions(c.tree))
	col := board.Column{ID: tempID, Name: name, Position: pos, Cards: []board.Card{}}
	next, err := board.InsertColumn(c.tree, col)
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	c.replaceLocked(next)
	c.mu.Unlock()

	realID, err := c.remote.CreateColumn(ctx, boardID, name, pos)
	if err != nil {
		c.rollback("create column", func(t board.Board) (board.Board, error) {
			return board.RemoveColumn(t, tempID)
		})
		return "", c.fail("create column", tempID, err)
	}
	c.finalize(tempID, realID)
	return realID, nil
}

// RenameColumn renames a column, restoring the prior name on failure.
func (c *Coordinator) RenameColumn(ctx context.Context, columnID, name string) error {
	if _, err := c.requireUser("rename column"); err != nil {
		return err
	}

	c.mu.Lock()
	i := c.tree.FindColumn(columnID)
	if i < 0 {
		c.mu.Unlock()
		return &board.NotFoundError{Kind: board.KindColumn, ID: columnID, Op: "RenameColumn"}
	}
	prevName := c.tree.Columns[i].Name
	next, err := board.RenameColumn(c.tree, columnID, name)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.replaceLocked(next)
	c.mu.Unlock()

	if err := c.remote.UpdateColumn(ctx, columnID, board.ColumnPatch{Name: &name}); err != nil {
		c.rollback("rename column", func(t board.Board) (board.Board, error) {
			return board.RenameColumn(t, columnID, prevName)
		})
		return c.fail("rename column", columnID, err)
	}
	return nil
}

// DeleteColumn removes a column and its cards. The removed column is
// retained until the remote confirms, so a rejection re-inserts it at
// its prior position.
func (c *Coordinator) DeleteColumn(ctx context.Context, columnID string) error {
	if _, err := c.requireUser("delete column"); err != nil {
		return err
	}

	c.mu.Lock()
	i := c.tree.FindColumn(columnID)
	if i < 0 {
		c.mu.Unlock()
		return &board.NotFoundError{Kind: board.KindColumn, ID: columnID, Op: "DeleteColumn"}
	}
	removed := c.tree.Columns[i].Clone()
	next, err := board.RemoveColumn(c.tree, columnID)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.replaceLocked(next)
	c.mu.Unlock()

	if err := c.remote.DeleteColumn(ctx, columnID); err != nil {
		c.rollback("delete column", func(t board.Board) (board.Board, error) {
			return board.InsertColumn(t, removed)
		})
		return c.fail("delete column", columnID, err)
	}
	return nil
}

// CreateCard appends a card to a column with the next free position and
// persists it. The temporary card is removed if the remote rejects.
func (c *Coordinator) CreateCard(ctx context.Context, columnID, title string) (string, error) {
	if _, err := c.requireUser("create card"); err != nil {
		return "", err
	}
	tempID := c.ids.NewTempID(identity.KindCard)

	c.mu.Lock()
	i := c.tree.FindColumn(columnID)
	if i < 0 {
		c.mu.Unlock()
		return "", &board.NotFoundError{Kind: board.KindColumn, ID: columnID, Op: "CreateCard"}
	}
	pos := position.Next(cardPositions(c.tree.Columns[i]))
	card := board.Card{ID: tempID, Title: title, Position: pos, Labels: []board.CardLabel{}}
	next, err := board.InsertCard(c.tree, columnID, card)
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	c.replaceLocked(next)
	c.mu.Unlock()

	realID, err := c.remote.CreateCard(ctx, columnID, title, pos)
	if err != nil {
		c.rollback("create card", func(t board.Board) (board.Board, error) {
			// The card may have been dragged to another column while
			// the create was in flight; remove it wherever it lives.
			ci, _ := t.FindCard(tempID)
			if ci < 0 {
				return t, nil
			}
			return board.RemoveCard(t, t.Columns[ci].ID, tempID)
		})
		return "", c.fail("create card", tempID, err)
	}
	c.finalize(tempID, realID)
	return realID, nil
}

// UpdateCard applies a partial field update to a card, restoring the
// prior values of exactly the patched fields on failure.
func (c *Coordinator) UpdateCard(ctx context.Context, columnID, cardID string, patch board.CardPatch) error {
	if _, err := c.requireUser("update card"); err != nil {
		return err
	}

	c.mu.Lock()
	i := c.tree.FindColumn(columnID)
	if i < 0 {
		c.mu.Unlock()
		return &board.NotFoundError{Kind: board.KindColumn, ID: columnID, Op: "UpdateCard"}
	}
	j := -1
	for idx := range c.tree.Columns[i].Cards {
		if c.tree.Columns[i].Cards[idx].ID == cardID {
			j = idx
			break
		}
	}
	if j < 0 {
		c.mu.Unlock()
		return &board.NotFoundError{Kind: board.KindCard, ID: cardID, Op: "UpdateCard"}
	}
	inverse := inversePatch(c.tree.Columns[i].Cards[j], patch)
	next, err := board.UpdateCard(c.tree, columnID, cardID, patch)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.replaceLocked(next)
	c.mu.Unlock()

	if err := c.remote.UpdateCard(ctx, cardID, patch); err != nil {
		c.rollback("update card", func(t board.Board) (board.Board, error) {
			return board.UpdateCard(t, columnID, cardID, inverse)
		})
		return c.fail("update card", cardID, err)
	}
	return nil
}

// DeleteCard removes a card, re-inserting it at its prior position if
// the remote delete rejects.
func (c *Coordinator) DeleteCard(ctx context.Context, columnID, cardID string) error {
	if _, err := c.requireUser("delete card"); err != nil {
		return err
	}

	c.mu.Lock()
	i := c.tree.FindColumn(columnID)
	if i < 0 {
		c.mu.Unlock()
		return &board.NotFoundError{Kind: board.KindColumn, ID: columnID, Op: "DeleteCard"}
	}
	var removed board.Card
	found := false
	for idx := range c.tree.Columns[i].Cards {
		if c.tree.Columns[i].Cards[idx].ID == cardID {
			removed = c.tree.Columns[i].Cards[idx].Clone()
			found = true
			break
		}
	}
	if !found {
		c.mu.Unlock()
		return &board.NotFoundError{Kind: board.KindCard, ID: cardID, Op: "DeleteCard"}
	}
	next, err := board.RemoveCard(c.tree, columnID, cardID)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.replaceLocked(next)
	c.mu.Unlock()

	if err := c.remote.DeleteCard(ctx, cardID); err != nil {
		c.rollback("delete card", func(t board.Board) (board.Board, error) {
			return board.InsertCard(t, columnID, removed)
		})
		return c.fail("delete card", cardID, err)
	}
	return nil
}

// CreateLabel adds a label to the board's label set and persists it.
func (c *Coordinator) CreateLabel(ctx context.Context, name, color string) (string, error) {
	if _, err := c.requireUser("create label"); err != nil {
		return "", err
	}
	tempID := c.ids.NewTempID(identity.KindLabel)

	c.mu.Lock()
	boardID := c.tree.ID
	next, err := board.InsertLabel(c.tree, board.Label{ID: tempID, Name: name, Color: color})
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	c.replaceLocked(next)
	c.mu.Unlock()

	realID, err := c.remote.CreateLabel(ctx, boardID, name, color)
	if err != nil {
		c.rollback("create label", func(t board.Board) (board.Board, error) {
			return board.RemoveLabel(t, tempID)
		})
		return "", c.fail("create label", tempID, err)
	}
	c.finalize(tempID, realID)
	return realID, nil
}

// CreateLabelOnCard creates a label and assigns it to a card in one
// user action: the optimistic tree shows the label on the card
// immediately, then the create and assign mutations run in sequence.
// A create failure removes both the label and the assignment; an
// assign failure removes only the assignment, leaving the created
// label in the board's set.
func (c *Coordinator) CreateLabelOnCard(ctx context.Context, cardID, name, color string) (string, error) {
	if _, err := c.requireUser("create label"); err != nil {
		return "", err
	}
	tempID := c.ids.NewTempID(identity.KindLabel)
	label := board.Label{ID: tempID, Name: name, Color: color}

	c.mu.Lock()
	boardID := c.tree.ID
	next, err := board.InsertLabel(c.tree, label)
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	next, err = board.AssignLabel(next, cardID, label)
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	c.replaceLocked(next)
	c.mu.Unlock()

	realID, err := c.remote.CreateLabel(ctx, boardID, name, color)
	if err != nil {
		c.rollback("create label", func(t board.Board) (board.Board, error) {
			t, _ = board.UnassignLabel(t, cardID, tempID)
			return board.RemoveLabel(t, tempID)
		})
		return "", c.fail("create label", tempID, err)
	}
	c.finalize(tempID, realID)

	if err := c.remote.AssignLabel(ctx, cardID, realID); err != nil {
		c.rollback("assign label", func(t board.Board) (board.Board, error) {
			return board.UnassignLabel(t, cardID, realID)
		})
		return realID, c.fail("assign label", realID, err)
	}
	return realID, nil
}

// DeleteLabel removes a label from the board and every assignment
// referencing it, in one transition. The remote delete cascades the
// same way server-side. On failure the label and all of its captured
// assignments come back.
func (c *Coordinator) DeleteLabel(ctx context.Context, labelID string) error {
	if _, err := c.requireUser("delete label"); err != nil {
		return err
	}

	c.mu.Lock()
	li := c.tree.FindLabel(labelID)
	if li < 0 {
		c.mu.Unlock()
		return &board.NotFoundError{Kind: board.KindLabel, ID: labelID, Op: "DeleteLabel"}
	}
	removed := c.tree.Labels[li]
	var assignments []board.CardLabel
	for _, col := range c.tree.Columns {
		for _, card := range col.Cards {
			for _, cl := range card.Labels {
				if cl.Label.ID == labelID {
					assignments = append(assignments, cl)
				}
			}
		}
	}
	next, err := board.RemoveLabel(c.tree, labelID)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.replaceLocked(next)
	c.mu.Unlock()

	if err := c.remote.DeleteLabel(ctx, labelID); err != nil {
		c.rollback("delete label", func(t board.Board) (board.Board, error) {
			t, err := board.InsertLabel(t, removed)
			if err != nil {
				return t, err
			}
			for _, cl := range assignments {
				t, _ = board.AssignLabel(t, cl.CardID, cl.Label)
			}
			return t, nil
		})
		return c.fail("delete label", labelID, err)
	}
	return nil
}

// AssignLabel assigns an existing board label to a card, removing the
// assignment again if the remote rejects.
func (c *Coordinator) AssignLabel(ctx context.Context, cardID, labelID string) error {
	if _, err := c.requireUser("assign label"); err != nil {
		return err
	}

	c.mu.Lock()
	li := c.tree.FindLabel(labelID)
	if li < 0 {
		c.mu.Unlock()
		return &board.NotFoundError{Kind: board.KindLabel, ID: labelID, Op: "AssignLabel"}
	}
	label := c.tree.Labels[li]
	next, err := board.AssignLabel(c.tree, cardID, label)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.replaceLocked(next)
	c.mu.Unlock()

	if err := c.remote.AssignLabel(ctx, cardID, labelID); err != nil {
		c.rollback("assign label", func(t board.Board) (board.Board, error) {
			return board.UnassignLabel(t, cardID, labelID)
		})
		return c.fail("assign label", labelID, err)
	}
	return nil
}

// UnassignLabel removes a label assignment from a card, restoring it if
// the remote rejects.
func (c *Coordinator) UnassignLabel(ctx context.Context, cardID, labelID string) error {
	if _, err := c.requireUser("unassign label"); err != nil {
		return err
	}

	c.mu.Lock()
	var removed board.CardLabel
	if ci, cj := c.tree.FindCard(cardID); ci >= 0 {
		for _, cl := range c.tree.Columns[ci].Cards[cj].Labels {
			if cl.Label.ID == labelID {
				removed = cl
				break
			}
		}
	}
	next, err := board.UnassignLabel(c.tree, cardID, labelID)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.replaceLocked(next)
	c.mu.Unlock()

	if err := c.remote.UnassignLabel(ctx, cardID, labelID); err != nil {
		c.rollback("unassign label", func(t board.Board) (board.Board, error) {
			return board.AssignLabel(t, cardID, removed.Label)
		})
		return c.fail("unassign label", labelID, err)
	}
	return nil
}

// ReorderColumns rearranges the board's columns into the given id order
// and persists every column's relabeled position sequentially. The
// reorder is best-effort: failed writes are collected and reported once
// as a PartialReorderError, remaining writes still proceed, and nothing
// is rolled back - the next subscription snapshot corrects divergence.
func (c *Coordinator) ReorderColumns(ctx context.Context, orderedIDs []string) error {
	if _, err := c.requireUser("reorder columns"); err != nil {
		return err
	}

	c.mu.Lock()
	next, err := board.ReorderColumns(c.tree, orderedIDs)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.replaceLocked(next)
	cols := make([]board.Column, len(next.Columns))
	copy(cols, next.Columns)
	c.mu.Unlock()

	failed := map[string]error{}
	for _, col := range cols {
		pos := col.Position
		if err := c.remote.UpdateColumn(ctx, col.ID, board.ColumnPatch{Position: &pos}); err != nil {
			failed[col.ID] = err
		}
	}
	if len(failed) > 0 {
		perr := &PartialReorderError{Failed: failed}
		c.notify.Notify("reorder columns", perr)
		return perr
	}
	return nil
}

// MoveCard splices a card from the source column to destIndex in the
// destination column, relabels both columns' cards densely, and
// persists every affected card's position - the moved card's update
// also carries its new column ownership. Persistence is sequential and
// best-effort, as in ReorderColumns.
func (c *Coordinator) MoveCard(ctx context.Context, fromColumnID, toColumnID, cardID string, destIndex int) error {
	if _, err := c.requireUser("move card"); err != nil {
		return err
	}

	c.mu.Lock()
	next, err := board.MoveCard(c.tree, fromColumnID, toColumnID, cardID, destIndex)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.replaceLocked(next)
	var src, dst board.Column
	if i := next.FindColumn(fromColumnID); i >= 0 {
		src = next.Columns[i].Clone()
	}
	if i := next.FindColumn(toColumnID); i >= 0 {
		dst = next.Columns[i].Clone()
	}
	c.mu.Unlock()

	crossColumn := fromColumnID != toColumnID
	failed := map[string]error{}
	persist := func(col board.Column) {
		for _, card := range col.Cards {
			pos := card.Position
			patch := board.CardPatch{Position: &pos}
			if crossColumn && card.ID == cardID {
				colID := toColumnID
				patch.ColumnID = &colID
			}
			if err := c.remote.UpdateCard(ctx, card.ID, patch); err != nil {
				failed[card.ID] = err
			}
		}
	}
	persist(src)
	if crossColumn {
		persist(dst)
	}

	if len(failed) > 0 {
		perr := &PartialReorderError{Failed: failed}
		c.notify.Notify("move card", perr)
		return perr
	}
	return nil
}

// ApplySnapshot reconciles an authoritative boards-for-user snapshot
// with the local state. The active board's tree is merged by id; local
// entities whose creations are still pending survive the merge. A
// confirmed active board absent from the snapshot was deleted
// externally, which deactivates the session's tree.
func (c *Coordinator) ApplySnapshot(boards []board.Board) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	if identity.IsTempID(c.tree.ID) {
		// Creation still in flight; the snapshot cannot name this
		// board yet.
		c.mu.Unlock()
		return
	}
	var match *board.Board
	for i := range boards {
		if boards[i].ID == c.tree.ID {
			match = &boards[i]
			break
		}
	}
	if match == nil {
		c.tree = board.Board{}
		c.active = false
		cb := c.onChange
		c.mu.Unlock()
		c.logger.Info("active board removed by snapshot")
		if cb != nil {
			cb(board.Board{})
		}
		return
	}
	c.replaceLocked(board.MergeSnapshot(c.tree, *match))
	cb, snapshot := c.onChange, c.tree
	c.mu.Unlock()
	if cb != nil {
		cb(snapshot)
	}
}

// requireUser refuses the operation when no user identity is set.
// The refusal surfaces through the Notifier like any other failure.
func (c *Coordinator) requireUser(op string) (string, error) {
	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()
	if userID == "" {
		c.notify.Notify(op, ErrUnauthenticated)
		return "", ErrUnauthenticated
	}
	return userID, nil
}

// replaceLocked publishes a new tree. Caller holds the mutex.
func (c *Coordinator) replaceLocked(next board.Board) {
	c.tree = next
	c.active = true
}

// finalize substitutes a confirmed id for a temporary one. A no-op when
// the temporary id is already gone (e.g. a snapshot delivered the
// confirmed entity first).
func (c *Coordinator) finalize(tempID, realID string) {
	c.mu.Lock()
	c.tree = board.Substitute(c.tree, tempID, realID)
	cb, snapshot := c.onChange, c.tree
	c.mu.Unlock()
	c.logger.Debug("finalized creation", "temp_id", tempID, "real_id", realID)
	if cb != nil {
		cb(snapshot)
	}
}

// rollback applies an inverse transition after a remote failure. The
// inverse may itself miss its target if a snapshot rewrote the tree in
// the meantime; that is tolerated and logged, never fatal.
func (c *Coordinator) rollback(op string, inverse func(board.Board) (board.Board, error)) {
	c.mu.Lock()
	next, err := inverse(c.tree)
	if err == nil {
		c.tree = next
	}
	cb, snapshot := c.onChange, c.tree
	c.mu.Unlock()
	if err != nil {
		c.logger.Debug("rollback target gone", "op", op, "err", err)
	}
	if cb != nil {
		cb(snapshot)
	}
}

// fail wraps a remote rejection, notifies the user, and returns the
// wrapped error.
func (c *Coordinator) fail(op, id string, err error) error {
	rerr := &RemoteError{Op: op, ID: id, Err: err}
	c.notify.Notify(op, rerr)
	c.logger.Warn("remote mutation failed", "op", op, "id", id, "err", err)
	return rerr
}

// columnPositions extracts the ordered position keys of a board's
// columns.
func columnPositions(tree board.Board) []float64 {
	out := make([]float64, len(tree.Columns))
	for i, col := range tree.Columns {
		out[i] = col.Position
	}
	return out
}

// cardPositions extracts the ordered position keys of a column's cards.
func cardPositions(col board.Column) []float64 {
	out := make([]float64, len(col.Cards))
	for i, card := range col.Cards {
		out[i] = card.Position
	}
	return out
}
