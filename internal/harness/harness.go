package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/boardflow/internal/board"
	"github.com/roach88/boardflow/internal/identity"
	"github.com/roach88/boardflow/internal/optimistic"
	"github.com/roach88/boardflow/internal/testutil"
)

// Result captures everything a scenario produced: the final tree, the
// remote call trace in invocation order, the collected failure
// notifications, and the error each step returned (if any).
type Result struct {
	// Tree is the final board tree. Nil when no board is active.
	Tree *board.Board

	// Calls is the remote call trace.
	Calls []testutil.Call

	// Notifications are the user-visible failure reports, in order.
	Notifications []testutil.Notification

	// StepErrors holds one entry per step that returned an error,
	// formatted "steps[i] op: message".
	StepErrors []string
}

// Run executes a scenario against a scripted remote. Execution is
// deterministic: temporary ids come from a sequence generator and
// server ids from the remote's fixed "srv-N" sequence, so two runs of
// the same scenario produce identical results.
func Run(scenario *Scenario) (*Result, error) {
	remote := testutil.NewRecordingRemote()
	notifier := &testutil.CollectingNotifier{}
	coord := optimistic.New(remote,
		optimistic.WithNotifier(notifier),
		optimistic.WithGenerator(identity.NewSequenceGenerator()),
		optimistic.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	if scenario.User != "" {
		coord.SetUser(scenario.User)
	}
	if scenario.Seed != nil {
		seed, err := buildBoard(*scenario.Seed)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		coord.SetBoard(seed)
	}

	result := &Result{}
	ctx := context.Background()

	for i, step := range scenario.Steps {
		if step.ID != "" {
			remote.QueueID(step.ID)
		}
		if step.Fail != "" {
			op := step.FailOp
			if op == "" {
				op = primaryRemoteOp(step.Op)
			}
			if op == "" {
				return nil, fmt.Errorf("steps[%d]: op %q cannot fail", i, step.Op)
			}
			remote.FailNext(op, errors.New(step.Fail))
		}

		if err := runStep(ctx, coord, step); err != nil {
			result.StepErrors = append(result.StepErrors,
				fmt.Sprintf("steps[%d] %s: %v", i, step.Op, err))
		}
	}

	if tree, ok := coord.Tree(); ok {
		result.Tree = &tree
	}
	result.Calls = remote.Calls()
	result.Notifications = notifier.Events()
	return result, nil
}

// runStep dispatches one step to the coordinator.
func runStep(ctx context.Context, coord *optimistic.Coordinator, step Step) error {
	switch step.Op {
	case OpSetUser:
		coord.SetUser(step.Name)
		return nil
	case OpSignOut:
		coord.SetUser("")
		return nil
	case OpCreateBoard:
		_, err := coord.CreateBoard(ctx, step.Name)
		return err
	case OpRenameBoard:
		return coord.RenameBoard(ctx, step.Name)
	case OpDeleteBoard:
		return coord.DeleteBoard(ctx)
	case OpCreateColumn:
		_, err := coord.CreateColumn(ctx, step.Name)
		return err
	case OpRenameColumn:
		return coord.RenameColumn(ctx, step.Column, step.Name)
	case OpDeleteColumn:
		return coord.DeleteColumn(ctx, step.Column)
	case OpReorderColumns:
		return coord.ReorderColumns(ctx, step.Order)
	case OpCreateCard:
		_, err := coord.CreateCard(ctx, step.Column, step.Title)
		return err
	case OpUpdateCard:
		patch, err := buildPatch(step.Patch)
		if err != nil {
			return err
		}
		return coord.UpdateCard(ctx, step.Column, step.Card, patch)
	case OpDeleteCard:
		return coord.DeleteCard(ctx, step.Column, step.Card)
	case OpMoveCard:
		return coord.MoveCard(ctx, step.From, step.To, step.Card, step.Index)
	case OpCreateLabel:
		_, err := coord.CreateLabel(ctx, step.Name, step.Color)
		return err
	case OpLabelCard:
		_, err := coord.CreateLabelOnCard(ctx, step.Card, step.Name, step.Color)
		return err
	case OpDeleteLabel:
		return coord.DeleteLabel(ctx, step.Label)
	case OpAssignLabel:
		return coord.AssignLabel(ctx, step.Card, step.Label)
	case OpUnassignLabel:
		return coord.UnassignLabel(ctx, step.Card, step.Label)
	case OpApplySnapshot:
		boards := make([]board.Board, 0, len(step.Boards))
		for _, seed := range step.Boards {
			b, err := buildBoard(seed)
			if err != nil {
				return err
			}
			boards = append(boards, b)
		}
		coord.ApplySnapshot(boards)
		return nil
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

// buildPatch converts the YAML patch shape to a card patch.
func buildPatch(spec *PatchSpec) (board.CardPatch, error) {
	if spec == nil {
		return board.CardPatch{}, nil
	}
	patch := board.CardPatch{
		Title:        spec.Title,
		Description:  spec.Description,
		ClearDueDate: spec.ClearDueDate,
		Position:     spec.Position,
	}
	if spec.DueDate != nil {
		t, err := time.Parse(time.RFC3339, *spec.DueDate)
		if err != nil {
			return board.CardPatch{}, fmt.Errorf("parse due_date: %w", err)
		}
		patch.DueDate = &t
	}
	return patch, nil
}

// primaryRemoteOp maps a step op to the remote operation its Fail field
// scripts. Steps that issue several call kinds use fail_op instead.
func primaryRemoteOp(op string) string {
	switch op {
	case OpCreateBoard:
		return "CreateBoard"
	case OpRenameBoard:
		return "UpdateBoard"
	case OpDeleteBoard:
		return "DeleteBoard"
	case OpCreateColumn:
		return "CreateColumn"
	case OpRenameColumn, OpReorderColumns:
		return "UpdateColumn"
	case OpDeleteColumn:
		return "DeleteColumn"
	case OpCreateCard:
		return "CreateCard"
	case OpUpdateCard, OpMoveCard:
		return "UpdateCard"
	case OpDeleteCard:
		return "DeleteCard"
	case OpCreateLabel, OpLabelCard:
		return "CreateLabel"
	case OpDeleteLabel:
		return "DeleteLabel"
	case OpAssignLabel:
		return "AssignLabel"
	case OpUnassignLabel:
		return "UnassignLabel"
	default:
		return ""
	}
}
