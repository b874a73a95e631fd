package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/boardflow/internal/board"
	"github.com/roach88/boardflow/internal/identity"
	"github.com/roach88/boardflow/internal/optimistic"
	"github.com/roach88/boardflow/internal/testutil"
)

// DemoResult is the JSON payload of the demo command.
type DemoResult struct {
	Tree          *board.Board `json:"tree"`
	Calls         int          `json:"calls"`
	Notifications []string     `json:"notifications"`
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	opts := rootOpts

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted optimistic session",
		Long: `Run a scripted board session through the optimistic coordinator
against a deterministic in-memory remote, then print the resulting tree.

The script builds a small sprint board, moves a card across columns, and
injects one remote failure so the rollback path is visible in the output.

Examples:
  boardflow demo
  boardflow demo --format json
  boardflow demo --verbose`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, cmd)
		},
	}

	return cmd
}

func runDemo(opts *RootOptions, cmd *cobra.Command) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	remote := testutil.NewRecordingRemote()
	notifier := &testutil.CollectingNotifier{}
	coord := optimistic.New(remote,
		optimistic.WithGenerator(identity.NewSequenceGenerator()),
		optimistic.WithNotifier(notifier),
		optimistic.WithLogger(logger),
	)

	coord.SetUser("demo-user")

	if _, err := coord.CreateBoard(ctx, "sprint"); err != nil {
		return WrapExitError(ExitFailure, "create board", err)
	}
	todoID, err := coord.CreateColumn(ctx, "todo")
	if err != nil {
		return WrapExitError(ExitFailure, "create column", err)
	}
	doingID, err := coord.CreateColumn(ctx, "doing")
	if err != nil {
		return WrapExitError(ExitFailure, "create column", err)
	}
	if _, err := coord.CreateColumn(ctx, "done"); err != nil {
		return WrapExitError(ExitFailure, "create column", err)
	}

	cardID, err := coord.CreateCard(ctx, todoID, "wire the demo")
	if err != nil {
		return WrapExitError(ExitFailure, "create card", err)
	}
	if _, err := coord.CreateCard(ctx, todoID, "ship it"); err != nil {
		return WrapExitError(ExitFailure, "create card", err)
	}
	if _, err := coord.CreateLabelOnCard(ctx, cardID, "urgent", "#ff0000"); err != nil {
		return WrapExitError(ExitFailure, "label card", err)
	}
	if err := coord.MoveCard(ctx, todoID, doingID, cardID, 0); err != nil {
		return WrapExitError(ExitFailure, "move card", err)
	}

	// One injected failure: the optimistic card appears, the remote
	// refuses it, and the rollback removes it again.
	remote.FailNext("CreateCard", errors.New("network down"))
	_, failErr := coord.CreateCard(ctx, doingID, "doomed")

	tree, ok := coord.Tree()
	if !ok {
		return NewExitError(ExitFailure, "no active board after demo run")
	}

	result := DemoResult{
		Tree:  &tree,
		Calls: len(remote.Calls()),
	}
	for _, e := range notifier.Events() {
		result.Notifications = append(result.Notifications, fmt.Sprintf("%s: %v", e.Op, e.Err))
	}

	if opts.Format == "json" {
		return writeEnvelope(cmd.OutOrStdout(), okEnvelope(result))
	}
	return outputDemoText(cmd, result, failErr)
}

func outputDemoText(cmd *cobra.Command, result DemoResult, failErr error) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Board: %s\n", result.Tree.Name)
	for _, col := range result.Tree.Columns {
		fmt.Fprintf(w, "  [%s]\n", col.Name)
		for _, c := range col.Cards {
			fmt.Fprintf(w, "    - %s\n", c.Title)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Remote calls: %d\n", result.Calls)
	if failErr != nil {
		fmt.Fprintf(w, "Injected failure rolled back: %v\n", failErr)
	}
	fmt.Fprintln(w)

	data, err := json.MarshalIndent(result.Tree, "", "  ")
	if err != nil {
		return WrapExitError(ExitFailure, "marshal tree", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
