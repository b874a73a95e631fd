package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/boardflow/internal/harness"
)

// ReplayScenarioResult holds the replay outcome for a single scenario file.
type ReplayScenarioResult struct {
	Scenario   string          `json:"scenario"`
	Path       string          `json:"path"`
	Calls      int             `json:"calls"`
	StepErrors []string        `json:"step_errors,omitempty"`
	Clean      bool            `json:"clean"`
	Result     json.RawMessage `json:"result,omitempty"` // full result, verbose only
}

// ReplayResult holds the overall replay outcome.
type ReplayResult struct {
	Scenarios      []ReplayScenarioResult `json:"scenarios"`
	TotalScenarios int                    `json:"total_scenarios"`
	AllClean       bool                   `json:"all_clean"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := rootOpts

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>...",
		Short: "Replay board scenarios against an in-memory remote",
		Long: `Replay one or more YAML scenario files through the optimistic
coordinator against a deterministic in-memory remote.

Each scenario seeds a board tree, runs its steps in order, and reports
the remote calls made and any steps that were rolled back. A scenario
is clean when every step committed.

Exit codes:
  0 - All scenarios ran clean
  1 - At least one step failed and was rolled back
  2 - Command error (file not found, malformed scenario, etc.)

Examples:
  boardflow replay scenario.yaml
  boardflow replay scenarios/*.yaml --format json
  boardflow replay scenario.yaml --verbose`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioReplay(opts, args, cmd)
		},
	}

	return cmd
}

func runScenarioReplay(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	result := ReplayResult{
		Scenarios:      make([]ReplayScenarioResult, 0, len(paths)),
		TotalScenarios: len(paths),
		AllClean:       true,
	}

	for _, path := range paths {
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load %s", path), err)
		}

		run, err := harness.Run(scenario)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to run %s", scenario.Name), err)
		}

		sr := ReplayScenarioResult{
			Scenario:   scenario.Name,
			Path:       path,
			Calls:      len(run.Calls),
			StepErrors: run.StepErrors,
			Clean:      len(run.StepErrors) == 0,
		}
		if opts.Verbose {
			data, err := harness.MarshalResult(scenario.Name, run)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to marshal result", err)
			}
			sr.Result = data
		}

		result.Scenarios = append(result.Scenarios, sr)
		if !sr.Clean {
			result.AllClean = false
		}
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, result)
	}
	return outputReplayText(cmd, result, opts.Verbose)
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(cmd *cobra.Command, result ReplayResult) error {
	env := okEnvelope(result)
	if !result.AllClean {
		env = errorEnvelope(CodeScenarioFailed, "one or more scenario steps failed", result)
	}
	if err := writeEnvelope(cmd.OutOrStdout(), env); err != nil {
		return err
	}

	if !result.AllClean {
		return NewExitError(ExitFailure, "one or more scenario steps failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d scenario(s)\n", result.TotalScenarios)
	fmt.Fprintln(w)

	for _, s := range result.Scenarios {
		status := "✓"
		if !s.Clean {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Scenario: %s\n", status, s.Scenario)
		fmt.Fprintf(w, "  Remote calls: %d\n", s.Calls)
		for _, stepErr := range s.StepErrors {
			fmt.Fprintf(w, "  Rolled back: %s\n", stepErr)
		}
		if verbose && len(s.Result) > 0 {
			fmt.Fprintln(w, "  Result:")
			fmt.Fprintln(w, string(s.Result))
		}
		fmt.Fprintln(w)
	}

	if result.AllClean {
		fmt.Fprintln(w, "✓ All scenarios ran clean")
		return nil
	}

	fmt.Fprintln(w, "✗ One or more scenario steps failed")
	return NewExitError(ExitFailure, "one or more scenario steps failed")
}
