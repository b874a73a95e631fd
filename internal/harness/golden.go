package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/boardflow/internal/board"
	"github.com/roach88/boardflow/internal/testutil"
)

// snapshot is the golden-file shape of a scenario result.
type snapshot struct {
	Scenario      string         `json:"scenario"`
	Tree          *board.Board   `json:"tree"`
	Calls         []callSnapshot `json:"calls"`
	Notifications []string       `json:"notifications"`
	StepErrors    []string       `json:"step_errors,omitempty"`
}

type callSnapshot struct {
	Op   string         `json:"op"`
	ID   string         `json:"id,omitempty"`
	Args map[string]any `json:"args,omitempty"`
}

// RunWithGolden executes a scenario and compares the result against a
// golden file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	data, err := MarshalResult(scenario.Name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}

// MarshalResult renders a result as stable, indented JSON. Map keys are
// sorted by the encoder, ids are sequence-generated, and notification
// errors are flattened to strings, so output is byte-stable across runs.
func MarshalResult(name string, result *Result) ([]byte, error) {
	snap := snapshot{
		Scenario:      name,
		Tree:          result.Tree,
		Calls:         make([]callSnapshot, len(result.Calls)),
		Notifications: notificationStrings(result.Notifications),
		StepErrors:    result.StepErrors,
	}
	for i, c := range result.Calls {
		snap.Calls[i] = callSnapshot{Op: c.Op, ID: c.ID, Args: c.Args}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return append(data, '\n'), nil
}

func notificationStrings(events []testutil.Notification) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return out
}
