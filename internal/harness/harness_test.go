package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario under testdata/scenarios against
// its golden file.
func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario files found")

	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestRun_StepErrorsDoNotAbort(t *testing.T) {
	scenario := &Scenario{
		Name:        "continue_after_error",
		Description: "later steps still run after an earlier step fails",
		User:        "user-1",
		Seed: &SeedBoard{
			ID:   "B",
			Name: "b",
			Columns: []SeedColumn{
				{ID: "C1", Name: "todo"},
			},
		},
		Steps: []Step{
			{Op: OpCreateCard, Column: "ghost", Title: "x"},
			{Op: OpCreateCard, Column: "C1", Title: "y"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.Len(t, result.StepErrors, 1)
	assert.Contains(t, result.StepErrors[0], "steps[0]")
	require.NotNil(t, result.Tree)
	assert.Len(t, result.Tree.Columns[0].Cards, 1)
}

func TestRun_SignOutMidScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "sign_out",
		Description: "writes after sign-out are refused",
		User:        "user-1",
		Seed:        &SeedBoard{ID: "B", Name: "b"},
		Steps: []Step{
			{Op: OpSignOut},
			{Op: OpRenameBoard, Name: "nope"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.Empty(t, result.Calls)
	require.Len(t, result.Notifications, 1)
	assert.Equal(t, "b", result.Tree.Name)
}

func TestRun_QueuedServerID(t *testing.T) {
	scenario := &Scenario{
		Name:        "queued_id",
		Description: "a step can pin the server id a creation returns",
		User:        "user-1",
		Seed: &SeedBoard{
			ID:      "B",
			Name:    "b",
			Columns: []SeedColumn{{ID: "C1", Name: "todo"}},
		},
		Steps: []Step{
			{Op: OpCreateCard, Column: "C1", Title: "x", ID: "card-42"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result.Tree)
	assert.Equal(t, "card-42", result.Tree.Columns[0].Cards[0].ID)
}

func TestLoadScenario_RejectsUnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: unknown top-level key
step:
  - op: create_board
    name: x
`)
	_, err := LoadScenario(path)
	assert.Error(t, err, "misspelled 'steps' must be rejected")
}

func TestLoadScenario_RejectsUnknownOp(t *testing.T) {
	path := writeScenario(t, `
name: bad_op
description: op not in the operation set
steps:
  - op: transmogrify
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown op")
}

func TestLoadScenario_RequiresNameAndSteps(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, `
description: no name
steps:
  - op: sign_out
`))
	assert.Error(t, err)

	_, err = LoadScenario(writeScenario(t, `
name: empty
description: no steps
`))
	assert.Error(t, err)
}

func TestBuildBoard_RejectsUnknownLabelReference(t *testing.T) {
	_, err := buildBoard(SeedBoard{
		ID:   "B",
		Name: "b",
		Columns: []SeedColumn{
			{ID: "C1", Name: "todo", Cards: []SeedCard{
				{ID: "a", Title: "a", Labels: []string{"ghost"}},
			}},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown label")
}

func TestBuildBoard_AssignsPositionsFromOrder(t *testing.T) {
	b, err := buildBoard(SeedBoard{
		ID:   "B",
		Name: "b",
		Columns: []SeedColumn{
			{ID: "C1", Name: "one", Cards: []SeedCard{
				{ID: "a", Title: "a"},
				{ID: "b", Title: "b"},
			}},
			{ID: "C2", Name: "two"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, b.Columns[0].Position)
	assert.Equal(t, 2000.0, b.Columns[1].Position)
	assert.Equal(t, 1000.0, b.Columns[0].Cards[0].Position)
	assert.Equal(t, 2000.0, b.Columns[0].Cards[1].Position)
}

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}
