package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanScenario = `
name: clean_run
description: every step commits
user: user-1
seed:
  id: B
  name: sprint
  columns:
    - id: C1
      name: todo
steps:
  - op: create_card
    column: C1
    title: first
`

const failingScenario = `
name: rollback_run
description: the create is refused and rolled back
user: user-1
seed:
  id: B
  name: sprint
  columns:
    - id: C1
      name: todo
steps:
  - op: create_card
    column: C1
    title: doomed
    fail: network down
`

func writeScenarioFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReplayCommand_CleanScenario(t *testing.T) {
	path := writeScenarioFile(t, cleanScenario)

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"replay", path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "✓ Scenario: clean_run")
	assert.Contains(t, out.String(), "All scenarios ran clean")
}

func TestReplayCommand_StepErrorExitsNonzero(t *testing.T) {
	path := writeScenarioFile(t, failingScenario)

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"replay", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out.String(), "✗ Scenario: rollback_run")
	assert.Contains(t, out.String(), "Rolled back:")
}

func TestReplayCommand_JSONOutput(t *testing.T) {
	path := writeScenarioFile(t, failingScenario)

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"replay", path, "--format", "json"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var env Envelope
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))
	assert.Equal(t, "error", env.Status)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeScenarioFailed, env.Error.Code)
	require.NotNil(t, env.Data, "a failed replay still reports its step detail")
}

func TestReplayCommand_VerboseIncludesFullResult(t *testing.T) {
	path := writeScenarioFile(t, cleanScenario)

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"replay", path, "--verbose"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"scenario": "clean_run"`)
	assert.Contains(t, out.String(), `"calls"`)
}

func TestReplayCommand_MissingFileIsCommandError(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"replay", "/nonexistent/scenario.yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplayCommand_MalformedScenarioIsCommandError(t *testing.T) {
	path := writeScenarioFile(t, "name: typo\ndescription: d\nstep:\n  - op: sign_out\n")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"replay", path})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
